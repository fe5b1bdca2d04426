package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/tests/testutil"
)

func newManager(t *testing.T, me testutil.JSON) (*session.Manager, *testutil.Backend, *testutil.MemoryTokenStore) {
	t.Helper()

	backend := testutil.NewBackend(t, me)
	client := api.NewClient(backend.URL(), 5*time.Second)
	tokens := &testutil.MemoryTokenStore{}
	m := session.NewManager(client, tokens, testutil.NewTestCache(t))
	return m, backend, tokens
}

func TestLoginSuccess(t *testing.T) {
	m, _, tokens := newManager(t, testutil.AdminUser())
	ctx := context.Background()

	if m.State() != session.StateAnonymous {
		t.Fatalf("initial state = %v, want anonymous", m.State())
	}

	user, err := m.Login(ctx, "carla@example.com", "secret", false)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != "admin-1" || user.Role != model.RoleAdmin {
		t.Errorf("logged-in user = %+v", user)
	}
	if m.State() != session.StateAuthenticated {
		t.Errorf("state after login = %v", m.State())
	}
	if !m.IsAdmin() {
		t.Error("IsAdmin() = false for admin principal")
	}
	if tokens.Token != testutil.ValidToken {
		t.Errorf("persisted token = %q", tokens.Token)
	}
}

func TestLoginFailureReturnsToAnonymous(t *testing.T) {
	m, _, tokens := newManager(t, testutil.AdminUser())

	_, err := m.Login(context.Background(), "carla@example.com", "wrong", false)
	if err == nil {
		t.Fatal("Login with bad password succeeded")
	}
	if !api.IsAuthError(err) {
		t.Errorf("error is not an auth error: %v", err)
	}
	if m.State() != session.StateAnonymous {
		t.Errorf("state after failed login = %v, want anonymous", m.State())
	}
	if tokens.Token != "" {
		t.Errorf("token persisted after failed login: %q", tokens.Token)
	}
}

func TestRememberedEmail(t *testing.T) {
	m, _, _ := newManager(t, testutil.AdminUser())
	ctx := context.Background()

	if _, err := m.Login(ctx, "carla@example.com", "secret", true); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if got := m.RememberedEmail(ctx); got != "carla@example.com" {
		t.Errorf("RememberedEmail = %q", got)
	}

	// Logging in without remember clears it.
	m.Logout(ctx)
	if _, err := m.Login(ctx, "carla@example.com", "secret", false); err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if got := m.RememberedEmail(ctx); got != "" {
		t.Errorf("RememberedEmail after unremembered login = %q", got)
	}
}

func TestLogoutClearsSession(t *testing.T) {
	m, _, tokens := newManager(t, testutil.AdminUser())
	ctx := context.Background()

	if _, err := m.Login(ctx, "carla@example.com", "secret", false); err != nil {
		t.Fatalf("Login: %v", err)
	}
	m.Logout(ctx)

	if m.State() != session.StateAnonymous {
		t.Errorf("state after logout = %v", m.State())
	}
	if tokens.Token != "" {
		t.Errorf("token survived logout: %q", tokens.Token)
	}
	if _, ok := m.User(); ok {
		t.Error("User() still set after logout")
	}
}

func TestRestoreFromStoredToken(t *testing.T) {
	m, _, tokens := newManager(t, testutil.RegularUser())
	tokens.Token = testutil.ValidToken

	user, ok, err := m.Restore(context.Background())
	if err != nil || !ok {
		t.Fatalf("Restore = (%v, %v)", ok, err)
	}
	if user.ID != "user-1" {
		t.Errorf("restored user = %+v", user)
	}
	if m.IsAdmin() {
		t.Error("IsAdmin() = true for regular user")
	}
}

func TestRestoreWithExpiredTokenClearsIt(t *testing.T) {
	m, _, tokens := newManager(t, testutil.RegularUser())
	tokens.Token = "stale-token"

	_, ok, err := m.Restore(context.Background())
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if ok {
		t.Error("Restore succeeded with a stale token")
	}
	if tokens.Token != "" {
		t.Errorf("stale token not cleared: %q", tokens.Token)
	}
	if m.State() != session.StateAnonymous {
		t.Errorf("state = %v, want anonymous", m.State())
	}
}

func TestRestoreWithoutToken(t *testing.T) {
	m, backend, _ := newManager(t, testutil.RegularUser())

	_, ok, err := m.Restore(context.Background())
	if err != nil || ok {
		t.Fatalf("Restore with no token = (%v, %v)", ok, err)
	}
	if n := backend.RequestCount("GET /auth/me"); n != 0 {
		t.Errorf("backend called %d times with no token to validate", n)
	}
}

func TestHandleErrorInvalidatesOnAuthFailure(t *testing.T) {
	m, _, tokens := newManager(t, testutil.AdminUser())
	ctx := context.Background()

	if _, err := m.Login(ctx, "carla@example.com", "secret", false); err != nil {
		t.Fatalf("Login: %v", err)
	}

	if m.HandleError(&api.Error{StatusCode: 500, Message: "boom"}) {
		t.Error("HandleError invalidated on a non-auth error")
	}
	if m.State() != session.StateAuthenticated {
		t.Error("non-auth error tore the session down")
	}

	if !m.HandleError(&api.AuthError{Message: "Token inválido"}) {
		t.Error("HandleError did not invalidate on auth error")
	}
	if m.State() != session.StateAnonymous || tokens.Token != "" {
		t.Error("session not fully cleared after auth error")
	}
}

func TestAuthorization(t *testing.T) {
	admin := model.User{ID: "admin-1", Role: model.RoleAdmin}
	member := model.User{ID: "user-1", Role: model.RoleUser}
	task := model.Task{ID: "t1", Status: model.StatusPending, ResponsibleID: "user-1"}

	mAdmin, _, tokensAdmin := newManager(t, testutil.AdminUser())
	tokensAdmin.Token = testutil.ValidToken
	if _, ok, _ := mAdmin.Restore(context.Background()); !ok {
		t.Fatal("restoring admin session")
	}

	mUser, _, tokensUser := newManager(t, testutil.RegularUser())
	tokensUser.Token = testutil.ValidToken
	if _, ok, _ := mUser.Restore(context.Background()); !ok {
		t.Fatal("restoring user session")
	}

	if !mAdmin.CanManageUsers() || !mAdmin.CanCreateTask() || !mAdmin.CanDeleteTask(task) {
		t.Error("admin denied an admin-only permission")
	}
	if mUser.CanManageUsers() || mUser.CanCreateTask() || mUser.CanEditTask(task) {
		t.Error("regular user granted an admin-only permission")
	}

	if !mUser.CanAdvance(task) || !mUser.CanComment(task) {
		t.Error("responsible denied advance/comment on own pending task")
	}

	finished := task
	finished.Status = model.StatusFinished
	if mUser.CanAdvance(finished) {
		t.Error("non-admin allowed to validate a finished task")
	}
	if !mAdmin.CanAdvance(finished) {
		t.Error("admin denied validating a finished task")
	}

	if !mUser.CanChangePasswordOf(member.ID) {
		t.Error("user denied changing own password")
	}
	if mUser.CanChangePasswordOf(admin.ID) {
		t.Error("user allowed to change someone else's password")
	}
	if !mAdmin.CanChangePasswordOf(member.ID) {
		t.Error("admin denied changing another user's password")
	}
}
