package app

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
	gestorasync "github.com/gestora/gestora/internal/sync"
	"github.com/gestora/gestora/internal/ui/login"
	"github.com/gestora/gestora/internal/ui/tasklist"
	"github.com/gestora/gestora/tests/testutil"
)

// newTestApp wires the root model against the fake backend with an
// authenticated session and a sized terminal.
func newTestApp(t *testing.T, me testutil.JSON) (Model, *testutil.Backend) {
	t.Helper()

	backend := testutil.NewBackend(t, me)
	client := api.NewClient(backend.URL(), 5*time.Second)
	c := testutil.NewTestCache(t)

	sess := session.NewManager(client, &testutil.MemoryTokenStore{Token: testutil.ValidToken}, c)
	if _, ok, err := sess.Restore(context.Background()); err != nil || !ok {
		t.Fatalf("establishing test session: ok=%v err=%v", ok, err)
	}

	clock := testutil.NewClock()
	tasks := store.NewTaskStore()
	users := store.NewUserStore()
	notifications := store.NewNotificationStore(clock.Now)
	activityStore := store.NewActivityStore(clock.Now)

	tr := i18n.New("pt")
	feedback := gestorasync.NewFeedback(notifications, sess, tr)
	log := gestorasync.NewActivityLog(activityStore, c)
	taskSvc := gestorasync.NewTaskService(client, sess, tasks, feedback, log, tr)
	userSvc := gestorasync.NewUserService(client, sess, users, feedback, log, tr)
	notifSvc := gestorasync.NewNotificationService(client, sess, notifications, c, feedback, tr)

	m := New(Deps{
		Session:       sess,
		Tasks:         taskSvc,
		Users:         userSvc,
		Notifications: notifSvc,
		Activities:    log,
		Refresher:     gestorasync.NewRefresher(notifSvc, time.Hour),
		TaskStore:     tasks,
		UserStore:     users,
		NotifStore:    notifications,
		Translator:    tr,
	})

	sized, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return sized.(Model), backend
}

func keyPress(m Model, s string) (Model, tea.Cmd) {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestRestoreEntersTaskBoard(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())

	updated, cmd := m.Update(restoredMsg{ok: true})
	m = updated.(Model)

	if m.currentView != ViewTasks {
		t.Fatalf("currentView = %d, want ViewTasks", m.currentView)
	}
	if cmd == nil {
		t.Fatal("expected a data load command after restore")
	}
}

func TestFailedRestoreShowsLogin(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())

	updated, _ := m.Update(restoredMsg{ok: false})
	m = updated.(Model)

	if m.currentView != ViewLogin {
		t.Fatalf("currentView = %d, want ViewLogin", m.currentView)
	}
}

func TestLoginFailureStaysOnLoginView(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewLogin

	updated, _ := m.Update(loginResultMsg{err: context.DeadlineExceeded})
	m = updated.(Model)

	if m.currentView != ViewLogin {
		t.Fatalf("currentView = %d, want ViewLogin after failed login", m.currentView)
	}
}

func TestSectionSwitching(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewTasks

	m, _ = keyPress(m, "2")
	if m.currentView != ViewDashboard {
		t.Fatalf("after '2': currentView = %d, want ViewDashboard", m.currentView)
	}

	m, _ = keyPress(m, "3")
	if m.currentView != ViewUsers {
		t.Fatalf("after '3': currentView = %d, want ViewUsers", m.currentView)
	}

	m, _ = keyPress(m, "1")
	if m.currentView != ViewTasks {
		t.Fatalf("after '1': currentView = %d, want ViewTasks", m.currentView)
	}
}

func TestUserSectionRequiresAdmin(t *testing.T) {
	m, _ := newTestApp(t, testutil.RegularUser())
	m.currentView = ViewTasks

	m, _ = keyPress(m, "3")
	if m.currentView == ViewUsers {
		t.Fatal("regular user must not reach the user management view")
	}
}

func TestSelectTaskOpensDetail(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewTasks
	m.deps.TaskStore.Upsert(model.Task{ID: "task-1", Title: "Inventário", Status: model.StatusPending})

	updated, _ := m.Update(tasklist.SelectedTaskMsg{TaskID: "task-1"})
	m = updated.(Model)

	if m.currentView != ViewDetail {
		t.Fatalf("currentView = %d, want ViewDetail", m.currentView)
	}
	if got := m.detailView.TaskID(); got != "task-1" {
		t.Fatalf("detail task id = %q, want task-1", got)
	}
}

func TestSelectUnknownTaskKeepsListView(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewTasks

	updated, _ := m.Update(tasklist.SelectedTaskMsg{TaskID: "missing"})
	m = updated.(Model)

	if m.currentView != ViewTasks {
		t.Fatalf("currentView = %d, want ViewTasks", m.currentView)
	}
}

func TestDeletedTaskClosesDetail(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())
	m.deps.TaskStore.Upsert(model.Task{ID: "task-1", Title: "Inventário", Status: model.StatusPending})

	updated, _ := m.Update(tasklist.SelectedTaskMsg{TaskID: "task-1"})
	m = updated.(Model)
	m.deps.TaskStore.Remove("task-1")

	updated, _ = m.Update(taskMutatedMsg{taskID: "task-1"})
	m = updated.(Model)

	if m.currentView != ViewTasks {
		t.Fatalf("currentView = %d, want ViewTasks after task disappeared", m.currentView)
	}
}

func TestLoginSubmitRoundTrip(t *testing.T) {
	m, backend := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewLogin

	_, cmd := m.Update(login.SubmitMsg{Email: "carla@example.com", Password: "secret"})
	if cmd == nil {
		t.Fatal("expected a login command")
	}

	msg := cmd()
	result, ok := msg.(loginResultMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want loginResultMsg", msg)
	}
	if result.err != nil {
		t.Fatalf("login failed: %v", result.err)
	}
	if result.user.Email != "carla@example.com" {
		t.Fatalf("logged in as %q", result.user.Email)
	}
	if backend.RequestCount("POST /auth/login") != 1 {
		t.Fatalf("login requests = %d, want 1", backend.RequestCount("POST /auth/login"))
	}
}

func TestForgotPasswordFlowFromLogin(t *testing.T) {
	m, backend := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewLogin

	_, cmd := m.Update(login.ForgotMsg{Email: "carla@example.com"})
	if cmd == nil {
		t.Fatal("expected an account flow command")
	}

	msg := cmd()
	result, ok := msg.(accountFlowMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want accountFlowMsg", msg)
	}
	if result.err != nil {
		t.Fatalf("forgot-password flow failed: %v", result.err)
	}
	if backend.RequestCount("POST /auth/forgot-password") != 1 {
		t.Fatalf("forgot-password requests = %d, want 1",
			backend.RequestCount("POST /auth/forgot-password"))
	}

	updated, _ := m.Update(result)
	m = updated.(Model)
	if m.currentView != ViewLogin {
		t.Fatalf("currentView = %d, want ViewLogin after the flow", m.currentView)
	}
}

func TestResetPasswordFlowFromLogin(t *testing.T) {
	m, backend := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewLogin
	backend.SetResetToken("reset-1", "carla@example.com")

	_, cmd := m.Update(login.ResetMsg{Token: "reset-1", Password: "nova", Confirm: "nova"})
	if cmd == nil {
		t.Fatal("expected an account flow command")
	}

	result, ok := cmd().(accountFlowMsg)
	if !ok {
		t.Fatal("cmd did not return an accountFlowMsg")
	}
	if result.err != nil {
		t.Fatalf("reset flow failed: %v", result.err)
	}
	if backend.RequestCount("POST /auth/reset-password") != 1 {
		t.Fatalf("reset-password requests = %d, want 1",
			backend.RequestCount("POST /auth/reset-password"))
	}
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestApp(t, testutil.AdminUser())
	m.currentView = ViewDashboard

	m, _ = keyPress(m, "?")
	if m.currentView != ViewHelp {
		t.Fatalf("currentView = %d, want ViewHelp", m.currentView)
	}

	m, _ = keyPress(m, "?")
	if m.currentView != ViewDashboard {
		t.Fatalf("currentView = %d, want ViewDashboard restored", m.currentView)
	}
}
