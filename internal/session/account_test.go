package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/tests/testutil"
)

func TestRegisterCreatesAccount(t *testing.T) {
	m, backend, _ := newManager(t, testutil.AdminUser())
	ctx := context.Background()

	if err := m.Register(ctx, "Nuno Alves", "nuno@example.com", "segredo"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if n := backend.RequestCount("POST /auth/register"); n != 1 {
		t.Errorf("register endpoint called %d times", n)
	}
	if m.State() != session.StateAnonymous {
		t.Errorf("state after register = %v, want anonymous", m.State())
	}
}

func TestRequestPasswordReset(t *testing.T) {
	m, backend, _ := newManager(t, testutil.AdminUser())

	if err := m.RequestPasswordReset(context.Background(), "carla@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset: %v", err)
	}
	if n := backend.RequestCount("POST /auth/forgot-password"); n != 1 {
		t.Errorf("forgot-password endpoint called %d times", n)
	}
}

func TestResetPasswordConsumesToken(t *testing.T) {
	m, backend, _ := newManager(t, testutil.AdminUser())
	backend.SetResetToken("reset-123", "carla@example.com")
	ctx := context.Background()

	if err := m.ResetPassword(ctx, "reset-123", "nova-pass", "nova-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if n := backend.RequestCount("POST /auth/validate-reset-token"); n != 1 {
		t.Errorf("validate endpoint called %d times", n)
	}
	if n := backend.RequestCount("POST /auth/reset-password"); n != 1 {
		t.Errorf("reset endpoint called %d times", n)
	}

	// The token is single-use.
	err := m.ResetPassword(ctx, "reset-123", "outra", "outra")
	if !errors.Is(err, api.ErrTokenRejected) {
		t.Errorf("second reset with same token = %v, want rejected", err)
	}
}

func TestResetPasswordWithUnknownToken(t *testing.T) {
	m, backend, _ := newManager(t, testutil.AdminUser())

	err := m.ResetPassword(context.Background(), "nope", "pass", "pass")
	if !errors.Is(err, api.ErrTokenRejected) {
		t.Errorf("ResetPassword with unknown token = %v, want rejected", err)
	}
	if n := backend.RequestCount("POST /auth/reset-password"); n != 0 {
		t.Errorf("reset endpoint reached %d times despite invalid token", n)
	}
}

func TestActivateAccountConsumesToken(t *testing.T) {
	m, backend, _ := newManager(t, testutil.AdminUser())
	backend.SetSetupToken("setup-456", "novo@example.com")
	ctx := context.Background()

	if err := m.ActivateAccount(ctx, "setup-456", "inicial", "inicial"); err != nil {
		t.Fatalf("ActivateAccount: %v", err)
	}
	if n := backend.RequestCount("POST /auth/setup-password"); n != 1 {
		t.Errorf("setup endpoint called %d times", n)
	}

	err := m.ActivateAccount(ctx, "setup-456", "outra", "outra")
	if !errors.Is(err, api.ErrTokenRejected) {
		t.Errorf("reusing setup token = %v, want rejected", err)
	}
}

func TestRestoreMarksCachedAvatar(t *testing.T) {
	backend := testutil.NewBackend(t, testutil.RegularUser())
	client := api.NewClient(backend.URL(), 5*time.Second)
	c := testutil.NewTestCache(t)
	ctx := context.Background()

	if err := c.SaveAvatar(ctx, "user-1", []byte{0x89, 0x50, 0x4e, 0x47}); err != nil {
		t.Fatalf("SaveAvatar: %v", err)
	}

	m := session.NewManager(client, &testutil.MemoryTokenStore{Token: testutil.ValidToken}, c)
	user, ok, err := m.Restore(ctx)
	if err != nil || !ok {
		t.Fatalf("Restore = (%v, %v)", ok, err)
	}
	if user.AvatarRef != session.AvatarRefLocal {
		t.Errorf("AvatarRef = %q, want %q", user.AvatarRef, session.AvatarRefLocal)
	}
}

func TestRestoreWithoutAvatarLeavesRefEmpty(t *testing.T) {
	m, _, tokens := newManager(t, testutil.RegularUser())
	tokens.Token = testutil.ValidToken

	user, ok, err := m.Restore(context.Background())
	if err != nil || !ok {
		t.Fatalf("Restore = (%v, %v)", ok, err)
	}
	if user.AvatarRef != "" {
		t.Errorf("AvatarRef = %q, want empty", user.AvatarRef)
	}
}
