package cache

import (
	"context"
	"testing"
	"time"

	"github.com/gestora/gestora/internal/model"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	c, err := Open(":memory:")
	if err != nil {
		t.Fatalf("opening test cache: %v", err)
	}
	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})
	return c
}

func TestSettingsRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	if err := c.SetSetting(ctx, "remembered_email", "ana@example.com"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	got, err := c.GetSetting(ctx, "remembered_email")
	if err != nil || got != "ana@example.com" {
		t.Errorf("GetSetting = (%q, %v)", got, err)
	}

	// Overwrite.
	if err := c.SetSetting(ctx, "remembered_email", "rui@example.com"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}
	got, _ = c.GetSetting(ctx, "remembered_email")
	if got != "rui@example.com" {
		t.Errorf("after overwrite = %q", got)
	}

	// Missing keys read as absent, not as an error.
	got, err = c.GetSetting(ctx, "missing")
	if err != nil || got != "" {
		t.Errorf("missing key = (%q, %v), want empty", got, err)
	}

	if err := c.DeleteSetting(ctx, "remembered_email"); err != nil {
		t.Fatalf("DeleteSetting: %v", err)
	}
	if got, _ := c.GetSetting(ctx, "remembered_email"); got != "" {
		t.Errorf("setting survived delete: %q", got)
	}
}

func TestNotificationSnapshotRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	base := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	notifications := []model.Notification{
		{ID: "n2", UserID: "u1", Message: "segunda", Type: model.NotificationSuccess, Read: true, CreatedAt: base.Add(time.Minute)},
		{ID: "n1", UserID: "u1", Message: "primeira", Type: model.NotificationInfo, CreatedAt: base},
	}
	if err := c.SaveNotifications(ctx, notifications); err != nil {
		t.Fatalf("SaveNotifications: %v", err)
	}

	got, err := c.LoadNotifications(ctx)
	if err != nil {
		t.Fatalf("LoadNotifications: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("loaded %d notifications, want 2", len(got))
	}
	if got[0].ID != "n2" || !got[0].Read || got[0].Type != model.NotificationSuccess {
		t.Errorf("newest-first row = %+v", got[0])
	}

	// A second save replaces, not appends.
	if err := c.SaveNotifications(ctx, notifications[:1]); err != nil {
		t.Fatalf("second SaveNotifications: %v", err)
	}
	got, _ = c.LoadNotifications(ctx)
	if len(got) != 1 {
		t.Errorf("after replace: %d rows, want 1", len(got))
	}
}

func TestActivitySnapshotRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	activities := []model.Activity{{
		ID:          "a1",
		Type:        model.ActivityStatusChanged,
		UserID:      "u1",
		UserName:    "Ana",
		TaskID:      "t1",
		TaskTitle:   "Relatório",
		FromStatus:  model.StatusPending,
		ToStatus:    model.StatusInProgress,
		Description: "Status alterado",
		CreatedAt:   time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC),
	}}
	if err := c.SaveActivities(ctx, activities); err != nil {
		t.Fatalf("SaveActivities: %v", err)
	}

	got, err := c.LoadActivities(ctx)
	if err != nil {
		t.Fatalf("LoadActivities: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("loaded %d activities, want 1", len(got))
	}
	a := got[0]
	if a.Type != model.ActivityStatusChanged ||
		a.FromStatus != model.StatusPending ||
		a.ToStatus != model.StatusInProgress {
		t.Errorf("round-tripped activity = %+v", a)
	}
}

func TestAvatarRoundTrip(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	blob := []byte{0x89, 0x50, 0x4e, 0x47}
	if err := c.SaveAvatar(ctx, "u1", blob); err != nil {
		t.Fatalf("SaveAvatar: %v", err)
	}

	got, err := c.LoadAvatar(ctx, "u1")
	if err != nil || string(got) != string(blob) {
		t.Errorf("LoadAvatar = (%v, %v)", got, err)
	}

	// Missing avatar reads as absent.
	got, err = c.LoadAvatar(ctx, "unknown")
	if err != nil || got != nil {
		t.Errorf("missing avatar = (%v, %v), want nil", got, err)
	}
}
