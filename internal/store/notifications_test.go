package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/gestora/gestora/internal/model"
)

func TestNotificationStoreDedup(t *testing.T) {
	clock := newFakeClock()
	s := NewNotificationStore(clock.Now)

	if _, ok := s.Add("system", "Tarefa criada.", model.NotificationSuccess); !ok {
		t.Fatal("first add suppressed")
	}
	clock.Advance(2 * time.Second)
	if _, ok := s.Add("system", "Tarefa criada.", model.NotificationSuccess); ok {
		t.Error("duplicate within window not suppressed")
	}

	// Same message with a different type is a distinct notification.
	if _, ok := s.Add("system", "Tarefa criada.", model.NotificationInfo); !ok {
		t.Error("distinct type suppressed")
	}

	clock.Advance(notificationDedupWindow)
	if _, ok := s.Add("system", "Tarefa criada.", model.NotificationSuccess); !ok {
		t.Error("add after window elapsed was suppressed")
	}
}

func TestNotificationStoreCapAndOrder(t *testing.T) {
	clock := newFakeClock()
	s := NewNotificationStore(clock.Now)

	for i := 0; i < notificationHistoryCap+5; i++ {
		s.Add("system", fmt.Sprintf("mensagem %d", i), model.NotificationInfo)
		clock.Advance(time.Second)
	}

	snap := s.Snapshot()
	if len(snap) != notificationHistoryCap {
		t.Fatalf("length = %d, want %d", len(snap), notificationHistoryCap)
	}
	// Newest first: the last message added heads the list.
	if snap[0].Message != fmt.Sprintf("mensagem %d", notificationHistoryCap+4) {
		t.Errorf("head = %q", snap[0].Message)
	}
}

func TestNotificationStoreMergeBackendKeepsLocal(t *testing.T) {
	clock := newFakeClock()
	s := NewNotificationStore(clock.Now)

	feedback, ok := s.Add("u1", "Tarefa criada.", model.NotificationSuccess)
	if !ok || !feedback.Local {
		t.Fatalf("feedback entry = (%+v, %v)", feedback, ok)
	}

	backend := []model.Notification{
		{ID: "srv-1", UserID: "u1", Message: "Nova atribuição", CreatedAt: clock.Now().Add(-time.Minute)},
		{ID: "srv-2", UserID: "u1", Message: "Prazo amanhã", CreatedAt: clock.Now().Add(-2 * time.Minute)},
	}
	s.MergeBackend(backend)

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("merged length = %d, want 3", len(snap))
	}
	if snap[0].ID != feedback.ID {
		t.Errorf("head = %q, want the newer local entry first", snap[0].ID)
	}

	// A second merge with the same backend list is stable: the local
	// entry survives, nothing duplicates.
	s.MergeBackend(backend)
	if got := len(s.Snapshot()); got != 3 {
		t.Errorf("length after second merge = %d, want 3", got)
	}
}

func TestNotificationStoreDedupMapPruned(t *testing.T) {
	clock := newFakeClock()
	s := NewNotificationStore(clock.Now)

	for i := 0; i < 10; i++ {
		s.Add("u1", fmt.Sprintf("mensagem %d", i), model.NotificationInfo)
	}
	clock.Advance(notificationDedupWindow)
	s.Add("u1", "nova", model.NotificationInfo)

	s.mu.RLock()
	size := len(s.lastSeen)
	s.mu.RUnlock()
	if size != 1 {
		t.Errorf("lastSeen holds %d keys after the window elapsed, want 1", size)
	}
}

func TestNotificationStoreReadTracking(t *testing.T) {
	clock := newFakeClock()
	s := NewNotificationStore(clock.Now)

	n1, _ := s.Add("u1", "primeira", model.NotificationInfo)
	clock.Advance(time.Second)
	s.Add("u1", "segunda", model.NotificationInfo)

	if got := s.UnreadCount(); got != 2 {
		t.Fatalf("unread = %d, want 2", got)
	}

	s.MarkRead(n1.ID)
	if got := s.UnreadCount(); got != 1 {
		t.Errorf("unread after MarkRead = %d, want 1", got)
	}

	s.MarkAllRead()
	if got := s.UnreadCount(); got != 0 {
		t.Errorf("unread after MarkAllRead = %d, want 0", got)
	}
}

func TestNotificationStoreForUser(t *testing.T) {
	clock := newFakeClock()
	s := NewNotificationStore(clock.Now)

	s.Add("u1", "para a Ana", model.NotificationInfo)
	clock.Advance(time.Second)
	s.Add("u2", "para o Rui", model.NotificationInfo)

	got := s.ForUser("u1")
	if len(got) != 1 || got[0].Message != "para a Ana" {
		t.Errorf("ForUser(u1) = %+v", got)
	}
}
