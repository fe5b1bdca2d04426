package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/gestora/gestora/internal/model"
)

// fakeClock is a Clock whose current time is advanced manually.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func statusChange() model.Activity {
	return model.Activity{
		Type:       model.ActivityStatusChanged,
		UserID:     "u1",
		UserName:   "Ana",
		TaskID:     "t1",
		TaskTitle:  "Relatório",
		FromStatus: model.StatusPending,
		ToStatus:   model.StatusInProgress,
		Description: "Status alterado: PENDENTE → EM_PROGRESSO",
	}
}

func TestActivityStoreDedupWithinWindow(t *testing.T) {
	clock := newFakeClock()
	s := NewActivityStore(clock.Now)

	if !s.Add(statusChange()) {
		t.Fatal("first add suppressed")
	}
	clock.Advance(1 * time.Second)
	if s.Add(statusChange()) {
		t.Error("identical activity within window not suppressed")
	}
	if s.Len() != 1 {
		t.Errorf("length = %d, want 1", s.Len())
	}
}

func TestActivityStoreDedupWindowElapses(t *testing.T) {
	clock := newFakeClock()
	s := NewActivityStore(clock.Now)

	s.Add(statusChange())
	clock.Advance(activityDedupWindow)
	if !s.Add(statusChange()) {
		t.Error("activity after window elapsed was suppressed")
	}
	if s.Len() != 2 {
		t.Errorf("length = %d, want 2", s.Len())
	}
}

func TestActivityStoreDedupMapPruned(t *testing.T) {
	clock := newFakeClock()
	s := NewActivityStore(clock.Now)

	for i := 0; i < 10; i++ {
		a := statusChange()
		a.TaskID = fmt.Sprintf("t%d", i)
		s.Add(a)
	}
	clock.Advance(activityDedupWindow)
	s.Add(statusChange())

	s.mu.RLock()
	size := len(s.lastSeen)
	s.mu.RUnlock()
	if size != 1 {
		t.Errorf("lastSeen holds %d keys after the window elapsed, want 1", size)
	}
}

func TestActivityStoreDedupDiscriminates(t *testing.T) {
	clock := newFakeClock()
	s := NewActivityStore(clock.Now)

	s.Add(statusChange())

	// Different from/to pair is a distinct action even within the window.
	other := statusChange()
	other.FromStatus = model.StatusInProgress
	other.ToStatus = model.StatusFinished
	if !s.Add(other) {
		t.Error("distinct transition suppressed")
	}

	// Different actor likewise.
	byOther := statusChange()
	byOther.UserID = "u2"
	if !s.Add(byOther) {
		t.Error("distinct actor suppressed")
	}

	if s.Len() != 3 {
		t.Errorf("length = %d, want 3", s.Len())
	}
}

func TestActivityStoreCapEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	s := NewActivityStore(clock.Now)

	for i := 0; i < activityHistoryCap+10; i++ {
		a := statusChange()
		a.TaskID = string(rune('a' + i%26)) // vary the subject
		a.TaskTitle = a.TaskID
		s.Add(a)
		clock.Advance(activityDedupWindow)
	}

	if s.Len() != activityHistoryCap {
		t.Fatalf("length = %d, want %d", s.Len(), activityHistoryCap)
	}

	snap := s.Snapshot()
	if snap[0].CreatedAt.Before(snap[len(snap)-1].CreatedAt) {
		t.Error("history is not newest-first")
	}
}

func TestActivityStoreAssignsIDAndTimestamp(t *testing.T) {
	clock := newFakeClock()
	s := NewActivityStore(clock.Now)

	s.Add(statusChange())
	got := s.Snapshot()[0]
	if got.ID == "" {
		t.Error("activity stored without ID")
	}
	if !got.CreatedAt.Equal(clock.Now()) {
		t.Errorf("timestamp = %v, want clock time %v", got.CreatedAt, clock.Now())
	}
}
