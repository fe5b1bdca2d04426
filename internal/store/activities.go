package store

import (
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/gestora/gestora/internal/model"
)

// activityHistoryCap bounds the audit-trail length; oldest entries are
// evicted first.
const activityHistoryCap = 50

// activityDedupWindow collapses duplicate emission of the same action
// (identical actor, type, subject and from/to pair) within this
// interval. Rapid repeated UI triggers and overlapping async
// completions otherwise produce doubled entries.
const activityDedupWindow = 5 * time.Second

// ActivityStore holds the recent audit trail, newest first.
type ActivityStore struct {
	mu         gosync.RWMutex
	activities []model.Activity
	lastSeen   map[string]time.Time
	clock      Clock
}

// NewActivityStore creates an empty activity store using the given
// clock for dedup-window arithmetic.
func NewActivityStore(clock Clock) *ActivityStore {
	if clock == nil {
		clock = SystemClock
	}
	return &ActivityStore{
		lastSeen: make(map[string]time.Time),
		clock:    clock,
	}
}

// Snapshot returns a copy of the trail, newest first.
func (s *ActivityStore) Snapshot() []model.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Activity, len(s.activities))
	copy(out, s.activities)
	return out
}

// Replace atomically swaps the trail, used when loading a cached
// snapshot.
func (s *ActivityStore) Replace(activities []model.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(activities) > activityHistoryCap {
		activities = activities[:activityHistoryCap]
	}
	s.activities = make([]model.Activity, len(activities))
	copy(s.activities, activities)
}

// dedupKey identifies an activity for duplicate suppression: the actor,
// the action, the subject, and the transition pair for status changes.
func dedupKey(a model.Activity) string {
	return a.UserID + "|" + string(a.Type) + "|" + a.TaskID + "|" +
		a.SubjectUserID + "|" + string(a.FromStatus) + "|" + string(a.ToStatus)
}

// Add appends an activity entry, assigning its ID and timestamp. A
// duplicate of a very recent entry (see activityDedupWindow) is
// suppressed. Returns whether the entry was kept.
func (s *ActivityStore) Add(a model.Activity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	for k, last := range s.lastSeen {
		if now.Sub(last) >= activityDedupWindow {
			delete(s.lastSeen, k)
		}
	}
	key := dedupKey(a)
	if last, ok := s.lastSeen[key]; ok && now.Sub(last) < activityDedupWindow {
		return false
	}
	s.lastSeen[key] = now

	a.ID = uuid.New().String()
	a.CreatedAt = now

	s.activities = append([]model.Activity{a}, s.activities...)
	if len(s.activities) > activityHistoryCap {
		s.activities = s.activities[:activityHistoryCap]
	}
	return true
}

// Len returns the number of entries held.
func (s *ActivityStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activities)
}

// Clear drops the whole trail, used on logout.
func (s *ActivityStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.activities = nil
	s.lastSeen = make(map[string]time.Time)
}
