package store

import (
	"sort"
	gosync "sync"
	"time"

	"github.com/google/uuid"

	"github.com/gestora/gestora/internal/model"
)

// notificationHistoryCap bounds the number of notifications kept;
// the oldest entries are evicted first.
const notificationHistoryCap = 50

// notificationDedupWindow suppresses re-emission of an identical
// notification (same owner, type and message) within this interval.
const notificationDedupWindow = 5 * time.Second

// NotificationStore holds the recent notification history, newest
// first.
type NotificationStore struct {
	mu            gosync.RWMutex
	notifications []model.Notification
	lastSeen      map[string]time.Time
	clock         Clock
}

// NewNotificationStore creates an empty notification store using the
// given clock for dedup-window arithmetic.
func NewNotificationStore(clock Clock) *NotificationStore {
	if clock == nil {
		clock = SystemClock
	}
	return &NotificationStore{
		lastSeen: make(map[string]time.Time),
		clock:    clock,
	}
}

// Snapshot returns a copy of the history, newest first.
func (s *NotificationStore) Snapshot() []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Notification, len(s.notifications))
	copy(out, s.notifications)
	return out
}

// Replace atomically swaps the history, used when loading a cached or
// server-side snapshot.
func (s *NotificationStore) Replace(notifications []model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(notifications) > notificationHistoryCap {
		notifications = notifications[:notificationHistoryCap]
	}
	s.notifications = make([]model.Notification, len(notifications))
	copy(s.notifications, notifications)
}

// MergeBackend swaps in a fresh server-side list while keeping
// locally-emitted feedback entries, which the backend does not know
// about and would otherwise vanish on every reload. The merged history
// stays newest first and capped.
func (s *NotificationStore) MergeBackend(notifications []model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make([]model.Notification, 0, len(notifications)+len(s.notifications))
	for _, n := range s.notifications {
		if n.Local {
			merged = append(merged, n)
		}
	}
	merged = append(merged, notifications...)
	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].CreatedAt.After(merged[j].CreatedAt)
	})
	if len(merged) > notificationHistoryCap {
		merged = merged[:notificationHistoryCap]
	}
	s.notifications = merged
}

// Add appends a locally-emitted notification for userID. Re-emission
// of an identical (owner, type, message) triple within the dedup window
// is suppressed; the history is capped with oldest entries evicted
// first. Returns the stored notification and whether it was kept.
func (s *NotificationStore) Add(
	userID, message string,
	typ model.NotificationType,
) (model.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	for k, last := range s.lastSeen {
		if now.Sub(last) >= notificationDedupWindow {
			delete(s.lastSeen, k)
		}
	}
	key := userID + "|" + string(typ) + "|" + message
	if last, ok := s.lastSeen[key]; ok && now.Sub(last) < notificationDedupWindow {
		return model.Notification{}, false
	}
	s.lastSeen[key] = now

	n := model.Notification{
		ID:        uuid.New().String(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		CreatedAt: now,
		Local:     true,
	}

	s.notifications = append([]model.Notification{n}, s.notifications...)
	if len(s.notifications) > notificationHistoryCap {
		s.notifications = s.notifications[:notificationHistoryCap]
	}
	return n, true
}

// MarkRead marks a single notification as read.
func (s *NotificationStore) MarkRead(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		if s.notifications[i].ID == id {
			s.notifications[i].Read = true
			return
		}
	}
}

// MarkAllRead marks every notification as read.
func (s *NotificationStore) MarkAllRead() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.notifications {
		s.notifications[i].Read = true
	}
}

// UnreadCount returns the number of unread notifications held.
func (s *NotificationStore) UnreadCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, n := range s.notifications {
		if !n.Read {
			count++
		}
	}
	return count
}

// Clear drops the whole history, used on logout.
func (s *NotificationStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = nil
	s.lastSeen = make(map[string]time.Time)
}

// ForUser returns the notifications owned by userID, newest first.
func (s *NotificationStore) ForUser(userID string) []model.Notification {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}
