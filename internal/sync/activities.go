package sync

import (
	"context"
	"fmt"

	"github.com/gestora/gestora/internal/cache"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/store"
)

// ActivityLog is the writer path for the audit trail. Entries live in
// the activity store and are mirrored to the local cache so the trail
// survives restarts.
type ActivityLog struct {
	activities *store.ActivityStore
	cache      *cache.Cache
}

// NewActivityLog creates an activity log. cache may be nil; persistence
// is then skipped.
func NewActivityLog(s *store.ActivityStore, c *cache.Cache) *ActivityLog {
	return &ActivityLog{activities: s, cache: c}
}

// Record appends an audit entry and mirrors the trail to the cache.
// It reports whether the entry was kept (false when deduplicated).
// Cache failures are swallowed: the in-memory trail is authoritative.
func (l *ActivityLog) Record(ctx context.Context, a model.Activity) bool {
	if !l.activities.Add(a) {
		return false
	}
	if l.cache != nil {
		_ = l.cache.SaveActivities(ctx, l.activities.Snapshot())
	}
	return true
}

// Restore loads the cached trail into the store at startup. A missing
// or unreadable cache leaves the store empty.
func (l *ActivityLog) Restore(ctx context.Context) error {
	if l.cache == nil {
		return nil
	}
	activities, err := l.cache.LoadActivities(ctx)
	if err != nil {
		return fmt.Errorf("restoring activity trail: %w", err)
	}
	if len(activities) > 0 {
		l.activities.Replace(activities)
	}
	return nil
}

// Snapshot returns the current trail, newest first.
func (l *ActivityLog) Snapshot() []model.Activity {
	return l.activities.Snapshot()
}
