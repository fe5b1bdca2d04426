package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/cache"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
)

// NotificationService keeps the notification store in step with the
// backend and mirrors snapshots to the local cache for offline-first
// display.
type NotificationService struct {
	client        *api.Client
	session       *session.Manager
	notifications *store.NotificationStore
	cache         *cache.Cache
	feedback      *Feedback
	tr            *i18n.Translator

	mu      gosync.Mutex
	loading bool
}

// NewNotificationService creates a notification service. cache may be
// nil; snapshot persistence is then skipped.
func NewNotificationService(
	client *api.Client,
	sess *session.Manager,
	notifications *store.NotificationStore,
	c *cache.Cache,
	feedback *Feedback,
	tr *i18n.Translator,
) *NotificationService {
	return &NotificationService{
		client:        client,
		session:       sess,
		notifications: notifications,
		cache:         c,
		feedback:      feedback,
		tr:            tr,
	}
}

// Loading reports whether a bulk reload is in progress.
func (s *NotificationService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *NotificationService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// persist mirrors the current store to the cache, best-effort.
func (s *NotificationService) persist(ctx context.Context) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SaveNotifications(ctx, s.notifications.Snapshot())
}

// RestoreCached loads the cached snapshot into the store at startup so
// the panel has content before the first backend round-trip.
func (s *NotificationService) RestoreCached(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	cached, err := s.cache.LoadNotifications(ctx)
	if err != nil {
		return fmt.Errorf("restoring cached notifications: %w", err)
	}
	if len(cached) > 0 {
		s.notifications.Replace(cached)
	}
	return nil
}

// Load merges the backend's notification list into the store. Feedback
// notifications emitted locally between polls survive the reload.
func (s *NotificationService) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	notifications, err := s.client.Notifications(ctx)
	if err != nil {
		if !s.session.HandleError(err) {
			s.feedback.Failure(err, "notification.load_failed")
		}
		return fmt.Errorf("loading notifications: %w", err)
	}

	s.notifications.MergeBackend(notifications)
	s.persist(ctx)
	return nil
}

// MarkRead marks one notification read, backend first.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	if err := s.client.MarkNotificationRead(ctx, id); err != nil {
		s.session.HandleError(err)
		return fmt.Errorf("marking notification read: %w", err)
	}

	s.notifications.MarkRead(id)
	s.persist(ctx)
	return nil
}

// MarkAllRead marks every notification read, backend first.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	if err := s.client.MarkAllNotificationsRead(ctx); err != nil {
		s.session.HandleError(err)
		return fmt.Errorf("marking all notifications read: %w", err)
	}

	s.notifications.MarkAllRead()
	s.persist(ctx)
	return nil
}

// UnreadCount asks the backend for the unread total.
func (s *NotificationService) UnreadCount(ctx context.Context) (int, error) {
	count, err := s.client.UnreadCount(ctx)
	if err != nil {
		s.session.HandleError(err)
		return 0, fmt.Errorf("fetching unread count: %w", err)
	}
	return count, nil
}
