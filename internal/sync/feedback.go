package sync

import (
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
)

// Feedback emits the single success-or-failure notification every
// mutating operation produces. Duplicate suppression happens in the
// notification store.
type Feedback struct {
	notifications *store.NotificationStore
	session       *session.Manager
	tr            *i18n.Translator
}

// NewFeedback creates a feedback emitter.
func NewFeedback(n *store.NotificationStore, s *session.Manager, tr *i18n.Translator) *Feedback {
	return &Feedback{notifications: n, session: s, tr: tr}
}

// ownerID returns the notification owner: the authenticated principal,
// or the system pseudo-user before login.
func (f *Feedback) ownerID() string {
	if u, ok := f.session.User(); ok {
		return u.ID
	}
	return "system"
}

// Success emits a success notification for the given message key.
func (f *Feedback) Success(key string, args ...interface{}) {
	f.notifications.Add(f.ownerID(), f.tr.T(key, args...), model.NotificationSuccess)
}

// Failure emits a failure notification. The message key must take a
// single %s placeholder which receives the translated cause; err
// itself is never shown to the user.
func (f *Feedback) Failure(err error, key string) {
	f.notifications.Add(f.ownerID(), f.tr.T(key, userMessage(f.tr, err)), model.NotificationError)
}

// Info emits an informational notification.
func (f *Feedback) Info(key string, args ...interface{}) {
	f.notifications.Add(f.ownerID(), f.tr.T(key, args...), model.NotificationInfo)
}
