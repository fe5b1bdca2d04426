package sync

import (
	"errors"
	"net/http"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
)

// ErrNotFound is returned when an operation references an id absent
// from the local store.
var ErrNotFound = errors.New("not found in store")

// ErrNoTransition is returned when a status change is requested on a
// task with no transition in the requested direction.
var ErrNoTransition = errors.New("no status transition available")

// ValidationError is a client-side input failure detected before any
// backend call is made. It is returned to the initiating UI flow
// directly and never produces a notification.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage translates a backend error for direct display, used by
// views that surface failures outside the notification feed.
func UserMessage(tr *i18n.Translator, err error) string {
	return userMessage(tr, err)
}

// userMessage translates a backend error into a short user-facing
// message. The raw error never reaches a notification; callers still
// receive it for programmatic handling.
func userMessage(tr *i18n.Translator, err error) string {
	if api.IsAuthError(err) {
		return tr.T("auth.session_expired")
	}
	switch code := api.StatusCode(err); {
	case code == http.StatusBadRequest:
		return tr.T("error.bad_request")
	case code == http.StatusForbidden:
		return tr.T("error.forbidden")
	case code == http.StatusNotFound:
		return tr.T("error.not_found")
	case code == http.StatusConflict:
		return tr.T("error.conflict")
	case code == http.StatusTooManyRequests:
		return tr.T("error.rate_limited")
	case code >= 500:
		return tr.T("error.server")
	case code == 0:
		// No HTTP status at all: the request never got a response.
		return tr.T("error.network")
	default:
		return tr.T("error.unknown")
	}
}
