package model

import "time"

// NotificationType classifies a notification for display purposes.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
)

// Notification is a transient user-facing feedback message. It is
// produced as a side effect of sync operations and by the backend.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id"`

	// UserID is the owning user. The pseudo-user "system" owns
	// notifications generated locally by the client itself.
	UserID string `json:"user_id"`

	// Message is the human-readable notification text.
	Message string `json:"message"`

	// Type classifies the notification (use Notification* constants).
	Type NotificationType `json:"type"`

	// TaskID links the notification to a task, when relevant.
	TaskID string `json:"task_id,omitempty"`

	// Read indicates whether the user has seen this notification.
	Read bool `json:"read"`

	// Local marks a notification emitted by this client as operation
	// feedback. The backend never knows about these; reloads must not
	// discard them.
	Local bool `json:"local,omitempty"`

	// CreatedAt is when the notification was generated.
	CreatedAt time.Time `json:"created_at"`
}
