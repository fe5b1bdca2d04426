package model

import "time"

// ActivityType identifies the kind of state-changing action an audit
// entry records.
type ActivityType string

const (
	ActivityTaskCreated     ActivityType = "task_created"
	ActivityTaskUpdated     ActivityType = "task_updated"
	ActivityTaskDeleted     ActivityType = "task_deleted"
	ActivityStatusChanged   ActivityType = "status_changed"
	ActivityCommentAdded    ActivityType = "comment_added"
	ActivityUserAdded       ActivityType = "user_added"
	ActivityUserUpdated     ActivityType = "user_updated"
	ActivityUserDeleted     ActivityType = "user_deleted"
	ActivityPasswordChanged ActivityType = "password_changed"
)

// Activity is an audit-trail entry describing a state-changing action
// performed through the client.
type Activity struct {
	// ID is the unique identifier for this entry.
	ID string `json:"id"`

	// Type identifies the action (use Activity* constants).
	Type ActivityType `json:"type"`

	// UserID and UserName identify the actor.
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`

	// TaskID and TaskTitle reference the subject task, when relevant.
	TaskID    string `json:"task_id,omitempty"`
	TaskTitle string `json:"task_title,omitempty"`

	// SubjectUserID references the subject user for user-management
	// actions.
	SubjectUserID string `json:"subject_user_id,omitempty"`

	// FromStatus and ToStatus record a status transition.
	FromStatus TaskStatus `json:"from_status,omitempty"`
	ToStatus   TaskStatus `json:"to_status,omitempty"`

	// Description is the human-readable summary.
	Description string `json:"description"`

	// CreatedAt is when the action happened.
	CreatedAt time.Time `json:"created_at"`
}
