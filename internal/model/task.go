package model

import "time"

// TaskStatus is a task lifecycle status as stored by the backend.
// The five canonical values below form the workflow; anything else is a
// legacy alias that must be normalized before workflow logic applies
// (see the workflow package).
type TaskStatus string

// Canonical workflow statuses, in lifecycle order.
const (
	StatusPending    TaskStatus = "PENDENTE"
	StatusInProgress TaskStatus = "EM_PROGRESSO"
	StatusOverdue    TaskStatus = "ATRASADA"
	StatusFinished   TaskStatus = "TERMINADO"
	StatusClosed     TaskStatus = "FECHADO"
)

// TaskPriority values as used by the backend.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "BAIXA"
	PriorityMedium TaskPriority = "MEDIA"
	PriorityHigh   TaskPriority = "ALTA"
	PriorityUrgent TaskPriority = "URGENTE"
)

// Task is the canonical client-side representation of a backend task.
type Task struct {
	// ID is the backend identifier for this task.
	ID string `json:"id"`

	// Title is the human-readable summary.
	Title string `json:"title"`

	// Description is the full body text.
	Description string `json:"description"`

	// Status is the raw status value as last reported by the backend.
	// It may be a legacy alias; use workflow.MapStatus before reasoning
	// about transitions.
	Status TaskStatus `json:"status"`

	// Priority is the backend priority label.
	Priority TaskPriority `json:"priority"`

	// ResponsibleID references the primary assigned user.
	ResponsibleID string `json:"responsible_id"`

	// ResponsibleName is the display name of the responsible user, when
	// the backend echoes it.
	ResponsibleName string `json:"responsible_name"`

	// Intervenientes references co-assignees by user ID.
	Intervenientes []string `json:"intervenientes,omitempty"`

	// StartDate is when work on the task begins.
	StartDate time.Time `json:"start_date"`

	// DeliveryDate is the computed delivery target
	// (start date plus the deadline offset).
	DeliveryDate time.Time `json:"delivery_date"`

	// DueDate is the optional hard deadline.
	DueDate *time.Time `json:"due_date,omitempty"`

	// DaysToFinish is the deadline offset in days used to derive
	// DeliveryDate.
	DaysToFinish int `json:"days_to_finish"`

	// Comments is the ordered, append-only discussion thread.
	Comments []Comment `json:"comments,omitempty"`

	// CreatedByID references the user who created the task.
	CreatedByID string `json:"created_by_id"`

	// CreatedByName is the creator's display name, when echoed.
	CreatedByName string `json:"created_by_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsMember reports whether userID is the responsible user or a
// co-assignee of the task.
func (t Task) IsMember(userID string) bool {
	if t.ResponsibleID == userID {
		return true
	}
	for _, id := range t.Intervenientes {
		if id == userID {
			return true
		}
	}
	return false
}

// Comment is a single entry in a task's discussion thread.
type Comment struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
