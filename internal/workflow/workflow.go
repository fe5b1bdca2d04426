// Package workflow defines the task lifecycle: the canonical ordered
// status list, normalization of legacy status aliases, and role-gated
// forward/backward transitions.
package workflow

import (
	"github.com/gestora/gestora/internal/model"
)

// Order is the authoritative lifecycle order of the canonical statuses.
var Order = []model.TaskStatus{
	model.StatusPending,
	model.StatusInProgress,
	model.StatusOverdue,
	model.StatusFinished,
	model.StatusClosed,
}

// aliases maps legacy status values still present in older backend rows
// to their canonical equivalents.
var aliases = map[model.TaskStatus]model.TaskStatus{
	"EM_ANDAMENTO": model.StatusInProgress,
	"EM ANDAMENTO": model.StatusInProgress,
	"EM_EXECUCAO":  model.StatusInProgress,
	"EM EXECUCAO":  model.StatusInProgress,
	"EM_REVISAO":   model.StatusInProgress,
	"EM REVISAO":   model.StatusInProgress,
	"REVISAO":      model.StatusInProgress,
	"CONCLUIDA":    model.StatusFinished,
	"CONCLUÍDA":    model.StatusFinished,
	"CONCLUIDO":    model.StatusFinished,
	"CONCLUÍDO":    model.StatusFinished,
	"ARQUIVADO":    model.StatusClosed,
	"ARQUIVADA":    model.StatusClosed,
	"CANCELADA":    model.StatusClosed,
	"ABERTO":       model.StatusPending,
	"ABERTA":       model.StatusPending,
}

// MapStatus normalizes a legacy alias to its canonical status.
// Unrecognized values pass through unchanged: the caller treats them as
// outside the workflow rather than failing, so unknown server-side
// statuses stay displayable.
func MapStatus(s model.TaskStatus) model.TaskStatus {
	if canonical, ok := aliases[s]; ok {
		return canonical
	}
	return s
}

// indexOf returns the position of the mapped status in Order, or -1.
func indexOf(s model.TaskStatus) int {
	mapped := MapStatus(s)
	for i, st := range Order {
		if st == mapped {
			return i
		}
	}
	return -1
}

// IsInWorkflow reports whether s resolves to a position in the
// canonical order.
func IsInWorkflow(s model.TaskStatus) bool {
	return indexOf(s) >= 0
}

// Next returns the status following s in the canonical order. The
// second return is false at the end of the workflow or when s is not a
// workflow status. Overdue is never produced as a forward target: it is
// only ever set by the backend's due-date check, so advancing from
// InProgress skips straight to Finished.
func Next(s model.TaskStatus) (model.TaskStatus, bool) {
	i := indexOf(s)
	if i < 0 || i >= len(Order)-1 {
		return "", false
	}
	next := Order[i+1]
	if next == model.StatusOverdue {
		next = Order[i+2]
	}
	return next, true
}

// Prev returns the status preceding s in the canonical order. The
// second return is false at the start of the workflow or when s is not
// a workflow status. Overdue is skipped on the way back for the same
// reason Next skips it.
func Prev(s model.TaskStatus) (model.TaskStatus, bool) {
	i := indexOf(s)
	if i <= 0 {
		return "", false
	}
	prev := Order[i-1]
	if prev == model.StatusOverdue {
		prev = Order[i-2]
	}
	return prev, true
}

// isClosedLike reports whether the task's mapped status disables the
// transition controls entirely. Overdue behaves like a closed state
// here: it can only be left through an explicit edit, not through the
// ordinary advance/regress controls.
func isClosedLike(s model.TaskStatus) bool {
	mapped := MapStatus(s)
	return mapped == model.StatusClosed || mapped == model.StatusOverdue
}

// CanAdvance reports whether actor may move the task one step forward.
// The actor must be an admin or a task member, the task must not be in
// a closed-like state, and a next status must exist. A task at Finished
// may only be advanced (validated) by an admin.
func CanAdvance(task model.Task, actor model.User) bool {
	if isClosedLike(task.Status) {
		return false
	}
	if _, ok := Next(task.Status); !ok {
		return false
	}
	if !actor.IsAdmin() && !task.IsMember(actor.ID) {
		return false
	}
	if MapStatus(task.Status) == model.StatusFinished && !actor.IsAdmin() {
		return false
	}
	return true
}

// CanRegress reports whether actor may move the task one step backward,
// under the same gating rules as CanAdvance.
func CanRegress(task model.Task, actor model.User) bool {
	if isClosedLike(task.Status) {
		return false
	}
	if _, ok := Prev(task.Status); !ok {
		return false
	}
	if !actor.IsAdmin() && !task.IsMember(actor.ID) {
		return false
	}
	if MapStatus(task.Status) == model.StatusFinished && !actor.IsAdmin() {
		return false
	}
	return true
}

// Advance returns a copy of the task moved to the next status. The
// second return is false when no forward transition exists; the task is
// returned unchanged in that case. Persisting the transition and
// recording the from/to pair in the activity trail is the caller's job.
func Advance(task model.Task) (model.Task, bool) {
	next, ok := Next(task.Status)
	if !ok {
		return task, false
	}
	task.Status = next
	return task, true
}

// Regress returns a copy of the task moved to the previous status,
// symmetric to Advance.
func Regress(task model.Task) (model.Task, bool) {
	prev, ok := Prev(task.Status)
	if !ok {
		return task, false
	}
	task.Status = prev
	return task, true
}
