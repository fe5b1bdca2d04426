package session

import (
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/workflow"
)

// Authorization decisions for the current principal. Every permission
// the UI needs is answered here; views never duplicate role checks.

// CanManageUsers reports whether the principal may enter the user
// administration area.
func (m *Manager) CanManageUsers() bool {
	return m.IsAdmin()
}

// CanViewAllTasks reports whether the principal sees every task or
// only the ones they are assigned to.
func (m *Manager) CanViewAllTasks() bool {
	return m.IsAdmin()
}

// CanCreateTask reports whether the principal may create tasks.
func (m *Manager) CanCreateTask() bool {
	return m.IsAdmin()
}

// CanEditTask reports whether the principal may edit the task's
// fields. Only admins edit tasks; assignees work through the status
// controls and comments.
func (m *Manager) CanEditTask(model.Task) bool {
	return m.IsAdmin()
}

// CanDeleteTask reports whether the principal may delete the task.
func (m *Manager) CanDeleteTask(model.Task) bool {
	return m.IsAdmin()
}

// CanAdvance reports whether the principal may move the task one step
// forward in the workflow.
func (m *Manager) CanAdvance(t model.Task) bool {
	u, ok := m.User()
	return ok && workflow.CanAdvance(t, u)
}

// CanRegress reports whether the principal may move the task one step
// backward in the workflow.
func (m *Manager) CanRegress(t model.Task) bool {
	u, ok := m.User()
	return ok && workflow.CanRegress(t, u)
}

// CanComment reports whether the principal may comment on the task:
// admins and task members may.
func (m *Manager) CanComment(t model.Task) bool {
	u, ok := m.User()
	if !ok {
		return false
	}
	return u.IsAdmin() || t.IsMember(u.ID)
}

// CanChangePasswordOf reports whether the principal may change the
// password of the given user: their own, or anyone's for admins.
func (m *Manager) CanChangePasswordOf(userID string) bool {
	u, ok := m.User()
	if !ok {
		return false
	}
	return u.IsAdmin() || u.ID == userID
}
