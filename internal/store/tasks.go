package store

import (
	"sort"
	"strings"
	gosync "sync"

	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/workflow"
)

// TaskStore holds the canonical in-memory task collection.
type TaskStore struct {
	mu    gosync.RWMutex
	tasks []model.Task
}

// NewTaskStore creates an empty task store.
func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

// Snapshot returns a copy of the current collection in insertion order.
func (s *TaskStore) Snapshot() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Replace atomically swaps the entire collection, used after a full
// reload from the backend.
func (s *TaskStore) Replace(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make([]model.Task, len(tasks))
	copy(s.tasks, tasks)
}

// Upsert inserts the task or replaces the entry with the same ID,
// preserving its position.
func (s *TaskStore) Upsert(task model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == task.ID {
			s.tasks[i] = task
			return
		}
	}
	s.tasks = append(s.tasks, task)
}

// Remove deletes the task with the given ID. It is a no-op when the ID
// is unknown.
func (s *TaskStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return
		}
	}
}

// PatchStatus updates only the status field of the task with the given
// ID, leaving every other locally-held field untouched. Returns false
// when the ID is unknown.
func (s *TaskStore) PatchStatus(id string, status model.TaskStatus) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks[i].Status = status
			return true
		}
	}
	return false
}

// Get returns the task with the given ID.
func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, t := range s.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return model.Task{}, false
}

// Len returns the number of tasks held.
func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// TaskFilter holds the transient query parameters of the filtered view.
type TaskFilter struct {
	// Query is matched case-insensitively against title and description.
	Query string

	// Status keeps only tasks with this exact raw status. Empty means
	// all statuses.
	Status model.TaskStatus
}

// Filtered returns the tasks matching the filter, preserving order.
// Both predicates must hold: the status equality (when set) and the
// free-text match (when set).
func (s *TaskStore) Filtered(filter TaskFilter) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(filter.Query)
	var out []model.Task
	for _, t := range s.tasks {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(t.Title), query) &&
			!strings.Contains(strings.ToLower(t.Description), query) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Stats summarizes the collection by canonical status. Statuses are
// normalized through the workflow alias table before counting.
type Stats struct {
	Total      int
	Pending    int
	InProgress int
	Overdue    int
	Finished   int
	Closed     int
}

// Stats returns the status breakdown of the current collection.
func (s *TaskStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{Total: len(s.tasks)}
	for _, t := range s.tasks {
		switch workflow.MapStatus(t.Status) {
		case model.StatusPending:
			stats.Pending++
		case model.StatusInProgress:
			stats.InProgress++
		case model.StatusOverdue:
			stats.Overdue++
		case model.StatusFinished:
			stats.Finished++
		case model.StatusClosed:
			stats.Closed++
		}
	}
	return stats
}

// EmployeeReport aggregates one user's task load for the reports view.
type EmployeeReport struct {
	User           model.User
	Total          int
	Completed      int
	Overdue        int
	ComplianceRate int
}

// ReportByEmployee returns per-user aggregates over the current
// collection: tasks the user is responsible for or assigned to, closed
// count, overdue count, and the compliance rate (closed over total,
// rounded percent). Results are ordered by descending compliance rate.
func (s *TaskStore) ReportByEmployee(users []model.User) []EmployeeReport {
	tasks := s.Snapshot()

	reports := make([]EmployeeReport, 0, len(users))
	for _, u := range users {
		r := EmployeeReport{User: u}
		for _, t := range tasks {
			if !t.IsMember(u.ID) {
				continue
			}
			r.Total++
			switch workflow.MapStatus(t.Status) {
			case model.StatusClosed:
				r.Completed++
			case model.StatusOverdue:
				r.Overdue++
			}
		}
		if r.Total > 0 {
			r.ComplianceRate = (r.Completed*100 + r.Total/2) / r.Total
		}
		reports = append(reports, r)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].ComplianceRate > reports[j].ComplianceRate
	})
	return reports
}
