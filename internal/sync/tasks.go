package sync

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
	"github.com/gestora/gestora/internal/workflow"
)

// TaskService is the single writer path for the task store. Every
// operation calls the backend first and mutates the store only with
// confirmed state; a failed call leaves the store untouched.
type TaskService struct {
	client     *api.Client
	session    *session.Manager
	tasks      *store.TaskStore
	feedback   *Feedback
	activities *ActivityLog
	tr         *i18n.Translator

	mu       gosync.Mutex
	loading  bool
	inFlight map[string]struct{}
}

// NewTaskService creates a task service.
func NewTaskService(
	client *api.Client,
	sess *session.Manager,
	tasks *store.TaskStore,
	feedback *Feedback,
	activities *ActivityLog,
	tr *i18n.Translator,
) *TaskService {
	return &TaskService{
		client:     client,
		session:    sess,
		tasks:      tasks,
		feedback:   feedback,
		activities: activities,
		tr:         tr,
		inFlight:   make(map[string]struct{}),
	}
}

// Loading reports whether a bulk reload is in progress.
func (s *TaskService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// InFlight reports whether the given task has an operation pending.
func (s *TaskService) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

func (s *TaskService) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// markInFlight records a pending operation on one task and returns the
// function that clears the marker.
func (s *TaskService) markInFlight(id string) func() {
	s.mu.Lock()
	s.inFlight[id] = struct{}{}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}
}

// fail emits the failure notification, invalidates the session on an
// authorization error, and wraps the error for the caller.
func (s *TaskService) fail(err error, key, action string) error {
	if !s.session.HandleError(err) {
		s.feedback.Failure(err, key)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// actor returns the authenticated principal; operations require one.
func (s *TaskService) actor() model.User {
	u, _ := s.session.User()
	return u
}

// Load replaces the store with the role-appropriate task list: all
// tasks for admins, assigned tasks otherwise.
func (s *TaskService) Load(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	var (
		tasks []model.Task
		err   error
	)
	if s.session.CanViewAllTasks() {
		tasks, err = s.client.AllTasks(ctx)
	} else {
		tasks, err = s.client.MyTasks(ctx)
	}
	if err != nil {
		return s.fail(err, "task.load_failed", "loading tasks")
	}

	s.tasks.Replace(tasks)
	return nil
}

// Create sends a new task to the backend and, on success, inserts the
// echoed entity into the store.
func (s *TaskService) Create(ctx context.Context, payload api.TaskPayload) (model.Task, error) {
	task, err := s.client.CreateTask(ctx, payload)
	if err != nil {
		return model.Task{}, s.fail(err, "task.create_failed", "creating task")
	}

	s.tasks.Upsert(task)
	s.feedback.Success("task.created", task.Title)

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:        model.ActivityTaskCreated,
		UserID:      actor.ID,
		UserName:    actor.Name,
		TaskID:      task.ID,
		TaskTitle:   task.Title,
		Description: s.tr.T("task.created", task.Title),
	})
	return task, nil
}

// Update sends the full task payload and replaces the stored entity
// with the backend's echo.
func (s *TaskService) Update(ctx context.Context, id string, payload api.TaskPayload) (model.Task, error) {
	done := s.markInFlight(id)
	defer done()

	task, err := s.client.UpdateTask(ctx, id, payload)
	if err != nil {
		return model.Task{}, s.fail(err, "task.update_failed", "updating task")
	}

	s.tasks.Upsert(task)
	s.feedback.Success("task.updated", task.Title)

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:        model.ActivityTaskUpdated,
		UserID:      actor.ID,
		UserName:    actor.Name,
		TaskID:      task.ID,
		TaskTitle:   task.Title,
		Description: s.tr.T("task.updated", task.Title),
	})
	return task, nil
}

// Delete removes the task on the backend, then locally.
func (s *TaskService) Delete(ctx context.Context, id string) error {
	task, ok := s.tasks.Get(id)
	if !ok {
		return ErrNotFound
	}

	done := s.markInFlight(id)
	defer done()

	if err := s.client.DeleteTask(ctx, id); err != nil {
		return s.fail(err, "task.delete_failed", "deleting task")
	}

	s.tasks.Remove(id)
	s.feedback.Success("task.deleted", task.Title)

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:        model.ActivityTaskDeleted,
		UserID:      actor.ID,
		UserName:    actor.Name,
		TaskID:      task.ID,
		TaskTitle:   task.Title,
		Description: s.tr.T("task.deleted", task.Title),
	})
	return nil
}

// Advance moves the task one step forward in the workflow. The target
// is computed from the current store snapshot; on success only the
// status field is patched locally so fields the backend does not echo
// are preserved.
func (s *TaskService) Advance(ctx context.Context, id string) (model.TaskStatus, error) {
	return s.changeStatus(ctx, id, workflow.Next)
}

// Regress moves the task one step backward in the workflow.
func (s *TaskService) Regress(ctx context.Context, id string) (model.TaskStatus, error) {
	return s.changeStatus(ctx, id, workflow.Prev)
}

func (s *TaskService) changeStatus(
	ctx context.Context,
	id string,
	step func(model.TaskStatus) (model.TaskStatus, bool),
) (model.TaskStatus, error) {
	task, ok := s.tasks.Get(id)
	if !ok {
		return "", ErrNotFound
	}

	from := workflow.MapStatus(task.Status)
	target, ok := step(task.Status)
	if !ok {
		return "", ErrNoTransition
	}

	done := s.markInFlight(id)
	defer done()

	if err := s.client.UpdateTaskStatus(ctx, id, target); err != nil {
		return "", s.fail(err, "task.status_failed", "changing task status")
	}

	s.tasks.PatchStatus(id, target)
	s.feedback.Success("task.status_changed",
		task.Title, s.tr.StatusLabel(from), s.tr.StatusLabel(target))

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:       model.ActivityStatusChanged,
		UserID:     actor.ID,
		UserName:   actor.Name,
		TaskID:     task.ID,
		TaskTitle:  task.Title,
		FromStatus: from,
		ToStatus:   target,
		Description: s.tr.T("task.status_changed",
			task.Title, s.tr.StatusLabel(from), s.tr.StatusLabel(target)),
	})
	return target, nil
}

// AddComment posts a comment and refetches the single task, since the
// comment endpoint does not echo a complete entity.
func (s *TaskService) AddComment(ctx context.Context, id, text string) error {
	task, ok := s.tasks.Get(id)
	if !ok {
		return ErrNotFound
	}

	done := s.markInFlight(id)
	defer done()

	if err := s.client.AddComment(ctx, id, text); err != nil {
		return s.fail(err, "task.comment_failed", "adding comment")
	}

	refreshed, err := s.client.TaskByID(ctx, id)
	if err == nil {
		s.tasks.Upsert(refreshed)
	}
	s.feedback.Success("task.comment_added", task.Title)

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:        model.ActivityCommentAdded,
		UserID:      actor.ID,
		UserName:    actor.Name,
		TaskID:      task.ID,
		TaskTitle:   task.Title,
		Description: s.tr.T("task.comment_added", task.Title),
	})
	return nil
}
