package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gestora/gestora/internal/model"
)

// MyTasks returns the tasks the current user is responsible for or
// assigned to.
func (c *Client) MyTasks(ctx context.Context) ([]model.Task, error) {
	var dtos []taskDTO
	if err := c.Get(ctx, "/tasks/my-tasks", &dtos); err != nil {
		return nil, fmt.Errorf("fetching my tasks: %w", err)
	}
	return mapTasks(dtos), nil
}

// AllTasks returns every task. Admin-scoped.
func (c *Client) AllTasks(ctx context.Context) ([]model.Task, error) {
	var dtos []taskDTO
	if err := c.Get(ctx, "/admin/tasks", &dtos); err != nil {
		return nil, fmt.Errorf("fetching all tasks: %w", err)
	}
	return mapTasks(dtos), nil
}

// TaskByID returns a single task.
func (c *Client) TaskByID(ctx context.Context, id string) (model.Task, error) {
	var dto taskDTO
	if err := c.Get(ctx, "/tasks/"+url.PathEscape(id), &dto); err != nil {
		return model.Task{}, fmt.Errorf("fetching task %s: %w", id, err)
	}
	return mapTask(dto), nil
}

// CreateTask creates a task and returns the mapped server response.
// Admin-scoped.
func (c *Client) CreateTask(ctx context.Context, payload TaskPayload) (model.Task, error) {
	var dto taskDTO
	if err := c.Post(ctx, "/admin/tasks", payload, &dto); err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return mapTask(dto), nil
}

// UpdateTask updates a task and returns the mapped server response.
func (c *Client) UpdateTask(ctx context.Context, id string, payload TaskPayload) (model.Task, error) {
	var dto taskDTO
	if err := c.Put(ctx, "/tasks/"+url.PathEscape(id), payload, &dto); err != nil {
		return model.Task{}, fmt.Errorf("updating task %s: %w", id, err)
	}
	return mapTask(dto), nil
}

// DeleteTask removes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/tasks/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}

// UpdateTaskStatus moves a task to the given status. The response body
// is ignored: callers apply a minimal local patch so fields the server
// does not echo are preserved.
func (c *Client) UpdateTaskStatus(ctx context.Context, id string, status model.TaskStatus) error {
	err := c.Patch(ctx, "/tasks/"+url.PathEscape(id)+"/status",
		map[string]string{"status": string(status)}, nil)
	if err != nil {
		return fmt.Errorf("updating status of task %s: %w", id, err)
	}
	return nil
}

// AddComment appends a comment to the task's discussion thread.
func (c *Client) AddComment(ctx context.Context, taskID, text string) error {
	err := c.Post(ctx, "/tasks/"+url.PathEscape(taskID)+"/comments",
		map[string]string{"text": text}, nil)
	if err != nil {
		return fmt.Errorf("adding comment to task %s: %w", taskID, err)
	}
	return nil
}

func mapTasks(dtos []taskDTO) []model.Task {
	tasks := make([]model.Task, 0, len(dtos))
	for _, dto := range dtos {
		tasks = append(tasks, mapTask(dto))
	}
	return tasks
}
