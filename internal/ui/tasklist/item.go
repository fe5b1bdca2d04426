package tasklist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/theme"
	"github.com/gestora/gestora/internal/workflow"
)

// TaskItem wraps a model.Task so it can be used in a bubbles/list.
type TaskItem struct {
	Task model.Task
}

// FilterValue returns the string used for fuzzy filtering.
func (i TaskItem) FilterValue() string { return i.Task.Title }

// TaskDelegate implements list.ItemDelegate for rendering task rows.
type TaskDelegate struct {
	tr       *i18n.Translator
	inFlight func(string) bool
}

// Height returns the number of lines each item takes.
func (d TaskDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d TaskDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d TaskDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single task row.
func (d TaskDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	taskItem, ok := item.(TaskItem)
	if !ok {
		return
	}
	task := taskItem.Task
	isSelected := index == m.Index()

	statusBadge := theme.StatusStyle(task.Status).Render(d.tr.StatusLabel(task.Status))
	priBadge := theme.PriorityStyle(task.Priority).Render(d.tr.PriorityLabel(task.Priority))

	responsible := task.ResponsibleName
	if responsible == "" {
		responsible = task.ResponsibleID
	}
	responsibleStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(responsible)

	dueStr := ""
	if task.DueDate != nil {
		style := lipgloss.NewStyle().Foreground(theme.ColorGray)
		if task.DueDate.Before(time.Now()) && !isDone(task.Status) {
			style = style.Foreground(theme.ColorRed)
		}
		dueStr = style.Render(" " + task.DueDate.Format("02 Jan"))
	}

	pendingStr := ""
	if d.inFlight != nil && d.inFlight(task.ID) {
		pendingStr = lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Render(" …")
	}

	line := fmt.Sprintf(
		"%s %s %s  %s%s%s",
		statusBadge, priBadge, task.Title, responsibleStr, dueStr, pendingStr,
	)

	if isDone(task.Status) {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// isDone reports whether the task has left the active part of the
// workflow.
func isDone(status model.TaskStatus) bool {
	mapped := workflow.MapStatus(status)
	return mapped == model.StatusFinished || mapped == model.StatusClosed
}
