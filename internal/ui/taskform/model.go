// Package taskform implements the task create/edit form.
package taskform

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/theme"
)

// SubmitMsg is dispatched when the form is completed. EditID is empty
// for a create.
type SubmitMsg struct {
	EditID  string
	Payload api.TaskPayload
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title          string
	description    string
	priority       string
	responsibleID  string
	intervenientes []string
	startDate      string
	dueDate        string
	daysToFinish   string
}

// Model is the Bubble Tea model for the task create/edit form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	tr       *i18n.Translator
	editMode bool
	editID   string
	users    []model.User
	width    int
	height   int
}

// New creates a new task form model.
func New(tr *i18n.Translator, width, height int) Model {
	return Model{
		fb:     &formBindings{priority: string(model.PriorityMedium)},
		tr:     tr,
		width:  width,
		height: height,
	}
}

// SetUsers sets the candidate assignees for the responsible and
// intervenientes selectors.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
}

// StartCreate initializes the form for creating a new task.
func (m *Model) StartCreate() tea.Cmd {
	m.editMode = false
	m.editID = ""
	*m.fb = formBindings{
		priority:  string(model.PriorityMedium),
		startDate: time.Now().Format("2006-01-02"),
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit initializes the form for editing an existing task.
func (m *Model) StartEdit(task model.Task) tea.Cmd {
	m.editMode = true
	m.editID = task.ID
	*m.fb = formBindings{
		title:          task.Title,
		description:    task.Description,
		priority:       string(task.Priority),
		responsibleID:  task.ResponsibleID,
		intervenientes: append([]string(nil), task.Intervenientes...),
		daysToFinish:   strconvDays(task.DaysToFinish),
	}
	if !task.StartDate.IsZero() {
		m.fb.startDate = task.StartDate.Format("2006-01-02")
	}
	if task.DueDate != nil {
		m.fb.dueDate = task.DueDate.Format("2006-01-02")
	}
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := m.tr.T("form.task_new")
	if m.editMode {
		titleText = m.tr.T("form.task_edit")
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Título").
			Value(&m.fb.title).
			Validate(m.validateRequired),
		huh.NewText().
			Title("Descrição").
			Value(&m.fb.description),
		huh.NewSelect[string]().
			Title("Prioridade").
			Options(
				huh.NewOption(m.tr.PriorityLabel(model.PriorityUrgent), string(model.PriorityUrgent)),
				huh.NewOption(m.tr.PriorityLabel(model.PriorityHigh), string(model.PriorityHigh)),
				huh.NewOption(m.tr.PriorityLabel(model.PriorityMedium), string(model.PriorityMedium)),
				huh.NewOption(m.tr.PriorityLabel(model.PriorityLow), string(model.PriorityLow)),
			).
			Value(&m.fb.priority),
		m.responsibleField(),
	}
	if f := m.intervenientesField(); f != nil {
		fields = append(fields, f)
	}
	fields = append(fields,
		huh.NewInput().
			Title("Data de início").
			Placeholder("YYYY-MM-DD").
			Value(&m.fb.startDate).
			Validate(m.validateOptionalDate),
		huh.NewInput().
			Title("Prazo").
			Placeholder("YYYY-MM-DD (opcional)").
			Value(&m.fb.dueDate).
			Validate(m.validateOptionalDate),
		huh.NewInput().
			Title("Dias para terminar").
			Placeholder("1").
			Value(&m.fb.daysToFinish).
			Validate(validateOptionalDays),
	)

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) responsibleField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.users))
	for _, u := range m.users {
		opts = append(opts, huh.NewOption(u.Name, u.ID))
	}
	return huh.NewSelect[string]().
		Title("Responsável").
		Options(opts...).
		Value(&m.fb.responsibleID)
}

func (m *Model) intervenientesField() huh.Field {
	if len(m.users) < 2 {
		return nil
	}
	opts := make([]huh.Option[string], len(m.users))
	for i, u := range m.users {
		opts[i] = huh.NewOption(u.Name, u.ID)
	}
	return huh.NewMultiSelect[string]().
		Title("Intervenientes").
		Options(opts...).
		Value(&m.fb.intervenientes)
}

func (m Model) handleSubmit() tea.Cmd {
	payload := api.TaskPayload{
		Title:          strings.TrimSpace(m.fb.title),
		Description:    strings.TrimSpace(m.fb.description),
		Priority:       m.fb.priority,
		ResponsibleID:  m.fb.responsibleID,
		Intervenientes: m.fb.intervenientes,
		StartDate:      strings.TrimSpace(m.fb.startDate),
		DueDate:        strings.TrimSpace(m.fb.dueDate),
	}
	if days, err := parseDays(m.fb.daysToFinish); err == nil {
		payload.DaysToFinish = days
	}

	editID := m.editID
	return func() tea.Msg { return SubmitMsg{EditID: editID, Payload: payload} }
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func (m Model) validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s", m.tr.T("form.required"))
	}
	return nil
}

func (m Model) validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", s); err != nil {
		return fmt.Errorf("%s", m.tr.T("form.date"))
	}
	return nil
}

func validateOptionalDays(s string) error {
	if _, err := parseDays(s); err != nil {
		return fmt.Errorf("número de dias inválido")
	}
	return nil
}

func parseDays(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid day count %q", s)
	}
	return n, nil
}

func strconvDays(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
