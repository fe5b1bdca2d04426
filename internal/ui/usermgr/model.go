// Package usermgr implements the admin user management view: list,
// create/edit forms, role toggle and delete confirmation.
package usermgr

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/keys"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/store"
	gestorasync "github.com/gestora/gestora/internal/sync"
	"github.com/gestora/gestora/internal/theme"
)

// CloseMsg signals the parent to leave the user management view.
type CloseMsg struct{}

type userMode int

const (
	modeList userMode = iota
	modeForm
	modeConfirmDelete
)

type formBindings struct {
	name       string
	email      string
	role       string
	department string
	position   string
	phone      string
	password   string
	confirm    bool
}

type usersChangedMsg struct{ err error }

// Model is the Bubble Tea model for user management.
type Model struct {
	mode        userMode
	service     *gestorasync.UserService
	users       *store.UserStore
	keys        *keys.KeyMap
	tr          *i18n.Translator
	listing     []model.User
	selectedIdx int
	editingID   string
	isNew       bool
	form        *huh.Form
	confirmForm *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a new user manager model.
func New(service *gestorasync.UserService, users *store.UserStore, k *keys.KeyMap, tr *i18n.Translator, width, height int) Model {
	return Model{
		mode:    modeList,
		service: service,
		users:   users,
		keys:    k,
		tr:      tr,
		fb:      &formBindings{},
		width:   width, height: height,
	}
}

// Refresh re-reads the user collection from the store.
func (m *Model) Refresh() {
	m.listing = m.users.Sorted()
	if m.selectedIdx >= len(m.listing) && m.selectedIdx > 0 {
		m.selectedIdx = len(m.listing) - 1
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case usersChangedMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
		} else {
			m.statusMsg = ""
		}
		m.mode = modeList
		m.Refresh()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeList:
		return m.handleListKey(msg)
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.listing) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.listing)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.listing) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.listing) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.New):
		m.isNew = true
		m.editingID = ""
		*m.fb = formBindings{role: string(model.RoleUser)}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		if len(m.listing) == 0 {
			return m, nil
		}
		u := m.listing[m.selectedIdx]
		m.isNew = false
		m.editingID = u.ID
		*m.fb = formBindings{
			name:       u.Name,
			email:      u.Email,
			role:       string(u.Role),
			department: u.Department,
			position:   u.Position,
			phone:      u.Phone,
		}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.ChangeRole):
		if len(m.listing) == 0 {
			return m, nil
		}
		u := m.listing[m.selectedIdx]
		role := model.RoleAdmin
		if u.IsAdmin() {
			role = model.RoleUser
		}
		return m, m.changeRole(u.ID, role)

	case key.Matches(msg, m.keys.Delete):
		if len(m.listing) == 0 {
			return m, nil
		}
		m.fb.confirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = modeConfirmDelete
		return m, m.confirmForm.Init()
	}
	return m, nil
}

func (m Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Nome").
			Value(&m.fb.name).
			Validate(m.validateRequired),
		huh.NewInput().
			Title("Email").
			Value(&m.fb.email).
			Validate(m.validateEmail),
		huh.NewSelect[string]().
			Title("Função").
			Options(
				huh.NewOption(m.tr.RoleLabel(model.RoleUser), string(model.RoleUser)),
				huh.NewOption(m.tr.RoleLabel(model.RoleAdmin), string(model.RoleAdmin)),
			).
			Value(&m.fb.role),
		huh.NewInput().
			Title("Departamento").
			Value(&m.fb.department),
		huh.NewInput().
			Title("Cargo").
			Value(&m.fb.position),
		huh.NewInput().
			Title("Telefone").
			Value(&m.fb.phone),
	}
	if m.isNew {
		fields = append(fields,
			huh.NewInput().
				Title("Palavra-passe").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(m.validateRequired),
		)
	}
	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.selectedIdx < len(m.listing) {
		name = m.listing[m.selectedIdx].Name
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Eliminar o utilizador %q?", name)).
				Description("As tarefas atribuídas ficam sem responsável.").
				Affirmative("Sim, eliminar").
				Negative("Cancelar").
				Value(&m.fb.confirm),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		return m, m.saveUser()
	}
	if m.form.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateConfirm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}
	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}
	if m.confirmForm.State == huh.StateCompleted {
		if m.fb.confirm {
			u := m.listing[m.selectedIdx]
			return m, m.deleteUser(u.ID)
		}
		m.mode = modeList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case modeForm:
		return m.updateForm(msg)
	case modeConfirmDelete:
		return m.updateConfirm(msg)
	}
	return m, nil
}

// View renders the user manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		return m.viewForm(m.form)
	case modeConfirmDelete:
		return m.viewForm(m.confirmForm)
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render(m.tr.T("app.users")))
	b.WriteString("\n\n")

	if len(m.listing) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("Sem utilizadores."))
	} else {
		for i, u := range m.listing {
			role := theme.RoleStyle(u.Role).Render(m.tr.RoleLabel(u.Role))
			label := fmt.Sprintf("%s  %s  %s", role, u.Name, theme.DimmedStyle.Render(u.Email))
			if u.Department != "" {
				label += theme.DimmedStyle.Render("  · " + u.Department)
			}

			if i == m.selectedIdx {
				b.WriteString(theme.SelectedItemStyle.Render(label))
			} else {
				b.WriteString(theme.ListItemStyle.Render(label))
			}
			b.WriteString("\n")
		}
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(
		"n novo | e editar | t alternar função | d eliminar | esc voltar",
	))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().Padding(1, 2).Render(f.View())
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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

func (m Model) validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s", m.tr.T("user.email_required"))
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("%s", m.tr.T("user.email_invalid"))
	}
	return nil
}

func (m Model) saveUser() tea.Cmd {
	svc := m.service
	fb := m.fb
	editID := m.editingID
	isNew := m.isNew
	return func() tea.Msg {
		payload := api.UserPayload{
			Name:       strings.TrimSpace(fb.name),
			Email:      strings.TrimSpace(fb.email),
			Role:       fb.role,
			Department: strings.TrimSpace(fb.department),
			Position:   strings.TrimSpace(fb.position),
			Phone:      strings.TrimSpace(fb.phone),
		}
		var err error
		if isNew {
			payload.Password = fb.password
			_, err = svc.Create(context.Background(), payload)
		} else {
			_, err = svc.Update(context.Background(), editID, payload)
		}
		return usersChangedMsg{err: err}
	}
}

func (m Model) deleteUser(id string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		return usersChangedMsg{err: svc.Delete(context.Background(), id)}
	}
}

func (m Model) changeRole(id string, role model.Role) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		_, err := svc.ChangeRole(context.Background(), id, role)
		return usersChangedMsg{err: err}
	}
}
