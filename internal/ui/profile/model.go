// Package profile shows the signed-in user's details and hosts the
// password change form.
package profile

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/keys"
	"github.com/gestora/gestora/internal/session"
	gestorasync "github.com/gestora/gestora/internal/sync"
	"github.com/gestora/gestora/internal/theme"
)

// CloseMsg signals the parent to leave the profile view.
type CloseMsg struct{}

// PasswordChangedMsg reports the outcome of a password change.
type PasswordChangedMsg struct{ Err error }

type formBindings struct {
	oldPassword string
	newPassword string
	confirm     string
}

// Model is the profile view component.
type Model struct {
	sess      *session.Manager
	service   *gestorasync.UserService
	keys      *keys.KeyMap
	tr        *i18n.Translator
	form      *huh.Form
	fb        *formBindings
	statusMsg string
	statusOK  bool
	width     int
	height    int
}

// New creates a new profile model.
func New(sess *session.Manager, service *gestorasync.UserService, k *keys.KeyMap, tr *i18n.Translator, width, height int) Model {
	return Model{
		sess:    sess,
		service: service,
		keys:    k,
		tr:      tr,
		fb:      &formBindings{},
		width:   width,
		height:  height,
	}
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case PasswordChangedMsg:
		if msg.Err != nil {
			m.statusMsg = msg.Err.Error()
			m.statusOK = false
		} else {
			m.statusMsg = m.tr.T("auth.password_changed")
			m.statusOK = true
		}
		return m, nil

	case tea.KeyMsg:
		if m.form == nil {
			return m.handleListKey(msg)
		}
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	if m.form.State == huh.StateCompleted {
		submit := m.submitPassword()
		m.form = nil
		return m, submit
	}
	if m.form.State == huh.StateAborted {
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return CloseMsg{} }

	case key.Matches(msg, m.keys.Edit):
		*m.fb = formBindings{}
		m.statusMsg = ""
		m.form = m.buildForm()
		return m, m.form.Init()
	}
	return m, nil
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Palavra-passe atual").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.oldPassword).
				Validate(m.validateRequired),
			huh.NewInput().
				Title("Nova palavra-passe").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.newPassword).
				Validate(m.validateRequired),
			huh.NewInput().
				Title("Confirmar nova palavra-passe").
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateRequired),
		),
	).WithWidth(m.formWidth())
}

func (m Model) submitPassword() tea.Cmd {
	u, ok := m.sess.User()
	if !ok {
		return nil
	}
	svc := m.service
	fb := *m.fb
	id := u.ID
	return func() tea.Msg {
		err := svc.ChangePassword(context.Background(), id, fb.newPassword, fb.confirm, fb.oldPassword)
		return PasswordChangedMsg{Err: err}
	}
}

// View renders the profile view.
func (m Model) View() string {
	if m.form != nil {
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	}

	u, ok := m.sess.User()
	if !ok {
		return ""
	}

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)

	var b strings.Builder
	b.WriteString(titleStyle.Render(u.Name))
	b.WriteString("\n")
	b.WriteString(theme.RoleStyle(u.Role).Render(m.tr.RoleLabel(u.Role)))
	b.WriteString("\n\n")

	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(labelStyle.Render(label + ": "))
		b.WriteString(value)
		b.WriteString("\n")
	}
	writeField("Email", u.Email)
	writeField("Departamento", u.Department)
	writeField("Cargo", u.Position)
	writeField("Telefone", u.Phone)
	if u.AvatarRef != "" {
		writeField("Avatar", m.tr.T("profile.avatar_cached"))
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		if m.statusOK {
			b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.statusMsg))
		} else {
			b.WriteString(theme.ErrorStyle.Render(m.statusMsg))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("e alterar palavra-passe | esc voltar"))

	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Render(b.String())
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

func (m Model) validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s", m.tr.T("form.required"))
	}
	return nil
}
