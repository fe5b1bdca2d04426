// Package login renders the credential form shown while the session is
// anonymous, plus the account flows reachable from it: registration,
// password recovery and first-login activation.
package login

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/theme"
)

// SubmitMsg is dispatched when the user submits the login form.
type SubmitMsg struct {
	Email    string
	Password string
	Remember bool
}

// RegisterMsg is dispatched when the user submits the registration
// form.
type RegisterMsg struct {
	Name     string
	Email    string
	Password string
}

// ForgotMsg asks the backend to email a reset code to the address.
type ForgotMsg struct {
	Email string
}

// ResetMsg consumes an emailed reset code to set a new password.
type ResetMsg struct {
	Token    string
	Password string
	Confirm  string
}

// SetupMsg consumes an invitation code to activate an account.
type SetupMsg struct {
	Token    string
	Password string
	Confirm  string
}

type mode int

const (
	modeCredentials mode = iota
	modeRegister
	modeForgot
	modeReset
	modeSetup
)

// formBindings holds form field values on the heap so that huh's
// Value() pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	email       string
	password    string
	remember    bool
	name        string
	token       string
	newPassword string
	confirm     string
}

// Model is the Bubble Tea model for the login screen.
type Model struct {
	form    *huh.Form
	fb      *formBindings
	mode    mode
	tr      *i18n.Translator
	errMsg  string
	infoMsg string
	busy    bool
	width   int
	height  int
}

// New creates a new login model.
func New(tr *i18n.Translator, width, height int) Model {
	return Model{
		fb:     &formBindings{},
		tr:     tr,
		width:  width,
		height: height,
	}
}

// Start initializes the credential form, pre-filling the remembered
// email.
func (m *Model) Start(rememberedEmail string) tea.Cmd {
	*m.fb = formBindings{
		email:    rememberedEmail,
		remember: rememberedEmail != "",
	}
	m.mode = modeCredentials
	m.errMsg = ""
	m.infoMsg = ""
	m.busy = false
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows a failure message and reopens the current form with
// the email kept so the user only retypes the password.
func (m *Model) SetError(msg string) tea.Cmd {
	m.errMsg = msg
	m.infoMsg = ""
	m.busy = false
	m.fb.password = ""
	m.fb.newPassword = ""
	m.fb.confirm = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetInfo shows a confirmation message and returns to the credential
// form, used after a recovery flow completed.
func (m *Model) SetInfo(msg string) tea.Cmd {
	email := m.fb.email
	cmd := m.Start(email)
	m.infoMsg = msg
	return cmd
}

// Update handles messages for the login screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || m.busy {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		if cmd, switched := m.switchMode(key.String()); switched {
			return m, cmd
		}
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.busy = true
		return m, m.submit()
	}
	if m.form.State == huh.StateAborted {
		if m.mode == modeCredentials {
			return m, tea.Quit
		}
		// esc leaves an account flow, back to the credential form.
		return m, m.Start(m.fb.email)
	}

	return m, cmd
}

// switchMode swaps to one of the account flows on its shortcut key.
func (m *Model) switchMode(key string) (tea.Cmd, bool) {
	var target mode
	switch key {
	case "ctrl+n":
		target = modeRegister
	case "ctrl+r":
		target = modeForgot
	case "ctrl+t":
		target = modeReset
	case "ctrl+p":
		target = modeSetup
	default:
		return nil, false
	}
	if m.mode == target {
		return nil, true
	}

	email := m.fb.email
	*m.fb = formBindings{email: email}
	m.mode = target
	m.errMsg = ""
	m.infoMsg = ""
	m.form = m.buildForm()
	return m.form.Init(), true
}

// submit emits the message for the completed form of the current mode.
func (m Model) submit() tea.Cmd {
	fb := *m.fb
	var out tea.Msg
	switch m.mode {
	case modeRegister:
		out = RegisterMsg{
			Name:     strings.TrimSpace(fb.name),
			Email:    strings.TrimSpace(fb.email),
			Password: fb.newPassword,
		}
	case modeForgot:
		out = ForgotMsg{Email: strings.TrimSpace(fb.email)}
	case modeReset:
		out = ResetMsg{
			Token:    strings.TrimSpace(fb.token),
			Password: fb.newPassword,
			Confirm:  fb.confirm,
		}
	case modeSetup:
		out = SetupMsg{
			Token:    strings.TrimSpace(fb.token),
			Password: fb.newPassword,
			Confirm:  fb.confirm,
		}
	default:
		out = SubmitMsg{
			Email:    strings.TrimSpace(fb.email),
			Password: fb.password,
			Remember: fb.remember,
		}
	}
	return func() tea.Msg { return out }
}

// View renders the login screen.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("GESTORA · " + m.title())

	parts := []string{title}
	if m.errMsg != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMsg))
	}
	if m.infoMsg != "" {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.ColorGreen).Render(m.infoMsg))
	}
	if m.busy {
		parts = append(parts, theme.HelpStyle.Render("..."))
	} else {
		parts = append(parts, m.form.View())
		if m.mode == modeCredentials {
			parts = append(parts, theme.HelpStyle.Render(
				"ctrl+n criar conta | ctrl+r recuperar | ctrl+t código | ctrl+p ativar"))
		} else {
			parts = append(parts, theme.HelpStyle.Render("esc voltar"))
		}
	}

	box := theme.PanelStyle.Render(strings.Join(parts, "\n"))

	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Render(box)
}

func (m Model) title() string {
	switch m.mode {
	case modeRegister:
		return m.tr.T("login.register_title")
	case modeForgot:
		return m.tr.T("login.forgot_title")
	case modeReset:
		return m.tr.T("login.reset_title")
	case modeSetup:
		return m.tr.T("login.setup_title")
	default:
		return m.tr.T("login.title")
	}
}

// SetSize updates the screen dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	var fields []huh.Field

	switch m.mode {
	case modeRegister:
		fields = []huh.Field{
			huh.NewInput().
				Title(m.tr.T("login.name")).
				Value(&m.fb.name).
				Validate(m.validateRequired),
			huh.NewInput().
				Title(m.tr.T("login.email")).
				Placeholder("nome@empresa.pt").
				Value(&m.fb.email).
				Validate(m.validateEmail),
			huh.NewInput().
				Title(m.tr.T("login.password")).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.newPassword).
				Validate(m.validateRequired),
		}
	case modeForgot:
		fields = []huh.Field{
			huh.NewInput().
				Title(m.tr.T("login.email")).
				Placeholder("nome@empresa.pt").
				Value(&m.fb.email).
				Validate(m.validateEmail),
		}
	case modeReset, modeSetup:
		fields = []huh.Field{
			huh.NewInput().
				Title(m.tr.T("login.token")).
				Value(&m.fb.token).
				Validate(m.validateRequired),
			huh.NewInput().
				Title(m.tr.T("login.new_password")).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.newPassword).
				Validate(m.validateRequired),
			huh.NewInput().
				Title(m.tr.T("login.confirm_password")).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.confirm).
				Validate(m.validateConfirm),
		}
	default:
		fields = []huh.Field{
			huh.NewInput().
				Title(m.tr.T("login.email")).
				Placeholder("nome@empresa.pt").
				Value(&m.fb.email).
				Validate(m.validateEmail),
			huh.NewInput().
				Title(m.tr.T("login.password")).
				EchoMode(huh.EchoModePassword).
				Value(&m.fb.password).
				Validate(m.validateRequired),
			huh.NewConfirm().
				Title(m.tr.T("login.remember")).
				Value(&m.fb.remember),
		}
	}

	return huh.NewForm(huh.NewGroup(fields...)).
		WithWidth(m.formWidth()).
		WithShowHelp(false)
}

func (m Model) formWidth() int {
	w := m.width / 2
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m *Model) validateEmail(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("%s", m.tr.T("user.email_required"))
	}
	if !strings.Contains(s, "@") {
		return fmt.Errorf("%s", m.tr.T("user.email_invalid"))
	}
	return nil
}

func (m *Model) validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%s", m.tr.T("form.required"))
	}
	return nil
}

func (m *Model) validateConfirm(s string) error {
	if s != m.fb.newPassword {
		return fmt.Errorf("%s", m.tr.T("auth.password_mismatch"))
	}
	return nil
}
