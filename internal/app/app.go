// Package app hosts the root Bubble Tea model: view routing, session
// gating, and the glue between the view components and the sync layer.
package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/keys"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
	gestorasync "github.com/gestora/gestora/internal/sync"
	"github.com/gestora/gestora/internal/ui"
	"github.com/gestora/gestora/internal/ui/dashboard"
	"github.com/gestora/gestora/internal/ui/detail"
	helpview "github.com/gestora/gestora/internal/ui/help"
	"github.com/gestora/gestora/internal/ui/login"
	"github.com/gestora/gestora/internal/ui/notifpanel"
	"github.com/gestora/gestora/internal/ui/profile"
	"github.com/gestora/gestora/internal/ui/taskform"
	"github.com/gestora/gestora/internal/ui/tasklist"
	"github.com/gestora/gestora/internal/ui/usermgr"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewLogin ViewState = iota
	ViewTasks
	ViewDetail
	ViewTaskForm
	ViewDashboard
	ViewUsers
	ViewNotifications
	ViewProfile
	ViewHelp
)

// restoredMsg reports the outcome of the startup session restore.
type restoredMsg struct {
	user model.User
	ok   bool
}

// loginResultMsg reports the outcome of a login attempt.
type loginResultMsg struct {
	user model.User
	err  error
}

// dataLoadedMsg reports the outcome of the post-login bulk load.
type dataLoadedMsg struct{ err error }

// accountFlowMsg reports the outcome of an anonymous account flow
// (registration, password recovery, activation). doneKey is the
// message shown on the login form when the flow succeeded.
type accountFlowMsg struct {
	doneKey string
	err     error
}

// taskMutatedMsg reports the outcome of a task mutation triggered from
// a view. The affected task id is carried so the detail view can be
// refreshed from the store.
type taskMutatedMsg struct {
	taskID string
	err    error
}

// Deps bundles the collaborators the root model needs.
type Deps struct {
	Session       *session.Manager
	Tasks         *gestorasync.TaskService
	Users         *gestorasync.UserService
	Notifications *gestorasync.NotificationService
	Activities    *gestorasync.ActivityLog
	Refresher     *gestorasync.Refresher
	TaskStore     *store.TaskStore
	UserStore     *store.UserStore
	NotifStore    *store.NotificationStore
	Translator    *i18n.Translator
}

// Model is the root Bubble Tea model that manages view routing,
// layout, and session state.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	deps         Deps
	keys         *keys.KeyMap
	tr           *i18n.Translator

	loginView     login.Model
	taskList      tasklist.Model
	detailView    detail.Model
	taskFormView  taskform.Model
	dashboardView dashboard.Model
	userView      usermgr.Model
	notifView     notifpanel.Model
	profileView   profile.Model
	helpView      helpview.Model

	ready       bool
	unreadCount int
}

// New creates the root application model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	tr := d.Translator

	return Model{
		currentView:   ViewLogin,
		deps:          d,
		keys:          k,
		tr:            tr,
		loginView:     login.New(tr, 80, 24),
		taskList:      tasklist.New(d.TaskStore, k, tr, d.Tasks.InFlight, 80, 24),
		detailView:    detail.New(d.Session, k, tr, 80, 24),
		taskFormView:  taskform.New(tr, 80, 24),
		dashboardView: dashboard.New(d.TaskStore, d.UserStore, d.Session, tr, 80, 24),
		userView:      usermgr.New(d.Users, d.UserStore, k, tr, 80, 24),
		notifView:     notifpanel.New(d.Notifications, d.NotifStore, d.Activities, k, tr, 80, 24),
		profileView:   profile.New(d.Session, d.Users, k, tr, 80, 24),
		helpView:      helpview.New(k, 80, 24),
	}
}

// Init attempts to restore a persisted session before showing the
// login form.
func (m Model) Init() tea.Cmd {
	sess := m.deps.Session
	return func() tea.Msg {
		user, ok, _ := sess.Restore(context.Background())
		return restoredMsg{user: user, ok: ok}
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.loginView.SetSize(w, h)
		m.taskList.SetSize(w, h)
		m.detailView.SetSize(w, h)
		m.taskFormView.SetSize(w, h)
		m.dashboardView.SetSize(w, h)
		m.userView.SetSize(w, h)
		m.notifView.SetSize(w, h)
		m.profileView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveView(msg)

	case restoredMsg:
		if !msg.ok {
			remembered := m.deps.Session.RememberedEmail(context.Background())
			return m, m.loginView.Start(remembered)
		}
		return m.enterAuthenticated()

	case login.SubmitMsg:
		return m, m.doLogin(msg)

	case login.RegisterMsg:
		return m, m.runAccountFlow("auth.register_done", func(ctx context.Context, sess *session.Manager) error {
			return sess.Register(ctx, msg.Name, msg.Email, msg.Password)
		})

	case login.ForgotMsg:
		return m, m.runAccountFlow("auth.reset_sent", func(ctx context.Context, sess *session.Manager) error {
			return sess.RequestPasswordReset(ctx, msg.Email)
		})

	case login.ResetMsg:
		return m, m.runAccountFlow("auth.reset_done", func(ctx context.Context, sess *session.Manager) error {
			return sess.ResetPassword(ctx, msg.Token, msg.Password, msg.Confirm)
		})

	case login.SetupMsg:
		return m, m.runAccountFlow("auth.setup_done", func(ctx context.Context, sess *session.Manager) error {
			return sess.ActivateAccount(ctx, msg.Token, msg.Password, msg.Confirm)
		})

	case accountFlowMsg:
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrTokenRejected) {
				return m, m.loginView.SetError(m.tr.T("auth.token_invalid"))
			}
			return m, m.loginView.SetError(gestorasync.UserMessage(m.tr, msg.err))
		}
		return m, m.loginView.SetInfo(m.tr.T(msg.doneKey))

	case loginResultMsg:
		if msg.err != nil {
			return m, m.loginView.SetError(loginErrorMessage(m.tr, msg.err))
		}
		return m.enterAuthenticated()

	case dataLoadedMsg:
		if u, ok := m.deps.Session.User(); ok && u.AvatarRef != "" {
			m.deps.UserStore.SetAvatarRef(u.ID, u.AvatarRef)
		}
		m.userView.Refresh()
		m.notifView.Refresh()
		return m, m.taskList.LoadTasks()

	case gestorasync.RefreshMsg:
		if msg.Err == nil {
			m.unreadCount = msg.UnreadCount
			m.notifView.Refresh()
		}
		if !m.deps.Session.IsAuthenticated() && m.currentView != ViewLogin {
			return m.enterLogin()
		}
		return m, m.deps.Refresher.WaitForNextResult()

	case tasklist.SelectedTaskMsg:
		task, ok := m.deps.TaskStore.Get(msg.TaskID)
		if !ok {
			return m, nil
		}
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detailView.SetTask(task)
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case detail.AdvanceMsg:
		return m, m.advanceTask(msg.TaskID)

	case detail.RegressMsg:
		return m, m.regressTask(msg.TaskID)

	case detail.CommentMsg:
		return m, m.addComment(msg.TaskID, msg.Text)

	case taskMutatedMsg:
		m.unreadCount = m.deps.NotifStore.UnreadCount()
		m.notifView.Refresh()
		if !m.deps.Session.IsAuthenticated() {
			return m.enterLogin()
		}
		if m.currentView == ViewDetail {
			if task, ok := m.deps.TaskStore.Get(msg.taskID); ok {
				m.detailView.SetTask(task)
			} else {
				m.currentView = ViewTasks
			}
		}
		return m, m.taskList.LoadTasks()

	case taskform.SubmitMsg:
		m.currentView = ViewTasks
		return m, m.saveTask(msg)

	case taskform.CancelMsg:
		m.currentView = ViewTasks
		return m, nil

	case usermgr.CloseMsg, notifpanel.CloseMsg, profile.CloseMsg:
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks()

	case notifpanel.MarkedMsg:
		var cmd tea.Cmd
		m.notifView, cmd = m.notifView.Update(msg)
		m.unreadCount = m.deps.NotifStore.UnreadCount()
		return m, cmd

	case tea.KeyMsg:
		if newModel, cmd, handled := m.handleGlobalKey(msg); handled {
			return newModel, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleGlobalKey processes keys that work across views. Keys are not
// global while the login form, a modal form, or the search input has
// focus.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		m.deps.Refresher.Stop()
		return m, tea.Quit, true
	}

	if m.currentView == ViewLogin || m.currentView == ViewTaskForm {
		return m, nil, false
	}
	if m.currentView == ViewTasks && m.taskList.Searching() {
		return m, nil, false
	}
	if m.currentView == ViewDetail && m.detailView.Typing() {
		return m, nil, false
	}
	// The user manager and profile host their own forms; only intercept
	// while they are in list mode.
	if m.currentView == ViewUsers || m.currentView == ViewProfile {
		switch msg.String() {
		case "ctrl+l", "?", "1", "2", "3", "4", "5":
		default:
			return m, nil, false
		}
	}

	switch msg.String() {
	case "q":
		if m.currentView == ViewTasks {
			m.deps.Refresher.Stop()
			return m, tea.Quit, true
		}
		return m, nil, false

	case "?":
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "ctrl+l":
		return m.doLogout()

	case "r":
		return m, tea.Batch(m.deps.Refresher.RefreshNow(), m.reloadData()), true

	case "1":
		m.currentView = ViewTasks
		return m, m.taskList.LoadTasks(), true

	case "2":
		m.currentView = ViewDashboard
		return m, nil, true

	case "3":
		if m.deps.Session.CanManageUsers() {
			m.currentView = ViewUsers
			m.userView.Refresh()
			return m, nil, true
		}
		return m, nil, true

	case "4":
		m.currentView = ViewNotifications
		m.notifView.Refresh()
		return m, nil, true

	case "5":
		m.currentView = ViewProfile
		return m, nil, true
	}

	if m.currentView != ViewTasks {
		return m, nil, false
	}

	// Task actions on the list view.
	switch msg.String() {
	case "n":
		if m.deps.Session.CanCreateTask() {
			m.previousView = m.currentView
			m.currentView = ViewTaskForm
			m.taskFormView.SetUsers(m.deps.UserStore.Sorted())
			return m, m.taskFormView.StartCreate(), true
		}
		return m, nil, true

	case "e":
		task, ok := m.taskList.SelectedTask()
		if ok && m.deps.Session.CanEditTask(task) {
			m.previousView = m.currentView
			m.currentView = ViewTaskForm
			m.taskFormView.SetUsers(m.deps.UserStore.Sorted())
			return m, m.taskFormView.StartEdit(task), true
		}
		return m, nil, true

	case "d":
		task, ok := m.taskList.SelectedTask()
		if ok && m.deps.Session.CanDeleteTask(task) {
			return m, m.deleteTask(task.ID), true
		}
		return m, nil, true

	case "+", ".":
		task, ok := m.taskList.SelectedTask()
		if ok && m.deps.Session.CanAdvance(task) {
			return m, m.advanceTask(task.ID), true
		}
		return m, nil, true

	case "-", ",":
		task, ok := m.taskList.SelectedTask()
		if ok && m.deps.Session.CanRegress(task) {
			return m, m.regressTask(task.ID), true
		}
		return m, nil, true
	}

	return m, nil, false
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewLogin:
		m.loginView, cmd = m.loginView.Update(msg)
	case ViewTasks:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detailView, cmd = m.detailView.Update(msg)
	case ViewTaskForm:
		m.taskFormView, cmd = m.taskFormView.Update(msg)
	case ViewDashboard:
		m.dashboardView, cmd = m.dashboardView.Update(msg)
	case ViewUsers:
		m.userView, cmd = m.userView.Update(msg)
	case ViewNotifications:
		m.notifView, cmd = m.notifView.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// enterAuthenticated switches to the task board and starts the
// background refresher and the initial data load. A user flagged for a
// forced password change lands on the profile view instead.
func (m Model) enterAuthenticated() (tea.Model, tea.Cmd) {
	m.currentView = ViewTasks
	if u, ok := m.deps.Session.User(); ok && u.MustChangePassword {
		m.currentView = ViewProfile
	}
	return m, tea.Batch(
		m.deps.Refresher.Start(),
		m.reloadData(),
	)
}

// enterLogin drops back to the login form after the session ended.
func (m Model) enterLogin() (tea.Model, tea.Cmd) {
	m.currentView = ViewLogin
	m.unreadCount = 0
	remembered := m.deps.Session.RememberedEmail(context.Background())
	start := m.loginView.Start(remembered)
	return m, tea.Batch(start, m.loginView.SetError(m.tr.T("auth.session_expired")))
}

// runAccountFlow executes an anonymous account operation off the UI
// goroutine and reports its outcome for the login form.
func (m Model) runAccountFlow(doneKey string, op func(context.Context, *session.Manager) error) tea.Cmd {
	sess := m.deps.Session
	return func() tea.Msg {
		return accountFlowMsg{doneKey: doneKey, err: op(context.Background(), sess)}
	}
}

// doLogin runs the login flow off the UI goroutine.
func (m Model) doLogin(msg login.SubmitMsg) tea.Cmd {
	sess := m.deps.Session
	return func() tea.Msg {
		user, err := sess.Login(context.Background(), msg.Email, msg.Password, msg.Remember)
		return loginResultMsg{user: user, err: err}
	}
}

// doLogout tears the session down and returns to the login form.
func (m Model) doLogout() (tea.Model, tea.Cmd, bool) {
	m.deps.Refresher.Stop()
	sess := m.deps.Session
	m.currentView = ViewLogin
	m.unreadCount = 0
	logout := func() tea.Msg {
		sess.Logout(context.Background())
		return nil
	}
	remembered := m.deps.Session.RememberedEmail(context.Background())
	return m, tea.Batch(logout, m.loginView.Start(remembered)), true
}

// reloadData fetches tasks, users and notifications from the backend.
// Failures are reported through the notification store by the services
// themselves.
func (m Model) reloadData() tea.Cmd {
	d := m.deps
	return func() tea.Msg {
		ctx := context.Background()
		err := d.Tasks.Load(ctx)
		if d.Session.CanManageUsers() {
			if uerr := d.Users.Load(ctx); err == nil {
				err = uerr
			}
		}
		if nerr := d.Notifications.Load(ctx); err == nil {
			err = nerr
		}
		return dataLoadedMsg{err: err}
	}
}

func (m Model) saveTask(msg taskform.SubmitMsg) tea.Cmd {
	svc := m.deps.Tasks
	return func() tea.Msg {
		ctx := context.Background()
		var err error
		var id string
		if msg.EditID == "" {
			var task model.Task
			task, err = svc.Create(ctx, msg.Payload)
			id = task.ID
		} else {
			id = msg.EditID
			_, err = svc.Update(ctx, id, msg.Payload)
		}
		return taskMutatedMsg{taskID: id, err: err}
	}
}

func (m Model) deleteTask(id string) tea.Cmd {
	svc := m.deps.Tasks
	return func() tea.Msg {
		return taskMutatedMsg{taskID: id, err: svc.Delete(context.Background(), id)}
	}
}

func (m Model) advanceTask(id string) tea.Cmd {
	svc := m.deps.Tasks
	return func() tea.Msg {
		_, err := svc.Advance(context.Background(), id)
		return taskMutatedMsg{taskID: id, err: err}
	}
}

func (m Model) regressTask(id string) tea.Cmd {
	svc := m.deps.Tasks
	return func() tea.Msg {
		_, err := svc.Regress(context.Background(), id)
		return taskMutatedMsg{taskID: id, err: err}
	}
}

func (m Model) addComment(id, text string) tea.Cmd {
	svc := m.deps.Tasks
	return func() tea.Msg {
		return taskMutatedMsg{taskID: id, err: svc.AddComment(context.Background(), id, text)}
	}
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "A carregar..."
	}

	if m.currentView == ViewLogin {
		return m.loginView.View()
	}

	header := m.layout.RenderHeader(m.headerTitle(), m.sessionInfo())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewTasks:
		return m.taskList.View()
	case ViewDetail:
		return m.detailView.View()
	case ViewTaskForm:
		return m.taskFormView.View()
	case ViewDashboard:
		return m.dashboardView.View()
	case ViewUsers:
		return m.userView.View()
	case ViewNotifications:
		return m.notifView.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// headerTitle returns the section title with the unread badge.
func (m Model) headerTitle() string {
	title := "GESTORA · "
	switch m.currentView {
	case ViewDashboard:
		title += m.tr.T("app.dashboard")
	case ViewUsers:
		title += m.tr.T("app.users")
	case ViewNotifications:
		title += m.tr.T("app.notifications")
	case ViewProfile:
		title += m.tr.T("app.profile")
	default:
		title += m.tr.T("app.tasks")
	}
	if m.unreadCount > 0 {
		title += fmt.Sprintf(" [%d]", m.unreadCount)
	}
	return title
}

// sessionInfo summarizes the signed-in user for the header.
func (m Model) sessionInfo() string {
	u, ok := m.deps.Session.User()
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s · %s", u.Name, m.tr.RoleLabel(u.Role))
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? fechar ajuda | esc voltar"
	case ViewDetail:
		return "+ avançar | - recuar | c comentar | j/k deslocar | esc voltar"
	case ViewTaskForm:
		return "enter submeter | esc cancelar"
	case ViewDashboard:
		return "1 tarefas | 4 notificações | r atualizar | q sair"
	case ViewUsers:
		return "n novo | e editar | t função | d eliminar | esc voltar"
	case ViewNotifications:
		return "m marcar lida | M marcar todas | esc voltar"
	case ViewProfile:
		return "e alterar palavra-passe | esc voltar"
	default:
		if summary := m.taskList.FilterSummary(); summary != "" {
			return summary + " | tab limpar"
		}
		hints := "enter abrir | / procurar | tab filtrar | + - estado | r atualizar | ? ajuda | q sair"
		if m.deps.Session.CanCreateTask() {
			hints = "n nova | e editar | d eliminar | " + hints
		}
		return hints
	}
}

// loginErrorMessage maps a login failure onto a short form message.
func loginErrorMessage(tr *i18n.Translator, err error) string {
	if err == nil {
		return ""
	}
	return tr.T("login.failed")
}
