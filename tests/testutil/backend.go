// Package testutil provides shared test fixtures: an in-memory fake of
// the GESTORA REST backend, cache and clock helpers.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	gosync "sync"
	"testing"
	"time"
)

// ValidToken is the bearer token the fake backend accepts.
const ValidToken = "test-token"

// JSON is a loosely-typed JSON object, the shape the fake backend
// stores entities in so tests can exercise alternate field names.
type JSON = map[string]interface{}

// Backend is an in-memory stand-in for the GESTORA REST API. All
// fields guarded by mu; mutate through the helper methods or before
// issuing requests.
type Backend struct {
	t   *testing.T
	srv *httptest.Server

	mu            gosync.Mutex
	me            JSON
	tasks         []JSON
	users         []JSON
	notifications []JSON
	resetTokens   map[string]string
	setupTokens   map[string]string
	nextID        int
	failStatus    int
	failBody      string
	requests      []string
}

// NewBackend starts a fake backend that authenticates ValidToken as
// the given user. The server is shut down when the test completes.
func NewBackend(t *testing.T, me JSON) *Backend {
	t.Helper()

	b := &Backend{
		t:           t,
		me:          me,
		nextID:      1,
		resetTokens: map[string]string{},
		setupTokens: map[string]string{},
	}
	b.srv = httptest.NewServer(b.routes())
	t.Cleanup(b.srv.Close)
	return b
}

// URL returns the backend's base URL.
func (b *Backend) URL() string {
	return b.srv.URL
}

// AddTask seeds a task. Missing id/status fields get defaults.
func (b *Backend) AddTask(task JSON) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, _ := task["id"].(string)
	if id == "" {
		id = b.allocID("task")
		task["id"] = id
	}
	if _, ok := task["status"]; !ok {
		task["status"] = "PENDENTE"
	}
	b.tasks = append(b.tasks, task)
	return id
}

// AddUser seeds a user.
func (b *Backend) AddUser(user JSON) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, _ := user["id"].(string)
	if id == "" {
		id = b.allocID("user")
		user["id"] = id
	}
	b.users = append(b.users, user)
	return id
}

// AddNotification seeds a notification.
func (b *Backend) AddNotification(n JSON) string {
	b.mu.Lock()
	defer b.mu.Unlock()

	id, _ := n["id"].(string)
	if id == "" {
		id = b.allocID("notif")
		n["id"] = id
	}
	b.notifications = append(b.notifications, n)
	return id
}

// SetResetToken seeds a valid password reset token for the email.
func (b *Backend) SetResetToken(token, email string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resetTokens[token] = email
}

// SetSetupToken seeds a valid first-login setup token for the email.
func (b *Backend) SetSetupToken(token, email string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.setupTokens[token] = email
}

// Task returns a copy of the stored task with the given id, or nil.
func (b *Backend) Task(id string) JSON {
	b.mu.Lock()
	defer b.mu.Unlock()
	return findByID(b.tasks, id)
}

// User returns a copy of the stored user with the given id, or nil.
func (b *Backend) User(id string) JSON {
	b.mu.Lock()
	defer b.mu.Unlock()
	return findByID(b.users, id)
}

// TaskCount returns the number of stored tasks.
func (b *Backend) TaskCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.tasks)
}

// FailNext makes every subsequent request fail with the given status
// and message until ClearFailure is called.
func (b *Backend) FailNext(status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStatus = status
	b.failBody = message
}

// ClearFailure restores normal operation.
func (b *Backend) ClearFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failStatus = 0
	b.failBody = ""
}

// RequestCount returns how many requests matched "METHOD path", e.g.
// "PATCH /tasks/task-1/status".
func (b *Backend) RequestCount(methodAndPath string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, r := range b.requests {
		if r == methodAndPath {
			n++
		}
	}
	return n
}

func (b *Backend) allocID(prefix string) string {
	id := fmt.Sprintf("%s-%d", prefix, b.nextID)
	b.nextID++
	return id
}

func findByID(items []JSON, id string) JSON {
	for _, item := range items {
		if item["id"] == id {
			copied := JSON{}
			for k, v := range item {
				copied[k] = v
			}
			return copied
		}
	}
	return nil
}

func removeByID(items []JSON, id string) ([]JSON, bool) {
	for i, item := range items {
		if item["id"] == id {
			return append(items[:i:i], items[i+1:]...), true
		}
	}
	return items, false
}

func (b *Backend) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", b.handleLogin)
	mux.HandleFunc("POST /auth/register", b.handleRegister)
	mux.HandleFunc("POST /auth/forgot-password", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, JSON{})
	})
	mux.HandleFunc("POST /auth/validate-reset-token", b.handleValidateToken(&b.resetTokens))
	mux.HandleFunc("POST /auth/reset-password", b.handleConsumeToken(&b.resetTokens))
	mux.HandleFunc("POST /auth/validate-setup-token", b.handleValidateToken(&b.setupTokens))
	mux.HandleFunc("POST /auth/setup-password", b.handleConsumeToken(&b.setupTokens))
	mux.HandleFunc("POST /auth/logout", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, JSON{})
	}))
	mux.HandleFunc("GET /auth/me", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		b.mu.Lock()
		me := b.me
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, me)
	}))

	mux.HandleFunc("GET /tasks/my-tasks", b.authed(b.handleListTasks))
	mux.HandleFunc("GET /admin/tasks", b.authed(b.handleListTasks))
	mux.HandleFunc("POST /admin/tasks", b.authed(b.handleCreateTask))
	mux.HandleFunc("GET /tasks/{id}", b.authed(b.handleGetTask))
	mux.HandleFunc("PUT /tasks/{id}", b.authed(b.handleUpdateTask))
	mux.HandleFunc("DELETE /tasks/{id}", b.authed(b.handleDeleteTask))
	mux.HandleFunc("PATCH /tasks/{id}/status", b.authed(b.handleTaskStatus))
	mux.HandleFunc("POST /tasks/{id}/comments", b.authed(b.handleAddComment))

	mux.HandleFunc("GET /users", b.authed(b.handleListUsers))
	mux.HandleFunc("GET /admin/users", b.authed(b.handleListUsers))
	mux.HandleFunc("POST /admin/users", b.authed(b.handleCreateUser))
	mux.HandleFunc("GET /users/{id}", b.authed(b.handleGetUser))
	mux.HandleFunc("PUT /admin/users/{id}", b.authed(b.handleUpdateUser))
	mux.HandleFunc("DELETE /admin/users/{id}", b.authed(b.handleDeleteUser))
	mux.HandleFunc("PATCH /admin/users/{id}/role", b.authed(b.handleChangeRole))
	mux.HandleFunc("PATCH /users/{id}/password", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, JSON{})
	}))

	mux.HandleFunc("GET /notifications", b.authed(b.handleListNotifications))
	mux.HandleFunc("GET /notifications/unread", b.authed(b.handleUnreadNotifications))
	mux.HandleFunc("GET /notifications/count", b.authed(b.handleUnreadCount))
	mux.HandleFunc("PATCH /notifications/read-all", b.authed(b.handleMarkAllRead))
	mux.HandleFunc("PATCH /notifications/{id}/read", b.authed(b.handleMarkRead))

	return b.record(mux)
}

// record logs every request and applies the forced-failure mode.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.Path)
		failStatus, failBody := b.failStatus, b.failBody
		b.mu.Unlock()

		if failStatus != 0 {
			writeJSON(w, failStatus, JSON{"message": failBody})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authed rejects requests without the valid bearer token.
func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+ValidToken {
			writeJSON(w, http.StatusUnauthorized, JSON{"message": "Token inválido"})
			return
		}
		next(w, r)
	}
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Pedido inválido"})
		return
	}

	b.mu.Lock()
	me := b.me
	b.mu.Unlock()

	email, _ := me["email"].(string)
	if !strings.EqualFold(body.Email, email) || body.Password != "secret" {
		writeJSON(w, http.StatusUnauthorized, JSON{"message": "Credenciais inválidas"})
		return
	}
	writeJSON(w, http.StatusOK, JSON{"token": ValidToken, "user": me})
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	user := JSON{}
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Pedido inválido"})
		return
	}

	b.mu.Lock()
	user["id"] = b.allocID("user")
	delete(user, "password")
	b.users = append(b.users, user)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

// handleValidateToken answers a token validation check against the
// given token table.
func (b *Backend) handleValidateToken(tokens *map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := decodeToken(r)
		b.mu.Lock()
		email, ok := (*tokens)[token]
		b.mu.Unlock()
		writeJSON(w, http.StatusOK, JSON{"valid": ok, "email": email})
	}
}

// handleConsumeToken sets the password carried alongside a one-time
// token and invalidates the token.
func (b *Backend) handleConsumeToken(tokens *map[string]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := decodeToken(r)
		b.mu.Lock()
		_, ok := (*tokens)[token]
		if ok {
			delete(*tokens, token)
		}
		b.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusBadRequest, JSON{"message": "Token inválido"})
			return
		}
		writeJSON(w, http.StatusOK, JSON{})
	}
}

func decodeToken(r *http.Request) string {
	var body struct {
		Token string `json:"token"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	return body.Token
}

func (b *Backend) handleListTasks(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	tasks := append([]JSON(nil), b.tasks...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, tasks)
}

func (b *Backend) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	task := JSON{}
	if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Pedido inválido"})
		return
	}

	b.mu.Lock()
	task["id"] = b.allocID("task")
	if _, ok := task["status"]; !ok || task["status"] == "" {
		task["status"] = "PENDENTE"
	}
	task["createdAt"] = time.Now().UTC().Format(time.RFC3339)
	b.tasks = append(b.tasks, task)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, task)
}

func (b *Backend) handleGetTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	task := findByID(b.tasks, r.PathValue("id"))
	b.mu.Unlock()

	if task == nil {
		writeJSON(w, http.StatusNotFound, JSON{"message": "Tarefa não encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (b *Backend) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	patch := JSON{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Pedido inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, task := range b.tasks {
		if task["id"] == r.PathValue("id") {
			for k, v := range patch {
				task[k] = v
			}
			writeJSON(w, http.StatusOK, task)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, JSON{"message": "Tarefa não encontrada"})
}

func (b *Backend) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	tasks, ok := removeByID(b.tasks, r.PathValue("id"))
	b.tasks = tasks
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, JSON{"message": "Tarefa não encontrada"})
		return
	}
	writeJSON(w, http.StatusOK, JSON{})
}

func (b *Backend) handleTaskStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Status == "" {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Estado em falta"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, task := range b.tasks {
		if task["id"] == r.PathValue("id") {
			task["status"] = body.Status
			writeJSON(w, http.StatusOK, task)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, JSON{"message": "Tarefa não encontrada"})
}

func (b *Backend) handleAddComment(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == "" {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Comentário vazio"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, task := range b.tasks {
		if task["id"] == r.PathValue("id") {
			comments, _ := task["comments"].([]interface{})
			task["comments"] = append(comments, JSON{
				"id":        b.allocID("comment"),
				"text":      body.Text,
				"userId":    b.me["id"],
				"createdAt": time.Now().UTC().Format(time.RFC3339),
			})
			writeJSON(w, http.StatusCreated, task)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, JSON{"message": "Tarefa não encontrada"})
}

func (b *Backend) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	users := append([]JSON(nil), b.users...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	user := JSON{}
	if err := json.NewDecoder(r.Body).Decode(&user); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Pedido inválido"})
		return
	}

	b.mu.Lock()
	user["id"] = b.allocID("user")
	delete(user, "password")
	b.users = append(b.users, user)
	b.mu.Unlock()

	writeJSON(w, http.StatusCreated, user)
}

func (b *Backend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	user := findByID(b.users, r.PathValue("id"))
	b.mu.Unlock()

	if user == nil {
		writeJSON(w, http.StatusNotFound, JSON{"message": "Utilizador não encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	patch := JSON{}
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Pedido inválido"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, user := range b.users {
		if user["id"] == r.PathValue("id") {
			for k, v := range patch {
				if k == "password" {
					continue
				}
				user[k] = v
			}
			writeJSON(w, http.StatusOK, user)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, JSON{"message": "Utilizador não encontrado"})
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users, ok := removeByID(b.users, r.PathValue("id"))
	b.users = users
	b.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, JSON{"message": "Utilizador não encontrado"})
		return
	}
	writeJSON(w, http.StatusOK, JSON{})
}

func (b *Backend) handleChangeRole(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Role == "" {
		writeJSON(w, http.StatusBadRequest, JSON{"message": "Função em falta"})
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, user := range b.users {
		if user["id"] == r.PathValue("id") {
			user["role"] = body.Role
			writeJSON(w, http.StatusOK, user)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, JSON{"message": "Utilizador não encontrado"})
}

func (b *Backend) handleListNotifications(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	notifications := append([]JSON(nil), b.notifications...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, notifications)
}

func (b *Backend) handleUnreadNotifications(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	var unread []JSON
	for _, n := range b.notifications {
		if read, _ := n["read"].(bool); !read {
			unread = append(unread, n)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, unread)
}

func (b *Backend) handleUnreadCount(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	count := 0
	for _, n := range b.notifications {
		if read, _ := n["read"].(bool); !read {
			count++
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, JSON{"count": count})
}

func (b *Backend) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, n := range b.notifications {
		if n["id"] == r.PathValue("id") {
			n["read"] = true
			writeJSON(w, http.StatusOK, n)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, JSON{"message": "Notificação não encontrada"})
}

func (b *Backend) handleMarkAllRead(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	for _, n := range b.notifications {
		n["read"] = true
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, JSON{})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
