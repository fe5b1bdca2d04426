// Package session holds the authenticated principal and the
// authorization decisions derived from it. All permission checks in
// the UI go through this package so there is exactly one answer to
// "who may do what".
package session

import (
	"context"
	"fmt"
	gosync "sync"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/cache"
	"github.com/gestora/gestora/internal/model"
)

// State is the session lifecycle state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

// rememberedEmailKey is the cache settings key for the login
// convenience email.
const rememberedEmailKey = "remembered_email"

// AvatarRefLocal marks a user whose avatar blob lives in the local
// cache rather than behind a backend reference.
const AvatarRefLocal = "local"

// Manager owns the session state machine. Transitions:
// Anonymous → Authenticating → Authenticated on successful login,
// back to Anonymous on login failure, logout, or any authorization
// failure from the backend.
type Manager struct {
	client *api.Client
	tokens TokenStore
	cache  *cache.Cache

	mu    gosync.Mutex
	state State
	user  model.User
}

// NewManager creates a session manager. cache may be nil when the
// local cache could not be opened; remembered-email support is then
// silently disabled.
func NewManager(client *api.Client, tokens TokenStore, c *cache.Cache) *Manager {
	return &Manager{
		client: client,
		tokens: tokens,
		cache:  c,
		state:  StateAnonymous,
	}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// User returns the authenticated principal. The second return is false
// while anonymous or authenticating.
func (m *Manager) User() (model.User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, m.state == StateAuthenticated
}

// IsAuthenticated reports whether a principal is established.
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// IsAdmin reports whether the authenticated principal is an admin.
// False while anonymous.
func (m *Manager) IsAdmin() bool {
	u, ok := m.User()
	return ok && u.IsAdmin()
}

// SetUser replaces the cached principal, used after a profile update
// echoed a fresh user record. No state transition happens.
func (m *Manager) SetUser(u model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateAuthenticated {
		m.user = u
	}
}

// Login exchanges credentials for a token and establishes the session.
// On success the token is installed on the API client and persisted to
// the token store; when remember is set the email is kept in the local
// cache for the next login form.
func (m *Manager) Login(ctx context.Context, email, password string, remember bool) (model.User, error) {
	m.mu.Lock()
	m.state = StateAuthenticating
	m.mu.Unlock()

	token, user, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.mu.Lock()
		m.state = StateAnonymous
		m.mu.Unlock()
		return model.User{}, fmt.Errorf("logging in: %w", err)
	}

	m.client.SetToken(token)
	// A keyring failure degrades to a session-scoped token; the login
	// itself succeeded.
	_ = m.tokens.Save(token)

	if m.cache != nil {
		if remember {
			_ = m.cache.SetSetting(ctx, rememberedEmailKey, email)
		} else {
			_ = m.cache.DeleteSetting(ctx, rememberedEmailKey)
		}
	}

	m.markCachedAvatar(ctx, &user)

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = user
	m.mu.Unlock()
	return user, nil
}

// markCachedAvatar points AvatarRef at the local cache when a blob is
// stored for the user and the backend gave no reference of its own.
func (m *Manager) markCachedAvatar(ctx context.Context, user *model.User) {
	if m.cache == nil || user.AvatarRef != "" {
		return
	}
	if blob, err := m.cache.LoadAvatar(ctx, user.ID); err == nil && len(blob) > 0 {
		user.AvatarRef = AvatarRefLocal
	}
}

// Logout tears the session down. The backend call is best-effort; the
// local credential is always cleared.
func (m *Manager) Logout(ctx context.Context) {
	_ = m.client.Logout(ctx)
	m.Invalidate()
}

// Restore attempts to resume a previous session from the persisted
// token. The second return is false when no valid session could be
// restored; an expired token is cleared and is not an error.
func (m *Manager) Restore(ctx context.Context) (model.User, bool, error) {
	token, err := m.tokens.Load()
	if err != nil {
		return model.User{}, false, fmt.Errorf("loading stored token: %w", err)
	}
	if token == "" {
		return model.User{}, false, nil
	}

	m.client.SetToken(token)
	user, err := m.client.CurrentUser(ctx)
	if api.IsAuthError(err) {
		m.Invalidate()
		return model.User{}, false, nil
	}
	if err != nil {
		m.client.ClearToken()
		return model.User{}, false, fmt.Errorf("validating stored token: %w", err)
	}

	m.markCachedAvatar(ctx, &user)

	m.mu.Lock()
	m.state = StateAuthenticated
	m.user = user
	m.mu.Unlock()
	return user, true, nil
}

// Invalidate drops the session and clears the stored credential. It is
// called on logout and whenever the backend reports the token invalid.
func (m *Manager) Invalidate() {
	m.client.ClearToken()
	_ = m.tokens.Delete()

	m.mu.Lock()
	m.state = StateAnonymous
	m.user = model.User{}
	m.mu.Unlock()
}

// HandleError inspects an error from any backend call and invalidates
// the session when it is an authorization failure. It reports whether
// the session was invalidated so the caller can redirect to login.
func (m *Manager) HandleError(err error) bool {
	if !api.IsAuthError(err) {
		return false
	}
	m.Invalidate()
	return true
}

// RememberedEmail returns the email kept from the last login with
// "remember" enabled, or "" when none is stored.
func (m *Manager) RememberedEmail(ctx context.Context) string {
	if m.cache == nil {
		return ""
	}
	email, err := m.cache.GetSetting(ctx, rememberedEmailKey)
	if err != nil {
		return ""
	}
	return email
}
