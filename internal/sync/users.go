package sync

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	gosync "sync"

	"github.com/gestora/gestora/internal/api"
	"github.com/gestora/gestora/internal/i18n"
	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/session"
	"github.com/gestora/gestora/internal/store"
)

// UserService is the single writer path for the user store. Input
// validation, including the email-uniqueness check against known
// users, happens before any backend call.
type UserService struct {
	client     *api.Client
	session    *session.Manager
	users      *store.UserStore
	feedback   *Feedback
	activities *ActivityLog
	tr         *i18n.Translator

	mu       gosync.Mutex
	loading  bool
	inFlight map[string]struct{}
}

// NewUserService creates a user service.
func NewUserService(
	client *api.Client,
	sess *session.Manager,
	users *store.UserStore,
	feedback *Feedback,
	activities *ActivityLog,
	tr *i18n.Translator,
) *UserService {
	return &UserService{
		client:     client,
		session:    sess,
		users:      users,
		feedback:   feedback,
		activities: activities,
		tr:         tr,
		inFlight:   make(map[string]struct{}),
	}
}

// Loading reports whether a bulk reload is in progress.
func (s *UserService) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// InFlight reports whether the given user has an operation pending.
func (s *UserService) InFlight(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inFlight[id]
	return ok
}

func (s *UserService) markInFlight(id string) func() {
	s.mu.Lock()
	s.inFlight[id] = struct{}{}
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.inFlight, id)
		s.mu.Unlock()
	}
}

func (s *UserService) fail(err error, key, action string) error {
	if !s.session.HandleError(err) {
		s.feedback.Failure(err, key)
	}
	return fmt.Errorf("%s: %w", action, err)
}

func (s *UserService) actor() model.User {
	u, _ := s.session.User()
	return u
}

// validate checks the payload before any backend call. excludeID names
// the user being edited so keeping their own email is allowed.
func (s *UserService) validate(payload api.UserPayload, excludeID string) error {
	if strings.TrimSpace(payload.Name) == "" {
		return &ValidationError{Field: "name", Message: s.tr.T("user.name_required")}
	}
	email := strings.TrimSpace(payload.Email)
	if email == "" {
		return &ValidationError{Field: "email", Message: s.tr.T("user.email_required")}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return &ValidationError{Field: "email", Message: s.tr.T("user.email_invalid")}
	}
	if s.users.EmailTaken(email, excludeID) {
		return &ValidationError{Field: "email", Message: s.tr.T("user.email_taken")}
	}
	return nil
}

// Load replaces the store with the backend's user list.
func (s *UserService) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	var (
		users []model.User
		err   error
	)
	if s.session.CanManageUsers() {
		users, err = s.client.AdminUsers(ctx)
	} else {
		users, err = s.client.Users(ctx)
	}
	if err != nil {
		return s.fail(err, "user.load_failed", "loading users")
	}

	s.users.Replace(users)
	return nil
}

// Create validates the payload, sends it to the backend and inserts
// the echoed user into the store.
func (s *UserService) Create(ctx context.Context, payload api.UserPayload) (model.User, error) {
	if err := s.validate(payload, ""); err != nil {
		return model.User{}, err
	}

	user, err := s.client.CreateUser(ctx, payload)
	if err != nil {
		return model.User{}, s.fail(err, "user.create_failed", "creating user")
	}

	s.users.Upsert(user)
	s.feedback.Success("user.created", user.Name)

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:          model.ActivityUserAdded,
		UserID:        actor.ID,
		UserName:      actor.Name,
		SubjectUserID: user.ID,
		Description:   s.tr.T("user.created", user.Name),
	})
	return user, nil
}

// Update validates and sends the edited user to the backend.
func (s *UserService) Update(ctx context.Context, id string, payload api.UserPayload) (model.User, error) {
	if err := s.validate(payload, id); err != nil {
		return model.User{}, err
	}

	done := s.markInFlight(id)
	defer done()

	user, err := s.client.UpdateUser(ctx, id, payload)
	if err != nil {
		return model.User{}, s.fail(err, "user.update_failed", "updating user")
	}

	s.users.Upsert(user)
	s.feedback.Success("user.updated", user.Name)

	// Editing your own record refreshes the session principal.
	if actor := s.actor(); actor.ID == user.ID {
		s.session.SetUser(user)
	}

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:          model.ActivityUserUpdated,
		UserID:        actor.ID,
		UserName:      actor.Name,
		SubjectUserID: user.ID,
		Description:   s.tr.T("user.updated", user.Name),
	})
	return user, nil
}

// Delete removes a user. Deleting the authenticated principal's own
// account is rejected locally.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if actor := s.actor(); actor.ID == id {
		return &ValidationError{Field: "id", Message: s.tr.T("user.delete_self")}
	}
	user, ok := s.users.Get(id)
	if !ok {
		return ErrNotFound
	}

	done := s.markInFlight(id)
	defer done()

	if err := s.client.DeleteUser(ctx, id); err != nil {
		return s.fail(err, "user.delete_failed", "deleting user")
	}

	s.users.Remove(id)
	s.feedback.Success("user.deleted", user.Name)

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:          model.ActivityUserDeleted,
		UserID:        actor.ID,
		UserName:      actor.Name,
		SubjectUserID: id,
		Description:   s.tr.T("user.deleted", user.Name),
	})
	return nil
}

// ChangeRole updates a user's permission level.
func (s *UserService) ChangeRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	done := s.markInFlight(id)
	defer done()

	user, err := s.client.ChangeUserRole(ctx, id, role)
	if err != nil {
		return model.User{}, s.fail(err, "user.role_failed", "changing user role")
	}

	s.users.Upsert(user)
	s.feedback.Success("user.role_changed", user.Name, s.tr.RoleLabel(user.Role))

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:          model.ActivityUserUpdated,
		UserID:        actor.ID,
		UserName:      actor.Name,
		SubjectUserID: user.ID,
		Description:   s.tr.T("user.role_changed", user.Name, s.tr.RoleLabel(user.Role)),
	})
	return user, nil
}

// ChangePassword updates a user's password. oldPassword is required
// when users change their own; admins resetting someone else's pass
// an empty string.
func (s *UserService) ChangePassword(ctx context.Context, id, newPassword, confirm, oldPassword string) error {
	if newPassword != confirm {
		return &ValidationError{Field: "password", Message: s.tr.T("auth.password_mismatch")}
	}

	done := s.markInFlight(id)
	defer done()

	if err := s.client.ChangePassword(ctx, id, newPassword, oldPassword); err != nil {
		return s.fail(err, "user.password_failed", "changing password")
	}

	s.feedback.Success("auth.password_changed")

	actor := s.actor()
	s.activities.Record(ctx, model.Activity{
		Type:          model.ActivityPasswordChanged,
		UserID:        actor.ID,
		UserName:      actor.Name,
		SubjectUserID: id,
		Description:   s.tr.T("auth.password_changed"),
	})
	return nil
}
