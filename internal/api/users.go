package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gestora/gestora/internal/model"
)

// Users returns the directory of users visible to the current user.
func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var dtos []userDTO
	if err := c.Get(ctx, "/users", &dtos); err != nil {
		return nil, fmt.Errorf("fetching users: %w", err)
	}
	return mapUsers(dtos), nil
}

// AdminUsers returns the full user list with admin-only fields.
func (c *Client) AdminUsers(ctx context.Context) ([]model.User, error) {
	var dtos []userDTO
	if err := c.Get(ctx, "/admin/users", &dtos); err != nil {
		return nil, fmt.Errorf("fetching admin users: %w", err)
	}
	return mapUsers(dtos), nil
}

// UserByID returns a single user.
func (c *Client) UserByID(ctx context.Context, id string) (model.User, error) {
	var dto userDTO
	if err := c.Get(ctx, "/users/"+url.PathEscape(id), &dto); err != nil {
		return model.User{}, fmt.Errorf("fetching user %s: %w", id, err)
	}
	return mapUser(dto), nil
}

// CreateUser creates a user and returns the mapped server response.
// Admin-scoped.
func (c *Client) CreateUser(ctx context.Context, payload UserPayload) (model.User, error) {
	var dto userDTO
	if err := c.Post(ctx, "/admin/users", payload, &dto); err != nil {
		return model.User{}, fmt.Errorf("creating user: %w", err)
	}
	return mapUser(dto), nil
}

// UpdateUser updates a user and returns the mapped server response.
// Admin-scoped.
func (c *Client) UpdateUser(ctx context.Context, id string, payload UserPayload) (model.User, error) {
	var dto userDTO
	if err := c.Put(ctx, "/admin/users/"+url.PathEscape(id), payload, &dto); err != nil {
		return model.User{}, fmt.Errorf("updating user %s: %w", id, err)
	}
	return mapUser(dto), nil
}

// DeleteUser removes a user. Admin-scoped.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.Delete(ctx, "/admin/users/"+url.PathEscape(id)); err != nil {
		return fmt.Errorf("deleting user %s: %w", id, err)
	}
	return nil
}

// ChangeUserRole assigns a new role to a user and returns the mapped
// server response. Admin-scoped.
func (c *Client) ChangeUserRole(ctx context.Context, id string, role model.Role) (model.User, error) {
	var dto userDTO
	err := c.Patch(ctx, "/admin/users/"+url.PathEscape(id)+"/role",
		map[string]string{"role": string(role)}, &dto)
	if err != nil {
		return model.User{}, fmt.Errorf("changing role of user %s: %w", id, err)
	}
	return mapUser(dto), nil
}

// ChangePassword changes a user's password. oldPassword may be empty
// when an admin resets another user's password.
func (c *Client) ChangePassword(ctx context.Context, id, newPassword, oldPassword string) error {
	body := map[string]string{"password": newPassword}
	if oldPassword != "" {
		body["oldPassword"] = oldPassword
	}
	err := c.Patch(ctx, "/users/"+url.PathEscape(id)+"/password", body, nil)
	if err != nil {
		return fmt.Errorf("changing password of user %s: %w", id, err)
	}
	return nil
}

func mapUsers(dtos []userDTO) []model.User {
	users := make([]model.User, 0, len(dtos))
	for _, dto := range dtos {
		users = append(users, mapUser(dto))
	}
	return users
}
