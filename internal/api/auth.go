package api

import (
	"context"
	"fmt"

	"github.com/gestora/gestora/internal/model"
)

// Login exchanges credentials for a bearer token and the authenticated
// user. The token is not installed on the client; that is the session
// layer's decision.
func (c *Client) Login(ctx context.Context, email, password string) (string, model.User, error) {
	var resp loginResponse
	err := c.Post(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &resp)
	if err != nil {
		return "", model.User{}, fmt.Errorf("logging in: %w", err)
	}

	token := firstNonEmpty(resp.Token, resp.JWT)
	if token == "" {
		return "", model.User{}, fmt.Errorf("logging in: no token in response")
	}

	var user model.User
	if resp.User != nil {
		user = mapUser(*resp.User)
	}
	return token, user, nil
}

// Logout invalidates the current session on the backend.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Post(ctx, "/auth/logout", map[string]string{}, nil); err != nil {
		return fmt.Errorf("logging out: %w", err)
	}
	return nil
}

// CurrentUser returns the user owning the installed bearer token.
func (c *Client) CurrentUser(ctx context.Context) (model.User, error) {
	var dto userDTO
	if err := c.Get(ctx, "/auth/me", &dto); err != nil {
		return model.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return mapUser(dto), nil
}

// Register creates a new account with the given credentials.
func (c *Client) Register(ctx context.Context, email, name, password string) error {
	err := c.Post(ctx, "/auth/register", map[string]string{
		"email":    email,
		"name":     name,
		"password": password,
	}, nil)
	if err != nil {
		return fmt.Errorf("registering: %w", err)
	}
	return nil
}

// ValidateSetupToken checks a first-login password setup token and
// returns the email it was issued for.
func (c *Client) ValidateSetupToken(ctx context.Context, token string) (string, error) {
	var resp tokenValidationResponse
	err := c.Post(ctx, "/auth/validate-setup-token", map[string]string{"token": token}, &resp)
	if err != nil {
		return "", fmt.Errorf("validating setup token: %w", err)
	}
	if !resp.Valid {
		return "", fmt.Errorf("validating setup token: %w", ErrTokenRejected)
	}
	return resp.Email, nil
}

// SetupPassword consumes a setup token and sets the initial password.
func (c *Client) SetupPassword(ctx context.Context, token, password, confirm string) error {
	err := c.Post(ctx, "/auth/setup-password", map[string]string{
		"token":           token,
		"password":        password,
		"confirmPassword": confirm,
	}, nil)
	if err != nil {
		return fmt.Errorf("setting up password: %w", err)
	}
	return nil
}

// ForgotPassword requests a password reset email for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	err := c.Post(ctx, "/auth/forgot-password", map[string]string{"email": email}, nil)
	if err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}
	return nil
}

// ValidateResetToken checks a password reset token and returns the
// email it was issued for.
func (c *Client) ValidateResetToken(ctx context.Context, token string) (string, error) {
	var resp tokenValidationResponse
	err := c.Post(ctx, "/auth/validate-reset-token", map[string]string{"token": token}, &resp)
	if err != nil {
		return "", fmt.Errorf("validating reset token: %w", err)
	}
	if !resp.Valid {
		return "", fmt.Errorf("validating reset token: %w", ErrTokenRejected)
	}
	return resp.Email, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (c *Client) ResetPassword(ctx context.Context, token, newPassword, confirm string) error {
	err := c.Post(ctx, "/auth/reset-password", map[string]string{
		"token":           token,
		"newPassword":     newPassword,
		"confirmPassword": confirm,
	}, nil)
	if err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	return nil
}
