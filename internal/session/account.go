package session

import (
	"context"
	"fmt"
)

// Register creates a new account with the backend. The session stays
// anonymous; the user signs in afterwards.
func (m *Manager) Register(ctx context.Context, name, email, password string) error {
	if err := m.client.Register(ctx, email, name, password); err != nil {
		return fmt.Errorf("registering account: %w", err)
	}
	return nil
}

// RequestPasswordReset asks the backend to email a reset token to the
// given address.
func (m *Manager) RequestPasswordReset(ctx context.Context, email string) error {
	if err := m.client.ForgotPassword(ctx, email); err != nil {
		return fmt.Errorf("requesting password reset: %w", err)
	}
	return nil
}

// ResetPassword validates a reset token and consumes it to set a new
// password. The session stays anonymous.
func (m *Manager) ResetPassword(ctx context.Context, token, password, confirm string) error {
	if _, err := m.client.ValidateResetToken(ctx, token); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	if err := m.client.ResetPassword(ctx, token, password, confirm); err != nil {
		return fmt.Errorf("resetting password: %w", err)
	}
	return nil
}

// ActivateAccount validates a first-login setup token and consumes it
// to set the initial password for an invited user.
func (m *Manager) ActivateAccount(ctx context.Context, token, password, confirm string) error {
	if _, err := m.client.ValidateSetupToken(ctx, token); err != nil {
		return fmt.Errorf("activating account: %w", err)
	}
	if err := m.client.SetupPassword(ctx, token, password, confirm); err != nil {
		return fmt.Errorf("activating account: %w", err)
	}
	return nil
}
