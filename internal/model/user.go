package model

import "time"

// Role is a user's permission level.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleUser    Role = "USER"
	RoleManager Role = "MANAGER"
)

// User is the canonical client-side representation of a backend user.
type User struct {
	// ID is the backend identifier for this user.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Email is the login identifier. Unique across users.
	Email string `json:"email"`

	// Role is the permission level (use Role* constants).
	Role Role `json:"role"`

	// Department and Position are optional profile fields.
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`

	// Phone is an optional contact number.
	Phone string `json:"phone,omitempty"`

	// AvatarRef points at a locally cached avatar blob, if any.
	AvatarRef string `json:"avatar_ref,omitempty"`

	// MustChangePassword forces the user through a password change on
	// their next login.
	MustChangePassword bool `json:"must_change_password"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user has the ADMIN role.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
