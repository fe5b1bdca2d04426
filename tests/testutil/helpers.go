package testutil

import (
	"testing"
	"time"

	"github.com/gestora/gestora/internal/cache"
)

// NewTestCache creates an in-memory cache with all migrations applied.
// It is closed automatically when the test completes.
func NewTestCache(t *testing.T) *cache.Cache {
	t.Helper()

	c, err := cache.Open(":memory:")
	if err != nil {
		t.Fatalf("creating test cache: %v", err)
	}

	t.Cleanup(func() {
		if err := c.Close(); err != nil {
			t.Errorf("closing test cache: %v", err)
		}
	})

	return c
}

// Clock is a controllable clock for exercising time-window behavior.
type Clock struct {
	now time.Time
}

// NewClock returns a Clock starting at a fixed instant.
func NewClock() *Clock {
	return &Clock{now: time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time. Pass it where a clock function is
// expected.
func (c *Clock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward.
func (c *Clock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// MemoryTokenStore is an in-memory token store for session tests.
type MemoryTokenStore struct {
	Token string
}

func (s *MemoryTokenStore) Load() (string, error)   { return s.Token, nil }
func (s *MemoryTokenStore) Save(token string) error { s.Token = token; return nil }
func (s *MemoryTokenStore) Delete() error           { s.Token = ""; return nil }

// AdminUser returns the backend representation of a seeded admin.
func AdminUser() JSON {
	return JSON{
		"id":    "admin-1",
		"name":  "Carla Admin",
		"email": "carla@example.com",
		"role":  "ADMIN",
	}
}

// RegularUser returns the backend representation of a seeded employee.
func RegularUser() JSON {
	return JSON{
		"id":    "user-1",
		"name":  "Rui Funcionário",
		"email": "rui@example.com",
		"role":  "USER",
	}
}
