// Package cache is the local offline cache: a small SQLite database
// holding the last-seen notifications and activities (for display
// before the first backend round-trip), the remembered login email, and
// per-user avatar blobs. Everything here is best-effort; a missing or
// corrupted value is treated as absent, never fatal.
package cache

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Cache wraps the local SQLite database.
type Cache struct {
	db *sqlx.DB
}

// Open opens (or creates) the cache database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Cache, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	c := &Cache{db: db}
	if err := c.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return c, nil
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (c *Cache) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := c.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = c.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := c.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := c.db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
	}

	return nil
}

// SetSetting stores an opaque key-value pair (e.g. the remembered
// login email).
func (c *Cache) SetSetting(ctx context.Context, key, value string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("storing setting %q: %w", key, err)
	}
	return nil
}

// GetSetting retrieves a setting value. A missing key returns "" with
// no error.
func (c *Cache) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := c.db.GetContext(ctx, &value, "SELECT value FROM settings WHERE key = ?", key)
	if err != nil {
		// Absent is not an error for best-effort reads.
		return "", nil
	}
	return value, nil
}

// DeleteSetting removes a setting. Unknown keys are a no-op.
func (c *Cache) DeleteSetting(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, "DELETE FROM settings WHERE key = ?", key); err != nil {
		return fmt.Errorf("deleting setting %q: %w", key, err)
	}
	return nil
}

// SaveAvatar stores the avatar blob for a user, replacing any previous
// one.
func (c *Cache) SaveAvatar(ctx context.Context, userID string, data []byte) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO avatars (user_id, data) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data`,
		userID, data,
	)
	if err != nil {
		return fmt.Errorf("storing avatar for %s: %w", userID, err)
	}
	return nil
}

// LoadAvatar retrieves a user's avatar blob, or nil when none is
// cached.
func (c *Cache) LoadAvatar(ctx context.Context, userID string) ([]byte, error) {
	var data []byte
	err := c.db.GetContext(ctx, &data, "SELECT data FROM avatars WHERE user_id = ?", userID)
	if err != nil {
		return nil, nil
	}
	return data, nil
}
