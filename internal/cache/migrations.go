package cache

// migration holds a single schema migration with its target version and
// SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations. Each migration's
// version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS notifications (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL,
	message    TEXT NOT NULL,
	type       TEXT NOT NULL DEFAULT 'info',
	task_id    TEXT NOT NULL DEFAULT '',
	read       INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS activities (
	id              TEXT PRIMARY KEY,
	type            TEXT NOT NULL,
	user_id         TEXT NOT NULL,
	user_name       TEXT NOT NULL DEFAULT '',
	task_id         TEXT NOT NULL DEFAULT '',
	task_title      TEXT NOT NULL DEFAULT '',
	subject_user_id TEXT NOT NULL DEFAULT '',
	from_status     TEXT NOT NULL DEFAULT '',
	to_status       TEXT NOT NULL DEFAULT '',
	description     TEXT NOT NULL DEFAULT '',
	created_at      DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS avatars (
	user_id TEXT PRIMARY KEY,
	data    BLOB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);
CREATE INDEX IF NOT EXISTS idx_activities_user ON activities(user_id);
`,
	},
	{
		version: 2,
		sql: `
ALTER TABLE notifications ADD COLUMN local INTEGER NOT NULL DEFAULT 0;
`,
	},
}
