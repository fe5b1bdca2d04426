package cache

import (
	"context"
	"fmt"

	"github.com/gestora/gestora/internal/model"
)

// SaveNotifications replaces the cached notification snapshot.
func (c *Cache) SaveNotifications(ctx context.Context, notifications []model.Notification) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notifications"); err != nil {
		return fmt.Errorf("clearing cached notifications: %w", err)
	}

	for _, n := range notifications {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO notifications (id, user_id, message, type, task_id, read, local, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.ID, n.UserID, n.Message, string(n.Type), n.TaskID,
			boolToInt(n.Read), boolToInt(n.Local), n.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("caching notification %s: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing notification snapshot: %w", err)
	}
	return nil
}

// LoadNotifications returns the cached notification snapshot, newest
// first. Unreadable rows are skipped.
func (c *Cache) LoadNotifications(ctx context.Context) ([]model.Notification, error) {
	rows, err := c.db.QueryxContext(ctx, `
		SELECT id, user_id, message, type, task_id, read, local, created_at
		FROM notifications ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying cached notifications: %w", err)
	}
	defer rows.Close()

	var out []model.Notification
	for rows.Next() {
		var n model.Notification
		var typ string
		var readInt, localInt int
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.Message, &typ, &n.TaskID,
			&readInt, &localInt, &n.CreatedAt,
		); err != nil {
			continue
		}
		n.Type = model.NotificationType(typ)
		n.Read = readInt != 0
		n.Local = localInt != 0
		out = append(out, n)
	}
	return out, rows.Err()
}

// SaveActivities replaces the cached activity snapshot.
func (c *Cache) SaveActivities(ctx context.Context, activities []model.Activity) error {
	tx, err := c.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM activities"); err != nil {
		return fmt.Errorf("clearing cached activities: %w", err)
	}

	for _, a := range activities {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO activities (
				id, type, user_id, user_name, task_id, task_title,
				subject_user_id, from_status, to_status, description, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, string(a.Type), a.UserID, a.UserName, a.TaskID, a.TaskTitle,
			a.SubjectUserID, string(a.FromStatus), string(a.ToStatus), a.Description, a.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("caching activity %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing activity snapshot: %w", err)
	}
	return nil
}

// LoadActivities returns the cached activity snapshot, newest first.
// Unreadable rows are skipped.
func (c *Cache) LoadActivities(ctx context.Context) ([]model.Activity, error) {
	rows, err := c.db.QueryxContext(ctx, `
		SELECT id, type, user_id, user_name, task_id, task_title,
		       subject_user_id, from_status, to_status, description, created_at
		FROM activities ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying cached activities: %w", err)
	}
	defer rows.Close()

	var out []model.Activity
	for rows.Next() {
		var a model.Activity
		var typ, from, to string
		if err := rows.Scan(
			&a.ID, &typ, &a.UserID, &a.UserName, &a.TaskID, &a.TaskTitle,
			&a.SubjectUserID, &from, &to, &a.Description, &a.CreatedAt,
		); err != nil {
			continue
		}
		a.Type = model.ActivityType(typ)
		a.FromStatus = model.TaskStatus(from)
		a.ToStatus = model.TaskStatus(to)
		out = append(out, a)
	}
	return out, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
