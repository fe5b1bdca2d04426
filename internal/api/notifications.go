package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gestora/gestora/internal/model"
)

// Notifications returns all notifications for the current user.
func (c *Client) Notifications(ctx context.Context) ([]model.Notification, error) {
	var dtos []notificationDTO
	if err := c.Get(ctx, "/notifications", &dtos); err != nil {
		return nil, fmt.Errorf("fetching notifications: %w", err)
	}
	return mapNotifications(dtos), nil
}

// UnreadNotifications returns only unread notifications.
func (c *Client) UnreadNotifications(ctx context.Context) ([]model.Notification, error) {
	var dtos []notificationDTO
	if err := c.Get(ctx, "/notifications/unread", &dtos); err != nil {
		return nil, fmt.Errorf("fetching unread notifications: %w", err)
	}
	return mapNotifications(dtos), nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var resp unreadCountResponse
	if err := c.Get(ctx, "/notifications/count", &resp); err != nil {
		return 0, fmt.Errorf("fetching unread count: %w", err)
	}
	return resp.Count, nil
}

// MarkNotificationRead marks a single notification as read.
func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	err := c.Patch(ctx, "/notifications/"+url.PathEscape(id)+"/read",
		map[string]string{}, nil)
	if err != nil {
		return fmt.Errorf("marking notification %s read: %w", id, err)
	}
	return nil
}

// MarkAllNotificationsRead marks every notification as read.
func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	if err := c.Patch(ctx, "/notifications/read-all", map[string]string{}, nil); err != nil {
		return fmt.Errorf("marking all notifications read: %w", err)
	}
	return nil
}

func mapNotifications(dtos []notificationDTO) []model.Notification {
	notifications := make([]model.Notification, 0, len(dtos))
	for _, dto := range dtos {
		notifications = append(notifications, mapNotification(dto))
	}
	return notifications
}
