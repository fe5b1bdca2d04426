package api

import (
	"time"

	"github.com/gestora/gestora/internal/model"
)

// firstNonEmpty returns the first non-empty string of its arguments.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// parseTime parses a backend timestamp, accepting RFC 3339 with or
// without sub-second precision and the bare date form. The fallback is
// used when the value is absent or malformed.
func parseTime(value string, fallback time.Time) time.Time {
	if value == "" {
		return fallback
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return fallback
}

// mapUser converts a wire user into the canonical shape, filling
// defaults for fields older backends omit.
func mapUser(dto userDTO) model.User {
	now := time.Now().UTC()

	role := model.Role(dto.Role)
	switch role {
	case model.RoleAdmin, model.RoleUser, model.RoleManager:
	default:
		role = model.RoleUser
	}

	return model.User{
		ID:                 firstNonEmpty(dto.ID, dto.UserID),
		Name:               firstNonEmpty(dto.Name, dto.Username, "Utilizador"),
		Email:              dto.Email,
		Role:               role,
		Department:         dto.Department,
		Position:           dto.Position,
		Phone:              dto.Phone,
		AvatarRef:          dto.Avatar,
		MustChangePassword: dto.MustChangePassword,
		CreatedAt:          parseTime(dto.CreatedAt, now),
		UpdatedAt:          parseTime(dto.UpdatedAt, now),
	}
}

// mapTask converts a wire task into the canonical shape. Older backends
// report assignment as a combined responsibles array whose first entry
// is the responsible user and remainder are co-assignees.
func mapTask(dto taskDTO) model.Task {
	now := time.Now().UTC()

	responsibleID := dto.ResponsibleID
	responsibleName := dto.ResponsibleName
	intervenientes := dto.Intervenientes
	if responsibleID == "" && len(dto.Responsibles) > 0 {
		responsibleID = dto.Responsibles[0].ID
		responsibleName = dto.Responsibles[0].Name
		intervenientes = nil
		for _, r := range dto.Responsibles[1:] {
			intervenientes = append(intervenientes, r.ID)
		}
	}

	status := dto.Status
	if status == "" {
		status = string(model.StatusPending)
	}
	priority := dto.Priority
	if priority == "" {
		priority = string(model.PriorityMedium)
	}
	daysToFinish := dto.DaysToFinish
	if daysToFinish <= 0 {
		daysToFinish = 1
	}

	var comments []model.Comment
	for _, c := range dto.Comments {
		comments = append(comments, mapComment(c))
	}

	var dueDate *time.Time
	if dto.DueDate != "" {
		d := parseTime(dto.DueDate, now)
		dueDate = &d
	}

	return model.Task{
		ID:              dto.ID,
		Title:           dto.Title,
		Description:     dto.Description,
		Status:          model.TaskStatus(status),
		Priority:        model.TaskPriority(priority),
		ResponsibleID:   responsibleID,
		ResponsibleName: responsibleName,
		Intervenientes:  intervenientes,
		StartDate:       parseTime(firstNonEmpty(dto.StartDate, dto.CreateAt), now),
		DeliveryDate:    parseTime(firstNonEmpty(dto.EndDate, dto.DeliveryDate), now),
		DueDate:         dueDate,
		DaysToFinish:    daysToFinish,
		Comments:        comments,
		CreatedByID:     dto.CreatedByID,
		CreatedByName:   dto.CreatedByName,
		CreatedAt:       parseTime(firstNonEmpty(dto.CreatedAt, dto.CreateAt), now),
		UpdatedAt:       parseTime(dto.UpdatedAt, now),
	}
}

// mapComment converts a wire comment into the canonical shape.
func mapComment(dto commentDTO) model.Comment {
	return model.Comment{
		ID:        dto.ID,
		TaskID:    dto.TaskID,
		UserID:    firstNonEmpty(dto.UserID, dto.AuthorID),
		UserName:  firstNonEmpty(dto.UserName, dto.AuthorName, "Anónimo"),
		Text:      firstNonEmpty(dto.Text, dto.Content),
		CreatedAt: parseTime(firstNonEmpty(dto.Timestamp, dto.CreatedAt), time.Now().UTC()),
	}
}

// mapNotification converts a wire notification into the canonical shape.
func mapNotification(dto notificationDTO) model.Notification {
	typ := model.NotificationType(dto.Type)
	switch typ {
	case model.NotificationInfo, model.NotificationSuccess, model.NotificationError:
	default:
		typ = model.NotificationInfo
	}

	return model.Notification{
		ID:        dto.ID,
		UserID:    dto.UserID,
		Message:   dto.Message,
		Type:      typ,
		TaskID:    dto.TaskID,
		Read:      dto.Read,
		CreatedAt: parseTime(firstNonEmpty(dto.Timestamp, dto.CreatedAt), time.Now().UTC()),
	}
}
