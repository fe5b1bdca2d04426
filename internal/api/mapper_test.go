package api

import (
	"testing"
	"time"

	"github.com/gestora/gestora/internal/model"
)

func TestParseTime(t *testing.T) {
	fallback := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		value string
		want  time.Time
	}{
		{"2025-07-15T10:30:00Z", time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-07-15T10:30:00.123456Z", time.Date(2025, 7, 15, 10, 30, 0, 123456000, time.UTC)},
		{"2025-07-15T10:30:00", time.Date(2025, 7, 15, 10, 30, 0, 0, time.UTC)},
		{"2025-07-15", time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC)},
		{"", fallback},
		{"não-é-data", fallback},
	}
	for _, tt := range tests {
		if got := parseTime(tt.value, fallback); !got.Equal(tt.want) {
			t.Errorf("parseTime(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestMapUserDefaults(t *testing.T) {
	u := mapUser(userDTO{UserID: "u1", Role: "SUPERVISOR"})
	if u.ID != "u1" {
		t.Errorf("ID from alternate field = %q", u.ID)
	}
	if u.Name != "Utilizador" {
		t.Errorf("default name = %q", u.Name)
	}
	if u.Role != model.RoleUser {
		t.Errorf("unknown role mapped to %q, want USER", u.Role)
	}

	u = mapUser(userDTO{ID: "u2", Username: "ana.silva", Role: "ADMIN"})
	if u.Name != "ana.silva" || u.Role != model.RoleAdmin {
		t.Errorf("mapped user = %+v", u)
	}
}

func TestMapTaskResponsiblesArray(t *testing.T) {
	task := mapTask(taskDTO{
		ID:    "t1",
		Title: "Inventário",
		Responsibles: []responsibleDTO{
			{ID: "u1", Name: "Ana"},
			{ID: "u2", Name: "Rui"},
			{ID: "u3", Name: "Marta"},
		},
	})

	if task.ResponsibleID != "u1" || task.ResponsibleName != "Ana" {
		t.Errorf("responsible = %q (%q)", task.ResponsibleID, task.ResponsibleName)
	}
	if len(task.Intervenientes) != 2 || task.Intervenientes[0] != "u2" || task.Intervenientes[1] != "u3" {
		t.Errorf("intervenientes = %v", task.Intervenientes)
	}
}

func TestMapTaskResponsibleFieldWins(t *testing.T) {
	task := mapTask(taskDTO{
		ID:            "t1",
		ResponsibleID: "u9",
		Responsibles:  []responsibleDTO{{ID: "u1", Name: "Ana"}},
	})
	if task.ResponsibleID != "u9" {
		t.Errorf("explicit responsible overridden: %q", task.ResponsibleID)
	}
}

func TestMapTaskDefaults(t *testing.T) {
	task := mapTask(taskDTO{ID: "t1", Title: "Sem estado"})

	if task.Status != model.StatusPending {
		t.Errorf("default status = %q", task.Status)
	}
	if task.Priority != model.PriorityMedium {
		t.Errorf("default priority = %q", task.Priority)
	}
	if task.DaysToFinish != 1 {
		t.Errorf("default daysToFinish = %d", task.DaysToFinish)
	}
	if task.DueDate != nil {
		t.Error("absent due date mapped to non-nil")
	}
}

func TestMapTaskAlternateTimestampFields(t *testing.T) {
	task := mapTask(taskDTO{
		ID:       "t1",
		CreateAt: "2025-06-01T08:00:00Z",
		EndDate:  "2025-06-30",
	})

	wantCreated := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	if !task.CreatedAt.Equal(wantCreated) || !task.StartDate.Equal(wantCreated) {
		t.Errorf("createAt fallback: created=%v start=%v", task.CreatedAt, task.StartDate)
	}
	if !task.DeliveryDate.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("endDate fallback: %v", task.DeliveryDate)
	}
}

func TestMapComment(t *testing.T) {
	c := mapComment(commentDTO{ID: "c1", Content: "texto antigo", AuthorID: "u1"})
	if c.Text != "texto antigo" || c.UserID != "u1" || c.UserName != "Anónimo" {
		t.Errorf("mapped comment = %+v", c)
	}

	c = mapComment(commentDTO{ID: "c2", Text: "novo", UserID: "u2", UserName: "Rui"})
	if c.Text != "novo" || c.UserName != "Rui" {
		t.Errorf("mapped comment = %+v", c)
	}
}

func TestMapNotificationUnknownType(t *testing.T) {
	n := mapNotification(notificationDTO{ID: "n1", Type: "warning"})
	if n.Type != model.NotificationInfo {
		t.Errorf("unknown type mapped to %q, want info", n.Type)
	}
}
