package store

import (
	"testing"

	"github.com/gestora/gestora/internal/model"
)

func sampleTasks() []model.Task {
	return []model.Task{
		{ID: "t1", Title: "Relatório mensal", Description: "Fechar números de julho", Status: model.StatusPending, ResponsibleID: "u1"},
		{ID: "t2", Title: "Migrar servidor", Description: "Mover para o novo datacenter", Status: model.StatusInProgress, ResponsibleID: "u2", Intervenientes: []string{"u1"}},
		{ID: "t3", Title: "Auditoria", Description: "Relatório de conformidade", Status: model.StatusFinished, ResponsibleID: "u1"},
		{ID: "t4", Title: "Backup antigo", Description: "", Status: "ARQUIVADO", ResponsibleID: "u2"},
	}
}

func TestTaskStoreReplaceAndSnapshot(t *testing.T) {
	s := NewTaskStore()
	s.Replace(sampleTasks())

	snap := s.Snapshot()
	if len(snap) != 4 {
		t.Fatalf("snapshot length = %d, want 4", len(snap))
	}
	if snap[0].ID != "t1" || snap[3].ID != "t4" {
		t.Error("snapshot does not preserve insertion order")
	}

	// Mutating the snapshot must not leak into the store.
	snap[0].Title = "changed"
	if got, _ := s.Get("t1"); got.Title != "Relatório mensal" {
		t.Error("snapshot aliases internal state")
	}
}

func TestTaskStoreUpsert(t *testing.T) {
	s := NewTaskStore()
	s.Replace(sampleTasks())

	s.Upsert(model.Task{ID: "t2", Title: "Migrar servidor (urgente)", Status: model.StatusInProgress})
	if s.Len() != 4 {
		t.Fatalf("upsert of existing ID changed length to %d", s.Len())
	}
	got, ok := s.Get("t2")
	if !ok || got.Title != "Migrar servidor (urgente)" {
		t.Errorf("upsert did not replace entry: %+v", got)
	}

	s.Upsert(model.Task{ID: "t5", Title: "Nova"})
	if s.Len() != 5 {
		t.Errorf("upsert of new ID did not append, length = %d", s.Len())
	}
}

func TestTaskStorePatchStatus(t *testing.T) {
	s := NewTaskStore()
	s.Replace(sampleTasks())

	if !s.PatchStatus("t1", model.StatusInProgress) {
		t.Fatal("PatchStatus returned false for known ID")
	}
	got, _ := s.Get("t1")
	if got.Status != model.StatusInProgress {
		t.Errorf("status = %q after patch", got.Status)
	}
	if got.Title != "Relatório mensal" {
		t.Error("patch touched fields other than status")
	}

	if s.PatchStatus("nope", model.StatusClosed) {
		t.Error("PatchStatus returned true for unknown ID")
	}
}

func TestTaskStoreRemove(t *testing.T) {
	s := NewTaskStore()
	s.Replace(sampleTasks())

	s.Remove("t2")
	if s.Len() != 3 {
		t.Fatalf("length after remove = %d, want 3", s.Len())
	}
	if _, ok := s.Get("t2"); ok {
		t.Error("removed task still present")
	}

	s.Remove("nope") // no-op
	if s.Len() != 3 {
		t.Error("removing unknown ID changed the collection")
	}
}

func TestTaskStoreFiltered(t *testing.T) {
	s := NewTaskStore()
	s.Replace(sampleTasks())

	tests := []struct {
		name    string
		filter  TaskFilter
		wantIDs []string
	}{
		{"no filter", TaskFilter{}, []string{"t1", "t2", "t3", "t4"}},
		{"status only", TaskFilter{Status: model.StatusPending}, []string{"t1"}},
		{"query matches title", TaskFilter{Query: "migrar"}, []string{"t2"}},
		{"query matches description", TaskFilter{Query: "datacenter"}, []string{"t2"}},
		{"query case-insensitive", TaskFilter{Query: "RELATÓRIO"}, []string{"t1", "t3"}},
		{"query and status must both hold", TaskFilter{Query: "relatório", Status: model.StatusFinished}, []string{"t3"}},
		{"no match", TaskFilter{Query: "inexistente"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Filtered(tt.filter)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("got %d tasks, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("result[%d].ID = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestTaskStoreStatsNormalizesAliases(t *testing.T) {
	s := NewTaskStore()
	s.Replace([]model.Task{
		{ID: "a", Status: model.StatusPending},
		{ID: "b", Status: "ABERTO"},
		{ID: "c", Status: "EM_ANDAMENTO"},
		{ID: "d", Status: model.StatusOverdue},
		{ID: "e", Status: "CONCLUIDA"},
		{ID: "f", Status: "CANCELADA"},
	})

	stats := s.Stats()
	want := Stats{Total: 6, Pending: 2, InProgress: 1, Overdue: 1, Finished: 1, Closed: 1}
	if stats != want {
		t.Errorf("Stats() = %+v, want %+v", stats, want)
	}
}

func TestReportByEmployee(t *testing.T) {
	s := NewTaskStore()
	s.Replace([]model.Task{
		{ID: "t1", Status: model.StatusClosed, ResponsibleID: "u1"},
		{ID: "t2", Status: model.StatusClosed, ResponsibleID: "u1"},
		{ID: "t3", Status: model.StatusOverdue, ResponsibleID: "u2"},
		{ID: "t4", Status: model.StatusPending, ResponsibleID: "u2", Intervenientes: []string{"u1"}},
	})

	users := []model.User{
		{ID: "u2", Name: "Beatriz"},
		{ID: "u1", Name: "António"},
	}

	reports := s.ReportByEmployee(users)
	if len(reports) != 2 {
		t.Fatalf("got %d reports, want 2", len(reports))
	}

	// u1: 3 tasks (2 closed, 1 as co-assignee) → 67%. Sorted first.
	if reports[0].User.ID != "u1" {
		t.Fatalf("first report is %s, want u1", reports[0].User.ID)
	}
	if reports[0].Total != 3 || reports[0].Completed != 2 || reports[0].ComplianceRate != 67 {
		t.Errorf("u1 report = %+v", reports[0])
	}

	// u2: 2 tasks, none closed, 1 overdue.
	if reports[1].Total != 2 || reports[1].Completed != 0 || reports[1].Overdue != 1 || reports[1].ComplianceRate != 0 {
		t.Errorf("u2 report = %+v", reports[1])
	}
}
