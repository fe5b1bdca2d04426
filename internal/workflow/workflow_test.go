package workflow

import (
	"testing"

	"github.com/gestora/gestora/internal/model"
)

func TestMapStatusAliases(t *testing.T) {
	tests := []struct {
		raw  model.TaskStatus
		want model.TaskStatus
	}{
		{"ABERTO", model.StatusPending},
		{"ABERTA", model.StatusPending},
		{"EM_ANDAMENTO", model.StatusInProgress},
		{"EM ANDAMENTO", model.StatusInProgress},
		{"EM_EXECUCAO", model.StatusInProgress},
		{"EM_REVISAO", model.StatusInProgress},
		{"REVISAO", model.StatusInProgress},
		{"CONCLUIDA", model.StatusFinished},
		{"CONCLUÍDA", model.StatusFinished},
		{"CONCLUIDO", model.StatusFinished},
		{"ARQUIVADO", model.StatusClosed},
		{"ARQUIVADA", model.StatusClosed},
		{"CANCELADA", model.StatusClosed},
	}

	for _, tt := range tests {
		if got := MapStatus(tt.raw); got != tt.want {
			t.Errorf("MapStatus(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}

func TestMapStatusIdempotent(t *testing.T) {
	inputs := []model.TaskStatus{
		"ABERTO", "EM_ANDAMENTO", "CONCLUIDA", "ARQUIVADO", "CANCELADA",
		model.StatusPending, model.StatusClosed, "SOMETHING_UNKNOWN",
	}
	for _, in := range inputs {
		once := MapStatus(in)
		if twice := MapStatus(once); twice != once {
			t.Errorf("MapStatus not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func TestMapStatusUnknownPassesThrough(t *testing.T) {
	if got := MapStatus("WAITING_ON_VENDOR"); got != "WAITING_ON_VENDOR" {
		t.Errorf("unknown status rewritten to %q", got)
	}
	if IsInWorkflow("WAITING_ON_VENDOR") {
		t.Error("unknown status reported as in workflow")
	}
}

func TestNextPrev(t *testing.T) {
	tests := []struct {
		status   model.TaskStatus
		wantNext model.TaskStatus
		nextOK   bool
		wantPrev model.TaskStatus
		prevOK   bool
	}{
		{model.StatusPending, model.StatusInProgress, true, "", false},
		// Overdue is never a forward/backward target: it is set only by
		// the backend's due-date check.
		{model.StatusInProgress, model.StatusFinished, true, model.StatusPending, true},
		{model.StatusOverdue, model.StatusFinished, true, model.StatusInProgress, true},
		{model.StatusFinished, model.StatusClosed, true, model.StatusInProgress, true},
		{model.StatusClosed, "", false, model.StatusFinished, true},
	}

	for _, tt := range tests {
		next, ok := Next(tt.status)
		if ok != tt.nextOK || next != tt.wantNext {
			t.Errorf("Next(%q) = (%q, %v), want (%q, %v)",
				tt.status, next, ok, tt.wantNext, tt.nextOK)
		}
		prev, ok := Prev(tt.status)
		if ok != tt.prevOK || prev != tt.wantPrev {
			t.Errorf("Prev(%q) = (%q, %v), want (%q, %v)",
				tt.status, prev, ok, tt.wantPrev, tt.prevOK)
		}
	}
}

func TestNextPrevRoundTrip(t *testing.T) {
	// For statuses reachable through the transition controls, stepping
	// back and forward again must return to the starting point.
	for _, s := range []model.TaskStatus{
		model.StatusInProgress, model.StatusFinished, model.StatusClosed,
	} {
		prev, ok := Prev(s)
		if !ok {
			t.Fatalf("Prev(%q) undefined", s)
		}
		next, ok := Next(prev)
		if !ok {
			t.Fatalf("Next(%q) undefined", prev)
		}
		if next != s {
			t.Errorf("Next(Prev(%q)) = %q, want %q", s, next, s)
		}
	}

	for _, s := range []model.TaskStatus{
		model.StatusPending, model.StatusInProgress, model.StatusFinished,
	} {
		next, ok := Next(s)
		if !ok {
			t.Fatalf("Next(%q) undefined", s)
		}
		prev, ok := Prev(next)
		if !ok {
			t.Fatalf("Prev(%q) undefined", next)
		}
		if prev != s {
			t.Errorf("Prev(Next(%q)) = %q, want %q", s, prev, s)
		}
	}
}

func TestNextWorksOnAliases(t *testing.T) {
	next, ok := Next("ABERTO")
	if !ok || next != model.StatusInProgress {
		t.Errorf("Next(ABERTO) = (%q, %v), want (%q, true)",
			next, ok, model.StatusInProgress)
	}
}

func TestCanAdvance(t *testing.T) {
	admin := model.User{ID: "u-admin", Role: model.RoleAdmin}
	responsible := model.User{ID: "u-resp", Role: model.RoleUser}
	coAssignee := model.User{ID: "u-co", Role: model.RoleUser}
	outsider := model.User{ID: "u-out", Role: model.RoleUser}

	task := func(status model.TaskStatus) model.Task {
		return model.Task{
			ID:             "t1",
			Status:         status,
			ResponsibleID:  responsible.ID,
			Intervenientes: []string{coAssignee.ID},
		}
	}

	tests := []struct {
		name   string
		status model.TaskStatus
		actor  model.User
		want   bool
	}{
		{"responsible on pending", model.StatusPending, responsible, true},
		{"co-assignee on pending", model.StatusPending, coAssignee, true},
		{"outsider on pending", model.StatusPending, outsider, false},
		{"admin on pending", model.StatusPending, admin, true},
		{"responsible on in-progress", model.StatusInProgress, responsible, true},
		// Validation past Finished is admin-only even for members.
		{"co-assignee on finished", model.StatusFinished, coAssignee, false},
		{"responsible on finished", model.StatusFinished, responsible, false},
		{"admin on finished", model.StatusFinished, admin, true},
		// Closed is terminal for everyone.
		{"admin on closed", model.StatusClosed, admin, false},
		{"responsible on closed", model.StatusClosed, responsible, false},
		// Overdue disables the controls entirely.
		{"admin on overdue", model.StatusOverdue, admin, false},
		{"responsible on overdue", model.StatusOverdue, responsible, false},
		// Aliases resolve before gating.
		{"responsible on legacy ABERTO", "ABERTO", responsible, true},
		{"admin on legacy ARQUIVADO", "ARQUIVADO", admin, false},
		// Unknown statuses are outside the workflow.
		{"admin on unknown status", "WAITING_ON_VENDOR", admin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAdvance(task(tt.status), tt.actor); got != tt.want {
				t.Errorf("CanAdvance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCanRegress(t *testing.T) {
	admin := model.User{ID: "u-admin", Role: model.RoleAdmin}
	responsible := model.User{ID: "u-resp", Role: model.RoleUser}
	outsider := model.User{ID: "u-out", Role: model.RoleUser}

	task := func(status model.TaskStatus) model.Task {
		return model.Task{ID: "t1", Status: status, ResponsibleID: responsible.ID}
	}

	tests := []struct {
		name   string
		status model.TaskStatus
		actor  model.User
		want   bool
	}{
		// Nothing before Pending.
		{"responsible on pending", model.StatusPending, responsible, false},
		{"responsible on in-progress", model.StatusInProgress, responsible, true},
		{"outsider on in-progress", model.StatusInProgress, outsider, false},
		{"responsible on finished", model.StatusFinished, responsible, false},
		{"admin on finished", model.StatusFinished, admin, true},
		{"admin on closed", model.StatusClosed, admin, false},
		{"admin on overdue", model.StatusOverdue, admin, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanRegress(task(tt.status), tt.actor); got != tt.want {
				t.Errorf("CanRegress = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdvanceRegress(t *testing.T) {
	task := model.Task{ID: "t1", Status: model.StatusPending}

	advanced, ok := Advance(task)
	if !ok || advanced.Status != model.StatusInProgress {
		t.Fatalf("Advance from pending = (%q, %v)", advanced.Status, ok)
	}
	if task.Status != model.StatusPending {
		t.Error("Advance mutated its argument")
	}

	regressed, ok := Regress(advanced)
	if !ok || regressed.Status != model.StatusPending {
		t.Fatalf("Regress from in-progress = (%q, %v)", regressed.Status, ok)
	}

	if _, ok := Advance(model.Task{Status: model.StatusClosed}); ok {
		t.Error("Advance from closed reported a transition")
	}
	if _, ok := Regress(model.Task{Status: model.StatusPending}); ok {
		t.Error("Regress from pending reported a transition")
	}
	if _, ok := Advance(model.Task{Status: "UNKNOWN"}); ok {
		t.Error("Advance from unknown status reported a transition")
	}
}
