package i18n

import (
	"strings"
	"testing"

	"github.com/gestora/gestora/internal/model"
)

func TestNewFallsBackToPortuguese(t *testing.T) {
	for _, code := range []string{"pt", "", "fr", "de"} {
		if got := New(code).Lang(); code != "en" && got != Portuguese {
			t.Errorf("New(%q).Lang() = %q, want pt", code, got)
		}
	}
	if got := New("en").Lang(); got != English {
		t.Errorf("New(en).Lang() = %q", got)
	}
}

func TestTranslate(t *testing.T) {
	pt := New("pt")
	en := New("en")

	if got := pt.T("login.title"); got != "Iniciar sessão" {
		t.Errorf("pt login.title = %q", got)
	}
	if got := en.T("login.title"); got != "Sign in" {
		t.Errorf("en login.title = %q", got)
	}

	// Formatting arguments.
	got := pt.T("task.created", "Relatório mensal")
	if !strings.Contains(got, "Relatório mensal") {
		t.Errorf("task.created did not interpolate: %q", got)
	}

	// Unknown keys come back verbatim so they are visible in the UI.
	if got := pt.T("no.such.key"); got != "no.such.key" {
		t.Errorf("unknown key = %q", got)
	}
}

func TestEveryPortugueseKeyHasEnglish(t *testing.T) {
	for key := range messages[Portuguese] {
		if _, ok := messages[English][key]; !ok {
			t.Errorf("key %q missing from English catalog", key)
		}
	}
}

func TestStatusLabelsNormalizeAliases(t *testing.T) {
	pt := New("pt")

	tests := []struct {
		status model.TaskStatus
		want   string
	}{
		{model.StatusPending, "Pendente"},
		{model.StatusInProgress, "Em Progresso"},
		{model.StatusOverdue, "Atrasada"},
		{model.StatusFinished, "Terminado"},
		{model.StatusClosed, "Fechado"},
		{"EM_ANDAMENTO", "Em Progresso"},
		{"CONCLUIDA", "Terminado"},
		{"ESTADO_DESCONHECIDO", "ESTADO_DESCONHECIDO"},
	}
	for _, tt := range tests {
		if got := pt.StatusLabel(tt.status); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}

	if got := New("en").StatusLabel("ARQUIVADO"); got != "Closed" {
		t.Errorf("en StatusLabel(ARQUIVADO) = %q", got)
	}
}
