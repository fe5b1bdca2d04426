// Package i18n provides the user-facing message catalog. The backend
// speaks Portuguese; the terminal UI can render either Portuguese or
// English, selected through the display.language config key.
package i18n

import (
	"fmt"

	"github.com/gestora/gestora/internal/model"
	"github.com/gestora/gestora/internal/workflow"
)

// Lang identifies a supported UI language.
type Lang string

const (
	Portuguese Lang = "pt"
	English    Lang = "en"
)

// Translator resolves message keys for a fixed language.
type Translator struct {
	lang Lang
}

// New returns a Translator for the given language code. Unknown codes
// fall back to Portuguese, the language of the backend data.
func New(lang string) *Translator {
	l := Lang(lang)
	if l != English {
		l = Portuguese
	}
	return &Translator{lang: l}
}

// Lang returns the resolved language.
func (t *Translator) Lang() Lang {
	return t.lang
}

// T resolves a message key, applying fmt-style arguments when given.
// Missing keys fall back to Portuguese, then to the key itself so a
// forgotten entry is visible rather than silent.
func (t *Translator) T(key string, args ...interface{}) string {
	msg, ok := messages[t.lang][key]
	if !ok {
		msg, ok = messages[Portuguese][key]
	}
	if !ok {
		return key
	}
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// StatusLabel returns the display label for a task status. The status
// is normalized first so legacy aliases render like their canonical
// counterparts; values outside the workflow render as-is.
func (t *Translator) StatusLabel(s model.TaskStatus) string {
	mapped := workflow.MapStatus(s)
	if label, ok := statusLabels[t.lang][mapped]; ok {
		return label
	}
	return string(s)
}

// PriorityLabel returns the display label for a task priority.
func (t *Translator) PriorityLabel(p model.TaskPriority) string {
	if label, ok := priorityLabels[t.lang][p]; ok {
		return label
	}
	return string(p)
}

// RoleLabel returns the display label for a user role.
func (t *Translator) RoleLabel(r model.Role) string {
	if label, ok := roleLabels[t.lang][r]; ok {
		return label
	}
	return string(r)
}

var statusLabels = map[Lang]map[model.TaskStatus]string{
	Portuguese: {
		model.StatusPending:    "Pendente",
		model.StatusInProgress: "Em Progresso",
		model.StatusOverdue:    "Atrasada",
		model.StatusFinished:   "Terminado",
		model.StatusClosed:     "Fechado",
	},
	English: {
		model.StatusPending:    "Pending",
		model.StatusInProgress: "In Progress",
		model.StatusOverdue:    "Overdue",
		model.StatusFinished:   "Finished",
		model.StatusClosed:     "Closed",
	},
}

var priorityLabels = map[Lang]map[model.TaskPriority]string{
	Portuguese: {
		model.PriorityLow:    "Baixa",
		model.PriorityMedium: "Média",
		model.PriorityHigh:   "Alta",
		model.PriorityUrgent: "Urgente",
	},
	English: {
		model.PriorityLow:    "Low",
		model.PriorityMedium: "Medium",
		model.PriorityHigh:   "High",
		model.PriorityUrgent: "Urgent",
	},
}

var roleLabels = map[Lang]map[model.Role]string{
	Portuguese: {
		model.RoleAdmin:   "Administrador",
		model.RoleManager: "Gestor",
		model.RoleUser:    "Funcionário",
	},
	English: {
		model.RoleAdmin:   "Administrator",
		model.RoleManager: "Manager",
		model.RoleUser:    "Employee",
	},
}
