package store

import (
	"testing"

	"github.com/gestora/gestora/internal/model"
)

func TestUserStoreSorted(t *testing.T) {
	s := NewUserStore()
	s.Replace([]model.User{
		{ID: "u1", Name: "Zélia", Role: model.RoleUser},
		{ID: "u2", Name: "António", Role: model.RoleUser},
		{ID: "u3", Name: "Marta", Role: model.RoleAdmin},
		{ID: "u4", Name: "Bruno", Role: model.RoleAdmin},
		{ID: "u5", Name: "carlos", Role: model.RoleUser},
	})

	sorted := s.Sorted()
	wantOrder := []string{"u4", "u3", "u2", "u5", "u1"}
	for i, id := range wantOrder {
		if sorted[i].ID != id {
			t.Errorf("sorted[%d] = %s (%s), want %s",
				i, sorted[i].ID, sorted[i].Name, id)
		}
	}
}

func TestUserStoreSortedAccentAware(t *testing.T) {
	s := NewUserStore()
	s.Replace([]model.User{
		{ID: "u1", Name: "Álvaro", Role: model.RoleUser},
		{ID: "u2", Name: "Ana", Role: model.RoleUser},
		{ID: "u3", Name: "Bento", Role: model.RoleUser},
	})

	sorted := s.Sorted()
	// Portuguese collation orders Álvaro before Ana; byte order would not.
	if sorted[0].Name != "Álvaro" || sorted[1].Name != "Ana" || sorted[2].Name != "Bento" {
		t.Errorf("accent-aware order broken: %s, %s, %s",
			sorted[0].Name, sorted[1].Name, sorted[2].Name)
	}
}

func TestUserStoreEmailTaken(t *testing.T) {
	s := NewUserStore()
	s.Replace([]model.User{
		{ID: "u1", Name: "Ana", Email: "ana@example.com"},
		{ID: "u2", Name: "Rui", Email: "rui@example.com"},
	})

	tests := []struct {
		name      string
		email     string
		excludeID string
		want      bool
	}{
		{"new user with fresh email", "novo@example.com", "", false},
		{"new user with taken email", "ana@example.com", "", true},
		{"case-insensitive match", "ANA@Example.COM", "", true},
		{"edit keeping own email", "ana@example.com", "u1", false},
		{"edit to another user's email", "rui@example.com", "u1", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.EmailTaken(tt.email, tt.excludeID); got != tt.want {
				t.Errorf("EmailTaken(%q, %q) = %v, want %v",
					tt.email, tt.excludeID, got, tt.want)
			}
		})
	}
}

func TestUserStoreUpsertRemove(t *testing.T) {
	s := NewUserStore()
	s.Upsert(model.User{ID: "u1", Name: "Ana"})
	s.Upsert(model.User{ID: "u1", Name: "Ana Maria"})
	if s.Len() != 1 {
		t.Fatalf("length = %d after double upsert, want 1", s.Len())
	}
	if got, _ := s.Get("u1"); got.Name != "Ana Maria" {
		t.Errorf("name = %q", got.Name)
	}

	s.Remove("u1")
	if s.Len() != 0 {
		t.Error("remove left entries behind")
	}
}
