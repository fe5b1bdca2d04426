package store

import (
	"sort"
	"strings"
	gosync "sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/gestora/gestora/internal/model"
)

// UserStore holds the canonical in-memory user collection.
type UserStore struct {
	mu       gosync.RWMutex
	users    []model.User
	collator *collate.Collator
}

// NewUserStore creates an empty user store. Names are compared with
// Portuguese collation rules in the sorted view, matching the backend's
// primary locale.
func NewUserStore() *UserStore {
	return &UserStore{
		collator: collate.New(language.Portuguese, collate.IgnoreCase),
	}
}

// Snapshot returns a copy of the current collection in insertion order.
func (s *UserStore) Snapshot() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)
	return out
}

// Replace atomically swaps the entire collection.
func (s *UserStore) Replace(users []model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make([]model.User, len(users))
	copy(s.users, users)
}

// Upsert inserts the user or replaces the entry with the same ID.
func (s *UserStore) Upsert(user model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == user.ID {
			s.users[i] = user
			return
		}
	}
	s.users = append(s.users, user)
}

// Remove deletes the user with the given ID.
func (s *UserStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users = append(s.users[:i], s.users[i+1:]...)
			return
		}
	}
}

// Get returns the user with the given ID.
func (s *UserStore) Get(id string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// Len returns the number of users held.
func (s *UserStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}

// SetAvatarRef patches the avatar reference of a user in place.
func (s *UserStore) SetAvatarRef(id, ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].AvatarRef = ref
			return
		}
	}
}

// EmailTaken reports whether email (compared case-insensitively) is
// already used by a user other than excludeID. Pass an empty excludeID
// when creating a new user.
func (s *UserStore) EmailTaken(email, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.ID != excludeID && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

// Sorted returns the users with admins first and each group ordered
// alphabetically by name under locale-aware collation.
func (s *UserStore) Sorted() []model.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.User, len(s.users))
	copy(out, s.users)

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsAdmin() != out[j].IsAdmin() {
			return out[i].IsAdmin()
		}
		return s.collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}
