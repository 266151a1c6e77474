// Package session holds the client's in-memory application state: the
// signed-in user's profile and the loaded contact list. The shell owns one
// Store and hands it to the services; there is no package-level instance.
package session

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/greetkeeper/internal/models"
)

type Store struct {
	mu     sync.RWMutex
	user   *models.User
	people []models.Person
}

func NewStore() *Store {
	return &Store{}
}

// User returns a copy of the current profile and whether one is set.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

// SetUser installs u as the current profile; nil signs out and also drops
// the contact list.
func (s *Store) SetUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		s.user = nil
		s.people = nil
		return
	}
	cp := *u
	s.user = &cp
}

// SetCredits mirrors a new balance into the current profile.
// It reports false when nobody is signed in.
func (s *Store) SetCredits(credits int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return false
	}
	s.user.Credits = credits
	return true
}

// People returns a copy of the contact list.
func (s *Store) People() []models.Person {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.people)
}

func (s *Store) SetPeople(people []models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = slices.Clone(people)
}

func (s *Store) AddPerson(p models.Person) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.people = append(s.people, p)
}

// Person looks a contact up by id in the loaded list.
func (s *Store) Person(id string) (models.Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.people {
		if p.ID == id {
			return p, true
		}
	}
	return models.Person{}, false
}
