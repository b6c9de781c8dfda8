package store

import (
	"context"
	"fmt"
	"sync"

	"mergington/internal/activity/models"
	"mergington/pkg/platform/sentinel"
)

// InMemory keeps the registry in a mutex-guarded map. This is the default
// backend and intentionally favors clarity over performance.
type InMemory struct {
	mu         sync.RWMutex
	activities map[string]*models.Activity
}

// NewInMemory constructs an empty in-memory registry store.
func NewInMemory() *InMemory {
	return &InMemory{activities: make(map[string]*models.Activity)}
}

// Seed loads the fixed dataset. Existing entries are left untouched so
// re-seeding is harmless.
func (s *InMemory) Seed(_ context.Context, activities []*models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range activities {
		if _, ok := s.activities[a.Name]; ok {
			continue
		}
		s.activities[a.Name] = a.Clone()
	}
	return nil
}

// List returns deep copies of every activity.
func (s *InMemory) List(_ context.Context) ([]*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		out = append(out, a.Clone())
	}
	return out, nil
}

// FindByName returns a deep copy of one activity.
func (s *InMemory) FindByName(_ context.Context, name string) (*models.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.activities[name]
	if !ok {
		return nil, fmt.Errorf("activity %q: %w", name, sentinel.ErrNotFound)
	}
	return a.Clone(), nil
}

// AddParticipant appends email to the activity roster.
// Returns ErrNotFound for unknown activities, ErrAlreadyUsed for duplicates.
func (s *InMemory) AddParticipant(_ context.Context, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("activity %q: %w", name, sentinel.ErrNotFound)
	}
	if a.HasParticipant(email) {
		return fmt.Errorf("participant %q: %w", email, sentinel.ErrAlreadyUsed)
	}
	a.Participants = append(a.Participants, email)
	return nil
}

// RemoveParticipant deletes email from the activity roster.
// Returns ErrNotFound for unknown activities, ErrInvalidState when the email
// is not on the roster.
func (s *InMemory) RemoveParticipant(_ context.Context, name, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.activities[name]
	if !ok {
		return fmt.Errorf("activity %q: %w", name, sentinel.ErrNotFound)
	}
	if !a.RemoveParticipant(email) {
		return fmt.Errorf("participant %q: %w", email, sentinel.ErrInvalidState)
	}
	return nil
}
