// Package repository holds the opportunity and volunteer snapshots the
// engine reads. The in-memory store is the reference implementation of the
// persistence contract.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/pkg/logger"
)

// Store provides snapshot access. Listing methods return items in the order
// they were first stored.
type Store interface {
	Opportunities(ctx context.Context) ([]*model.Opportunity, error)
	Volunteers(ctx context.Context) ([]*model.VolunteerProfile, error)
	Resources(ctx context.Context) ([]model.LearningResource, error)

	// Opportunity returns ErrNotFound for unknown ids.
	Opportunity(ctx context.Context, id string) (*model.Opportunity, error)
	// Volunteer returns ErrNotFound for unknown ids.
	Volunteer(ctx context.Context, id string) (*model.VolunteerProfile, error)

	// PutOpportunity validates and stores opp, replacing any snapshot with
	// the same id in place.
	PutOpportunity(ctx context.Context, opp *model.Opportunity) error
	// PutVolunteer validates and stores vol, replacing in place.
	PutVolunteer(ctx context.Context, vol *model.VolunteerProfile) error
	// AddResource validates and appends a learning resource.
	AddResource(ctx context.Context, r model.LearningResource) error
}

// ordered is an insertion-ordered id index.
type ordered[T any] struct {
	index map[string]int
	items []T
}

func newOrdered[T any]() ordered[T] {
	return ordered[T]{index: make(map[string]int)}
}

func (o *ordered[T]) put(id string, v T) {
	if i, ok := o.index[id]; ok {
		o.items[i] = v
		return
	}
	o.index[id] = len(o.items)
	o.items = append(o.items, v)
}

func (o *ordered[T]) get(id string) (T, bool) {
	i, ok := o.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return o.items[i], true
}

// MemoryStore implements Store in memory. Safe for concurrent use.
type MemoryStore struct {
	mu            sync.RWMutex
	opportunities ordered[*model.Opportunity]
	volunteers    ordered[*model.VolunteerProfile]
	resources     []model.LearningResource
	logger        logger.Logger
}

// NewMemoryStore returns an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		opportunities: newOrdered[*model.Opportunity](),
		volunteers:    newOrdered[*model.VolunteerProfile](),
		logger:        logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Opportunities implements Store.
func (s *MemoryStore) Opportunities(_ context.Context) ([]*model.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.Opportunity(nil), s.opportunities.items...), nil
}

// Volunteers implements Store.
func (s *MemoryStore) Volunteers(_ context.Context) ([]*model.VolunteerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]*model.VolunteerProfile(nil), s.volunteers.items...), nil
}

// Resources implements Store.
func (s *MemoryStore) Resources(_ context.Context) ([]model.LearningResource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.LearningResource(nil), s.resources...), nil
}

// Opportunity implements Store.
func (s *MemoryStore) Opportunity(_ context.Context, id string) (*model.Opportunity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	opp, ok := s.opportunities.get(id)
	if !ok {
		return nil, fmt.Errorf("opportunity %q: %w", id, ErrNotFound)
	}
	return opp, nil
}

// Volunteer implements Store.
func (s *MemoryStore) Volunteer(_ context.Context, id string) (*model.VolunteerProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vol, ok := s.volunteers.get(id)
	if !ok {
		return nil, fmt.Errorf("volunteer %q: %w", id, ErrNotFound)
	}
	return vol, nil
}

// PutOpportunity implements Store.
func (s *MemoryStore) PutOpportunity(_ context.Context, opp *model.Opportunity) error {
	if opp == nil {
		return fmt.Errorf("opportunity: %w: nil", ErrInvalidSnapshot)
	}
	if err := Validate(opp); err != nil {
		return fmt.Errorf("opportunity %q: %w", opp.ID, err)
	}
	s.mu.Lock()
	s.opportunities.put(opp.ID, opp)
	s.mu.Unlock()
	return nil
}

// PutVolunteer implements Store.
func (s *MemoryStore) PutVolunteer(_ context.Context, vol *model.VolunteerProfile) error {
	if vol == nil {
		return fmt.Errorf("volunteer: %w: nil", ErrInvalidSnapshot)
	}
	if err := Validate(vol); err != nil {
		return fmt.Errorf("volunteer %q: %w", vol.ID, err)
	}
	s.mu.Lock()
	s.volunteers.put(vol.ID, vol)
	s.mu.Unlock()
	return nil
}

// AddResource implements Store.
func (s *MemoryStore) AddResource(_ context.Context, r model.LearningResource) error {
	if err := Validate(&r); err != nil {
		return fmt.Errorf("resource %q: %w", r.SkillName, err)
	}
	s.mu.Lock()
	s.resources = append(s.resources, r)
	s.mu.Unlock()
	return nil
}

// Counts reports how many opportunities, volunteers and resources are stored.
func (s *MemoryStore) Counts() (opportunities, volunteers, resources int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.opportunities.items), len(s.volunteers.items), len(s.resources)
}
