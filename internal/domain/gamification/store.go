package gamification

import (
	"sync"

	"github.com/seraaj/matchcore/internal/domain/model"
)

type storeConfig struct {
	locker sync.Locker
}

// StoreOption configures a BadgeStore or EndorsementStore.
type StoreOption func(*storeConfig)

// WithStoreLocker replaces the store's default mutex.
func WithStoreLocker(l sync.Locker) StoreOption {
	return func(c *storeConfig) {
		if l != nil {
			c.locker = l
		}
	}
}

func buildStoreConfig(opts []StoreOption) storeConfig {
	c := storeConfig{locker: &sync.Mutex{}}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

type awardKey struct {
	volunteerID string
	badgeName   string
}

// BadgeStore is an append-only award log with an index on
// (volunteer, badge) and per-volunteer insertion order.
type BadgeStore struct {
	mu          sync.Locker
	log         []model.VolunteerBadge
	held        map[awardKey]struct{}
	byVolunteer map[string][]int
}

// NewBadgeStore returns an empty award log.
func NewBadgeStore(opts ...StoreOption) *BadgeStore {
	c := buildStoreConfig(opts)
	return &BadgeStore{
		mu:          c.locker,
		held:        make(map[awardKey]struct{}),
		byVolunteer: make(map[string][]int),
	}
}

// AwardOnce appends b unless the volunteer already holds that badge.
// It reports whether b was appended.
func (s *BadgeStore) AwardOnce(b model.VolunteerBadge) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := awardKey{volunteerID: b.VolunteerID, badgeName: b.BadgeName}
	if _, ok := s.held[key]; ok {
		return false
	}
	s.held[key] = struct{}{}
	s.byVolunteer[b.VolunteerID] = append(s.byVolunteer[b.VolunteerID], len(s.log))
	s.log = append(s.log, b)
	return true
}

// Has reports whether the volunteer holds the named badge.
func (s *BadgeStore) Has(volunteerID, badgeName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.held[awardKey{volunteerID: volunteerID, badgeName: badgeName}]
	return ok
}

// Awards returns the volunteer's badges in award order.
func (s *BadgeStore) Awards(volunteerID string) []model.VolunteerBadge {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.byVolunteer[volunteerID]
	out := make([]model.VolunteerBadge, len(idx))
	for i, j := range idx {
		out[i] = s.log[j]
	}
	return out
}

// Len returns the total number of awards.
func (s *BadgeStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}

// EndorsementStore is an append-only endorsement log.
type EndorsementStore struct {
	mu          sync.Locker
	log         []model.SkillEndorsement
	byVolunteer map[string][]int
}

// NewEndorsementStore returns an empty endorsement log.
func NewEndorsementStore(opts ...StoreOption) *EndorsementStore {
	c := buildStoreConfig(opts)
	return &EndorsementStore{
		mu:          c.locker,
		byVolunteer: make(map[string][]int),
	}
}

// Add appends e.
func (s *EndorsementStore) Add(e model.SkillEndorsement) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byVolunteer[e.VolunteerID] = append(s.byVolunteer[e.VolunteerID], len(s.log))
	s.log = append(s.log, e)
}

// ForVolunteer returns the volunteer's endorsements in insertion order.
func (s *EndorsementStore) ForVolunteer(volunteerID string) []model.SkillEndorsement {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.byVolunteer[volunteerID]
	out := make([]model.SkillEndorsement, len(idx))
	for i, j := range idx {
		out[i] = s.log[j]
	}
	return out
}

// Count returns how many endorsements the volunteer has.
func (s *EndorsementStore) Count(volunteerID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byVolunteer[volunteerID])
}

// Len returns the total number of endorsements.
func (s *EndorsementStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}
