// Package feedback records post-match ratings.
package feedback

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seraaj/matchcore/internal/domain/model"
)

// Option configures a Store.
type Option func(*Store)

// WithLocker replaces the default mutex.
func WithLocker(l sync.Locker) Option {
	return func(s *Store) {
		if l != nil {
			s.mu = l
		}
	}
}

// WithClock sets the time source for RecordedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Store is an append-only feedback log. Ratings are stored as given, with no
// range check.
type Store struct {
	mu      sync.Locker
	now     func() time.Time
	log     []model.MatchFeedback
	byMatch map[string][]int
	sum     int64
}

// NewStore returns an empty feedback log.
func NewStore(opts ...Option) *Store {
	s := &Store{
		mu:      &sync.Mutex{},
		now:     func() time.Time { return time.Now().UTC() },
		byMatch: make(map[string][]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record appends f, filling in ID and RecordedAt when unset, and returns the
// stored entry.
func (s *Store) Record(f model.MatchFeedback) model.MatchFeedback {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.RecordedAt.IsZero() {
		f.RecordedAt = s.now()
	}
	s.byMatch[f.MatchID] = append(s.byMatch[f.MatchID], len(s.log))
	s.log = append(s.log, f)
	s.sum += int64(f.Rating)
	return f
}

// AverageRating is the mean of all ratings, or 0 when nothing was recorded.
func (s *Store) AverageRating() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.log) == 0 {
		return 0
	}
	return float64(s.sum) / float64(len(s.log))
}

// ForMatch returns the feedback for one match in insertion order.
func (s *Store) ForMatch(matchID string) []model.MatchFeedback {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.byMatch[matchID]
	out := make([]model.MatchFeedback, len(idx))
	for i, j := range idx {
		out[i] = s.log[j]
	}
	return out
}

// Len returns the number of recorded entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.log)
}
