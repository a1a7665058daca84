// Package gamification awards badges from hour and endorsement milestones and
// keeps the endorsement log those milestones are computed from.
package gamification

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/pkg/logger"
)

// Option configures an Engine.
type Option func(*Engine)

// WithCatalog sets the badge catalog.
func WithCatalog(c *Catalog) Option {
	return func(e *Engine) {
		if c != nil {
			e.catalog = c
		}
	}
}

// WithBadgeStore sets the award log.
func WithBadgeStore(s *BadgeStore) Option {
	return func(e *Engine) {
		if s != nil {
			e.badges = s
		}
	}
}

// WithEndorsementStore sets the endorsement log.
func WithEndorsementStore(s *EndorsementStore) Option {
	return func(e *Engine) {
		if s != nil {
			e.endorsements = s
		}
	}
}

// WithLocker sets the guard that makes a check-and-award pass atomic.
func WithLocker(l sync.Locker) Option {
	return func(e *Engine) {
		if l != nil {
			e.mu = l
		}
	}
}

// WithClock sets the time source for award and endorsement timestamps.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithIDGenerator sets how award and endorsement IDs are minted.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) {
		if newID != nil {
			e.newID = newID
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine awards badges idempotently. Safe for concurrent use.
type Engine struct {
	catalog      *Catalog
	badges       *BadgeStore
	endorsements *EndorsementStore

	mu     sync.Locker
	now    func() time.Time
	newID  func() string
	logger logger.Logger
}

// NewEngine returns an engine over the default catalog and fresh stores.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalog:      DefaultCatalog(),
		badges:       NewBadgeStore(),
		endorsements: NewEndorsementStore(),
		mu:           &sync.Mutex{},
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalog returns the badge catalog the engine awards from.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// Badges returns the award log.
func (e *Engine) Badges() *BadgeStore { return e.badges }

// Endorsements returns the endorsement store Endorse writes to.
func (e *Engine) Endorsements() *EndorsementStore { return e.endorsements }

// Endorse stores an endorsement, filling in ID and EndorsedAt when unset.
func (e *Engine) Endorse(en model.SkillEndorsement) model.SkillEndorsement {
	if en.ID == "" {
		en.ID = e.newID()
	}
	if en.EndorsedAt.IsZero() {
		en.EndorsedAt = e.now()
	}
	e.endorsements.Add(en)
	return en
}

// CheckAndAwardBadges awards every hour badge whose threshold is at most
// totalHours, in ascending order, and the Endorsed badge when
// endorsementCount > 0. Badges the volunteer already holds are skipped, so
// repeated calls are no-ops. It returns only the awards created by this call.
func (e *Engine) CheckAndAwardBadges(volunteerID string, totalHours float64, endorsementCount int) []model.VolunteerBadge {
	e.mu.Lock()
	defer e.mu.Unlock()

	var awarded []model.VolunteerBadge
	for _, t := range e.catalog.thresholds {
		if float64(t.Hours) > totalHours {
			break
		}
		if b, ok := e.award(volunteerID, t.Badge.Name); ok {
			awarded = append(awarded, b)
		}
	}
	if endorsementCount > 0 {
		if b, ok := e.award(volunteerID, e.catalog.endorsed.Name); ok {
			awarded = append(awarded, b)
		}
	}

	for _, b := range awarded {
		e.logger.Info(context.Background(), "badge awarded",
			logger.String("volunteer_id", volunteerID),
			logger.String("badge", b.BadgeName),
		)
	}
	return awarded
}

func (e *Engine) award(volunteerID, badgeName string) (model.VolunteerBadge, bool) {
	if e.badges.Has(volunteerID, badgeName) {
		return model.VolunteerBadge{}, false
	}
	b := model.VolunteerBadge{
		ID:          e.newID(),
		VolunteerID: volunteerID,
		BadgeName:   badgeName,
		AwardedAt:   e.now(),
	}
	return b, e.badges.AwardOnce(b)
}
