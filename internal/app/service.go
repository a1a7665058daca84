// Package service composes the matching engine: snapshot queries,
// recommendations and learning paths on the read side, and an event
// pipeline that feeds hours, endorsements and feedback into gamification.
package service

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	eventqueue "github.com/seraaj/matchcore/internal/adapters/mq/queue"
	workerpool "github.com/seraaj/matchcore/internal/adapters/mq/worker"
	"github.com/seraaj/matchcore/internal/adapters/repository"
	"github.com/seraaj/matchcore/internal/domain/analytics"
	"github.com/seraaj/matchcore/internal/domain/dedupe"
	"github.com/seraaj/matchcore/internal/domain/feedback"
	"github.com/seraaj/matchcore/internal/domain/gamification"
	"github.com/seraaj/matchcore/internal/domain/leaderboard"
	"github.com/seraaj/matchcore/internal/domain/learning"
	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/internal/domain/recommend"
	"github.com/seraaj/matchcore/internal/domain/scoring"
	"github.com/seraaj/matchcore/pkg/logger"
	"github.com/seraaj/matchcore/pkg/metrics"
)

// Service owns every store and runs the inbound event pipeline.
type Service struct {
	mu sync.RWMutex

	// Read side
	store       repository.Store
	scorer      scoring.Scorer
	recommender *recommend.Service
	advisor     *learning.Advisor

	// Write side
	catalog  *gamification.Catalog
	engine   *gamification.Engine
	ledger   *leaderboard.HoursLedger
	feedback *feedback.Store
	history  *analytics.Log

	// Event pipeline. Queue and pool are rebuilt on every Start.
	deduper    dedupe.Deduper
	eventQueue *eventqueue.InMemoryQueue
	workerPool *workerpool.Pool

	// Configuration
	workerCount  int
	queueSize    int
	dedupeSize   int
	defaultLimit int
	now          func() time.Time

	started bool
	logger  logger.Logger
}

// New constructs a Service. Queries work immediately; Submit needs Start.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    10_000,
		dedupeSize:   100_000,
		defaultLimit: 10,
		now:          func() time.Time { return time.Now().UTC() },
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = repository.NewMemoryStore(repository.WithLogger(s.logger.Named("repository")))
	}
	if s.scorer == nil {
		s.scorer = scoring.NewWeightedScorer()
	}
	if s.catalog == nil {
		s.catalog = gamification.DefaultCatalog()
	}
	s.recommender = recommend.New(s.scorer)
	s.advisor = learning.NewAdvisor(s.scorer)
	s.engine = gamification.NewEngine(
		gamification.WithCatalog(s.catalog),
		gamification.WithClock(s.now),
		gamification.WithLogger(s.logger.Named("gamification")),
	)
	s.ledger = leaderboard.NewHoursLedger()
	s.feedback = feedback.NewStore(feedback.WithClock(s.now))
	s.history = analytics.NewLog()
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start builds the queue and worker pool and starts the workers. The deduper
// lives as long as the stores, so IDs seen before a restart stay duplicates.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.eventQueue = eventqueue.NewInMemoryQueue(eventqueue.WithCapacity(s.queueSize))
	s.workerPool = workerpool.NewPool(s.workerCount, s.eventQueue, s,
		workerpool.WithPoolLogger(s.logger))
	s.workerPool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "matchcore service started",
		logger.Int("workers", s.workerPool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop closes the queue and waits for queued events to be applied or ctx to
// expire.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	s.logger.Info(ctx, "stopping matchcore service...")
	if err := s.workerPool.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop workers: %w", err)
	}
	s.logger.Info(ctx, "matchcore service stopped")
	return nil
}

// Ready reports whether the event pipeline is running.
func (s *Service) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.started
}

// Store exposes the snapshot store, e.g. for seeding.
func (s *Service) Store() repository.Store { return s.store }

// Submit validates e, drops it when its ID was already seen and queues it
// for the workers. A missing ID is generated, which disables deduplication
// for that event.
func (s *Service) Submit(ctx context.Context, e model.Event) (duplicate bool, err error) { //nolint:gocritic // hugeParam: Event is passed by value
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return false, ErrNotStarted
	}
	if err := validateEvent(e); err != nil {
		return false, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = s.now()
	}

	if s.deduper.SeenAndRecord(ctx, e.ID) {
		metrics.RecordEventDuplicate()
		s.logger.Debug(ctx, "duplicate event detected, skipping", logger.String("eventID", e.ID))
		return true, nil
	}
	if err := s.eventQueue.Enqueue(ctx, e); err != nil {
		// Let a retry of the same event through.
		s.deduper.Unrecord(ctx, e.ID)
		s.logger.Warn(ctx, "event rejected by queue",
			logger.String("eventID", e.ID),
			logger.Error(err),
		)
		return false, fmt.Errorf("%w: %w", ErrBackpressure, err)
	}
	metrics.RecordEventAccepted(string(e.Kind))
	return false, nil
}

func validateEvent(e model.Event) error { //nolint:gocritic // hugeParam: Event is passed by value
	switch e.Kind {
	case model.KindCompletion:
		c := e.Completion
		if c == nil || c.VolunteerID == "" {
			return fmt.Errorf("%w: completion needs a volunteer", ErrInvalidEvent)
		}
		if c.Hours < 0 || math.IsNaN(c.Hours) || math.IsInf(c.Hours, 0) {
			return fmt.Errorf("%w: completion hours %v", ErrInvalidEvent, c.Hours)
		}
	case model.KindEndorsement:
		en := e.Endorsement
		if en == nil || en.VolunteerID == "" || en.SkillName == "" {
			return fmt.Errorf("%w: endorsement needs a volunteer and skill", ErrInvalidEvent)
		}
		if en.Strength < 1 {
			return fmt.Errorf("%w: endorsement strength %d", ErrInvalidEvent, en.Strength)
		}
	case model.KindFeedback:
		if e.Feedback == nil || e.Feedback.MatchID == "" {
			return fmt.Errorf("%w: feedback needs a match", ErrInvalidEvent)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEventKind, e.Kind)
	}
	return nil
}

// Handle applies one event. Workers call it for every queued event; it may
// also be called directly for synchronous ingestion.
func (s *Service) Handle(ctx context.Context, e model.Event) error { //nolint:gocritic // hugeParam: Event is passed by value
	if err := validateEvent(e); err != nil {
		return err
	}

	switch e.Kind {
	case model.KindCompletion:
		c := *e.Completion
		at := e.ReceivedAt
		if at.IsZero() {
			at = s.now()
		}
		total := s.ledger.Add(c.VolunteerID, c.Hours)
		s.history.Append(c, at)
		metrics.UpdateLeaderboardSize(s.ledger.Len())
		s.award(c.VolunteerID, total)

	case model.KindEndorsement:
		en := s.engine.Endorse(*e.Endorsement)
		metrics.RecordEndorsement()
		s.award(en.VolunteerID, s.ledger.Total(en.VolunteerID))

	case model.KindFeedback:
		f := s.feedback.Record(*e.Feedback)
		metrics.RecordFeedback()
		s.logger.Debug(ctx, "feedback recorded",
			logger.String("match_id", f.MatchID),
			logger.Int("rating", f.Rating),
		)
	}
	return nil
}

func (s *Service) award(volunteerID string, totalHours float64) {
	count := s.engine.Endorsements().Count(volunteerID)
	for _, b := range s.engine.CheckAndAwardBadges(volunteerID, totalHours, count) {
		metrics.RecordBadgeAwarded(b.BadgeName)
	}
}

func (s *Service) limit(n int) int {
	if n <= 0 {
		return s.defaultLimit
	}
	return n
}

// RecommendForVolunteer ranks every stored opportunity for the volunteer.
func (s *Service) RecommendForVolunteer(ctx context.Context, volunteerID string, limit int) ([]recommend.Scored[*model.Opportunity], error) {
	start := time.Now()
	vol, err := s.store.Volunteer(ctx, volunteerID)
	if err != nil {
		return nil, err
	}
	opps, err := s.store.Opportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}

	ranked := s.recommender.ForVolunteer(vol, opps, s.limit(limit))
	metrics.RecordScoresComputed(len(opps))
	metrics.RecordRecommendation("volunteer", elapsedMs(start))
	return ranked, nil
}

// RecommendForOpportunity ranks every stored volunteer for the opportunity.
func (s *Service) RecommendForOpportunity(ctx context.Context, opportunityID string, limit int) ([]recommend.Scored[*model.VolunteerProfile], error) {
	start := time.Now()
	opp, err := s.store.Opportunity(ctx, opportunityID)
	if err != nil {
		return nil, err
	}
	vols, err := s.store.Volunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}

	ranked := s.recommender.ForOpportunity(opp, vols, s.limit(limit))
	metrics.RecordScoresComputed(len(vols))
	metrics.RecordRecommendation("opportunity", elapsedMs(start))
	return ranked, nil
}

// LearningPath suggests opportunities and resources for the volunteer's
// desired skills.
func (s *Service) LearningPath(ctx context.Context, volunteerID string, limit int) (learning.Path, error) {
	start := time.Now()
	vol, err := s.store.Volunteer(ctx, volunteerID)
	if err != nil {
		return learning.Path{}, err
	}
	opps, err := s.store.Opportunities(ctx)
	if err != nil {
		return learning.Path{}, fmt.Errorf("list opportunities: %w", err)
	}
	resources, err := s.store.Resources(ctx)
	if err != nil {
		return learning.Path{}, fmt.Errorf("list resources: %w", err)
	}

	path := s.advisor.Suggest(vol, opps, resources, s.limit(limit))
	metrics.RecordRecommendation("learning", elapsedMs(start))
	return path, nil
}

// ScoreAll scores every stored (opportunity, volunteer) pair in parallel.
// The result is indexed [opportunity][volunteer] in store order.
func (s *Service) ScoreAll(ctx context.Context) ([][]float64, error) {
	start := time.Now()
	opps, err := s.store.Opportunities(ctx)
	if err != nil {
		return nil, fmt.Errorf("list opportunities: %w", err)
	}
	vols, err := s.store.Volunteers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list volunteers: %w", err)
	}

	pairs := make([]recommend.Pair, 0, len(opps)*len(vols))
	for _, opp := range opps {
		for _, vol := range vols {
			pairs = append(pairs, recommend.Pair{Opportunity: opp, Volunteer: vol})
		}
	}
	flat, err := s.recommender.ScorePairs(ctx, pairs, s.workerCount)
	if err != nil {
		return nil, err
	}

	matrix := make([][]float64, len(opps))
	for i := range opps {
		matrix[i] = flat[i*len(vols) : (i+1)*len(vols)]
	}
	metrics.RecordScoresComputed(len(pairs))
	metrics.RecordScoringLatency(elapsedMs(start))
	return matrix, nil
}

// Leaderboard ranks volunteers by logged hours. limit <= 0 returns everyone.
func (s *Service) Leaderboard(limit int) []leaderboard.Entry {
	return leaderboard.Top(s.ledger.Snapshot(), limit)
}

// TotalHours returns the hours logged by the volunteer.
func (s *Service) TotalHours(volunteerID string) float64 { return s.ledger.Total(volunteerID) }

// Badges returns the volunteer's awards in award order.
func (s *Service) Badges(volunteerID string) []model.VolunteerBadge {
	return s.engine.Badges().Awards(volunteerID)
}

// Catalog returns the badge catalog in use.
func (s *Service) Catalog() *gamification.Catalog { return s.catalog }

// Endorsements returns the volunteer's endorsements in insertion order.
func (s *Service) Endorsements(volunteerID string) []model.SkillEndorsement {
	return s.engine.Endorsements().ForVolunteer(volunteerID)
}

// AverageRating is the mean of all feedback ratings, 0 when there are none.
func (s *Service) AverageRating() float64 { return s.feedback.AverageRating() }

// FeedbackForMatch returns the feedback recorded for one match.
func (s *Service) FeedbackForMatch(matchID string) []model.MatchFeedback {
	return s.feedback.ForMatch(matchID)
}

// OrganizationReport aggregates the organization's completions.
func (s *Service) OrganizationReport(orgID string) analytics.OrganizationReport {
	return analytics.ReportForOrganization(orgID, s.history.Records())
}

// PlatformOverview counts distinct participants across all completions.
func (s *Service) PlatformOverview() analytics.PlatformOverview {
	return analytics.Overview(s.history.Records())
}

// VolunteerHours sums the hours in the volunteer's completion history, the
// figure printed on a certificate.
func (s *Service) VolunteerHours(volunteerID string) float64 {
	return analytics.VolunteerHours(volunteerID, s.history.Records())
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"volunteers":   s.ledger.Len(),
		"badges":       s.engine.Badges().Len(),
		"endorsements": s.engine.Endorsements().Len(),
		"feedback":     s.feedback.Len(),
		"completions":  s.history.Len(),
	}
	if s.eventQueue != nil {
		stats["queueLength"] = s.eventQueue.Len()
	}
	stats["dedupeEntries"] = s.deduper.Size()
	return stats
}

func elapsedMs(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000
}
