// Package recommend ranks candidates against one anchor using a single
// scoring strategy per pass.
package recommend

import (
	"context"
	"fmt"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/internal/domain/scoring"
)

// Scored pairs a candidate with its score.
type Scored[T any] struct {
	Item  T
	Score float64
}

// Service ranks opportunities for a volunteer and volunteers for an
// opportunity. It holds exactly one Scorer so strategies never mix within a
// ranking pass.
type Service struct {
	scorer scoring.Scorer
}

// New returns a Service that ranks with scorer. A nil scorer falls back to
// the default weighted scorer.
func New(scorer scoring.Scorer) *Service {
	if scorer == nil {
		scorer = scoring.NewWeightedScorer()
	}
	return &Service{scorer: scorer}
}

// Scorer returns the strategy used by this service.
func (s *Service) Scorer() scoring.Scorer { return s.scorer }

// ForVolunteer scores every opportunity against vol and returns the best
// limit of them, highest first. Equal scores keep their input order.
func (s *Service) ForVolunteer(vol *model.VolunteerProfile, opps []*model.Opportunity, limit int) []Scored[*model.Opportunity] {
	ranked := make([]Scored[*model.Opportunity], len(opps))
	for i, opp := range opps {
		ranked[i] = Scored[*model.Opportunity]{Item: opp, Score: s.scorer.Score(opp, vol)}
	}
	return Top(ranked, limit)
}

// ForOpportunity is the mirror of ForVolunteer.
func (s *Service) ForOpportunity(opp *model.Opportunity, vols []*model.VolunteerProfile, limit int) []Scored[*model.VolunteerProfile] {
	ranked := make([]Scored[*model.VolunteerProfile], len(vols))
	for i, vol := range vols {
		ranked[i] = Scored[*model.VolunteerProfile]{Item: vol, Score: s.scorer.Score(opp, vol)}
	}
	return Top(ranked, limit)
}

// Top stable-sorts scored in place by descending score and returns at most
// limit entries. A non-positive limit yields an empty slice.
func Top[T any](scored []Scored[T], limit int) []Scored[T] {
	if limit <= 0 || len(scored) == 0 {
		return []Scored[T]{}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	if limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}

// Pair is one (opportunity, volunteer) combination for batch scoring.
type Pair struct {
	Opportunity *model.Opportunity
	Volunteer   *model.VolunteerProfile
}

// ScorePairs scores pairs concurrently on up to workers goroutines and returns
// the scores in input order. Scoring itself never fails; the error reports
// a cancelled ctx.
func (s *Service) ScorePairs(ctx context.Context, pairs []Pair, workers int) ([]float64, error) {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	scores := make([]float64, len(pairs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range pairs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			scores[i] = s.scorer.Score(pairs[i].Opportunity, pairs[i].Volunteer)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("score pairs: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("score pairs: %w", err)
	}
	return scores, nil
}
