// Package scoring combines skill, category, availability and location
// sub-scores into one normalized match score.
package scoring

import (
	"math"

	"github.com/seraaj/matchcore/internal/domain/availability"
	"github.com/seraaj/matchcore/internal/domain/distance"
	"github.com/seraaj/matchcore/internal/domain/model"
)

// Default blend coefficients.
const (
	DefaultSkillWeight        = 0.6
	DefaultCategoryWeight     = 0.1
	DefaultAvailabilityWeight = 0.2
	DefaultLocationWeight     = 0.1
)

// Scorer rates an opportunity/volunteer pair in [0, 1]. Implementations must
// be pure and safe for concurrent use.
type Scorer interface {
	Score(opp *model.Opportunity, vol *model.VolunteerProfile) float64
}

// Weights are the coefficients of the weighted combination.
type Weights struct {
	Skill        float64
	Category     float64
	Availability float64
	Location     float64
}

// DefaultWeights returns 0.6/0.1/0.2/0.1.
func DefaultWeights() Weights {
	return Weights{
		Skill:        DefaultSkillWeight,
		Category:     DefaultCategoryWeight,
		Availability: DefaultAvailabilityWeight,
		Location:     DefaultLocationWeight,
	}
}

// Sum returns the total of all coefficients.
func (w Weights) Sum() float64 {
	return w.Skill + w.Category + w.Availability + w.Location
}

// Breakdown holds each sub-score and the final blended score.
type Breakdown struct {
	Skill        float64
	Category     float64
	Availability float64
	Location     float64
	Total        float64
}

// Option applies a configuration option to the WeightedScorer.
type Option func(*WeightedScorer)

// WithWeights replaces the blend coefficients. Weights with a negative
// coefficient or a zero sum are ignored.
func WithWeights(w Weights) Option {
	return func(s *WeightedScorer) {
		if w.Skill < 0 || w.Category < 0 || w.Availability < 0 || w.Location < 0 {
			return
		}
		if w.Sum() <= 0 {
			return
		}
		s.weights = w
	}
}

// WithRadius sets the proximity cutoff in kilometres.
func WithRadius(km float64) Option {
	return func(s *WeightedScorer) {
		if km > 0 {
			s.proximity = distance.NewEvaluator(km)
		}
	}
}

// WeightedScorer is the default multi-criteria Scorer.
type WeightedScorer struct {
	weights   Weights
	proximity distance.Evaluator
}

var _ Scorer = (*WeightedScorer)(nil)

// NewWeightedScorer creates a scorer with default weights and a 50 km radius.
func NewWeightedScorer(opts ...Option) *WeightedScorer {
	s := &WeightedScorer{
		weights:   DefaultWeights(),
		proximity: distance.NewEvaluator(distance.DefaultRadiusKM),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the active coefficients.
func (s *WeightedScorer) Weights() Weights { return s.weights }

// RadiusKM returns the active proximity cutoff.
func (s *WeightedScorer) RadiusKM() float64 { return s.proximity.RadiusKM }

// Score implements Scorer.
func (s *WeightedScorer) Score(opp *model.Opportunity, vol *model.VolunteerProfile) float64 {
	return s.Breakdown(opp, vol).Total
}

// Breakdown computes all sub-scores for the pair.
func (s *WeightedScorer) Breakdown(opp *model.Opportunity, vol *model.VolunteerProfile) Breakdown {
	b := Breakdown{
		Skill:        SkillScore(opp.SkillsWeighted, vol.SkillProficiency),
		Category:     CategoryScore(opp.CategoriesWeighted, vol.InterestLevel),
		Availability: availability.Score(opp.AvailabilityRequired, vol.Availability),
		Location:     s.proximity.Score(opp, vol),
	}
	total := s.weights.Skill*b.Skill +
		s.weights.Category*b.Category +
		s.weights.Availability*b.Availability +
		s.weights.Location*b.Location
	b.Total = clamp01(total)
	return b
}

// SkillScore normalizes weight*proficiency points against weight*3 for every
// required skill. An empty requirement set scores 0.
func SkillScore(required map[string]int, have map[string]model.Proficiency) float64 {
	total, maximum := 0, 0
	for skill, weight := range required {
		maximum += weight * model.MaxProficiencyPoints
		total += weight * have[skill].Points()
	}
	if maximum == 0 {
		return 0
	}
	return float64(total) / float64(maximum)
}

// CategoryScore is SkillScore over categories and interest points.
func CategoryScore(required map[string]int, have map[string]model.Interest) float64 {
	total, maximum := 0, 0
	for category, weight := range required {
		maximum += weight * model.MaxInterestPoints
		total += weight * have[category].Points()
	}
	if maximum == 0 {
		return 0
	}
	return float64(total) / float64(maximum)
}

func clamp01(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(0, math.Min(1, x))
}
