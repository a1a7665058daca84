package scoring

import (
	"math"

	"github.com/seraaj/matchcore/internal/domain/model"
)

// CosineScorer rates pairs by cosine similarity of externally produced
// embeddings. Pairs missing an embedding, with mismatched dimensions or with
// a zero vector score 0; negative similarity is clamped to 0.
type CosineScorer struct{}

var _ Scorer = CosineScorer{}

// Score implements Scorer.
func (CosineScorer) Score(opp *model.Opportunity, vol *model.VolunteerProfile) float64 {
	return Cosine(opp.Embedding, vol.Embedding)
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return clamp01(dot / (math.Sqrt(na) * math.Sqrt(nb)))
}
