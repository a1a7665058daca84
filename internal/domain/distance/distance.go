// Package distance computes great-circle distances and the pass/fail
// proximity score used by the matching engine.
package distance

import (
	"math"

	"github.com/seraaj/matchcore/internal/domain/model"
)

// EarthRadiusKM is the mean Earth radius used by Haversine.
const EarthRadiusKM = 6371.0

// DefaultRadiusKM is the default proximity cutoff.
const DefaultRadiusKM = 50.0

// Haversine returns the great-circle distance between a and b in kilometres.
func Haversine(a, b model.Location) float64 {
	const rad = math.Pi / 180
	lat1 := a.Latitude * rad
	lat2 := b.Latitude * rad
	dLat := (b.Latitude - a.Latitude) * rad
	dLon := (b.Longitude - a.Longitude) * rad

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	// Rounding near antipodal points can push h past 1.
	h = math.Min(1, math.Max(0, h))
	return EarthRadiusKM * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// Evaluator scores proximity with a hard cutoff at RadiusKM.
type Evaluator struct {
	RadiusKM float64
}

// NewEvaluator returns an Evaluator for radiusKM. Non-positive radii fall
// back to DefaultRadiusKM.
func NewEvaluator(radiusKM float64) Evaluator {
	if radiusKM <= 0 {
		radiusKM = DefaultRadiusKM
	}
	return Evaluator{RadiusKM: radiusKM}
}

// Score returns 1.0 when the opportunity is remote or the volunteer is
// willing to work remotely. Otherwise a volunteer without a preferred
// location scores 0.0, and anyone else scores 1.0 only within the radius.
func (e Evaluator) Score(opp *model.Opportunity, vol *model.VolunteerProfile) float64 {
	if opp.Location == nil || vol.WillingToRemote {
		return 1.0
	}
	if vol.PreferredLocation == nil {
		return 0.0
	}
	radius := e.RadiusKM
	if radius <= 0 {
		radius = DefaultRadiusKM
	}
	if Haversine(*opp.Location, *vol.PreferredLocation) <= radius {
		return 1.0
	}
	return 0.0
}

// Score evaluates proximity using DefaultRadiusKM.
func Score(opp *model.Opportunity, vol *model.VolunteerProfile) float64 {
	return Evaluator{RadiusKM: DefaultRadiusKM}.Score(opp, vol)
}
