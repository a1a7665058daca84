// Package availability scores how well a volunteer's free time covers the
// time an opportunity requires.
package availability

import "github.com/seraaj/matchcore/internal/domain/model"

// Score returns the fraction of required (day, block) pairs that also appear
// in available. Blocks only count on the same day and only on an exact code
// match. With nothing required the result is 1.0.
func Score(required, available model.Schedule) float64 {
	total := required.Blocks()
	if total == 0 {
		return 1.0
	}

	satisfied := 0
	for day, blocks := range required {
		free := available[day]
		if len(free) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(free))
		for _, b := range free {
			set[b] = struct{}{}
		}
		for _, b := range blocks {
			if _, ok := set[b]; ok {
				satisfied++
			}
		}
	}
	return float64(satisfied) / float64(total)
}
