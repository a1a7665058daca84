package gamification

import (
	"fmt"
	"sort"

	"github.com/seraaj/matchcore/internal/domain/model"
)

// EndorsedBadge is awarded once a volunteer holds at least one endorsement.
const EndorsedBadge = "Endorsed"

// DefaultHourThresholds are the hour milestones of the stock catalog.
var DefaultHourThresholds = []int{10, 50} //nolint:gochecknoglobals // read-only defaults

// Threshold maps an hour milestone to the badge it unlocks.
type Threshold struct {
	Hours int
	Badge model.Badge
}

// Catalog is the immutable set of badges the engine can award.
type Catalog struct {
	thresholds []Threshold // ascending by Hours
	endorsed   model.Badge
}

// NewCatalog builds a catalog with one "<n> Hours" badge per threshold plus
// the Endorsed badge. Thresholds are sorted ascending.
func NewCatalog(hours []int) (*Catalog, error) {
	sorted := append([]int(nil), hours...)
	sort.Ints(sorted)

	c := &Catalog{
		thresholds: make([]Threshold, 0, len(sorted)),
		endorsed: model.Badge{
			Name:        EndorsedBadge,
			Description: "Received a skill endorsement from an organization",
		},
	}
	for i, h := range sorted {
		if h <= 0 {
			return nil, fmt.Errorf("%w: %d", ErrInvalidThreshold, h)
		}
		if i > 0 && sorted[i-1] == h {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateThreshold, h)
		}
		c.thresholds = append(c.thresholds, Threshold{
			Hours: h,
			Badge: model.Badge{
				Name:        HoursBadgeName(h),
				Description: fmt.Sprintf("Logged at least %d volunteer hours", h),
			},
		})
	}
	return c, nil
}

// DefaultCatalog returns the 10 Hours / 50 Hours / Endorsed catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultHourThresholds)
	if err != nil {
		panic(err)
	}
	return c
}

// HoursBadgeName is the badge name for an hour milestone.
func HoursBadgeName(hours int) string {
	return fmt.Sprintf("%d Hours", hours)
}

// Thresholds returns the hour milestones in ascending order.
func (c *Catalog) Thresholds() []Threshold {
	return append([]Threshold(nil), c.thresholds...)
}

// Endorsed returns the endorsement-triggered badge.
func (c *Catalog) Endorsed() model.Badge { return c.endorsed }

// Badges lists every catalog entry: hour badges ascending, then Endorsed.
func (c *Catalog) Badges() []model.Badge {
	out := make([]model.Badge, 0, len(c.thresholds)+1)
	for _, t := range c.thresholds {
		out = append(out, t.Badge)
	}
	return append(out, c.endorsed)
}

// Badge looks up a catalog entry by name.
func (c *Catalog) Badge(name string) (model.Badge, bool) {
	for _, b := range c.Badges() {
		if b.Name == name {
			return b, true
		}
	}
	return model.Badge{}, false
}
