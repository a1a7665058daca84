// Package learning suggests opportunities and resources that help a
// volunteer build the skills they want to develop.
package learning

import (
	"strings"

	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/internal/domain/recommend"
	"github.com/seraaj/matchcore/internal/domain/scoring"
)

// Path is a learning suggestion: ranked opportunities plus matching resources.
type Path struct {
	Opportunities []recommend.Scored[*model.Opportunity]
	Resources     []model.LearningResource
}

// Advisor builds learning paths, ranking opportunities with one scorer.
type Advisor struct {
	ranker *recommend.Service
}

// NewAdvisor returns an Advisor. A nil scorer uses the default weighted scorer.
func NewAdvisor(scorer scoring.Scorer) *Advisor {
	return &Advisor{ranker: recommend.New(scorer)}
}

// Suggest keeps opportunities that exercise at least one desired skill and
// that the volunteer has not completed, ranks them and returns the top limit.
// Resources are kept when their skill is desired, in input order. Skill names
// compare case-insensitively.
func (a *Advisor) Suggest(vol *model.VolunteerProfile, opps []*model.Opportunity, resources []model.LearningResource, limit int) Path {
	desired := make(map[string]struct{}, len(vol.DesiredSkills))
	for _, s := range vol.DesiredSkills {
		desired[normalize(s)] = struct{}{}
	}
	completed := make(map[string]struct{}, len(vol.CompletedOpportunities))
	for _, id := range vol.CompletedOpportunities {
		completed[id] = struct{}{}
	}

	candidates := make([]*model.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if _, done := completed[opp.ID]; done {
			continue
		}
		if teachesAny(opp, desired) {
			candidates = append(candidates, opp)
		}
	}

	matched := make([]model.LearningResource, 0, len(resources))
	for _, r := range resources {
		if _, ok := desired[normalize(r.SkillName)]; ok {
			matched = append(matched, r)
		}
	}

	return Path{
		Opportunities: a.ranker.ForVolunteer(vol, candidates, limit),
		Resources:     matched,
	}
}

func teachesAny(opp *model.Opportunity, desired map[string]struct{}) bool {
	for skill := range opp.SkillsWeighted {
		if _, ok := desired[normalize(skill)]; ok {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
