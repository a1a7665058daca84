// Package analytics aggregates completion records into organization and
// platform summaries.
package analytics

import (
	"sync"
	"time"

	"github.com/seraaj/matchcore/internal/domain/model"
)

// Record is one completion with the time it was logged.
type Record struct {
	model.Completion
	At time.Time `json:"at"`
}

// OrganizationReport summarizes one organization's completions.
type OrganizationReport struct {
	OrganizationID         string  `json:"organization_id"`
	TotalHours             float64 `json:"total_hours"`
	OpportunitiesCompleted int     `json:"opportunities_completed"`
	UniqueVolunteers       int     `json:"unique_volunteers"`
}

// PlatformOverview counts the distinct participants seen in completions.
type PlatformOverview struct {
	TotalVolunteers    int `json:"total_volunteers"`
	TotalOrganizations int `json:"total_organizations"`
	TotalOpportunities int `json:"total_opportunities"`
}

// ReportForOrganization totals hours and counts distinct opportunities and
// volunteers across the organization's records.
func ReportForOrganization(orgID string, records []Record) OrganizationReport {
	rep := OrganizationReport{OrganizationID: orgID}
	opps := map[string]struct{}{}
	vols := map[string]struct{}{}
	for _, r := range records {
		if r.OrganizationID != orgID {
			continue
		}
		rep.TotalHours += r.Hours
		opps[r.OpportunityID] = struct{}{}
		vols[r.VolunteerID] = struct{}{}
	}
	rep.OpportunitiesCompleted = len(opps)
	rep.UniqueVolunteers = len(vols)
	return rep
}

// Overview counts distinct volunteers, organizations and opportunities.
func Overview(records []Record) PlatformOverview {
	vols := map[string]struct{}{}
	orgs := map[string]struct{}{}
	opps := map[string]struct{}{}
	for _, r := range records {
		vols[r.VolunteerID] = struct{}{}
		orgs[r.OrganizationID] = struct{}{}
		opps[r.OpportunityID] = struct{}{}
	}
	return PlatformOverview{
		TotalVolunteers:    len(vols),
		TotalOrganizations: len(orgs),
		TotalOpportunities: len(opps),
	}
}

// VolunteerHours sums the hours logged by one volunteer. This is the figure
// printed on a volunteering certificate.
func VolunteerHours(volunteerID string, records []Record) float64 {
	var total float64
	for _, r := range records {
		if r.VolunteerID == volunteerID {
			total += r.Hours
		}
	}
	return total
}

// Log is an append-only, concurrency-safe completion log.
type Log struct {
	mu      sync.RWMutex
	records []Record
}

// NewLog returns an empty log.
func NewLog() *Log { return &Log{} }

// Append adds a completion logged at at.
func (l *Log) Append(c model.Completion, at time.Time) {
	l.mu.Lock()
	l.records = append(l.records, Record{Completion: c, At: at})
	l.mu.Unlock()
}

// Records copies the log in append order.
func (l *Log) Records() []Record {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]Record(nil), l.records...)
}

// Len returns the number of records.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.records)
}
