// Package leaderboard ranks volunteers by accumulated hours.
package leaderboard

import (
	"sort"
	"sync"
)

// VolunteerHours is one volunteer's accumulated hours.
type VolunteerHours struct {
	VolunteerID string  `json:"volunteer_id"`
	Hours       float64 `json:"hours"`
}

// Entry is a ranked leaderboard row. Rank is 1-based and positional, so tied
// volunteers get consecutive ranks in input order.
type Entry struct {
	Rank        int     `json:"rank"`
	VolunteerID string  `json:"volunteer_id"`
	Hours       float64 `json:"hours"`
}

// ByHours sorts entries by hours, highest first. Ties keep input order.
// The input slice is not modified.
func ByHours(entries []VolunteerHours) []Entry {
	sorted := append([]VolunteerHours(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Hours > sorted[j].Hours
	})

	out := make([]Entry, len(sorted))
	for i, e := range sorted {
		out[i] = Entry{Rank: i + 1, VolunteerID: e.VolunteerID, Hours: e.Hours}
	}
	return out
}

// Top is ByHours truncated to limit rows. limit <= 0 returns every row.
func Top(entries []VolunteerHours, limit int) []Entry {
	ranked := ByHours(entries)
	if limit > 0 && limit < len(ranked) {
		ranked = ranked[:limit]
	}
	return ranked
}

// HoursLedger accumulates hours per volunteer and remembers the order in
// which volunteers first appeared. Safe for concurrent use.
type HoursLedger struct {
	mu    sync.RWMutex
	index map[string]int
	rows  []VolunteerHours
}

// NewHoursLedger returns an empty ledger.
func NewHoursLedger() *HoursLedger {
	return &HoursLedger{index: make(map[string]int)}
}

// Add credits hours to volunteerID and returns the new total.
func (l *HoursLedger) Add(volunteerID string, hours float64) float64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[volunteerID]
	if !ok {
		i = len(l.rows)
		l.index[volunteerID] = i
		l.rows = append(l.rows, VolunteerHours{VolunteerID: volunteerID})
	}
	l.rows[i].Hours += hours
	return l.rows[i].Hours
}

// Total returns the volunteer's accumulated hours, 0 when unknown.
func (l *HoursLedger) Total(volunteerID string) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if i, ok := l.index[volunteerID]; ok {
		return l.rows[i].Hours
	}
	return 0
}

// Len returns the number of volunteers in the ledger.
func (l *HoursLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rows)
}

// Snapshot copies the ledger in first-seen order.
func (l *HoursLedger) Snapshot() []VolunteerHours {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]VolunteerHours(nil), l.rows...)
}
