package model

import "time"

// Badge is an immutable catalog entry.
type Badge struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// VolunteerBadge records that a volunteer earned a badge. At most one exists
// per (VolunteerID, BadgeName).
type VolunteerBadge struct {
	ID          string    `json:"id"`
	VolunteerID string    `json:"volunteer_id"`
	BadgeName   string    `json:"badge_name"`
	AwardedAt   time.Time `json:"awarded_at"`
}

// SkillEndorsement is an organization's attestation of a volunteer's skill,
// tied to the opportunity where it was observed. Never mutated once stored.
type SkillEndorsement struct {
	ID             string    `json:"id"`
	VolunteerID    string    `json:"volunteer_id"`
	OrganizationID string    `json:"organization_id"`
	OpportunityID  string    `json:"opportunity_id"`
	SkillName      string    `json:"skill_name"`
	Strength       int       `json:"strength"`
	EndorsedAt     time.Time `json:"endorsed_at"`
}

// MatchFeedback is a post-match rating. Rating is meant to be 1-5 but is not
// range checked.
type MatchFeedback struct {
	ID         string    `json:"id"`
	MatchID    string    `json:"match_id"`
	Rating     int       `json:"rating"`
	Comment    string    `json:"comment"`
	RecordedAt time.Time `json:"recorded_at"`
}
