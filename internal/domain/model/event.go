package model

import "time"

// EventKind discriminates inbound events.
type EventKind string

// Supported inbound event kinds.
const (
	KindCompletion  EventKind = "completion"
	KindEndorsement EventKind = "endorsement"
	KindFeedback    EventKind = "feedback"
)

// Completion reports hours a volunteer worked on an opportunity.
type Completion struct {
	VolunteerID    string  `json:"volunteer_id"`
	OrganizationID string  `json:"organization_id"`
	OpportunityID  string  `json:"opportunity_id"`
	Hours          float64 `json:"hours"`
}

// Event is the envelope for everything the engine ingests from outside:
// completions, endorsements and feedback. Exactly one payload matches Kind.
type Event struct {
	ID          string            // unique id for idempotency
	Kind        EventKind         // selects the payload
	Completion  *Completion       // set when Kind == KindCompletion
	Endorsement *SkillEndorsement // set when Kind == KindEndorsement
	Feedback    *MatchFeedback    // set when Kind == KindFeedback
	ReceivedAt  time.Time
}

// VolunteerID returns the volunteer the event concerns, if any.
func (e Event) VolunteerID() string {
	switch {
	case e.Completion != nil:
		return e.Completion.VolunteerID
	case e.Endorsement != nil:
		return e.Endorsement.VolunteerID
	default:
		return ""
	}
}
