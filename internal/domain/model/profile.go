// Package model contains the value types shared by the matching engine and
// the stores around it.
package model

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Latitude  float64 `json:"latitude" validate:"latitude"`
	Longitude float64 `json:"longitude" validate:"longitude"`
}

// Schedule maps a day code (e.g. "mon") to the time-block codes on that day.
type Schedule map[string][]string

// Blocks returns the total number of time blocks across all days.
func (s Schedule) Blocks() int {
	n := 0
	for _, blocks := range s {
		n += len(blocks)
	}
	return n
}

// Opportunity is a read-only snapshot of a volunteering opportunity.
// A nil Location means the opportunity can be done remotely.
type Opportunity struct {
	ID                   string         `json:"id" validate:"required"`
	OrganizationID       string         `json:"organization_id"`
	Title                string         `json:"title"`
	SkillsWeighted       map[string]int `json:"skills_weighted" validate:"dive,keys,required,endkeys,min=1,max=5"`
	CategoriesWeighted   map[string]int `json:"categories_weighted" validate:"dive,keys,required,endkeys,min=1,max=5"`
	AvailabilityRequired Schedule       `json:"availability_required"`
	Location             *Location      `json:"location,omitempty" validate:"omitempty"`
	Embedding            []float64      `json:"embedding,omitempty"`
}

// VolunteerProfile is a read-only snapshot of a volunteer.
type VolunteerProfile struct {
	ID                     string                 `json:"id" validate:"required"`
	SkillProficiency       map[string]Proficiency `json:"skill_proficiency" validate:"dive,keys,required,endkeys,gt=0"`
	InterestLevel          map[string]Interest    `json:"interest_level" validate:"dive,keys,required,endkeys,gt=0"`
	Availability           Schedule               `json:"availability"`
	PreferredLocation      *Location              `json:"preferred_location,omitempty" validate:"omitempty"`
	WillingToRemote        bool                   `json:"willing_to_remote"`
	DesiredSkills          []string               `json:"desired_skills" validate:"dive,required"`
	CompletedOpportunities []string               `json:"completed_opportunities,omitempty"`
	Embedding              []float64              `json:"embedding,omitempty"`
}

// LearningResource points at external material for a skill.
type LearningResource struct {
	SkillName string `json:"skill_name" validate:"required"`
	URL       string `json:"url" validate:"required,url"`
}
