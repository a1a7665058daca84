package model

import "strings"

// Proficiency is a volunteer's self-declared level in a skill.
type Proficiency uint8

// Proficiency levels. ProficiencyUnknown covers absent or unrecognized input.
const (
	ProficiencyUnknown Proficiency = iota
	Beginner
	Intermediate
	Expert
)

// MaxProficiencyPoints is the multiplier used for a perfect skill match.
const MaxProficiencyPoints = 3

var proficiencyNames = map[Proficiency]string{
	Beginner:     "beginner",
	Intermediate: "intermediate",
	Expert:       "expert",
}

// ParseProficiency maps a level name to a Proficiency, ignoring case and
// surrounding space. Unrecognized names yield ProficiencyUnknown.
func ParseProficiency(s string) Proficiency {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "beginner":
		return Beginner
	case "intermediate":
		return Intermediate
	case "expert":
		return Expert
	default:
		return ProficiencyUnknown
	}
}

// Points returns the scoring multiplier: beginner=1, intermediate=2, expert=3.
// Unknown levels contribute nothing.
func (p Proficiency) Points() int {
	switch p {
	case Beginner:
		return 1
	case Intermediate:
		return 2
	case Expert:
		return 3
	default:
		return 0
	}
}

func (p Proficiency) String() string {
	if name, ok := proficiencyNames[p]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (p Proficiency) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. It never fails; unknown
// names decode to ProficiencyUnknown and are caught by ingestion validation.
func (p *Proficiency) UnmarshalText(text []byte) error {
	*p = ParseProficiency(string(text))
	return nil
}

// Interest is a volunteer's interest level in an opportunity category.
type Interest uint8

// Interest levels. InterestUnknown covers absent or unrecognized input.
const (
	InterestUnknown Interest = iota
	Low
	Medium
	High
)

// MaxInterestPoints is the multiplier used for a perfect category match.
const MaxInterestPoints = 3

var interestNames = map[Interest]string{
	Low:    "low",
	Medium: "medium",
	High:   "high",
}

// ParseInterest maps a level name to an Interest, ignoring case.
func ParseInterest(s string) Interest {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low
	case "medium":
		return Medium
	case "high":
		return High
	default:
		return InterestUnknown
	}
}

// Points returns low=1, medium=2, high=3 and 0 for unknown levels.
func (i Interest) Points() int {
	switch i {
	case Low:
		return 1
	case Medium:
		return 2
	case High:
		return 3
	default:
		return 0
	}
}

func (i Interest) String() string {
	if name, ok := interestNames[i]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (i Interest) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (i *Interest) UnmarshalText(text []byte) error {
	*i = ParseInterest(string(text))
	return nil
}
