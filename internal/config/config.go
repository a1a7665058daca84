// Package config defines the engine configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/seraaj/matchcore/internal/domain/distance"
	"github.com/seraaj/matchcore/internal/domain/gamification"
	"github.com/seraaj/matchcore/internal/domain/scoring"
)

// weightSumTolerance absorbs float error when weights are given as decimals.
const weightSumTolerance = 1e-6

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`
	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr is the listen address for /metrics and /healthz, e.g. ":9090".
	Addr string `koanf:"addr" validate:"required"`

	// QueueSize bounds the inbound event queue.
	QueueSize int `koanf:"queue_size" validate:"min=1"`
	// WorkerCount sets the number of event workers.
	WorkerCount int `koanf:"worker_count" validate:"min=1"`
	// DedupeSize bounds remembered event IDs; 0 remembers all.
	DedupeSize int `koanf:"dedupe_size" validate:"min=0"`

	// SeedPath optionally points at a JSON snapshot document loaded on start.
	SeedPath string `koanf:"seed_path" validate:"omitempty,file"`

	// ProximityRadiusKM is the in-person matching cutoff.
	ProximityRadiusKM float64 `koanf:"proximity_radius_km" validate:"gt=0"`

	// Scoring weights; they must sum to 1.
	WeightSkill        float64 `koanf:"weight_skill" validate:"gte=0,lte=1"`
	WeightCategory     float64 `koanf:"weight_category" validate:"gte=0,lte=1"`
	WeightAvailability float64 `koanf:"weight_availability" validate:"gte=0,lte=1"`
	WeightLocation     float64 `koanf:"weight_location" validate:"gte=0,lte=1"`

	// BadgeHourThresholds are the hour milestones that unlock badges.
	BadgeHourThresholds []int `koanf:"badge_hour_thresholds" validate:"dive,gt=0"`

	// DefaultLimit is used when a caller asks for a non-positive limit.
	DefaultLimit int `koanf:"default_limit" validate:"min=1"`
}

// New returns a Config holding the defaults.
func New() *Config {
	w := scoring.DefaultWeights()
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9090",
		QueueSize:           10_000,
		WorkerCount:         runtime.NumCPU(),
		DedupeSize:          100_000,
		ProximityRadiusKM:   distance.DefaultRadiusKM,
		WeightSkill:         w.Skill,
		WeightCategory:      w.Category,
		WeightAvailability:  w.Availability,
		WeightLocation:      w.Location,
		BadgeHourThresholds: append([]int(nil), gamification.DefaultHourThresholds...),
		DefaultLimit:        10,
	}
}

// Weights returns the scoring weights as a scoring.Weights.
func (c *Config) Weights() scoring.Weights {
	return scoring.Weights{
		Skill:        c.WeightSkill,
		Category:     c.WeightCategory,
		Availability: c.WeightAvailability,
		Location:     c.WeightLocation,
	}
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks field constraints and that the weights sum to 1.
func (c *Config) Validate() error {
	if err := getValidator().Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, len(fieldErrs))
			for i, fe := range fieldErrs {
				msgs[i] = fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag())
			}
			return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if sum := c.Weights().Sum(); math.Abs(sum-1) > weightSumTolerance {
		return fmt.Errorf("%w: scoring weights sum to %g, want 1", ErrInvalidConfig, sum)
	}
	return nil
}
