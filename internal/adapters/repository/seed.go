package repository

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-json"

	"github.com/seraaj/matchcore/internal/domain/model"
	"github.com/seraaj/matchcore/pkg/logger"
)

// Seed is the JSON snapshot document loaded at startup.
type Seed struct {
	Opportunities []*model.Opportunity      `json:"opportunities"`
	Volunteers    []*model.VolunteerProfile `json:"volunteers"`
	Resources     []model.LearningResource  `json:"resources"`
}

// Load decodes a Seed from r and stores every entry. Loading stops at the
// first invalid snapshot; entries stored before it are kept.
func (s *MemoryStore) Load(ctx context.Context, r io.Reader) error {
	var seed Seed
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&seed); err != nil {
		return fmt.Errorf("decode seed: %w: %w", ErrInvalidSnapshot, err)
	}

	for _, opp := range seed.Opportunities {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.PutOpportunity(ctx, opp); err != nil {
			return err
		}
	}
	for _, vol := range seed.Volunteers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.PutVolunteer(ctx, vol); err != nil {
			return err
		}
	}
	for _, res := range seed.Resources {
		if err := s.AddResource(ctx, res); err != nil {
			return err
		}
	}

	s.logger.Info(ctx, "seed loaded",
		logger.Int("opportunities", len(seed.Opportunities)),
		logger.Int("volunteers", len(seed.Volunteers)),
		logger.Int("resources", len(seed.Resources)),
	)
	return nil
}

// LoadFile opens path and calls Load.
func (s *MemoryStore) LoadFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open seed: %w", err)
	}
	defer f.Close()
	return s.Load(ctx, f)
}
