package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"evwarranty_backend/internal/warranty/domain"
	"evwarranty_backend/internal/warranty/repository"
)

// seedFile is the YAML shape of the warranty policy seed.
type seedFile struct {
	Policies []seedPolicy `yaml:"policies"`
}

type seedPolicy struct {
	Name        string          `yaml:"name"`
	Description string          `yaml:"description"`
	Conditions  []seedCondition `yaml:"conditions"`
}

type seedCondition struct {
	VehicleModel  string     `yaml:"vehicleModel"`
	CoverageYears int        `yaml:"coverageYears"`
	CoverageKm    int        `yaml:"coverageKm"`
	EffectiveFrom time.Time  `yaml:"effectiveFrom"`
	EffectiveTo   *time.Time `yaml:"effectiveTo"`
}

// SeedFromFile loads the policy seed and inserts it when the policy table is
// still empty. A non-empty table means operators manage policies through the
// API and the seed is skipped.
func (s *Service) SeedFromFile(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	count, err := s.repo.CountPolicies(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("warranty policies already present, skipping seed", "count", count)
		return nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read warranty seed file: %w", err)
	}
	var seed seedFile
	if err := yaml.Unmarshal(raw, &seed); err != nil {
		return fmt.Errorf("failed to parse warranty seed file: %w", err)
	}

	now := time.Now()
	for _, sp := range seed.Policies {
		policy := &repository.Policy{
			ID:        uuid.New(),
			Name:      sp.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if sp.Description != "" {
			desc := sp.Description
			policy.Description = &desc
		}
		if err := s.repo.CreatePolicy(ctx, policy); err != nil {
			return err
		}
		for _, sc := range sp.Conditions {
			cond := &domain.Condition{
				ID:            uuid.New(),
				PolicyID:      policy.ID,
				VehicleModel:  sc.VehicleModel,
				CoverageYears: sc.CoverageYears,
				CoverageKm:    sc.CoverageKm,
				EffectiveFrom: sc.EffectiveFrom,
				EffectiveTo:   sc.EffectiveTo,
				UpdatedAt:     now,
			}
			if err := s.repo.CreateCondition(ctx, cond); err != nil {
				return err
			}
		}
	}
	s.log.Info("warranty policies seeded", "policies", len(seed.Policies), "file", path)
	return nil
}
