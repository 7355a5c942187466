// Package service implements technician capacity management and the
// assignment pick used when a claim enters repair.
package service

import (
	"context"
	"time"

	"evwarranty_backend/internal/technicians/domain"
	"evwarranty_backend/internal/technicians/repository"
	"evwarranty_backend/internal/technicians/transport"
	"evwarranty_backend/platform/apperr"
	"evwarranty_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// Pick identifies the technician chosen for an assignment.
type Pick struct {
	ID   uuid.UUID
	Name string
}

// Service coordinates technician profiles and workload bookkeeping.
type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

// New creates a technicians service.
func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Acquire reserves one workload slot on a technician and returns the pick.
// When preferred is set that technician must be active with free capacity;
// otherwise the least-loaded active technician matching the specialty and
// certification floor wins, with average repair hours as the tie-breaker.
// The pick and the workload increment happen under row locks so two
// concurrent assignments cannot share the last free slot.
func (s *Service) Acquire(ctx context.Context, preferred *uuid.UUID, specialty string, minLevel int) (Pick, error) {
	var pick Pick
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		now := time.Now()

		if preferred != nil {
			tech, err := s.repo.GetForUpdate(ctx, tx, *preferred)
			if err != nil {
				return err
			}
			if !tech.Active {
				return apperr.Validation("requested technician is not active")
			}
			if !tech.CanTakeWork() {
				return apperr.CapacityUnavailable("requested technician has no free capacity")
			}
			if err := s.repo.IncrementWorkload(ctx, tx, tech.ID, now, nextFreeEstimate(tech, now)); err != nil {
				return err
			}
			pick = Pick{ID: tech.ID, Name: tech.Name}
			return nil
		}

		candidates, err := s.repo.ListForAssignment(ctx, tx, specialty, minLevel)
		if err != nil {
			return err
		}
		best := domain.SelectBest(candidates, specialty, minLevel)
		if best == nil {
			return apperr.CapacityUnavailable("no matching technician has free capacity")
		}
		if err := s.repo.IncrementWorkload(ctx, tx, best.ID, now, nextFreeEstimate(best, now)); err != nil {
			return err
		}
		pick = Pick{ID: best.ID, Name: best.Name}
		return nil
	})
	if err != nil {
		return Pick{}, err
	}

	s.log.Info("technician acquired", "technician_id", pick.ID, "name", pick.Name)
	return pick, nil
}

// nextFreeEstimate projects when the technician's next slot opens if the
// pending increment fills their last one. Nil when capacity remains or no
// completion history exists to estimate from.
func nextFreeEstimate(t *domain.Technician, now time.Time) *time.Time {
	if t.CurrentWorkload+1 < t.MaxWorkload || t.AvgRepairHours <= 0 {
		return nil
	}
	freeAt := now.Add(time.Duration(t.AvgRepairHours * float64(time.Hour)))
	return &freeAt
}

// CanAssignWork reports whether work starting at startTime could be assigned
// to the technician: active with free capacity, or at capacity with a slot
// expected to free by startTime.
func (s *Service) CanAssignWork(ctx context.Context, id uuid.UUID, startTime time.Time) (bool, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	return tech.CanAssignWork(startTime), nil
}

// Release frees one workload slot after a repair ends or an assignment is
// rolled back.
func (s *Service) Release(ctx context.Context, technicianID uuid.UUID) error {
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		return s.repo.DecrementWorkload(ctx, tx, technicianID, time.Now())
	})
	if err != nil {
		return err
	}
	s.log.Info("technician released", "technician_id", technicianID)
	return nil
}

// RecordCompletedRepair folds the finished repair's labor hours into the
// technician's completion statistics.
func (s *Service) RecordCompletedRepair(ctx context.Context, technicianID uuid.UUID, laborHours float64) error {
	if laborHours <= 0 {
		return nil
	}
	return s.repo.InTx(ctx, func(tx pgx.Tx) error {
		tech, err := s.repo.GetForUpdate(ctx, tx, technicianID)
		if err != nil {
			return err
		}
		tech.RecordCompletion(laborHours)
		return s.repo.UpdateStats(ctx, tx, tech.ID, tech.AvgRepairHours, tech.CompletedCount, time.Now())
	})
}

// CreateTechnician registers a new active profile with an empty workload.
func (s *Service) CreateTechnician(ctx context.Context, req transport.CreateTechnicianRequest) (transport.TechnicianResponse, error) {
	tech := domain.Technician{
		ID:                 uuid.New(),
		Name:               req.Name,
		Specialty:          req.Specialty,
		CertificationLevel: req.CertificationLevel,
		Active:             true,
		MaxWorkload:        req.MaxWorkload,
		UpdatedAt:          time.Now(),
	}
	if err := s.repo.Create(ctx, &tech); err != nil {
		return transport.TechnicianResponse{}, err
	}

	s.log.Info("technician created", "technician_id", tech.ID, "name", tech.Name)
	return toTechnicianResponse(tech), nil
}

// UpdateTechnician changes mutable profile fields. Shrinking max workload
// below the current workload is rejected so availability stays consistent.
func (s *Service) UpdateTechnician(ctx context.Context, id uuid.UUID, req transport.UpdateTechnicianRequest) (transport.TechnicianResponse, error) {
	var updated domain.Technician
	err := s.repo.InTx(ctx, func(tx pgx.Tx) error {
		tech, err := s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}
		if req.Name != nil {
			tech.Name = *req.Name
		}
		if req.Specialty != nil {
			tech.Specialty = *req.Specialty
		}
		if req.CertificationLevel != nil {
			tech.CertificationLevel = *req.CertificationLevel
		}
		if req.Active != nil {
			tech.Active = *req.Active
		}
		if req.MaxWorkload != nil {
			if *req.MaxWorkload < tech.CurrentWorkload {
				return apperr.Validation("max workload cannot drop below the current workload")
			}
			tech.MaxWorkload = *req.MaxWorkload
		}
		tech.UpdatedAt = time.Now()
		if err := s.repo.UpdateProfile(ctx, tx, tech); err != nil {
			return err
		}
		updated = *tech
		return nil
	})
	if err != nil {
		return transport.TechnicianResponse{}, err
	}
	return toTechnicianResponse(updated), nil
}

// GetTechnician fetches one profile.
func (s *Service) GetTechnician(ctx context.Context, id uuid.UUID) (transport.TechnicianResponse, error) {
	tech, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.TechnicianResponse{}, err
	}
	return toTechnicianResponse(*tech), nil
}

// ListTechnicians returns all profiles with derived availability.
func (s *Service) ListTechnicians(ctx context.Context) ([]transport.TechnicianResponse, error) {
	techs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.TechnicianResponse, 0, len(techs))
	for _, t := range techs {
		out = append(out, toTechnicianResponse(t))
	}
	return out, nil
}

func toTechnicianResponse(t domain.Technician) transport.TechnicianResponse {
	return transport.TechnicianResponse{
		ID:                 t.ID,
		Name:               t.Name,
		Specialty:          t.Specialty,
		CertificationLevel: t.CertificationLevel,
		Active:             t.Active,
		MaxWorkload:        t.MaxWorkload,
		CurrentWorkload:    t.CurrentWorkload,
		AvgRepairHours:     t.AvgRepairHours,
		CompletedCount:     t.CompletedCount,
		AvailableFrom:      t.AvailableFrom,
		Status:             string(t.DeriveStatus()),
		UpdatedAt:          t.UpdatedAt,
	}
}
