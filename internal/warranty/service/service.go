package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"evwarranty_backend/internal/warranty/domain"
	"evwarranty_backend/internal/warranty/repository"
	"evwarranty_backend/internal/warranty/transport"
	"evwarranty_backend/platform/apperr"
	"evwarranty_backend/platform/logger"
)

type Service struct {
	repo *repository.Repository
	log  *logger.Logger
}

func New(repo *repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Evaluate runs the coverage check for a vehicle as of now. The governing
// condition is resolved by model and effective window; the same inputs
// always produce the same verdict.
func (s *Service) Evaluate(ctx context.Context, model string, registeredAt time.Time, mileageKm int) (domain.Verdict, error) {
	conditions, err := s.repo.ListConditionsForModel(ctx, model)
	if err != nil {
		return domain.Verdict{}, err
	}
	now := time.Now()
	cond := domain.ResolveCondition(conditions, model, now)
	vehicle := domain.VehicleSnapshot{
		Model:        model,
		RegisteredAt: registeredAt,
		MileageKm:    mileageKm,
	}
	return domain.Evaluate(vehicle, cond, now), nil
}

func (s *Service) CreatePolicy(ctx context.Context, req transport.CreatePolicyRequest) (transport.PolicyResponse, error) {
	now := time.Now()
	policy := &repository.Policy{
		ID:          uuid.New(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.CreatePolicy(ctx, policy); err != nil {
		return transport.PolicyResponse{}, err
	}
	return toPolicyResponse(policy, nil), nil
}

func (s *Service) GetPolicy(ctx context.Context, id uuid.UUID) (transport.PolicyResponse, error) {
	policy, err := s.repo.GetPolicy(ctx, id)
	if err != nil {
		return transport.PolicyResponse{}, err
	}
	conditions, err := s.repo.ListConditionsForPolicy(ctx, id)
	if err != nil {
		return transport.PolicyResponse{}, err
	}
	return toPolicyResponse(policy, conditions), nil
}

func (s *Service) ListPolicies(ctx context.Context) ([]transport.PolicyResponse, error) {
	policies, err := s.repo.ListPolicies(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]transport.PolicyResponse, 0, len(policies))
	for i := range policies {
		conditions, err := s.repo.ListConditionsForPolicy(ctx, policies[i].ID)
		if err != nil {
			return nil, err
		}
		out = append(out, toPolicyResponse(&policies[i], conditions))
	}
	return out, nil
}

func (s *Service) AddCondition(ctx context.Context, policyID uuid.UUID, req transport.ConditionRequest) (transport.ConditionResponse, error) {
	if _, err := s.repo.GetPolicy(ctx, policyID); err != nil {
		return transport.ConditionResponse{}, err
	}
	if req.EffectiveTo != nil && req.EffectiveTo.Before(req.EffectiveFrom) {
		return transport.ConditionResponse{}, apperr.Validation("effectiveTo must not precede effectiveFrom")
	}
	cond := &domain.Condition{
		ID:            uuid.New(),
		PolicyID:      policyID,
		VehicleModel:  req.VehicleModel,
		CoverageYears: req.CoverageYears,
		CoverageKm:    req.CoverageKm,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		UpdatedAt:     time.Now(),
	}
	if err := s.repo.CreateCondition(ctx, cond); err != nil {
		return transport.ConditionResponse{}, err
	}
	return toConditionResponse(*cond), nil
}

func (s *Service) UpdateCondition(ctx context.Context, conditionID uuid.UUID, req transport.ConditionRequest) (transport.ConditionResponse, error) {
	if req.EffectiveTo != nil && req.EffectiveTo.Before(req.EffectiveFrom) {
		return transport.ConditionResponse{}, apperr.Validation("effectiveTo must not precede effectiveFrom")
	}
	cond := &domain.Condition{
		ID:            conditionID,
		CoverageYears: req.CoverageYears,
		CoverageKm:    req.CoverageKm,
		EffectiveFrom: req.EffectiveFrom,
		EffectiveTo:   req.EffectiveTo,
		UpdatedAt:     time.Now(),
	}
	if err := s.repo.UpdateCondition(ctx, cond); err != nil {
		return transport.ConditionResponse{}, err
	}
	return toConditionResponse(*cond), nil
}

func toPolicyResponse(p *repository.Policy, conditions []domain.Condition) transport.PolicyResponse {
	resp := transport.PolicyResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
	}
	for _, c := range conditions {
		resp.Conditions = append(resp.Conditions, toConditionResponse(c))
	}
	return resp
}

func toConditionResponse(c domain.Condition) transport.ConditionResponse {
	return transport.ConditionResponse{
		ID:            c.ID,
		PolicyID:      c.PolicyID,
		VehicleModel:  c.VehicleModel,
		CoverageYears: c.CoverageYears,
		CoverageKm:    c.CoverageKm,
		EffectiveFrom: c.EffectiveFrom,
		EffectiveTo:   c.EffectiveTo,
	}
}
