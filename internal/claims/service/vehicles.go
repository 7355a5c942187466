package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/transport"
)

// RegisterVehicle adds a vehicle to the registry.
func (s *Service) RegisterVehicle(ctx context.Context, req transport.RegisterVehicleRequest) (transport.VehicleResponse, error) {
	now := time.Now()
	vehicle := &repository.Vehicle{
		ID:           uuid.New(),
		VIN:          req.VIN,
		Model:        req.Model,
		RegisteredAt: req.RegisteredAt,
		MileageKm:    req.MileageKm,
		UpdatedAt:    now,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		return transport.VehicleResponse{}, err
	}
	return toVehicleResponse(vehicle), nil
}

// GetVehicle fetches one vehicle by id.
func (s *Service) GetVehicle(ctx context.Context, id uuid.UUID) (transport.VehicleResponse, error) {
	vehicle, err := s.repo.GetVehicle(ctx, id)
	if err != nil {
		return transport.VehicleResponse{}, err
	}
	return toVehicleResponse(vehicle), nil
}

// UpdateVehicleMileage records a new odometer reading.
func (s *Service) UpdateVehicleMileage(ctx context.Context, id uuid.UUID, req transport.UpdateMileageRequest) (transport.VehicleResponse, error) {
	if err := s.repo.UpdateVehicleMileage(ctx, id, req.MileageKm); err != nil {
		return transport.VehicleResponse{}, err
	}
	return s.GetVehicle(ctx, id)
}

func toVehicleResponse(v *repository.Vehicle) transport.VehicleResponse {
	return transport.VehicleResponse{
		ID:           v.ID,
		VIN:          v.VIN,
		Model:        v.Model,
		RegisteredAt: v.RegisteredAt,
		MileageKm:    v.MileageKm,
	}
}
