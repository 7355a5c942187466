// Package workorders provides the work order bounded context: repair work
// booked and completed against claims under repair.
package workorders

import (
	"evwarranty_backend/internal/events"
	apphttp "evwarranty_backend/internal/http"
	"evwarranty_backend/internal/workorders/handler"
	"evwarranty_backend/internal/workorders/repository"
	"evwarranty_backend/internal/workorders/service"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/validator"
)

// Module is the work orders bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the work orders module. The repository
// is built by the composition root because the claims module reads work
// order summaries through it; the claim guard, repair stats and parts
// pricer are cross-context collaborators wired in through adapters.
func NewModule(
	repo *repository.Repository,
	eventBus events.Bus,
	val *validator.Validator,
	log *logger.Logger,
	guard service.ClaimGuard,
	stats service.RepairStats,
	pricer service.PartsPricer,
) *Module {
	svc := service.New(repo, eventBus, log, guard, stats, pricer)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "workorders" }

// RegisterRoutes mounts the work order routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/work-orders"))
}

// Service exposes the work orders service for cross-module adapters.
func (m *Module) Service() *service.Service { return m.service }
