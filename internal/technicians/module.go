// Package technicians provides the technician roster bounded context:
// profiles, workload bookkeeping, and the assignment pick for repairs.
package technicians

import (
	apphttp "evwarranty_backend/internal/http"
	"evwarranty_backend/internal/technicians/handler"
	"evwarranty_backend/internal/technicians/repository"
	"evwarranty_backend/internal/technicians/service"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the technicians bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the technicians module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "technicians" }

// RegisterRoutes mounts the technician roster routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/technicians"))
}

// Service exposes the technicians service for cross-module adapters.
func (m *Module) Service() *service.Service { return m.service }
