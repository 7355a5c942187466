// Package catalog provides the parts catalog bounded context: spare part
// pricing referenced by repair work orders.
package catalog

import (
	"evwarranty_backend/internal/catalog/handler"
	"evwarranty_backend/internal/catalog/repository"
	"evwarranty_backend/internal/catalog/service"
	apphttp "evwarranty_backend/internal/http"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "catalog" }

// RegisterRoutes mounts the catalog routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/catalog"))
}

// Service exposes the catalog service for cross-module adapters.
func (m *Module) Service() *service.Service { return m.service }
