// Package warranty provides the warranty policy bounded context: coverage
// conditions per vehicle model and the eligibility evaluator.
package warranty

import (
	"context"

	"evwarranty_backend/internal/warranty/handler"
	"evwarranty_backend/internal/warranty/repository"
	"evwarranty_backend/internal/warranty/service"
	apphttp "evwarranty_backend/internal/http"
	"evwarranty_backend/platform/config"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the warranty bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates the warranty module, seeding policies from the
// configured YAML file when the table is empty.
func NewModule(ctx context.Context, pool *pgxpool.Pool, val *validator.Validator, cfg config.WarrantySeedConfig, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	if err := svc.SeedFromFile(ctx, cfg.GetPolicySeedFile()); err != nil {
		return nil, err
	}
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string { return "warranty" }

// RegisterRoutes mounts the warranty routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/warranty"))
}

// Service exposes the warranty service for cross-module adapters.
func (m *Module) Service() *service.Service { return m.service }
