// Package claims provides the warranty claim lifecycle bounded context.
// This file defines the module that encapsulates claims setup and route
// registration.
package claims

import (
	"evwarranty_backend/internal/adapters/storage"
	"evwarranty_backend/internal/claims/handler"
	"evwarranty_backend/internal/claims/repository"
	"evwarranty_backend/internal/claims/service"
	"evwarranty_backend/internal/events"
	apphttp "evwarranty_backend/internal/http"
	"evwarranty_backend/platform/config"
	"evwarranty_backend/platform/logger"
	"evwarranty_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the claims bounded context module implementing http.Module.
type Module struct {
	handler     *handler.Handler
	attachments *handler.AttachmentsHandler
	service     *service.Service
	repo        *repository.Repository
}

// NewModule creates and initializes the claims module. The warranty checker,
// assignment coordinator, and work-order reader are cross-context
// collaborators wired in by the composition root through adapters.
// storageSvc may be nil, which disables attachment routes.
func NewModule(
	pool *pgxpool.Pool,
	eventBus events.Bus,
	val *validator.Validator,
	cfg *config.Config,
	log *logger.Logger,
	warranty service.WarrantyChecker,
	coordinator service.AssignmentCoordinator,
	workOrders service.WorkOrderReader,
	storageSvc storage.Service,
) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log, cfg, warranty, coordinator, workOrders)

	var attachments *handler.AttachmentsHandler
	if storageSvc != nil {
		attachments = handler.NewAttachmentsHandler(repo, storageSvc, cfg.GetMinioBucketClaimAttachments(), val)
	}

	return &Module{
		handler:     handler.New(svc, val),
		attachments: attachments,
		service:     svc,
		repo:        repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "claims" }

// RegisterRoutes mounts the claims routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected.Group("/claims"))
	m.handler.RegisterVehicleRoutes(ctx.Protected.Group("/vehicles"))
	m.handler.RegisterPublicRoutes(ctx.Public)
	if m.attachments != nil {
		m.attachments.RegisterRoutes(ctx.Protected.Group("/claims/:id/attachments"))
	}
}

// Service exposes the claims service for cross-module adapters.
func (m *Module) Service() *service.Service { return m.service }

// Repository exposes the claims repository for cross-module adapters.
func (m *Module) Repository() *repository.Repository { return m.repo }
