// Package http wires domain modules into the HTTP server.
package http

import (
	"context"

	"evwarranty_backend/internal/events"
	"evwarranty_backend/platform/config"
	"evwarranty_backend/platform/logger"
)

// RouterConfig is the slice of application config the router needs.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker backs the readiness endpoint, typically a DB ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App carries the initialized dependencies from the composition root into
// the router. Modules register their own routes.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   HealthChecker
	EventBus events.Bus
	Modules  []Module
}
