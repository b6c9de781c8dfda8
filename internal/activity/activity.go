package activity

import (
	"log/slog"

	"mergington/internal/activity/handler"
	"mergington/internal/activity/service"
	"mergington/internal/platform/metrics"
)

// Service exposes activity registry orchestration.
type Service = service.Service

// Handler wires HTTP endpoints to the registry service.
type Handler = handler.Handler

// NewService constructs the registry service with required dependencies.
func NewService(store service.RegistryStore, opts ...service.Option) *Service {
	return service.New(store, opts...)
}

// NewHandler constructs an HTTP handler for the registry routes.
func NewHandler(s *Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return handler.New(s, logger, m)
}
