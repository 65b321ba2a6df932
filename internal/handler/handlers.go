package handler

import (
	"github.com/gladeswatch/backend/internal/server"
	"github.com/gladeswatch/backend/internal/service"
)

// Handlers is a container that groups all HTTP handlers, keeping the
// router setup to a single object.
type Handlers struct {
	Health     *HealthHandler     // liveness/readiness checks
	OpenAPI    *OpenAPIHandler    // API documentation UI
	Sightings  *SightingHandler   // sighting queries and stats
	Operations *OperationHandler  // inferred operations and analysis
	Monitor    *MonitorHandler    // manual poll/backfill triggers
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(s),
		OpenAPI:    NewOpenAPIHandler(s),
		Sightings:  NewSightingHandler(s, services),
		Operations: NewOperationHandler(s, services),
		Monitor:    NewMonitorHandler(s, services),
	}
}
