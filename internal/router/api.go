package router

import (
	"net/http"

	"github.com/gladeswatch/backend/internal/handler"
	"github.com/gladeswatch/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// registerAPIRoutes registers the /api/v1 group.
//
// Reads are public; anyone can see what is flying over the field.
// Writes (manual poll, backfill, analysis) cost OpenSky quota and
// warehouse time, so they require a Clerk-authenticated caller.
func registerAPIRoutes(r *echo.Echo, h *handler.Handlers, m *middleware.Middlewares) {
	api := r.Group("/api/v1")

	// Monitor configuration.
	api.GET("/monitor", handler.Handle(
		h.Monitor.Handler, h.Monitor.Info, http.StatusOK, &handler.EmptyRequest{},
	))

	// Sightings.
	api.GET("/sightings", handler.Handle(
		h.Sightings.Handler, h.Sightings.ListSightings, http.StatusOK, &handler.ListSightingsRequest{},
	))
	api.GET("/sightings/stats", handler.Handle(
		h.Sightings.Handler, h.Sightings.SightingStats, http.StatusOK, &handler.SightingStatsRequest{},
	))

	// Inferred flight operations.
	api.GET("/operations", handler.Handle(
		h.Operations.Handler, h.Operations.ListOperations, http.StatusOK, &handler.ListOperationsRequest{},
	))

	// Authenticated triggers.
	api.POST("/monitor/poll", handler.Handle(
		h.Monitor.Handler, h.Monitor.PollNow, http.StatusAccepted, &handler.EmptyRequest{},
	), m.Auth.RequireAuth)
	api.POST("/monitor/backfill", handler.Handle(
		h.Monitor.Handler, h.Monitor.Backfill, http.StatusAccepted, &handler.BackfillRequest{},
	), m.Auth.RequireAuth)
	api.POST("/operations/analyze", handler.Handle(
		h.Operations.Handler, h.Operations.Analyze, http.StatusOK, &handler.AnalyzeRequest{},
	), m.Auth.RequireAuth)
}
