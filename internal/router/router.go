// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers.
package router

import (
	"github.com/gladeswatch/backend/internal/handler"
	"github.com/gladeswatch/backend/internal/middleware"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/labstack/echo/v4"
)

// New builds the Echo instance with the full middleware chain and all
// route groups registered.
//
// Middleware order matters:
//  1. RequestID: correlation ID before anything logs
//  2. New Relic: transaction must exist before enrichment
//  3. ContextEnhancer: request-scoped logger (reads request id + txn)
//  4. EnhanceTracing: custom attributes on the transaction
//  5. CORS/Secure/Recover/RequestLogger: standard outer layers
func New(s *server.Server, h *handler.Handlers, m *middleware.Middlewares) *echo.Echo {
	e := echo.New()

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = m.Global.GlobalErrorHandler

	e.Use(middleware.RequestID())
	e.Use(m.Tracing.NewRelicMiddleware())
	e.Use(m.ContextEnhancer.EnhanceContext())
	e.Use(m.Tracing.EnhanceTracing())
	e.Use(m.Global.CORS())
	e.Use(m.Global.Secure())
	e.Use(m.Global.Recover())
	e.Use(m.Global.RequestLogger())

	registerSystemRoutes(e, h)
	registerAPIRoutes(e, h, m)

	return e
}
