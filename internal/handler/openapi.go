package handler

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gladeswatch/backend/internal/server"
	"github.com/labstack/echo/v4"
)

// OpenAPIHandler serves the API docs UI: a static HTML page that loads
// the viewer from a CDN and reads the OpenAPI JSON from the static
// folder.
type OpenAPIHandler struct {
	Handler
}

// NewOpenAPIHandler constructs an OpenAPIHandler.
func NewOpenAPIHandler(s *server.Server) *OpenAPIHandler {
	return &OpenAPIHandler{
		Handler: NewHandler(s),
	}
}

// ServeOpenAPIUI reads static/openapi.html and serves it as HTML.
// Cache-Control is no-cache so doc updates appear immediately.
func (h *OpenAPIHandler) ServeOpenAPIUI(c echo.Context) error {
	templateBytes, err := os.ReadFile("static/openapi.html")

	c.Response().Header().Set("Cache-Control", "no-cache")

	if err != nil {
		return fmt.Errorf("failed to read OpenAPI UI template: %w", err)
	}

	templateString := string(templateBytes)

	if err := c.HTML(http.StatusOK, templateString); err != nil {
		return fmt.Errorf("failed to write HTML response: %w", err)
	}

	return nil
}
