package handler

import (
	"time"

	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/gladeswatch/backend/internal/service"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validate is shared by the request types in this package.
var validate = validator.New()

// rfc3339 is the timestamp layout accepted by query and body params.
const rfc3339 = "2006-01-02T15:04:05Z07:00"

// parseTimePtr converts an already-validated RFC3339 string into a
// *time.Time, nil when empty.
func parseTimePtr(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(rfc3339, s)
	if err != nil {
		return nil
	}
	return &t
}

// SightingHandler serves the read side of the sightings API.
type SightingHandler struct {
	Handler
	services *service.Services
}

// NewSightingHandler constructs a SightingHandler.
func NewSightingHandler(s *server.Server, services *service.Services) *SightingHandler {
	return &SightingHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// ListSightingsRequest filters the sighting list via query params.
type ListSightingsRequest struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	ICAO24 string `query:"icao24" validate:"omitempty,hexadecimal,len=6"`
	Status string `query:"status" validate:"omitempty,oneof=ON_GROUND VERY_LOW LOW_ALTITUDE CRUISING"`
	Source string `query:"source" validate:"omitempty,oneof=live archive"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

func (r *ListSightingsRequest) Validate() error {
	return validate.Struct(r)
}

// ListSightingsResponse wraps the sighting list.
type ListSightingsResponse struct {
	Sightings []model.Sighting `json:"sightings"`
	Count     int              `json:"count"`
}

// ListSightings returns sightings matching the query filter, newest
// first.
func (h *SightingHandler) ListSightings(c echo.Context, req *ListSightingsRequest) (*ListSightingsResponse, error) {
	filter := model.SightingFilter{
		From:   parseTimePtr(req.From),
		To:     parseTimePtr(req.To),
		ICAO24: req.ICAO24,
		Status: model.ActivityStatus(req.Status),
		Source: model.SightingSource(req.Source),
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	sightings, err := h.services.Sightings.List(c.Request().Context(), filter)
	if err != nil {
		return nil, err
	}

	return &ListSightingsResponse{
		Sightings: sightings,
		Count:     len(sightings),
	}, nil
}

// SightingStatsRequest bounds the stats window via query params.
type SightingStatsRequest struct {
	From string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r *SightingStatsRequest) Validate() error {
	return validate.Struct(r)
}

// SightingStatsResponse is the per-status breakdown.
type SightingStatsResponse struct {
	Airport string              `json:"airport"`
	Counts  []model.StatusCount `json:"counts"`
	Total   int64               `json:"total"`
}

// SightingStats returns how many sightings fall into each activity
// status inside the window.
func (h *SightingHandler) SightingStats(c echo.Context, req *SightingStatsRequest) (*SightingStatsResponse, error) {
	counts, err := h.services.Sightings.Stats(c.Request().Context(), parseTimePtr(req.From), parseTimePtr(req.To))
	if err != nil {
		return nil, err
	}

	var total int64
	for _, count := range counts {
		total += count.Count
	}

	return &SightingStatsResponse{
		Airport: h.server.Config.Monitor.AirportCode,
		Counts:  counts,
		Total:   total,
	}, nil
}
