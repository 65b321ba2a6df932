package handler

import (
	"time"

	"github.com/gladeswatch/backend/internal/errs"
	"github.com/gladeswatch/backend/internal/model"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/gladeswatch/backend/internal/service"
	"github.com/labstack/echo/v4"
)

// OperationHandler serves inferred flight operations and the analysis
// trigger.
type OperationHandler struct {
	Handler
	services *service.Services
}

// NewOperationHandler constructs an OperationHandler.
func NewOperationHandler(s *server.Server, services *service.Services) *OperationHandler {
	return &OperationHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// ListOperationsRequest filters the operation list via query params.
type ListOperationsRequest struct {
	From   string `query:"from" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	To     string `query:"to" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Type   string `query:"type" validate:"omitempty,oneof=LANDING TAKEOFF"`
	ICAO24 string `query:"icao24" validate:"omitempty,hexadecimal,len=6"`
	Limit  int    `query:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int    `query:"offset" validate:"omitempty,min=0"`
}

func (r *ListOperationsRequest) Validate() error {
	return validate.Struct(r)
}

// ListOperationsResponse wraps the operation list.
type ListOperationsResponse struct {
	Operations []model.FlightOperation `json:"operations"`
	Count      int                     `json:"count"`
}

// ListOperations returns inferred landings and takeoffs, most recent
// first.
func (h *OperationHandler) ListOperations(c echo.Context, req *ListOperationsRequest) (*ListOperationsResponse, error) {
	filter := model.OperationFilter{
		From:   parseTimePtr(req.From),
		To:     parseTimePtr(req.To),
		Type:   model.OperationType(req.Type),
		ICAO24: req.ICAO24,
		Limit:  req.Limit,
		Offset: req.Offset,
	}

	operations, err := h.services.Operations.List(c.Request().Context(), filter)
	if err != nil {
		return nil, err
	}

	return &ListOperationsResponse{
		Operations: operations,
		Count:      len(operations),
	}, nil
}

// AnalyzeRequest is the body of the analysis trigger.
type AnalyzeRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `json:"to" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r *AnalyzeRequest) Validate() error {
	return validate.Struct(r)
}

// Analyze runs track-termination analysis over the requested window
// and returns the report. Runs synchronously: the analysis is a
// single pass over stored sightings and finishes in seconds even for
// month-long windows.
func (h *OperationHandler) Analyze(c echo.Context, req *AnalyzeRequest) (*model.AnalysisReport, error) {
	from, _ := time.Parse(rfc3339, req.From)
	to, _ := time.Parse(rfc3339, req.To)

	if !from.Before(to) {
		return nil, errs.NewBadRequestError("Analysis window start must be before its end", true, nil, []errs.FieldError{
			{Field: "from", Error: "must be before to"},
		}, nil)
	}

	return h.services.Analysis.Analyze(c.Request().Context(), from, to)
}
