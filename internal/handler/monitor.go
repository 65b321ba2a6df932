package handler

import (
	"time"

	"github.com/gladeswatch/backend/internal/errs"
	"github.com/gladeswatch/backend/internal/geo"
	"github.com/gladeswatch/backend/internal/lib/job"
	"github.com/gladeswatch/backend/internal/server"
	"github.com/gladeswatch/backend/internal/service"
	"github.com/labstack/echo/v4"
)

// MonitorHandler exposes the watched-airport config and the manual
// poll/backfill triggers.
type MonitorHandler struct {
	Handler
	services *service.Services
}

// NewMonitorHandler constructs a MonitorHandler.
func NewMonitorHandler(s *server.Server, services *service.Services) *MonitorHandler {
	return &MonitorHandler{
		Handler:  NewHandler(s),
		services: services,
	}
}

// EmptyRequest is the payload type for endpoints with no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error {
	return nil
}

// MonitorInfoResponse describes the watched airport and polling
// setup.
type MonitorInfoResponse struct {
	AirportName  string          `json:"airport_name"`
	AirportCode  string          `json:"airport_code"`
	Latitude     float64         `json:"latitude"`
	Longitude    float64         `json:"longitude"`
	RadiusKM     float64         `json:"radius_km"`
	PollInterval string          `json:"poll_interval"`
	BoundingBox  geo.BoundingBox `json:"bounding_box"`
}

// Info returns the monitor configuration.
func (h *MonitorHandler) Info(c echo.Context, req *EmptyRequest) (*MonitorInfoResponse, error) {
	cfg := h.server.Config.Monitor

	return &MonitorInfoResponse{
		AirportName:  cfg.AirportName,
		AirportCode:  cfg.AirportCode,
		Latitude:     cfg.Latitude,
		Longitude:    cfg.Longitude,
		RadiusKM:     cfg.RadiusKM,
		PollInterval: cfg.PollInterval.String(),
		BoundingBox:  h.services.Monitor.Box(),
	}, nil
}

// EnqueueResponse acknowledges a queued background task.
type EnqueueResponse struct {
	TaskID string `json:"task_id"`
	Queue  string `json:"queue"`
	State  string `json:"state"`
}

// PollNow queues an immediate poll of the monitored area, outside the
// regular schedule.
func (h *MonitorHandler) PollNow(c echo.Context, req *EmptyRequest) (*EnqueueResponse, error) {
	task, err := job.NewPollTask()
	if err != nil {
		return nil, err
	}

	info, err := h.services.Job.Client.Enqueue(task)
	if err != nil {
		return nil, err
	}

	return &EnqueueResponse{
		TaskID: info.ID,
		Queue:  info.Queue,
		State:  info.State.String(),
	}, nil
}

// BackfillRequest is the body of the backfill trigger.
type BackfillRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	To   string `json:"to" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
}

func (r *BackfillRequest) Validate() error {
	return validate.Struct(r)
}

// Backfill queues a historical warehouse fetch for the requested
// window. Backfills run on the low queue and can take hours for long
// windows, so the endpoint only acknowledges the enqueue.
func (h *MonitorHandler) Backfill(c echo.Context, req *BackfillRequest) (*EnqueueResponse, error) {
	from, _ := time.Parse(rfc3339, req.From)
	to, _ := time.Parse(rfc3339, req.To)

	if !from.Before(to) {
		return nil, errs.NewBadRequestError("Backfill window start must be before its end", true, nil, []errs.FieldError{
			{Field: "from", Error: "must be before to"},
		}, nil)
	}

	task, err := job.NewBackfillTask(from, to)
	if err != nil {
		return nil, err
	}

	info, err := h.services.Job.Client.Enqueue(task)
	if err != nil {
		return nil, err
	}

	return &EnqueueResponse{
		TaskID: info.ID,
		Queue:  info.Queue,
		State:  info.State.String(),
	}, nil
}
