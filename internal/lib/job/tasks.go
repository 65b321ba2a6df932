package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// TaskPoll triggers one live poll of the monitored area.
	TaskPoll = "monitor:poll"
	// TaskBackfill fetches a historical window from the warehouse.
	TaskBackfill = "monitor:backfill"
	// TaskActivityAlert emails recipients about detected activity.
	TaskActivityAlert = "alert:activity"
	// TaskDailyDigest emails the previous day's activity summary.
	TaskDailyDigest = "alert:daily_digest"
)

// BackfillPayload is the JSON payload for the backfill task.
type BackfillPayload struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// AlertSighting is one detected aircraft inside an alert payload.
type AlertSighting struct {
	ICAO24     string `json:"icao24"`
	Callsign   string `json:"callsign"`
	AltitudeFt *int   `json:"altitude_ft"`
	Status     string `json:"status"`
}

// ActivityAlertPayload is the JSON payload for the activity alert task.
type ActivityAlertPayload struct {
	DetectedAt time.Time       `json:"detected_at"`
	Sightings  []AlertSighting `json:"sightings"`
}

// NewPollTask constructs the periodic poll task.
//
// MaxRetry is 0: a failed poll is stale by the time it could retry,
// and the next scheduled poll covers it. Timeout stays well under the
// poll interval.
func NewPollTask() (*asynq.Task, error) {
	return asynq.NewTask(
		TaskPoll,
		nil,
		asynq.MaxRetry(0),
		asynq.Queue("critical"),
		asynq.Timeout(5*time.Minute),
	), nil
}

// NewBackfillTask constructs a historical backfill task for the given
// window. Backfills are long and cheap to redo, so they run on the
// low queue with a generous timeout.
func NewBackfillTask(from, to time.Time) (*asynq.Task, error) {
	payload, err := json.Marshal(BackfillPayload{From: from, To: to})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskBackfill,
		payload,
		asynq.MaxRetry(2),
		asynq.Queue("low"),
		asynq.Timeout(2*time.Hour),
	), nil
}

// NewDailyDigestTask constructs the scheduled digest task. It carries
// no payload; the handler summarizes the previous UTC day at run
// time.
func NewDailyDigestTask() (*asynq.Task, error) {
	return asynq.NewTask(
		TaskDailyDigest,
		nil,
		asynq.MaxRetry(2),
		asynq.Queue("default"),
		asynq.Timeout(2*time.Minute),
	), nil
}

// NewActivityAlertTask constructs an alert email task.
func NewActivityAlertTask(detectedAt time.Time, sightings []AlertSighting) (*asynq.Task, error) {
	payload, err := json.Marshal(ActivityAlertPayload{
		DetectedAt: detectedAt,
		Sightings:  sightings,
	})
	if err != nil {
		return nil, err
	}

	return asynq.NewTask(
		TaskActivityAlert,
		payload,
		asynq.MaxRetry(3),
		asynq.Queue("default"),
		asynq.Timeout(30*time.Second),
	), nil
}
