package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/gladeswatch/backend/internal/lib/email"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// PollHandler runs one live poll of the watched area and returns the
// number of sightings stored.
type PollHandler func(ctx context.Context) (int, error)

// BackfillHandler fetches the archive window [from, to) and returns
// the number of sightings stored.
type BackfillHandler func(ctx context.Context, payload BackfillPayload) (int, error)

// DigestCounts is one day's activity summary for the digest email.
type DigestCounts struct {
	Sightings int
	Landings  int
	Takeoffs  int
}

// DigestHandler summarizes the given UTC day.
type DigestHandler func(ctx context.Context, day time.Time) (DigestCounts, error)

// Package-level collaborators, set once by InitHandlers. Handlers live
// on JobService methods but the service layer is constructed after the
// JobService, so wiring happens in a second step from main.
var (
	cfg         *config.Config
	emailClient *email.Client

	pollFn     PollHandler
	backfillFn BackfillHandler
	digestFn   DigestHandler
)

// InitHandlers wires the task handlers to the service layer and email
// client. Must be called before Start.
func InitHandlers(
	c *config.Config,
	logger *zerolog.Logger,
	poll PollHandler,
	backfill BackfillHandler,
	digest DigestHandler,
) {
	cfg = c
	emailClient = email.NewClient(c, logger)
	pollFn = poll
	backfillFn = backfill
	digestFn = digest
}

// handlePollTask runs a single live poll.
func (j *JobService) handlePollTask(ctx context.Context, t *asynq.Task) error {
	j.logger.Info().Msg("Processing poll task")

	if pollFn == nil {
		return fmt.Errorf("poll handler not initialized")
	}

	stored, err := pollFn(ctx)
	if err != nil {
		j.logger.Error().Err(err).Msg("Poll task failed")
		return err
	}

	j.logger.Info().Int("sightings", stored).Msg("Poll task complete")
	return nil
}

// handleBackfillTask fetches a historical window from the warehouse.
func (j *JobService) handleBackfillTask(ctx context.Context, t *asynq.Task) error {
	var payload BackfillPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		// Malformed payloads never become valid; skip retries.
		return fmt.Errorf("unmarshaling backfill payload: %w: %w", err, asynq.SkipRetry)
	}

	j.logger.Info().
		Time("from", payload.From).
		Time("to", payload.To).
		Msg("Processing backfill task")

	if backfillFn == nil {
		return fmt.Errorf("backfill handler not initialized")
	}

	stored, err := backfillFn(ctx, payload)
	if err != nil {
		j.logger.Error().Err(err).Msg("Backfill task failed")
		return err
	}

	j.logger.Info().Int("sightings", stored).Msg("Backfill task complete")
	return nil
}

// handleActivityAlertTask sends the activity alert email.
func (j *JobService) handleActivityAlertTask(ctx context.Context, t *asynq.Task) error {
	var payload ActivityAlertPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshaling alert payload: %w: %w", err, asynq.SkipRetry)
	}

	if cfg == nil || emailClient == nil {
		return fmt.Errorf("alert handler not initialized")
	}

	recipients := cfg.Monitor.AlertRecipients
	if len(recipients) == 0 {
		j.logger.Warn().Msg("Activity alert skipped: no recipients configured")
		return nil
	}

	sightings := make([]email.AlertSighting, 0, len(payload.Sightings))
	for _, s := range payload.Sightings {
		alt := "n/a"
		if s.AltitudeFt != nil {
			alt = fmt.Sprintf("%d ft", *s.AltitudeFt)
		}
		sightings = append(sightings, email.AlertSighting{
			ICAO24:     s.ICAO24,
			Callsign:   s.Callsign,
			AltitudeFt: alt,
			Status:     s.Status,
		})
	}

	j.logger.Info().
		Int("sightings", len(sightings)).
		Strs("recipients", recipients).
		Msg("Sending activity alert")

	return emailClient.SendActivityAlert(
		recipients,
		cfg.Monitor.AirportName,
		cfg.Monitor.AirportCode,
		payload.DetectedAt.UTC().Format("2006-01-02 15:04:05"),
		sightings,
	)
}

// handleDailyDigestTask summarizes the previous UTC day and emails the
// digest. A day with no activity sends nothing.
func (j *JobService) handleDailyDigestTask(ctx context.Context, t *asynq.Task) error {
	if cfg == nil || emailClient == nil || digestFn == nil {
		return fmt.Errorf("digest handler not initialized")
	}

	recipients := cfg.Monitor.AlertRecipients
	if len(recipients) == 0 {
		j.logger.Warn().Msg("Daily digest skipped: no recipients configured")
		return nil
	}

	day := time.Now().UTC().Truncate(24 * time.Hour).Add(-24 * time.Hour)

	counts, err := digestFn(ctx, day)
	if err != nil {
		j.logger.Error().Err(err).Msg("Daily digest summary failed")
		return err
	}

	if counts.Sightings == 0 && counts.Landings == 0 && counts.Takeoffs == 0 {
		j.logger.Info().Time("day", day).Msg("Daily digest skipped: no activity")
		return nil
	}

	j.logger.Info().
		Time("day", day).
		Int("sightings", counts.Sightings).
		Int("landings", counts.Landings).
		Int("takeoffs", counts.Takeoffs).
		Msg("Sending daily digest")

	return emailClient.SendDailyDigest(
		recipients,
		cfg.Monitor.AirportCode,
		day.Format("2006-01-02"),
		counts.Sightings,
		counts.Landings,
		counts.Takeoffs,
	)
}
