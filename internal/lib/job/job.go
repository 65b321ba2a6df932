// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Tasks are enqueued (producer) using asynq.Client.
//   - A server runs workers that process those tasks (consumer).
//   - A scheduler enqueues the periodic poll task on the configured
//     cadence (every 30 minutes by default).
package job

import (
	"fmt"

	"github.com/gladeswatch/backend/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue), server (worker
// execution), and scheduler (periodic polling).
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server    *asynq.Server
	scheduler *asynq.Scheduler
	logger    *zerolog.Logger
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Queue weights give the poll task (critical) most of the worker
// share; alerts run on default and backfill chunks on low, so a long
// backfill never starves the live monitor.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	redisOpt := asynq.RedisClientOpt{Addr: cfg.Redis.Address}

	client := asynq.NewClient(redisOpt)

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6, // live polling
				"default":  3, // alerts
				"low":      1, // historical backfill
			},
		},
	)

	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{})

	return &JobService{
		Client:    client,
		server:    server,
		scheduler: scheduler,
		logger:    logger,
	}
}

// Start registers task handlers and starts the background worker
// server. InitHandlers must have been called first.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskPoll, j.handlePollTask)
	mux.HandleFunc(TaskBackfill, j.handleBackfillTask)
	mux.HandleFunc(TaskActivityAlert, j.handleActivityAlertTask)
	mux.HandleFunc(TaskDailyDigest, j.handleDailyDigestTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// StartScheduler registers the periodic poll entry and starts the
// scheduler loop.
func (j *JobService) StartScheduler(cfg *config.Config) error {
	task, err := NewPollTask()
	if err != nil {
		return err
	}

	spec := fmt.Sprintf("@every %s", cfg.Monitor.PollInterval)
	if _, err := j.scheduler.Register(spec, task); err != nil {
		return fmt.Errorf("registering poll schedule: %w", err)
	}

	digest, err := NewDailyDigestTask()
	if err != nil {
		return err
	}

	// Shortly after midnight UTC, summarizing the day that just ended.
	if _, err := j.scheduler.Register("5 0 * * *", digest); err != nil {
		return fmt.Errorf("registering digest schedule: %w", err)
	}

	j.logger.Info().
		Str("interval", cfg.Monitor.PollInterval.String()).
		Msg("Starting poll scheduler")

	return j.scheduler.Start()
}

// Stop gracefully stops the scheduler and job server and closes the
// enqueue client.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.scheduler.Shutdown()
	j.server.Shutdown()
	j.Client.Close()
}
