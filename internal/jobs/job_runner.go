package jobs

import (
	"charity-workflow-backend/internal/config"
	"charity-workflow-backend/internal/logger"
	"charity-workflow-backend/internal/repository/kvstore"
	"charity-workflow-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store    *kvstore.Store
	services *Services
	config   *config.Config
}

// Services holds all service dependencies needed by jobs
type Services struct {
	Data      service.DataService
	Identity  service.IdentityService
	Requests  service.RequestService
	Lifecycle service.LifecycleService
	Chat      service.ChatService
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store *kvstore.Store, services *Services, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:    store,
		services: services,
		config:   cfg,
	}
}

// Config exposes the configuration the scheduler reads cron specs from
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SweepOrphanedNotifications()
	jr.LogDataSnapshot()
}
