package jobs

import (
	"time"

	"appliance-rental-backend/internal/config"
	"appliance-rental-backend/internal/logger"
	"appliance-rental-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	maintenance service.MaintenanceService
	config      *config.Config
	now         func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(maintenance service.MaintenanceService, cfg *config.Config) *JobRunner {
	return &JobRunner{
		maintenance: maintenance,
		config:      cfg,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

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
	start := time.Now()
	jobFunc()
	logger.Info("Job completed", "job", jobName, "duration", time.Since(start))
}

// RunAll runs every job once, in dependency order (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SweepOverdueInstallments()
	jr.SendInstallmentReminders()
	jr.CompleteEndedRentals()
}
