// File: internal/jobs/reconciliation.go
package jobs

import (
	"context"
	"time"

	"gamehub_backend/internal/config"
	"gamehub_backend/internal/reconcile"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler runs one repair pass over the ledger.
type Reconciler interface {
	RunOnce(ctx context.Context, batchSize int) (reconcile.Summary, error)
}

// ReconciliationJob periodically repairs identities whose profile writes failed.
type ReconciliationJob struct {
	reconciler    Reconciler
	logger        *zap.Logger
	cfg           *config.Config
	cronScheduler *cron.Cron
	runTimeout    time.Duration
}

// NewReconciliationJob creates a new ReconciliationJob.
func NewReconciliationJob(reconciler *reconcile.Service, logger *zap.Logger, cfg *config.Config) *ReconciliationJob {
	return newReconciliationJob(reconciler, logger, cfg)
}

func newReconciliationJob(reconciler Reconciler, logger *zap.Logger, cfg *config.Config) *ReconciliationJob {
	cronLog := NewCronLogger(logger.Named("cron"))
	// A slow provider must not stack overlapping passes over the same entries.
	scheduler := cron.New(
		cron.WithLogger(cronLog),
		cron.WithChain(cron.SkipIfStillRunning(cronLog), cron.Recover(cronLog)),
	)

	return &ReconciliationJob{
		reconciler:    reconciler,
		logger:        logger.Named("ReconciliationJob"),
		cfg:           cfg,
		cronScheduler: scheduler,
		runTimeout:    5 * time.Minute,
	}
}

// SetupAndStart schedules and starts the cron job.
func (j *ReconciliationJob) SetupAndStart() error {
	jobSpec := j.cfg.ReconcileJobSchedule
	if jobSpec == "" {
		j.logger.Warn("Reconciliation job schedule not defined (RECONCILE_JOB_SCHEDULE). Job will not run.")
		return nil
	}

	jobID, err := j.cronScheduler.AddFunc(jobSpec, j.runJob)
	if err != nil {
		j.logger.Error("Failed to schedule reconciliation job", zap.String("spec", jobSpec), zap.Error(err))
		return err
	}

	j.logger.Info("Reconciliation job scheduled", zap.String("spec", jobSpec), zap.Any("jobID", jobID))
	j.cronScheduler.Start()
	return nil
}

func (j *ReconciliationJob) runJob() {
	ctx, cancel := context.WithTimeout(context.Background(), j.runTimeout)
	defer cancel()
	_, _ = j.Run(ctx, j.cfg.ReconcileBatchSize)
}

// Run performs one pass immediately. It backs both the schedule and the
// reconcile subcommand.
func (j *ReconciliationJob) Run(ctx context.Context, batchSize int) (reconcile.Summary, error) {
	j.logger.Info("Starting reconciliation run...", zap.Int("batch_size", batchSize))
	summary, err := j.reconciler.RunOnce(ctx, batchSize)
	if err != nil {
		j.logger.Error("Reconciliation run failed", zap.Error(err), zap.Int("processed", summary.Processed))
		return summary, err
	}
	j.logger.Info("Reconciliation run completed",
		zap.Int("processed", summary.Processed),
		zap.Int("resolved", summary.Resolved),
		zap.Int("retrying", summary.Retrying),
		zap.Int("abandoned", summary.Abandoned),
	)
	return summary, nil
}

// Stop gracefully stops the cron scheduler.
func (j *ReconciliationJob) Stop() {
	if j.cronScheduler != nil {
		j.logger.Info("Stopping reconciliation job scheduler...")
		stopCtx := j.cronScheduler.Stop()
		select {
		case <-stopCtx.Done():
			j.logger.Info("Reconciliation job scheduler stopped gracefully.")
		case <-time.After(10 * time.Second):
			j.logger.Warn("Reconciliation job scheduler stop timed out.")
		}
	}
}
