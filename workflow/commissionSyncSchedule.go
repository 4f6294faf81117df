package workflow

import (
	"context"
	"errors"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// CommissionSyncRunner is the part of CommissionSyncJob the scheduler needs.
type CommissionSyncRunner interface {
	Run(ctx context.Context) (*Summary, error)
}

// NewCommissionSyncScheduler registers runner on a seconds-precision UTC cron spec.
// A tick that fires while the previous run is still going is skipped.
func NewCommissionSyncScheduler(ctx context.Context, runner CommissionSyncRunner, spec string, logger *logrus.Logger) (*cron.Cron, error) {
	if logger == nil {
		logger = config.GetLogger()
	}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		),
	)

	_, err := c.AddFunc(spec, func() {
		runCommissionSyncTick(ctx, runner, logger)
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

func runCommissionSyncTick(ctx context.Context, runner CommissionSyncRunner, logger *logrus.Logger) {
	if ctx.Err() != nil {
		return
	}
	summary, err := runner.Run(ctx)
	if errors.Is(err, ErrCommissionSyncLocked) {
		logger.WithField("field", "CommissionSyncSchedule").Info("skipped: another run holds the lock")
		return
	}
	if err != nil {
		config.LogError(logger, "commissionSyncSchedule.go", "runCommissionSyncTick", "running commission status sync", nil, err)
		return
	}
	logger.WithFields(logrus.Fields{
		"field":          "CommissionSyncSchedule",
		"correlation_id": summary.CorrelationId,
		"scanned":        summary.Scanned,
		"fixed":          summary.Fixed,
		"failed":         summary.Failed,
	}).Info("scheduled commission status sync finished")
}
