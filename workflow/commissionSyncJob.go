package workflow

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/models"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultCommissionSyncLockTTL = 5 * time.Minute

// CommissionSyncJob wraps one CommissionStatusSync run with the run lock and follow-up outputs
// (reconciliation_reports rows for failures, optional XLSX report).
type CommissionSyncJob struct {
	DB         *gorm.DB
	Locker     *redislock.Client
	Sync       *CommissionStatusSync
	DryRun     bool
	ReportPath string
	LockTTL    time.Duration
	Logger     *logrus.Logger
}

// NewCommissionSyncJobFromConfig wires the job from env: settlement policy, dry run,
// report path, Redis lock and Pub/Sub notifier when configured.
func NewCommissionSyncJobFromConfig(db *gorm.DB) (*CommissionSyncJob, error) {
	policy, err := models.ParseSettlementPolicy(config.SettlementPolicyName())
	if err != nil {
		return nil, err
	}
	logger := config.GetLogger()

	opts := []CommissionSyncOption{WithLogger(logger)}
	if config.EarningsTopic() != "" {
		opts = append(opts, WithSettlementNotifier(NewPubSubSettlementNotifier()))
	}

	return &CommissionSyncJob{
		DB:         db,
		Locker:     config.GetRedisLock(),
		Sync:       NewCommissionStatusSync(models.NewCommissionLedgerStore(db, policy), opts...),
		DryRun:     config.CommissionSyncDryRun(),
		ReportPath: config.CommissionSyncReportPath(),
		LockTTL:    defaultCommissionSyncLockTTL,
		Logger:     logger,
	}, nil
}

// Run returns ErrCommissionSyncLocked when another run holds the lock.
func (j *CommissionSyncJob) Run(ctx context.Context) (*Summary, error) {
	ctx = utils.SetCorrelationIdInContext(ctx, utils.CorrelationIdFromContextOrNew(ctx))
	ctx = utils.SetDryRunInContext(ctx, j.DryRun)

	ttl := j.LockTTL
	if ttl <= 0 {
		ttl = defaultCommissionSyncLockTTL
	}

	var summary *Summary
	err := WithCommissionSyncLock(ctx, j.DB, j.Locker, ttl, func(ctx context.Context) error {
		var runErr error
		summary, runErr = j.Sync.Run(ctx)
		return runErr
	})
	if summary == nil {
		return nil, err
	}

	if len(summary.Errors) > 0 && j.DB != nil {
		if serr := models.SaveReconciliationReports(context.WithoutCancel(ctx), j.DB, summary.FailureReports()); serr != nil {
			config.LogError(j.Logger, "commissionSyncJob.go", "Run", "saving failure reports", nil, serr)
		}
	}
	if j.ReportPath != "" {
		if werr := WriteCommissionSyncReport(summary, j.ReportPath); werr != nil {
			config.LogError(j.Logger, "commissionSyncJob.go", "Run", "writing xlsx report", j.ReportPath, werr)
		}
	}
	return summary, err
}
