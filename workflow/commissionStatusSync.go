package workflow

import (
	"context"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/models"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("bookings_backend/workflow")

// CommissionLedger is the data access the commission sync needs.
// models.CommissionLedgerStore is the MySQL implementation.
type CommissionLedger interface {
	FindDiscrepancies(ctx context.Context) ([]models.Discrepancy, error)
	MarkAdminEarningsPaid(ctx context.Context, adminEarningsId int, paidAt time.Time) (alreadyPaid bool, err error)
}

// SettlementNotifier is told about every admin_earnings row moved to paid.
type SettlementNotifier interface {
	EarningsSettled(ctx context.Context, d models.Discrepancy, paidAt time.Time) error
}

type ReconciliationResult struct {
	AdminEarningsId  int       `json:"admin_earnings_id"`
	BookingReference string    `json:"booking_reference"`
	Success          bool      `json:"success"`
	AlreadyPaid      bool      `json:"already_paid"`
	PaidAt           time.Time `json:"paid_at"`
}

// RowError is a per-discrepancy failure kept for manual follow-up.
type RowError struct {
	AdminEarningsId  int
	BookingReference string
	Err              error
}

func (e RowError) Error() string {
	return fmt.Sprintf("booking %s (admin_earnings id=%d): %v", e.BookingReference, e.AdminEarningsId, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

type Summary struct {
	CorrelationId string
	DryRun        bool
	Scanned       int
	Fixed         int
	Failed        int
	Discrepancies []models.Discrepancy
	Results       []ReconciliationResult
	Errors        []RowError
}

// add folds one applier outcome into the summary.
func (s *Summary) add(d models.Discrepancy, res ReconciliationResult, err error) {
	s.Results = append(s.Results, res)
	if err != nil {
		s.Failed++
		s.Errors = append(s.Errors, RowError{
			AdminEarningsId:  d.AdminEarningsId,
			BookingReference: d.BookingReference,
			Err:              err,
		})
		return
	}
	s.Fixed++
}

// FailureReports converts row failures into reconciliation_reports rows.
func (s *Summary) FailureReports() []models.ReconciliationReport {
	reports := make([]models.ReconciliationReport, 0, len(s.Errors))
	for _, e := range s.Errors {
		reports = append(reports, models.ReconciliationReport{
			CheckType:        models.ReconciliationCheckCommissionStatusSync,
			EntityType:       "AdminEarnings",
			EntityId:         e.AdminEarningsId,
			BookingReference: e.BookingReference,
			Details:          e.Err.Error(),
			CorrelationId:    s.CorrelationId,
		})
	}
	return reports
}

type CommissionStatusSync struct {
	ledger   CommissionLedger
	notifier SettlementNotifier
	logger   *logrus.Logger
	now      func() time.Time
}

type CommissionSyncOption func(*CommissionStatusSync)

func WithSettlementNotifier(n SettlementNotifier) CommissionSyncOption {
	return func(s *CommissionStatusSync) { s.notifier = n }
}

func WithLogger(l *logrus.Logger) CommissionSyncOption {
	return func(s *CommissionStatusSync) { s.logger = l }
}

func WithClock(now func() time.Time) CommissionSyncOption {
	return func(s *CommissionStatusSync) { s.now = now }
}

func NewCommissionStatusSync(ledger CommissionLedger, opts ...CommissionSyncOption) *CommissionStatusSync {
	s := &CommissionStatusSync{
		ledger: ledger,
		logger: config.GetLogger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logrus.New()
	}
	return s
}

// FindDiscrepancies returns every pending commission whose booking is already paid.
func (s *CommissionStatusSync) FindDiscrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	ctx, span := tracer.Start(ctx, "CommissionStatusSync.FindDiscrepancies")
	defer span.End()

	rows, err := s.ledger.FindDiscrepancies(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("discrepancies", len(rows)))
	return rows, nil
}

// Reconcile settles one discrepancy. The returned error is the row's failure; it is never fatal to a batch.
func (s *CommissionStatusSync) Reconcile(ctx context.Context, d models.Discrepancy) (ReconciliationResult, error) {
	ctx, span := tracer.Start(ctx, "CommissionStatusSync.Reconcile", trace.WithAttributes(
		attribute.Int("admin_earnings_id", d.AdminEarningsId),
		attribute.String("booking_reference", d.BookingReference),
	))
	defer span.End()

	result := ReconciliationResult{
		AdminEarningsId:  d.AdminEarningsId,
		BookingReference: d.BookingReference,
	}
	if err := utils.ValidateStruct(d); err != nil {
		span.RecordError(err)
		return result, err
	}

	paidAt := s.now()
	alreadyPaid, err := s.ledger.MarkAdminEarningsPaid(ctx, d.AdminEarningsId, paidAt)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return result, err
	}
	result.Success = true
	result.AlreadyPaid = alreadyPaid
	if alreadyPaid {
		return result, nil
	}
	result.PaidAt = paidAt

	if s.notifier != nil {
		if nerr := s.notifier.EarningsSettled(ctx, d, paidAt); nerr != nil {
			config.LogError(s.logger, "commissionStatusSync.go", "Reconcile", "notifying earnings settled", d, nerr)
		}
	}
	return result, nil
}

// Run scans once and reconciles every discrepancy in scan order, one at a time.
// Scan failures are returned as errors; per-row failures are collected in the Summary.
// A cancelled ctx stops the batch between rows.
func (s *CommissionStatusSync) Run(ctx context.Context) (*Summary, error) {
	correlationId := utils.CorrelationIdFromContextOrNew(ctx)
	ctx = utils.SetCorrelationIdInContext(ctx, correlationId)
	ctx, span := tracer.Start(ctx, "CommissionStatusSync.Run", trace.WithAttributes(
		attribute.String("correlation_id", correlationId),
	))
	defer span.End()

	summary := &Summary{
		CorrelationId: correlationId,
		DryRun:        utils.GetDryRunFromContext(ctx),
	}

	discrepancies, err := s.FindDiscrepancies(ctx)
	if err != nil {
		config.LogError(s.logger, "commissionStatusSync.go", "Run", "finding discrepancies", nil, err)
		return summary, err
	}
	summary.Scanned = len(discrepancies)
	summary.Discrepancies = discrepancies

	log := s.logger.WithFields(logrus.Fields{
		"field":          "CommissionStatusSync",
		"correlation_id": correlationId,
		"scanned":        summary.Scanned,
		"dry_run":        summary.DryRun,
	})
	if summary.Scanned == 0 || summary.DryRun {
		log.Info("commission status sync: nothing to apply")
		return summary, nil
	}

	for _, d := range discrepancies {
		if err := ctx.Err(); err != nil {
			log.WithField("fixed", summary.Fixed).Warn("commission status sync interrupted")
			return summary, err
		}
		res, rerr := s.Reconcile(ctx, d)
		if rerr != nil {
			config.LogError(s.logger, "commissionStatusSync.go", "Run", "reconciling discrepancy", d, rerr)
		}
		summary.add(d, res, rerr)
	}

	span.SetAttributes(
		attribute.Int("scanned", summary.Scanned),
		attribute.Int("fixed", summary.Fixed),
		attribute.Int("failed", summary.Failed),
	)
	log.WithFields(logrus.Fields{
		"fixed":  summary.Fixed,
		"failed": summary.Failed,
	}).Info("commission status sync completed")
	return summary, nil
}
