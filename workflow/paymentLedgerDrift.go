package workflow

import (
	"context"
	"fmt"
	"sort"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/models"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// BalanceDrift is a payment entry whose stored running_balance differs from
// cumulative DR - CR over its booking's ledger up to and including that entry.
type BalanceDrift struct {
	PaymentId int
	BookingId int
	Expected  decimal.Decimal
	Stored    decimal.Decimal
}

// FindRunningBalanceDrift recomputes running balances per booking in (created_at, id) order.
// Every entry counts regardless of status.
func FindRunningBalanceDrift(entries []models.Payment) []BalanceDrift {
	ordered := make([]models.Payment, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.BookingId != b.BookingId {
			return a.BookingId < b.BookingId
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})

	var drifts []BalanceDrift
	balance := decimal.Zero
	currentBooking := 0
	for i, p := range ordered {
		if i == 0 || p.BookingId != currentBooking {
			currentBooking = p.BookingId
			balance = decimal.Zero
		}
		balance = models.NextRunningBalance(balance, p.DrAmount, p.CrAmount)
		if !balance.Equal(p.RunningBalance) {
			drifts = append(drifts, BalanceDrift{
				PaymentId: p.ID,
				BookingId: p.BookingId,
				Expected:  balance,
				Stored:    p.RunningBalance,
			})
		}
	}
	return drifts
}

// RunPaymentLedgerDriftCheck writes one PAYMENT_RUNNING_BALANCE report per drifted entry.
// It never modifies payments.
func RunPaymentLedgerDriftCheck(ctx context.Context, db *gorm.DB, logger *logrus.Logger) (correlationId string, drifts []BalanceDrift, err error) {
	correlationId = utils.CorrelationIdFromContextOrNew(ctx)
	ctx, span := tracer.Start(ctx, "RunPaymentLedgerDriftCheck")
	defer span.End()

	entries, err := models.ListPaymentEntriesInLedgerOrder(ctx, db)
	if err != nil {
		config.LogError(logger, "paymentLedgerDrift.go", "RunPaymentLedgerDriftCheck", "listing payment entries", nil, err)
		return correlationId, nil, err
	}
	drifts = FindRunningBalanceDrift(entries)

	if len(drifts) > 0 {
		refs, err := bookingReferences(ctx, db, drifts)
		if err != nil {
			return correlationId, drifts, err
		}
		reports := make([]models.ReconciliationReport, 0, len(drifts))
		for _, d := range drifts {
			reports = append(reports, models.ReconciliationReport{
				CheckType:        models.ReconciliationCheckPaymentRunningBalance,
				EntityType:       "Payment",
				EntityId:         d.PaymentId,
				BookingReference: refs[d.BookingId],
				Details:          fmt.Sprintf("running_balance=%s != cumulative(dr - cr)=%s", d.Stored.String(), d.Expected.String()),
				CorrelationId:    correlationId,
			})
		}
		if !utils.GetDryRunFromContext(ctx) {
			if err := models.SaveReconciliationReports(ctx, db, reports); err != nil {
				config.LogError(logger, "paymentLedgerDrift.go", "RunPaymentLedgerDriftCheck", "saving reports", nil, err)
				return correlationId, drifts, err
			}
		}
	}

	if logger != nil {
		logger.WithFields(logrus.Fields{
			"field":          "PaymentLedgerDrift",
			"correlation_id": correlationId,
			"entries":        len(entries),
			"drifts":         len(drifts),
		}).Info("payment ledger drift check completed")
	}
	return correlationId, drifts, nil
}

func bookingReferences(ctx context.Context, db *gorm.DB, drifts []BalanceDrift) (map[int]string, error) {
	ids := make([]int, 0, len(drifts))
	seen := map[int]bool{}
	for _, d := range drifts {
		if !seen[d.BookingId] {
			seen[d.BookingId] = true
			ids = append(ids, d.BookingId)
		}
	}
	var bookings []models.Booking
	if err := db.WithContext(ctx).Select("id", "booking_reference").Where("id IN ?", ids).Find(&bookings).Error; err != nil {
		return nil, err
	}
	refs := make(map[int]string, len(bookings))
	for _, b := range bookings {
		refs[b.ID] = b.BookingReference
	}
	return refs, nil
}
