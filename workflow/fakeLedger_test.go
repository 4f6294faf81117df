package workflow

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/models"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/shopspring/decimal"
)

// fakeLedger is an in-memory CommissionLedger with the same selection rules as the MySQL store.
type fakeLedger struct {
	policy   models.SettlementPolicy
	bookings map[int]*models.Booking
	payments []models.Payment
	earnings map[int]*models.AdminEarnings

	scanErr   error
	markErr   map[int]error
	afterScan func(l *fakeLedger)

	scans  int
	writes int
	marked []int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		policy:   models.SettlementPolicyAnyCredit,
		bookings: map[int]*models.Booking{},
		earnings: map[int]*models.AdminEarnings{},
		markErr:  map[int]error{},
	}
}

func (l *fakeLedger) addBooking(id int, ref string, status models.BookingPaymentStatus, total string) {
	l.bookings[id] = &models.Booking{
		ID:               id,
		BookingReference: ref,
		PaymentStatus:    status,
		Status:           models.BookingStatusConfirmed,
		TotalAmount:      decimal.RequireFromString(total),
	}
}

func (l *fakeLedger) addPayment(bookingId int, status models.PaymentEntryStatus, dr, cr string) {
	l.payments = append(l.payments, models.Payment{
		ID:        len(l.payments) + 1,
		BookingId: bookingId,
		DrAmount:  decimal.RequireFromString(dr),
		CrAmount:  decimal.RequireFromString(cr),
		Status:    status,
	})
}

func (l *fakeLedger) addEarnings(id, bookingId int, status models.EarningsPaymentStatus) {
	l.earnings[id] = &models.AdminEarnings{
		ID:            id,
		BookingId:     bookingId,
		PaymentStatus: status,
	}
}

func (l *fakeLedger) FindDiscrepancies(ctx context.Context) ([]models.Discrepancy, error) {
	l.scans++
	if l.scanErr != nil {
		return nil, l.scanErr
	}

	ids := make([]int, 0, len(l.earnings))
	for id := range l.earnings {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	var out []models.Discrepancy
	for _, id := range ids {
		e := l.earnings[id]
		b, ok := l.bookings[e.BookingId]
		if !ok || e.PaymentStatus != models.EarningsPaymentStatusPending || b.PaymentStatus != models.BookingPaymentStatusPaid {
			continue
		}
		totalCr, totalDr := decimal.Zero, decimal.Zero
		for _, p := range l.payments {
			if p.BookingId != b.ID || p.Status != models.PaymentEntryStatusCompleted {
				continue
			}
			totalCr = totalCr.Add(p.CrAmount)
			totalDr = totalDr.Add(p.DrAmount)
		}
		if !l.policy.Satisfied(totalCr, b.TotalAmount) {
			continue
		}
		out = append(out, models.Discrepancy{
			AdminEarningsId:    e.ID,
			BookingId:          b.ID,
			BookingReference:   b.BookingReference,
			TotalCrAmount:      totalCr,
			TotalDrAmount:      totalDr,
			BookingTotalAmount: b.TotalAmount,
		})
	}
	if l.afterScan != nil {
		l.afterScan(l)
	}
	return out, nil
}

func (l *fakeLedger) MarkAdminEarningsPaid(ctx context.Context, adminEarningsId int, paidAt time.Time) (bool, error) {
	l.marked = append(l.marked, adminEarningsId)
	if err := l.markErr[adminEarningsId]; err != nil {
		return false, err
	}
	e, ok := l.earnings[adminEarningsId]
	if !ok {
		return false, fmt.Errorf("admin_earnings id=%d: %w", adminEarningsId, utils.ErrorRecordNotFound)
	}
	if e.PaymentStatus == models.EarningsPaymentStatusPaid {
		return true, nil
	}
	l.writes++
	e.PaymentStatus = models.EarningsPaymentStatusPaid
	at := paidAt
	e.PaymentDate = &at
	e.UpdatedAt = paidAt
	return false, nil
}

type recordingNotifier struct {
	settled []models.Discrepancy
	err     error
}

func (n *recordingNotifier) EarningsSettled(ctx context.Context, d models.Discrepancy, paidAt time.Time) error {
	n.settled = append(n.settled, d)
	return n.err
}
