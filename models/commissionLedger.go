package models

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Discrepancy is a booking whose commission is still pending although the booking is paid
// and its completed payments carry credit.
type Discrepancy struct {
	AdminEarningsId    int             `gorm:"column:admin_earnings_id" json:"admin_earnings_id" validate:"required,gt=0"`
	BookingId          int             `gorm:"column:booking_id" json:"booking_id"`
	BookingReference   string          `gorm:"column:booking_reference" json:"booking_reference"`
	TotalCrAmount      decimal.Decimal `gorm:"column:total_cr_amount" json:"total_cr_amount"`
	TotalDrAmount      decimal.Decimal `gorm:"column:total_dr_amount" json:"total_dr_amount"`
	BookingTotalAmount decimal.Decimal `gorm:"column:booking_total_amount" json:"booking_total_amount"`
}

// Satisfied reports whether completed credits justify settling the commission.
func (p SettlementPolicy) Satisfied(totalCr, bookingTotal decimal.Decimal) bool {
	if !totalCr.IsPositive() {
		return false
	}
	if p == SettlementPolicyFullSettlement {
		return totalCr.GreaterThanOrEqual(bookingTotal)
	}
	return true
}

func (p SettlementPolicy) havingClause() string {
	if p == SettlementPolicyFullSettlement {
		return "HAVING total_cr_amount > 0 AND total_cr_amount >= b.total_amount"
	}
	return "HAVING total_cr_amount > 0"
}

const discrepancyQuery = `
	SELECT
		ae.id AS admin_earnings_id,
		b.id AS booking_id,
		b.booking_reference AS booking_reference,
		COALESCE(SUM(p.cr_amount), 0) AS total_cr_amount,
		COALESCE(SUM(p.dr_amount), 0) AS total_dr_amount,
		b.total_amount AS booking_total_amount
	FROM admin_earnings ae
	JOIN bookings b ON b.id = ae.booking_id
	LEFT JOIN payments p ON p.booking_id = b.id AND p.status = ?
	WHERE ae.payment_status = ?
	  AND b.payment_status = ?
	GROUP BY ae.id, b.id, b.booking_reference, b.total_amount
	%s
	ORDER BY ae.id ASC
`

type earningsStatusRow struct {
	PaymentStatus EarningsPaymentStatus `gorm:"column:payment_status"`
}

// CommissionLedgerStore is the MySQL-backed read/write surface of the commission sync.
type CommissionLedgerStore struct {
	db     *gorm.DB
	policy SettlementPolicy
}

func NewCommissionLedgerStore(db *gorm.DB, policy SettlementPolicy) *CommissionLedgerStore {
	if policy == "" {
		policy = SettlementPolicyAnyCredit
	}
	return &CommissionLedgerStore{db: db, policy: policy}
}

func (s *CommissionLedgerStore) Policy() SettlementPolicy {
	return s.policy
}

// FindDiscrepancies is read-only. Only completed payments count toward the credit total.
func (s *CommissionLedgerStore) FindDiscrepancies(ctx context.Context) ([]Discrepancy, error) {
	var rows []Discrepancy
	query := fmt.Sprintf(discrepancyQuery, s.policy.havingClause())
	if err := s.db.WithContext(ctx).Raw(query,
		PaymentEntryStatusCompleted,
		EarningsPaymentStatusPending,
		BookingPaymentStatusPaid,
	).Scan(&rows).Error; err != nil {
		return nil, classifyDBError(err, utils.ErrorQuery)
	}
	return rows, nil
}

// MarkAdminEarningsPaid moves one pending admin_earnings row to paid.
// A row that is already paid is left untouched and reported with alreadyPaid=true.
func (s *CommissionLedgerStore) MarkAdminEarningsPaid(ctx context.Context, adminEarningsId int, paidAt time.Time) (alreadyPaid bool, err error) {
	res := s.db.WithContext(ctx).Exec(`
		UPDATE admin_earnings
		SET payment_status = ?, payment_date = ?, updated_at = ?
		WHERE id = ? AND payment_status = ?
	`, EarningsPaymentStatusPaid, paidAt, paidAt, adminEarningsId, EarningsPaymentStatusPending)
	if res.Error != nil {
		return false, classifyDBError(res.Error, utils.ErrorWrite)
	}
	if res.RowsAffected > 0 {
		return false, nil
	}

	// Nothing updated: the row is gone, already paid, or in an unexpected state.
	var current earningsStatusRow
	check := s.db.WithContext(ctx).Raw(`SELECT payment_status FROM admin_earnings WHERE id = ?`, adminEarningsId).Scan(&current)
	if check.Error != nil {
		return false, classifyDBError(check.Error, utils.ErrorWrite)
	}
	if check.RowsAffected == 0 {
		return false, fmt.Errorf("admin_earnings id=%d: %w", adminEarningsId, utils.ErrorRecordNotFound)
	}
	if current.PaymentStatus == EarningsPaymentStatusPaid {
		return true, nil
	}
	return false, fmt.Errorf("%w: admin_earnings id=%d not updated (payment_status=%s)", utils.ErrorWrite, adminEarningsId, current.PaymentStatus)
}

// classifyDBError wraps err with ErrorConnection when the store is unreachable, otherwise with fallback.
func classifyDBError(err error, fallback error) error {
	if err == nil {
		return nil
	}
	if IsConnectionError(err) {
		return fmt.Errorf("%w: %w", utils.ErrorConnection, err)
	}
	return fmt.Errorf("%w: %w", fallback, err)
}

func IsConnectionError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, mysqlDriver.ErrInvalidConn) {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var mysqlErr *mysqlDriver.MySQLError
	if errors.As(err, &mysqlErr) {
		switch mysqlErr.Number {
		case 1040, // too many connections
			1045, // access denied
			1049, // unknown database
			1053: // server shutdown in progress
			return true
		}
	}
	return false
}
