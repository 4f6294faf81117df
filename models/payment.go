package models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Payment is one entry of a booking's DR/CR payment ledger.
// Append-only: only Status may change after insert.
type Payment struct {
	ID               int                `gorm:"primary_key" json:"id"`
	BookingId        int                `gorm:"index:idx_payments_booking_created;not null" json:"booking_id"`
	DrAmount         decimal.Decimal    `gorm:"type:decimal(20,4);not null;default:0" json:"dr_amount"`
	CrAmount         decimal.Decimal    `gorm:"type:decimal(20,4);not null;default:0" json:"cr_amount"`
	Status           PaymentEntryStatus `gorm:"size:20;index;not null;default:pending" json:"status"`
	PaymentReference string             `gorm:"size:100;index" json:"payment_reference"`
	RunningBalance   decimal.Decimal    `gorm:"type:decimal(20,4);not null;default:0" json:"running_balance"`
	CreatedAt        time.Time          `gorm:"index:idx_payments_booking_created" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

type NewPaymentEntry struct {
	BookingId        int                `validate:"required,gt=0"`
	DrAmount         decimal.Decimal    `validate:"-"`
	CrAmount         decimal.Decimal    `validate:"-"`
	Status           PaymentEntryStatus `validate:"required"`
	PaymentReference string             `validate:"max=100"`
}

func (input NewPaymentEntry) validate() error {
	if err := utils.ValidateStruct(input); err != nil {
		return err
	}
	if input.DrAmount.IsNegative() || input.CrAmount.IsNegative() {
		return errors.New("dr_amount and cr_amount must be >= 0")
	}
	if input.DrAmount.IsZero() && input.CrAmount.IsZero() {
		return errors.New("either dr_amount or cr_amount must be > 0")
	}
	if !input.Status.IsValid() {
		return fmt.Errorf("invalid payment status %q", input.Status)
	}
	return nil
}

// NextRunningBalance = previous balance + DR - CR.
func NextRunningBalance(prev, dr, cr decimal.Decimal) decimal.Decimal {
	return prev.Add(dr).Sub(cr)
}

// AppendPaymentEntry inserts a ledger entry with its running balance.
// The booking row is locked for the duration so concurrent appends for the same booking serialize.
func AppendPaymentEntry(ctx context.Context, db *gorm.DB, input NewPaymentEntry) (*Payment, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	var entry *Payment
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var booking Booking
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			Where("id = ?", input.BookingId).
			Take(&booking).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrorRecordNotFound
			}
			return err
		}

		var last Payment
		prev := decimal.Zero
		res := tx.Where("booking_id = ?", input.BookingId).
			Order("created_at DESC, id DESC").
			Limit(1).
			Find(&last)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			prev = last.RunningBalance
		}

		entry = &Payment{
			BookingId:        input.BookingId,
			DrAmount:         input.DrAmount,
			CrAmount:         input.CrAmount,
			Status:           input.Status,
			PaymentReference: input.PaymentReference,
			RunningBalance:   NextRunningBalance(prev, input.DrAmount, input.CrAmount),
			CreatedAt:        time.Now().UTC(),
		}
		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdatePaymentEntryStatus is the only mutation allowed on an existing entry.
func UpdatePaymentEntryStatus(ctx context.Context, db *gorm.DB, paymentId int, status PaymentEntryStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid payment status %q", status)
	}
	res := db.WithContext(ctx).Model(&Payment{}).
		Where("id = ?", paymentId).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrorRecordNotFound
	}
	return nil
}

// ListPaymentEntriesInLedgerOrder returns every entry ordered by booking, then chronologically.
func ListPaymentEntriesInLedgerOrder(ctx context.Context, db *gorm.DB) ([]Payment, error) {
	var entries []Payment
	if err := db.WithContext(ctx).
		Order("booking_id ASC, created_at ASC, id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
