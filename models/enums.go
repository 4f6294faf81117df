package models

import (
	"errors"
	"strings"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusCheckedIn  BookingStatus = "checked_in"
	BookingStatusCheckedOut BookingStatus = "checked_out"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCheckedIn,
		BookingStatusCheckedOut, BookingStatusCancelled:
		return true
	}
	return false
}

// BookingPaymentStatus is the guest-facing payment state of a booking.
// Other values may exist in the table; only "paid" matters to the commission sync.
type BookingPaymentStatus string

const (
	BookingPaymentStatusPending  BookingPaymentStatus = "pending"
	BookingPaymentStatusPartial  BookingPaymentStatus = "partial"
	BookingPaymentStatusPaid     BookingPaymentStatus = "paid"
	BookingPaymentStatusRefunded BookingPaymentStatus = "refunded"
)

type PaymentEntryStatus string

const (
	PaymentEntryStatusPending   PaymentEntryStatus = "pending"
	PaymentEntryStatusCompleted PaymentEntryStatus = "completed"
	PaymentEntryStatusFailed    PaymentEntryStatus = "failed"
	PaymentEntryStatusRefunded  PaymentEntryStatus = "refunded"
)

func (s PaymentEntryStatus) IsValid() bool {
	switch s {
	case PaymentEntryStatusPending, PaymentEntryStatusCompleted,
		PaymentEntryStatusFailed, PaymentEntryStatusRefunded:
		return true
	}
	return false
}

// EarningsPaymentStatus is the settlement state of the platform commission,
// independent of the booking's own payment status.
type EarningsPaymentStatus string

const (
	EarningsPaymentStatusPending EarningsPaymentStatus = "pending"
	EarningsPaymentStatusPaid    EarningsPaymentStatus = "paid"
)

type SettlementPolicy string

const (
	// SettlementPolicyAnyCredit: any positive completed credit settles the commission.
	SettlementPolicyAnyCredit SettlementPolicy = "any_credit"
	// SettlementPolicyFullSettlement: completed credits must also cover booking.total_amount.
	SettlementPolicyFullSettlement SettlementPolicy = "full_settlement"
)

func ParseSettlementPolicy(s string) (SettlementPolicy, error) {
	switch SettlementPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", SettlementPolicyAnyCredit:
		return SettlementPolicyAnyCredit, nil
	case SettlementPolicyFullSettlement:
		return SettlementPolicyFullSettlement, nil
	}
	return "", errors.New("invalid settlement policy: " + s)
}

type ReconciliationCheckType string

const (
	ReconciliationCheckCommissionStatusSync  ReconciliationCheckType = "COMMISSION_STATUS_SYNC"
	ReconciliationCheckPaymentRunningBalance ReconciliationCheckType = "PAYMENT_RUNNING_BALANCE"
)
