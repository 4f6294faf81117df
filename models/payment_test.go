package models

import (
	"context"
	"testing"

	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextRunningBalance(t *testing.T) {
	d := decimal.RequireFromString
	balance := decimal.Zero
	balance = NextRunningBalance(balance, d("5000"), d("0"))
	assert.True(t, balance.Equal(d("5000")))
	balance = NextRunningBalance(balance, d("0"), d("3000"))
	assert.True(t, balance.Equal(d("2000")))
	balance = NextRunningBalance(balance, d("0"), d("2000.25"))
	assert.True(t, balance.Equal(d("-0.25")))
}

func TestNewPaymentEntry_Validate(t *testing.T) {
	d := decimal.RequireFromString
	valid := NewPaymentEntry{BookingId: 1, CrAmount: d("100"), Status: PaymentEntryStatusCompleted}
	assert.NoError(t, valid.validate())

	cases := map[string]NewPaymentEntry{
		"missing booking": {CrAmount: d("100"), Status: PaymentEntryStatusCompleted},
		"negative dr":     {BookingId: 1, DrAmount: d("-1"), Status: PaymentEntryStatusCompleted},
		"both zero":       {BookingId: 1, Status: PaymentEntryStatusCompleted},
		"missing status":  {BookingId: 1, CrAmount: d("100")},
		"unknown status":  {BookingId: 1, CrAmount: d("100"), Status: "settled"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, input.validate())
		})
	}
}

func TestAppendPaymentEntry_RejectsInvalidInputWithoutQuerying(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := AppendPaymentEntry(context.Background(), db, NewPaymentEntry{BookingId: 1, Status: PaymentEntryStatusPending})
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePaymentEntryStatus(t *testing.T) {
	t.Run("Updated", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `payments` SET `status`=").
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := UpdatePaymentEntryStatus(context.Background(), db, 7, PaymentEntryStatusCompleted)
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE `payments` SET `status`=").
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := UpdatePaymentEntryStatus(context.Background(), db, 7, PaymentEntryStatusCompleted)
		assert.ErrorIs(t, err, utils.ErrorRecordNotFound)
	})

	t.Run("InvalidStatus", func(t *testing.T) {
		db, _ := newMockDB(t)
		err := UpdatePaymentEntryStatus(context.Background(), db, 7, "settled")
		assert.Error(t, err)
	})
}
