package workflow

import (
	"context"
	"testing"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/models"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPubSubSettlementNotifier_BuildsMessage(t *testing.T) {
	var got config.EarningsSettledMessage
	n := &PubSubSettlementNotifier{publish: func(ctx context.Context, msg config.EarningsSettledMessage) (string, error) {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		got = msg
		return "msg-1", nil
	}}

	ctx := utils.SetCorrelationIdInContext(context.Background(), "cid-9")
	paidAt := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	err := n.EarningsSettled(ctx, models.Discrepancy{
		AdminEarningsId:  11,
		BookingId:        1,
		BookingReference: "BK-1001",
		TotalCrAmount:    decimal.RequireFromString("5000.5"),
	}, paidAt)
	require.NoError(t, err)

	assert.Equal(t, 11, got.AdminEarningsId)
	assert.Equal(t, "BK-1001", got.BookingReference)
	assert.Equal(t, "5000.50", got.TotalCrAmount)
	assert.Equal(t, "cid-9", got.CorrelationId)
	assert.True(t, got.PaymentDate.Equal(paidAt))
}
