package workflow

import (
	"context"
	"time"

	"bitbucket.org/mmdatafocus/bookings_backend/config"
	"bitbucket.org/mmdatafocus/bookings_backend/models"
	"bitbucket.org/mmdatafocus/bookings_backend/utils"
)

// PubSubSettlementNotifier publishes an EarningsSettledMessage to PUBSUB_EARNINGS_TOPIC.
type PubSubSettlementNotifier struct {
	publish func(ctx context.Context, msg config.EarningsSettledMessage) (string, error)
}

func NewPubSubSettlementNotifier() *PubSubSettlementNotifier {
	return &PubSubSettlementNotifier{publish: config.PublishEarningsSettled}
}

func (n *PubSubSettlementNotifier) EarningsSettled(ctx context.Context, d models.Discrepancy, paidAt time.Time) error {
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := n.publish(ctx, config.EarningsSettledMessage{
		AdminEarningsId:  d.AdminEarningsId,
		BookingId:        d.BookingId,
		BookingReference: d.BookingReference,
		TotalCrAmount:    d.TotalCrAmount.StringFixed(2),
		PaymentDate:      paidAt,
		CorrelationId:    cid,
	})
	return err
}
