package models

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// ReconciliationReport is a follow-up row for an operator: a commission sync failure
// or a payment entry whose stored running balance drifted.
type ReconciliationReport struct {
	ID               int                     `gorm:"primary_key" json:"id"`
	CheckType        ReconciliationCheckType `gorm:"size:50;index;not null" json:"check_type"`
	EntityType       string                  `gorm:"size:50;index;not null" json:"entity_type"` // AdminEarnings, Payment
	EntityId         int                     `gorm:"index;not null" json:"entity_id"`
	BookingReference string                  `gorm:"size:50;index" json:"booking_reference"`
	Details          string                  `gorm:"type:text" json:"details"`
	CorrelationId    string                  `gorm:"size:64;index" json:"correlation_id"`
	CreatedAt        time.Time               `gorm:"autoCreateTime" json:"created_at"`
}

func (ReconciliationReport) TableName() string { return "reconciliation_reports" }

func SaveReconciliationReports(ctx context.Context, db *gorm.DB, reports []ReconciliationReport) error {
	if len(reports) == 0 {
		return nil
	}
	return db.WithContext(ctx).CreateInBatches(&reports, 100).Error
}
