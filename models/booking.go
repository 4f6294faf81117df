package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Booking is owned by the booking, payment and check-in flows. The commission sync only reads it.
type Booking struct {
	ID               int                  `gorm:"primary_key" json:"id"`
	BookingReference string               `gorm:"size:50;uniqueIndex;not null" json:"booking_reference"`
	PropertyId       int                  `gorm:"index" json:"property_id"`
	OwnerId          int                  `gorm:"index" json:"owner_id"`
	TotalAmount      decimal.Decimal      `gorm:"type:decimal(20,4);default:0" json:"total_amount"`
	Status           BookingStatus        `gorm:"size:20;index;not null;default:pending" json:"status"`
	PaymentStatus    BookingPaymentStatus `gorm:"size:20;index;not null;default:pending" json:"payment_status"`
	CreatedAt        time.Time            `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time            `gorm:"autoUpdateTime" json:"updated_at"`
}

// AdminEarnings holds the platform commission for one booking and its own settlement status.
// Unique on booking_id (1:1 with Booking).
type AdminEarnings struct {
	ID             int                   `gorm:"primary_key" json:"id"`
	BookingId      int                   `gorm:"uniqueIndex;not null" json:"booking_id"`
	CommissionRate decimal.Decimal       `gorm:"type:decimal(7,4);default:0" json:"commission_rate"`
	NetCommission  decimal.Decimal       `gorm:"type:decimal(20,4);default:0" json:"net_commission"`
	PaymentStatus  EarningsPaymentStatus `gorm:"size:20;index;not null;default:pending" json:"payment_status"`
	PaymentDate    *time.Time            `json:"payment_date"`
	CreatedAt      time.Time             `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time             `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }

func (AdminEarnings) TableName() string { return "admin_earnings" }
