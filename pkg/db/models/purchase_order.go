package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PurchaseOrderRow is one completed purchase from the order store, together
// with the creative touches its pre-purchase journey produced.
type PurchaseOrderRow struct {
	ID                uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	VisitorID         string          `gorm:"column:visitor_id;type:text;not null;index"`
	OrderedAt         time.Time       `gorm:"column:ordered_at;not null"`
	FinalPaymentCents int64           `gorm:"column:final_payment_cents;not null"`
	Touches           []OrderTouchRow `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (PurchaseOrderRow) TableName() string { return "purchase_orders" }

func (r *PurchaseOrderRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// OrderTouchRow records one distinct creative exposure preceding an order,
// in first-seen order. Position is 0-based; the highest position is the
// last touch.
type OrderTouchRow struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	Position     int       `gorm:"column:position;not null"`
	CreativeName string    `gorm:"column:creative_name;type:text;not null"`
	UTMSource    string    `gorm:"column:utm_source;type:text;not null"`
	UTMMedium    string    `gorm:"column:utm_medium;type:text;not null"`
	UTMCampaign  string    `gorm:"column:utm_campaign;type:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (OrderTouchRow) TableName() string { return "order_touches" }

func (r *OrderTouchRow) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
