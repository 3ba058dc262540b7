package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots a product at order time. Name and unit price are
// copied so later catalog edits never change a placed order.
type OrderItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	FarmerID       uuid.UUID `gorm:"column:farmer_id;type:uuid;not null;index"`
	ProductName    string    `gorm:"column:product_name;type:text;not null"`
	UnitPriceCents int64     `gorm:"column:unit_price_cents;not null"`
	Quantity       int64     `gorm:"column:quantity;not null"`
	LineTotalCents int64     `gorm:"column:line_total_cents;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}
