package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
)

// RevenueRecord is the ledger entry created when an order is delivered.
// The unique index on OrderID enforces at most one record per order.
type RevenueRecord struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex"`
	AmountCents int64               `gorm:"column:amount_cents;not null"`
	Status      enums.RevenueStatus `gorm:"column:status;type:text;not null;default:'pending'"`
	ProcessedBy *uuid.UUID          `gorm:"column:processed_by;type:uuid"`
	ProcessedAt *time.Time          `gorm:"column:processed_at"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
