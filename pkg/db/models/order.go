package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
)

// Order is the buyer-facing order aggregate. Version participates in the
// optimistic concurrency check on status transitions.
type Order struct {
	ID               uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID          uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null;index"`
	Status           enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	SubtotalCents    int64               `gorm:"column:subtotal_cents;not null"`
	DeliveryFeeCents int64               `gorm:"column:delivery_fee_cents;not null"`
	TotalCents       int64               `gorm:"column:total_cents;not null"`
	PaymentMethod    enums.PaymentMethod `gorm:"column:payment_method;type:text;not null;default:'cod'"`
	PaymentStatus    enums.PaymentStatus `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	PaymentRef       *string             `gorm:"column:payment_ref"`
	ShippingAddress  string              `gorm:"column:shipping_address;type:text;not null"`
	ContactPhone     string              `gorm:"column:contact_phone;type:text;not null"`
	Reason           *string             `gorm:"column:reason"`
	Version          int64               `gorm:"column:version;not null;default:1"`
	DeliveredAt      *time.Time          `gorm:"column:delivered_at"`
	Items            []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	StatusChanges    []OrderStatusChange `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
