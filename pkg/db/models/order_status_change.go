package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
)

// OrderStatusChange is one append-only history entry. Rows are inserted in
// the same transaction as the transition they record and never updated.
type OrderStatusChange struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID        uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	FromStatus     enums.OrderStatus `gorm:"column:from_status;type:text;not null"`
	ToStatus       enums.OrderStatus `gorm:"column:to_status;type:text;not null"`
	ChangedBy      uuid.UUID         `gorm:"column:changed_by;type:uuid;not null"`
	ChangedByRole  enums.UserRole    `gorm:"column:changed_by_role;type:text;not null"`
	Reason         *string           `gorm:"column:reason"`
	IdempotencyKey *string           `gorm:"column:idempotency_key"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
}
