package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
)

// Actor identifies who is driving a transition. Role decides which target
// statuses may be requested; ID decides ownership checks.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// TransitionInput captures one status-change request.
type TransitionInput struct {
	OrderID         uuid.UUID
	ToStatus        enums.OrderStatus
	Actor           Actor
	Reason          *string
	IdempotencyKey  *string
	ExpectedVersion *int64
}

// ListFilters describe the inputs supported by the order lists.
type ListFilters struct {
	Status   *enums.OrderStatus
	DateFrom *time.Time
	DateTo   *time.Time
}

// OrderSummary exposes the aggregated fields returned in order lists.
type OrderSummary struct {
	ID            uuid.UUID           `json:"id"`
	Status        enums.OrderStatus   `json:"status"`
	TotalCents    int64               `json:"total_cents"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	PaymentStatus enums.PaymentStatus `json:"payment_status"`
	ItemCount     int64               `json:"item_count"`
	CreatedAt     time.Time           `json:"created_at"`
}

// OrderList wraps the paginated orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderSummary `json:"orders"`
	NextCursor string         `json:"next_cursor,omitempty"`
}

// OrderDetail bundles the order aggregate with its history for detail views.
type OrderDetail struct {
	Order   *models.Order              `json:"order"`
	History []models.OrderStatusChange `json:"history"`
}
