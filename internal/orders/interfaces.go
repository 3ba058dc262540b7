package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

// Repository defines persistence operations for the orders tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListByFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListByStatuses(ctx context.Context, statuses []enums.OrderStatus, params pagination.Params) (*OrderList, error)
	UpdateStatusVersioned(ctx context.Context, orderID uuid.UUID, expectedVersion int64, updates map[string]any) (bool, error)
	AppendStatusChange(ctx context.Context, change *models.OrderStatusChange) error
	ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusChange, error)
}
