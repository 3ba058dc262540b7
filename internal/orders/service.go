package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/metrics"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

// defaultReason mirrors what is stored when a reject/cancel arrives without one.
const defaultReason = "No reason provided"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StockRestocker returns sold stock when an order is cancelled or rejected.
type StockRestocker interface {
	Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int64) error
}

// RevenueRecorder creates the single revenue record for a delivered order.
type RevenueRecorder interface {
	Record(ctx context.Context, tx *gorm.DB, order *models.Order) error
}

// Service defines order lifecycle operations beyond repository reads.
type Service interface {
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
	GetDetail(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDetail, error)
	ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	ListForFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	DeliveryQueue(ctx context.Context, params pagination.Params) (*OrderList, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	stock   StockRestocker
	revenue RevenueRecorder
	metrics *metrics.APIMetrics
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, stock StockRestocker, revenue RevenueRecorder, apiMetrics *metrics.APIMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if stock == nil {
		return nil, fmt.Errorf("stock restocker required")
	}
	if revenue == nil {
		return nil, fmt.Errorf("revenue recorder required")
	}
	return &service{
		repo:    repo,
		tx:      tx,
		stock:   stock,
		revenue: revenue,
		metrics: apiMetrics,
	}, nil
}

func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if input.Actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if !input.ToStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status").
			WithDetails(map[string]any{"status": string(input.ToStatus)})
	}
	if !roleMayRequest(input.Actor.Role, input.ToStatus) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "role may not request this status")
	}

	reason := normalizeReason(input.Reason, input.ToStatus)

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}

		if err := s.checkActorScope(order, input); err != nil {
			return err
		}

		// A repeat of the current status is an idempotent success.
		if order.Status == input.ToStatus {
			result = order
			return nil
		}

		if input.ExpectedVersion != nil && *input.ExpectedVersion != order.Version {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently").
				WithDetails(map[string]any{"expected_version": *input.ExpectedVersion, "version": order.Version})
		}

		if !canTransition(order.Status, input.ToStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition disallowed").
				WithDetails(map[string]any{"from": string(order.Status), "to": string(input.ToStatus)})
		}

		updates := map[string]any{"status": input.ToStatus}
		if reason != nil {
			updates["reason"] = *reason
		}

		switch input.ToStatus {
		case enums.OrderStatusCancelled, enums.OrderStatusRejected:
			for _, item := range order.Items {
				if err := s.stock.Restock(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return err
				}
			}
			if order.PaymentStatus == enums.PaymentStatusCompleted {
				updates["payment_status"] = enums.PaymentStatusRefunded
			}
		case enums.OrderStatusDelivered:
			now := time.Now().UTC()
			updates["delivered_at"] = now
			if order.PaymentMethod == enums.PaymentMethodCOD {
				updates["payment_status"] = enums.PaymentStatusCompleted
			}
			if err := s.revenue.Record(ctx, tx, order); err != nil {
				return err
			}
		}

		updated, err := repo.UpdateStatusVersioned(ctx, order.ID, order.Version, updates)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}
		if !updated {
			return pkgerrors.New(pkgerrors.CodeConflict, "order was modified concurrently")
		}

		change := &models.OrderStatusChange{
			OrderID:        order.ID,
			FromStatus:     order.Status,
			ToStatus:       input.ToStatus,
			ChangedBy:      input.Actor.ID,
			ChangedByRole:  input.Actor.Role,
			Reason:         reason,
			IdempotencyKey: input.IdempotencyKey,
		}
		if err := repo.AppendStatusChange(ctx, change); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append status history")
		}

		order.Status = input.ToStatus
		order.Version++
		if reason != nil {
			order.Reason = reason
		}
		result = order
		return nil
	})
	if err != nil {
		s.metrics.IncTransition(input.ToStatus.String(), "failure")
		return nil, err
	}

	s.metrics.IncTransition(input.ToStatus.String(), "success")
	return result, nil
}

func (s *service) checkActorScope(order *models.Order, input TransitionInput) error {
	switch input.Actor.Role {
	case enums.UserRoleConsumer:
		if order.BuyerID != input.Actor.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
		}
		// Buyers may only cancel orders the farmer has not picked up yet.
		if order.Status != enums.OrderStatusPending && order.Status != input.ToStatus {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "order can no longer be cancelled by the buyer")
		}
	case enums.UserRoleFarmer:
		if !orderContainsFarmer(order, input.Actor.ID) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not contain this farmer's items")
		}
	}
	return nil
}

func (s *service) GetDetail(ctx context.Context, orderID uuid.UUID, actor Actor) (*OrderDetail, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if actor.ID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	switch actor.Role {
	case enums.UserRoleConsumer:
		if order.BuyerID != actor.ID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to buyer")
		}
	case enums.UserRoleFarmer:
		if !orderContainsFarmer(order, actor.ID) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not contain this farmer's items")
		}
	}

	history, err := s.repo.ListStatusChanges(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load status history")
	}

	return &OrderDetail{Order: order, History: history}, nil
}

func (s *service) ListForBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByBuyer(ctx, buyerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list buyer orders")
	}
	return list, nil
}

func (s *service) ListForFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if farmerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByFarmer(ctx, farmerID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list farmer orders")
	}
	return list, nil
}

// DeliveryQueue lists orders in the fulfilment stages delivery agents work.
func (s *service) DeliveryQueue(ctx context.Context, params pagination.Params) (*OrderList, error) {
	statuses := []enums.OrderStatus{
		enums.OrderStatusAccepted,
		enums.OrderStatusProcessing,
		enums.OrderStatusShipped,
	}
	list, err := s.repo.ListByStatuses(ctx, statuses, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list delivery queue")
	}
	return list, nil
}

func normalizeReason(reason *string, target enums.OrderStatus) *string {
	if reason != nil {
		trimmed := strings.TrimSpace(*reason)
		if trimmed != "" {
			return &trimmed
		}
	}
	if target == enums.OrderStatusRejected || target == enums.OrderStatusCancelled {
		fallback := defaultReason
		return &fallback
	}
	return nil
}

func orderContainsFarmer(order *models.Order, farmerID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.FarmerID == farmerID {
			return true
		}
	}
	return false
}

type stockRestockerImpl struct{}

// NewStockRestocker exposes the default restock implementation.
func NewStockRestocker() StockRestocker {
	return stockRestockerImpl{}
}

func (stockRestockerImpl) Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int64) error {
	if qty <= 0 {
		return nil
	}
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for restock")
	}

	res := tx.WithContext(ctx).Exec(`
		UPDATE products
		SET stock_qty = stock_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, productID)
	if res.Error != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, res.Error, "restock product")
	}
	return nil
}
