package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/internal/cart"
	"github.com/Sanjay-2k-5/FarmToHome/internal/orders"
	"github.com/Sanjay-2k-5/FarmToHome/internal/products"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
)

// DeliveryFeeCents is the flat fee added to every order.
const DeliveryFeeCents int64 = 2900

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// PlaceOrderInput captures the payload required to convert a cart.
type PlaceOrderInput struct {
	ShippingAddress string
	ContactPhone    string
	PaymentMethod   enums.PaymentMethod
	PaymentRef      *string
}

// Service executes checkout orchestration.
type Service interface {
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, input PlaceOrderInput) (*models.Order, error)
}

type service struct {
	tx          txRunner
	cartRepo    cart.Repository
	ordersRepo  orders.Repository
	productRepo products.Repository
}

// NewService builds the checkout service.
func NewService(tx txRunner, cartRepo cart.Repository, ordersRepo orders.Repository, productRepo products.Repository) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if cartRepo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{
		tx:          tx,
		cartRepo:    cartRepo,
		ordersRepo:  ordersRepo,
		productRepo: productRepo,
	}, nil
}

// PlaceOrder converts the buyer's cart into a pending order. Stock is
// deducted with guarded updates so concurrent checkouts never oversell,
// and the cart is cleared in the same transaction.
func (s *service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, input PlaceOrderInput) (*models.Order, error) {
	if buyerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping address required")
	}
	if strings.TrimSpace(input.ContactPhone) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "contact phone required")
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method").
			WithDetails(map[string]any{"payment_method": string(input.PaymentMethod)})
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		cartRepo := s.cartRepo.WithTx(tx)
		ordersRepo := s.ordersRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		lines, err := cartRepo.ListByUser(ctx, buyerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
		}
		if len(lines) == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "cart contains no items")
		}

		orderID := uuid.New()
		items := make([]models.OrderItem, 0, len(lines))
		var subtotal int64

		for _, line := range lines {
			product, err := productRepo.FindByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeBusinessRule, "product is no longer available").
						WithDetails(map[string]any{"product_id": line.ProductID.String()})
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
			}
			if !product.IsActive {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, fmt.Sprintf("%s is no longer available", product.Name)).
					WithDetails(map[string]any{"product_id": product.ID.String()})
			}

			deducted, err := productRepo.DeductStock(ctx, product.ID, line.Quantity)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deduct stock")
			}
			if !deducted {
				return pkgerrors.New(pkgerrors.CodeBusinessRule, fmt.Sprintf("insufficient stock for %s", product.Name)).
					WithDetails(map[string]any{
						"product_id": product.ID.String(),
						"requested":  line.Quantity,
						"available":  product.StockQty,
					})
			}

			lineTotal := product.PriceCents * line.Quantity
			subtotal += lineTotal
			items = append(items, models.OrderItem{
				ID:             uuid.New(),
				OrderID:        orderID,
				ProductID:      product.ID,
				FarmerID:       product.FarmerID,
				ProductName:    product.Name,
				UnitPriceCents: product.PriceCents,
				Quantity:       line.Quantity,
				LineTotalCents: lineTotal,
			})
		}

		order := &models.Order{
			ID:               orderID,
			BuyerID:          buyerID,
			Status:           enums.OrderStatusPending,
			SubtotalCents:    subtotal,
			DeliveryFeeCents: DeliveryFeeCents,
			TotalCents:       subtotal + DeliveryFeeCents,
			PaymentMethod:    input.PaymentMethod,
			PaymentStatus:    paymentStatusFor(input),
			PaymentRef:       normalizeRef(input.PaymentRef),
			ShippingAddress:  strings.TrimSpace(input.ShippingAddress),
			ContactPhone:     strings.TrimSpace(input.ContactPhone),
			Version:          1,
			Items:            items,
		}
		if err := ordersRepo.Create(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		if err := cartRepo.Clear(ctx, buyerID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
		}

		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// paymentStatusFor marks online payments with a gateway reference as
// settled up front. Everything else settles on delivery.
func paymentStatusFor(input PlaceOrderInput) enums.PaymentStatus {
	if input.PaymentMethod == enums.PaymentMethodOnline && normalizeRef(input.PaymentRef) != nil {
		return enums.PaymentStatusCompleted
	}
	return enums.PaymentStatusPending
}

func normalizeRef(ref *string) *string {
	if ref == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*ref)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
