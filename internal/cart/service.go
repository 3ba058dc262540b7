package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// ItemView is one cart line with its product snapshot for display.
type ItemView struct {
	ProductID      uuid.UUID `json:"product_id"`
	ProductName    string    `json:"product_name"`
	UnitPriceCents int64     `json:"unit_price_cents"`
	Unit           string    `json:"unit"`
	Quantity       int64     `json:"quantity"`
	LineTotalCents int64     `json:"line_total_cents"`
	StockQty       int64     `json:"stock_qty"`
	IsActive       bool      `json:"is_active"`
	ImageURL       *string   `json:"image_url,omitempty"`
}

// View is the buyer's cart with computed totals.
type View struct {
	Items         []ItemView `json:"items"`
	SubtotalCents int64      `json:"subtotal_cents"`
}

// Service exposes cart operations for the authenticated buyer.
type Service interface {
	Get(ctx context.Context, userID uuid.UUID) (*View, error)
	Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*View, error)
	Remove(ctx context.Context, userID, productID uuid.UUID) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	repo     Repository
	products productLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo Repository, products productLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	return &service{repo: repo, products: products}, nil
}

func (s *service) Get(ctx context.Context, userID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(items), nil
}

// Upsert sets the quantity of one cart line. A non-positive quantity
// removes the line instead.
func (s *service) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity <= 0 {
		return s.Remove(ctx, userID, productID)
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "product is no longer available").
			WithDetails(map[string]any{"product_id": productID.String()})
	}
	if quantity > product.StockQty {
		return nil, pkgerrors.New(pkgerrors.CodeBusinessRule, "requested quantity exceeds available stock").
			WithDetails(map[string]any{
				"product_id": productID.String(),
				"requested":  quantity,
				"available":  product.StockQty,
			})
	}

	item := &models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert cart line")
	}

	return s.Get(ctx, userID)
}

func (s *service) Remove(ctx context.Context, userID, productID uuid.UUID) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if err := s.repo.Remove(ctx, userID, productID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	return s.Get(ctx, userID)
}

func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if err := s.repo.Clear(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func buildView(items []models.CartItem) *View {
	view := &View{Items: make([]ItemView, 0, len(items))}
	for _, item := range items {
		line := ItemView{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		if item.Product != nil {
			line.ProductName = item.Product.Name
			line.UnitPriceCents = item.Product.PriceCents
			line.Unit = item.Product.Unit
			line.StockQty = item.Product.StockQty
			line.IsActive = item.Product.IsActive
			line.ImageURL = item.Product.ImageURL
			line.LineTotalCents = item.Product.PriceCents * item.Quantity
		}
		view.Items = append(view.Items, line)
		view.SubtotalCents += line.LineTotalCents
	}
	return view
}
