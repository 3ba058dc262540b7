package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
	updates  []map[string]any
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	s.products[product.ID] = product
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *product
	return &copied, nil
}

func (s *stubProductsRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*ProductList, error) {
	list := &ProductList{}
	for _, product := range s.products {
		list.Products = append(list.Products, *product)
	}
	return list, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	s.updates = append(s.updates, updates)
	product, ok := s.products[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if active, ok := updates["is_active"].(bool); ok {
		product.IsActive = active
	}
	if name, ok := updates["name"].(string); ok {
		product.Name = name
	}
	if price, ok := updates["price_cents"].(int64); ok {
		product.PriceCents = price
	}
	return nil
}

func (s *stubProductsRepo) DeductStock(ctx context.Context, productID uuid.UUID, qty int64) (bool, error) {
	product, ok := s.products[productID]
	if !ok || !product.IsActive || product.StockQty < qty {
		return false, nil
	}
	product.StockQty -= qty
	return true, nil
}

func (s *stubProductsRepo) RestockStock(ctx context.Context, productID uuid.UUID, qty int64) error {
	if product, ok := s.products[productID]; ok {
		product.StockQty += qty
	}
	return nil
}

func TestCreateValidatesInput(t *testing.T) {
	repo := newStubProductsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	ctx := context.Background()
	farmerID := uuid.New()

	cases := []struct {
		name  string
		input CreateInput
	}{
		{"missing farmer", CreateInput{Name: "Tomatoes", PriceCents: 100}},
		{"missing name", CreateInput{FarmerID: farmerID, PriceCents: 100}},
		{"zero price", CreateInput{FarmerID: farmerID, Name: "Tomatoes"}},
		{"negative stock", CreateInput{FarmerID: farmerID, Name: "Tomatoes", PriceCents: 100, StockQty: -1}},
		{"bad category", CreateInput{FarmerID: farmerID, Name: "Tomatoes", PriceCents: 100, Category: "bogus"}},
	}

	for _, tc := range cases {
		if _, err := svc.Create(ctx, tc.input); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	product, err := svc.Create(ctx, CreateInput{
		FarmerID:   farmerID,
		Name:       "  Tomatoes  ",
		PriceCents: 100,
		StockQty:   5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.Name != "Tomatoes" {
		t.Fatalf("expected trimmed name, got %q", product.Name)
	}
	if product.Category != enums.ProductCategoryOther {
		t.Fatalf("expected default category, got %q", product.Category)
	}
	if product.Unit != "kg" {
		t.Fatalf("expected default unit, got %q", product.Unit)
	}
}

func TestUpdateRequiresOwnership(t *testing.T) {
	repo := newStubProductsRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	owner := uuid.New()
	product, err := svc.Create(ctx, CreateInput{FarmerID: owner, Name: "Milk", PriceCents: 500})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	newPrice := int64(600)
	_, err = svc.Update(ctx, UpdateInput{
		ProductID:  product.ID,
		ActorID:    uuid.New(),
		ActorRole:  enums.UserRoleFarmer,
		PriceCents: &newPrice,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	// Admins may edit any product.
	updated, err := svc.Update(ctx, UpdateInput{
		ProductID:  product.ID,
		ActorID:    uuid.New(),
		ActorRole:  enums.UserRoleAdmin,
		PriceCents: &newPrice,
	})
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if updated.PriceCents != 600 {
		t.Fatalf("expected updated price, got %d", updated.PriceCents)
	}
}

func TestDeactivateIsIdempotent(t *testing.T) {
	repo := newStubProductsRepo()
	svc, _ := NewService(repo)
	ctx := context.Background()

	owner := uuid.New()
	product, err := svc.Create(ctx, CreateInput{FarmerID: owner, Name: "Eggs", PriceCents: 300})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.Deactivate(ctx, product.ID, owner, enums.UserRoleFarmer); err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	updates := len(repo.updates)

	if err := svc.Deactivate(ctx, product.ID, owner, enums.UserRoleFarmer); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
	if len(repo.updates) != updates {
		t.Fatalf("expected no additional update for already-inactive product")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := newStubProductsRepo()
	svc, _ := NewService(repo)

	_, err := svc.GetByID(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
