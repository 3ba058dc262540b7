package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/internal/cart"
	"github.com/Sanjay-2k-5/FarmToHome/internal/orders"
	"github.com/Sanjay-2k-5/FarmToHome/internal/products"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubCartRepo struct {
	lines   []models.CartItem
	cleared bool
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) cart.Repository { return s }

func (s *stubCartRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.CartItem, error) {
	return s.lines, nil
}

func (s *stubCartRepo) Upsert(ctx context.Context, item *models.CartItem) error { return nil }

func (s *stubCartRepo) Remove(ctx context.Context, userID, productID uuid.UUID) error { return nil }

func (s *stubCartRepo) Clear(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	s.lines = nil
	return nil
}

type stubOrdersRepo struct {
	created []*models.Order
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(ctx context.Context, order *models.Order) error {
	s.created = append(s.created, order)
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByBuyer(ctx context.Context, buyerID uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) ListByFarmer(ctx context.Context, farmerID uuid.UUID, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) ListByStatuses(ctx context.Context, statuses []enums.OrderStatus, params pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}

func (s *stubOrdersRepo) UpdateStatusVersioned(ctx context.Context, orderID uuid.UUID, expectedVersion int64, updates map[string]any) (bool, error) {
	return false, nil
}

func (s *stubOrdersRepo) AppendStatusChange(ctx context.Context, change *models.OrderStatusChange) error {
	return nil
}

func (s *stubOrdersRepo) ListStatusChanges(ctx context.Context, orderID uuid.UUID) ([]models.OrderStatusChange, error) {
	return nil, nil
}

type stubProductsRepo struct {
	products map[uuid.UUID]*models.Product
	deducted map[uuid.UUID]int64
}

func newStubProductsRepo() *stubProductsRepo {
	return &stubProductsRepo{
		products: make(map[uuid.UUID]*models.Product),
		deducted: make(map[uuid.UUID]int64),
	}
}

func (s *stubProductsRepo) WithTx(tx *gorm.DB) products.Repository { return s }

func (s *stubProductsRepo) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	return product, nil
}

func (s *stubProductsRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func (s *stubProductsRepo) List(ctx context.Context, params pagination.Params, filters products.ListFilters) (*products.ProductList, error) {
	return &products.ProductList{}, nil
}

func (s *stubProductsRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return nil
}

func (s *stubProductsRepo) DeductStock(ctx context.Context, productID uuid.UUID, qty int64) (bool, error) {
	product, ok := s.products[productID]
	if !ok || !product.IsActive || product.StockQty < qty {
		return false, nil
	}
	product.StockQty -= qty
	s.deducted[productID] += qty
	return true, nil
}

func (s *stubProductsRepo) RestockStock(ctx context.Context, productID uuid.UUID, qty int64) error {
	return nil
}

type fixture struct {
	cart     *stubCartRepo
	orders   *stubOrdersRepo
	products *stubProductsRepo
	svc      Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cartRepo := &stubCartRepo{}
	ordersRepo := &stubOrdersRepo{}
	productsRepo := newStubProductsRepo()
	svc, err := NewService(stubTxRunner{}, cartRepo, ordersRepo, productsRepo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return &fixture{cart: cartRepo, orders: ordersRepo, products: productsRepo, svc: svc}
}

func (f *fixture) addProduct(name string, priceCents, stock int64, active bool) *models.Product {
	product := &models.Product{
		ID:         uuid.New(),
		FarmerID:   uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		StockQty:   stock,
		Unit:       "kg",
		IsActive:   active,
	}
	f.products.products[product.ID] = product
	return product
}

func (f *fixture) addCartLine(userID uuid.UUID, product *models.Product, qty int64) {
	f.cart.lines = append(f.cart.lines, models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Quantity:  qty,
	})
}

func codInput() PlaceOrderInput {
	return PlaceOrderInput{
		ShippingAddress: "12 Market Lane, Coimbatore",
		ContactPhone:    "+919876543210",
		PaymentMethod:   enums.PaymentMethodCOD,
	}
}

func TestPlaceOrderConvertsCart(t *testing.T) {
	f := newFixture(t)
	buyerID := uuid.New()
	rice := f.addProduct("Basmati Rice", 5000, 10, true)
	honey := f.addProduct("Raw Honey", 45000, 3, true)
	f.addCartLine(buyerID, rice, 2)
	f.addCartLine(buyerID, honey, 1)

	order, err := f.svc.PlaceOrder(context.Background(), buyerID, codInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	if order.Status != enums.OrderStatusPending {
		t.Fatalf("new orders start pending, got %s", order.Status)
	}
	if order.SubtotalCents != 55000 {
		t.Fatalf("expected subtotal 55000, got %d", order.SubtotalCents)
	}
	if order.DeliveryFeeCents != DeliveryFeeCents {
		t.Fatalf("expected delivery fee %d, got %d", DeliveryFeeCents, order.DeliveryFeeCents)
	}
	if order.TotalCents != 55000+DeliveryFeeCents {
		t.Fatalf("expected total %d, got %d", 55000+DeliveryFeeCents, order.TotalCents)
	}
	if order.Version != 1 {
		t.Fatalf("new orders start at version 1, got %d", order.Version)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected two item snapshots, got %d", len(order.Items))
	}

	if f.products.deducted[rice.ID] != 2 || f.products.deducted[honey.ID] != 1 {
		t.Fatalf("stock deductions missing: %+v", f.products.deducted)
	}
	if !f.cart.cleared {
		t.Fatal("cart must be cleared after checkout")
	}
	if len(f.orders.created) != 1 {
		t.Fatalf("expected one persisted order, got %d", len(f.orders.created))
	}
}

func TestPlaceOrderSnapshotsCatalogFields(t *testing.T) {
	f := newFixture(t)
	buyerID := uuid.New()
	rice := f.addProduct("Basmati Rice", 5000, 10, true)
	f.addCartLine(buyerID, rice, 2)

	order, err := f.svc.PlaceOrder(context.Background(), buyerID, codInput())
	if err != nil {
		t.Fatalf("place order: %v", err)
	}

	item := order.Items[0]
	if item.ProductName != "Basmati Rice" || item.UnitPriceCents != 5000 {
		t.Fatalf("snapshot must copy catalog fields, got %+v", item)
	}
	if item.FarmerID != rice.FarmerID {
		t.Fatal("snapshot must carry the farmer id")
	}
	if item.LineTotalCents != 10000 {
		t.Fatalf("expected line total 10000, got %d", item.LineTotalCents)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.PlaceOrder(context.Background(), uuid.New(), codInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	f := newFixture(t)
	buyerID := uuid.New()
	rice := f.addProduct("Basmati Rice", 5000, 1, true)
	f.addCartLine(buyerID, rice, 5)

	_, err := f.svc.PlaceOrder(context.Background(), buyerID, codInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected business rule violation, got %v", err)
	}
	if len(f.orders.created) != 0 {
		t.Fatal("failed checkout must not persist an order")
	}
	if f.cart.cleared {
		t.Fatal("failed checkout must not clear the cart")
	}
}

func TestPlaceOrderInactiveProduct(t *testing.T) {
	f := newFixture(t)
	buyerID := uuid.New()
	rice := f.addProduct("Basmati Rice", 5000, 10, false)
	f.addCartLine(buyerID, rice, 1)

	_, err := f.svc.PlaceOrder(context.Background(), buyerID, codInput())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeBusinessRule {
		t.Fatalf("expected business rule violation, got %v", err)
	}
}

func TestPlaceOrderPaymentStatus(t *testing.T) {
	ref := "pay_9f31"

	cases := []struct {
		name   string
		method enums.PaymentMethod
		ref    *string
		want   enums.PaymentStatus
	}{
		{"cod settles on delivery", enums.PaymentMethodCOD, nil, enums.PaymentStatusPending},
		{"online with reference settles up front", enums.PaymentMethodOnline, &ref, enums.PaymentStatusCompleted},
		{"online without reference stays pending", enums.PaymentMethodOnline, nil, enums.PaymentStatusPending},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			buyerID := uuid.New()
			rice := f.addProduct("Basmati Rice", 5000, 10, true)
			f.addCartLine(buyerID, rice, 1)

			input := codInput()
			input.PaymentMethod = tc.method
			input.PaymentRef = tc.ref

			order, err := f.svc.PlaceOrder(context.Background(), buyerID, input)
			if err != nil {
				t.Fatalf("place order: %v", err)
			}
			if order.PaymentStatus != tc.want {
				t.Fatalf("expected payment status %s, got %s", tc.want, order.PaymentStatus)
			}
		})
	}
}

func TestPlaceOrderValidatesInput(t *testing.T) {
	f := newFixture(t)
	buyerID := uuid.New()
	rice := f.addProduct("Basmati Rice", 5000, 10, true)
	f.addCartLine(buyerID, rice, 1)

	input := codInput()
	input.ShippingAddress = "   "
	if _, err := f.svc.PlaceOrder(context.Background(), buyerID, input); err == nil {
		t.Fatal("blank shipping address must fail")
	}

	input = codInput()
	input.ContactPhone = ""
	if _, err := f.svc.PlaceOrder(context.Background(), buyerID, input); err == nil {
		t.Fatal("missing contact phone must fail")
	}

	input = codInput()
	input.PaymentMethod = "card"
	if _, err := f.svc.PlaceOrder(context.Background(), buyerID, input); err == nil {
		t.Fatal("unknown payment method must fail")
	}
}
