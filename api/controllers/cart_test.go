package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	cartsvc "github.com/Sanjay-2k-5/FarmToHome/internal/cart"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
)

type stubCartService struct {
	lastUserID    uuid.UUID
	lastProductID uuid.UUID
	lastQuantity  int64
	view          *cartsvc.View
	err           error
}

func (s *stubCartService) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.View, error) {
	s.lastUserID = userID
	return s.view, s.err
}

func (s *stubCartService) Upsert(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*cartsvc.View, error) {
	s.lastUserID = userID
	s.lastProductID = productID
	s.lastQuantity = quantity
	return s.view, s.err
}

func (s *stubCartService) Remove(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.View, error) {
	s.lastUserID = userID
	s.lastProductID = productID
	return s.view, s.err
}

func (s *stubCartService) Clear(ctx context.Context, userID uuid.UUID) error {
	s.lastUserID = userID
	return s.err
}

func TestCartFetchSuccess(t *testing.T) {
	userID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{SubtotalCents: 1200}}
	handler := CartFetch(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/cart", "", userID, enums.UserRoleConsumer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastUserID != userID {
		t.Fatalf("expected user %s got %s", userID, svc.lastUserID)
	}
}

func TestCartFetchRequiresAuthContext(t *testing.T) {
	handler := CartFetch(&stubCartService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestCartUpsertPassesQuantity(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartUpsert(svc, nil)

	req := authedRequest(http.MethodPut, "/api/v1/cart/items",
		`{"product_id":"`+productID.String()+`","quantity":3}`, userID, enums.UserRoleConsumer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastProductID != productID || svc.lastQuantity != 3 {
		t.Fatalf("unexpected upsert args: %s qty=%d", svc.lastProductID, svc.lastQuantity)
	}
}

func TestCartUpsertRejectsMissingProduct(t *testing.T) {
	handler := CartUpsert(&stubCartService{}, nil)

	req := authedRequest(http.MethodPut, "/api/v1/cart/items", `{"quantity":3}`, uuid.New(), enums.UserRoleConsumer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCartUpsertSurfacesStockError(t *testing.T) {
	svc := &stubCartService{err: pkgerrors.New(pkgerrors.CodeBusinessRule, "requested quantity exceeds stock")}
	handler := CartUpsert(svc, nil)

	req := authedRequest(http.MethodPut, "/api/v1/cart/items",
		`{"product_id":"`+uuid.NewString()+`","quantity":900}`, uuid.New(), enums.UserRoleConsumer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestCartRemoveItemParsesParam(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	svc := &stubCartService{view: &cartsvc.View{}}
	handler := CartRemoveItem(svc, nil)

	req := authedRequest(http.MethodDelete, "/api/v1/cart/items/"+productID.String(), "", userID, enums.UserRoleConsumer)
	req = withURLParam(req, "productID", productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastProductID != productID {
		t.Fatalf("expected product %s got %s", productID, svc.lastProductID)
	}
}
