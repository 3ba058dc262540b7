package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	productsvc "github.com/Sanjay-2k-5/FarmToHome/internal/products"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

type stubProductService struct {
	lastCreate  productsvc.CreateInput
	lastFilters productsvc.ListFilters
	product     *models.Product
	err         error
}

func (s *stubProductService) Create(ctx context.Context, input productsvc.CreateInput) (*models.Product, error) {
	s.lastCreate = input
	return s.product, s.err
}

func (s *stubProductService) Update(ctx context.Context, input productsvc.UpdateInput) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) Deactivate(ctx context.Context, productID, actorID uuid.UUID, actorRole enums.UserRole) error {
	return s.err
}

func (s *stubProductService) GetByID(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	return s.product, s.err
}

func (s *stubProductService) List(ctx context.Context, params pagination.Params, filters productsvc.ListFilters) (*productsvc.ProductList, error) {
	s.lastFilters = filters
	if s.err != nil {
		return nil, s.err
	}
	return &productsvc.ProductList{}, nil
}

func TestFarmerCreateProductSuccess(t *testing.T) {
	farmerID := uuid.New()
	svc := &stubProductService{product: &models.Product{ID: uuid.New(), Name: "Tomatoes"}}
	handler := FarmerCreateProduct(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/farmer/products",
		`{"name":"Tomatoes","category":"vegetables","price_cents":450,"stock_qty":100,"unit":"kg"}`,
		farmerID, enums.UserRoleFarmer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastCreate.FarmerID != farmerID {
		t.Fatalf("expected farmer %s got %s", farmerID, svc.lastCreate.FarmerID)
	}
	if svc.lastCreate.Category != enums.ProductCategoryVegetables {
		t.Fatalf("expected vegetables got %s", svc.lastCreate.Category)
	}
}

func TestFarmerCreateProductRejectsBadCategory(t *testing.T) {
	svc := &stubProductService{}
	handler := FarmerCreateProduct(svc, nil)

	req := authedRequest(http.MethodPost, "/api/v1/farmer/products",
		`{"name":"Tomatoes","category":"widgets","price_cents":450}`,
		uuid.New(), enums.UserRoleFarmer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestFarmerListProductsIncludesInactive(t *testing.T) {
	farmerID := uuid.New()
	svc := &stubProductService{}
	handler := FarmerListProducts(svc, nil)

	req := authedRequest(http.MethodGet, "/api/v1/farmer/products", "", farmerID, enums.UserRoleFarmer)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !svc.lastFilters.IncludeInactive {
		t.Fatal("expected inactive rows to be requested")
	}
	if svc.lastFilters.FarmerID == nil || *svc.lastFilters.FarmerID != farmerID {
		t.Fatalf("expected farmer filter %s got %+v", farmerID, svc.lastFilters.FarmerID)
	}
}

func TestGetProductNotFound(t *testing.T) {
	svc := &stubProductService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}
	handler := GetProduct(svc, nil)

	productID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil)
	req = withURLParam(req, "productID", productID.String())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestListProductsParsesFilters(t *testing.T) {
	svc := &stubProductService{}
	handler := ListProducts(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products?category=fruits&q=apple", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastFilters.Category == nil || *svc.lastFilters.Category != enums.ProductCategoryFruits {
		t.Fatalf("expected fruits filter got %+v", svc.lastFilters.Category)
	}
	if svc.lastFilters.Query != "apple" {
		t.Fatalf("expected query apple got %q", svc.lastFilters.Query)
	}
	var envelope struct {
		Data productsvc.ProductList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}
