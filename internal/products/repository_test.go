package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`
		CREATE TABLE products (
			id TEXT PRIMARY KEY,
			farmer_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			category TEXT NOT NULL DEFAULT 'other',
			price_cents INTEGER NOT NULL,
			stock_qty INTEGER NOT NULL DEFAULT 0,
			unit TEXT NOT NULL DEFAULT 'kg',
			image_url TEXT,
			is_active BOOLEAN NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error)

	return conn
}

func seedProduct(t *testing.T, db *gorm.DB, stock int64) *models.Product {
	t.Helper()
	product := &models.Product{
		ID:         uuid.New(),
		FarmerID:   uuid.New(),
		Name:       "Alphonso Mangoes",
		Category:   enums.ProductCategoryFruits,
		PriceCents: 24900,
		StockQty:   stock,
		Unit:       "kg",
		IsActive:   true,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestDeductStock_GuardsAgainstOverdraw(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5)

	ok, err := repo.DeductStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.DeductStock(ctx, product.ID, 3)
	require.NoError(t, err)
	assert.False(t, ok, "deduction beyond stock must not qualify")

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.StockQty)
}

func TestDeductStock_IgnoresInactiveProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 5)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", product.ID).Update("is_active", false).Error)

	ok, err := repo.DeductStock(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRestockStock_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	product := seedProduct(t, db, 2)

	ok, err := repo.DeductStock(ctx, product.ID, 2)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.RestockStock(ctx, product.ID, 2))

	reloaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), reloaded.StockQty, "deduct then restock must conserve stock")
}

func TestList_PaginatesActiveProducts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		seedProduct(t, db, 10)
	}
	inactive := seedProduct(t, db, 10)
	require.NoError(t, db.Model(&models.Product{}).Where("id = ?", inactive.ID).Update("is_active", false).Error)

	page, err := repo.List(ctx, pagination.Params{Limit: 2}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := repo.List(ctx, pagination.Params{Limit: 2, Cursor: page.NextCursor}, ListFilters{})
	require.NoError(t, err)
	assert.Len(t, rest.Products, 1)
	assert.Empty(t, rest.NextCursor)
}
