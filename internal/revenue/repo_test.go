package revenue

import (
	"context"
	"testing"
	"time"

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
		CREATE TABLE revenue_records (
			id TEXT PRIMARY KEY,
			order_id TEXT NOT NULL UNIQUE,
			amount_cents INTEGER NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			processed_by TEXT,
			processed_at DATETIME,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error)

	return conn
}

func seedRecord(t *testing.T, db *gorm.DB, status enums.RevenueStatus, amount int64, createdAt time.Time) *models.RevenueRecord {
	t.Helper()
	record := &models.RevenueRecord{
		ID:          uuid.New(),
		OrderID:     uuid.New(),
		AmountCents: amount,
		Status:      status,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func TestMarkProcessed_OneWay(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	record := seedRecord(t, db, enums.RevenueStatusPending, 12900, time.Now().UTC())
	adminID := uuid.New()

	ok, err := repo.MarkProcessed(ctx, record.ID, adminID, time.Now().UTC())
	require.NoError(t, err)
	assert.True(t, ok)

	// The status guard rejects a second attempt.
	ok, err = repo.MarkProcessed(ctx, record.ID, uuid.New(), time.Now().UTC())
	require.NoError(t, err)
	assert.False(t, ok)

	reloaded, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.RevenueStatusProcessed, reloaded.Status)
	require.NotNil(t, reloaded.ProcessedBy)
	assert.Equal(t, adminID, *reloaded.ProcessedBy)
	assert.NotNil(t, reloaded.ProcessedAt)
}

func TestRecorder_OnePerOrder(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	recorder, err := NewRecorder(repo)
	require.NoError(t, err)

	order := &models.Order{ID: uuid.New(), TotalCents: 57900}
	require.NoError(t, recorder.Record(ctx, nil, order))

	record, err := repo.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(57900), record.AmountCents)
	assert.Equal(t, enums.RevenueStatusPending, record.Status)

	err = recorder.Record(ctx, nil, order)
	require.Error(t, err)
}

func TestListByStatus_PaginatesPendingOnly(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		seedRecord(t, db, enums.RevenueStatusPending, 10000, base.Add(time.Duration(i)*time.Minute))
	}
	seedRecord(t, db, enums.RevenueStatusProcessed, 9999, base)

	first, err := repo.ListByStatus(ctx, enums.RevenueStatusPending, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, first.Records, 2)
	require.NotEmpty(t, first.NextCursor)

	second, err := repo.ListByStatus(ctx, enums.RevenueStatusPending, pagination.Params{Limit: 2, Cursor: first.NextCursor})
	require.NoError(t, err)
	require.Len(t, second.Records, 1)
	assert.Empty(t, second.NextCursor)
}

func TestSummaries(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now().UTC()
	seedRecord(t, db, enums.RevenueStatusProcessed, 10000, now)
	seedRecord(t, db, enums.RevenueStatusProcessed, 2500, now)
	seedRecord(t, db, enums.RevenueStatusPending, 7000, now)

	total, err := repo.TotalProcessedCents(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12500), total)

	count, amount, err := repo.PendingSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(7000), amount)
}
