package revenue

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

// MonthlyRevenue is one month's processed-revenue rollup row.
type MonthlyRevenue struct {
	Month       string `json:"month"`
	OrderCount  int64  `json:"order_count"`
	AmountCents int64  `json:"amount_cents"`
}

// RecordList wraps the paginated revenue records plus the next page cursor.
type RecordList struct {
	Records    []models.RevenueRecord `json:"records"`
	NextCursor string                 `json:"next_cursor,omitempty"`
}

// Repository manages persistence for the revenue ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.RevenueRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.RevenueRecord, error)
	FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.RevenueRecord, error)
	ListByStatus(ctx context.Context, status enums.RevenueStatus, params pagination.Params) (*RecordList, error)
	MarkProcessed(ctx context.Context, id, processedBy uuid.UUID, processedAt time.Time) (bool, error)
	TotalProcessedCents(ctx context.Context) (int64, error)
	PendingSummary(ctx context.Context) (int64, int64, error)
	MonthlyRollup(ctx context.Context, since time.Time) ([]MonthlyRevenue, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a revenue repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, record *models.RevenueRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.RevenueRecord, error) {
	var record models.RevenueRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByOrderID(ctx context.Context, orderID uuid.UUID) (*models.RevenueRecord, error) {
	var record models.RevenueRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) ListByStatus(ctx context.Context, status enums.RevenueStatus, params pagination.Params) (*RecordList, error) {
	limit := pagination.LimitWithBuffer(params.Limit)

	query := r.db.WithContext(ctx).
		Model(&models.RevenueRecord{}).
		Where("status = ?", status)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where(
			"(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID,
		)
	}

	var records []models.RevenueRecord
	err = query.
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	list := &RecordList{Records: records}
	pageSize := pagination.NormalizeLimit(params.Limit)
	if len(records) > pageSize {
		list.Records = records[:pageSize]
		last := list.Records[pageSize-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return list, nil
}

// MarkProcessed flips a pending record to processed. The status guard in
// the WHERE clause makes the move one-way; the boolean reports a hit.
func (r *repository) MarkProcessed(ctx context.Context, id, processedBy uuid.UUID, processedAt time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.RevenueRecord{}).
		Where("id = ? AND status = ?", id, enums.RevenueStatusPending).
		Updates(map[string]any{
			"status":       enums.RevenueStatusProcessed,
			"processed_by": processedBy,
			"processed_at": processedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) TotalProcessedCents(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.RevenueRecord{}).
		Where("status = ?", enums.RevenueStatusProcessed).
		Select("COALESCE(SUM(amount_cents), 0)").
		Scan(&total).Error
	return total, err
}

func (r *repository) PendingSummary(ctx context.Context) (int64, int64, error) {
	var row struct {
		Count       int64
		AmountCents int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.RevenueRecord{}).
		Where("status = ?", enums.RevenueStatusPending).
		Select("COUNT(*) AS count, COALESCE(SUM(amount_cents), 0) AS amount_cents").
		Scan(&row).Error
	return row.Count, row.AmountCents, err
}

// MonthlyRollup aggregates processed revenue per calendar month since the
// given time. Uses date_trunc, so it requires postgres.
func (r *repository) MonthlyRollup(ctx context.Context, since time.Time) ([]MonthlyRevenue, error) {
	var rows []MonthlyRevenue
	err := r.db.WithContext(ctx).Raw(`
		SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month,
			COUNT(*) AS order_count,
			COALESCE(SUM(amount_cents), 0) AS amount_cents
		FROM revenue_records
		WHERE status = ? AND created_at >= ?
		GROUP BY 1
		ORDER BY 1 ASC
	`, enums.RevenueStatusProcessed, since).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
