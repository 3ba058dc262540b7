package revenue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Sanjay-2k-5/FarmToHome/pkg/db/models"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/enums"
	pkgerrors "github.com/Sanjay-2k-5/FarmToHome/pkg/errors"
	"github.com/Sanjay-2k-5/FarmToHome/pkg/pagination"
)

// rollupMonths is how far back the stats endpoint aggregates.
const rollupMonths = 6

var centsPerUnit = decimal.NewFromInt(100)

// Stats summarizes the revenue ledger for the admin dashboard.
type Stats struct {
	TotalProcessedCents int64            `json:"total_processed_cents"`
	TotalProcessed      decimal.Decimal  `json:"total_processed"`
	PendingCount        int64            `json:"pending_count"`
	PendingAmountCents  int64            `json:"pending_amount_cents"`
	PendingAmount       decimal.Decimal  `json:"pending_amount"`
	Monthly             []MonthlyRevenue `json:"monthly"`
}

// Service exposes the admin-facing revenue ledger operations.
type Service interface {
	ListPending(ctx context.Context, params pagination.Params) (*RecordList, error)
	Process(ctx context.Context, recordID, adminID uuid.UUID) (*models.RevenueRecord, error)
	Stats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo Repository
}

// NewService wires a revenue service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("revenue repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListPending(ctx context.Context, params pagination.Params) (*RecordList, error) {
	list, err := s.repo.ListByStatus(ctx, enums.RevenueStatusPending, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending revenue")
	}
	return list, nil
}

// Process marks a pending record processed. The move is one-way and a
// repeat request conflicts rather than silently succeeding.
func (s *service) Process(ctx context.Context, recordID, adminID uuid.UUID) (*models.RevenueRecord, error) {
	if recordID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "revenue record id required")
	}
	if adminID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	record, err := s.repo.FindByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "revenue record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load revenue record")
	}
	if record.Status == enums.RevenueStatusProcessed {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "revenue record already processed")
	}

	now := time.Now().UTC()
	updated, err := s.repo.MarkProcessed(ctx, recordID, adminID, now)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark revenue processed")
	}
	if !updated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "revenue record already processed")
	}

	record.Status = enums.RevenueStatusProcessed
	record.ProcessedBy = &adminID
	record.ProcessedAt = &now
	return record, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	totalCents, err := s.repo.TotalProcessedCents(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "total processed revenue")
	}
	pendingCount, pendingCents, err := s.repo.PendingSummary(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pending revenue summary")
	}

	since := time.Now().UTC().AddDate(0, -rollupMonths, 0)
	monthly, err := s.repo.MonthlyRollup(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "monthly revenue rollup")
	}

	return &Stats{
		TotalProcessedCents: totalCents,
		TotalProcessed:      decimal.NewFromInt(totalCents).Div(centsPerUnit),
		PendingCount:        pendingCount,
		PendingAmountCents:  pendingCents,
		PendingAmount:       decimal.NewFromInt(pendingCents).Div(centsPerUnit),
		Monthly:             monthly,
	}, nil
}

// Recorder creates the ledger entry inside the delivery transaction.
type Recorder struct {
	repo Repository
}

// NewRecorder builds the recorder used by the order transition engine.
func NewRecorder(repo Repository) (*Recorder, error) {
	if repo == nil {
		return nil, fmt.Errorf("revenue repository required")
	}
	return &Recorder{repo: repo}, nil
}

// Record inserts exactly one pending record for the order. A second call
// for the same order conflicts before ever touching the unique index.
func (r *Recorder) Record(ctx context.Context, tx *gorm.DB, order *models.Order) error {
	if order == nil || order.ID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "order required")
	}
	repo := r.repo.WithTx(tx)

	_, err := repo.FindByOrderID(ctx, order.ID)
	if err == nil {
		return pkgerrors.New(pkgerrors.CodeStateConflict, "revenue already recorded for order").
			WithDetails(map[string]any{"order_id": order.ID.String()})
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load revenue record")
	}

	record := &models.RevenueRecord{
		ID:          uuid.New(),
		OrderID:     order.ID,
		AmountCents: order.TotalCents,
		Status:      enums.RevenueStatusPending,
	}
	if err := repo.Create(ctx, record); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create revenue record")
	}
	return nil
}
