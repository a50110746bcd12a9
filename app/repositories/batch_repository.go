package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

// StockSummary counts the units of an item by lifecycle state.
type StockSummary struct {
	Sellable int64 `json:"sellable"`
	Expired  int64 `json:"expired"`
	Sold     int64 `json:"sold"`
	Produced int64 `json:"produced"`
}

type BatchRepositoryImpl interface {
	WithTx(tx *gorm.DB) BatchRepositoryImpl
	Create(ctx context.Context, batch *models.Batch) error
	GetByID(ctx context.Context, id string) (*models.Batch, error)
	GetByItem(ctx context.Context, itemID string) ([]models.Batch, error)
	NextSellable(ctx context.Context, itemID string, now time.Time) (*models.Batch, error)
	CountExpiredWithStock(ctx context.Context, itemID string, now time.Time) (int64, error)
	DecrementAvailable(ctx context.Context, batchID string) (bool, error)
	MarkSoldIfEmpty(ctx context.Context, batchID string) error
	Summary(ctx context.Context, itemID string, now time.Time) (*StockSummary, error)
}

type batchRepository struct {
	db *gorm.DB
}

func NewBatchRepository(db *gorm.DB) BatchRepositoryImpl {
	return &batchRepository{db}
}

func (r *batchRepository) WithTx(tx *gorm.DB) BatchRepositoryImpl {
	return &batchRepository{tx}
}

func (r *batchRepository) Create(ctx context.Context, batch *models.Batch) error {
	return r.db.WithContext(ctx).Omit("Item", "CreatedBy").Create(batch).Error
}

func (r *batchRepository) GetByID(ctx context.Context, id string) (*models.Batch, error) {
	var batch models.Batch
	found, err := first(ctx, r.db, &batch, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) GetByItem(ctx context.Context, itemID string) ([]models.Batch, error) {
	var batches []models.Batch
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("expire_on ASC").
		Find(&batches).Error
	return batches, err
}

// NextSellable returns the unexpired batch with stock left that expires
// first, or nil when there is none.
func (r *batchRepository) NextSellable(ctx context.Context, itemID string, now time.Time) (*models.Batch, error) {
	var batch models.Batch
	found, err := first(ctx, r.db.Order("expire_on ASC").Order("created_at ASC"), &batch,
		"item_id = ? AND available_quantity > 0 AND sold = ? AND expire_on > ?", itemID, false, now)
	if err != nil || !found {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepository) CountExpiredWithStock(ctx context.Context, itemID string, now time.Time) (int64, error) {
	return count(ctx, r.db, &models.Batch{}, "item_id = ? AND available_quantity > 0 AND sold = ? AND expire_on <= ?", itemID, false, now)
}

// DecrementAvailable takes one unit from the batch with a single conditional
// update. It returns false when the batch had nothing left, which happens
// when a concurrent sale won the last unit.
func (r *batchRepository) DecrementAvailable(ctx context.Context, batchID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ? AND available_quantity > 0 AND sold = ?", batchID, false).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", 1))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement batch %s: %w", batchID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (r *batchRepository) MarkSoldIfEmpty(ctx context.Context, batchID string) error {
	return r.db.WithContext(ctx).
		Model(&models.Batch{}).
		Where("id = ? AND available_quantity = 0", batchID).
		UpdateColumn("sold", true).Error
}

func (r *batchRepository) Summary(ctx context.Context, itemID string, now time.Time) (*StockSummary, error) {
	batches, err := r.GetByItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	summary := &StockSummary{}
	for _, batch := range batches {
		summary.Produced += int64(batch.Quantity)
		summary.Sold += int64(batch.Quantity - batch.AvailableQuantity)
		switch batch.State(now) {
		case models.BatchActive:
			summary.Sellable += int64(batch.AvailableQuantity)
		case models.BatchExpired:
			summary.Expired += int64(batch.AvailableQuantity)
		}
	}
	return summary, nil
}
