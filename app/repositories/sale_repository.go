package repositories

import (
	"context"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

type SaleRepositoryImpl interface {
	WithTx(tx *gorm.DB) SaleRepositoryImpl
	Create(ctx context.Context, sale *models.Sale) error
	GetByItem(ctx context.Context, itemID string) ([]models.Sale, error)
	CountByItem(ctx context.Context, itemID string) (int64, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepositoryImpl {
	return &saleRepository{db}
}

func (r *saleRepository) WithTx(tx *gorm.DB) SaleRepositoryImpl {
	return &saleRepository{tx}
}

func (r *saleRepository) Create(ctx context.Context, sale *models.Sale) error {
	return r.db.WithContext(ctx).Omit("Item", "Batch", "CreatedBy").Create(sale).Error
}

func (r *saleRepository) GetByItem(ctx context.Context, itemID string) ([]models.Sale, error) {
	var sales []models.Sale
	err := r.db.WithContext(ctx).Where("item_id = ?", itemID).Order("created_at ASC").Find(&sales).Error
	return sales, err
}

func (r *saleRepository) CountByItem(ctx context.Context, itemID string) (int64, error) {
	return count(ctx, r.db, &models.Sale{}, "item_id = ?", itemID)
}
