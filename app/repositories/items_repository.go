package repositories

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

type ItemRepositoryImpl interface {
	WithTx(tx *gorm.DB) ItemRepositoryImpl
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetBySlug(ctx context.Context, slug string) (*models.Item, error)
	GetByProduct(ctx context.Context, productID string) ([]models.Item, error)
	SkuTaken(ctx context.Context, sku string) (bool, error)
	BarcodeTaken(ctx context.Context, barcode uint64) (bool, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	Exists(ctx context.Context, id string) (bool, error)
	DeleteCascade(ctx context.Context, id string) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepositoryImpl {
	return &itemRepository{db}
}

func (r *itemRepository) WithTx(tx *gorm.DB) ItemRepositoryImpl {
	return &itemRepository{tx}
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item) error {
	return r.db.WithContext(ctx).Omit("Product", "Properties").Create(item).Error
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var item models.Item
	found, err := first(ctx, r.db.Preload("Product").Preload("Properties"), &item, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	var item models.Item
	found, err := first(ctx, r.db.Preload("Product").Preload("Properties"), &item, "slug = ?", slug)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) GetByProduct(ctx context.Context, productID string) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Preload("Properties").
		Where("product_id = ?", productID).
		Order("sku ASC").
		Find(&items).Error
	return items, err
}

func (r *itemRepository) SkuTaken(ctx context.Context, sku string) (bool, error) {
	return exists(ctx, r.db, &models.Item{}, "sku = ?", sku)
}

func (r *itemRepository) BarcodeTaken(ctx context.Context, barcode uint64) (bool, error) {
	return exists(ctx, r.db, &models.Item{}, "barcode = ?", barcode)
}

func (r *itemRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, r.db, &models.Item{}, "slug = ?", slug)
}

func (r *itemRepository) Exists(ctx context.Context, id string) (bool, error) {
	return exists(ctx, r.db, &models.Item{}, "id = ?", id)
}

// DeleteCascade removes the item together with its sales, batches and
// property links. Callers run it inside a transaction.
func (r *itemRepository) DeleteCascade(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)

	if err := db.Where("item_id = ?", id).Delete(&models.Sale{}).Error; err != nil {
		return fmt.Errorf("failed to delete sales of item %s: %w", id, err)
	}
	if err := db.Where("item_id = ?", id).Delete(&models.Batch{}).Error; err != nil {
		return fmt.Errorf("failed to delete batches of item %s: %w", id, err)
	}
	if err := db.Exec("DELETE FROM item_properties WHERE item_id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to unlink properties of item %s: %w", id, err)
	}
	if err := db.Delete(&models.Item{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete item %s: %w", id, err)
	}
	return nil
}
