package repositories

import (
	"context"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

type PropertyRepositoryImpl interface {
	WithTx(tx *gorm.DB) PropertyRepositoryImpl
	Create(ctx context.Context, property *models.Property) error
	FindByValue(ctx context.Context, value string) (*models.Property, error)
	Attach(ctx context.Context, item *models.Item, property *models.Property) error
	GetByItem(ctx context.Context, itemID string) ([]models.Property, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepositoryImpl {
	return &propertyRepository{db}
}

func (r *propertyRepository) WithTx(tx *gorm.DB) PropertyRepositoryImpl {
	return &propertyRepository{tx}
}

func (r *propertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.WithContext(ctx).Create(property).Error
}

func (r *propertyRepository) FindByValue(ctx context.Context, value string) (*models.Property, error) {
	var property models.Property
	found, err := first(ctx, r.db, &property, "value = ?", value)
	if err != nil || !found {
		return nil, err
	}
	return &property, nil
}

// Attach links property to item; linking an already linked pair is a no-op.
func (r *propertyRepository) Attach(ctx context.Context, item *models.Item, property *models.Property) error {
	return r.db.WithContext(ctx).Model(item).Association("Properties").Append(property)
}

func (r *propertyRepository) GetByItem(ctx context.Context, itemID string) ([]models.Property, error) {
	var properties []models.Property
	err := r.db.WithContext(ctx).
		Joins("JOIN item_properties ip ON ip.property_id = properties.id").
		Where("ip.item_id = ?", itemID).
		Order("properties.name ASC").
		Find(&properties).Error
	return properties, err
}
