package repositories

import (
	"context"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	WithTx(tx *gorm.DB) ProductRepositoryImpl
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	GetProducts(ctx context.Context) ([]models.Product, error)
	GetByCategoryIDs(ctx context.Context, categoryIDs []string) ([]models.Product, error)
	TitleTaken(ctx context.Context, title string) (bool, error)
	OriginTaken(ctx context.Context, origin string) (bool, error)
	DescriptionTaken(ctx context.Context, description string) (bool, error)
	SlugTaken(ctx context.Context, slug string) (bool, error)
	CountItems(ctx context.Context, id string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) WithTx(tx *gorm.DB) ProductRepositoryImpl {
	return &productRepository{tx}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	found, err := first(ctx, p.db.Preload("Category").Preload("Items"), &product, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	found, err := first(ctx, p.db.Preload("Category").Preload("Items"), &product, "slug = ?", slug)
	if err != nil || !found {
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) GetProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).Order("created_at DESC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) GetByCategoryIDs(ctx context.Context, categoryIDs []string) ([]models.Product, error) {
	var products []models.Product
	if len(categoryIDs) == 0 {
		return products, nil
	}
	err := p.db.WithContext(ctx).
		Where("category_id IN ?", categoryIDs).
		Order("title ASC").
		Find(&products).Error
	return products, err
}

func (p *productRepository) TitleTaken(ctx context.Context, title string) (bool, error) {
	return exists(ctx, p.db, &models.Product{}, "title = ?", title)
}

func (p *productRepository) OriginTaken(ctx context.Context, origin string) (bool, error) {
	return exists(ctx, p.db, &models.Product{}, "origin = ?", origin)
}

func (p *productRepository) DescriptionTaken(ctx context.Context, description string) (bool, error) {
	return exists(ctx, p.db, &models.Product{}, "description_digest = ?", models.DescriptionDigest(description))
}

func (p *productRepository) SlugTaken(ctx context.Context, slug string) (bool, error) {
	return exists(ctx, p.db, &models.Product{}, "slug = ?", slug)
}

func (p *productRepository) CountItems(ctx context.Context, id string) (int64, error) {
	return count(ctx, p.db, &models.Item{}, "product_id = ?", id)
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
