package repositories

import (
	"context"
	"fmt"

	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepositoryImpl interface {
	WithTx(tx *gorm.DB) CategoryRepositoryImpl
	Create(ctx context.Context, category *models.Category) error
	CreateIfAbsent(ctx context.Context, category *models.Category) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	GetRoot(ctx context.Context) (*models.Category, error)
	GetAll(ctx context.Context) ([]models.Category, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Category, error)
	GetDescendants(ctx context.Context, category *models.Category) ([]models.Category, error)
	TitleTaken(ctx context.Context, title, excludeID string) (bool, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	CountChildren(ctx context.Context, id string) (int64, error)
	CountProducts(ctx context.Context, id string) (int64, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id string) error
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) WithTx(tx *gorm.DB) CategoryRepositoryImpl {
	return &categoryRepository{db: tx}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

// CreateIfAbsent inserts the category unless a row with the same unique key
// exists. It reports whether the row was inserted.
func (r *categoryRepository) CreateIfAbsent(ctx context.Context, category *models.Category) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(category)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	found, err := first(ctx, r.db, &category, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	found, err := first(ctx, r.db, &category, "slug = ?", slug)
	if err != nil || !found {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetRoot(ctx context.Context) (*models.Category, error) {
	var category models.Category
	found, err := first(ctx, r.db, &category, "parent_id IS NULL")
	if err != nil || !found {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("path ASC").Find(&categories).Error
	if err != nil {
		return nil, err
	}
	return categories, nil
}

// GetByIDs returns the categories ordered by depth, shallowest first.
func (r *categoryRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Category, error) {
	var categories []models.Category
	if len(ids) == 0 {
		return categories, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("depth ASC").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) GetDescendants(ctx context.Context, category *models.Category) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("path LIKE ? AND id <> ?", category.Path+"%", category.ID).
		Order("depth ASC").
		Order("path ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get descendants of %s: %w", category.ID, err)
	}
	return categories, nil
}

func (r *categoryRepository) TitleTaken(ctx context.Context, title, excludeID string) (bool, error) {
	return exists(ctx, r.db, &models.Category{}, "title = ? AND id <> ?", title, excludeID)
}

func (r *categoryRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	return exists(ctx, r.db, &models.Category{}, "slug = ? AND id <> ?", slug, excludeID)
}

func (r *categoryRepository) CountChildren(ctx context.Context, id string) (int64, error) {
	return count(ctx, r.db, &models.Category{}, "parent_id = ?", id)
}

func (r *categoryRepository) CountProducts(ctx context.Context, id string) (int64, error) {
	return count(ctx, r.db, &models.Product{}, "category_id = ?", id)
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}
