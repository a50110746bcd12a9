package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rakhulsr/afronectar/app/helpers"
	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/repositories"
	"github.com/Rakhulsr/afronectar/app/utils/metrics"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProductInput struct {
	Title       string `json:"title" validate:"required,max=50"`
	Description string `json:"description" validate:"required"`
	Origin      string `json:"origin" validate:"required,max=20"`
	CategoryID  string `json:"category_id" validate:"omitempty,uuid"`
}

type ProductService struct {
	db           *gorm.DB
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	validate     *validator.Validate
	log          *zap.Logger
	metrics      *metrics.Recorder
}

func NewProductService(db *gorm.DB, productRepo repositories.ProductRepositoryImpl, categoryRepo repositories.CategoryRepositoryImpl, validate *validator.Validate, log *zap.Logger, m *metrics.Recorder) *ProductService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ProductService{
		db:           db,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		validate:     validate,
		log:          log,
		metrics:      m,
	}
}

func (s *ProductService) Create(ctx context.Context, input ProductInput) (*models.Product, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Origin = strings.TrimSpace(input.Origin)
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}

	var product *models.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		checks := []struct {
			field string
			taken func(context.Context, string) (bool, error)
			value string
		}{
			{"title", repo.TitleTaken, input.Title},
			{"origin", repo.OriginTaken, input.Origin},
			{"description", repo.DescriptionTaken, input.Description},
		}
		for _, c := range checks {
			taken, err := c.taken(ctx, c.value)
			if err != nil {
				return fmt.Errorf("failed to check product %s: %w", c.field, err)
			}
			if taken {
				return newValidationError(c.field, fmt.Sprintf("product %s already exists", c.field))
			}
		}

		var categoryID *string
		if input.CategoryID != "" {
			category, err := s.categoryRepo.WithTx(tx).GetByID(ctx, input.CategoryID)
			if err != nil {
				return err
			}
			if category == nil {
				return newValidationError("category_id", "category does not exist")
			}
			categoryID = &category.ID
		}

		slug := helpers.GenerateSlug(input.Title, input.Origin)
		if slug == "" {
			return newValidationError("title", "title and origin do not produce a usable slug")
		}
		taken, err := repo.SlugTaken(ctx, slug)
		if err != nil {
			return err
		}
		if taken {
			return newValidationError("slug", "product slug already exists")
		}

		id := uuid.New().String()
		product = &models.Product{
			ID:          id,
			CategoryID:  categoryID,
			Title:       input.Title,
			Description: input.Description,
			Origin:      input.Origin,
			Slug:        slug,
		}
		return translateStoreError("product", id, repo.Create(ctx, product))
	})
	if err != nil {
		return nil, resolveDuplicate(ctx, err,
			uniqueCheck{"title", func(ctx context.Context) (bool, error) { return s.productRepo.TitleTaken(ctx, input.Title) }},
			uniqueCheck{"origin", func(ctx context.Context) (bool, error) { return s.productRepo.OriginTaken(ctx, input.Origin) }},
			uniqueCheck{"description", func(ctx context.Context) (bool, error) { return s.productRepo.DescriptionTaken(ctx, input.Description) }},
			uniqueCheck{"slug", func(ctx context.Context) (bool, error) {
				return s.productRepo.SlugTaken(ctx, helpers.GenerateSlug(input.Title, input.Origin))
			}},
		)
	}

	s.metrics.EntityOperation("product", "create")
	s.log.Info("Product created", zap.String("product_id", product.ID), zap.String("slug", product.Slug))
	return product, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

func (s *ProductService) GetBySlug(ctx context.Context, slug string) (*models.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", slug, err)
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// List returns all products, or those filed under categoryID. With
// includeDescendants the whole subtree below the category is searched.
func (s *ProductService) List(ctx context.Context, categoryID string, includeDescendants bool) ([]models.Product, error) {
	if categoryID == "" {
		return s.productRepo.GetProducts(ctx)
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, ErrNotFound
	}

	ids := []string{category.ID}
	if includeDescendants {
		descendants, err := s.categoryRepo.GetDescendants(ctx, category)
		if err != nil {
			return nil, err
		}
		for _, d := range descendants {
			ids = append(ids, d.ID)
		}
	}
	return s.productRepo.GetByCategoryIDs(ctx, ids)
}

// Delete removes a product that no item refers to.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.productRepo.WithTx(tx)

		product, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return ErrNotFound
		}

		items, err := repo.CountItems(ctx, id)
		if err != nil {
			return err
		}
		if items > 0 {
			return &ReferentialIntegrityError{Entity: "product", ID: id, Dependent: "items", Count: items}
		}

		return translateStoreError("product", id, repo.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.metrics.EntityOperation("product", "delete")
	s.log.Info("Product deleted", zap.String("product_id", id))
	return nil
}
