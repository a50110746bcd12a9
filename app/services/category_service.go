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

type CategoryInput struct {
	Title       string `json:"title" validate:"required,max=50"`
	Description string `json:"description" validate:"max=500"`
	ParentID    string `json:"parent_id" validate:"omitempty,uuid"`
}

// CategoryTree is a category with its position in the tree resolved.
type CategoryTree struct {
	Category    *models.Category  `json:"category"`
	Ancestors   []models.Category `json:"ancestors"`
	Descendants []models.Category `json:"descendants"`
	Depth       int               `json:"depth"`
}

type CategoryService struct {
	db           *gorm.DB
	categoryRepo repositories.CategoryRepositoryImpl
	validate     *validator.Validate
	log          *zap.Logger
	metrics      *metrics.Recorder
}

func NewCategoryService(db *gorm.DB, categoryRepo repositories.CategoryRepositoryImpl, validate *validator.Validate, log *zap.Logger, m *metrics.Recorder) *CategoryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CategoryService{
		db:           db,
		categoryRepo: categoryRepo,
		validate:     validate,
		log:          log,
		metrics:      m,
	}
}

// ensureRoot returns the root sentinel, creating it on first use.
func (s *CategoryService) ensureRoot(ctx context.Context, repo repositories.CategoryRepositoryImpl) (*models.Category, error) {
	root, err := repo.GetRoot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load root category: %w", err)
	}
	if root != nil {
		return root, nil
	}

	id := uuid.New().String()
	root = &models.Category{
		ID:          id,
		Title:       models.RootCategoryTitle,
		Description: "Catalog root",
		Slug:        models.RootCategorySlug,
		Path:        "/" + id + "/",
		Depth:       0,
	}
	inserted, err := repo.CreateIfAbsent(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to create root category: %w", err)
	}
	if !inserted {
		// another writer created it first
		root, err = repo.GetRoot(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load root category: %w", err)
		}
		if root == nil {
			return nil, fmt.Errorf("root category conflicts with an existing %q category", models.RootCategorySlug)
		}
		return root, nil
	}
	s.log.Info("Root category created", zap.String("category_id", id))
	return root, nil
}

// Root returns the root sentinel category.
func (s *CategoryService) Root(ctx context.Context) (*models.Category, error) {
	var root *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		root, err = s.ensureRoot(ctx, s.categoryRepo.WithTx(tx))
		return err
	})
	return root, err
}

func categorySlug(parent *models.Category, title string) string {
	if parent == nil || parent.IsRoot() {
		return helpers.GenerateSlug(title)
	}
	return helpers.GenerateSlug(parent.Slug, title)
}

func (s *CategoryService) Create(ctx context.Context, input CategoryInput) (*models.Category, error) {
	input.Title = strings.TrimSpace(input.Title)
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}

	var (
		category *models.Category
		slug     string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)

		root, err := s.ensureRoot(ctx, repo)
		if err != nil {
			return err
		}

		parent := root
		if input.ParentID != "" {
			parent, err = repo.GetByID(ctx, input.ParentID)
			if err != nil {
				return fmt.Errorf("failed to load parent category: %w", err)
			}
			if parent == nil {
				return newValidationError("parent_id", "parent category does not exist")
			}
		}

		taken, err := repo.TitleTaken(ctx, input.Title, "")
		if err != nil {
			return err
		}
		if taken {
			return newValidationError("title", "category title already exists")
		}

		slug = categorySlug(parent, input.Title)
		if slug == "" {
			return newValidationError("title", "title does not produce a usable slug")
		}
		taken, err = repo.SlugTaken(ctx, slug, "")
		if err != nil {
			return err
		}
		if taken {
			return newValidationError("slug", "category slug already exists")
		}

		id := uuid.New().String()
		category = &models.Category{
			ID:          id,
			ParentID:    &parent.ID,
			Title:       input.Title,
			Description: input.Description,
			Slug:        slug,
			Path:        parent.ChildPath(id),
			Depth:       parent.Depth + 1,
		}
		return translateStoreError("category", id, repo.Create(ctx, category))
	})
	if err != nil {
		return nil, resolveDuplicate(ctx, err,
			uniqueCheck{"title", func(ctx context.Context) (bool, error) { return s.categoryRepo.TitleTaken(ctx, input.Title, "") }},
			uniqueCheck{"slug", func(ctx context.Context) (bool, error) { return s.categoryRepo.SlugTaken(ctx, slug, "") }},
		)
	}

	s.metrics.EntityOperation("category", "create")
	s.log.Info("Category created",
		zap.String("category_id", category.ID),
		zap.String("slug", category.Slug),
		zap.Int("depth", category.Depth))
	return category, nil
}

func (s *CategoryService) Get(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", id, err)
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get category %s: %w", slug, err)
	}
	if category == nil {
		return nil, ErrNotFound
	}
	return category, nil
}

func (s *CategoryService) All(ctx context.Context) ([]models.Category, error) {
	return s.categoryRepo.GetAll(ctx)
}

// Ancestors returns the categories above id, root first.
func (s *CategoryService) Ancestors(ctx context.Context, id string) ([]models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.GetByIDs(ctx, category.AncestorIDs())
}

func (s *CategoryService) Descendants(ctx context.Context, id string) ([]models.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.categoryRepo.GetDescendants(ctx, category)
}

func (s *CategoryService) Depth(ctx context.Context, id string) (int, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return category.Depth, nil
}

func (s *CategoryService) Tree(ctx context.Context, id string) (*CategoryTree, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ancestors, err := s.categoryRepo.GetByIDs(ctx, category.AncestorIDs())
	if err != nil {
		return nil, err
	}
	descendants, err := s.categoryRepo.GetDescendants(ctx, category)
	if err != nil {
		return nil, err
	}
	return &CategoryTree{
		Category:    category,
		Ancestors:   ancestors,
		Descendants: descendants,
		Depth:       category.Depth,
	}, nil
}

// Move re-parents a category. The paths, depths and slugs of the whole
// subtree follow it. Moving a category under itself or one of its
// descendants is refused.
func (s *CategoryService) Move(ctx context.Context, id, newParentID string) (*models.Category, error) {
	var category *models.Category
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)

		var err error
		category, err = repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrNotFound
		}
		if category.IsRoot() {
			return newValidationError("parent_id", "the root category cannot be moved")
		}

		var parent *models.Category
		if newParentID == "" {
			parent, err = s.ensureRoot(ctx, repo)
		} else {
			parent, err = repo.GetByID(ctx, newParentID)
		}
		if err != nil {
			return err
		}
		if parent == nil {
			return newValidationError("parent_id", "parent category does not exist")
		}
		if parent.ID == category.ID || strings.HasPrefix(parent.Path, category.Path) {
			return newValidationError("parent_id", "category cannot become its own ancestor")
		}
		if category.ParentID != nil && *category.ParentID == parent.ID {
			return nil
		}

		descendants, err := repo.GetDescendants(ctx, category)
		if err != nil {
			return err
		}

		oldPath := category.Path
		category.ParentID = &parent.ID
		category.Path = parent.ChildPath(category.ID)
		category.Depth = parent.Depth + 1
		category.Slug = categorySlug(parent, category.Title)
		if err := s.checkSlug(ctx, repo, category); err != nil {
			return err
		}
		if err := repo.Update(ctx, category); err != nil {
			return translateStoreError("slug", category.ID, err)
		}

		slugs := map[string]string{category.ID: category.Slug}
		for i := range descendants {
			d := &descendants[i]
			d.Path = category.Path + strings.TrimPrefix(d.Path, oldPath)
			d.Depth = strings.Count(strings.Trim(d.Path, "/"), "/")
			d.Slug = helpers.GenerateSlug(slugs[*d.ParentID], d.Title)
			if err := s.checkSlug(ctx, repo, d); err != nil {
				return err
			}
			if err := repo.Update(ctx, d); err != nil {
				return translateStoreError("slug", d.ID, err)
			}
			slugs[d.ID] = d.Slug
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.EntityOperation("category", "move")
	s.log.Info("Category moved",
		zap.String("category_id", category.ID),
		zap.String("parent_id", *category.ParentID),
		zap.String("slug", category.Slug))
	return category, nil
}

func (s *CategoryService) checkSlug(ctx context.Context, repo repositories.CategoryRepositoryImpl, category *models.Category) error {
	taken, err := repo.SlugTaken(ctx, category.Slug, category.ID)
	if err != nil {
		return err
	}
	if taken {
		return newValidationError("slug", fmt.Sprintf("category slug %q already exists", category.Slug))
	}
	return nil
}

// Delete removes a category that has neither child categories nor products.
func (s *CategoryService) Delete(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.categoryRepo.WithTx(tx)

		category, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return ErrNotFound
		}
		if category.IsRoot() {
			return newValidationError("category_id", "the root category cannot be deleted")
		}

		children, err := repo.CountChildren(ctx, id)
		if err != nil {
			return err
		}
		if children > 0 {
			return &ReferentialIntegrityError{Entity: "category", ID: id, Dependent: "child categories", Count: children}
		}

		products, err := repo.CountProducts(ctx, id)
		if err != nil {
			return err
		}
		if products > 0 {
			return &ReferentialIntegrityError{Entity: "category", ID: id, Dependent: "products", Count: products}
		}

		return translateStoreError("category", id, repo.Delete(ctx, id))
	})
	if err != nil {
		return err
	}

	s.metrics.EntityOperation("category", "delete")
	s.log.Info("Category deleted", zap.String("category_id", id))
	return nil
}
