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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ItemInput struct {
	ProductID    string          `json:"product_id" validate:"required,uuid"`
	Price        decimal.Decimal `json:"price" validate:"gte=0,lte=1000"`
	Sku          string          `json:"sku" validate:"required,max=15"`
	Barcode      uint64          `json:"barcode" validate:"barcode"`
	Stars        decimal.Decimal `json:"stars" validate:"gte=0,lte=5"`
	Manufactured bool            `json:"manufactured"`
}

type PropertyInput struct {
	ItemID string `json:"item_id" validate:"required,uuid"`
	Name   string `json:"name" validate:"required,max=50"`
	Value  string `json:"value" validate:"required,max=50"`
}

type ItemService struct {
	db           *gorm.DB
	itemRepo     repositories.ItemRepositoryImpl
	productRepo  repositories.ProductRepositoryImpl
	propertyRepo repositories.PropertyRepositoryImpl
	saleRepo     repositories.SaleRepositoryImpl
	validate     *validator.Validate
	log          *zap.Logger
	metrics      *metrics.Recorder
}

func NewItemService(
	db *gorm.DB,
	itemRepo repositories.ItemRepositoryImpl,
	productRepo repositories.ProductRepositoryImpl,
	propertyRepo repositories.PropertyRepositoryImpl,
	saleRepo repositories.SaleRepositoryImpl,
	validate *validator.Validate,
	log *zap.Logger,
	m *metrics.Recorder,
) *ItemService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ItemService{
		db:           db,
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		propertyRepo: propertyRepo,
		saleRepo:     saleRepo,
		validate:     validate,
		log:          log,
		metrics:      m,
	}
}

func (s *ItemService) Create(ctx context.Context, input ItemInput) (*models.Item, error) {
	input.Sku = strings.TrimSpace(input.Sku)
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}
	if !withinScale(input.Price, moneyScale) {
		return nil, newValidationError("price", "item's price allows at most 2 decimal places")
	}
	if !withinScale(input.Stars, moneyScale) {
		return nil, newValidationError("stars", "item's rating allows at most 2 decimal places")
	}

	var (
		item *models.Item
		slug string
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.itemRepo.WithTx(tx)

		product, err := s.productRepo.WithTx(tx).GetByID(ctx, input.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return newValidationError("product_id", "product does not exist")
		}

		taken, err := repo.SkuTaken(ctx, input.Sku)
		if err != nil {
			return err
		}
		if taken {
			return newValidationError("sku", "item sku already exists")
		}

		taken, err = repo.BarcodeTaken(ctx, input.Barcode)
		if err != nil {
			return err
		}
		if taken {
			return newValidationError("barcode", "item barcode already exists")
		}

		slug = helpers.GenerateSlug(product.Slug, input.Sku)
		taken, err = repo.SlugTaken(ctx, slug)
		if err != nil {
			return err
		}
		if taken {
			return newValidationError("slug", "item slug already exists")
		}

		id := uuid.New().String()
		item = &models.Item{
			ID:           id,
			ProductID:    product.ID,
			Price:        input.Price,
			Sku:          input.Sku,
			Slug:         slug,
			Manufactured: input.Manufactured,
			Barcode:      input.Barcode,
			Stars:        input.Stars,
		}
		return translateStoreError("item", id, repo.Create(ctx, item))
	})
	if err != nil {
		return nil, resolveDuplicate(ctx, err,
			uniqueCheck{"sku", func(ctx context.Context) (bool, error) { return s.itemRepo.SkuTaken(ctx, input.Sku) }},
			uniqueCheck{"barcode", func(ctx context.Context) (bool, error) { return s.itemRepo.BarcodeTaken(ctx, input.Barcode) }},
			uniqueCheck{"slug", func(ctx context.Context) (bool, error) { return s.itemRepo.SlugTaken(ctx, slug) }},
		)
	}

	s.metrics.EntityOperation("item", "create")
	s.log.Info("Item created",
		zap.String("item_id", item.ID),
		zap.String("sku", item.Sku),
		zap.String("price", item.Price.StringFixed(2)))
	return item, nil
}

func (s *ItemService) Get(ctx context.Context, id string) (*models.Item, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", id, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *ItemService) GetBySlug(ctx context.Context, slug string) (*models.Item, error) {
	item, err := s.itemRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get item %s: %w", slug, err)
	}
	if item == nil {
		return nil, ErrNotFound
	}
	return item, nil
}

func (s *ItemService) ListByProduct(ctx context.Context, productID string) ([]models.Item, error) {
	return s.itemRepo.GetByProduct(ctx, productID)
}

// AttachProperty links the property carrying value to the item, creating the
// property row the first time the value is seen.
func (s *ItemService) AttachProperty(ctx context.Context, input PropertyInput) (*models.Property, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Value = strings.TrimSpace(input.Value)
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}

	var property *models.Property
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		props := s.propertyRepo.WithTx(tx)

		item, err := s.itemRepo.WithTx(tx).GetByID(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			return ErrNotFound
		}

		property, err = props.FindByValue(ctx, input.Value)
		if err != nil {
			return err
		}
		if property == nil {
			property = &models.Property{Name: input.Name, Value: input.Value}
			if err := props.Create(ctx, property); err != nil {
				return translateStoreError("value", "", err)
			}
		}

		return props.Attach(ctx, item, property)
	})
	if err != nil {
		return nil, err
	}

	s.metrics.EntityOperation("property", "attach")
	s.log.Info("Property attached",
		zap.String("item_id", input.ItemID),
		zap.String("property_id", property.ID),
		zap.String("value", property.Value))
	return property, nil
}

func (s *ItemService) Properties(ctx context.Context, itemID string) ([]models.Property, error) {
	return s.propertyRepo.GetByItem(ctx, itemID)
}

// Delete removes the item with its batches, sales and property links.
func (s *ItemService) Delete(ctx context.Context, id string) error {
	var sales int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.itemRepo.WithTx(tx)

		found, err := repo.Exists(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return ErrNotFound
		}
		if sales, err = s.saleRepo.WithTx(tx).CountByItem(ctx, id); err != nil {
			return err
		}
		return repo.DeleteCascade(ctx, id)
	})
	if err != nil {
		return err
	}

	s.metrics.EntityOperation("item", "delete")
	s.log.Info("Item deleted", zap.String("item_id", id), zap.Int64("sales_removed", sales))
	return nil
}
