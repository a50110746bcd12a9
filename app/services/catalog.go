package services

import (
	"github.com/Rakhulsr/afronectar/app/repositories"
	"github.com/Rakhulsr/afronectar/app/utils/metrics"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Catalog bundles the services sharing one database handle.
type Catalog struct {
	Categories *CategoryService
	Products   *ProductService
	Items      *ItemService
	Stock      *StockService
	Users      *UserService
}

func NewCatalog(db *gorm.DB, log *zap.Logger, m *metrics.Recorder, saleAttempts int) *Catalog {
	validate := NewValidator()

	categoryRepo := repositories.NewCategoryRepository(db)
	productRepo := repositories.NewProductRepository(db)
	itemRepo := repositories.NewItemRepository(db)
	propertyRepo := repositories.NewPropertyRepository(db)
	batchRepo := repositories.NewBatchRepository(db)
	saleRepo := repositories.NewSaleRepository(db)
	userRepo := repositories.NewUserRepository(db)

	return &Catalog{
		Categories: NewCategoryService(db, categoryRepo, validate, log, m),
		Products:   NewProductService(db, productRepo, categoryRepo, validate, log, m),
		Items:      NewItemService(db, itemRepo, productRepo, propertyRepo, saleRepo, validate, log, m),
		Stock:      NewStockService(db, itemRepo, userRepo, batchRepo, saleRepo, validate, log, m, saleAttempts),
		Users:      NewUserService(userRepo, validate, log),
	}
}
