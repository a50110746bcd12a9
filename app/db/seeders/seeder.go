package seeders

import (
	"context"
	"fmt"
	"time"

	"github.com/Rakhulsr/afronectar/app/db/fakers"
	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/services"
	"go.uber.org/zap"
)

type Options struct {
	Categories          int
	ProductsPerCategory int
	ItemsPerProduct     int
	AdminEmail          string
}

func DefaultOptions() Options {
	return Options{
		Categories:          3,
		ProductsPerCategory: 2,
		ItemsPerProduct:     2,
		AdminEmail:          "admin@afronectar.local",
	}
}

type Result struct {
	User       *models.User
	Categories []models.Category
	Products   []models.Product
	Items      []models.Item
	Batches    []models.Batch
}

// DBSeed fills the catalog with fake data through the services, so every
// seeded row passes the same checks as user input. Each top level category
// gets one subcategory, and products are spread over both.
func DBSeed(ctx context.Context, catalog *services.Catalog, log *zap.Logger, opts Options) (*Result, error) {
	now := time.Now().UTC()
	result := &Result{}

	user, err := catalog.Users.GetOrCreate(ctx, services.UserInput{
		Name:  "Seed Admin",
		Email: opts.AdminEmail,
		Role:  models.RoleAdmin,
	})
	if err != nil {
		return nil, fmt.Errorf("seed user: %w", err)
	}
	result.User = user

	for i := 0; i < opts.Categories; i++ {
		parent, err := catalog.Categories.Create(ctx, fakers.CategoryFaker(""))
		if err != nil {
			return nil, fmt.Errorf("seed category: %w", err)
		}
		child, err := catalog.Categories.Create(ctx, fakers.CategoryFaker(parent.ID))
		if err != nil {
			return nil, fmt.Errorf("seed subcategory: %w", err)
		}
		result.Categories = append(result.Categories, *parent, *child)

		for p := 0; p < opts.ProductsPerCategory; p++ {
			categoryID := parent.ID
			if p%2 == 1 {
				categoryID = child.ID
			}
			if err := seedProduct(ctx, catalog, result, categoryID, user.ID, opts.ItemsPerProduct, now); err != nil {
				return nil, err
			}
		}
	}

	log.Info("Seeding complete",
		zap.Int("categories", len(result.Categories)),
		zap.Int("products", len(result.Products)),
		zap.Int("items", len(result.Items)),
		zap.Int("batches", len(result.Batches)))
	return result, nil
}

func seedProduct(ctx context.Context, catalog *services.Catalog, result *Result, categoryID, userID string, items int, now time.Time) error {
	product, err := catalog.Products.Create(ctx, fakers.ProductFaker(categoryID))
	if err != nil {
		return fmt.Errorf("seed product: %w", err)
	}
	result.Products = append(result.Products, *product)

	for i := 0; i < items; i++ {
		item, err := catalog.Items.Create(ctx, fakers.ItemFaker(product.ID))
		if err != nil {
			return fmt.Errorf("seed item: %w", err)
		}
		result.Items = append(result.Items, *item)

		batch, err := catalog.Stock.CreateBatch(ctx, fakers.BatchFaker(item.ID, userID, now))
		if err != nil {
			return fmt.Errorf("seed batch: %w", err)
		}
		result.Batches = append(result.Batches, *batch)
	}
	return nil
}
