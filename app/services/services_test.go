package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/models/migrations"
	"github.com/Rakhulsr/afronectar/app/utils/metrics"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	ctx     context.Context
	db      *gorm.DB
	catalog *Catalog
	metrics *metrics.Recorder
	user    *models.User
}

// newTestDB opens a private in-memory SQLite database with the schema
// migrated. A single connection keeps every statement on the same database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := newTestDB(t)
	rec := metrics.NewRecorder("test", prometheus.NewRegistry())
	catalog := NewCatalog(db, zaptest.NewLogger(t), rec, DefaultSaleAttempts)
	catalog.Stock.WithClock(func() time.Time { return testNow })

	ctx := context.Background()
	user, err := catalog.Users.Create(ctx, UserInput{Name: "Amara", Email: "amara@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	return &testEnv{ctx: ctx, db: db, catalog: catalog, metrics: rec, user: user}
}

func (e *testEnv) category(t *testing.T, title, parentID string) *models.Category {
	t.Helper()
	category, err := e.catalog.Categories.Create(e.ctx, CategoryInput{Title: title, ParentID: parentID})
	require.NoError(t, err)
	return category
}

func (e *testEnv) product(t *testing.T, title, origin, categoryID string) *models.Product {
	t.Helper()
	product, err := e.catalog.Products.Create(e.ctx, ProductInput{
		Title:       title,
		Description: "Description of " + title,
		Origin:      origin,
		CategoryID:  categoryID,
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) item(t *testing.T, productID, sku string, barcode uint64, price string) *models.Item {
	t.Helper()
	item, err := e.catalog.Items.Create(e.ctx, ItemInput{
		ProductID: productID,
		Price:     decimal.RequireFromString(price),
		Sku:       sku,
		Barcode:   barcode,
		Stars:     decimal.RequireFromString("4.5"),
	})
	require.NoError(t, err)
	return item
}

// batch creates a batch of quantity units manufactured a month before
// testNow that expires expiresIn after it.
func (e *testEnv) batch(t *testing.T, itemID string, quantity int, expiresIn time.Duration) *models.Batch {
	t.Helper()
	batch, err := e.catalog.Stock.CreateBatch(e.ctx, BatchInput{
		ItemID:         itemID,
		CreatedBy:      e.user.ID,
		Quantity:       quantity,
		ManufacturedOn: testNow.AddDate(0, -1, 0),
		ExpireOn:       testNow.Add(expiresIn),
	})
	require.NoError(t, err)
	return batch
}

// stockedItem returns an item of a fresh product.
func (e *testEnv) stockedItem(t *testing.T) *models.Item {
	t.Helper()
	product := e.product(t, "Rooibos Blend", "South Africa", "")
	return e.item(t, product.ID, "RB-100", 6001234567890, "12.50")
}

func requireValidationError(t *testing.T, err error, field string) *ValidationError {
	t.Helper()
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, field, verr.Field, verr.Error())
	return verr
}
