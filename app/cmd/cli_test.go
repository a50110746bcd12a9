package cmd

import (
	"bytes"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Rakhulsr/afronectar/app/configs"
	"github.com/Rakhulsr/afronectar/app/models/migrations"
	"github.com/Rakhulsr/afronectar/app/services"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestNewAppCommands(t *testing.T) {
	app := NewApp(configs.ENV{}, zaptest.NewLogger(t), &bytes.Buffer{})

	names := make([]string, 0, len(app.Commands))
	for _, c := range app.Commands {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"migrate", "seed", "create-user", "stock", "serve"}, names)
}

func TestStockReport(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true, Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrations.AutoMigrate(db))

	ctx := context.Background()
	catalog := services.NewCatalog(db, zaptest.NewLogger(t), nil, services.DefaultSaleAttempts)

	user, err := catalog.Users.Create(ctx, services.UserInput{Name: "Amara", Email: "amara@example.com"})
	require.NoError(t, err)
	product, err := catalog.Products.Create(ctx, services.ProductInput{Title: "Rooibos", Description: "Red bush tea.", Origin: "South Africa"})
	require.NoError(t, err)
	item, err := catalog.Items.Create(ctx, services.ItemInput{
		ProductID: product.ID,
		Price:     decimal.RequireFromString("250.25"),
		Sku:       "RB-100",
		Barcode:   1,
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = catalog.Stock.CreateBatch(ctx, services.BatchInput{
		ItemID:         item.ID,
		CreatedBy:      user.ID,
		Quantity:       4,
		ManufacturedOn: now.AddDate(0, -1, 0),
		ExpireOn:       now.AddDate(0, 1, 0),
	})
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, StockReport(ctx, catalog, &out, "", "$"))

	report := out.String()
	assert.Contains(t, report, "PRODUCT")
	assert.Contains(t, report, "RB-100")
	assert.Contains(t, report, "$250.25")
	assert.Contains(t, report, "$1,001.00")

	err = StockReport(ctx, catalog, &out, uuid.NewString(), "$")
	assert.ErrorIs(t, err, services.ErrNotFound)
}
