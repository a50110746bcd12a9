package services

import (
	"strings"
	"testing"
	"time"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemCreate(t *testing.T) {
	env := newTestEnv(t)
	product := env.product(t, "Rooibos Blend", "South Africa", "")

	item, err := env.catalog.Items.Create(env.ctx, ItemInput{
		ProductID:    product.ID,
		Price:        decimal.RequireFromString("12.50"),
		Sku:          " RB-100 ",
		Barcode:      6001234567890,
		Stars:        decimal.RequireFromString("4.75"),
		Manufactured: true,
	})
	require.NoError(t, err)

	assert.Equal(t, "RB-100", item.Sku)
	assert.Equal(t, "rooibos-blend-south-africa-rb-100", item.Slug)
	assert.True(t, item.Manufactured)

	loaded, err := env.catalog.Items.GetBySlug(env.ctx, item.Slug)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(loaded.Price))
	assert.True(t, decimal.RequireFromString("4.75").Equal(loaded.Stars))
	assert.EqualValues(t, 6001234567890, loaded.Barcode)
	require.NotNil(t, loaded.Product)
	assert.Equal(t, product.ID, loaded.Product.ID)

	items, err := env.catalog.Items.ListByProduct(env.ctx, product.ID)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestItemBoundsAccepted(t *testing.T) {
	env := newTestEnv(t)
	product := env.product(t, "Rooibos Blend", "South Africa", "")

	tests := []struct {
		sku     string
		price   string
		stars   string
		barcode uint64
	}{
		{"LOW", "0", "0", 1},
		{"HIGH", "1000", "5", 9999999999999},
		{"CENTS", "999.99", "4.99", 42},
	}

	for _, tt := range tests {
		t.Run(tt.sku, func(t *testing.T) {
			_, err := env.catalog.Items.Create(env.ctx, ItemInput{
				ProductID: product.ID,
				Price:     decimal.RequireFromString(tt.price),
				Sku:       tt.sku,
				Barcode:   tt.barcode,
				Stars:     decimal.RequireFromString(tt.stars),
			})
			require.NoError(t, err)
		})
	}
}

func TestItemCreateValidation(t *testing.T) {
	env := newTestEnv(t)
	product := env.product(t, "Rooibos Blend", "South Africa", "")
	env.item(t, product.ID, "RB-100", 6001234567890, "12.50")

	valid := func(mutate func(*ItemInput)) ItemInput {
		in := ItemInput{
			ProductID: product.ID,
			Price:     decimal.RequireFromString("10"),
			Sku:       "RB-200",
			Barcode:   6001234567891,
			Stars:     decimal.RequireFromString("3"),
		}
		mutate(&in)
		return in
	}

	tests := []struct {
		name  string
		input ItemInput
		field string
	}{
		{"negative price", valid(func(in *ItemInput) { in.Price = decimal.RequireFromString("-0.01") }), "price"},
		{"price above limit", valid(func(in *ItemInput) { in.Price = decimal.RequireFromString("1000.01") }), "price"},
		{"price with three decimals", valid(func(in *ItemInput) { in.Price = decimal.RequireFromString("12.345") }), "price"},
		{"negative stars", valid(func(in *ItemInput) { in.Stars = decimal.RequireFromString("-1") }), "stars"},
		{"stars above limit", valid(func(in *ItemInput) { in.Stars = decimal.RequireFromString("5.01") }), "stars"},
		{"stars with three decimals", valid(func(in *ItemInput) { in.Stars = decimal.RequireFromString("4.555") }), "stars"},
		{"zero barcode", valid(func(in *ItemInput) { in.Barcode = 0 }), "barcode"},
		{"fourteen digit barcode", valid(func(in *ItemInput) { in.Barcode = 10000000000000 }), "barcode"},
		{"missing sku", valid(func(in *ItemInput) { in.Sku = "" }), "sku"},
		{"sku too long", valid(func(in *ItemInput) { in.Sku = strings.Repeat("S", 16) }), "sku"},
		{"duplicate sku", valid(func(in *ItemInput) { in.Sku = "RB-100" }), "sku"},
		{"duplicate barcode", valid(func(in *ItemInput) { in.Barcode = 6001234567890 }), "barcode"},
		{"unknown product", valid(func(in *ItemInput) { in.ProductID = uuid.NewString() }), "product_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.Items.Create(env.ctx, tt.input)
			requireValidationError(t, err, tt.field)
		})
	}
}

func TestItemSlugCollision(t *testing.T) {
	env := newTestEnv(t)
	product := env.product(t, "Rooibos Blend", "South Africa", "")
	env.item(t, product.ID, "RB-100", 1, "1")

	// "rb 100" differs from "RB-100" but slugifies to the same value.
	_, err := env.catalog.Items.Create(env.ctx, ItemInput{
		ProductID: product.ID,
		Price:     decimal.RequireFromString("1"),
		Sku:       "rb 100",
		Barcode:   2,
		Stars:     decimal.Zero,
	})
	requireValidationError(t, err, "slug")
}

func TestItemAttachPropertyReusesValue(t *testing.T) {
	env := newTestEnv(t)
	product := env.product(t, "Rooibos Blend", "South Africa", "")
	small := env.item(t, product.ID, "RB-S", 11, "5")
	large := env.item(t, product.ID, "RB-L", 12, "9")

	first, err := env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: small.ID, Name: "Weight", Value: "250g"})
	require.NoError(t, err)
	second, err := env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: large.ID, Name: "Weight", Value: "250g"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: small.ID, Name: "Weight", Value: "250g"})
	require.NoError(t, err)

	var count int64
	require.NoError(t, env.db.Model(&models.Property{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	props, err := env.catalog.Items.Properties(env.ctx, small.ID)
	require.NoError(t, err)
	require.Len(t, props, 1)
	assert.Equal(t, "250g", props[0].Value)
}

func TestItemAttachPropertyValidation(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)

	_, err := env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: item.ID, Name: "Weight", Value: strings.Repeat("v", 51)})
	requireValidationError(t, err, "value")

	_, err = env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: item.ID, Name: "", Value: "250g"})
	requireValidationError(t, err, "name")

	_, err = env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: uuid.NewString(), Name: "Weight", Value: "250g"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestItemDeleteCascades(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)

	_, err := env.catalog.Items.AttachProperty(env.ctx, PropertyInput{ItemID: item.ID, Name: "Weight", Value: "250g"})
	require.NoError(t, err)
	env.batch(t, item.ID, 3, 24*time.Hour)
	_, err = env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	require.NoError(t, err)

	require.NoError(t, env.catalog.Items.Delete(env.ctx, item.ID))

	_, err = env.catalog.Items.Get(env.ctx, item.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	for _, model := range []interface{}{&models.Batch{}, &models.Sale{}} {
		var n int64
		require.NoError(t, env.db.Model(model).Where("item_id = ?", item.ID).Count(&n).Error)
		assert.Zero(t, n)
	}

	var links int64
	require.NoError(t, env.db.Table("item_properties").Where("item_id = ?", item.ID).Count(&links).Error)
	assert.Zero(t, links)

	var properties int64
	require.NoError(t, env.db.Model(&models.Property{}).Count(&properties).Error)
	assert.EqualValues(t, 1, properties, "properties outlive the items they describe")

	assert.ErrorIs(t, env.catalog.Items.Delete(env.ctx, item.ID), ErrNotFound)
}
