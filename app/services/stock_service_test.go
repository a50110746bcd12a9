package services

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const month = 30 * 24 * time.Hour

func TestCreateBatchStartsFullyAvailable(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)

	batch := env.batch(t, item.ID, 10, month)

	assert.EqualValues(t, 10, batch.Quantity)
	assert.EqualValues(t, 10, batch.AvailableQuantity)
	assert.False(t, batch.Sold)
	assert.Equal(t, models.BatchActive, batch.State(testNow))
	assert.Equal(t, env.user.ID, batch.CreatedByID)
	assert.Equal(t, 10.0, testutil.ToFloat64(env.metrics.BatchUnitsProduced))
}

func TestCreateBatchValidation(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)

	valid := func(mutate func(*BatchInput)) BatchInput {
		in := BatchInput{
			ItemID:         item.ID,
			CreatedBy:      env.user.ID,
			Quantity:       5,
			ManufacturedOn: testNow,
			ExpireOn:       testNow.Add(month),
		}
		mutate(&in)
		return in
	}

	tests := []struct {
		name  string
		input BatchInput
		field string
	}{
		{"zero quantity", valid(func(in *BatchInput) { in.Quantity = 0 }), "quantity"},
		{"negative quantity", valid(func(in *BatchInput) { in.Quantity = -3 }), "quantity"},
		{"expires before manufacture", valid(func(in *BatchInput) { in.ExpireOn = testNow.Add(-time.Hour) }), "expire_on"},
		{"expires on manufacture", valid(func(in *BatchInput) { in.ExpireOn = testNow }), "expire_on"},
		{"missing manufacture date", valid(func(in *BatchInput) { in.ManufacturedOn = time.Time{} }), "manufactured_on"},
		{"unknown item", valid(func(in *BatchInput) { in.ItemID = uuid.NewString() }), "item_id"},
		{"unknown user", valid(func(in *BatchInput) { in.CreatedBy = uuid.NewString() }), "created_by"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.Stock.CreateBatch(env.ctx, tt.input)
			requireValidationError(t, err, tt.field)
		})
	}
}

func TestRecordSaleDrainsBatch(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	batch := env.batch(t, item.ID, 10, month)

	for i := 0; i < 10; i++ {
		sale, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
		require.NoError(t, err, "sale %d", i+1)
		assert.Equal(t, batch.ID, sale.BatchID)
	}

	_, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	var oos *OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, item.ID, oos.ItemID)

	var stored models.Batch
	require.NoError(t, env.db.First(&stored, "id = ?", batch.ID).Error)
	assert.Zero(t, stored.AvailableQuantity)
	assert.True(t, stored.Sold)
	assert.Equal(t, models.BatchSold, stored.State(testNow))

	sales, err := env.catalog.Stock.Sales(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, sales, 10)

	summary, err := env.catalog.Stock.Stock(env.ctx, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Sellable)
	assert.EqualValues(t, 10, summary.Sold)
	assert.EqualValues(t, 10, summary.Produced)

	assert.Equal(t, 10.0, testutil.ToFloat64(env.metrics.SalesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SaleFailuresTotal.WithLabelValues("out_of_stock")))
}

func TestRecordSaleWithoutBatches(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)

	_, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	var oos *OutOfStockError
	assert.ErrorAs(t, err, &oos)
}

func TestRecordSaleExpiredStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	batch := env.batch(t, item.ID, 4, month)

	env.catalog.Stock.WithClock(func() time.Time { return batch.ExpireOn.Add(time.Minute) })

	_, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	var expired *ExpiredStockError
	require.ErrorAs(t, err, &expired)
	assert.Equal(t, item.ID, expired.ItemID)

	summary, err := env.catalog.Stock.Stock(env.ctx, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, summary.Sellable)
	assert.EqualValues(t, 4, summary.Expired)

	var stored models.Batch
	require.NoError(t, env.db.First(&stored, "id = ?", batch.ID).Error)
	assert.EqualValues(t, 4, stored.AvailableQuantity)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SaleFailuresTotal.WithLabelValues("expired_stock")))
}

func TestRecordSaleSkipsExpiredBatch(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	stale := env.batch(t, item.ID, 2, time.Hour)
	fresh := env.batch(t, item.ID, 2, month)

	env.catalog.Stock.WithClock(func() time.Time { return testNow.Add(2 * time.Hour) })

	sale, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	require.NoError(t, err)
	assert.Equal(t, fresh.ID, sale.BatchID)
	assert.NotEqual(t, stale.ID, sale.BatchID)
}

func TestRecordSaleUsesEarliestExpiry(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	late := env.batch(t, item.ID, 1, 2*month)
	early := env.batch(t, item.ID, 1, month)

	first, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	require.NoError(t, err)
	assert.Equal(t, early.ID, first.BatchID)

	second, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: env.user.ID})
	require.NoError(t, err)
	assert.Equal(t, late.ID, second.BatchID)
}

func TestRecordSaleUnknownReferences(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	env.batch(t, item.ID, 1, month)

	_, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: uuid.NewString(), CreatedBy: env.user.ID})
	requireValidationError(t, err, "item_id")

	_, err = env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: item.ID, CreatedBy: uuid.NewString()})
	requireValidationError(t, err, "created_by")

	summary, err := env.catalog.Stock.Stock(env.ctx, item.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, summary.Sellable)
}

func TestRecordSaleConcurrentLastUnit(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	env.batch(t, item.ID, 1, month)

	results := concurrentSales(t, env, item.ID, 2)

	assert.Equal(t, 1, results.succeeded)
	assert.Equal(t, 1, results.outOfStock)
	assert.Zero(t, results.other)
}

func TestRecordSaleConcurrentNeverOversells(t *testing.T) {
	env := newTestEnv(t)
	item := env.stockedItem(t)
	env.batch(t, item.ID, 3, month)
	env.batch(t, item.ID, 2, 2*month)

	results := concurrentSales(t, env, item.ID, 12)

	assert.Equal(t, 5, results.succeeded)
	assert.Equal(t, 7, results.outOfStock)
	assert.Zero(t, results.other)

	batches, err := env.catalog.Stock.Batches(env.ctx, item.ID)
	require.NoError(t, err)
	for _, b := range batches {
		assert.LessOrEqual(t, b.AvailableQuantity, b.Quantity)
		assert.Zero(t, b.AvailableQuantity)
		assert.True(t, b.Sold)
	}

	sold, err := env.catalog.Stock.Sales(env.ctx, item.ID)
	require.NoError(t, err)
	assert.Len(t, sold, 5)
}

type saleResults struct {
	succeeded  int
	outOfStock int
	other      int
}

func concurrentSales(t *testing.T, env *testEnv, itemID string, n int) saleResults {
	t.Helper()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results saleResults
	)
	start := make(chan struct{})

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := env.catalog.Stock.RecordSale(env.ctx, SaleInput{ItemID: itemID, CreatedBy: env.user.ID})

			mu.Lock()
			defer mu.Unlock()
			var oos *OutOfStockError
			switch {
			case err == nil:
				results.succeeded++
			case errors.As(err, &oos):
				results.outOfStock++
			default:
				t.Logf("unexpected sale error: %v", err)
				results.other++
			}
		}()
	}

	close(start)
	wg.Wait()
	return results
}
