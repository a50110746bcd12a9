package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rakhulsr/afronectar/app/models"
	"github.com/Rakhulsr/afronectar/app/repositories"
	"github.com/Rakhulsr/afronectar/app/utils/metrics"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultSaleAttempts = 5

// errBatchContended signals that the chosen batch was emptied by another
// sale between selection and decrement.
var errBatchContended = errors.New("batch contended")

type BatchInput struct {
	ItemID         string    `json:"item_id" validate:"required,uuid"`
	CreatedBy      string    `json:"created_by" validate:"required,uuid"`
	Quantity       int       `json:"quantity" validate:"gt=0"`
	ManufacturedOn time.Time `json:"manufactured_on" validate:"required"`
	ExpireOn       time.Time `json:"expire_on" validate:"required,gtfield=ManufacturedOn"`
}

type SaleInput struct {
	ItemID    string `json:"item_id" validate:"required,uuid"`
	CreatedBy string `json:"created_by" validate:"required,uuid"`
}

type StockService struct {
	db          *gorm.DB
	itemRepo    repositories.ItemRepositoryImpl
	userRepo    repositories.UserRepositoryImpl
	batchRepo   repositories.BatchRepositoryImpl
	saleRepo    repositories.SaleRepositoryImpl
	validate    *validator.Validate
	log         *zap.Logger
	metrics     *metrics.Recorder
	maxAttempts int
	now         func() time.Time
}

func NewStockService(
	db *gorm.DB,
	itemRepo repositories.ItemRepositoryImpl,
	userRepo repositories.UserRepositoryImpl,
	batchRepo repositories.BatchRepositoryImpl,
	saleRepo repositories.SaleRepositoryImpl,
	validate *validator.Validate,
	log *zap.Logger,
	m *metrics.Recorder,
	maxAttempts int,
) *StockService {
	if log == nil {
		log = zap.NewNop()
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultSaleAttempts
	}
	return &StockService{
		db:          db,
		itemRepo:    itemRepo,
		userRepo:    userRepo,
		batchRepo:   batchRepo,
		saleRepo:    saleRepo,
		validate:    validate,
		log:         log,
		metrics:     m,
		maxAttempts: maxAttempts,
		now:         time.Now,
	}
}

// WithClock replaces the time source used for expiry decisions.
func (s *StockService) WithClock(now func() time.Time) *StockService {
	s.now = now
	return s
}

func (s *StockService) CreateBatch(ctx context.Context, input BatchInput) (*models.Batch, error) {
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}

	var batch *models.Batch
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(ctx, tx, input.ItemID, input.CreatedBy); err != nil {
			return err
		}

		batch = &models.Batch{
			ItemID:            input.ItemID,
			CreatedByID:       input.CreatedBy,
			Quantity:          uint(input.Quantity),
			AvailableQuantity: uint(input.Quantity),
			ManufacturedOn:    input.ManufacturedOn.UTC(),
			ExpireOn:          input.ExpireOn.UTC(),
		}
		return translateStoreError("batch", "", s.batchRepo.WithTx(tx).Create(ctx, batch))
	})
	if err != nil {
		return nil, err
	}

	s.metrics.BatchCreated(batch.Quantity)
	s.log.Info("Batch created",
		zap.String("batch_id", batch.ID),
		zap.String("item_id", batch.ItemID),
		zap.Uint("quantity", batch.Quantity),
		zap.Time("expire_on", batch.ExpireOn))
	return batch, nil
}

func (s *StockService) checkReferences(ctx context.Context, tx *gorm.DB, itemID, userID string) error {
	found, err := s.itemRepo.WithTx(tx).Exists(ctx, itemID)
	if err != nil {
		return fmt.Errorf("failed to check item %s: %w", itemID, err)
	}
	if !found {
		return newValidationError("item_id", "item does not exist")
	}

	found, err = s.userRepo.WithTx(tx).Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user %s: %w", userID, err)
	}
	if !found {
		return newValidationError("created_by", "user does not exist")
	}
	return nil
}

// RecordSale sells one unit of the item from the sellable batch that expires
// first. The unit is taken with a conditional decrement; when a concurrent
// sale empties the batch first the attempt is retried against the next
// batch, up to the configured number of attempts.
func (s *StockService) RecordSale(ctx context.Context, input SaleInput) (*models.Sale, error) {
	if err := validateStruct(s.validate, &input); err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		sale, err := s.trySale(ctx, input)
		if errors.Is(err, errBatchContended) {
			s.metrics.SaleRetried()
			s.log.Debug("Batch taken by a concurrent sale, retrying",
				zap.String("item_id", input.ItemID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.recordFailure(input.ItemID, err)
			return nil, err
		}

		s.metrics.SaleRecorded()
		s.log.Info("Sale recorded",
			zap.String("sale_id", sale.ID),
			zap.String("item_id", sale.ItemID),
			zap.String("batch_id", sale.BatchID))
		return sale, nil
	}

	err := &OutOfStockError{ItemID: input.ItemID}
	s.recordFailure(input.ItemID, err)
	return nil, err
}

func (s *StockService) trySale(ctx context.Context, input SaleInput) (*models.Sale, error) {
	var sale *models.Sale
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkReferences(ctx, tx, input.ItemID, input.CreatedBy); err != nil {
			return err
		}

		batches := s.batchRepo.WithTx(tx)
		now := s.now().UTC()

		batch, err := batches.NextSellable(ctx, input.ItemID, now)
		if err != nil {
			return fmt.Errorf("failed to select batch: %w", err)
		}
		if batch == nil {
			expired, err := batches.CountExpiredWithStock(ctx, input.ItemID, now)
			if err != nil {
				return err
			}
			if expired > 0 {
				return &ExpiredStockError{ItemID: input.ItemID}
			}
			return &OutOfStockError{ItemID: input.ItemID}
		}

		taken, err := batches.DecrementAvailable(ctx, batch.ID)
		if err != nil {
			return err
		}
		if !taken {
			return errBatchContended
		}
		if err := batches.MarkSoldIfEmpty(ctx, batch.ID); err != nil {
			return fmt.Errorf("failed to close batch %s: %w", batch.ID, err)
		}

		sale = &models.Sale{
			ItemID:      input.ItemID,
			BatchID:     batch.ID,
			CreatedByID: input.CreatedBy,
		}
		return translateStoreError("sale", "", s.saleRepo.WithTx(tx).Create(ctx, sale))
	})
	return sale, err
}

func (s *StockService) recordFailure(itemID string, err error) {
	var (
		outOfStock *OutOfStockError
		expired    *ExpiredStockError
		invalid    *ValidationError
	)
	reason := "error"
	switch {
	case errors.As(err, &outOfStock):
		reason = "out_of_stock"
	case errors.As(err, &expired):
		reason = "expired_stock"
	case errors.As(err, &invalid):
		reason = "invalid"
	}
	s.metrics.SaleFailed(reason)
	s.log.Warn("Sale refused", zap.String("item_id", itemID), zap.String("reason", reason), zap.Error(err))
}

func (s *StockService) Stock(ctx context.Context, itemID string) (*repositories.StockSummary, error) {
	found, err := s.itemRepo.Exists(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrNotFound
	}
	return s.batchRepo.Summary(ctx, itemID, s.now().UTC())
}

func (s *StockService) Batches(ctx context.Context, itemID string) ([]models.Batch, error) {
	return s.batchRepo.GetByItem(ctx, itemID)
}

func (s *StockService) Sales(ctx context.Context, itemID string) ([]models.Sale, error) {
	return s.saleRepo.GetByItem(ctx, itemID)
}
