package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// ValidationError reports a field constraint violation detected before
// anything is written. Field and Reason describe the first failure, Fields
// holds all of them keyed by field name. Err carries the store error when the
// violation was reported by a database constraint.
type ValidationError struct {
	Field  string
	Reason string
	Fields map[string]string
	Err    error
}

func (e *ValidationError) Error() string {
	if len(e.Fields) <= 1 {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func newValidationError(field, reason string) *ValidationError {
	return &ValidationError{
		Field:  field,
		Reason: reason,
		Fields: map[string]string{field: reason},
	}
}

// ReferentialIntegrityError is returned when a delete is refused because
// dependent rows still point at the entity.
type ReferentialIntegrityError struct {
	Entity    string
	ID        string
	Dependent string
	Count     int64
}

func (e *ReferentialIntegrityError) Error() string {
	if e.Count > 0 {
		return fmt.Sprintf("cannot delete %s %s: %d %s still reference it", e.Entity, e.ID, e.Count, e.Dependent)
	}
	return fmt.Sprintf("cannot delete %s %s: %s still reference it", e.Entity, e.ID, e.Dependent)
}

type OutOfStockError struct {
	ItemID string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("item %s is out of stock", e.ItemID)
}

// ExpiredStockError means units are left for the item but every batch
// holding them is past its expiry date.
type ExpiredStockError struct {
	ItemID string
}

func (e *ExpiredStockError) Error() string {
	return fmt.Sprintf("all remaining stock of item %s has expired", e.ItemID)
}

// translateStoreError maps constraint errors raised by the database onto the
// catalog error taxonomy. The service checks run first; this covers races
// between two writers that both passed them. The driver error is translated
// by gorm and no longer names the column, so duplicates are reported against
// field until resolveDuplicate narrows them down.
func translateStoreError(field, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ValidationError{
			Field:  field,
			Reason: "value already exists",
			Fields: map[string]string{field: "value already exists"},
			Err:    gorm.ErrDuplicatedKey,
		}
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return &ReferentialIntegrityError{Entity: field, ID: id, Dependent: "dependent rows"}
	}
	return err
}

type uniqueCheck struct {
	field string
	taken func(context.Context) (bool, error)
}

// resolveDuplicate names the column behind a duplicate key error. It must run
// after the failed transaction has rolled back so the rival row committed by
// the other writer is visible to the checks.
func resolveDuplicate(ctx context.Context, err error, checks ...uniqueCheck) error {
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return err
	}
	for _, c := range checks {
		taken, cerr := c.taken(ctx)
		if cerr != nil {
			return err
		}
		if taken {
			reason := c.field + " already exists"
			return &ValidationError{
				Field:  c.field,
				Reason: reason,
				Fields: map[string]string{c.field: reason},
				Err:    gorm.ErrDuplicatedKey,
			}
		}
	}
	return err
}
