package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// exists reports whether any row of model matches the query.
func exists(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func count(ctx context.Context, db *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(model).Where(query, args...).Count(&n).Error
	return n, err
}

// first loads one row into dest; a missing row is reported as (false, nil).
func first(ctx context.Context, db *gorm.DB, dest interface{}, query string, args ...interface{}) (bool, error) {
	err := db.WithContext(ctx).Where(query, args...).First(dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
