package migrations

import (
	"github.com/Rakhulsr/afronectar/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Category{}, &models.Product{}, &models.Item{}, &models.Property{}, &models.Batch{}, &models.Sale{})
}
