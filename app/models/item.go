package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Item is a purchasable variant of a Product.
type Item struct {
	ID           string          `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ProductID    string          `gorm:"size:36;not null;index" json:"product_id"`
	Product      *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Price        decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"price"`
	Sku          string          `gorm:"size:15;not null;uniqueIndex" json:"sku"`
	Slug         string          `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Manufactured bool            `gorm:"not null;default:false" json:"manufactured"`
	Barcode      uint64          `gorm:"not null;uniqueIndex" json:"barcode"`
	Stars        decimal.Decimal `gorm:"type:decimal(6,2);not null;default:0" json:"stars"`
	Properties   []Property      `gorm:"many2many:item_properties;" json:"properties,omitempty"`
	Batches      []Batch         `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	Sales        []Sale          `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) (err error) {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return
}
