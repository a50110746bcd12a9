package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BatchState string

const (
	BatchActive  BatchState = "active"
	BatchSold    BatchState = "sold"
	BatchExpired BatchState = "expired"
)

// Batch is a production lot of one Item. AvailableQuantity starts equal to
// Quantity and only goes down, one unit per Sale.
type Batch struct {
	ID                string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ItemID            string    `gorm:"size:36;not null;index" json:"item_id"`
	Item              *Item     `gorm:"foreignKey:ItemID" json:"-"`
	CreatedByID       string    `gorm:"size:36;not null;index" json:"created_by"`
	CreatedBy         *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"-"`
	Quantity          uint      `gorm:"not null" json:"quantity"`
	AvailableQuantity uint      `gorm:"not null" json:"available_quantity"`
	Sold              bool      `gorm:"not null;default:false;index" json:"sold"`
	ManufacturedOn    time.Time `gorm:"not null" json:"manufactured_on"`
	ExpireOn          time.Time `gorm:"not null;index" json:"expire_on"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created"`
}

func (b *Batch) BeforeCreate(tx *gorm.DB) (err error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return
}

// State reports where the batch is in its lifecycle at now. Sold wins over
// expired: a lot that ran out before its expiry date stays sold.
func (b *Batch) State(now time.Time) BatchState {
	if b.Sold || b.AvailableQuantity == 0 {
		return BatchSold
	}
	if !now.Before(b.ExpireOn) {
		return BatchExpired
	}
	return BatchActive
}
