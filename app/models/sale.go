package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Sale struct {
	ID          string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ItemID      string    `gorm:"size:36;not null;index" json:"item_id"`
	Item        *Item     `gorm:"foreignKey:ItemID" json:"-"`
	BatchID     string    `gorm:"size:36;not null;index" json:"batch_id"`
	Batch       *Batch    `gorm:"foreignKey:BatchID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedByID string    `gorm:"size:36;not null;index" json:"created_by"`
	CreatedBy   *User     `gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated"`
}

func (s *Sale) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}
