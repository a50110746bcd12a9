package models

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Product struct {
	ID                string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	CategoryID        *string   `gorm:"size:36;index" json:"category_id"`
	Category          *Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	Title             string    `gorm:"size:50;not null;uniqueIndex" json:"title"`
	Description       string    `gorm:"type:text;not null" json:"description"`
	DescriptionDigest string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Origin            string    `gorm:"size:20;not null;uniqueIndex" json:"origin"`
	Slug              string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Items             []Item    `gorm:"foreignKey:ProductID;constraint:OnDelete:RESTRICT" json:"items,omitempty"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}

// BeforeSave keeps the digest column in step with the description, which is
// what the unique index is declared on.
func (p *Product) BeforeSave(tx *gorm.DB) (err error) {
	p.DescriptionDigest = DescriptionDigest(p.Description)
	return
}

func DescriptionDigest(description string) string {
	sum := sha256.Sum256([]byte(description))
	return hex.EncodeToString(sum[:])
}
