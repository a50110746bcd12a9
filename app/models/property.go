package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Property is one named attribute value, e.g. name "roast level", value
// "medium". The value is unique system-wide, so a row is shared by every item
// carrying it.
type Property struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name      string    `gorm:"size:50;not null;index" json:"name"`
	Value     string    `gorm:"size:50;not null;uniqueIndex" json:"value"`
	Items     []Item    `gorm:"many2many:item_properties;" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return
}
