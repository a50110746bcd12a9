package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RootCategoryTitle = "root"
	RootCategorySlug  = "root"
)

// Category is a node of the product classification tree. Path holds the ids
// from the root down to the node itself, e.g. "/<root>/<parent>/<id>/".
type Category struct {
	ID          string     `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	ParentID    *string    `gorm:"size:36;index" json:"parent_id"`
	Parent      *Category  `gorm:"foreignKey:ParentID;constraint:OnDelete:RESTRICT" json:"-"`
	Children    []Category `gorm:"foreignKey:ParentID" json:"-"`
	Title       string     `gorm:"size:50;not null;uniqueIndex" json:"title"`
	Description string     `gorm:"size:500;index" json:"description"`
	Slug        string     `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Path        string     `gorm:"size:1024;not null;index" json:"path"`
	Depth       int        `gorm:"not null;default:0" json:"depth"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) (err error) {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return
}

func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// AncestorIDs returns the ids above c, root first.
func (c *Category) AncestorIDs() []string {
	parts := strings.Split(strings.Trim(c.Path, "/"), "/")
	if len(parts) <= 1 {
		return nil
	}
	return parts[:len(parts)-1]
}

// ChildPath is the path a direct child with the given id would get.
func (c *Category) ChildPath(id string) string {
	return c.Path + id + "/"
}
