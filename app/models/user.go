package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the acting user recorded on batches and sales.
type User struct {
	ID        string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Role      string    `gorm:"size:20;default:'staff';not null" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated"`
}

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	if u.Role == "" {
		u.Role = RoleStaff
	}
	return
}
