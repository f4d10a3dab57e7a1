package model

import (
	"time"

	"gorm.io/gorm"
)

// Address is a shipping address owned by exactly one user.
//
// DefaultOwner mirrors UserID while IsDefault is true and is NULL otherwise.
// Its unique index lets the database reject a second default per user,
// since MySQL NULLs never collide.
type Address struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	UserID         uint      `json:"userId" gorm:"not null;index"`
	RecipientName  string    `json:"recipientName" gorm:"size:50;not null"`
	RecipientPhone string    `json:"recipientPhone" gorm:"size:20;not null"`
	Address        string    `json:"address" gorm:"size:255;not null"`
	IsDefault      bool      `json:"isDefault" gorm:"not null"`
	DefaultOwner   *uint     `json:"-" gorm:"uniqueIndex"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// BeforeSave keeps DefaultOwner in step with IsDefault.
func (a *Address) BeforeSave(tx *gorm.DB) error {
	a.SyncDefaultOwner()
	return nil
}

func (a *Address) SyncDefaultOwner() {
	if a.IsDefault {
		owner := a.UserID
		a.DefaultOwner = &owner
		return
	}
	a.DefaultOwner = nil
}
