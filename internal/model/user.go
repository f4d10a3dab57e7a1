package model

import "time"

// User is a marketplace account. Sellers and buyers share the same table.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"size:50;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password;size:255;not null"` // Never expose in JSON
	Phone        string    `json:"phone" gorm:"size:20;index"`
	Email        string    `json:"email" gorm:"size:100;index"`
	Avatar       string    `json:"avatar" gorm:"type:longtext"`
	IsAdmin      bool      `json:"isAdmin" gorm:"not null"`
	Status       bool      `json:"status" gorm:"not null"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
