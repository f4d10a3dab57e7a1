package model

import "time"

const (
	ReviewStatusApproved = "APPROVED"
	ReviewStatusPending  = "PENDING"
	ReviewStatusRejected = "REJECTED"
)

// Review is a buyer's rating of a product. One per (user, product).
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_review_user_product;index"`
	UserID    uint      `json:"userId" gorm:"not null;uniqueIndex:idx_review_user_product"`
	OrderID   *uint     `json:"orderId" gorm:"index"`
	Rating    int       `json:"rating" gorm:"not null"`
	Comment   string    `json:"comment" gorm:"type:text"`
	Images    string    `json:"images" gorm:"type:text"`
	Anonymous bool      `json:"anonymous" gorm:"not null"`
	Status    string    `json:"status" gorm:"size:20;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Username   string `json:"username,omitempty" gorm:"-"`
	UserAvatar string `json:"userAvatar,omitempty" gorm:"-"`
}
