package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is created lazily on a user's first add-to-cart.
type Cart struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	UserID    uint       `json:"userId" gorm:"not null;uniqueIndex"`
	Items     []CartItem `json:"items" gorm:"foreignKey:CartID"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem holds one product line. The product fields are filled at read
// time and never persisted.
type CartItem struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CartID    uint      `json:"cartId" gorm:"not null;uniqueIndex:idx_cart_product"`
	ProductID uint      `json:"productId" gorm:"not null;uniqueIndex:idx_cart_product"`
	Quantity  int       `json:"quantity" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	ProductName  string          `json:"productName,omitempty" gorm:"-"`
	ProductPrice decimal.Decimal `json:"productPrice" gorm:"-"`
	ProductImage string          `json:"productImage,omitempty" gorm:"-"`
	ProductStock int             `json:"productStock" gorm:"-"`
}
