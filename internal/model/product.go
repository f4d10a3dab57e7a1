package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a second-hand listing. Status true means online.
type Product struct {
	ID                 uint            `json:"id" gorm:"primaryKey"`
	Name               string          `json:"name" gorm:"size:100;not null"`
	SellerID           uint            `json:"sellerId" gorm:"not null;index"`
	CategoryID         uint            `json:"categoryId" gorm:"index"`
	Price              decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	OriginalPrice      decimal.Decimal `json:"originalPrice" gorm:"type:decimal(10,2)"`
	Stock              int             `json:"stock" gorm:"not null"`
	Images             StringList      `json:"images" gorm:"type:longtext"`
	MainImage          string          `json:"mainImage" gorm:"type:longtext"`
	Description        string          `json:"description" gorm:"type:text"`
	Condition          string          `json:"condition" gorm:"size:50"`
	UsedDuration       string          `json:"usedDuration" gorm:"size:50"`
	Brand              string          `json:"brand" gorm:"size:50"`
	PurchaseDate       *time.Time      `json:"purchaseDate"`
	FaceToFace         bool            `json:"faceToFace" gorm:"not null"`
	Delivery           bool            `json:"delivery" gorm:"not null"`
	FaceToFaceLocation string          `json:"faceToFaceLocation" gorm:"size:255"`
	Views              int             `json:"views" gorm:"not null"`
	Sales              int             `json:"sales" gorm:"not null"`
	Status             bool            `json:"status" gorm:"not null;index"`
	CreatedAt          time.Time       `json:"createTime"`
	UpdatedAt          time.Time       `json:"updateTime"`

	SellerName   string `json:"sellerName,omitempty" gorm:"-"`
	SellerAvatar string `json:"sellerAvatar,omitempty" gorm:"-"`
}
