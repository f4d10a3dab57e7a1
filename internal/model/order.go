package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusCompleted OrderStatus = "COMPLETED"
	OrderStatusCanceled  OrderStatus = "CANCELED"
)

var legacyStatusLabels = map[string]OrderStatus{
	"待付款": OrderStatusPending,
	"待发货": OrderStatusPaid,
	"已发货": OrderStatusShipped,
	"已完成": OrderStatusCompleted,
	"已取消": OrderStatusCanceled,
}

// Normalize maps legacy display labels onto canonical statuses.
// Unknown values are returned unchanged.
func (s OrderStatus) Normalize() OrderStatus {
	if canonical, ok := legacyStatusLabels[string(s)]; ok {
		return canonical
	}
	return s
}

// Order is a purchase. Items are persisted separately and deleted with it.
type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	UserID        uint            `json:"userId" gorm:"not null;index"`
	OrderNumber   string          `json:"orderNumber" gorm:"size:32;uniqueIndex;not null"`
	Status        OrderStatus     `json:"status" gorm:"size:20;not null;index"`
	PaymentMethod string          `json:"paymentMethod" gorm:"size:50"`
	TotalAmount   decimal.Decimal `json:"totalAmount" gorm:"type:decimal(12,2)"`
	AddressID     *uint           `json:"addressId"`
	Remark        string          `json:"remark" gorm:"size:255"`
	Items         []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// OrderItem is a product line with a price snapshot.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"orderId" gorm:"not null;index"`
	ProductID  uint            `json:"productId" gorm:"not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `json:"totalPrice" gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}
