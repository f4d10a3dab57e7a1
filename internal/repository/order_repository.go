package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"secondhand/internal/model"
)

// OrderRepository defines order and order item persistence operations.
type OrderRepository interface {
	// Create inserts the order row only; items are written by CreateItems.
	Create(ctx context.Context, order *model.Order) error
	CreateItems(ctx context.Context, items []model.OrderItem) error
	Save(ctx context.Context, order *model.Order) error
	FindByID(ctx context.Context, id uint, withItems bool) (*model.Order, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*model.Order, error)
	ListByUser(ctx context.Context, userID uint, withItems bool) ([]model.Order, error)
	ListAll(ctx context.Context, withItems bool) ([]model.Order, error)
	ListItems(ctx context.Context, orderID uint) ([]model.OrderItem, error)
	DeleteItems(ctx context.Context, orderID uint) error
	Delete(ctx context.Context, id uint) error
	// Products exposes product writes bound to the same connection, so
	// stock changes join an open order transaction.
	Products() ProductRepository
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(order).Error
}

func (r *orderRepository) CreateItems(ctx context.Context, items []model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *orderRepository) Save(ctx context.Context, order *model.Order) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(order).Error
}

func (r *orderRepository) query(ctx context.Context, withItems bool) *gorm.DB {
	q := r.db.WithContext(ctx)
	if withItems {
		q = q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
	}
	return q
}

func (r *orderRepository) FindByID(ctx context.Context, id uint, withItems bool) (*model.Order, error) {
	var order model.Order
	if err := r.query(ctx, withItems).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID uint, withItems bool) ([]model.Order, error) {
	var orders []model.Order
	if err := r.query(ctx, withItems).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListAll(ctx context.Context, withItems bool) ([]model.Order, error) {
	var orders []model.Order
	if err := r.query(ctx, withItems).Order("id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) ListItems(ctx context.Context, orderID uint) ([]model.OrderItem, error) {
	var items []model.OrderItem
	if err := r.db.WithContext(ctx).Where("order_id = ?", orderID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *orderRepository) DeleteItems(ctx context.Context, orderID uint) error {
	return r.db.WithContext(ctx).Where("order_id = ?", orderID).Delete(&model.OrderItem{}).Error
}

func (r *orderRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Order{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepository) Products() ProductRepository {
	return &productRepository{db: r.db}
}

// WithTransaction executes a function within a database transaction.
func (r *orderRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &orderRepository{db: tx})
	})
}
