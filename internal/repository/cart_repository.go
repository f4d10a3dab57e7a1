package repository

import (
	"context"

	"gorm.io/gorm"

	"secondhand/internal/model"
)

// CartRepository defines cart and cart item persistence operations.
type CartRepository interface {
	FindByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	FindByID(ctx context.Context, id uint) (*model.Cart, error)
	Create(ctx context.Context, cart *model.Cart) error
	ListItems(ctx context.Context, cartID uint) ([]model.CartItem, error)
	FindItemByID(ctx context.Context, id uint) (*model.CartItem, error)
	CreateItem(ctx context.Context, item *model.CartItem) error
	// IncrementItem runs UPDATE ... SET quantity = quantity + ? for the
	// (cart, product) pair and reports whether a row matched.
	IncrementItem(ctx context.Context, cartID, productID uint, qty int) (bool, error)
	SetItemQuantity(ctx context.Context, id uint, qty int) error
	DeleteItem(ctx context.Context, id uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CartRepository) error) error
}

type cartRepository struct {
	db *gorm.DB
}

// NewCartRepository creates a new cart repository.
func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) FindByID(ctx context.Context, id uint) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).First(&cart, id).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	return r.db.WithContext(ctx).Omit("Items").Create(cart).Error
}

func (r *cartRepository) ListItems(ctx context.Context, cartID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindItemByID(ctx context.Context, id uint) (*model.CartItem, error) {
	var item model.CartItem
	if err := r.db.WithContext(ctx).First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) CreateItem(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *cartRepository) IncrementItem(ctx context.Context, cartID, productID uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]interface{}{"quantity": gorm.Expr("quantity + ?", qty)})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, id uint, qty int) error {
	res := r.db.WithContext(ctx).Model(&model.CartItem{}).Where("id = ?", id).Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	// MySQL reports zero affected rows when the value is unchanged, so
	// existence is checked by the caller beforehand.
	return nil
}

func (r *cartRepository) DeleteItem(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.CartItem{}, id).Error
}

// WithTransaction executes a function within a database transaction.
func (r *cartRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CartRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &cartRepository{db: tx})
	})
}
