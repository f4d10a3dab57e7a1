package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"secondhand/internal/model"
)

// AddressRepository defines address persistence operations.
type AddressRepository interface {
	Create(ctx context.Context, address *model.Address) error
	Save(ctx context.Context, address *model.Address) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Address, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Address, error)
	FindDefault(ctx context.Context, userID uint) (*model.Address, error)
	FindLatest(ctx context.Context, userID uint) (*model.Address, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	// ClearDefault unsets the default flag on every address of the user.
	ClearDefault(ctx context.Context, userID uint) error
	MarkDefault(ctx context.Context, id, userID uint) error
	// LockOwner takes a row lock on the owning user. It returns
	// gorm.ErrRecordNotFound when the user does not exist.
	LockOwner(ctx context.Context, userID uint) error
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AddressRepository) error) error
}

type addressRepository struct {
	db *gorm.DB
}

// NewAddressRepository creates a new address repository.
func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) Create(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Create(address).Error
}

func (r *addressRepository) Save(ctx context.Context, address *model.Address) error {
	return r.db.WithContext(ctx).Save(address).Error
}

func (r *addressRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Address{}, id).Error
}

func (r *addressRepository) FindByID(ctx context.Context, id uint) (*model.Address, error) {
	var address model.Address
	if err := r.db.WithContext(ctx).First(&address, id).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

// ListByUser returns the default address first, then newest first.
func (r *addressRepository) ListByUser(ctx context.Context, userID uint) ([]model.Address, error) {
	var addresses []model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default DESC").Order("created_at DESC").Order("id DESC").
		Find(&addresses).Error; err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) FindDefault(ctx context.Context, userID uint) (*model.Address, error) {
	var address model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ?", userID, true).
		First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) FindLatest(ctx context.Context, userID uint) (*model.Address, error) {
	var address model.Address
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		First(&address).Error; err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Address{}).Where("user_id = ?", userID).Count(&n).Error
	return n, err
}

// UpdateColumns skips hooks, so default_owner is written explicitly.
func (r *addressRepository) ClearDefault(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Address{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		UpdateColumns(map[string]interface{}{"is_default": false, "default_owner": nil}).Error
}

func (r *addressRepository) MarkDefault(ctx context.Context, id, userID uint) error {
	return r.db.WithContext(ctx).Model(&model.Address{}).
		Where("id = ? AND user_id = ?", id, userID).
		UpdateColumns(map[string]interface{}{"is_default": true, "default_owner": userID}).Error
}

func (r *addressRepository) LockOwner(ctx context.Context, userID uint) error {
	var user model.User
	return r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&user, userID).Error
}

// WithTransaction executes a function within a database transaction.
func (r *addressRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo AddressRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &addressRepository{db: tx})
	})
}
