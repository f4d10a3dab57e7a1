package repository

import (
	"context"

	"gorm.io/gorm"

	"secondhand/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	Save(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id uint) error
	FindByID(ctx context.Context, id uint) (*model.Review, error)
	FindByUserAndProduct(ctx context.Context, userID, productID uint) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uint, minRating int) ([]model.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Review, error)
	ListByStatus(ctx context.Context, status string) ([]model.Review, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	// ListForRating returns every review of the product whatever its
	// moderation status, with only id, rating and status loaded.
	ListForRating(ctx context.Context, productID uint) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) Save(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Save(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&model.Review{}, id).Error
}

func (r *reviewRepository) FindByID(ctx context.Context, id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) FindByUserAndProduct(ctx context.Context, userID, productID uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		First(&review).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByProduct returns the product's reviews that were not rejected by
// moderation, newest first. A minRating of zero disables the rating floor.
func (r *reviewRepository) ListByProduct(ctx context.Context, productID uint, minRating int) ([]model.Review, error) {
	q := r.db.WithContext(ctx).Where("product_id = ? AND status <> ?", productID, model.ReviewStatusRejected)
	if minRating > 0 {
		q = q.Where("rating >= ?", minRating)
	}
	var reviews []model.Review
	if err := q.Order("created_at DESC").Order("id DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByStatus(ctx context.Context, status string) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Where("status = ?", status).
		Order("created_at DESC").Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&model.Review{}).Where("id = ?", id).Update("status", status).Error
}

func (r *reviewRepository) ListForRating(ctx context.Context, productID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Select("id", "rating", "status").
		Where("product_id = ?", productID).Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
