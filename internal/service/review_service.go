package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// AnonymousName replaces the author of anonymous reviews.
const AnonymousName = "anonymous"

// ReviewUpdate carries the author-editable fields.
type ReviewUpdate struct {
	Rating    int
	Comment   string
	Images    string
	Anonymous bool
}

// RatingSummary is the aggregate rating of a product.
type RatingSummary struct {
	ProductID     uint    `json:"productId"`
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int64   `json:"reviewCount"`
}

// ReviewService manages product reviews.
type ReviewService interface {
	CreateReview(ctx context.Context, review *model.Review) (*model.Review, error)
	GetReview(ctx context.Context, id uint) (*model.Review, error)
	ListByProduct(ctx context.Context, productID uint, minRating int) ([]model.Review, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Review, error)
	ListByStatus(ctx context.Context, status string) ([]model.Review, error)
	UpdateReview(ctx context.Context, id uint, in ReviewUpdate) (*model.Review, error)
	DeleteReview(ctx context.Context, id uint) error
	ReviewModeration(ctx context.Context, id uint, status string) (*model.Review, error)
	ProductRating(ctx context.Context, productID uint) (*RatingSummary, error)
}

type reviewService struct {
	repo        repository.ReviewRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	metrics     *metrics.Metrics
}

// NewReviewService creates a new review service.
func NewReviewService(
	repo repository.ReviewRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	m *metrics.Metrics,
) ReviewService {
	return &reviewService{repo: repo, productRepo: productRepo, userRepo: userRepo, metrics: m}
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return errors.Validation("rating must be between 1 and 5")
	}
	return nil
}

// CreateReview rejects a second review by the same user for the same product.
func (s *reviewService) CreateReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	if err := validateRating(review.Rating); err != nil {
		return nil, err
	}
	exists, err := s.productRepo.Exists(ctx, review.ProductID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, errors.ErrProductNotFound
	}
	if _, err := s.userRepo.FindByID(ctx, review.UserID); err != nil {
		return nil, translate(err, errors.ErrUserNotFound, "find user")
	}

	_, err = s.repo.FindByUserAndProduct(ctx, review.UserID, review.ProductID)
	if err == nil {
		return nil, errors.ErrDuplicateReview
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check existing review: %w", err)
	}

	review.ID = 0
	if review.Status == "" {
		review.Status = model.ReviewStatusApproved
	}
	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errors.ErrDuplicateReview
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.metrics.ReviewCreated()
	logger.FromContext(ctx).Info("review created",
		zap.Uint("review_id", review.ID), zap.Uint("product_id", review.ProductID), zap.Uint("user_id", review.UserID))
	return review, nil
}

func (s *reviewService) GetReview(ctx context.Context, id uint) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, errors.ErrReviewNotFound, "find review")
	}
	return review, nil
}

// ListByProduct attaches author name and avatar; anonymous reviews show
// AnonymousName and no avatar.
func (s *reviewService) ListByProduct(ctx context.Context, productID uint, minRating int) ([]model.Review, error) {
	reviews, err := s.repo.ListByProduct(ctx, productID, minRating)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	ids := make([]uint, 0, len(reviews))
	for _, r := range reviews {
		if !r.Anonymous {
			ids = append(ids, r.UserID)
		}
	}
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load review authors: %w", err)
	}
	byID := make(map[uint]model.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}

	for i := range reviews {
		if reviews[i].Anonymous {
			reviews[i].Username = AnonymousName
			continue
		}
		if u, ok := byID[reviews[i].UserID]; ok {
			reviews[i].Username = u.Username
			reviews[i].UserAvatar = u.Avatar
		}
	}
	return reviews, nil
}

func (s *reviewService) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	reviews, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) ListByStatus(ctx context.Context, status string) ([]model.Review, error) {
	reviews, err := s.repo.ListByStatus(ctx, strings.ToUpper(status))
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, id uint, in ReviewUpdate) (*model.Review, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	review.Rating = in.Rating
	review.Comment = in.Comment
	review.Images = in.Images
	review.Anonymous = in.Anonymous
	if err := s.repo.Save(ctx, review); err != nil {
		return nil, fmt.Errorf("update review: %w", err)
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, id uint) error {
	if _, err := s.GetReview(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	logger.FromContext(ctx).Info("review deleted", zap.Uint("review_id", id))
	return nil
}

// ReviewModeration overwrites the status without any transition guard.
func (s *reviewService) ReviewModeration(ctx context.Context, id uint, status string) (*model.Review, error) {
	status = strings.ToUpper(strings.TrimSpace(status))
	if status == "" {
		return nil, errors.Validation("status is required")
	}
	review, err := s.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, fmt.Errorf("moderate review: %w", err)
	}
	review.Status = status
	logger.FromContext(ctx).Info("review moderated", zap.Uint("review_id", id), zap.String("status", status))
	return review, nil
}

// ProductRating averages every review of the product. Moderation status
// does not affect the rating.
func (s *reviewService) ProductRating(ctx context.Context, productID uint) (*RatingSummary, error) {
	reviews, err := s.repo.ListForRating(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	summary := &RatingSummary{ProductID: productID, ReviewCount: int64(len(reviews))}
	if len(reviews) == 0 {
		return summary, nil
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	summary.AverageRating = float64(sum) / float64(len(reviews))
	return summary, nil
}
