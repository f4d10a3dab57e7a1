package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"secondhand/internal/cache"
	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// ProductInput is the canonical create/update payload after loose
// request decoding. Status nil keeps the current value (online on create).
type ProductInput struct {
	Name               string
	SellerID           uint
	CategoryID         uint
	Price              decimal.Decimal
	OriginalPrice      decimal.Decimal
	Stock              int
	Images             []string
	Description        string
	Condition          string
	UsedDuration       string
	Brand              string
	PurchaseDate       *time.Time
	FaceToFace         bool
	Delivery           bool
	FaceToFaceLocation string
	Status             *bool
}

// ProductService manages listings.
type ProductService interface {
	Create(ctx context.Context, sellerID uint, in ProductInput) (*model.Product, error)
	Update(ctx context.Context, id, sellerID uint, in ProductInput) (*model.Product, error)
	Delete(ctx context.Context, id, sellerID uint) error
	// Get returns the listing with seller details and counts one view.
	Get(ctx context.Context, id uint) (*model.Product, error)
	List(ctx context.Context, page, size int, categoryID uint) (Page[model.Product], error)
	ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error)
	UpdateStatus(ctx context.Context, id, sellerID uint, online bool) (*model.Product, error)
	IncrementViews(ctx context.Context, id uint) error
	IncrementSales(ctx context.Context, id uint, qty int) error
	IsProductOwnedByUser(ctx context.Context, productID, userID uint) (bool, error)
	InvalidateProducts(ctx context.Context, ids ...uint)
}

type productService struct {
	repo     repository.ProductRepository
	userRepo repository.UserRepository
	cache    *cache.Client
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewProductService creates a new product service. A nil cache disables
// detail caching.
func NewProductService(
	repo repository.ProductRepository,
	userRepo repository.UserRepository,
	cacheClient *cache.Client,
	cacheTTL time.Duration,
	m *metrics.Metrics,
) ProductService {
	return &productService{
		repo:     repo,
		userRepo: userRepo,
		cache:    cacheClient,
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

func productCacheKey(id uint) string {
	return "product:" + strconv.FormatUint(uint64(id), 10)
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return errors.Validation("product name is required")
	}
	if in.Price.IsNegative() {
		return errors.Validation("price must not be negative")
	}
	if in.Stock < 0 {
		return errors.Validation("stock must not be negative")
	}
	return nil
}

// applyInput copies the editable fields. The first image becomes the main
// image; an input without images keeps the ones already stored.
func applyInput(p *model.Product, in ProductInput) {
	p.Name = strings.TrimSpace(in.Name)
	p.CategoryID = in.CategoryID
	p.Price = in.Price
	p.OriginalPrice = in.OriginalPrice
	p.Stock = in.Stock
	if len(in.Images) > 0 {
		p.Images = model.StringList(in.Images)
		p.MainImage = p.Images.First()
	}
	if p.Images == nil {
		p.Images = model.StringList{}
	}
	p.Description = in.Description
	p.Condition = in.Condition
	p.UsedDuration = in.UsedDuration
	p.Brand = in.Brand
	p.PurchaseDate = in.PurchaseDate
	p.FaceToFace = in.FaceToFace
	p.Delivery = in.Delivery
	p.FaceToFaceLocation = in.FaceToFaceLocation
	if in.Status != nil {
		p.Status = *in.Status
	}
}

func (s *productService) Create(ctx context.Context, sellerID uint, in ProductInput) (*model.Product, error) {
	if in.SellerID != 0 && in.SellerID != sellerID {
		return nil, errors.ErrNotSeller
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product := &model.Product{SellerID: sellerID, Status: true}
	applyInput(product, in)
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}

	logger.FromContext(ctx).Info("product listed", zap.Uint("product_id", product.ID), zap.Uint("seller_id", sellerID))
	return product, nil
}

// loadOwnedProduct fetches a product and checks that sellerID listed it.
func (s *productService) loadOwnedProduct(ctx context.Context, id, sellerID uint) (*model.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, errors.ErrProductNotFound, "find product")
	}
	if product.SellerID != sellerID {
		return nil, errors.ErrNotSeller
	}
	return product, nil
}

func (s *productService) Update(ctx context.Context, id, sellerID uint, in ProductInput) (*model.Product, error) {
	if in.SellerID != 0 && in.SellerID != sellerID {
		return nil, errors.ErrNotSeller
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}
	product, err := s.loadOwnedProduct(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	applyInput(product, in)
	if err := s.repo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	s.InvalidateProducts(ctx, id)
	return product, nil
}

func (s *productService) Delete(ctx context.Context, id, sellerID uint) error {
	if _, err := s.loadOwnedProduct(ctx, id, sellerID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, errors.ErrProductNotFound, "delete product")
	}
	s.InvalidateProducts(ctx, id)
	logger.FromContext(ctx).Info("product deleted", zap.Uint("product_id", id))
	return nil
}

// Get serves the detail from cache when possible. The cached view count
// may trail the database by up to the cache TTL.
func (s *productService) Get(ctx context.Context, id uint) (*model.Product, error) {
	if err := s.IncrementViews(ctx, id); err != nil {
		return nil, err
	}

	var cached model.Product
	if s.cache.GetJSON(ctx, productCacheKey(id), &cached) {
		return &cached, nil
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, errors.ErrProductNotFound, "find product")
	}
	if seller, err := s.userRepo.FindByID(ctx, product.SellerID); err == nil {
		product.SellerName = seller.Username
		product.SellerAvatar = seller.Avatar
	}
	_ = s.cache.SetJSON(ctx, productCacheKey(id), product, s.cacheTTL)
	return product, nil
}

func (s *productService) List(ctx context.Context, page, size int, categoryID uint) (Page[model.Product], error) {
	page, size = normalizePage(page, size)
	filter := repository.ProductFilter{CategoryID: categoryID, OnlineOnly: true}
	products, total, err := s.repo.List(ctx, filter, page*size, size)
	if err != nil {
		return Page[model.Product]{}, fmt.Errorf("list products: %w", err)
	}
	return Page[model.Product]{Items: products, Total: total, Page: page, Size: size}, nil
}

func (s *productService) ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error) {
	products, _, err := s.repo.List(ctx, repository.ProductFilter{SellerID: sellerID}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("list seller products: %w", err)
	}
	return products, nil
}

func (s *productService) UpdateStatus(ctx context.Context, id, sellerID uint, online bool) (*model.Product, error) {
	product, err := s.loadOwnedProduct(ctx, id, sellerID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, id, online); err != nil {
		return nil, translate(err, errors.ErrProductNotFound, "update product status")
	}
	product.Status = online
	s.InvalidateProducts(ctx, id)
	return product, nil
}

func (s *productService) IncrementViews(ctx context.Context, id uint) error {
	exists, err := s.repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return errors.ErrProductNotFound
	}
	if err := s.repo.IncrementViews(ctx, id); err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	s.metrics.ProductViewed()
	return nil
}

// IncrementSales moves qty from stock to sales. Nothing changes when the
// stock is insufficient.
func (s *productService) IncrementSales(ctx context.Context, id uint, qty int) error {
	if err := recordSale(ctx, s.repo, id, qty); err != nil {
		return err
	}
	s.InvalidateProducts(ctx, id)
	return nil
}

func recordSale(ctx context.Context, repo repository.ProductRepository, id uint, qty int) error {
	if qty <= 0 {
		return errors.Validation("quantity must be positive")
	}
	changed, err := repo.IncrementSales(ctx, id, qty)
	if err != nil {
		return fmt.Errorf("increment sales: %w", err)
	}
	if changed {
		return nil
	}
	exists, err := repo.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return errors.ErrProductNotFound
	}
	return errors.ErrInsufficientStock
}

func (s *productService) IsProductOwnedByUser(ctx context.Context, productID, userID uint) (bool, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return false, translate(err, errors.ErrProductNotFound, "find product")
	}
	return product.SellerID == userID, nil
}

func (s *productService) InvalidateProducts(ctx context.Context, ids ...uint) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, productCacheKey(id))
	}
	_ = s.cache.Delete(ctx, keys...)
}
