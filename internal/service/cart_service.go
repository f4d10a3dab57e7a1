package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// CartService manages carts. Returned carts carry product details filled
// at read time.
type CartService interface {
	// GetCartByUserID returns nil without error when the user has no cart.
	GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error)
	AddProductToCart(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error)
	// UpdateCartItemQuantity sets the quantity as given; any integer is accepted.
	UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) (*model.Cart, error)
	RemoveProductFromCart(ctx context.Context, cartItemID uint) error
	ClearCart(ctx context.Context, userID uint) error
	// ItemOwner returns the user whose cart holds the item.
	ItemOwner(ctx context.Context, cartItemID uint) (uint, error)
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
	metrics     *metrics.Metrics
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository, m *metrics.Metrics) CartService {
	return &cartService{repo: repo, productRepo: productRepo, metrics: m}
}

func (s *cartService) GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return s.withItems(ctx, cart)
}

// withItems loads the cart's items and copies product name, price, main
// image and stock onto each of them.
func (s *cartService) withItems(ctx context.Context, cart *model.Cart) (*model.Cart, error) {
	items, err := s.repo.ListItems(ctx, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load cart products: %w", err)
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	for i := range items {
		p, ok := byID[items[i].ProductID]
		if !ok {
			continue
		}
		items[i].ProductName = p.Name
		items[i].ProductPrice = p.Price
		items[i].ProductImage = p.MainImage
		if items[i].ProductImage == "" {
			items[i].ProductImage = p.Images.First()
		}
		items[i].ProductStock = p.Stock
	}
	cart.Items = items
	return cart, nil
}

// ensureCart returns the user's cart, creating it on first use. A
// concurrent creator is detected through the unique user index.
func (s *cartService) ensureCart(ctx context.Context, userID uint) (*model.Cart, error) {
	cart, err := s.repo.FindByUserID(ctx, userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	cart = &model.Cart{UserID: userID}
	if err := s.repo.Create(ctx, cart); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		if cart, err = s.repo.FindByUserID(ctx, userID); err != nil {
			return nil, fmt.Errorf("find cart: %w", err)
		}
	}
	return cart, nil
}

func (s *cartService) AddProductToCart(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error) {
	exists, err := s.productRepo.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, errors.ErrProductNotFound
	}

	cart, err := s.ensureCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged, err := s.repo.IncrementItem(ctx, cart.ID, productID, quantity)
	if err != nil {
		return nil, fmt.Errorf("merge cart item: %w", err)
	}
	if !merged {
		item := &model.CartItem{CartID: cart.ID, ProductID: productID, Quantity: quantity}
		if err := s.repo.CreateItem(ctx, item); err != nil {
			if !errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, fmt.Errorf("create cart item: %w", err)
			}
			// lost the insert race (or quantity was 0): merge into the winner
			if _, err := s.repo.IncrementItem(ctx, cart.ID, productID, quantity); err != nil {
				return nil, fmt.Errorf("merge cart item: %w", err)
			}
		}
	}

	s.metrics.CartAdd()
	logger.FromContext(ctx).Info("product added to cart",
		zap.Uint("user_id", userID), zap.Uint("product_id", productID), zap.Int("quantity", quantity))
	return s.withItems(ctx, cart)
}

func (s *cartService) UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) (*model.Cart, error) {
	item, err := s.repo.FindItemByID(ctx, cartItemID)
	if err != nil {
		return nil, translate(err, errors.ErrCartItemNotFound, "find cart item")
	}
	if err := s.repo.SetItemQuantity(ctx, cartItemID, quantity); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	cart, err := s.repo.FindByID(ctx, item.CartID)
	if err != nil {
		return nil, translate(err, errors.ErrCartNotFound, "find cart")
	}
	return s.withItems(ctx, cart)
}

func (s *cartService) RemoveProductFromCart(ctx context.Context, cartItemID uint) error {
	if err := s.repo.DeleteItem(ctx, cartItemID); err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

func (s *cartService) ClearCart(ctx context.Context, userID uint) error {
	log := logger.FromContext(ctx)
	return s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.CartRepository) error {
		cart, err := repo.FindByUserID(ctx, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("find cart: %w", err)
		}
		items, err := repo.ListItems(ctx, cart.ID)
		if err != nil {
			return fmt.Errorf("list cart items: %w", err)
		}
		for _, item := range items {
			if err := repo.DeleteItem(ctx, item.ID); err != nil {
				return fmt.Errorf("delete cart item %d: %w", item.ID, err)
			}
			log.Info("cart item removed",
				zap.Uint("user_id", userID), zap.Uint("cart_item_id", item.ID), zap.Uint("product_id", item.ProductID))
		}
		return nil
	})
}

func (s *cartService) ItemOwner(ctx context.Context, cartItemID uint) (uint, error) {
	item, err := s.repo.FindItemByID(ctx, cartItemID)
	if err != nil {
		return 0, translate(err, errors.ErrCartItemNotFound, "find cart item")
	}
	cart, err := s.repo.FindByID(ctx, item.CartID)
	if err != nil {
		return 0, translate(err, errors.ErrCartNotFound, "find cart")
	}
	return cart.UserID, nil
}
