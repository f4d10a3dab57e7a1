package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
	"secondhand/internal/model"
	"secondhand/internal/repository"
)

// maxOrderNumberAttempts bounds regeneration after a unique-index clash.
const maxOrderNumberAttempts = 5

// ProductInvalidator drops cached product views after stock changes.
type ProductInvalidator interface {
	InvalidateProducts(ctx context.Context, ids ...uint)
}

// OrderService manages orders and their status transitions.
type OrderService interface {
	CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	GetOrder(ctx context.Context, id uint, includeItems bool) (*model.Order, error)
	GetOrderItems(ctx context.Context, id uint) ([]model.OrderItem, error)
	ListByUser(ctx context.Context, userID uint, includeItems bool) ([]model.Order, error)
	ListAll(ctx context.Context, includeItems bool) ([]model.Order, error)
	UpdateOrder(ctx context.Context, order *model.Order) (*model.Order, error)
	CancelOrder(ctx context.Context, id uint) (*model.Order, error)
	PayOrder(ctx context.Context, id uint, paymentMethod string) (*model.Order, error)
	ConfirmOrder(ctx context.Context, id uint) (*model.Order, error)
	DeleteOrder(ctx context.Context, id uint) error
}

type orderService struct {
	repo     repository.OrderRepository
	products ProductInvalidator
	metrics  *metrics.Metrics
	now      func() time.Time
	number   func(time.Time) string
}

// NewOrderService creates a new order service. products may be nil.
func NewOrderService(repo repository.OrderRepository, products ProductInvalidator, m *metrics.Metrics) OrderService {
	return &orderService{
		repo:     repo,
		products: products,
		metrics:  m,
		now:      time.Now,
		number:   GenerateOrderNumber,
	}
}

// CreateOrder persists the order, then each item under the new order id.
// Line totals default to price times quantity and the order total to the
// sum of line totals.
func (s *orderService) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	items := order.Items
	order.Items = nil
	order.ID = 0
	if order.Status == "" {
		order.Status = model.OrderStatusPending
	}

	sum := decimal.Zero
	for i := range items {
		items[i].ID = 0
		if items[i].TotalPrice.IsZero() {
			items[i].TotalPrice = items[i].Price.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		}
		sum = sum.Add(items[i].TotalPrice)
	}
	if order.TotalAmount.IsZero() {
		order.TotalAmount = sum
	}

	log := logger.FromContext(ctx)
	var err error
	for attempt := 1; attempt <= maxOrderNumberAttempts; attempt++ {
		order.OrderNumber = s.number(s.now())
		err = s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
			if err := repo.Create(ctx, order); err != nil {
				return err
			}
			for i := range items {
				items[i].OrderID = order.ID
			}
			return repo.CreateItems(ctx, items)
		})
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			break
		}
		s.metrics.OrderNumberCollision()
		log.Warn("order number collision, regenerating",
			zap.String("order_number", order.OrderNumber), zap.Int("attempt", attempt))
		order.ID = 0
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, errors.ErrOrderNumberExhausted
	}
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	order.Items = items
	s.metrics.OrderCreated()
	log.Info("order created",
		zap.Uint("order_id", order.ID), zap.String("order_number", order.OrderNumber), zap.Int("items", len(items)))
	return order, nil
}

func (s *orderService) GetOrder(ctx context.Context, id uint, includeItems bool) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, id, includeItems)
	if err != nil {
		return nil, translate(err, errors.ErrOrderNotFound, "find order")
	}
	return order, nil
}

func (s *orderService) GetOrderItems(ctx context.Context, id uint) ([]model.OrderItem, error) {
	if _, err := s.GetOrder(ctx, id, false); err != nil {
		return nil, err
	}
	items, err := s.repo.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return items, nil
}

func (s *orderService) ListByUser(ctx context.Context, userID uint, includeItems bool) ([]model.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID, includeItems)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderService) ListAll(ctx context.Context, includeItems bool) ([]model.Order, error) {
	orders, err := s.repo.ListAll(ctx, includeItems)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// UpdateOrder overwrites the mutable fields of an existing order. The
// owner, order number and creation time are kept from the stored row.
func (s *orderService) UpdateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	existing, err := s.GetOrder(ctx, order.ID, false)
	if err != nil {
		return nil, err
	}
	if order.Status != "" {
		existing.Status = order.Status
	}
	existing.PaymentMethod = order.PaymentMethod
	existing.TotalAmount = order.TotalAmount
	existing.AddressID = order.AddressID
	existing.Remark = order.Remark
	if err := s.repo.Save(ctx, existing); err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}
	return existing, nil
}

// transition locks the order row, checks its current status against
// allowed (after legacy label normalization) and applies mutate.
func (s *orderService) transition(
	ctx context.Context,
	id uint,
	allowed []model.OrderStatus,
	mutate func(ctx context.Context, repo repository.OrderRepository, order *model.Order) error,
) (*model.Order, error) {
	var result *model.Order
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		order, err := repo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return translate(err, errors.ErrOrderNotFound, "find order")
		}
		current := order.Status.Normalize()
		ok := false
		for _, st := range allowed {
			if current == st {
				ok = true
				break
			}
		}
		if !ok {
			return errors.ErrInvalidOrderState
		}
		if err := mutate(ctx, repo, order); err != nil {
			return err
		}
		if err := repo.Save(ctx, order); err != nil {
			return fmt.Errorf("save order: %w", err)
		}
		result = order
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.Transition(string(result.Status))
	logger.FromContext(ctx).Info("order status changed", zap.Uint("order_id", id), zap.String("status", string(result.Status)))
	return result, nil
}

func (s *orderService) CancelOrder(ctx context.Context, id uint) (*model.Order, error) {
	return s.transition(ctx, id, []model.OrderStatus{model.OrderStatusPending},
		func(_ context.Context, _ repository.OrderRepository, order *model.Order) error {
			order.Status = model.OrderStatusCanceled
			return nil
		})
}

// PayOrder completes a pending order and records the sale of every line:
// stock goes down and sales go up in the same transaction.
func (s *orderService) PayOrder(ctx context.Context, id uint, paymentMethod string) (*model.Order, error) {
	var sold []uint
	order, err := s.transition(ctx, id, []model.OrderStatus{model.OrderStatusPending},
		func(ctx context.Context, repo repository.OrderRepository, order *model.Order) error {
			items, err := repo.ListItems(ctx, order.ID)
			if err != nil {
				return fmt.Errorf("list order items: %w", err)
			}
			products := repo.Products()
			for _, item := range items {
				if err := recordSale(ctx, products, item.ProductID, item.Quantity); err != nil {
					return err
				}
				sold = append(sold, item.ProductID)
			}
			if paymentMethod != "" {
				order.PaymentMethod = paymentMethod
			}
			order.Status = model.OrderStatusCompleted
			return nil
		})
	if err != nil {
		return nil, err
	}
	if s.products != nil && len(sold) > 0 {
		s.products.InvalidateProducts(ctx, sold...)
	}
	return order, nil
}

func (s *orderService) ConfirmOrder(ctx context.Context, id uint) (*model.Order, error) {
	return s.transition(ctx, id, []model.OrderStatus{model.OrderStatusShipped, model.OrderStatusPaid},
		func(_ context.Context, _ repository.OrderRepository, order *model.Order) error {
			order.Status = model.OrderStatusCompleted
			return nil
		})
}

func (s *orderService) DeleteOrder(ctx context.Context, id uint) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		if _, err := repo.FindByID(ctx, id, false); err != nil {
			return translate(err, errors.ErrOrderNotFound, "find order")
		}
		if err := repo.DeleteItems(ctx, id); err != nil {
			return fmt.Errorf("delete order items: %w", err)
		}
		if err := repo.Delete(ctx, id); err != nil {
			return translate(err, errors.ErrOrderNotFound, "delete order")
		}
		return nil
	})
	if err != nil {
		return err
	}
	logger.FromContext(ctx).Info("order deleted", zap.Uint("order_id", id))
	return nil
}
