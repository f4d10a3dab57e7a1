package handler

import (
	"context"
	"mime/multipart"

	"github.com/stretchr/testify/mock"

	"secondhand/internal/model"
	"secondhand/internal/service"
)

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) order(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) CreateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	return m.order(m.Called(ctx, order))
}

func (m *MockOrderService) GetOrder(ctx context.Context, id uint, includeItems bool) (*model.Order, error) {
	return m.order(m.Called(ctx, id, includeItems))
}

func (m *MockOrderService) GetOrderItems(ctx context.Context, id uint) ([]model.OrderItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderItem), args.Error(1)
}

func (m *MockOrderService) ListByUser(ctx context.Context, userID uint, includeItems bool) ([]model.Order, error) {
	args := m.Called(ctx, userID, includeItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) ListAll(ctx context.Context, includeItems bool) ([]model.Order, error) {
	args := m.Called(ctx, includeItems)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Order), args.Error(1)
}

func (m *MockOrderService) UpdateOrder(ctx context.Context, order *model.Order) (*model.Order, error) {
	return m.order(m.Called(ctx, order))
}

func (m *MockOrderService) CancelOrder(ctx context.Context, id uint) (*model.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *MockOrderService) PayOrder(ctx context.Context, id uint, paymentMethod string) (*model.Order, error) {
	return m.order(m.Called(ctx, id, paymentMethod))
}

func (m *MockOrderService) ConfirmOrder(ctx context.Context, id uint) (*model.Order, error) {
	return m.order(m.Called(ctx, id))
}

func (m *MockOrderService) DeleteOrder(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cart(args mock.Arguments) (*model.Cart, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Cart), args.Error(1)
}

func (m *MockCartService) GetCartByUserID(ctx context.Context, userID uint) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID))
}

func (m *MockCartService) AddProductToCart(ctx context.Context, userID, productID uint, quantity int) (*model.Cart, error) {
	return m.cart(m.Called(ctx, userID, productID, quantity))
}

func (m *MockCartService) UpdateCartItemQuantity(ctx context.Context, cartItemID uint, quantity int) (*model.Cart, error) {
	return m.cart(m.Called(ctx, cartItemID, quantity))
}

func (m *MockCartService) RemoveProductFromCart(ctx context.Context, cartItemID uint) error {
	return m.Called(ctx, cartItemID).Error(0)
}

func (m *MockCartService) ClearCart(ctx context.Context, userID uint) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *MockCartService) ItemOwner(ctx context.Context, cartItemID uint) (uint, error) {
	args := m.Called(ctx, cartItemID)
	return args.Get(0).(uint), args.Error(1)
}

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) product(args mock.Arguments) (*model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, sellerID uint, in service.ProductInput) (*model.Product, error) {
	return m.product(m.Called(ctx, sellerID, in))
}

func (m *MockProductService) Update(ctx context.Context, id, sellerID uint, in service.ProductInput) (*model.Product, error) {
	return m.product(m.Called(ctx, id, sellerID, in))
}

func (m *MockProductService) Delete(ctx context.Context, id, sellerID uint) error {
	return m.Called(ctx, id, sellerID).Error(0)
}

func (m *MockProductService) Get(ctx context.Context, id uint) (*model.Product, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockProductService) List(ctx context.Context, page, size int, categoryID uint) (service.Page[model.Product], error) {
	args := m.Called(ctx, page, size, categoryID)
	return args.Get(0).(service.Page[model.Product]), args.Error(1)
}

func (m *MockProductService) ListBySeller(ctx context.Context, sellerID uint) ([]model.Product, error) {
	args := m.Called(ctx, sellerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Product), args.Error(1)
}

func (m *MockProductService) UpdateStatus(ctx context.Context, id, sellerID uint, online bool) (*model.Product, error) {
	return m.product(m.Called(ctx, id, sellerID, online))
}

func (m *MockProductService) IncrementViews(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockProductService) IncrementSales(ctx context.Context, id uint, qty int) error {
	return m.Called(ctx, id, qty).Error(0)
}

func (m *MockProductService) IsProductOwnedByUser(ctx context.Context, productID, userID uint) (bool, error) {
	args := m.Called(ctx, productID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductService) InvalidateProducts(ctx context.Context, ids ...uint) {
	m.Called(ctx, ids)
}

// MockAddressService is a mock implementation of service.AddressService.
type MockAddressService struct {
	mock.Mock
}

func (m *MockAddressService) address(args mock.Arguments) (*model.Address, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Address), args.Error(1)
}

func (m *MockAddressService) Save(ctx context.Context, userID uint, in service.AddressInput) (*model.Address, error) {
	return m.address(m.Called(ctx, userID, in))
}

func (m *MockAddressService) FindByUserID(ctx context.Context, userID uint) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Address), args.Error(1)
}

func (m *MockAddressService) FindDefaultByUserID(ctx context.Context, userID uint) (*model.Address, error) {
	return m.address(m.Called(ctx, userID))
}

func (m *MockAddressService) SetDefault(ctx context.Context, addressID, userID uint) (*model.Address, error) {
	return m.address(m.Called(ctx, addressID, userID))
}

func (m *MockAddressService) Delete(ctx context.Context, addressID, userID uint) error {
	return m.Called(ctx, addressID, userID).Error(0)
}

func (m *MockAddressService) Update(ctx context.Context, addressID, userID uint, in service.AddressInput) (*model.Address, error) {
	return m.address(m.Called(ctx, addressID, userID, in))
}

func (m *MockAddressService) OwnerOf(ctx context.Context, addressID uint) (uint, error) {
	args := m.Called(ctx, addressID)
	return args.Get(0).(uint), args.Error(1)
}

// MockReviewService is a mock implementation of service.ReviewService.
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) review(args mock.Arguments) (*model.Review, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewService) reviews(args mock.Arguments) ([]model.Review, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Review), args.Error(1)
}

func (m *MockReviewService) CreateReview(ctx context.Context, review *model.Review) (*model.Review, error) {
	return m.review(m.Called(ctx, review))
}

func (m *MockReviewService) GetReview(ctx context.Context, id uint) (*model.Review, error) {
	return m.review(m.Called(ctx, id))
}

func (m *MockReviewService) ListByProduct(ctx context.Context, productID uint, minRating int) ([]model.Review, error) {
	return m.reviews(m.Called(ctx, productID, minRating))
}

func (m *MockReviewService) ListByUser(ctx context.Context, userID uint) ([]model.Review, error) {
	return m.reviews(m.Called(ctx, userID))
}

func (m *MockReviewService) ListByStatus(ctx context.Context, status string) ([]model.Review, error) {
	return m.reviews(m.Called(ctx, status))
}

func (m *MockReviewService) UpdateReview(ctx context.Context, id uint, in service.ReviewUpdate) (*model.Review, error) {
	return m.review(m.Called(ctx, id, in))
}

func (m *MockReviewService) DeleteReview(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockReviewService) ReviewModeration(ctx context.Context, id uint, status string) (*model.Review, error) {
	return m.review(m.Called(ctx, id, status))
}

func (m *MockReviewService) ProductRating(ctx context.Context, productID uint) (*service.RatingSummary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RatingSummary), args.Error(1)
}

// MockUploadService is a mock implementation of service.UploadService.
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) StoreImage(ctx context.Context, prefix string, file *multipart.FileHeader) (*service.StoredImage, error) {
	args := m.Called(ctx, prefix, file)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.StoredImage), args.Error(1)
}

func (m *MockUploadService) NormalizeBase64(image interface{}) (interface{}, error) {
	args := m.Called(image)
	return args.Get(0), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) user(args mock.Arguments) (*model.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, page, size int) (service.Page[model.User], error) {
	args := m.Called(ctx, page, size)
	return args.Get(0).(service.Page[model.User]), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, id uint) (*model.User, error) {
	return m.user(m.Called(ctx, id))
}

func (m *MockUserService) Create(ctx context.Context, in service.UserInput) (*model.User, error) {
	return m.user(m.Called(ctx, in))
}

func (m *MockUserService) Update(ctx context.Context, id uint, in service.UserInput) (*model.User, error) {
	return m.user(m.Called(ctx, id, in))
}

func (m *MockUserService) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, id uint, in service.ProfileInput) (*model.User, error) {
	return m.user(m.Called(ctx, id, in))
}

func (m *MockUserService) ChangePassword(ctx context.Context, id uint, oldPassword, newPassword string) error {
	return m.Called(ctx, id, oldPassword, newPassword).Error(0)
}

func (m *MockUserService) UploadAvatar(ctx context.Context, id uint, file *multipart.FileHeader) (*model.User, error) {
	return m.user(m.Called(ctx, id, file))
}
