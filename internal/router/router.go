package router

import (
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"secondhand/internal/auth"
	"secondhand/internal/config"
	"secondhand/internal/handler"
	"secondhand/internal/logger"
	"secondhand/internal/metrics"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth    *handler.AuthHandler
	User    *handler.UserHandler
	Address *handler.AddressHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Product *handler.ProductHandler
	Review  *handler.ReviewHandler
	Upload  *handler.UploadHandler
}

// Security carries what the authentication middleware needs.
type Security struct {
	JWT    *auth.JWTService
	Tokens auth.TokenStoreInterface
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, sec Security, h Handlers) {
	e.HTTPErrorHandler = ErrorHandler
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(bodyLimit(cfg.UploadMaxBytes)))
	// metrics must wrap the logger: the logger commits the error response
	if m != nil {
		e.Use(m.Middleware())
	}
	e.Use(logger.Middleware())

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)
	api.GET("/products", h.Product.List)
	api.GET("/products/:id", h.Product.Get)
	api.GET("/reviews/:id", h.Review.Get)
	api.GET("/reviews/product/:productId", h.Review.ListByProduct)
	api.GET("/reviews/product/:productId/rating", h.Review.Rating)
	api.GET("/reviews/user/:userId", h.Review.ListByUser)

	// Secured routes (require JWT authentication)
	secured := api.Group("", Authenticate(sec.JWT), RejectRevoked(sec.Tokens))
	admin := RequireAdmin()

	secured.POST("/auth/logout", h.Auth.Logout)

	secured.GET("/users", h.User.ListUsers, admin)
	secured.POST("/users", h.User.CreateUser, admin)
	secured.GET("/users/:id", h.User.GetUser, admin)
	secured.PUT("/users/:id", h.User.UpdateUser, admin)
	secured.DELETE("/users/:id", h.User.DeleteUser, admin)
	secured.PUT("/users/:id/profile", h.User.UpdateProfile)
	secured.POST("/users/:id/avatar", h.User.UploadAvatar)
	secured.POST("/users/:id/change-password", h.User.ChangePassword)

	secured.GET("/addresses/user/:userId", h.Address.ListByUser)
	secured.GET("/addresses/user/:userId/default", h.Address.GetDefault)
	secured.POST("/addresses/user/:userId", h.Address.Create)
	secured.PUT("/addresses/:addressId", h.Address.Update)
	secured.DELETE("/addresses/:addressId", h.Address.Delete)
	secured.PUT("/addresses/:addressId/default", h.Address.SetDefault)

	secured.GET("/cart/:userId", h.Cart.GetCart)
	secured.POST("/cart/add", h.Cart.AddProduct)
	secured.PUT("/cart/item/:cartItemId", h.Cart.UpdateItem)
	secured.DELETE("/cart/item/:cartItemId", h.Cart.RemoveItem)
	secured.DELETE("/cart/clear/:userId", h.Cart.Clear)

	secured.POST("/orders", h.Order.Create)
	secured.GET("/orders", h.Order.ListAll, admin)
	secured.PUT("/orders", h.Order.Update)
	secured.GET("/orders/:id", h.Order.Get)
	secured.GET("/orders/:id/items", h.Order.Items)
	secured.GET("/orders/user/:userId", h.Order.ListByUser)
	secured.DELETE("/orders/:id", h.Order.Delete)
	secured.PUT("/orders/:id/cancel", h.Order.Cancel)
	secured.PUT("/orders/:id/pay", h.Order.Pay)
	secured.PUT("/orders/:id/confirm", h.Order.Confirm)

	secured.POST("/products", h.Product.Create)
	secured.GET("/products/user", h.Product.ListMine)
	secured.PUT("/products/:id", h.Product.Update)
	secured.DELETE("/products/:id", h.Product.Delete)
	secured.PUT("/products/:id/status", h.Product.UpdateStatus)

	secured.POST("/reviews", h.Review.Create)
	secured.GET("/reviews/status/:status", h.Review.ListByStatus, admin)
	secured.PUT("/reviews/:id", h.Review.Update)
	secured.DELETE("/reviews/:id", h.Review.Delete)
	secured.PUT("/reviews/:id/moderate", h.Review.Moderate, admin)

	secured.POST("/upload/image", h.Upload.Image)
	secured.POST("/upload/base64", h.Upload.Base64)
}

// bodyLimit leaves room for base64 inflation of the largest upload.
func bodyLimit(maxUpload int64) string {
	if maxUpload <= 0 {
		return "16M"
	}
	return fmt.Sprintf("%dK", 2*maxUpload/1024+64)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
