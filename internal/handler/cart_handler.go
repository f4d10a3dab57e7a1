package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"secondhand/internal/service"
)

// CartHandler serves shopping cart endpoints.
type CartHandler struct {
	svc service.CartService
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(svc service.CartService) *CartHandler {
	return &CartHandler{svc: svc}
}

func (h *CartHandler) ownedItem(c echo.Context) (uint, error) {
	itemID, err := pathID(c, "cartItemId")
	if err != nil {
		return 0, err
	}
	owner, err := h.svc.ItemOwner(c.Request().Context(), itemID)
	if err != nil {
		return 0, respondError(c, err)
	}
	if _, err := selfOrAdmin(c, owner); err != nil {
		return 0, err
	}
	return itemID, nil
}

// GetCart godoc
// @Summary Get a user's cart
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} model.Cart
// @Success 204 "User has no cart"
// @Failure 403 {object} errors.ErrorResponse
// @Router /cart/{userId} [get]
func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	cart, err := h.svc.GetCartByUserID(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if cart == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, cart)
}

// AddProduct godoc
// @Summary Add a product to the cart
// @Description Re-adding a product sums the quantities.
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param userId query int true "User ID"
// @Param productId query int true "Product ID"
// @Param quantity query int true "Quantity"
// @Success 200 {object} model.Cart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/add [post]
func (h *CartHandler) AddProduct(c echo.Context) error {
	userID, err := queryUint(c, "userId")
	if err != nil {
		return err
	}
	productID, err := queryUint(c, "productId")
	if err != nil {
		return err
	}
	if userID == 0 || productID == 0 || c.QueryParam("quantity") == "" {
		return badRequest("userId, productId and quantity are required")
	}
	quantity, err := queryInt(c, "quantity", 0)
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	cart, err := h.svc.AddProductToCart(c.Request().Context(), userID, productID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// UpdateItem godoc
// @Summary Set the quantity of a cart item
// @Tags cart
// @Produce json
// @Security BearerAuth
// @Param cartItemId path int true "Cart item ID"
// @Param quantity query int true "Quantity"
// @Success 200 {object} model.Cart
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/item/{cartItemId} [put]
func (h *CartHandler) UpdateItem(c echo.Context) error {
	itemID, err := h.ownedItem(c)
	if err != nil {
		return err
	}
	if c.QueryParam("quantity") == "" {
		return badRequest("quantity is required")
	}
	quantity, err := queryInt(c, "quantity", 0)
	if err != nil {
		return err
	}
	cart, err := h.svc.UpdateCartItemQuantity(c.Request().Context(), itemID, quantity)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cart)
}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags cart
// @Security BearerAuth
// @Param cartItemId path int true "Cart item ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /cart/item/{cartItemId} [delete]
func (h *CartHandler) RemoveItem(c echo.Context) error {
	itemID, err := h.ownedItem(c)
	if err != nil {
		return err
	}
	if err := h.svc.RemoveProductFromCart(c.Request().Context(), itemID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Clear godoc
// @Summary Remove every item from a user's cart
// @Tags cart
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Router /cart/clear/{userId} [delete]
func (h *CartHandler) Clear(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	if err := h.svc.ClearCart(c.Request().Context(), userID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
