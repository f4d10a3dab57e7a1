package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"secondhand/internal/model"
	"secondhand/internal/service"
)

// OrderHandler serves order endpoints.
type OrderHandler struct {
	svc service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(svc service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// OrderItemRequest is one order line. TotalPrice defaults to price times quantity.
type OrderItemRequest struct {
	ProductID  uint            `json:"productId" validate:"required"`
	Quantity   int             `json:"quantity" validate:"required,gt=0"`
	Price      decimal.Decimal `json:"price" swaggertype:"number"`
	TotalPrice decimal.Decimal `json:"totalPrice" swaggertype:"number"`
}

// OrderRequest is the create and update payload.
type OrderRequest struct {
	ID            uint               `json:"id"`
	UserID        uint               `json:"userId"`
	Status        model.OrderStatus  `json:"status"`
	PaymentMethod string             `json:"paymentMethod" validate:"max=50"`
	TotalAmount   decimal.Decimal    `json:"totalAmount" swaggertype:"number"`
	AddressID     *uint              `json:"addressId"`
	Remark        string             `json:"remark" validate:"max=255"`
	Items         []OrderItemRequest `json:"items" validate:"dive"`
}

func (r OrderRequest) order() *model.Order {
	order := &model.Order{
		ID:            r.ID,
		UserID:        r.UserID,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		TotalAmount:   r.TotalAmount,
		AddressID:     r.AddressID,
		Remark:        r.Remark,
	}
	for _, it := range r.Items {
		order.Items = append(order.Items, model.OrderItem{
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			TotalPrice: it.TotalPrice,
		})
	}
	return order
}

// PayRequest optionally names the payment method.
type PayRequest struct {
	PaymentMethod string `json:"paymentMethod" validate:"max=50"`
}

// ownedOrder loads the order and checks the caller owns it or is an admin.
func (h *OrderHandler) ownedOrder(c echo.Context, id uint, includeItems bool) (*model.Order, error) {
	order, err := h.svc.GetOrder(c.Request().Context(), id, includeItems)
	if err != nil {
		return nil, respondError(c, err)
	}
	if _, err := selfOrAdmin(c, order.UserID); err != nil {
		return nil, err
	}
	return order, nil
}

// Create godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body OrderRequest true "Order with items"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	var req OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	me, err := caller(c)
	if err != nil {
		return err
	}
	if req.UserID == 0 {
		req.UserID = me.UserID
	}
	if _, err := selfOrAdmin(c, req.UserID); err != nil {
		return err
	}
	order, err := h.svc.CreateOrder(c.Request().Context(), req.order())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListAll godoc
// @Summary List every order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param includeItems query bool false "Include order lines" default(false)
// @Success 200 {array} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListAll(c echo.Context) error {
	includeItems, err := queryBool(c, "includeItems", false)
	if err != nil {
		return err
	}
	orders, err := h.svc.ListAll(c.Request().Context(), includeItems)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Update godoc
// @Summary Overwrite an order's mutable fields
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body OrderRequest true "Order"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders [put]
func (h *OrderHandler) Update(c echo.Context) error {
	var req OrderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if req.ID == 0 {
		return badRequest("id is required")
	}
	if _, err := h.ownedOrder(c, req.ID, false); err != nil {
		return err
	}
	order, err := h.svc.UpdateOrder(c.Request().Context(), req.order())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Get godoc
// @Summary Get an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param includeItems query bool false "Include order lines" default(true)
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	includeItems, err := queryBool(c, "includeItems", true)
	if err != nil {
		return err
	}
	order, err := h.ownedOrder(c, id, includeItems)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Items godoc
// @Summary List an order's lines
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {array} model.OrderItem
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id}/items [get]
func (h *OrderHandler) Items(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.ownedOrder(c, id, false); err != nil {
		return err
	}
	items, err := h.svc.GetOrderItems(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListByUser godoc
// @Summary List a user's orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param includeItems query bool false "Include order lines" default(false)
// @Success 200 {array} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Router /orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	includeItems, err := queryBool(c, "includeItems", false)
	if err != nil {
		return err
	}
	orders, err := h.svc.ListByUser(c.Request().Context(), userID, includeItems)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// Delete godoc
// @Summary Delete an order and its lines
// @Tags orders
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.ownedOrder(c, id, false); err != nil {
		return err
	}
	if err := h.svc.DeleteOrder(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Cancel godoc
// @Summary Cancel a pending order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{id}/cancel [put]
func (h *OrderHandler) Cancel(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.ownedOrder(c, id, false); err != nil {
		return err
	}
	order, err := h.svc.CancelOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Pay godoc
// @Summary Pay a pending order
// @Description Records the sale of every line and completes the order. Responds 409
// @Description when a product no longer has the stock to cover its line; the order
// @Description then stays pending and no stock is taken.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param payment body PayRequest false "Payment method"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{id}/pay [put]
func (h *OrderHandler) Pay(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PayRequest
	if c.Request().ContentLength != 0 {
		if err := bindAndValidate(c, &req); err != nil {
			return err
		}
	}
	if _, err := h.ownedOrder(c, id, false); err != nil {
		return err
	}
	order, err := h.svc.PayOrder(c.Request().Context(), id, req.PaymentMethod)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// Confirm godoc
// @Summary Confirm receipt of a paid or shipped order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} model.Order
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /orders/{id}/confirm [put]
func (h *OrderHandler) Confirm(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.ownedOrder(c, id, false); err != nil {
		return err
	}
	order, err := h.svc.ConfirmOrder(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
