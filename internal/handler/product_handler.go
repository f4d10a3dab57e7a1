package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"secondhand/internal/auth"
	"secondhand/internal/errors"
	"secondhand/internal/service"
)

// ProductHandler serves listing endpoints.
type ProductHandler struct {
	svc service.ProductService
}

// NewProductHandler creates a new product handler.
func NewProductHandler(svc service.ProductService) *ProductHandler {
	return &ProductHandler{svc: svc}
}

func decodeProductBody(c echo.Context) (service.ProductInput, error) {
	raw := map[string]interface{}{}
	if err := c.Bind(&raw); err != nil {
		return service.ProductInput{}, badRequest("invalid request body")
	}
	in, err := DecodeProductPayload(raw)
	if err != nil {
		return in, respondError(c, err)
	}
	return in, nil
}

// listingOwner checks that the caller listed product id.
func (h *ProductHandler) listingOwner(c echo.Context, id uint) (auth.Identity, error) {
	me, err := caller(c)
	if err != nil {
		return me, err
	}
	owned, err := h.svc.IsProductOwnedByUser(c.Request().Context(), id, me.UserID)
	if err != nil {
		return me, respondError(c, err)
	}
	if !owned {
		return me, respondError(c, errors.ErrNotSeller)
	}
	return me, nil
}

// List godoc
// @Summary List online products
// @Tags products
// @Produce json
// @Param page query int false "Zero-based page" default(0)
// @Param size query int false "Page size" default(10)
// @Param categoryId query int false "Category filter"
// @Success 200 {object} PageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	page, err := queryInt(c, "page", 0)
	if err != nil {
		return err
	}
	size, err := queryInt(c, "size", 10)
	if err != nil {
		return err
	}
	categoryID, err := queryUint(c, "categoryId")
	if err != nil {
		return err
	}
	result, err := h.svc.List(c.Request().Context(), page, size, categoryID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, pageOf(result))
}

// Get godoc
// @Summary Product detail with seller info
// @Description Each read counts as one view.
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} model.Product
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [get]
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	product, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Create godoc
// @Summary List a product for sale
// @Description Accepts camelCase or snake_case fields; images may be a list or a JSON-encoded string.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body object true "Product payload"
// @Success 201 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /products [post]
func (h *ProductHandler) Create(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	in, err := decodeProductBody(c)
	if err != nil {
		return err
	}
	product, err := h.svc.Create(c.Request().Context(), me.UserID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, product)
}

// ListMine godoc
// @Summary List the caller's products
// @Tags products
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Product
// @Router /products/user [get]
func (h *ProductHandler) ListMine(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	products, err := h.svc.ListBySeller(c.Request().Context(), me.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, products)
}

// Update godoc
// @Summary Update a listing
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param product body object true "Product payload"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [put]
func (h *ProductHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	me, err := h.listingOwner(c, id)
	if err != nil {
		return err
	}
	in, err := decodeProductBody(c)
	if err != nil {
		return err
	}
	product, err := h.svc.Update(c.Request().Context(), id, me.UserID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}

// Delete godoc
// @Summary Delete a listing
// @Tags products
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	me, err := h.listingOwner(c, id)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), id, me.UserID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus godoc
// @Summary Put a listing online or take it offline
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param online query bool true "Online"
// @Success 200 {object} model.Product
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /products/{id}/status [put]
func (h *ProductHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if c.QueryParam("online") == "" {
		return badRequest("online is required")
	}
	online, err := queryBool(c, "online", false)
	if err != nil {
		return err
	}
	me, err := h.listingOwner(c, id)
	if err != nil {
		return err
	}
	product, err := h.svc.UpdateStatus(c.Request().Context(), id, me.UserID, online)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, product)
}
