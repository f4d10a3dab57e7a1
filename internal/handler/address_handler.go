package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"secondhand/internal/service"
)

// AddressHandler serves shipping address endpoints.
type AddressHandler struct {
	svc service.AddressService
}

// NewAddressHandler creates a new address handler.
func NewAddressHandler(svc service.AddressService) *AddressHandler {
	return &AddressHandler{svc: svc}
}

// AddressRequest is the address payload. Ownership always comes from the path.
type AddressRequest struct {
	RecipientName  string `json:"recipientName" validate:"required,max=50"`
	RecipientPhone string `json:"recipientPhone" validate:"required,max=20"`
	Address        string `json:"address" validate:"required,max=255"`
	IsDefault      bool   `json:"isDefault"`
}

func (r AddressRequest) input() service.AddressInput {
	return service.AddressInput{
		RecipientName:  r.RecipientName,
		RecipientPhone: r.RecipientPhone,
		Address:        r.Address,
		IsDefault:      r.IsDefault,
	}
}

// ownedAddress resolves the address owner and checks the caller may act for them.
func (h *AddressHandler) ownedAddress(c echo.Context) (addressID, ownerID uint, err error) {
	addressID, err = pathID(c, "addressId")
	if err != nil {
		return 0, 0, err
	}
	ownerID, err = h.svc.OwnerOf(c.Request().Context(), addressID)
	if err != nil {
		return 0, 0, respondError(c, err)
	}
	if _, err := selfOrAdmin(c, ownerID); err != nil {
		return 0, 0, err
	}
	return addressID, ownerID, nil
}

// ListByUser godoc
// @Summary List a user's addresses, default first
// @Tags addresses
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {array} model.Address
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/user/{userId} [get]
func (h *AddressHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	addresses, err := h.svc.FindByUserID(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, addresses)
}

// GetDefault godoc
// @Summary Get a user's default address
// @Tags addresses
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Success 200 {object} model.Address
// @Success 204 "No default address"
// @Failure 403 {object} errors.ErrorResponse
// @Router /addresses/user/{userId}/default [get]
func (h *AddressHandler) GetDefault(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	address, err := h.svc.FindDefaultByUserID(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	if address == nil {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, address)
}

// Create godoc
// @Summary Add an address
// @Tags addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param userId path int true "User ID"
// @Param address body AddressRequest true "Address"
// @Success 201 {object} model.Address
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /addresses/user/{userId} [post]
func (h *AddressHandler) Create(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	if _, err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	var req AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	address, err := h.svc.Save(c.Request().Context(), userID, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, address)
}

// Update godoc
// @Summary Update an address
// @Tags addresses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param addressId path int true "Address ID"
// @Param address body AddressRequest true "Address"
// @Success 200 {object} model.Address
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/{addressId} [put]
func (h *AddressHandler) Update(c echo.Context) error {
	addressID, ownerID, err := h.ownedAddress(c)
	if err != nil {
		return err
	}
	var req AddressRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	address, err := h.svc.Update(c.Request().Context(), addressID, ownerID, req.input())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, address)
}

// Delete godoc
// @Summary Delete an address
// @Tags addresses
// @Security BearerAuth
// @Param addressId path int true "Address ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/{addressId} [delete]
func (h *AddressHandler) Delete(c echo.Context) error {
	addressID, ownerID, err := h.ownedAddress(c)
	if err != nil {
		return err
	}
	if err := h.svc.Delete(c.Request().Context(), addressID, ownerID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetDefault godoc
// @Summary Make an address the default
// @Tags addresses
// @Produce json
// @Security BearerAuth
// @Param addressId path int true "Address ID"
// @Success 200 {object} model.Address
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /addresses/{addressId}/default [put]
func (h *AddressHandler) SetDefault(c echo.Context) error {
	addressID, ownerID, err := h.ownedAddress(c)
	if err != nil {
		return err
	}
	address, err := h.svc.SetDefault(c.Request().Context(), addressID, ownerID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, address)
}
