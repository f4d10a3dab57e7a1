package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"secondhand/internal/service"
)

// UploadHandler serves image upload endpoints.
type UploadHandler struct {
	svc service.UploadService
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(svc service.UploadService) *UploadHandler {
	return &UploadHandler{svc: svc}
}

// UploadResponse carries the stored image as a data URI, or the images
// echoed back by the base64 endpoint.
type UploadResponse struct {
	URL interface{} `json:"url"`
}

// Base64Request carries an inline image, a JSON-encoded list, or a list.
type Base64Request struct {
	Image interface{} `json:"image"`
}

// Image godoc
// @Summary Upload a product image
// @Tags upload
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /upload/image [post]
func (h *UploadHandler) Image(c echo.Context) error {
	file, err := c.FormFile("image")
	if err != nil {
		return badRequest("image is required")
	}
	stored, err := h.svc.StoreImage(c.Request().Context(), "product", file)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, UploadResponse{URL: stored.DataURI})
}

// Base64 godoc
// @Summary Normalize an inline image payload
// @Tags upload
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body Base64Request true "Inline image"
// @Success 200 {object} UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /upload/base64 [post]
func (h *UploadHandler) Base64(c echo.Context) error {
	var req Base64Request
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body")
	}
	url, err := h.svc.NormalizeBase64(req.Image)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, UploadResponse{URL: url})
}
