package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"secondhand/internal/model"
	"secondhand/internal/service"
)

// ReviewHandler serves review endpoints.
type ReviewHandler struct {
	svc service.ReviewService
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(svc service.ReviewService) *ReviewHandler {
	return &ReviewHandler{svc: svc}
}

// ReviewRequest is the review payload. The author is always the caller.
type ReviewRequest struct {
	ProductID uint   `json:"productId" validate:"required"`
	OrderID   *uint  `json:"orderId"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
	Images    string `json:"images"`
	Anonymous bool   `json:"anonymous"`
}

// ReviewUpdateRequest carries the author-editable fields.
type ReviewUpdateRequest struct {
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment"`
	Images    string `json:"images"`
	Anonymous bool   `json:"anonymous"`
}

func (h *ReviewHandler) authored(c echo.Context) (*model.Review, error) {
	id, err := pathID(c, "id")
	if err != nil {
		return nil, err
	}
	review, err := h.svc.GetReview(c.Request().Context(), id)
	if err != nil {
		return nil, respondError(c, err)
	}
	if _, err := selfOrAdmin(c, review.UserID); err != nil {
		return nil, err
	}
	return review, nil
}

// Create godoc
// @Summary Review a product
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param review body ReviewRequest true "Review"
// @Success 201 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /reviews [post]
func (h *ReviewHandler) Create(c echo.Context) error {
	me, err := caller(c)
	if err != nil {
		return err
	}
	var req ReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	review, err := h.svc.CreateReview(c.Request().Context(), &model.Review{
		ProductID: req.ProductID,
		UserID:    me.UserID,
		OrderID:   req.OrderID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		Images:    req.Images,
		Anonymous: req.Anonymous,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

// Get godoc
// @Summary Get a review
// @Tags reviews
// @Produce json
// @Param id path int true "Review ID"
// @Success 200 {object} model.Review
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.svc.GetReview(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

// ListByProduct godoc
// @Summary List a product's reviews
// @Tags reviews
// @Produce json
// @Param productId path int true "Product ID"
// @Param minRating query int false "Minimum rating"
// @Success 200 {array} model.Review
// @Router /reviews/product/{productId} [get]
func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	minRating, err := queryInt(c, "minRating", 0)
	if err != nil {
		return err
	}
	reviews, err := h.svc.ListByProduct(c.Request().Context(), productID, minRating)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// Rating godoc
// @Summary Average rating of a product
// @Tags reviews
// @Produce json
// @Param productId path int true "Product ID"
// @Success 200 {object} service.RatingSummary
// @Router /reviews/product/{productId}/rating [get]
func (h *ReviewHandler) Rating(c echo.Context) error {
	productID, err := pathID(c, "productId")
	if err != nil {
		return err
	}
	summary, err := h.svc.ProductRating(c.Request().Context(), productID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

// ListByUser godoc
// @Summary List reviews written by a user
// @Tags reviews
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} model.Review
// @Router /reviews/user/{userId} [get]
func (h *ReviewHandler) ListByUser(c echo.Context) error {
	userID, err := pathID(c, "userId")
	if err != nil {
		return err
	}
	reviews, err := h.svc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// ListByStatus godoc
// @Summary List reviews by moderation status
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param status path string true "APPROVED, PENDING or REJECTED"
// @Success 200 {array} model.Review
// @Failure 403 {object} errors.ErrorResponse
// @Router /reviews/status/{status} [get]
func (h *ReviewHandler) ListByStatus(c echo.Context) error {
	reviews, err := h.svc.ListByStatus(c.Request().Context(), c.Param("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, reviews)
}

// Update godoc
// @Summary Edit a review
// @Tags reviews
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param review body ReviewUpdateRequest true "Review fields"
// @Success 200 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	review, err := h.authored(c)
	if err != nil {
		return err
	}
	var req ReviewUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	updated, err := h.svc.UpdateReview(c.Request().Context(), review.ID, service.ReviewUpdate{
		Rating:    req.Rating,
		Comment:   req.Comment,
		Images:    req.Images,
		Anonymous: req.Anonymous,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete godoc
// @Summary Delete a review
// @Tags reviews
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	review, err := h.authored(c)
	if err != nil {
		return err
	}
	if err := h.svc.DeleteReview(c.Request().Context(), review.ID); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Moderate godoc
// @Summary Set a review's moderation status
// @Tags reviews
// @Produce json
// @Security BearerAuth
// @Param id path int true "Review ID"
// @Param status query string true "New status"
// @Success 200 {object} model.Review
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /reviews/{id}/moderate [put]
func (h *ReviewHandler) Moderate(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	review, err := h.svc.ReviewModeration(c.Request().Context(), id, c.QueryParam("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, review)
}
