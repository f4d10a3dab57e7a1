package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"secondhand/internal/auth"
	"secondhand/internal/errors"
	"secondhand/internal/logger"
	"secondhand/internal/service"
)

// MessageResponse is returned by endpoints that have nothing else to say.
type MessageResponse struct {
	Message string `json:"message"`
}

// PageResponse wraps one page of results.
type PageResponse struct {
	Content       interface{} `json:"content"`
	TotalElements int64       `json:"totalElements"`
	TotalPages    int         `json:"totalPages"`
	Page          int         `json:"page"`
	Size          int         `json:"size"`
}

// respondError maps a service error onto the JSON error body. Internal
// causes are logged and never sent to the client.
func respondError(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("request failed", zap.Error(err))
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(msg string) error {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: msg,
		Code:  string(errors.KindValidation),
	})
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid " + name)
	}
	return uint(id), nil
}

func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid " + name)
	}
	return v, nil
}

func queryUint(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, badRequest("invalid " + name)
	}
	return uint(v), nil
}

func queryBool(c echo.Context, name string, def bool) (bool, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, badRequest("invalid " + name)
	}
	return v, nil
}

func caller(c echo.Context) (auth.Identity, error) {
	id, ok := auth.CallerFromEcho(c)
	if !ok {
		return auth.Identity{}, respondError(c, errors.Unauthorized("authentication required"))
	}
	return id, nil
}

// selfOrAdmin allows the owner of a resource or any administrator.
func selfOrAdmin(c echo.Context, ownerID uint) (auth.Identity, error) {
	id, err := caller(c)
	if err != nil {
		return id, err
	}
	if id.IsAdmin || id.UserID == ownerID {
		return id, nil
	}
	return id, respondError(c, errors.ErrNotOwner)
}

func pageOf[T any](p service.Page[T]) PageResponse {
	items := p.Items
	if items == nil {
		items = []T{}
	}
	return PageResponse{
		Content:       items,
		TotalElements: p.Total,
		TotalPages:    p.TotalPages(),
		Page:          p.Page,
		Size:          p.Size,
	}
}
