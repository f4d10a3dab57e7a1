package router

import (
	stderrors "errors"
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"secondhand/internal/auth"
	"secondhand/internal/errors"
	"secondhand/internal/logger"
)

func unauthorized(msg string) error {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: msg,
		Code:  string(errors.KindUnauthorized),
	})
}

// Authenticate validates the bearer token and stores *auth.Claims under
// auth.ContextKey. Refresh tokens are not accepted as access tokens.
func Authenticate(jwtService *auth.JWTService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  auth.ContextKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			if claims.Refresh {
				return nil, stderrors.New("refresh token used as access token")
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return unauthorized("missing bearer token")
			}
			logger.FromEcho(c).Debug("token rejected", zap.Error(err))
			return unauthorized("invalid or expired token")
		},
	})
}

// RejectRevoked refuses access tokens blacklisted at logout. A store
// failure is logged and the request allowed through.
func RejectRevoked(tokens auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := auth.ClaimsFromEcho(c)
			if !ok {
				return unauthorized("missing bearer token")
			}
			if tokens == nil || claims.ID == "" {
				return next(c)
			}
			revoked, err := tokens.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				logger.FromEcho(c).Warn("blacklist lookup failed", zap.Error(err))
				return next(c)
			}
			if revoked {
				return unauthorized("token has been revoked")
			}
			return next(c)
		}
	}
}

// RequireAdmin allows administrators only.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := auth.CallerFromEcho(c)
			if !ok {
				return unauthorized("authentication required")
			}
			if !id.IsAdmin {
				resp := errors.MapErrorToHTTP(errors.ErrAdminOnly)
				return echo.NewHTTPError(resp.StatusCode, resp.ToErrorResponse())
			}
			return next(c)
		}
	}
}

var codeByStatus = map[int]errors.Kind{
	http.StatusBadRequest:            errors.KindValidation,
	http.StatusRequestEntityTooLarge: errors.KindValidation,
	http.StatusUnsupportedMediaType:  errors.KindValidation,
	http.StatusUnauthorized:          errors.KindUnauthorized,
	http.StatusForbidden:             errors.KindForbidden,
	http.StatusNotFound:              errors.KindNotFound,
	http.StatusMethodNotAllowed:      errors.KindNotFound,
	http.StatusConflict:              errors.KindConflict,
}

func kindForStatus(status int) string {
	if kind, ok := codeByStatus[status]; ok {
		return string(kind)
	}
	return string(errors.KindInternal)
}

// renderError turns any handler error into a status and the JSON error body.
func renderError(err error) (int, errors.ErrorResponse) {
	var he *echo.HTTPError
	if stderrors.As(err, &he) {
		switch msg := he.Message.(type) {
		case errors.ErrorResponse:
			return he.Code, msg
		case string:
			return he.Code, errors.ErrorResponse{Error: strings.ToLower(msg), Code: kindForStatus(he.Code)}
		default:
			return he.Code, errors.ErrorResponse{Error: strings.ToLower(http.StatusText(he.Code)), Code: kindForStatus(he.Code)}
		}
	}
	httpErr := errors.MapErrorToHTTP(err)
	return httpErr.StatusCode, httpErr.ToErrorResponse()
}

// ErrorHandler renders every error as errors.ErrorResponse.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status, body := renderError(err)
	if status >= http.StatusInternalServerError {
		logger.FromEcho(c).Error("unhandled error", zap.Error(err))
	}
	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		logger.FromEcho(c).Warn("write error response", zap.Error(writeErr))
	}
}
