package handler

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"secondhand/internal/auth"
	"secondhand/internal/errors"
)

type testValidator struct {
	v *validator.Validate
}

func (t testValidator) Validate(i interface{}) error {
	return t.v.Struct(i)
}

func member(id uint) *auth.Claims {
	return &auth.Claims{UserID: id, Username: "member"}
}

func admin() *auth.Claims {
	return &auth.Claims{UserID: 1, Username: "admin", IsAdmin: true}
}

// newContext builds an echo context for target. A nil claims value leaves
// the request unauthenticated.
func newContext(method, target, body string, claims *auth.Claims) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = testValidator{v: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set(auth.ContextKey, claims)
	}
	return c, rec
}

func withParam(c echo.Context, name, value string) echo.Context {
	c.SetParamNames(name)
	c.SetParamValues(value)
	return c
}

func assertHTTPError(t *testing.T, err error, status int, kind errors.Kind) {
	t.Helper()
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok, "expected *echo.HTTPError, got %T", err)
	assert.Equal(t, status, he.Code)
	body, ok := he.Message.(errors.ErrorResponse)
	require.True(t, ok, "expected ErrorResponse body, got %T", he.Message)
	assert.Equal(t, string(kind), body.Code)
}
