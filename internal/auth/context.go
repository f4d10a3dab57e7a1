package auth

import (
	"github.com/labstack/echo/v4"
)

// ContextKey is where the authentication middleware stores *Claims.
const ContextKey = "user"

// Identity returns the user the token was minted for.
func (c *Claims) Identity() Identity {
	return Identity{UserID: c.UserID, Username: c.Username, IsAdmin: c.IsAdmin}
}

// ClaimsFromEcho returns the validated claims of the current request.
func ClaimsFromEcho(c echo.Context) (*Claims, bool) {
	claims, ok := c.Get(ContextKey).(*Claims)
	return claims, ok && claims != nil
}

// CallerFromEcho returns the authenticated caller.
func CallerFromEcho(c echo.Context) (Identity, bool) {
	claims, ok := ClaimsFromEcho(c)
	if !ok {
		return Identity{}, false
	}
	return claims.Identity(), true
}
