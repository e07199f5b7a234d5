package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

const HeaderAPIToken = "X-Api-Token"

// APIToken is an optional gate. With an empty token it passes everything
// through; otherwise requests must carry the token in X-Api-Token or get 401.
// /health is always open.
func APIToken(token string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if token == "" || c.Path() == "/health" {
				return next(c)
			}
			got := c.Request().Header.Get(HeaderAPIToken)
			if subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing or invalid " + HeaderAPIToken})
			}
			return next(c)
		}
	}
}
