package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// authMiddleware checks for a valid bearer token and binds the
// resolved user identifier to the request context. Every protected
// route goes through here; only register and login bypass it.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "authorization required"})
		}

		tok := strings.TrimPrefix(auth, "Bearer ")
		if tok == auth {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
		}

		userID, err := s.tokens.Verify(tok)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
		}

		c.Set("user_id", userID)
		return next(c)
	}
}

// userID returns the identifier bound by authMiddleware.
func userID(c echo.Context) int64 {
	id, _ := c.Get("user_id").(int64)
	return id
}
