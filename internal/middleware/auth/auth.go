package auth

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/shoporbit/storefront/internal/models"
	"github.com/shoporbit/storefront/internal/token"
)

// ContextUserID is the echo context key the identity check stores the
// resolved user id under.
const ContextUserID = "userID"

type Middleware struct {
	DB     *gorm.DB
	Tokens *token.Service
}

// RequireSignIn extracts the token from the Authorization header (the
// raw token, no scheme prefix) and attaches the resolved user id to the
// request context. Every failure path emits exactly one 401 response.
func (m *Middleware) RequireSignIn(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Request().Header.Get(echo.HeaderAuthorization)
		if raw == "" {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Authentication required",
			})
		}

		userID, err := m.Tokens.Verify(raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Invalid or expired token",
			})
		}

		c.Set(ContextUserID, userID)
		return next(c)
	}
}

// AdminOnly loads the signed-in user and requires the Admin role.
// Must be chained after RequireSignIn.
func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, ok := UserID(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Authentication required",
			})
		}

		var user models.User
		if err := m.DB.First(&user, userID).Error; err != nil {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Unauthorized Access",
			})
		}
		if user.Role != models.RoleAdmin {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"success": false,
				"message": "Unauthorized Access",
			})
		}

		return next(c)
	}
}

func UserID(c echo.Context) (uint, bool) {
	id, ok := c.Get(ContextUserID).(uint)
	return id, ok
}
