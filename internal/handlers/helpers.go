package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/middleware"
	"github.com/pklporto/backend/internal/models"
)

// getClaims returns the verified JWT claims, or nil for guest requests.
func getClaims(c echo.Context) *models.JwtCustomClaims {
	claims, _ := c.Get(middleware.ContextUserKey).(*models.JwtCustomClaims)
	return claims
}

// getUserIDFromContext returns the authenticated user's id, 0 for guests.
func getUserIDFromContext(c echo.Context) uint {
	if claims := getClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}

// HealthCheck reports liveness
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
