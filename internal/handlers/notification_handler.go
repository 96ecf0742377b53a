package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pklporto/backend/internal/repositories"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(notifRepo repositories.NotificationRepository) *NotificationHandler {
	return &NotificationHandler{notificationRepository: notifRepo}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, auth echo.MiddlewareFunc) {
	g.GET("", h.GetNotifications, auth)
	g.GET("/unread-count", h.GetUnreadCount, auth)
	g.POST("/mark-read", h.MarkAllAsRead, auth)
}

// GetNotifications returns the user's inbox, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	items, err := h.notificationRepository.ListByRecipient(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, items)
}

// GetUnreadCount returns how many notifications are unread
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count, err := h.notificationRepository.GetUnreadCount(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAllAsRead bulk-flips the user's unread notifications, triggered
// when the inbox is viewed
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	if err := h.notificationRepository.MarkAllAsRead(getUserIDFromContext(c)); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "Server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications marked as read"})
}
