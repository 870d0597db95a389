package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
)

type notificationStore interface {
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Notification, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, notificationID, userID string) (bool, error)
}

type NotificationHandler struct {
	notifications notificationStore
}

func NewNotificationHandler(notifications notificationStore) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	notifications, err := h.notifications.ListByUser(c.Context(), userID, limit, (page-1)*limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}
	total, err := h.notifications.CountByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch notifications"})
	}

	return c.JSON(fiber.Map{
		"notifications": notifications,
		"pagination":    buildPaginationMeta(page, limit, total),
	})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	notificationID := c.Params("id")
	if notificationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Notification ID is required"})
	}

	ok, err := h.notifications.MarkRead(c.Context(), notificationID, userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to mark notification"})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	return c.JSON(fiber.Map{"message": "Notification marked as read"})
}
