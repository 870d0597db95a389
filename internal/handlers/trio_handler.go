package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/services"
)

type trioManager interface {
	GetMyTrio(ctx context.Context, userID string) (*models.TrioDetail, error)
	CompleteTrio(ctx context.Context, actorID, trioID string) (*models.Trio, error)
}

type TrioHandler struct {
	trios trioManager
}

func NewTrioHandler(trios trioManager) *TrioHandler {
	return &TrioHandler{trios: trios}
}

func (h *TrioHandler) GetMyTrio(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	detail, err := h.trios.GetMyTrio(c.Context(), userID)
	if err != nil {
		if errors.Is(err, services.ErrTrioNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No active trio"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch trio"})
	}

	return c.JSON(fiber.Map{"trio": detail})
}

// Complete marks the caller's trio finished and releases all members back to
// the available pool. Any member may complete the trio.
func (h *TrioHandler) Complete(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	trioID := c.Params("id")
	if trioID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Trio ID is required"})
	}

	trio, err := h.trios.CompleteTrio(c.Context(), userID, trioID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTrioNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Trio not found"})
		case errors.Is(err, services.ErrForbidden):
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not a member of this trio"})
		case errors.Is(err, services.ErrInvalidStateTransition):
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Trio is not active"})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to complete trio"})
		}
	}

	return c.JSON(fiber.Map{"trio": trio})
}
