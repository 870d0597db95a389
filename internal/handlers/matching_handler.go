package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/services"
)

type matchingEngine interface {
	ProcessMatching(ctx context.Context, userID string, req services.MatchingRequest) (*services.MatchingResult, error)
	GetQueuePosition(ctx context.Context, userID string) (int, error)
	CancelMatching(ctx context.Context, userID string) error
}

type queueMaintainer interface {
	RefreshWaitTimes(ctx context.Context) (int64, error)
}

type MatchingHandler struct {
	matching matchingEngine
	queue    queueMaintainer
}

func NewMatchingHandler(matching matchingEngine, queue queueMaintainer) *MatchingHandler {
	return &MatchingHandler{matching: matching, queue: queue}
}

type searchRequest struct {
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Languages    []string `json:"languages"`
	WeightGoal   string   `json:"weight_goal"`
	FitnessLevel string   `json:"fitness_level"`
}

// Search runs one matching attempt for the caller. The response state is one
// of "matched", "partial" or "queued"; a degraded flag marks synthetic queue
// figures returned after a store failure.
func (h *MatchingHandler) Search(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validateWeightGoal(req.WeightGoal); err != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err})
	}
	if err := validateFitnessLevel(req.FitnessLevel); err != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err})
	}

	result, err := h.matching.ProcessMatching(c.Context(), userID, services.MatchingRequest{
		Name:         req.Name,
		Age:          req.Age,
		Languages:    req.Languages,
		WeightGoal:   req.WeightGoal,
		FitnessLevel: req.FitnessLevel,
	})
	if err != nil {
		return mapMatchingError(c, err)
	}

	return c.JSON(result)
}

func (h *MatchingHandler) QueuePosition(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	position, err := h.matching.GetQueuePosition(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch queue position"})
	}

	resp := fiber.Map{"in_queue": position > 0, "position": position}
	if position > 0 {
		resp["estimated_wait_hours"] = services.EstimatedWaitHours(position)
	}
	return c.JSON(resp)
}

func (h *MatchingHandler) Cancel(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if err := h.matching.CancelMatching(c.Context(), userID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to cancel matching"})
	}

	return c.JSON(fiber.Map{"message": "Matching cancelled"})
}

// RefreshWaitTimes recomputes estimated_wait_time for every active queue
// entry. Exposed for the scheduler that would otherwise run this as a cron.
func (h *MatchingHandler) RefreshWaitTimes(c *fiber.Ctx) error {
	if _, err := requireUserID(c); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	updated, err := h.queue.RefreshWaitTimes(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to refresh wait times"})
	}

	return c.JSON(fiber.Map{"updated": updated})
}

func mapMatchingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid matching profile"})
	case errors.Is(err, services.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not allowed"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Matching failed"})
	}
}
