package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

type profileStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePartial(ctx context.Context, userID string, input repository.UpdateProfileInput) (*models.User, error)
}

type ProfileHandler struct {
	userRepo profileStore
}

func NewProfileHandler(userRepo profileStore) *ProfileHandler {
	return &ProfileHandler{userRepo: userRepo}
}

type updateProfileRequest struct {
	Name         *string   `json:"name"`
	Age          *int      `json:"age"`
	Languages    *[]string `json:"languages"`
	WeightGoal   *string   `json:"weight_goal"`
	FitnessLevel *string   `json:"fitness_level"`
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := h.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateProfileUpdateRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.userRepo.UpdatePartial(c.Context(), userID, repository.UpdateProfileInput{
		Name:         req.Name,
		Age:          req.Age,
		Languages:    req.Languages,
		WeightGoal:   req.WeightGoal,
		FitnessLevel: req.FitnessLevel,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Profile not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{"profile": profile})
}
