package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/repository"
)

type onboardingProfileStore interface {
	UpdateMatchingProfile(ctx context.Context, userID string, input repository.MatchingProfileInput) (*models.User, error)
}

type OnboardingHandler struct {
	userRepo onboardingProfileStore
}

func NewOnboardingHandler(userRepo onboardingProfileStore) *OnboardingHandler {
	return &OnboardingHandler{userRepo: userRepo}
}

type onboardingRequest struct {
	Name         string   `json:"name"`
	Age          int      `json:"age"`
	Languages    []string `json:"languages"`
	WeightGoal   string   `json:"weight_goal"`
	FitnessLevel string   `json:"fitness_level"`
}

func (h *OnboardingHandler) Onboarding(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req onboardingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if validationErr := validateOnboardingRequest(req); validationErr != "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validationErr})
	}

	profile, err := h.userRepo.UpdateMatchingProfile(c.Context(), userID, repository.MatchingProfileInput{
		Name:         req.Name,
		Age:          req.Age,
		Languages:    req.Languages,
		WeightGoal:   req.WeightGoal,
		FitnessLevel: req.FitnessLevel,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}

	return c.JSON(fiber.Map{
		"profile":             profile,
		"onboarding_complete": profile.OnboardingComplete,
	})
}
