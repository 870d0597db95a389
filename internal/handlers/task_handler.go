package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/services"
)

type taskManager interface {
	GetDailyTasks(ctx context.Context, userID string, date time.Time) ([]models.DailyTask, error)
	UpdateTaskStatus(ctx context.Context, actorID, taskID string, completed bool, reason *string) (*models.DailyTask, error)
	GetTaskHistory(ctx context.Context, actorID, taskID string) ([]models.TaskHistoryEntry, error)
}

type TaskHandler struct {
	tasks taskManager
}

func NewTaskHandler(tasks taskManager) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// GetDailyTasks lists the caller's tasks for a date. The optional "date" query
// parameter takes YYYY-MM-DD and defaults to today.
func (h *TaskHandler) GetDailyTasks(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	date := time.Now().UTC()
	if raw := c.Query("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "date must be YYYY-MM-DD"})
		}
		date = parsed
	}

	tasks, err := h.tasks.GetDailyTasks(c.Context(), userID, date)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch tasks"})
	}

	return c.JSON(fiber.Map{"tasks": tasks, "date": date.Format("2006-01-02")})
}

type updateTaskRequest struct {
	Completed bool    `json:"completed"`
	Reason    *string `json:"reason"`
}

func (h *TaskHandler) UpdateTaskStatus(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task ID is required"})
	}

	var req updateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	task, err := h.tasks.UpdateTaskStatus(c.Context(), userID, taskID, req.Completed, req.Reason)
	if err != nil {
		return mapTaskError(c, err)
	}

	return c.JSON(fiber.Map{"task": task})
}

func (h *TaskHandler) GetTaskHistory(c *fiber.Ctx) error {
	userID, err := requireUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	taskID := c.Params("id")
	if taskID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Task ID is required"})
	}

	history, err := h.tasks.GetTaskHistory(c.Context(), userID, taskID)
	if err != nil {
		return mapTaskError(c, err)
	}

	return c.JSON(fiber.Map{"history": history})
}

func mapTaskError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	case errors.Is(err, services.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Not your task"})
	case errors.Is(err, services.ErrTaskNotEditable):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Task is no longer editable"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update task"})
	}
}
