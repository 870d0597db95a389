package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/services"
)

type stubTaskManager struct {
	tasks         []models.DailyTask
	updated       *models.DailyTask
	updatedErr    error
	history       []models.TaskHistoryEntry
	lastDate      time.Time
	lastTaskID    string
	lastCompleted bool
}

func (s *stubTaskManager) GetDailyTasks(_ context.Context, _ string, date time.Time) ([]models.DailyTask, error) {
	s.lastDate = date
	return s.tasks, nil
}

func (s *stubTaskManager) UpdateTaskStatus(_ context.Context, _, taskID string, completed bool, _ *string) (*models.DailyTask, error) {
	s.lastTaskID = taskID
	s.lastCompleted = completed
	return s.updated, s.updatedErr
}

func (s *stubTaskManager) GetTaskHistory(_ context.Context, _, taskID string) ([]models.TaskHistoryEntry, error) {
	s.lastTaskID = taskID
	return s.history, nil
}

func newTaskApp(manager *stubTaskManager) *fiber.App {
	handler := NewTaskHandler(manager)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	})
	app.Get("/api/v1/tasks", handler.GetDailyTasks)
	app.Put("/api/v1/tasks/:id/status", handler.UpdateTaskStatus)
	app.Get("/api/v1/tasks/:id/history", handler.GetTaskHistory)
	return app
}

func TestGetDailyTasksParsesDate(t *testing.T) {
	manager := &stubTaskManager{}
	app := newTaskApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/tasks?date=2026-03-10", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if got := manager.lastDate.Format("2006-01-02"); got != "2026-03-10" {
		t.Fatalf("expected date 2026-03-10 forwarded, got %s", got)
	}
}

func TestGetDailyTasksRejectsBadDate(t *testing.T) {
	app := newTaskApp(&stubTaskManager{})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/tasks?date=10-03-2026", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpdateTaskStatusForwardsCompletion(t *testing.T) {
	manager := &stubTaskManager{updated: &models.DailyTask{ID: "t1", Completed: true}}
	app := newTaskApp(manager)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/tasks/t1/status", strings.NewReader(`{"completed": true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if manager.lastTaskID != "t1" || !manager.lastCompleted {
		t.Fatalf("unexpected forwarded update: id=%s completed=%v", manager.lastTaskID, manager.lastCompleted)
	}
}

func TestUpdateTaskStatusAfterEditWindow(t *testing.T) {
	app := newTaskApp(&stubTaskManager{updatedErr: services.ErrTaskNotEditable})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/tasks/t1/status", strings.NewReader(`{"completed": true}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}
