package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/boobaGreen/trinity-fat-loss-app/internal/models"
	"github.com/boobaGreen/trinity-fat-loss-app/internal/services"
)

type stubTrioManager struct {
	detail      *models.TrioDetail
	detailErr   error
	completed   *models.Trio
	completeErr error
	lastActor   string
	lastTrioID  string
}

func (s *stubTrioManager) GetMyTrio(_ context.Context, userID string) (*models.TrioDetail, error) {
	s.lastActor = userID
	return s.detail, s.detailErr
}

func (s *stubTrioManager) CompleteTrio(_ context.Context, actorID, trioID string) (*models.Trio, error) {
	s.lastActor = actorID
	s.lastTrioID = trioID
	return s.completed, s.completeErr
}

func newTrioApp(manager *stubTrioManager) *fiber.App {
	handler := NewTrioHandler(manager)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	})
	app.Get("/api/v1/trios/me", handler.GetMyTrio)
	app.Post("/api/v1/trios/:id/complete", handler.Complete)
	return app
}

func TestGetMyTrioReturnsDetail(t *testing.T) {
	manager := &stubTrioManager{detail: &models.TrioDetail{
		Trio: models.Trio{ID: "trio-1", Status: "active", CurrentDay: 12},
		Members: []models.MemberSummary{
			{ID: "u1"}, {ID: "u2"}, {ID: "u3"},
		},
	}}
	app := newTrioApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/trios/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body struct {
		Trio models.TrioDetail `json:"trio"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Trio.ID != "trio-1" || len(body.Trio.Members) != 3 || body.Trio.CurrentDay != 12 {
		t.Fatalf("unexpected body: %+v", body.Trio)
	}
}

func TestGetMyTrioWithoutTrio(t *testing.T) {
	app := newTrioApp(&stubTrioManager{detailErr: services.ErrTrioNotFound})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/trios/me", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestCompleteTrioForwardsIDs(t *testing.T) {
	manager := &stubTrioManager{completed: &models.Trio{ID: "trio-1", Status: "completed"}}
	app := newTrioApp(manager)

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/trios/trio-1/complete", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if manager.lastActor != "u1" || manager.lastTrioID != "trio-1" {
		t.Fatalf("unexpected forwarded ids: actor=%s trio=%s", manager.lastActor, manager.lastTrioID)
	}
}

func TestCompleteTrioAlreadyCompleted(t *testing.T) {
	app := newTrioApp(&stubTrioManager{completeErr: services.ErrInvalidStateTransition})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/trios/trio-1/complete", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
}

func TestCompleteTrioRejectsOutsider(t *testing.T) {
	app := newTrioApp(&stubTrioManager{completeErr: services.ErrForbidden})

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/api/v1/trios/trio-1/complete", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp.StatusCode)
	}
}
