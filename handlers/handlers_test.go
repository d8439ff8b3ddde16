package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"threadbrief/config"
	"threadbrief/errors"
	"threadbrief/llm"
	"threadbrief/models"
	"threadbrief/services/brief"
	"threadbrief/transcript"
)

type memBriefRepo struct {
	saved map[string]*models.Brief
}

func (m *memBriefRepo) Save(ctx context.Context, b *models.Brief) error {
	m.saved[b.ID] = b
	return nil
}

func (m *memBriefRepo) Find(ctx context.Context, id string) (*models.Brief, error) {
	if b, ok := m.saved[id]; ok {
		return b, nil
	}
	return nil, errors.NotFound("memBriefRepo.Find", nil, "Brief not found")
}

type memRateRepo struct{}

func (memRateRepo) Count(ctx context.Context, identity, dayKey string) (int, error) { return 0, nil }
func (memRateRepo) Increment(ctx context.Context, identity, dayKey string) error    { return nil }

func testApp(t *testing.T) (*fiber.App, *memBriefRepo) {
	t.Helper()

	cfg := &config.Config{WebBaseURL: "http://localhost:3000", Version: "test"}
	repo := &memBriefRepo{saved: make(map[string]*models.Brief)}

	svc := brief.NewService(cfg, transcript.NewService(cfg), llm.NewClient(llm.Config{}), repo, memRateRepo{})
	h := New(cfg, svc)

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Get("/health", h.HealthCheck)
	app.Post("/api/briefs", h.CreateBrief)
	app.Get("/api/briefs/:id", h.GetBrief)
	app.Get("/api/video-meta", h.VideoMeta)

	return app, repo
}

func TestHealthCheck(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
}

func TestCreateBriefFromPaste(t *testing.T) {
	app, repo := testApp(t)

	body, _ := json.Marshal(models.CreateBriefRequest{
		SourceType: models.SourcePaste,
		Source:     strings.Repeat("interesting thread content ", 20),
	})
	req := httptest.NewRequest("POST", "/api/briefs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var b models.Brief
	if err := json.NewDecoder(resp.Body).Decode(&b); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b.ID == "" || b.Title == "" {
		t.Errorf("incomplete brief: %+v", b)
	}
	if _, ok := repo.saved[b.ID]; !ok {
		t.Error("brief was not persisted")
	}
}

func TestCreateBriefInvalidBody(t *testing.T) {
	app, _ := testApp(t)

	req := httptest.NewRequest("POST", "/api/briefs", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}

	var payload map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if payload["error"] == "" {
		t.Error("expected an error message in the response body")
	}
}

func TestGetBrief(t *testing.T) {
	app, repo := testApp(t)
	repo.saved["known1"] = &models.Brief{ID: "known1", Title: "Stored"}

	resp, err := app.Test(httptest.NewRequest("GET", "/api/briefs/known1", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/briefs/missing", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("expected 404, got %d", resp.StatusCode)
	}
}

func TestVideoMetaRequiresURL(t *testing.T) {
	app, _ := testApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/video-meta", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}
