package handlers

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-service/internal/generation"
	"room-service/internal/guidance"
	"room-service/internal/models"
	"room-service/internal/services"
	"room-service/internal/services/jobstores"
)

type instantVisualizer struct{}

func (instantVisualizer) Name() string { return generation.GenerationTypePlaceholder }

func (instantVisualizer) Generate(_ context.Context, req models.ConceptRequest) (*models.ConceptResult, error) {
	return &models.ConceptResult{
		ImageURL:          "/uploads/room_improvements/" + req.RoomType + ".png",
		ImagePath:         "uploads/room_improvements/" + req.RoomType + ".png",
		DesignDescription: req.ImprovementSuggestions.Lighting,
		Metadata:          map[string]any{"generation_type": generation.GenerationTypePlaceholder},
	}, nil
}

type testServer struct {
	app          *fiber.App
	orchestrator *services.JobOrchestrator
}

func newTestServer(t *testing.T, withOrchestrator bool, pingers map[string]Pinger) *testServer {
	t.Helper()

	var orch *services.JobOrchestrator
	if withOrchestrator {
		orch = services.NewJobOrchestrator(jobstores.NewMemoryStore(0, nil), instantVisualizer{}, services.OrchestratorOptions{}, nil)
		t.Cleanup(orch.Close)
	}
	analysis := services.NewAnalysisService(guidance.NewEngine(nil), services.AnalysisOptions{Orchestrator: orch}, nil)

	app := fiber.New()
	RegisterRoutes(app.Group("/api/room"),
		NewAnalysisHandler(analysis, nil),
		NewGenerationHandler(orch, nil),
		&HealthHandler{Analysis: analysis, Orchestrator: orch, Pingers: pingers})

	return &testServer{app: app, orchestrator: orch}
}

func (s *testServer) do(t *testing.T, req *http.Request) (int, map[string]any) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(body, &out), string(body))
	return resp.StatusCode, out
}

func jsonRequest(method, path string, body any) *http.Request {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	return req
}

func multipartRequest(t *testing.T, path string, fields map[string]string, fileField, fileName string, file []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func analyzeBody() map[string]any {
	return map[string]any{
		"room_type":    "living_room",
		"image_width":  1000,
		"image_height": 1000,
		"detections": []map[string]any{
			{"class_name": "sofa", "confidence": 0.92, "bbox": map[string]int{"x1": 50, "y1": 400, "x2": 350, "y2": 700}},
			{"class_name": "chair", "confidence": 0.81, "bbox": map[string]int{"x1": 60, "y1": 100, "x2": 160, "y2": 250}},
			{"class_name": "tv", "confidence": 0.77, "bbox": map[string]int{"x1": 750, "y1": 350, "x2": 950, "y2": 500}},
		},
		"improvement_notes": "more light",
	}
}

func TestGenerateConcept_JSONAndPoll(t *testing.T) {
	s := newTestServer(t, true, nil)

	code, body := s.do(t, jsonRequest(http.MethodPost, "/api/room/generate-concept", map[string]any{
		"room_type":               "bedroom",
		"improvement_suggestions": map[string]string{"lighting": "warm bedside lamps"},
		"detected_objects":        `{"objects":[]}`,
	}))
	require.Equal(t, fiber.StatusAccepted, code, body)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "pending", body["status"])
	assert.Equal(t, "30-60 seconds", body["estimated_completion_time"])
	meta := body["endpoint_metadata"].(map[string]any)
	assert.Equal(t, "generate-concept", meta["endpoint"])
	assert.Equal(t, "asynchronous_enhanced_placeholder", meta["pipeline_type"])

	jobID := body["job_id"].(string)
	require.Eventually(t, func() bool {
		_, status := s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/image-status/"+jobID, nil))
		return status["status"] == "completed"
	}, 2*time.Second, 10*time.Millisecond)

	code, status := s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/image-status/"+jobID, nil))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "/uploads/room_improvements/bedroom.png", status["image_url"])
	assert.Equal(t, "warm bedside lamps", status["design_description"])
	assert.Equal(t, generation.Disclaimer, status["disclaimer"])
}

func TestGenerateConcept_FormFields(t *testing.T) {
	s := newTestServer(t, true, nil)

	form := url.Values{}
	form.Set("room_type", "kitchen")
	form.Set("improvement_suggestions", `["bright task lighting"]`)
	req := httptest.NewRequest(http.MethodPost, "/api/room/generate-concept", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	code, body := s.do(t, req)
	require.Equal(t, fiber.StatusAccepted, code, body)
	assert.NotEmpty(t, body["job_id"])
}

func TestGenerateConcept_MalformedCreatesNoJob(t *testing.T) {
	s := newTestServer(t, true, nil)

	form := url.Values{}
	form.Set("room_type", "kitchen")
	form.Set("improvement_suggestions", `{"lighting":`)
	req := httptest.NewRequest(http.MethodPost, "/api/room/generate-concept", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)

	code, body := s.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, true, body["error"])
	assert.Contains(t, body["message"], "improvement_suggestions")
	assert.Zero(t, s.orchestrator.Stats(context.Background()).Jobs)

	code, _ = s.do(t, jsonRequest(http.MethodPost, "/api/room/generate-concept", map[string]any{
		"improvement_suggestions": map[string]string{"lighting": "x"},
	}))
	assert.Equal(t, fiber.StatusBadRequest, code, "room_type is required")
}

func TestGenerateConcept_NoOrchestrator(t *testing.T) {
	s := newTestServer(t, false, nil)

	code, body := s.do(t, jsonRequest(http.MethodPost, "/api/room/generate-concept", map[string]any{
		"room_type": "bedroom", "improvement_suggestions": map[string]string{},
	}))
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, GeneratorNotReady, body["message"])
}

func TestImageStatus_UnknownJob(t *testing.T) {
	s := newTestServer(t, true, nil)

	code, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/image-status/nope", nil))
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, JobNotFoundError, body["message"])
}

func TestAnalyzeRoom_JSON(t *testing.T) {
	s := newTestServer(t, false, nil)

	code, body := s.do(t, jsonRequest(http.MethodPost, "/api/room/analyze-room", analyzeBody()))
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["analysis_id"])
	assert.Nil(t, body["concept_job"])

	detected := body["detected_objects"].(map[string]any)
	assert.Len(t, detected["objects"], 3)
	suggestions := body["improvement_suggestions"].(map[string]any)
	assert.NotEmpty(t, suggestions["lighting"])
	meta := body["analysis_metadata"].(map[string]any)
	assert.Equal(t, "more light", meta["improvement_notes"])
	assert.Equal(t, float64(2), meta["stages_completed"])
}

func TestAnalyzeRoom_WithConcept(t *testing.T) {
	s := newTestServer(t, true, nil)

	reqBody := analyzeBody()
	reqBody["generate_concept"] = true
	code, body := s.do(t, jsonRequest(http.MethodPost, "/api/room/analyze-room", reqBody))
	require.Equal(t, fiber.StatusOK, code, body)

	job := body["concept_job"].(map[string]any)
	assert.NotEmpty(t, job["job_id"])
	assert.Equal(t, "/image-status/"+job["job_id"].(string), job["status_url"])
}

func TestAnalyzeRoom_Errors(t *testing.T) {
	s := newTestServer(t, false, nil)

	reqBody := analyzeBody()
	reqBody["image_width"] = 0
	code, body := s.do(t, jsonRequest(http.MethodPost, "/api/room/analyze-room", reqBody))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Contains(t, body["message"], "invalid image dimensions")

	req := httptest.NewRequest(http.MethodPost, "/api/room/analyze-room", strings.NewReader("{broken"))
	req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	code, _ = s.do(t, req)
	assert.Equal(t, fiber.StatusBadRequest, code)

	upload := multipartRequest(t, "/api/room/analyze-room", map[string]string{"room_type": "bedroom"}, "image", "room.jpg", []byte{0xff, 0xd8})
	code, body = s.do(t, upload)
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, DetectorNotReady, body["message"])
}

func TestAnalyses_NoDatabase(t *testing.T) {
	s := newTestServer(t, false, nil)

	code, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/analyses/not-a-uuid", nil))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, InvalidUuidError, body["message"])

	code, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/analyses/6f1c2a8e-3b1d-4c52-9a4e-2f0a9c7d1b11", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, DatabaseNotEnabled, body["message"])
}

func TestAnalyzeBatch(t *testing.T) {
	s := newTestServer(t, false, nil)

	good, err := json.Marshal(analyzeBody())
	require.NoError(t, err)

	var archive bytes.Buffer
	zw := zip.NewWriter(&archive)
	for name, data := range map[string][]byte{"rooms/a.json": good, "rooms/b.json": []byte("{bad")} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	code, body := s.do(t, multipartRequest(t, "/api/room/analyze-room/batch", nil, "archive", "rooms.zip", archive.Bytes()))
	require.Equal(t, fiber.StatusOK, code, body)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, float64(1), body["succeeded"])
	assert.Equal(t, float64(1), body["failed"])

	results := body["results"].([]any)
	first := results[0].(map[string]any)
	assert.Equal(t, "rooms/a.json", first["name"])
	assert.Equal(t, true, first["success"])
	second := results[1].(map[string]any)
	assert.Equal(t, false, second["success"])

	code, _ = s.do(t, multipartRequest(t, "/api/room/analyze-room/batch", nil, "archive", "rooms.txt", []byte("hello")))
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, true, map[string]Pinger{
		"database": func(context.Context) error { return nil },
	})

	code, body := s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/health", nil))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "healthy", body["status"])
	components := body["components"].(map[string]any)
	assert.Equal(t, true, components["conceptual_generator"])
	assert.Equal(t, false, components["object_detector"])
	assert.Equal(t, true, components["database"])
	assert.Equal(t, generation.GenerationTypePlaceholder, body["visualizer"])

	code, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/", nil))
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, ServiceName, body["service"])

	s = newTestServer(t, false, map[string]Pinger{
		"image_store": func(context.Context) error { return errors.New("bucket missing") },
	})
	code, body = s.do(t, httptest.NewRequest(http.MethodGet, "/api/room/health", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, code)
	assert.Equal(t, "degraded", body["status"])
}
