package handlers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"room-service/internal/services"
)

// GenerationHandler exposes asynchronous concept visualization.
type GenerationHandler struct {
	Orchestrator *services.JobOrchestrator
	logger       *zap.Logger
	now          func() time.Time
}

func NewGenerationHandler(orchestrator *services.JobOrchestrator, logger *zap.Logger) *GenerationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GenerationHandler{
		Orchestrator: orchestrator,
		logger:       logger.Named("generation-handler"),
		now:          time.Now,
	}
}

// GenerateConcept handles POST /generate-concept.
// @Summary Start a concept visualization job
// @Description Validates the payload, stores a pending job and returns its id immediately. Poll /image-status/{job_id} for the result.
// @Tags generation
// @Accept json,mpfd
// @Produce json
// @Param improvement_suggestions formData string true "JSON object {lighting, color_ambience, furniture_layout} or list"
// @Param room_type formData string true "Room type"
// @Param detected_objects formData string false "JSON object with an objects list"
// @Param visual_features formData string false "JSON object"
// @Param spatial_guidance formData string false "JSON object"
// @Success 202 {object} map[string]interface{} "Job accepted"
// @Failure 400 {object} map[string]interface{} "Malformed input"
// @Failure 503 {object} map[string]interface{} "Generator unavailable or job store full"
// @Router /generate-concept [post]
func (h *GenerationHandler) GenerateConcept(c *fiber.Ctx) error {
	if h.Orchestrator == nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, GeneratorNotReady)
	}

	payload, err := conceptPayload(c)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	req, err := services.ParseConceptPayload(payload)
	if err != nil {
		h.logger.Warn("Rejected concept payload", zap.Error(err))
		return errorResponse(c, statusFor(err), err.Error())
	}

	job, err := h.Orchestrator.Submit(c.UserContext(), req)
	if err != nil {
		h.logger.Error("Failed to start asynchronous image generation", zap.Error(err))
		return errorResponse(c, statusFor(err), "Failed to start image generation: "+err.Error())
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"success":                   true,
		"job_id":                    job.JobID,
		"status":                    job.Status,
		"message":                   "Image generation started. Use /image-status/" + job.JobID + " to check progress.",
		"estimated_completion_time": "30-60 seconds",
		"endpoint_metadata": fiber.Map{
			"endpoint":             "generate-concept",
			"room_type":            req.RoomType,
			"processing_timestamp": h.now().Format(time.DateTime),
			"pipeline_type":        "asynchronous_" + h.Orchestrator.Visualizer(),
		},
	})
}

// ImageStatus handles GET /image-status/:job_id.
// @Summary Poll a concept visualization job
// @Tags generation
// @Produce json
// @Param job_id path string true "Job ID"
// @Success 200 {object} map[string]interface{} "Job status"
// @Failure 404 {object} map[string]interface{} "Job not found"
// @Router /image-status/{job_id} [get]
func (h *GenerationHandler) ImageStatus(c *fiber.Ctx) error {
	if h.Orchestrator == nil {
		return errorResponse(c, fiber.StatusServiceUnavailable, GeneratorNotReady)
	}

	id := c.Params("job_id")
	job, err := h.Orchestrator.GetStatus(c.UserContext(), id)
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusNotFound {
			return errorResponse(c, status, JobNotFoundError)
		}
		h.logger.Error("Failed to load job status", zap.String("job_id", id), zap.Error(err))
		return errorResponse(c, status, err.Error())
	}

	return c.JSON(h.Orchestrator.StatusView(job, h.now()))
}

// conceptPayload reads the request as JSON or as form fields. In a JSON body
// each structured field may be an embedded object or a JSON-encoded string.
func conceptPayload(c *fiber.Ctx) (services.ConceptPayload, error) {
	if !strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		return services.ConceptPayload{
			ImprovementSuggestions: c.FormValue("improvement_suggestions"),
			DetectedObjects:        c.FormValue("detected_objects"),
			VisualFeatures:         c.FormValue("visual_features"),
			SpatialGuidance:        c.FormValue("spatial_guidance"),
			RoomType:               c.FormValue("room_type"),
		}, nil
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return services.ConceptPayload{}, fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}
	return services.ConceptPayload{
		ImprovementSuggestions: jsonText(body["improvement_suggestions"]),
		DetectedObjects:        jsonText(body["detected_objects"]),
		VisualFeatures:         jsonText(body["visual_features"]),
		SpatialGuidance:        jsonText(body["spatial_guidance"]),
		RoomType:               jsonText(body["room_type"]),
	}, nil
}

// jsonText unwraps a JSON string and passes any other value through as text.
func jsonText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
