package handlers

import (
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"room-service/internal/extraction"
	"room-service/internal/services"
)

// AnalysisHandler exposes the room analysis pipeline.
type AnalysisHandler struct {
	Service *services.AnalysisService
	logger  *zap.Logger
}

func NewAnalysisHandler(service *services.AnalysisService, logger *zap.Logger) *AnalysisHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisHandler{Service: service, logger: logger.Named("analysis-handler")}
}

// AnalyzeRoom handles POST /analyze-room.
// @Summary Analyze a room
// @Description Runs zone mapping and rule-based guidance over detections sent as JSON, or over an uploaded image when an object detector is configured.
// @Tags analysis
// @Accept json,mpfd
// @Produce json
// @Param request body services.AnalysisRequest false "Detections and image size"
// @Param image formData file false "Room photo (requires a detector)"
// @Param room_type formData string false "Room type"
// @Param improvement_notes formData string false "Free text or JSON notes"
// @Param visual_features formData string false "JSON object"
// @Param generate_concept formData bool false "Start a concept visualization job"
// @Success 200 {object} map[string]interface{} "Analysis result"
// @Failure 400 {object} map[string]interface{} "Malformed input or invalid image dimensions"
// @Failure 503 {object} map[string]interface{} "No detector configured"
// @Router /analyze-room [post]
func (h *AnalysisHandler) AnalyzeRoom(c *fiber.Ctx) error {
	var (
		out *services.AnalysisOutcome
		err error
	)

	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm) {
		out, err = h.analyzeUpload(c)
	} else {
		var req services.AnalysisRequest
		if err := c.BodyParser(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
		out, err = h.Service.Analyze(c.UserContext(), req)
	}
	if err != nil {
		status := statusFor(err)
		if status >= fiber.StatusInternalServerError && status != fiber.StatusServiceUnavailable {
			h.logger.Error("Room analysis failed", zap.Error(err))
			return errorResponse(c, status, "Analysis failed: "+err.Error())
		}
		return errorResponse(c, status, err.Error())
	}

	return c.JSON(analysisResponse(out))
}

func (h *AnalysisHandler) analyzeUpload(c *fiber.Ctx) (*services.AnalysisOutcome, error) {
	if !h.Service.HasDetector() {
		return nil, fiber.NewError(fiber.StatusServiceUnavailable, DetectorNotReady)
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to read image: "+err.Error())
	}
	data, err := readFormFile(c, "image")
	if err != nil {
		return nil, err
	}

	features := c.FormValue("visual_features", c.FormValue("existing_features"))
	req := services.AnalysisRequest{
		RoomType:        c.FormValue("room_type"),
		GenerateConcept: formBool(c.FormValue("generate_concept"), true),
	}
	if notes := c.FormValue("improvement_notes"); notes != "" {
		req.ImprovementNotes = notesJSON(notes)
	}
	if features != "" {
		// Unparsable features are ignored, as with the detector's own output.
		_ = json.Unmarshal([]byte(features), &req.VisualFeatures)
	}

	h.logger.Info("Analyzing uploaded room image",
		zap.String("file", fileHeader.Filename), zap.Int64("bytes", fileHeader.Size))
	return h.Service.AnalyzeImage(c.UserContext(), fileHeader.Filename, data, req)
}

// GetAnalysis handles GET /analyses/:id.
// @Summary Get a stored analysis
// @Tags analysis
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} models.RoomAnalysis
// @Failure 400 {object} map[string]interface{} "Invalid UUID"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Failure 503 {object} map[string]interface{} "No database configured"
// @Router /analyses/{id} [get]
func (h *AnalysisHandler) GetAnalysis(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, InvalidUuidError)
	}

	analysis, err := h.Service.Get(c.UserContext(), id)
	if err != nil {
		status := statusFor(err)
		switch status {
		case fiber.StatusNotFound:
			return errorResponse(c, status, AnalysisNotFound)
		case fiber.StatusServiceUnavailable:
			return errorResponse(c, status, DatabaseNotEnabled)
		}
		h.logger.Error("Error fetching analysis", zap.String("analysis_id", id.String()), zap.Error(err))
		return errorResponse(c, status, err.Error())
	}
	return c.JSON(analysis)
}

// ListAnalyses handles GET /analyses.
// @Summary List stored analyses
// @Tags analysis
// @Produce json
// @Param room_type query string false "Filter by room type"
// @Param limit query int false "Maximum results (default 20, max 100)"
// @Success 200 {array} models.RoomAnalysis
// @Failure 503 {object} map[string]interface{} "No database configured"
// @Router /analyses [get]
func (h *AnalysisHandler) ListAnalyses(c *fiber.Ctx) error {
	analyses, err := h.Service.List(c.UserContext(), c.Query("room_type"), c.QueryInt("limit", 20))
	if err != nil {
		status := statusFor(err)
		if status == fiber.StatusServiceUnavailable {
			return errorResponse(c, status, DatabaseNotEnabled)
		}
		h.logger.Error("Error listing analyses", zap.Error(err))
		return errorResponse(c, status, err.Error())
	}
	return c.JSON(analyses)
}

// AnalyzeBatch handles POST /analyze-room/batch.
// @Summary Analyze a batch of rooms
// @Description Accepts a zip or tar archive of analyze-room JSON payloads and analyzes them concurrently. Concept jobs are never started for batch items.
// @Tags analysis
// @Accept mpfd
// @Produce json
// @Param archive formData file true "zip or tar archive of .json payloads"
// @Success 200 {object} map[string]interface{} "Per-file results"
// @Failure 400 {object} map[string]interface{} "Unreadable archive"
// @Router /analyze-room/batch [post]
func (h *AnalysisHandler) AnalyzeBatch(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("archive")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "failed to read archive: "+err.Error())
	}
	data, err := readFormFile(c, "archive")
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, err.Error())
	}

	payloads, err := extraction.ExtractPayloads(c.UserContext(), fileHeader.Filename, data)
	if err != nil {
		return errorResponse(c, statusFor(err), err.Error())
	}
	if len(payloads) == 0 {
		return errorResponse(c, fiber.StatusBadRequest, "archive contains no .json payloads")
	}

	items := h.Service.AnalyzeBatch(c.UserContext(), payloads)

	results := make([]fiber.Map, 0, len(items))
	failed := 0
	for _, item := range items {
		if item.Outcome == nil {
			failed++
			results = append(results, fiber.Map{"name": item.Name, "success": false, "error": item.Error})
			continue
		}
		entry := analysisResponse(item.Outcome)
		entry["name"] = item.Name
		results = append(results, entry)
	}

	h.logger.Info("Batch analysis finished",
		zap.String("archive", fileHeader.Filename),
		zap.Int("files", len(items)),
		zap.Int("failed", failed))

	return c.JSON(fiber.Map{
		"success":   failed < len(items),
		"total":     len(items),
		"succeeded": len(items) - failed,
		"failed":    failed,
		"results":   results,
	})
}

func analysisResponse(out *services.AnalysisOutcome) fiber.Map {
	a := out.Analysis
	resp := fiber.Map{
		"success":                 true,
		"analysis_id":             a.ID,
		"detected_objects":        a.Detection,
		"spatial_analysis":        a.Spatial,
		"spatial_guidance":        a.Guidance,
		"improvement_suggestions": a.Summary,
		"visual_features":         out.VisualFeatures,
		"concept_job":             nil,
		"analysis_metadata":       out.Metadata(),
	}
	switch {
	case out.ConceptJob != nil:
		resp["concept_job"] = fiber.Map{
			"job_id":     out.ConceptJob.JobID,
			"status":     out.ConceptJob.Status,
			"status_url": "/image-status/" + out.ConceptJob.JobID,
		}
	case out.ConceptError != "":
		resp["concept_job"] = fiber.Map{"success": false, "error": out.ConceptError}
	}
	return resp
}

func readFormFile(c *fiber.Ctx, field string) ([]byte, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to read "+field+": "+err.Error())
	}
	f, err := fileHeader.Open()
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "failed to open "+field+": "+err.Error())
	}
	defer f.Close()
	return io.ReadAll(f)
}

func formBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// notesJSON keeps JSON notes as sent and wraps plain text as a JSON string.
func notesJSON(notes string) json.RawMessage {
	if json.Valid([]byte(notes)) {
		return json.RawMessage(notes)
	}
	quoted, _ := json.Marshal(notes)
	return quoted
}
