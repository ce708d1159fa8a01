package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"room-service/internal/apperrors"
	"room-service/internal/detection"
	"room-service/internal/extraction"
	"room-service/internal/guidance"
	"room-service/internal/metrics"
	"room-service/internal/models"
	"room-service/internal/repository"
	"room-service/internal/spatial"
	"room-service/internal/utils"
)

const (
	DefaultRoomType            = "living_room"
	DefaultConfidenceThreshold = 0.5
	DefaultBatchConcurrency    = 4
	DefaultListLimit           = 20
	MaxListLimit               = 100

	PipelineType = "collaborative_ai_hybrid"
)

// AnalysisRequest is one room to analyze. Detections are either supplied by
// the caller or filled in by the detector for image uploads.
type AnalysisRequest struct {
	RoomType         string             `json:"room_type"`
	ImprovementNotes json.RawMessage    `json:"improvement_notes,omitempty" swaggertype:"string"`
	ImageWidth       int                `json:"image_width"`
	ImageHeight      int                `json:"image_height"`
	Detections       []models.Detection `json:"detections"`
	VisualFeatures   map[string]any     `json:"visual_features,omitempty"`
	GenerateConcept  bool               `json:"generate_concept"`
}

// AnalysisOutcome is everything one analysis produced.
type AnalysisOutcome struct {
	Analysis       *models.RoomAnalysis
	VisualFeatures map[string]any
	ConceptJob     *models.GenerationJob
	// ConceptError explains why a requested concept job was not started.
	ConceptError string
	Persisted    bool
	Timings      map[string]float64
	Model        string
}

// Metadata renders the analysis_metadata block of the response.
func (o *AnalysisOutcome) Metadata() map[string]any {
	stages := 2
	if o.ConceptJob != nil {
		stages = 4
	}
	return map[string]any{
		"pipeline_type":          PipelineType,
		"room_type":              o.Analysis.RoomType,
		"improvement_notes":      o.Analysis.ImprovementNotes,
		"stages_completed":       stages,
		"analysis_timestamp":     o.Analysis.CreatedAt.Format(time.RFC3339),
		"confidence_threshold":   o.Analysis.Detection.DetectionMetadata.ConfidenceThreshold,
		"guidance_fallback_mode": o.Analysis.Guidance.Degraded(),
		"persisted":              o.Persisted,
		"stage_timings_ms":       o.Timings,
	}
}

// BatchItem is the result for one file of a batch upload.
type BatchItem struct {
	Name    string           `json:"name"`
	Outcome *AnalysisOutcome `json:"-"`
	Error   string           `json:"error,omitempty"`
}

type AnalysisOptions struct {
	ConfidenceThreshold float64
	BatchConcurrency    int
	Repo                repository.AnalysisRepository
	Detector            detection.Detector
	Orchestrator        *JobOrchestrator
	Metrics             *utils.Metrics
}

// AnalysisService runs the analysis pipeline: normalize, analyze zones,
// generate guidance, summarize. Persistence, detection and concept jobs are
// optional collaborators.
type AnalysisService struct {
	engine *guidance.Engine
	opts   AnalysisOptions
	logger *zap.Logger
}

func NewAnalysisService(engine *guidance.Engine, opts AnalysisOptions, logger *zap.Logger) *AnalysisService {
	if opts.ConfidenceThreshold <= 0 {
		opts.ConfidenceThreshold = DefaultConfidenceThreshold
	}
	if opts.BatchConcurrency < 1 {
		opts.BatchConcurrency = DefaultBatchConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnalysisService{
		engine: engine,
		opts:   opts,
		logger: logger.Named("analysis"),
	}
}

func (s *AnalysisService) HasDetector() bool {
	return s.opts.Detector != nil
}

func (s *AnalysisService) HasRepository() bool {
	return s.opts.Repo != nil
}

// Analyze runs the pipeline over caller-supplied detections.
func (s *AnalysisService) Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisOutcome, error) {
	return s.analyze(ctx, req, metrics.NewStageTimings(), "")
}

// AnalyzeImage sends the image to the detector first and then analyzes the
// boxes it returns.
func (s *AnalysisService) AnalyzeImage(ctx context.Context, filename string, image []byte, req AnalysisRequest) (*AnalysisOutcome, error) {
	if s.opts.Detector == nil {
		return nil, apperrors.ErrDetectorUnavailable
	}

	timings := metrics.NewStageTimings()
	timings.Start("detection")
	resp, err := s.opts.Detector.Detect(ctx, filename, image)
	timings.End("detection")
	if err != nil {
		s.opts.Metrics.RecordAnalysis(roomTypeOrDefault(req.RoomType), "detector_error", timings.TotalMs())
		return nil, errors.Wrap(err, "object detection")
	}

	req.Detections = resp.Detections
	req.ImageWidth = resp.Width
	req.ImageHeight = resp.Height
	return s.analyze(ctx, req, timings, resp.Model)
}

func (s *AnalysisService) analyze(ctx context.Context, req AnalysisRequest, timings *metrics.StageTimings, model string) (*AnalysisOutcome, error) {
	roomType := roomTypeOrDefault(req.RoomType)
	notes := guidance.NotesText(req.ImprovementNotes)

	timings.Start("normalization")
	detected, err := spatial.Normalize(req.Detections, req.ImageWidth, req.ImageHeight, s.opts.ConfidenceThreshold)
	timings.End("normalization")
	if err != nil {
		s.opts.Metrics.RecordAnalysis(roomType, "rejected", timings.TotalMs())
		return nil, err
	}
	detected.DetectionMetadata.Model = model

	var analysis models.SpatialAnalysis
	timings.Time("spatial", func() {
		analysis = spatial.Analyze(detected)
	})

	var result models.GuidanceResult
	timings.Time("guidance", func() {
		result = s.engine.Generate(guidance.Input{
			Objects:  detected.Objects,
			Analysis: &analysis,
			RoomType: roomType,
			Notes:    notes,
		})
	})
	if result.Degraded() {
		s.opts.Metrics.IncrementGuidanceFallbacks()
	}

	summary := guidance.Summarize(result, roomType)

	record := &models.RoomAnalysis{
		ID:               uuid.New(),
		RoomType:         roomType,
		ImprovementNotes: notes,
		ObjectCount:      len(detected.Objects),
		Detection:        detected,
		Spatial:          &analysis,
		Guidance:         &result,
		Summary:          &summary,
		CreatedAt:        time.Now(),
	}

	out := &AnalysisOutcome{
		Analysis:       record,
		VisualFeatures: req.VisualFeatures,
		Model:          model,
	}
	if out.VisualFeatures == nil {
		out.VisualFeatures = map[string]any{}
	}

	if req.GenerateConcept {
		s.submitConcept(ctx, out)
	}

	if s.opts.Repo != nil {
		timings.Start("persistence")
		err := s.opts.Repo.Create(ctx, record)
		timings.End("persistence")
		if err != nil {
			// The analysis itself succeeded; the caller still gets it.
			s.logger.Error("Failed to persist analysis", zap.String("analysis_id", record.ID.String()), zap.Error(err))
		} else {
			out.Persisted = true
		}
	}

	out.Timings = timings.Finalize()
	s.opts.Metrics.RecordAnalysis(roomType, "success", out.Timings["total"])

	s.logger.Info("Room analysis completed",
		zap.String("analysis_id", record.ID.String()),
		zap.String("room_type", roomType),
		zap.Int("objects", record.ObjectCount),
		zap.Bool("fallback_mode", result.Degraded()),
		zap.Float64("total_ms", out.Timings["total"]))

	return out, nil
}

func (s *AnalysisService) submitConcept(ctx context.Context, out *AnalysisOutcome) {
	if s.opts.Orchestrator == nil {
		out.ConceptError = "Conceptual generation disabled"
		return
	}

	a := out.Analysis
	req := models.ConceptRequest{
		ImprovementSuggestions: *a.Summary,
		DetectedObjects:        s.asMap(a.Detection),
		VisualFeatures:         out.VisualFeatures,
		SpatialGuidance:        s.asMap(a.Guidance),
		RoomType:               a.RoomType,
	}

	job, err := s.opts.Orchestrator.Submit(ctx, req)
	if err != nil {
		s.logger.Warn("Concept job not started", zap.String("analysis_id", a.ID.String()), zap.Error(err))
		out.ConceptError = err.Error()
		return
	}
	out.ConceptJob = job
	a.JobID = &job.JobID
}

// AnalyzeBatch analyzes every payload concurrently. A bad payload fails only
// its own item.
func (s *AnalysisService) AnalyzeBatch(ctx context.Context, payloads []extraction.Payload) []BatchItem {
	items := make([]BatchItem, len(payloads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.BatchConcurrency)

	for i, p := range payloads {
		items[i].Name = p.Name
		g.Go(func() error {
			var req AnalysisRequest
			if err := json.Unmarshal(p.Data, &req); err != nil {
				items[i].Error = errors.Wrapf(apperrors.ErrMalformedInput, "%s: %v", p.Name, err).Error()
				return nil
			}
			// Batch runs never start concept jobs.
			req.GenerateConcept = false

			out, err := s.Analyze(gctx, req)
			if err != nil {
				items[i].Error = err.Error()
				return nil
			}
			items[i].Outcome = out
			return nil
		})
	}
	// Workers never return an error; each item carries its own.
	_ = g.Wait()

	return items
}

// Get loads a persisted analysis.
func (s *AnalysisService) Get(ctx context.Context, id uuid.UUID) (*models.RoomAnalysis, error) {
	if s.opts.Repo == nil {
		return nil, errors.Wrap(apperrors.ErrServiceUnavailable, "analysis storage is not configured")
	}
	return s.opts.Repo.Get(ctx, id)
}

// List returns recent persisted analyses, newest first.
func (s *AnalysisService) List(ctx context.Context, roomType string, limit int) ([]models.RoomAnalysis, error) {
	if s.opts.Repo == nil {
		return nil, errors.Wrap(apperrors.ErrServiceUnavailable, "analysis storage is not configured")
	}
	switch {
	case limit <= 0:
		limit = DefaultListLimit
	case limit > MaxListLimit:
		limit = MaxListLimit
	}
	return s.opts.Repo.List(ctx, strings.TrimSpace(roomType), limit)
}

func roomTypeOrDefault(roomType string) string {
	roomType = strings.TrimSpace(roomType)
	if roomType == "" {
		return DefaultRoomType
	}
	return roomType
}

// asMap re-encodes a typed value as the loose JSON object form that
// visualizers consume.
func (s *AnalysisService) asMap(v any) map[string]any {
	out := map[string]any{}
	data, err := json.Marshal(v)
	if err == nil {
		err = json.Unmarshal(data, &out)
	}
	if err != nil {
		s.logger.Debug("Value is not a JSON object", zap.String("type", fmt.Sprintf("%T", v)), zap.Error(err))
		return map[string]any{}
	}
	return out
}
