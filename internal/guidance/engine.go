// Package guidance is the deterministic rule engine that turns spatial
// analysis into placement guidance, improvement suggestions, layout
// recommendations and safety considerations.
package guidance

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

const (
	EngineVersion     = "1.0"
	ReasoningApproach = "deterministic_rule_based"

	RoomBedroom    = "bedroom"
	RoomLivingRoom = "living_room"
	RoomDiningRoom = "dining_room"
)

// designRules and reasoningRules are the rule families the engine reports as
// applied in its metadata.
var (
	designRules = []string{
		"wall_alignment", "pathway_clearance", "natural_light",
		"functional_grouping", "visual_balance",
	}
	reasoningRules = []string{"zone_optimization", "relationship_analysis", "traffic_flow"}
)

// Input is everything a guidance run looks at.
type Input struct {
	Objects  []models.DetectedObject
	Analysis *models.SpatialAnalysis
	RoomType string
	Notes    string
}

// Engine applies the rule set. It holds no per-request state and may be shared
// across goroutines.
type Engine struct {
	logger *zap.Logger
}

func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{logger: logger.Named("guidance")}
}

// Generate runs every rule over the input. A failure inside the engine never
// escapes: it is reported as an empty result with Metadata.Error set and
// FallbackMode true.
func (e *Engine) Generate(in Input) (result models.GuidanceResult) {
	defer func() {
		if r := recover(); r != nil {
			err := errors.Wrap(apperrors.ErrEngineReasoningFailure, fmt.Sprint(r))
			e.logger.Error("Spatial guidance generation failed", zap.Error(err))
			result = Degraded(err)
		}
	}()

	if err := validate(in); err != nil {
		e.logger.Warn("Rejected guidance input", zap.Error(err))
		return Degraded(err)
	}

	zones := in.Analysis.SpatialZones

	placement := placementGuidance(in.Objects, zones, in.RoomType)
	improvements := improvementSuggestions(in.Objects, zones, in.Analysis.SpatialIssues, in.Analysis.SpatialInsights)
	layout := layoutRecommendations(in.Objects, zones, in.RoomType)
	safety := safetyConsiderations(in.Objects, zones)

	if in.Notes != "" {
		applyPreferences(placement, in.Notes)
		applyPreferences(improvements, in.Notes)
	}

	result = models.GuidanceResult{
		PlacementGuidance:      placement,
		ImprovementSuggestions: improvements,
		LayoutRecommendations:  layout,
		SafetyConsiderations:   safety,
		Metadata: models.GuidanceMetadata{
			RuleEngineVersion:    EngineVersion,
			RulesApplied:         len(designRules) + len(reasoningRules),
			RoomType:             in.RoomType,
			ObjectsAnalyzed:      len(in.Objects),
			SpatialZonesAnalyzed: len(zones.Zones),
			ReasoningApproach:    ReasoningApproach,
		},
	}

	e.logger.Debug("Generated spatial guidance",
		zap.String("room_type", in.RoomType),
		zap.Int("placement", len(placement)),
		zap.Int("improvements", len(improvements)),
		zap.Int("layout", len(layout)),
		zap.Int("safety", len(safety)))

	return result
}

// Degraded is the result callers receive when reasoning is unavailable.
func Degraded(err error) models.GuidanceResult {
	return models.GuidanceResult{
		PlacementGuidance:      []models.GuidanceItem{},
		ImprovementSuggestions: []models.GuidanceItem{},
		LayoutRecommendations:  []models.GuidanceItem{},
		SafetyConsiderations:   []models.GuidanceItem{},
		Metadata: models.GuidanceMetadata{
			Error:        err.Error(),
			FallbackMode: true,
		},
	}
}

func validate(in Input) error {
	if in.Analysis == nil {
		return errors.Wrap(apperrors.ErrEngineReasoningFailure, "missing spatial analysis")
	}
	seen := make(map[string]struct{}, len(in.Objects))
	for _, obj := range in.Objects {
		if _, dup := seen[obj.ObjectID]; dup {
			return errors.Wrapf(apperrors.ErrEngineReasoningFailure, "duplicate object id %q", obj.ObjectID)
		}
		seen[obj.ObjectID] = struct{}{}
	}
	return nil
}

func indexObjects(objects []models.DetectedObject) map[string]models.DetectedObject {
	idx := make(map[string]models.DetectedObject, len(objects))
	for _, obj := range objects {
		idx[obj.ObjectID] = obj
	}
	return idx
}

func byClass(objects []models.DetectedObject, class string) []models.DetectedObject {
	var out []models.DetectedObject
	for _, obj := range objects {
		if obj.ClassName == class {
			out = append(out, obj)
		}
	}
	return out
}

func countCategory(objects []models.DetectedObject, category string) int {
	n := 0
	for _, obj := range objects {
		if obj.FurnitureCategory == category {
			n++
		}
	}
	return n
}
