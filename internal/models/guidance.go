package models

type GuidanceKind string

const (
	KindPlacementGuidance     GuidanceKind = "placement_guidance"
	KindImprovementSuggestion GuidanceKind = "improvement_suggestion"
	KindLayoutRecommendation  GuidanceKind = "layout_recommendation"
	KindSafetyConsideration   GuidanceKind = "safety_consideration"
)

// GuidanceItem is one prioritized recommendation produced by the rule engine.
// Category holds the rule that fired (wall_alignment, traffic_flow, ...).
type GuidanceItem struct {
	Kind               GuidanceKind `json:"kind"`
	Category           string       `json:"category"`
	Priority           Priority     `json:"priority"`
	Recommendation     string       `json:"recommendation"`
	Reasoning          string       `json:"reasoning"`
	Confidence         string       `json:"confidence,omitempty"`
	Description        string       `json:"description,omitempty"`
	Object             string       `json:"object,omitempty"`
	ObjectID           string       `json:"object_id,omitempty"`
	AffectedObjects    []string     `json:"affected_objects,omitempty"`
	AffectedAreas      []string     `json:"affected_areas,omitempty"`
	SafetyNote         string       `json:"safety_note,omitempty"`
	ImplementationNote string       `json:"implementation_note,omitempty"`
	ImplementationTips []string     `json:"implementation_tips,omitempty"`
	UserPreferenceNote string       `json:"user_preference_note,omitempty"`
}

type GuidanceMetadata struct {
	RuleEngineVersion    string `json:"rule_engine_version,omitempty"`
	RulesApplied         int    `json:"rules_applied,omitempty"`
	RoomType             string `json:"room_type,omitempty"`
	ObjectsAnalyzed      int    `json:"objects_analyzed"`
	SpatialZonesAnalyzed int    `json:"spatial_zones_analyzed"`
	ReasoningApproach    string `json:"reasoning_approach,omitempty"`
	Error                string `json:"error,omitempty"`
	FallbackMode         bool   `json:"fallback_mode,omitempty"`
}

// GuidanceResult is the full rule-engine output. An empty result with
// Metadata.Error set means reasoning was unavailable, not that the room is fine.
type GuidanceResult struct {
	PlacementGuidance      []GuidanceItem   `json:"placement_guidance"`
	ImprovementSuggestions []GuidanceItem   `json:"improvement_suggestions"`
	LayoutRecommendations  []GuidanceItem   `json:"layout_recommendations"`
	SafetyConsiderations   []GuidanceItem   `json:"safety_considerations"`
	Metadata               GuidanceMetadata `json:"reasoning_metadata"`
}

// Degraded reports whether the engine fell back to an empty result.
func (g GuidanceResult) Degraded() bool {
	return g.Metadata.FallbackMode
}

// ImprovementSummary is the three-part text brief handed to visualization.
type ImprovementSummary struct {
	Lighting        string `json:"lighting"`
	ColorAmbience   string `json:"color_ambience"`
	FurnitureLayout string `json:"furniture_layout"`
}

// Categories lists the populated keys, in fixed order.
func (s ImprovementSummary) Categories() []string {
	var out []string
	if s.Lighting != "" {
		out = append(out, "lighting")
	}
	if s.ColorAmbience != "" {
		out = append(out, "color_ambience")
	}
	if s.FurnitureLayout != "" {
		out = append(out, "furniture_layout")
	}
	return out
}
