package guidance

import (
	"room-service/internal/models"
)

const (
	issueReasoning          = "Spatial analysis indicates potential improvement opportunity"
	issueImplementationNote = "Consider these suggestions as starting points for improvement"
	insightImplementation   = "These suggestions may improve room functionality and aesthetics"

	sideImbalanceThreshold = 2
)

func improvementSuggestions(objects []models.DetectedObject, zones models.SpatialZones, issues []models.SpatialIssue, insights []models.SpatialInsight) []models.GuidanceItem {
	out := []models.GuidanceItem{}

	for _, issue := range issues {
		out = append(out, models.GuidanceItem{
			Kind:               models.KindImprovementSuggestion,
			Category:           issue.IssueType,
			Priority:           issue.Severity,
			Description:        issue.Description,
			Recommendation:     issue.Suggestion,
			AffectedObjects:    issue.AffectedObjects,
			Reasoning:          issueReasoning,
			Confidence:         "moderate",
			ImplementationNote: issueImplementationNote,
		})
	}

	for _, insight := range insights {
		out = append(out, models.GuidanceItem{
			Kind:               models.KindImprovementSuggestion,
			Category:           insight.InsightType,
			Priority:           insight.Priority,
			Description:        insight.Description,
			Recommendation:     insight.Suggestion,
			AffectedObjects:    insight.AffectedObjects,
			Reasoning:          insight.Reasoning,
			Confidence:         "moderate",
			ImplementationNote: insightImplementation,
		})
	}

	var seating []string
	for _, obj := range objects {
		if obj.FurnitureCategory == "seating" {
			seating = append(seating, obj.ClassName)
		}
	}
	if len(seating) >= 2 {
		out = append(out, models.GuidanceItem{
			Kind:               models.KindImprovementSuggestion,
			Category:           "seating_arrangement",
			Priority:           models.PriorityLow,
			Description:        "Multiple seating options detected - consider creating conversation areas",
			Recommendation:     "Arrange seating to face each other or create intimate groupings",
			AffectedObjects:    seating,
			Reasoning:          "Grouped seating creates more inviting and functional social spaces",
			Confidence:         "moderate",
			ImplementationNote: "Adjust based on room size and primary use patterns",
		})
	}

	left := zones.Count(models.ZoneLeft)
	right := zones.Count(models.ZoneRight)
	if abs(left-right) > sideImbalanceThreshold {
		out = append(out, models.GuidanceItem{
			Kind:               models.KindImprovementSuggestion,
			Category:           "visual_balance",
			Priority:           models.PriorityLow,
			Description:        "Furniture distribution appears unbalanced between left and right sides",
			Recommendation:     "Consider redistributing furniture or adding elements to balance the space",
			AffectedObjects:    []string{},
			Reasoning:          "Balanced furniture distribution creates more visually pleasing and harmonious spaces",
			Confidence:         "low",
			ImplementationNote: "Balance doesn't require perfect symmetry - consider visual weight and scale",
		})
	}

	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
