package guidance

import (
	"fmt"
	"strings"

	"room-service/internal/models"
)

const (
	maxLightingItems  = 3
	maxColorItems     = 3
	maxFurnitureItems = 4
)

// Summarize condenses guidance into the three-part brief the visualizer works
// from. Improvement suggestions are bucketed by keyword; placement and layout
// recommendations always count as furniture layout.
func Summarize(result models.GuidanceResult, roomType string) models.ImprovementSummary {
	var lighting, color, furniture []string

	for _, item := range result.ImprovementSuggestions {
		text := strings.ToLower(item.Recommendation)
		switch {
		case strings.Contains(text, "light") || item.Category == "lighting":
			lighting = append(lighting, item.Recommendation)
		case strings.Contains(text, "color") || strings.Contains(text, "paint") || item.Category == "color":
			color = append(color, item.Recommendation)
		default:
			furniture = append(furniture, item.Recommendation)
		}
	}

	for _, group := range [][]models.GuidanceItem{result.PlacementGuidance, result.LayoutRecommendations} {
		for _, item := range group {
			if item.Recommendation != "" {
				furniture = append(furniture, item.Recommendation)
			}
		}
	}

	summary := DefaultSummary(roomType)
	if len(lighting) > 0 {
		summary.Lighting = joinFirst(lighting, maxLightingItems)
	}
	if len(color) > 0 {
		summary.ColorAmbience = joinFirst(color, maxColorItems)
	}
	if len(furniture) > 0 {
		summary.FurnitureLayout = joinFirst(furniture, maxFurnitureItems)
	}
	return summary
}

// DefaultSummary is used for any bucket the guidance left empty.
func DefaultSummary(roomType string) models.ImprovementSummary {
	return models.ImprovementSummary{
		Lighting:        fmt.Sprintf("Optimize lighting for %s functionality and ambiance", roomType),
		ColorAmbience:   fmt.Sprintf("Enhance color scheme to improve %s atmosphere", roomType),
		FurnitureLayout: fmt.Sprintf("Improve %s layout for better functionality and flow", roomType),
	}
}

func joinFirst(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	return strings.Join(items, " ")
}
