package guidance

import "room-service/internal/models"

const (
	centerUsageLimit = 0.3
	balanceScoreMin  = 0.6
)

// LayoutAnalysis summarizes how the room is currently used.
type LayoutAnalysis struct {
	LayoutDensity   float64 `json:"layout_density"`
	WallUtilization float64 `json:"wall_utilization"`
	CenterUsage     float64 `json:"center_usage"`
	BalanceScore    float64 `json:"balance_score"`
}

// AnalyzeLayout computes the layout ratios for a set of zones.
func AnalyzeLayout(objects []models.DetectedObject, zones models.SpatialZones) LayoutAnalysis {
	n := float64(max(1, len(objects)))
	return LayoutAnalysis{
		LayoutDensity:   float64(len(objects)) / 10,
		WallUtilization: float64(len(zones.Members(models.ZoneWallAligned))) / n,
		CenterUsage:     float64(len(zones.Members(models.ZoneCenterBlocking))) / n,
		BalanceScore:    BalanceScore(zones),
	}
}

// BalanceScore is 1 for an even left/center/right spread and falls towards 0
// as one side dominates.
func BalanceScore(zones models.SpatialZones) float64 {
	left := zones.Count(models.ZoneLeft)
	right := zones.Count(models.ZoneRight)
	center := zones.Count(models.ZoneCenter)

	total := left + right + center
	if total == 0 {
		return 1.0
	}
	imbalance := max(abs(left-right), abs(left-center), abs(right-center))
	return max(0.0, 1.0-float64(imbalance)/float64(total))
}

func layoutRecommendations(objects []models.DetectedObject, zones models.SpatialZones, roomType string) []models.GuidanceItem {
	layout := AnalyzeLayout(objects, zones)
	out := []models.GuidanceItem{}

	switch roomType {
	case RoomLivingRoom:
		if layout.CenterUsage > centerUsageLimit {
			out = append(out, recommendation("traffic_flow", models.PriorityMedium,
				"Create clear pathways through the living room",
				"Consider repositioning furniture to open up central walking areas",
				"Living rooms benefit from clear traffic flow for social interaction",
				"Focus on creating conversation areas", "Maintain 3-foot pathways"))
		}
		if countCategory(objects, "seating") >= 2 {
			out = append(out, recommendation("social_layout", models.PriorityLow,
				"Optimize seating arrangement for conversation",
				"Arrange seating to encourage face-to-face interaction",
				"Conversation-friendly layouts make living rooms more inviting",
				"Angle chairs toward each other", "Create intimate seating groups"))
		}

	case RoomBedroom:
		if len(byClass(objects, "bed")) > 0 {
			out = append(out, recommendation("sleep_optimization", models.PriorityMedium,
				"Optimize bedroom layout for rest and relaxation",
				"Position bed to minimize disruptions and maximize comfort",
				"Bedroom layout significantly affects sleep quality and daily routines",
				"Avoid placing bed directly opposite doors", "Ensure bedside access"))
		}

	case RoomDiningRoom:
		if len(byClass(objects, "dining_table")) > 0 && len(byClass(objects, "chair")) > 0 {
			out = append(out, recommendation("dining_functionality", models.PriorityMedium,
				"Optimize dining area for comfort and accessibility",
				"Ensure adequate space around dining table for chair movement",
				"Proper dining layout improves meal experiences and accessibility",
				"Allow 24-30 inches per person", "Maintain 36 inches behind chairs"))
		}

	default:
		if layout.BalanceScore < balanceScoreMin {
			out = append(out, recommendation("visual_balance", models.PriorityLow,
				"Improve visual balance in the space",
				"Consider redistributing furniture for better visual harmony",
				"Balanced layouts create more pleasing and comfortable environments",
				"Consider visual weight, not just quantity", "Use accessories to balance"))
		}
	}

	return out
}

func recommendation(category string, priority models.Priority, description, text, reasoning string, tips ...string) models.GuidanceItem {
	return models.GuidanceItem{
		Kind:               models.KindLayoutRecommendation,
		Category:           category,
		Priority:           priority,
		Description:        description,
		Recommendation:     text,
		Reasoning:          reasoning,
		ImplementationTips: tips,
	}
}
