package guidance

import "room-service/internal/models"

// safetyConsiderations always includes lighting safety. Pathway and stability
// items only appear when the zones give a reason for them.
func safetyConsiderations(objects []models.DetectedObject, zones models.SpatialZones) []models.GuidanceItem {
	out := []models.GuidanceItem{}

	if len(zones.Members(models.ZoneCenterBlocking)) > 0 {
		out = append(out, models.GuidanceItem{
			Kind:           models.KindSafetyConsideration,
			Category:       "pathway_clearance",
			Priority:       models.PriorityHigh,
			Description:    "Ensure clear pathways through the room",
			Recommendation: "Maintain at least 36 inches of clear walking space in main pathways",
			Reasoning:      "Clear pathways prevent accidents and improve accessibility",
			AffectedAreas:  []string{"central_walking_area"},
		})
	}

	for _, obj := range objects {
		if obj.SizeCategory != models.SizeLarge {
			continue
		}
		out = append(out, models.GuidanceItem{
			Kind:           models.KindSafetyConsideration,
			Category:       "furniture_stability",
			Priority:       models.PriorityMedium,
			Description:    "Ensure large furniture is properly secured",
			Recommendation: "Consider anchoring tall or heavy furniture to walls for safety",
			Reasoning:      "Unsecured furniture can pose tipping hazards, especially in homes with children",
			AffectedAreas:  []string{"furniture_placement"},
		})
		break
	}

	out = append(out, models.GuidanceItem{
		Kind:           models.KindSafetyConsideration,
		Category:       "lighting_safety",
		Priority:       models.PriorityMedium,
		Description:    "Ensure adequate lighting in all areas",
		Recommendation: "Verify that furniture placement doesn't create dark areas or shadows",
		Reasoning:      "Well-lit spaces prevent accidents and improve overall safety",
		AffectedAreas:  []string{"lighting_coverage"},
	})

	return out
}
