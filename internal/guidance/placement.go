package guidance

import (
	"fmt"

	"room-service/internal/models"
	"room-service/internal/utils"
)

// entertainmentViewingDistance is the TV to couch distance past which viewing
// distance guidance is emitted.
const entertainmentViewingDistance = 0.6

func placementGuidance(objects []models.DetectedObject, zones models.SpatialZones, roomType string) []models.GuidanceItem {
	out := []models.GuidanceItem{}
	idx := indexObjects(objects)

	for _, obj := range objects {
		if obj.SizeCategory != models.SizeLarge || zones.Contains(models.ZoneWallAligned, obj.ObjectID) {
			continue
		}
		if obj.FurnitureCategory != "seating" && obj.FurnitureCategory != "sleeping" {
			continue
		}
		out = append(out, placement(obj, "wall_alignment", models.PriorityMedium,
			fmt.Sprintf("Consider relocating the %s to align with a wall", obj.ClassName),
			"Wall-aligned large furniture maximizes open floor space and improves traffic flow",
			"high",
			"Ensure adequate clearance for safe movement around furniture"))
	}

	for _, id := range zones.Members(models.ZoneCenterBlocking) {
		obj, ok := idx[id]
		if !ok {
			continue
		}
		out = append(out, placement(obj, "pathway_clearance", models.PriorityHigh,
			fmt.Sprintf("The %s appears to be blocking central walking areas", obj.ClassName),
			"Clear pathways through the center improve room functionality and safety",
			"high",
			"Maintain clear walking paths to prevent accidents"))
	}

	for _, id := range zones.Members(models.ZoneNearWindow) {
		obj, ok := idx[id]
		if !ok || obj.SizeCategory != models.SizeLarge {
			continue
		}
		out = append(out, placement(obj, "natural_light_optimization", models.PriorityLow,
			fmt.Sprintf("Verify that the %s placement doesn't obstruct natural light", obj.ClassName),
			"Furniture blocking windows can reduce natural light and make spaces feel smaller",
			"moderate",
			"Ensure furniture doesn't create dark areas that could be hazardous"))
	}

	return append(out, roomSpecificPlacement(objects, roomType)...)
}

func roomSpecificPlacement(objects []models.DetectedObject, roomType string) []models.GuidanceItem {
	var out []models.GuidanceItem

	switch roomType {
	case RoomBedroom:
		for _, bed := range byClass(objects, "bed") {
			if bed.RelativePosition.CenterX <= 0.5 {
				continue
			}
			item := placement(bed, "bedroom_layout", models.PriorityLow,
				"Consider bed placement for optimal room flow and access",
				"Bed positioning affects room functionality and morning routines",
				"moderate",
				"Ensure easy access to both sides of the bed when possible")
			item.Object = "bed"
			out = append(out, item)
		}

	case RoomLivingRoom:
		for _, tv := range byClass(objects, "tv") {
			for _, couch := range byClass(objects, "couch") {
				d := utils.EuclideanDistance(
					tv.RelativePosition.CenterX, tv.RelativePosition.CenterY,
					couch.RelativePosition.CenterX, couch.RelativePosition.CenterY,
				)
				if d <= entertainmentViewingDistance {
					continue
				}
				out = append(out, models.GuidanceItem{
					Kind:           models.KindPlacementGuidance,
					Category:       "entertainment_layout",
					Priority:       models.PriorityLow,
					Object:         "entertainment_setup",
					ObjectID:       tv.ObjectID + "_" + couch.ObjectID,
					Recommendation: "Consider optimizing the distance between seating and TV for comfortable viewing",
					Reasoning:      "Proper viewing distance enhances entertainment experience and reduces eye strain",
					Confidence:     "moderate",
					SafetyNote:     "Maintain clear pathways between seating and entertainment areas",
				})
			}
		}
	}

	return out
}

func placement(obj models.DetectedObject, category string, priority models.Priority, recommendation, reasoning, confidence, safetyNote string) models.GuidanceItem {
	return models.GuidanceItem{
		Kind:           models.KindPlacementGuidance,
		Category:       category,
		Priority:       priority,
		Object:         obj.ClassName,
		ObjectID:       obj.ObjectID,
		Recommendation: recommendation,
		Reasoning:      reasoning,
		Confidence:     confidence,
		SafetyNote:     safetyNote,
	}
}
