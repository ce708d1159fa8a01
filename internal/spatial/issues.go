package spatial

import "room-service/internal/models"

// DetectIssues derives problems from zone membership.
func DetectIssues(objects []models.DetectedObject, zones models.SpatialZones) []models.SpatialIssue {
	issues := []models.SpatialIssue{}

	blocking := objectsIn(objects, zones, models.ZoneCenterBlocking, nil)
	if len(blocking) > 0 {
		issues = append(issues, models.SpatialIssue{
			IssueType:         "center_blocking",
			Severity:          models.PriorityMedium,
			Description:       "Large furniture appears to be blocking central walking area",
			AffectedObjects:   classNames(blocking),
			AffectedObjectIDs: objectIDs(blocking),
			Suggestion:        "Consider relocating large furniture to wall-aligned positions",
		})
	}

	windowBlocking := objectsIn(objects, zones, models.ZoneNearWindow, isLarge)
	if len(windowBlocking) > 0 {
		issues = append(issues, models.SpatialIssue{
			IssueType:         "potential_window_blocking",
			Severity:          models.PriorityLow,
			Description:       "Large furniture may be blocking natural light sources",
			AffectedObjects:   classNames(windowBlocking),
			AffectedObjectIDs: objectIDs(windowBlocking),
			Suggestion:        "Verify furniture placement doesn't obstruct windows or light sources",
		})
	}

	if Unbalanced(
		len(zones.Members(models.ZoneLeft)),
		len(zones.Members(models.ZoneRight)),
		len(zones.Members(models.ZoneCenter)),
	) {
		issues = append(issues, models.SpatialIssue{
			IssueType:         "unbalanced_distribution",
			Severity:          models.PriorityLow,
			Description:       "Furniture distribution appears unbalanced across the room",
			AffectedObjects:   []string{},
			AffectedObjectIDs: []string{},
			Suggestion:        "Consider redistributing furniture for better visual balance",
		})
	}

	return issues
}

// Unbalanced reports whether the most populated horizontal zone holds more
// than twice the least populated one plus one.
func Unbalanced(left, right, center int) bool {
	return max(left, right, center) > 2*min(left, right, center)+1
}

// GenerateInsights looks for improvement opportunities rather than problems.
func GenerateInsights(objects []models.DetectedObject, zones models.SpatialZones, rels []models.ObjectRelationship) []models.SpatialInsight {
	insights := []models.SpatialInsight{}

	var loose []models.DetectedObject
	for _, obj := range objects {
		if obj.SizeCategory == models.SizeLarge && isRestingFurniture(obj) && !zones.Contains(models.ZoneWallAligned, obj.ObjectID) {
			loose = append(loose, obj)
		}
	}
	if len(loose) > 0 {
		insights = append(insights, models.SpatialInsight{
			InsightType:       "wall_alignment_opportunity",
			Priority:          models.PriorityMedium,
			Description:       "Large furniture pieces could benefit from wall alignment",
			AffectedObjects:   classNames(loose),
			AffectedObjectIDs: objectIDs(loose),
			Reasoning:         "Wall-aligned furniture maximizes open floor space and improves traffic flow",
			Suggestion:        "Consider positioning large furniture against walls when possible",
		})
	}

	seating := SeatingObjects(objects)
	if len(seating) >= 2 && !hasSeatingRelationship(rels) {
		insights = append(insights, models.SpatialInsight{
			InsightType:       "functional_grouping_opportunity",
			Priority:          models.PriorityLow,
			Description:       "Seating furniture could be arranged to encourage conversation",
			AffectedObjects:   classNames(seating),
			AffectedObjectIDs: objectIDs(seating),
			Reasoning:         "Grouped seating creates more inviting social spaces",
			Suggestion:        "Consider arranging seating to face each other or create conversation areas",
		})
	}

	if len(zones.Members(models.ZoneCenter)) > 2 {
		insights = append(insights, models.SpatialInsight{
			InsightType:       "traffic_flow_optimization",
			Priority:          models.PriorityHigh,
			Description:       "Central area appears congested, which may impede movement",
			AffectedObjects:   []string{},
			AffectedObjectIDs: []string{},
			Reasoning:         "Clear pathways through the center improve room functionality",
			Suggestion:        "Ensure clear walking paths through the central area of the room",
		})
	}

	return insights
}

// SeatingObjects returns objects in the seating category.
func SeatingObjects(objects []models.DetectedObject) []models.DetectedObject {
	var out []models.DetectedObject
	for _, obj := range objects {
		if obj.FurnitureCategory == "seating" {
			out = append(out, obj)
		}
	}
	return out
}

func hasSeatingRelationship(rels []models.ObjectRelationship) bool {
	isSeat := func(class string) bool { return class == "chair" || class == "couch" }
	for _, rel := range rels {
		if isSeat(rel.Object1Class) && isSeat(rel.Object2Class) {
			return true
		}
	}
	return false
}

func isRestingFurniture(obj models.DetectedObject) bool {
	return obj.FurnitureCategory == "seating" || obj.FurnitureCategory == "sleeping"
}

func isLarge(obj models.DetectedObject) bool {
	return obj.SizeCategory == models.SizeLarge
}

// objectsIn returns the objects belonging to a zone, in object order,
// optionally filtered.
func objectsIn(objects []models.DetectedObject, zones models.SpatialZones, zone models.ZoneName, keep func(models.DetectedObject) bool) []models.DetectedObject {
	var out []models.DetectedObject
	for _, obj := range objects {
		if !zones.Contains(zone, obj.ObjectID) {
			continue
		}
		if keep != nil && !keep(obj) {
			continue
		}
		out = append(out, obj)
	}
	return out
}

func classNames(objects []models.DetectedObject) []string {
	out := make([]string, 0, len(objects))
	for _, obj := range objects {
		out = append(out, obj.ClassName)
	}
	return out
}

func objectIDs(objects []models.DetectedObject) []string {
	out := make([]string, 0, len(objects))
	for _, obj := range objects {
		out = append(out, obj.ObjectID)
	}
	return out
}
