// Package spatial turns detector output into relative geometry, zones,
// pairwise relationships, issues and insights. Everything here is a pure
// function of its input and safe for concurrent use.
package spatial

import "room-service/internal/models"

const AnalysisMethod = "coarse_zone_mapping"

// Analyze runs zone assignment, relationship detection, issue detection and
// insight generation over a normalized detection result.
func Analyze(result *models.DetectionResult) models.SpatialAnalysis {
	var objects []models.DetectedObject
	var dims models.ImageDimensions
	if result != nil {
		objects = result.Objects
		dims = result.ImageDimensions
	}

	zones := AnalyzeZones(objects)
	rels := AnalyzeRelationships(objects)

	return models.SpatialAnalysis{
		SpatialZones:        zones,
		ObjectRelationships: rels,
		SpatialIssues:       DetectIssues(objects, zones),
		SpatialInsights:     GenerateInsights(objects, zones, rels),
		Metadata: models.ZoneAnalysisMetadata{
			ImageDimensions:      dims,
			TotalObjectsAnalyzed: len(objects),
			AnalysisMethod:       AnalysisMethod,
		},
	}
}
