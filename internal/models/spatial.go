package models

type ZoneName string

const (
	ZoneLeft           ZoneName = "left_zone"
	ZoneCenter         ZoneName = "center_zone"
	ZoneRight          ZoneName = "right_zone"
	ZoneTop            ZoneName = "top_zone"
	ZoneMiddle         ZoneName = "middle_zone"
	ZoneBottom         ZoneName = "bottom_zone"
	ZoneWallAligned    ZoneName = "wall_aligned"
	ZoneCenterBlocking ZoneName = "center_blocking"
	ZoneNearWindow     ZoneName = "near_window"
)

// AllZones lists every zone in reporting order.
var AllZones = []ZoneName{
	ZoneLeft, ZoneCenter, ZoneRight,
	ZoneTop, ZoneMiddle, ZoneBottom,
	ZoneWallAligned, ZoneCenterBlocking, ZoneNearWindow,
}

type DensityLevel string

const (
	DensityLow    DensityLevel = "low"
	DensityMedium DensityLevel = "medium"
	DensityHigh   DensityLevel = "high"
)

type SpatialZone struct {
	Objects []string `json:"objects"`
}

type ZoneStatistics struct {
	ObjectCount int          `json:"object_count"`
	Density     DensityLevel `json:"density"`
}

// SpatialZones maps every zone to its member object ids. Zones overlap.
type SpatialZones struct {
	Zones      map[ZoneName]SpatialZone    `json:"zones"`
	Statistics map[ZoneName]ZoneStatistics `json:"zone_statistics"`
}

// Members returns the object ids assigned to the zone.
func (z SpatialZones) Members(name ZoneName) []string {
	return z.Zones[name].Objects
}

// Contains reports whether objectID sits in the zone.
func (z SpatialZones) Contains(name ZoneName, objectID string) bool {
	for _, id := range z.Zones[name].Objects {
		if id == objectID {
			return true
		}
	}
	return false
}

// Count reads the object count from zone statistics.
func (z SpatialZones) Count(name ZoneName) int {
	return z.Statistics[name].ObjectCount
}

type DistanceCategory string

const (
	DistanceVeryClose DistanceCategory = "very_close"
	DistanceClose     DistanceCategory = "close"
	DistanceModerate  DistanceCategory = "moderate"
)

// ObjectRelationship describes an unordered pair of nearby objects.
type ObjectRelationship struct {
	Object1              string           `json:"object1"`
	Object2              string           `json:"object2"`
	Object1Class         string           `json:"object1_class"`
	Object2Class         string           `json:"object2_class"`
	Relationship         string           `json:"relationship"`
	Distance             float64          `json:"distance"`
	DistanceCategory     DistanceCategory `json:"distance_category"`
	PotentialInteraction string           `json:"potential_interaction"`
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

type SpatialIssue struct {
	IssueType         string   `json:"issue_type"`
	Severity          Priority `json:"severity"`
	Description       string   `json:"description"`
	AffectedObjects   []string `json:"affected_objects"`
	AffectedObjectIDs []string `json:"affected_object_ids"`
	Suggestion        string   `json:"suggestion"`
}

type SpatialInsight struct {
	InsightType       string   `json:"insight_type"`
	Priority          Priority `json:"priority"`
	Description       string   `json:"description"`
	AffectedObjects   []string `json:"affected_objects"`
	AffectedObjectIDs []string `json:"affected_object_ids"`
	Reasoning         string   `json:"reasoning"`
	Suggestion        string   `json:"suggestion"`
}

type ZoneAnalysisMetadata struct {
	ImageDimensions      ImageDimensions `json:"image_dimensions"`
	TotalObjectsAnalyzed int             `json:"total_objects_analyzed"`
	AnalysisMethod       string          `json:"analysis_method"`
}

// SpatialAnalysis bundles everything derived from object geometry.
type SpatialAnalysis struct {
	SpatialZones        SpatialZones         `json:"spatial_zones"`
	ObjectRelationships []ObjectRelationship `json:"object_relationships"`
	SpatialIssues       []SpatialIssue       `json:"spatial_issues"`
	SpatialInsights     []SpatialInsight     `json:"spatial_insights"`
	Metadata            ZoneAnalysisMetadata `json:"zone_analysis_metadata"`
}
