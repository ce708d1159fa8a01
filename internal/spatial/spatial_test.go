package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

func object(id, class string, x, y, area float64) models.DetectedObject {
	return models.DetectedObject{
		ObjectID:          id,
		ClassName:         class,
		FurnitureCategory: FurnitureCategory(class),
		Confidence:        0.9,
		RelativePosition:  models.RelativePosition{CenterX: x, CenterY: y},
		RelativeSize:      models.RelativeSize{AreaRatio: area},
		SizeCategory:      CategorizeSize(area),
	}
}

func box(class string, conf float64, x1, y1, x2, y2 float64) models.Detection {
	return models.Detection{
		ClassName:  class,
		Confidence: conf,
		Box:        models.BoundingBox{X1: x1, Y1: y1, X2: x2, Y2: y2},
	}
}

func TestNormalize_InvalidDimensions(t *testing.T) {
	for _, dims := range [][2]int{{0, 480}, {640, 0}, {-1, 10}} {
		_, err := Normalize(nil, dims[0], dims[1], DefaultConfidenceThreshold)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInvalidImageDimensions)
	}
}

func TestNormalize_Geometry(t *testing.T) {
	dets := []models.Detection{
		{ClassName: "Sofa", Confidence: 0.81234, Box: models.BoundingBox{X1: 100, Y1: 200, X2: 500, Y2: 600}},
		{ClassName: "chair", Confidence: 0.95, Box: models.BoundingBox{X1: 700, Y1: 50, X2: 760, Y2: 110}},
		{ClassName: "dog", Confidence: 0.99, Box: models.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}},
		{ClassName: "vase", Confidence: 0.3, Box: models.BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}},
	}

	res, err := Normalize(dets, 1000, 1000, DefaultConfidenceThreshold)
	require.NoError(t, err)
	require.Len(t, res.Objects, 2)

	chair := res.Objects[0]
	assert.Equal(t, "obj_1", chair.ObjectID)
	assert.Equal(t, "seating", chair.FurnitureCategory)
	assert.Equal(t, models.SizeSmall, chair.SizeCategory)
	assert.Equal(t, "top_right", chair.PositionDescription)

	sofa := res.Objects[1]
	assert.Equal(t, "obj_0", sofa.ObjectID)
	assert.Equal(t, "couch", sofa.ClassName)
	assert.Equal(t, 0.812, sofa.Confidence)
	assert.Equal(t, 0.3, sofa.RelativePosition.CenterX)
	assert.Equal(t, 0.4, sofa.RelativePosition.CenterY)
	assert.Equal(t, 0.16, sofa.RelativeSize.AreaRatio)
	assert.Equal(t, models.SizeLarge, sofa.SizeCategory)
	assert.Equal(t, "middle_left", sofa.PositionDescription)

	assert.Equal(t, 2, res.Summary.TotalObjects)
	assert.Equal(t, 2, res.Summary.FurnitureCategories["seating"])
	assert.Equal(t, 1, res.Summary.SizeDistribution[models.SizeLarge])
	require.Len(t, res.Summary.MajorItems, 1)
	assert.Equal(t, "couch", res.Summary.MajorItems[0].ClassName)
	assert.Equal(t, 0.95, res.Summary.ConfidenceStats.Max)
	assert.Equal(t, 0.812, res.Summary.ConfidenceStats.Min)
}

func TestNormalize_FractionalBox(t *testing.T) {
	dets := []models.Detection{
		{ClassName: "chair", Confidence: 0.9, Box: models.BoundingBox{X1: 99.6, Y1: 0, X2: 300.4, Y2: 100}},
	}

	res, err := Normalize(dets, 1000, 1000, DefaultConfidenceThreshold)
	require.NoError(t, err)
	require.Len(t, res.Objects, 1)

	obj := res.Objects[0]
	assert.Equal(t, 0.2, obj.RelativePosition.CenterX)
	assert.Equal(t, 0.201, obj.RelativeSize.WidthRatio)
	assert.Equal(t, models.BoundingBox{X1: 99, Y1: 0, X2: 300, Y2: 100}, obj.BoundingBox)
}

func TestCategorizeSize(t *testing.T) {
	assert.Equal(t, models.SizeLarge, CategorizeSize(0.151))
	assert.Equal(t, models.SizeMedium, CategorizeSize(0.15))
	assert.Equal(t, models.SizeMedium, CategorizeSize(0.051))
	assert.Equal(t, models.SizeSmall, CategorizeSize(0.05))
}

func TestCanonicalClass(t *testing.T) {
	assert.Equal(t, "couch", CanonicalClass("Sofa"))
	assert.Equal(t, "tv", CanonicalClass("television"))
	assert.Equal(t, "dining_table", CanonicalClass("dining table"))
	assert.Equal(t, "potted_plant", CanonicalClass("Potted Plant"))
	assert.Equal(t, "other", FurnitureCategory("person"))
}

func TestAnalyzeZones_Assignment(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "couch", 0.5, 0.5, 0.2),         // center, middle, blocking
		object("b", "chair", 0.1, 0.9, 0.02),        // left, bottom, wall, window
		object("c", "bed", 0.9, 0.35, 0.25),         // right, middle, wall, window
		object("d", "vase", 0.33, 0.67, 0.01),       // boundaries are inclusive
		object("e", "laptop", 0.5, 0.2, 0.01),       // top but not a window class
		object("f", "dining_table", 0.4, 0.6, 0.03), // small, so not blocking
	}

	z := AnalyzeZones(objects)

	assert.Equal(t, []string{"b", "d"}, z.Members(models.ZoneLeft))
	assert.Equal(t, []string{"a", "e", "f"}, z.Members(models.ZoneCenter))
	assert.Equal(t, []string{"c"}, z.Members(models.ZoneRight))
	assert.Equal(t, []string{"e"}, z.Members(models.ZoneTop))
	assert.Equal(t, []string{"a", "c", "f"}, z.Members(models.ZoneMiddle))
	assert.Equal(t, []string{"b", "d"}, z.Members(models.ZoneBottom))
	assert.Equal(t, []string{"b", "c"}, z.Members(models.ZoneWallAligned))
	assert.Equal(t, []string{"a"}, z.Members(models.ZoneCenterBlocking))
	assert.Equal(t, []string{"b", "c"}, z.Members(models.ZoneNearWindow))

	assert.Equal(t, models.DensityMedium, z.Statistics[models.ZoneCenter].Density)
	assert.Equal(t, models.DensityLow, z.Statistics[models.ZoneLeft].Density)
	assert.Equal(t, models.DensityHigh, z.Statistics[models.ZoneMiddle].Density)
	assert.Equal(t, 3, z.Count(models.ZoneCenter))
	assert.Len(t, z.Zones, 9)
}

func TestAnalyzeZones_Deterministic(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "couch", 0.45, 0.52, 0.2),
		object("b", "chair", 0.12, 0.9, 0.04),
		object("c", "tv", 0.88, 0.3, 0.07),
		object("d", "bed", 0.6, 0.1, 0.3),
	}
	assert.Equal(t, AnalyzeZones(objects), AnalyzeZones(objects))
}

func TestDensityFor(t *testing.T) {
	assert.Equal(t, models.DensityHigh, DensityFor(0.31))
	assert.Equal(t, models.DensityMedium, DensityFor(0.3))
	assert.Equal(t, models.DensityMedium, DensityFor(0.11))
	assert.Equal(t, models.DensityLow, DensityFor(0.1))
	assert.Equal(t, models.DensityLow, DensityFor(0))
}

func TestAnalyzeRelationships_DistanceCutoff(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "chair", 0.1, 0.1, 0.02),
		object("b", "chair", 0.1, 0.6, 0.02),  // 0.5 away: still related
		object("c", "chair", 0.9, 0.9, 0.02),  // far from everything
		object("d", "couch", 0.12, 0.12, 0.2), // next to a
	}

	rels := AnalyzeRelationships(objects)
	for _, rel := range rels {
		assert.LessOrEqual(t, rel.Distance, MaxRelationshipDistance)
		assert.NotEqual(t, "c", rel.Object1)
		assert.NotEqual(t, "c", rel.Object2)
	}
	require.Len(t, rels, 3)

	assert.Equal(t, "a", rels[0].Object1)
	assert.Equal(t, "b", rels[0].Object2)
	assert.Equal(t, "below", rels[0].Relationship)
	assert.Equal(t, models.DistanceModerate, rels[0].DistanceCategory)
	assert.Equal(t, "independent", rels[0].PotentialInteraction)

	assert.Equal(t, "d", rels[1].Object2)
	assert.Equal(t, "seating_group", rels[1].PotentialInteraction)
	assert.Equal(t, models.DistanceVeryClose, rels[1].DistanceCategory)
	assert.Equal(t, 0.028, rels[1].Distance)
}

func TestInteractionPotential(t *testing.T) {
	tests := []struct {
		c1, c2   string
		distance float64
		want     string
	}{
		{"dining_table", "chair", 0.3, "seating_arrangement"},
		{"tv", "couch", 0.39, "entertainment_setup"},
		{"chair", "bed", 0.2, "bedroom_seating"},
		{"chair", "chair", 0.1, "conversation_area"},
		{"couch", "chair", 0.05, "seating_group"},
		{"couch", "chair", 0.4, "independent"},
		{"vase", "clock", 0.1, "potentially_crowded"},
		{"vase", "clock", 0.15, "independent"},
	}
	for _, tt := range tests {
		t.Run(tt.c1+"_"+tt.c2, func(t *testing.T) {
			assert.Equal(t, tt.want, InteractionPotential(tt.c1, tt.c2, tt.distance))
		})
	}
}

func TestCategorizeDistance(t *testing.T) {
	assert.Equal(t, models.DistanceVeryClose, CategorizeDistance(0.19))
	assert.Equal(t, models.DistanceClose, CategorizeDistance(0.2))
	assert.Equal(t, models.DistanceClose, CategorizeDistance(0.34))
	assert.Equal(t, models.DistanceModerate, CategorizeDistance(0.35))
}

func TestDetectIssues_NoCenterBlockingWithoutCentralBulk(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "couch", 0.5, 0.5, 0.01), // central but small
		object("b", "bed", 0.1, 0.5, 0.3),    // large but on the side
		object("c", "chair", 0.8, 0.5, 0.02),
	}
	issues := DetectIssues(objects, AnalyzeZones(objects))
	for _, issue := range issues {
		assert.NotEqual(t, "center_blocking", issue.IssueType)
	}
}

func TestDetectIssues_CenterAndWindowBlocking(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "couch", 0.5, 0.5, 0.2),
		object("b", "bed", 0.9, 0.2, 0.3),
		object("c", "chair", 0.1, 0.5, 0.02),
	}
	issues := DetectIssues(objects, AnalyzeZones(objects))
	require.Len(t, issues, 2)

	assert.Equal(t, "center_blocking", issues[0].IssueType)
	assert.Equal(t, models.PriorityMedium, issues[0].Severity)
	assert.Equal(t, []string{"couch"}, issues[0].AffectedObjects)
	assert.Equal(t, []string{"a"}, issues[0].AffectedObjectIDs)

	assert.Equal(t, "potential_window_blocking", issues[1].IssueType)
	assert.Equal(t, []string{"bed"}, issues[1].AffectedObjects)
}

func TestUnbalanced(t *testing.T) {
	assert.True(t, Unbalanced(5, 0, 0))
	assert.False(t, Unbalanced(2, 2, 1))
	assert.False(t, Unbalanced(0, 0, 0))
	assert.False(t, Unbalanced(1, 0, 0))
	assert.True(t, Unbalanced(2, 0, 0))
}

func TestDetectIssues_UnbalancedFromZones(t *testing.T) {
	var left []models.DetectedObject
	for i := 0; i < 5; i++ {
		left = append(left, object(string(rune('a'+i)), "vase", 0.1, 0.2+0.1*float64(i), 0.01))
	}
	issues := DetectIssues(left, AnalyzeZones(left))
	require.Len(t, issues, 1)
	assert.Equal(t, "unbalanced_distribution", issues[0].IssueType)

	balanced := []models.DetectedObject{
		object("a", "vase", 0.1, 0.5, 0.01),
		object("b", "vase", 0.2, 0.5, 0.01),
		object("c", "vase", 0.8, 0.5, 0.01),
		object("d", "vase", 0.9, 0.5, 0.01),
		object("e", "vase", 0.5, 0.2, 0.01),
	}
	assert.Empty(t, DetectIssues(balanced, AnalyzeZones(balanced)))
}

func TestGenerateInsights(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "couch", 0.5, 0.5, 0.2),
		object("b", "chair", 0.45, 0.4, 0.02),
		object("c", "chair", 0.55, 0.6, 0.02),
		object("d", "bed", 0.05, 0.5, 0.3),
	}
	z := AnalyzeZones(objects)
	rels := AnalyzeRelationships(objects)
	insights := GenerateInsights(objects, z, rels)

	types := make([]string, 0, len(insights))
	for _, in := range insights {
		types = append(types, in.InsightType)
	}
	assert.Equal(t, []string{"wall_alignment_opportunity", "traffic_flow_optimization"}, types)
	assert.Equal(t, []string{"couch"}, insights[0].AffectedObjects)
	assert.Equal(t, models.PriorityHigh, insights[1].Priority)
}

func TestGenerateInsights_FunctionalGrouping(t *testing.T) {
	objects := []models.DetectedObject{
		object("a", "chair", 0.05, 0.1, 0.02),
		object("b", "couch", 0.95, 0.9, 0.1),
	}
	z := AnalyzeZones(objects)
	insights := GenerateInsights(objects, z, AnalyzeRelationships(objects))
	require.Len(t, insights, 1)
	assert.Equal(t, "functional_grouping_opportunity", insights[0].InsightType)
	assert.Equal(t, []string{"chair", "couch"}, insights[0].AffectedObjects)
}

func TestAnalyze_LivingRoomScenario(t *testing.T) {
	dets := []models.Detection{
		box("sofa", 0.92, 650, 850, 950, 950),
		box("chair", 0.88, 770, 850, 870, 950),
		box("television", 0.85, 50, 850, 150, 950),
	}
	res, err := Normalize(dets, 1000, 1000, DefaultConfidenceThreshold)
	require.NoError(t, err)
	require.Len(t, res.Objects, 3)

	analysis := Analyze(res)
	z := analysis.SpatialZones

	assert.True(t, z.Contains(models.ZoneRight, "obj_0"))
	assert.True(t, z.Contains(models.ZoneRight, "obj_1"))
	assert.True(t, z.Contains(models.ZoneWallAligned, "obj_0"))
	assert.True(t, z.Contains(models.ZoneWallAligned, "obj_1"))

	require.Len(t, analysis.ObjectRelationships, 1)
	rel := analysis.ObjectRelationships[0]
	assert.ElementsMatch(t, []string{"obj_0", "obj_1"}, []string{rel.Object1, rel.Object2})
	assert.Equal(t, "seating_group", rel.PotentialInteraction)
	assert.Equal(t, models.DistanceVeryClose, rel.DistanceCategory)

	assert.Equal(t, 3, analysis.Metadata.TotalObjectsAnalyzed)
	assert.Equal(t, AnalysisMethod, analysis.Metadata.AnalysisMethod)
}

func TestAnalyze_NilResult(t *testing.T) {
	analysis := Analyze(nil)
	assert.Empty(t, analysis.ObjectRelationships)
	assert.Len(t, analysis.SpatialZones.Zones, 9)
	assert.Zero(t, analysis.Metadata.TotalObjectsAnalyzed)
}
