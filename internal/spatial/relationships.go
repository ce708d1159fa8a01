package spatial

import (
	"sort"

	"room-service/internal/models"
	"room-service/internal/utils"
)

const (
	// MaxRelationshipDistance is the relative distance beyond which two objects
	// are not considered related.
	MaxRelationshipDistance = 0.5

	veryCloseDistance   = 0.2
	closeDistance       = 0.35
	functionalDistance  = 0.4
	crowdedDistance     = 0.15
	interactionCrowded  = "potentially_crowded"
	interactionUnpaired = "independent"
)

type classPair struct{ a, b string }

func pairOf(c1, c2 string) classPair {
	pair := []string{c1, c2}
	sort.Strings(pair)
	return classPair{pair[0], pair[1]}
}

var functionalPairs = map[classPair]string{
	{"chair", "dining_table"}: "seating_arrangement",
	{"couch", "tv"}:           "entertainment_setup",
	{"bed", "chair"}:          "bedroom_seating",
	{"chair", "chair"}:        "conversation_area",
	{"chair", "couch"}:        "seating_group",
}

// AnalyzeRelationships links every pair of objects within
// MaxRelationshipDistance of each other, preserving input order.
func AnalyzeRelationships(objects []models.DetectedObject) []models.ObjectRelationship {
	rels := []models.ObjectRelationship{}
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			if rel, ok := relate(objects[i], objects[j]); ok {
				rels = append(rels, rel)
			}
		}
	}
	return rels
}

func relate(a, b models.DetectedObject) (models.ObjectRelationship, bool) {
	x1, y1 := a.RelativePosition.CenterX, a.RelativePosition.CenterY
	x2, y2 := b.RelativePosition.CenterX, b.RelativePosition.CenterY

	distance := utils.EuclideanDistance(x1, y1, x2, y2)
	if distance > MaxRelationshipDistance {
		return models.ObjectRelationship{}, false
	}

	return models.ObjectRelationship{
		Object1:              a.ObjectID,
		Object2:              b.ObjectID,
		Object1Class:         a.ClassName,
		Object2Class:         b.ClassName,
		Relationship:         utils.DirectionLabel(x1, y1, x2, y2),
		Distance:             utils.Round(distance, 3),
		DistanceCategory:     CategorizeDistance(distance),
		PotentialInteraction: InteractionPotential(a.ClassName, b.ClassName, distance),
	}, true
}

func CategorizeDistance(d float64) models.DistanceCategory {
	switch {
	case d < veryCloseDistance:
		return models.DistanceVeryClose
	case d < closeDistance:
		return models.DistanceClose
	default:
		return models.DistanceModerate
	}
}

// InteractionPotential tags a pair using the functional pair table. Table
// entries only count within functionalDistance.
func InteractionPotential(class1, class2 string, distance float64) string {
	if tag, ok := functionalPairs[pairOf(class1, class2)]; ok && distance < functionalDistance {
		return tag
	}
	if distance < crowdedDistance {
		return interactionCrowded
	}
	return interactionUnpaired
}
