package spatial

import "room-service/internal/models"

const (
	zoneLowBound  = 0.33
	zoneHighBound = 0.67

	wallLow  = 0.15
	wallHigh = 0.85

	centerBandLow  = 0.3
	centerBandHigh = 0.7

	windowTopBound = 0.4
	windowSideLow  = 0.2
	windowSideHigh = 0.8

	highDensityArea   = 0.3
	mediumDensityArea = 0.1
)

// windowCategories are the furniture kinds that plausibly sit against walls.
var windowCategories = map[string]bool{
	"seating":  true,
	"sleeping": true,
	"table":    true,
}

// AnalyzeZones assigns each object to every zone its center falls in and
// computes per-zone density. The result depends only on the input.
func AnalyzeZones(objects []models.DetectedObject) models.SpatialZones {
	zones := models.SpatialZones{
		Zones:      make(map[models.ZoneName]models.SpatialZone, len(models.AllZones)),
		Statistics: make(map[models.ZoneName]models.ZoneStatistics, len(models.AllZones)),
	}
	members := make(map[models.ZoneName][]string, len(models.AllZones))
	for _, name := range models.AllZones {
		members[name] = []string{}
	}

	for _, obj := range objects {
		x := obj.RelativePosition.CenterX
		y := obj.RelativePosition.CenterY
		id := obj.ObjectID

		switch {
		case x <= zoneLowBound:
			members[models.ZoneLeft] = append(members[models.ZoneLeft], id)
		case x >= zoneHighBound:
			members[models.ZoneRight] = append(members[models.ZoneRight], id)
		default:
			members[models.ZoneCenter] = append(members[models.ZoneCenter], id)
		}

		switch {
		case y <= zoneLowBound:
			members[models.ZoneTop] = append(members[models.ZoneTop], id)
		case y >= zoneHighBound:
			members[models.ZoneBottom] = append(members[models.ZoneBottom], id)
		default:
			members[models.ZoneMiddle] = append(members[models.ZoneMiddle], id)
		}

		if IsWallAligned(x, y) {
			members[models.ZoneWallAligned] = append(members[models.ZoneWallAligned], id)
		}
		if isCenterBlocking(obj) {
			members[models.ZoneCenterBlocking] = append(members[models.ZoneCenterBlocking], id)
		}
		if isNearWindow(obj) {
			members[models.ZoneNearWindow] = append(members[models.ZoneNearWindow], id)
		}
	}

	areas := make(map[string]float64, len(objects))
	for _, obj := range objects {
		areas[obj.ObjectID] += obj.RelativeSize.AreaRatio
	}

	for _, name := range models.AllZones {
		ids := members[name]
		zones.Zones[name] = models.SpatialZone{Objects: ids}

		total := 0.0
		for _, id := range ids {
			total += areas[id]
		}
		zones.Statistics[name] = models.ZoneStatistics{
			ObjectCount: len(ids),
			Density:     DensityFor(total),
		}
	}
	return zones
}

// DensityFor buckets the summed relative area of a zone.
func DensityFor(totalArea float64) models.DensityLevel {
	switch {
	case totalArea > highDensityArea:
		return models.DensityHigh
	case totalArea > mediumDensityArea:
		return models.DensityMedium
	default:
		return models.DensityLow
	}
}

func IsWallAligned(x, y float64) bool {
	return x < wallLow || x > wallHigh || y < wallLow || y > wallHigh
}

func isCenterBlocking(obj models.DetectedObject) bool {
	x := obj.RelativePosition.CenterX
	y := obj.RelativePosition.CenterY
	inBand := x > centerBandLow && x < centerBandHigh && y > centerBandLow && y < centerBandHigh
	return inBand && (obj.SizeCategory == models.SizeLarge || obj.SizeCategory == models.SizeMedium)
}

func isNearWindow(obj models.DetectedObject) bool {
	x := obj.RelativePosition.CenterX
	y := obj.RelativePosition.CenterY
	if !(y < windowTopBound || x < windowSideLow || x > windowSideHigh) {
		return false
	}
	return windowCategories[obj.FurnitureCategory]
}
