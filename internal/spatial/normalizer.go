package spatial

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"room-service/internal/apperrors"
	"room-service/internal/models"
	"room-service/internal/utils"
)

const (
	LargeAreaRatio  = 0.15
	MediumAreaRatio = 0.05

	DefaultConfidenceThreshold = 0.5
)

// interiorClasses is the COCO subset that matters indoors.
var interiorClasses = map[string]bool{
	"person": true, "chair": true, "couch": true, "potted_plant": true, "bed": true,
	"dining_table": true, "toilet": true, "tv": true, "laptop": true, "mouse": true,
	"remote": true, "keyboard": true, "cell_phone": true, "microwave": true, "oven": true,
	"toaster": true, "sink": true, "refrigerator": true, "book": true, "clock": true,
	"vase": true, "scissors": true, "teddy_bear": true, "hair_drier": true, "toothbrush": true,
}

var classAliases = map[string]string{
	"sofa":         "couch",
	"television":   "tv",
	"tv_monitor":   "tv",
	"tvmonitor":    "tv",
	"table":        "dining_table",
	"diningtable":  "dining_table",
	"pottedplant":  "potted_plant",
	"hair_dryer":   "hair_drier",
	"mobile_phone": "cell_phone",
}

var furnitureCategories = map[string]string{
	"chair":        "seating",
	"couch":        "seating",
	"bed":          "sleeping",
	"dining_table": "table",
	"tv":           "entertainment",
	"potted_plant": "decoration",
	"clock":        "decoration",
	"vase":         "decoration",
	"book":         "storage_item",
	"laptop":       "electronics",
	"refrigerator": "appliance",
	"microwave":    "appliance",
	"oven":         "appliance",
	"sink":         "fixture",
	"toilet":       "fixture",
}

// CanonicalClass lowercases a detector label and folds known aliases onto the
// COCO names used by the zone and interaction rules.
func CanonicalClass(name string) string {
	c := strings.ToLower(strings.TrimSpace(name))
	c = strings.ReplaceAll(c, " ", "_")
	c = strings.ReplaceAll(c, "-", "_")
	if alias, ok := classAliases[c]; ok {
		return alias
	}
	return c
}

// FurnitureCategory maps a canonical class onto its room-improvement category.
func FurnitureCategory(class string) string {
	if c, ok := furnitureCategories[class]; ok {
		return c
	}
	return "other"
}

// CategorizeSize buckets an area ratio.
func CategorizeSize(areaRatio float64) models.SizeCategory {
	switch {
	case areaRatio > LargeAreaRatio:
		return models.SizeLarge
	case areaRatio > MediumAreaRatio:
		return models.SizeMedium
	default:
		return models.SizeSmall
	}
}

// DescribePosition returns a "<vertical>_<horizontal>" label such as top_left.
func DescribePosition(centerX, centerY float64) string {
	h := utils.Thirds(centerX, "left", "center", "right")
	v := utils.Thirds(centerY, "top", "middle", "bottom")
	return v + "_" + h
}

// Normalize converts raw detections into relative geometry. Detections under
// threshold or outside the interior vocabulary are dropped; the rest are sorted
// by confidence, highest first.
func Normalize(dets []models.Detection, width, height int, threshold float64) (*models.DetectionResult, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(apperrors.ErrInvalidImageDimensions, "%dx%d", width, height)
	}

	w := float64(width)
	h := float64(height)

	objects := make([]models.DetectedObject, 0, len(dets))
	for i, d := range dets {
		if d.Confidence < threshold {
			continue
		}
		class := CanonicalClass(d.ClassName)
		if !interiorClasses[class] {
			continue
		}

		box := d.Box
		if box.X2 < box.X1 {
			box.X1, box.X2 = box.X2, box.X1
		}
		if box.Y2 < box.Y1 {
			box.Y1, box.Y2 = box.Y2, box.Y1
		}

		centerX := (box.X1 + box.X2) / 2 / w
		centerY := (box.Y1 + box.Y2) / 2 / h
		widthRatio := (box.X2 - box.X1) / w
		heightRatio := (box.Y2 - box.Y1) / h
		areaRatio := widthRatio * heightRatio

		objects = append(objects, models.DetectedObject{
			ObjectID:          fmt.Sprintf("obj_%d", i),
			ClassName:         class,
			FurnitureCategory: FurnitureCategory(class),
			Confidence:        utils.Round(d.Confidence, 3),
			BoundingBox:       box.Whole(),
			RelativePosition: models.RelativePosition{
				CenterX: utils.Round(centerX, 3),
				CenterY: utils.Round(centerY, 3),
			},
			RelativeSize: models.RelativeSize{
				WidthRatio:  utils.Round(widthRatio, 3),
				HeightRatio: utils.Round(heightRatio, 3),
				AreaRatio:   utils.Round(areaRatio, 3),
			},
			SizeCategory:        CategorizeSize(areaRatio),
			PositionDescription: DescribePosition(centerX, centerY),
		})
	}

	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].Confidence > objects[j].Confidence
	})

	return &models.DetectionResult{
		Objects:         objects,
		Summary:         Summarize(objects),
		ImageDimensions: models.ImageDimensions{Width: width, Height: height},
		DetectionMetadata: models.DetectionMetadata{
			TotalObjects:        len(objects),
			ConfidenceThreshold: threshold,
		},
	}, nil
}

// Summarize counts categories and sizes and picks up to five major items.
func Summarize(objects []models.DetectedObject) models.DetectionSummary {
	summary := models.DetectionSummary{
		TotalObjects:        len(objects),
		FurnitureCategories: map[string]int{},
		SizeDistribution:    map[models.SizeCategory]int{},
		MajorItems:          []models.MajorItem{},
	}
	if len(objects) == 0 {
		return summary
	}

	summary.SizeDistribution[models.SizeLarge] = 0
	summary.SizeDistribution[models.SizeMedium] = 0
	summary.SizeDistribution[models.SizeSmall] = 0

	total := 0.0
	minConf, maxConf := objects[0].Confidence, objects[0].Confidence
	for _, obj := range objects {
		summary.FurnitureCategories[obj.FurnitureCategory]++
		summary.SizeDistribution[obj.SizeCategory]++
		total += obj.Confidence
		if obj.Confidence < minConf {
			minConf = obj.Confidence
		}
		if obj.Confidence > maxConf {
			maxConf = obj.Confidence
		}
		if obj.SizeCategory != models.SizeSmall && obj.Confidence > 0.6 && len(summary.MajorItems) < 5 {
			summary.MajorItems = append(summary.MajorItems, models.MajorItem{
				ClassName:  obj.ClassName,
				Confidence: obj.Confidence,
				Position:   obj.PositionDescription,
				Size:       obj.SizeCategory,
			})
		}
	}
	summary.ConfidenceStats = models.ConfidenceStats{
		Average: utils.Round(total/float64(len(objects)), 3),
		Max:     maxConf,
		Min:     minConf,
	}
	return summary
}
