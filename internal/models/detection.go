package models

import "math"

// SizeCategory buckets an object by the share of the frame it covers.
type SizeCategory string

const (
	SizeSmall  SizeCategory = "small"
	SizeMedium SizeCategory = "medium"
	SizeLarge  SizeCategory = "large"
)

// Detection is a single labeled box as reported by the object detector.
type Detection struct {
	ClassName  string      `json:"class_name"`
	Confidence float64     `json:"confidence"`
	Box        BoundingBox `json:"bbox"`
}

// BoundingBox holds absolute pixel coordinates. Detectors report fractional
// pixels; normalized objects carry whole pixels.
type BoundingBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Whole drops the fractional part of each coordinate.
func (b BoundingBox) Whole() BoundingBox {
	return BoundingBox{X1: math.Trunc(b.X1), Y1: math.Trunc(b.Y1), X2: math.Trunc(b.X2), Y2: math.Trunc(b.Y2)}
}

type RelativePosition struct {
	CenterX float64 `json:"center_x"`
	CenterY float64 `json:"center_y"`
}

type RelativeSize struct {
	WidthRatio  float64 `json:"width_ratio"`
	HeightRatio float64 `json:"height_ratio"`
	AreaRatio   float64 `json:"area_ratio"`
}

// DetectedObject is a normalized detection. It is never modified after normalization.
type DetectedObject struct {
	ObjectID            string           `json:"object_id"`
	ClassName           string           `json:"class_name"`
	FurnitureCategory   string           `json:"furniture_category"`
	Confidence          float64          `json:"confidence"`
	BoundingBox         BoundingBox      `json:"bounding_box"`
	RelativePosition    RelativePosition `json:"relative_position"`
	RelativeSize        RelativeSize     `json:"relative_size"`
	SizeCategory        SizeCategory     `json:"size_category"`
	PositionDescription string           `json:"position_description"`
}

type ImageDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type ConfidenceStats struct {
	Average float64 `json:"average"`
	Max     float64 `json:"max"`
	Min     float64 `json:"min"`
}

type MajorItem struct {
	ClassName  string       `json:"class_name"`
	Confidence float64      `json:"confidence"`
	Position   string       `json:"position"`
	Size       SizeCategory `json:"size"`
}

type DetectionSummary struct {
	TotalObjects        int                  `json:"total_objects"`
	FurnitureCategories map[string]int       `json:"furniture_categories"`
	SizeDistribution    map[SizeCategory]int `json:"size_distribution"`
	ConfidenceStats     ConfidenceStats      `json:"confidence_stats"`
	MajorItems          []MajorItem          `json:"major_items"`
}

type DetectionMetadata struct {
	TotalObjects        int     `json:"total_objects"`
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	Model               string  `json:"model,omitempty"`
	Dataset             string  `json:"dataset,omitempty"`
}

// DetectionResult is the normalized output for one image.
type DetectionResult struct {
	Objects           []DetectedObject  `json:"objects"`
	Summary           DetectionSummary  `json:"summary"`
	ImageDimensions   ImageDimensions   `json:"image_dimensions"`
	DetectionMetadata DetectionMetadata `json:"detection_metadata"`
}
