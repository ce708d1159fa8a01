package utils

import "math"

// EuclideanDistance returns the distance between two points in relative
// (0..1) image coordinates.
func EuclideanDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// DirectionLabel describes where (x2,y2) lies relative to (x1,y1). The dominant
// axis wins; ties go to the vertical axis. Image y grows downwards.
func DirectionLabel(x1, y1, x2, y2 float64) string {
	dx := x2 - x1
	dy := y2 - y1
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return "right_of"
		}
		return "left_of"
	}
	if dy > 0 {
		return "below"
	}
	return "above"
}

// Thirds labels a coordinate as low, mid or high using strict bounds at
// 0.33 and 0.67.
func Thirds(v float64, low, mid, high string) string {
	switch {
	case v < 0.33:
		return low
	case v > 0.67:
		return high
	default:
		return mid
	}
}
