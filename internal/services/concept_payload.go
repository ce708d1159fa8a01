package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

// ConceptPayload is the raw generate-concept input. Every field except
// RoomType holds JSON text, as sent in form fields.
type ConceptPayload struct {
	ImprovementSuggestions string
	DetectedObjects        string
	VisualFeatures         string
	SpatialGuidance        string
	RoomType               string
}

// ParseConceptPayload validates the payload before any job exists. Unparsable
// JSON in any field rejects the whole request.
func ParseConceptPayload(p ConceptPayload) (models.ConceptRequest, error) {
	var req models.ConceptRequest

	req.RoomType = strings.TrimSpace(p.RoomType)
	if req.RoomType == "" {
		return req, errors.Wrap(apperrors.ErrMalformedInput, "room_type is required")
	}
	if strings.TrimSpace(p.ImprovementSuggestions) == "" {
		return req, errors.Wrap(apperrors.ErrMalformedInput, "improvement_suggestions is required")
	}

	suggestions, err := decodeField("improvement_suggestions", p.ImprovementSuggestions)
	if err != nil {
		return req, err
	}
	req.ImprovementSuggestions = summaryFrom(suggestions)

	fields := []struct {
		name string
		raw  string
		dst  *map[string]any
	}{
		{"detected_objects", p.DetectedObjects, &req.DetectedObjects},
		{"visual_features", p.VisualFeatures, &req.VisualFeatures},
		{"spatial_guidance", p.SpatialGuidance, &req.SpatialGuidance},
	}
	for _, f := range fields {
		v, err := decodeField(f.name, f.raw)
		if err != nil {
			return req, err
		}
		obj, ok := v.(map[string]any)
		if !ok {
			obj = map[string]any{}
		}
		*f.dst = obj
	}
	if _, ok := req.DetectedObjects["objects"]; !ok {
		req.DetectedObjects["objects"] = []any{}
	}

	return req, nil
}

func decodeField(name, raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return map[string]any{}, nil
	}
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, errors.Wrapf(apperrors.ErrMalformedInput, "invalid JSON in %s: %v", name, err)
	}
	return v, nil
}

// summaryFrom accepts the brief as an object keyed by category or as a list
// in lighting, color, furniture order. Anything else yields an empty brief.
func summaryFrom(v any) models.ImprovementSummary {
	var s models.ImprovementSummary
	switch t := v.(type) {
	case map[string]any:
		s.Lighting = text(t["lighting"])
		s.ColorAmbience = text(t["color_ambience"])
		s.FurnitureLayout = text(t["furniture_layout"])
	case []any:
		targets := []*string{&s.Lighting, &s.ColorAmbience, &s.FurnitureLayout}
		for i := 0; i < len(t) && i < len(targets); i++ {
			*targets[i] = text(t[i])
		}
	}
	return s
}

func text(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
