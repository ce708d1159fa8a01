package generation

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"room-service/internal/models"
)

const (
	FallbackModel = "rule_based_fallback"

	maxPromptObjects    = 8
	maxPromptColors     = 3
	maxSuggestionLen    = 300
	maxFallbackPartLen  = 100
	systemDesignMessage = "You are an expert interior designer. Answer with the design description only."
)

// FallbackDescription builds a templated description from the brief. It never
// fails and is used whenever no text service is available.
func FallbackDescription(s models.ImprovementSummary, roomType string) *Description {
	lighting := orDefault(s.Lighting, "Enhance lighting for better ambiance")
	colors := orDefault(s.ColorAmbience, "Improve color harmony")
	furniture := orDefault(s.FurnitureLayout, "Optimize furniture arrangement")

	text := fmt.Sprintf("Transform your %s into a more functional and beautiful space. %s. %s. %s. "+
		"This conceptual vision combines practical improvements with aesthetic enhancements to create a "+
		"harmonious living environment that reflects your personal style while maximizing comfort and functionality.",
		roomName(roomType),
		truncate(lighting, maxFallbackPartLen),
		truncate(colors, maxFallbackPartLen),
		truncate(furniture, maxFallbackPartLen))

	return &Description{
		Text:         text,
		ModelUsed:    FallbackModel,
		OutputTokens: len(strings.Fields(text)),
		Fallback:     true,
	}
}

// DesignPrompt is the structured prompt sent to a text service.
func DesignPrompt(req models.ConceptRequest) string {
	objects := objectClasses(req.DetectedObjects)
	objectText := "basic room elements"
	if len(objects) > 0 {
		objectText = strings.Join(objects[:min(len(objects), maxPromptObjects)], ", ")
	}

	brightness := mapField(req.VisualFeatures, "brightness_analysis")
	lighting := stringField(brightness, "condition", "moderate")
	level := stringField(brightness, "level", "unknown")
	temperature := stringField(mapField(req.VisualFeatures, "color_temperature"), "category", "neutral")
	contrast := stringField(req.VisualFeatures, "contrast", "moderate")

	s := req.ImprovementSuggestions
	g := req.SpatialGuidance

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert interior designer analyzing a %s from an uploaded photo. ", req.RoomType)
	b.WriteString("Create a detailed design description that will be used to generate an AI visualization of the improved space.\n\n")

	b.WriteString("CURRENT ROOM ANALYSIS FROM UPLOADED IMAGE:\n")
	fmt.Fprintf(&b, "- Room Type: %s\n", roomTitle(req.RoomType))
	fmt.Fprintf(&b, "- Objects Detected: %s\n", objectText)
	fmt.Fprintf(&b, "- Current Lighting: %s (brightness level: %s)\n", lighting, level)
	fmt.Fprintf(&b, "- Color Scheme: %s with %s temperature\n", strings.Join(colorNames(req.VisualFeatures), ", "), temperature)
	fmt.Fprintf(&b, "- Visual Contrast: %s\n\n", contrast)

	b.WriteString("SPECIFIC IMPROVEMENT RECOMMENDATIONS BASED ON ANALYSIS:\n")
	fmt.Fprintf(&b, "- Lighting Improvements: %s\n", truncate(s.Lighting, maxSuggestionLen))
	fmt.Fprintf(&b, "- Color & Ambience Changes: %s\n", truncate(s.ColorAmbience, maxSuggestionLen))
	fmt.Fprintf(&b, "- Furniture & Layout Adjustments: %s\n\n", truncate(s.FurnitureLayout, maxSuggestionLen))

	b.WriteString("SPATIAL ANALYSIS INSIGHTS:\n")
	fmt.Fprintf(&b, "- Placement Recommendations: %d specific suggestions\n", listLen(g, "placement_guidance"))
	fmt.Fprintf(&b, "- Layout Improvements: %d recommendations\n", listLen(g, "layout_recommendations"))
	fmt.Fprintf(&b, "- Priority Improvements: %d key areas identified\n\n", listLen(g, "improvement_suggestions"))

	b.WriteString(`TASK: Create a comprehensive design description that:
1. Acknowledges the current state of the uploaded room
2. Incorporates the specific improvement suggestions from the analysis
3. Describes the visual transformation in detail
4. Focuses on atmosphere, lighting, colors, and spatial arrangement
5. Uses professional interior design terminology
6. Keeps description under 400 words
7. Makes it inspiring and achievable

The description will be used to generate an AI visualization, so include:
- Specific lighting improvements (natural light, fixtures, ambiance)
- Detailed color palette changes and material suggestions
- Furniture arrangement and spatial flow improvements
- Texture and material recommendations
- Overall style and atmosphere goals

Generate a design description that captures the complete transformation vision based on the uploaded room analysis:`)

	return b.String()
}

func objectClasses(detected map[string]any) []string {
	list, _ := detected["objects"].([]any)
	out := make([]string, 0, len(list))
	for _, item := range list {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, stringField(obj, "class_name", "unknown"))
	}
	return out
}

// colorNames accepts dominant_colors as either a map keyed by color or a list.
func colorNames(features map[string]any) []string {
	var names []string
	switch v := features["dominant_colors"].(type) {
	case map[string]any:
		for k := range v {
			names = append(names, k)
		}
		// map order is random; keep prompts reproducible
		slices.Sort(names)
	case []any:
		for _, c := range v {
			names = append(names, fmt.Sprint(c))
		}
	}
	if len(names) == 0 {
		return []string{"neutral tones"}
	}
	return names[:min(len(names), maxPromptColors)]
}

func mapField(m map[string]any, key string) map[string]any {
	v, _ := m[key].(map[string]any)
	return v
}

func stringField(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
		return fmt.Sprint(v)
	}
	return def
}

func listLen(m map[string]any, key string) int {
	v, _ := m[key].([]any)
	return len(v)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
