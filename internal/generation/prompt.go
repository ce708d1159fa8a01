package generation

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxConcepts       = 5
	maxRoomEnhancers  = 2
	maxImagePromptLen = 300

	PrefixRoomImprovements = "room_improvements"
	PrefixConceptual       = "conceptual_images"
)

// conceptRules map description keywords to image prompt concepts. Order
// matters: only the first maxConcepts matches are used.
var conceptRules = []struct {
	keywords []string
	concept  string
}{
	{[]string{"modern"}, "modern interior design"},
	{[]string{"contemporary"}, "contemporary style"},
	{[]string{"cozy"}, "cozy atmosphere"},
	{[]string{"minimalist"}, "minimalist design"},
	{[]string{"elegant"}, "elegant decor"},
	{[]string{"rustic"}, "rustic charm"},
	{[]string{"industrial"}, "industrial style"},
	{[]string{"scandinavian"}, "scandinavian design"},

	{[]string{"bright", "natural light"}, "bright natural lighting"},
	{[]string{"warm light", "soft light"}, "warm ambient lighting"},
	{[]string{"dim", "dark"}, "enhanced lighting solutions"},
	{[]string{"layered light"}, "layered lighting design"},

	{[]string{"neutral"}, "neutral color palette"},
	{[]string{"warm color", "warm tone"}, "warm color scheme"},
	{[]string{"cool color", "cool tone"}, "cool color palette"},
	{[]string{"bold color", "vibrant"}, "vibrant accent colors"},

	{[]string{"spacious", "open"}, "spacious layout"},
	{[]string{"compact", "small space"}, "space-efficient design"},
	{[]string{"storage"}, "organized storage solutions"},
	{[]string{"seating"}, "comfortable seating arrangement"},

	{[]string{"wood"}, "natural wood elements"},
	{[]string{"metal"}, "metal accents"},
	{[]string{"fabric", "textile"}, "soft textile elements"},
	{[]string{"stone"}, "natural stone features"},
}

var roomEnhancers = map[string][]string{
	"bedroom":     {"peaceful atmosphere", "comfortable bedding", "soft textures"},
	"living_room": {"inviting seating area", "entertainment space", "social atmosphere"},
	"kitchen":     {"functional workspace", "clean surfaces", "efficient layout"},
	"dining_room": {"elegant dining setup", "ambient lighting", "welcoming atmosphere"},
	"bathroom":    {"clean modern fixtures", "spa-like atmosphere", "functional design"},
	"office":      {"productive workspace", "organized desk area", "focused environment"},
}

var qualityEnhancers = []string{
	"architectural photography style",
	"realistic lighting and shadows",
	"detailed textures and materials",
	"well-organized space",
}

var interiorRooms = map[string]bool{
	"bedroom": true, "living_room": true, "kitchen": true, "dining_room": true,
	"bathroom": true, "office": true, "other": true,
}

// Concepts returns the image concepts found in a description, in table order.
func Concepts(description string) []string {
	lower := strings.ToLower(description)
	var out []string
	for _, rule := range conceptRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				out = append(out, rule.concept)
				break
			}
		}
	}
	return out
}

// ImagePrompt derives a synthesis prompt from a design description.
func ImagePrompt(description, roomType string) string {
	prompt := fmt.Sprintf("Beautiful %s interior design based on room analysis, professional photography, high resolution, photorealistic",
		roomName(roomType))

	concepts := Concepts(description)
	if len(concepts) > 0 {
		prompt += ", " + strings.Join(concepts[:min(len(concepts), maxConcepts)], ", ")
	} else {
		prompt += ", elegant design, comfortable atmosphere"
	}

	if enhancers, ok := roomEnhancers[roomType]; ok {
		prompt += ", " + strings.Join(enhancers[:maxRoomEnhancers], ", ")
	}

	prompt += ", " + strings.Join(qualityEnhancers, ", ")

	if len(prompt) > maxImagePromptLen {
		prompt = truncate(prompt, maxImagePromptLen)
		if i := strings.LastIndex(prompt, ","); i >= 0 {
			prompt = prompt[:i]
		}
	}
	return prompt
}

// OutputPrefix picks the storage folder for a room type.
func OutputPrefix(roomType string) string {
	if interiorRooms[roomType] {
		return PrefixRoomImprovements
	}
	return PrefixConceptual
}

// ImageKey names a generated image. The random suffix keeps two jobs for the
// same room in the same second apart.
func ImageKey(kind, roomType string, now time.Time) string {
	return fmt.Sprintf("%s/%s_%s_%s_%s.png",
		OutputPrefix(roomType), kind, safeName(roomType), now.Format("20060102_150405"), uuid.NewString()[:8])
}

func roomName(roomType string) string {
	return strings.ReplaceAll(roomType, "_", " ")
}

// roomTitle renders living_room as "Living Room".
func roomTitle(roomType string) string {
	words := strings.Fields(roomName(roomType))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
	}
	return strings.Join(words, " ")
}

func safeName(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "room"
	}
	return b.String()
}
