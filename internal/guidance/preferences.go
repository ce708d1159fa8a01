package guidance

import (
	"encoding/json"
	"fmt"
	"strings"

	"room-service/internal/models"
)

// preferenceNotes are checked in order; the first keyword found in both the
// user's notes and an item's recommendation wins.
var preferenceNotes = []struct {
	keyword string
	note    string
}{
	{"storage", "Aligns with your storage improvement goals"},
	{"space", "Addresses your space optimization concerns"},
	{"light", "Supports your lighting improvement objectives"},
}

func applyPreferences(items []models.GuidanceItem, notes string) {
	notesLower := strings.ToLower(notes)
	for i := range items {
		rec := strings.ToLower(items[i].Recommendation)
		for _, p := range preferenceNotes {
			if strings.Contains(notesLower, p.keyword) && strings.Contains(rec, p.keyword) {
				items[i].UserPreferenceNote = p.note
				break
			}
		}
	}
}

// NotesText extracts free text from a notes payload. Clients send either a
// plain string or an object carrying text, notes or description.
func NotesText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"text", "notes", "description"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v
			}
		}
	}

	var v any
	if err := json.Unmarshal(raw, &v); err == nil {
		return fmt.Sprint(v)
	}
	return string(raw)
}
