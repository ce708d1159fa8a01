package generation

import (
	"bytes"
	"context"
	"image/png"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

type fakeDescriber struct {
	desc   *Description
	err    error
	prompt string
}

func (f *fakeDescriber) Name() string { return "fake-text" }

func (f *fakeDescriber) Describe(_ context.Context, prompt string) (*Description, error) {
	f.prompt = prompt
	return f.desc, f.err
}

type fakeSynthesizer struct {
	data   []byte
	err    error
	prompt string
}

func (f *fakeSynthesizer) Model() string { return "fake-image" }

func (f *fakeSynthesizer) Synthesize(_ context.Context, prompt string) ([]byte, error) {
	f.prompt = prompt
	return f.data, f.err
}

type memoryImageStore struct {
	mu    sync.Mutex
	saved map[string][]byte
	err   error
}

func (s *memoryImageStore) Save(_ context.Context, key string, data []byte) (string, string, error) {
	if s.err != nil {
		return "", "", s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[key] = data
	return "/images/" + key, "mem://" + key, nil
}

func (s *memoryImageStore) keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for k := range s.saved {
		out = append(out, k)
	}
	return out
}

func request() models.ConceptRequest {
	return models.ConceptRequest{
		ImprovementSuggestions: models.ImprovementSummary{
			Lighting:        "Add a floor lamp",
			ColorAmbience:   "Use warm tones",
			FurnitureLayout: "Move the couch against the wall",
		},
		DetectedObjects: map[string]any{
			"objects": []any{
				map[string]any{"class_name": "couch"},
				map[string]any{"class_name": "tv"},
			},
		},
		VisualFeatures: map[string]any{
			"brightness_analysis": map[string]any{"condition": "dim", "level": 0.3},
			"dominant_colors":     []any{"beige", "grey", "white", "black"},
		},
		SpatialGuidance: map[string]any{
			"placement_guidance": []any{map[string]any{}, map[string]any{}},
		},
		RoomType: "living_room",
	}
}

func TestImagePrompt_NoConcepts(t *testing.T) {
	got := ImagePrompt("Nothing notable here.", "garage")
	assert.Equal(t,
		"Beautiful garage interior design based on room analysis, professional photography, high resolution, photorealistic, "+
			"elegant design, comfortable atmosphere, architectural photography style, realistic lighting and shadows, "+
			"detailed textures and materials, well-organized space",
		got)
}

func TestImagePrompt_ConceptLimitAndTruncation(t *testing.T) {
	description := "A modern, cozy room with bright windows, neutral walls, hidden storage and wood floors."

	assert.Equal(t, []string{
		"modern interior design",
		"cozy atmosphere",
		"bright natural lighting",
		"neutral color palette",
		"organized storage solutions",
		"natural wood elements",
	}, Concepts(description))

	got := ImagePrompt(description, "living_room")
	assert.LessOrEqual(t, len(got), maxImagePromptLen)
	assert.Equal(t,
		"Beautiful living room interior design based on room analysis, professional photography, high resolution, photorealistic, "+
			"modern interior design, cozy atmosphere, bright natural lighting, neutral color palette, organized storage solutions, "+
			"inviting seating area, entertainment space",
		got)
	assert.NotContains(t, got, "natural wood elements")
}

func TestOutputPrefix(t *testing.T) {
	for _, room := range []string{"bedroom", "living_room", "kitchen", "dining_room", "bathroom", "office", "other"} {
		assert.Equal(t, PrefixRoomImprovements, OutputPrefix(room), room)
	}
	assert.Equal(t, PrefixConceptual, OutputPrefix("facade"))

	key := ImageKey("concept", "living_room", time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))
	assert.True(t, strings.HasPrefix(key, "room_improvements/concept_living_room_20240501_103000_"), key)
	assert.True(t, strings.HasSuffix(key, ".png"))
}

func TestFallbackDescription(t *testing.T) {
	desc := FallbackDescription(models.ImprovementSummary{Lighting: strings.Repeat("x", 150)}, "dining_room")

	assert.True(t, strings.HasPrefix(desc.Text, "Transform your dining room into a more functional and beautiful space. "))
	assert.Contains(t, desc.Text, strings.Repeat("x", 100)+". Improve color harmony. Optimize furniture arrangement.")
	assert.NotContains(t, desc.Text, strings.Repeat("x", 101))
	assert.Equal(t, FallbackModel, desc.ModelUsed)
	assert.Zero(t, desc.InputTokens)
	assert.Equal(t, len(strings.Fields(desc.Text)), desc.OutputTokens)
	assert.True(t, desc.Fallback)
}

func TestDesignPrompt(t *testing.T) {
	prompt := DesignPrompt(request())

	assert.Contains(t, prompt, "analyzing a living_room from an uploaded photo")
	assert.Contains(t, prompt, "- Room Type: Living Room\n")
	assert.Contains(t, prompt, "- Objects Detected: couch, tv\n")
	assert.Contains(t, prompt, "- Current Lighting: dim (brightness level: 0.3)\n")
	assert.Contains(t, prompt, "- Color Scheme: beige, grey, white with neutral temperature\n")
	assert.Contains(t, prompt, "- Visual Contrast: moderate\n")
	assert.Contains(t, prompt, "- Lighting Improvements: Add a floor lamp\n")
	assert.Contains(t, prompt, "- Placement Recommendations: 2 specific suggestions\n")
	assert.Contains(t, prompt, "- Layout Improvements: 0 recommendations\n")
}

func TestNonASCIITextStaysValidUTF8(t *testing.T) {
	long := "a" + strings.Repeat("é", 200)
	cjk := strings.Repeat("照明", 120)
	summary := models.ImprovementSummary{Lighting: long, ColorAmbience: cjk, FurnitureLayout: long}

	desc := FallbackDescription(summary, "living_room")
	assert.True(t, utf8.ValidString(desc.Text))

	prompt := DesignPrompt(models.ConceptRequest{RoomType: "living_room", ImprovementSuggestions: summary})
	assert.True(t, utf8.ValidString(prompt))
	assert.Contains(t, prompt, "- Lighting Improvements: a"+strings.Repeat("é", 149)+"\n")

	img := ImagePrompt("", strings.Repeat("é", 200))
	assert.True(t, utf8.ValidString(img))
	assert.LessOrEqual(t, len(img), 300)

	assert.Equal(t, "a", truncate("aé", 2))
	assert.Equal(t, "Élan Room", roomTitle("élan_room"))
}

func TestDesignPrompt_EmptyInputs(t *testing.T) {
	prompt := DesignPrompt(models.ConceptRequest{RoomType: "office"})
	assert.Contains(t, prompt, "- Objects Detected: basic room elements\n")
	assert.Contains(t, prompt, "- Color Scheme: neutral tones with neutral temperature\n")
}

func TestRenderPlaceholder(t *testing.T) {
	data, err := RenderPlaceholder("bedroom", "A calm bedroom with soft textures and warm light.")
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, ImageSize, img.Bounds().Dx())
	assert.Equal(t, ImageSize, img.Bounds().Dy())

	again, err := RenderPlaceholder("bedroom", "A calm bedroom with soft textures and warm light.")
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestLabelImage(t *testing.T) {
	garbage := []byte("not a png")
	assert.Equal(t, garbage, LabelImage(garbage))

	src, err := RenderPlaceholder("office", "")
	require.NoError(t, err)

	labeled := LabelImage(src)
	img, err := png.Decode(bytes.NewReader(labeled))
	require.NoError(t, err)
	assert.Equal(t, ImageSize, img.Bounds().Dx())
}

func TestWrapWords(t *testing.T) {
	lines := wrapWords("aaaa bbbb cccc "+strings.Repeat("z", 12), 10, 6)
	assert.Equal(t, []string{"aaaa bbbb", "cccc", strings.Repeat("z", 12)}, lines)

	assert.Len(t, wrapWords(strings.Repeat("word ", 100), 10, 6), 6)
}

func TestCollaborativeVisualizer_Success(t *testing.T) {
	describer := &fakeDescriber{desc: &Description{Text: "A cozy, modern room", ModelUsed: "fake-text", InputTokens: 10, OutputTokens: 5}}
	synth := &fakeSynthesizer{data: []byte("raw-image")}
	store := &memoryImageStore{}

	v := NewCollaborativeVisualizer(describer, synth, store, zap.NewNop())
	res, err := v.Generate(context.Background(), request())
	require.NoError(t, err)

	assert.Equal(t, "A cozy, modern room", res.DesignDescription)
	assert.Contains(t, describer.prompt, "Objects Detected: couch, tv")
	assert.Contains(t, synth.prompt, "modern interior design, cozy atmosphere")
	assert.True(t, strings.HasPrefix(res.ImageURL, "/images/room_improvements/concept_living_room_"))
	assert.True(t, strings.HasPrefix(res.ImagePath, "mem://room_improvements/"))

	assert.Equal(t, synth.prompt, res.Metadata["prompt_used"])
	assert.Equal(t, "fake-image", res.Metadata["model_id"])
	assert.Equal(t, "512x512", res.Metadata["image_size"])
	assert.Equal(t, GenerationTypeCollaborative, res.Metadata["generation_type"])
	assert.Equal(t, len("raw-image"), res.Metadata["file_size_bytes"])
	assert.Equal(t, "fake-text", res.Metadata["description_model"])
	assert.Len(t, store.keys(), 1)
}

func TestCollaborativeVisualizer_DescriberFailureFallsBack(t *testing.T) {
	describer := &fakeDescriber{err: errors.New("quota exceeded")}
	synth := &fakeSynthesizer{data: []byte("raw-image")}

	v := NewCollaborativeVisualizer(describer, synth, &memoryImageStore{}, zap.NewNop())
	res, err := v.Generate(context.Background(), request())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(res.DesignDescription, "Transform your living room"))
	assert.Equal(t, FallbackModel, res.Metadata["description_model"])
}

func TestCollaborativeVisualizer_NilDescriber(t *testing.T) {
	v := NewCollaborativeVisualizer(nil, &fakeSynthesizer{data: []byte("img")}, &memoryImageStore{}, zap.NewNop())
	res, err := v.Generate(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, FallbackModel, res.Metadata["description_model"])
}

func TestCollaborativeVisualizer_SynthesisFailure(t *testing.T) {
	synth := &fakeSynthesizer{err: errors.Wrap(apperrors.ErrGenerationFailure, "upstream 500")}
	store := &memoryImageStore{}

	v := NewCollaborativeVisualizer(nil, synth, store, zap.NewNop())
	_, err := v.Generate(context.Background(), request())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailure)
	assert.Empty(t, store.keys())
}

func TestCollaborativeVisualizer_StoreFailure(t *testing.T) {
	v := NewCollaborativeVisualizer(nil, &fakeSynthesizer{data: []byte("img")}, &memoryImageStore{err: errors.New("disk full")}, zap.NewNop())
	_, err := v.Generate(context.Background(), request())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}

func TestCollaborativeVisualizer_NotConfigured(t *testing.T) {
	v := NewCollaborativeVisualizer(nil, nil, nil, zap.NewNop())
	_, err := v.Generate(context.Background(), request())
	assert.ErrorIs(t, err, apperrors.ErrGenerationFailure)
}

func TestPlaceholderVisualizer(t *testing.T) {
	store := &memoryImageStore{}
	v := NewPlaceholderVisualizer(store, zap.NewNop())

	req := request()
	req.RoomType = "patio"
	res, err := v.Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, GenerationTypePlaceholder, v.Name())
	assert.True(t, strings.HasPrefix(res.ImageURL, "/images/conceptual_images/enhanced_placeholder_patio_"))
	assert.Equal(t, "Enhanced placeholder for patio", res.Metadata["prompt_used"])
	assert.Equal(t, GenerationTypePlaceholder, res.Metadata["generation_type"])

	keys := store.keys()
	require.Len(t, keys, 1)
	_, err = png.Decode(bytes.NewReader(store.saved[keys[0]]))
	assert.NoError(t, err)
}
