// Package generation turns an improvement brief into a design description and
// a conceptual image. Two strategies implement Visualizer: the collaborative
// one calls external text and image services, the placeholder one renders a
// deterministic preview locally.
package generation

import (
	"context"
	"time"

	"room-service/internal/models"
)

const (
	Disclaimer     = "Conceptual Visualization / Inspirational Preview"
	ImageSize      = 512
	imageSizeLabel = "512x512"

	GenerationTypeCollaborative = "collaborative_ai"
	GenerationTypePlaceholder   = "enhanced_placeholder"
)

// Visualizer produces a description and an image reference from guidance.
type Visualizer interface {
	Name() string
	Generate(ctx context.Context, req models.ConceptRequest) (*models.ConceptResult, error)
}

// Describer phrases a design description from a prompt.
type Describer interface {
	Name() string
	Describe(ctx context.Context, prompt string) (*Description, error)
}

// Synthesizer produces PNG bytes for an image prompt.
type Synthesizer interface {
	Model() string
	Synthesize(ctx context.Context, prompt string) ([]byte, error)
}

// ImageStore persists generated images and returns where they can be fetched.
type ImageStore interface {
	Save(ctx context.Context, key string, data []byte) (url string, path string, err error)
}

// Description is the text stage output.
type Description struct {
	Text         string `json:"description"`
	ModelUsed    string `json:"model_used"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	Fallback     bool   `json:"fallback"`
}

type clock func() time.Time
