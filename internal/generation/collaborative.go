package generation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
	"room-service/internal/models"
)

// CollaborativeVisualizer asks a text service for a design description, turns
// it into an image prompt and has an image service render it.
type CollaborativeVisualizer struct {
	describer   Describer
	synthesizer Synthesizer
	store       ImageStore
	now         clock
	logger      *zap.Logger
}

// NewCollaborativeVisualizer builds the external strategy. describer may be
// nil, in which case the templated description is always used.
func NewCollaborativeVisualizer(describer Describer, synthesizer Synthesizer, store ImageStore, logger *zap.Logger) *CollaborativeVisualizer {
	return &CollaborativeVisualizer{
		describer:   describer,
		synthesizer: synthesizer,
		store:       store,
		now:         time.Now,
		logger:      logger.Named("visualizer"),
	}
}

func (v *CollaborativeVisualizer) Name() string { return GenerationTypeCollaborative }

func (v *CollaborativeVisualizer) Generate(ctx context.Context, req models.ConceptRequest) (*models.ConceptResult, error) {
	if v.synthesizer == nil || v.store == nil {
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, "image synthesis is not configured")
	}

	desc := v.describe(ctx, req)
	prompt := ImagePrompt(desc.Text, req.RoomType)

	v.logger.Info("Synthesizing concept image",
		zap.String("room_type", req.RoomType),
		zap.String("description_model", desc.ModelUsed),
		zap.String("prompt", prompt))

	data, err := v.synthesizer.Synthesize(ctx, prompt)
	if err != nil {
		return nil, errors.Wrap(err, "image synthesis")
	}
	data = LabelImage(data)

	now := v.now()
	url, path, err := v.store.Save(ctx, ImageKey("concept", req.RoomType, now), data)
	if err != nil {
		return nil, errors.Wrap(err, "store concept image")
	}

	return &models.ConceptResult{
		ImageURL:          url,
		ImagePath:         path,
		DesignDescription: desc.Text,
		Metadata:          metadata(desc, prompt, v.synthesizer.Model(), GenerationTypeCollaborative, now, len(data)),
	}, nil
}

func (v *CollaborativeVisualizer) describe(ctx context.Context, req models.ConceptRequest) *Description {
	if v.describer == nil {
		return FallbackDescription(req.ImprovementSuggestions, req.RoomType)
	}
	desc, err := v.describer.Describe(ctx, DesignPrompt(req))
	if err != nil {
		v.logger.Warn("Text service failed, using templated description",
			zap.String("describer", v.describer.Name()), zap.Error(err))
		return FallbackDescription(req.ImprovementSuggestions, req.RoomType)
	}
	return desc
}

func metadata(desc *Description, prompt, modelID, generationType string, now time.Time, size int) map[string]any {
	return map[string]any{
		"prompt_used":       prompt,
		"model_id":          modelID,
		"image_size":        imageSizeLabel,
		"generation_time":   now.Format(time.RFC3339),
		"generation_type":   generationType,
		"file_size_bytes":   size,
		"description_model": desc.ModelUsed,
		"input_tokens":      desc.InputTokens,
		"output_tokens":     desc.OutputTokens,
	}
}
