package generation

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/models"
)

// PlaceholderVisualizer needs no external service. Output depends only on the
// request, apart from the timestamped image key.
type PlaceholderVisualizer struct {
	store  ImageStore
	now    clock
	logger *zap.Logger
}

func NewPlaceholderVisualizer(store ImageStore, logger *zap.Logger) *PlaceholderVisualizer {
	return &PlaceholderVisualizer{
		store:  store,
		now:    time.Now,
		logger: logger.Named("placeholder"),
	}
}

func (v *PlaceholderVisualizer) Name() string { return GenerationTypePlaceholder }

func (v *PlaceholderVisualizer) Generate(ctx context.Context, req models.ConceptRequest) (*models.ConceptResult, error) {
	desc := FallbackDescription(req.ImprovementSuggestions, req.RoomType)

	data, err := RenderPlaceholder(req.RoomType, desc.Text)
	if err != nil {
		return nil, err
	}

	now := v.now()
	url, path, err := v.store.Save(ctx, ImageKey("enhanced_placeholder", req.RoomType, now), data)
	if err != nil {
		return nil, errors.Wrap(err, "store placeholder image")
	}

	v.logger.Debug("Placeholder concept stored", zap.String("path", path), zap.Int("bytes", len(data)))

	return &models.ConceptResult{
		ImageURL:          url,
		ImagePath:         path,
		DesignDescription: desc.Text,
		Metadata: metadata(desc, "Enhanced placeholder for "+req.RoomType,
			GenerationTypePlaceholder, GenerationTypePlaceholder, now, len(data)),
	}, nil
}
