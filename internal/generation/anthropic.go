package generation

import (
	"context"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
)

const defaultAnthropicModel = "claude-sonnet-4-5-20250929"

// AnthropicDescriber writes design descriptions with the Messages API.
type AnthropicDescriber struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

func NewAnthropicDescriber(apiKey, model string, logger *zap.Logger) (*AnthropicDescriber, error) {
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}
	if model == "" {
		model = defaultAnthropicModel
	}
	return &AnthropicDescriber{
		client: anthropic.NewClient(apiKey),
		model:  model,
		logger: logger.Named("anthropic-describer"),
	}, nil
}

func (d *AnthropicDescriber) Name() string { return d.model }

func (d *AnthropicDescriber) Describe(ctx context.Context, prompt string) (*Description, error) {
	start := time.Now()

	resp, err := d.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(d.model),
		MaxTokens: 600,
		System:    systemDesignMessage,
		Messages: []anthropic.Message{
			{Role: anthropic.RoleUser, Content: []anthropic.MessageContent{
				{Type: "text", Text: &prompt},
			}},
		},
	})
	if err != nil {
		d.logger.Error("Description request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, err.Error())
	}

	text := strings.TrimSpace(responseText(resp))
	if text == "" {
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, "empty description")
	}

	d.logger.Info("Description generated",
		zap.Int("input_tokens", resp.Usage.InputTokens),
		zap.Int("output_tokens", resp.Usage.OutputTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &Description{
		Text:         text,
		ModelUsed:    d.model,
		InputTokens:  resp.Usage.InputTokens,
		OutputTokens: resp.Usage.OutputTokens,
	}, nil
}

func responseText(resp anthropic.MessagesResponse) string {
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			return *block.Text
		}
	}
	return ""
}
