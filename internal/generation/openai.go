package generation

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"room-service/internal/apperrors"
)

// OpenAIConfig configures the OpenAI-compatible text and image clients.
type OpenAIConfig struct {
	Endpoint   string // Base URL, e.g. "https://api.openai.com/v1"
	APIKey     string
	TextModel  string
	ImageModel string
}

func newOpenAIClient(cfg OpenAIConfig) *openai.Client {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.Endpoint != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.Endpoint, "/")
	}
	return openai.NewClientWithConfig(clientConfig)
}

// OpenAIDescriber writes design descriptions with a chat completion model.
type OpenAIDescriber struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAIDescriber(cfg OpenAIConfig, logger *zap.Logger) (*OpenAIDescriber, error) {
	if cfg.TextModel == "" {
		return nil, errors.New("text model is required")
	}
	return &OpenAIDescriber{
		client: newOpenAIClient(cfg),
		model:  cfg.TextModel,
		logger: logger.Named("openai-describer"),
	}, nil
}

func (d *OpenAIDescriber) Name() string { return d.model }

func (d *OpenAIDescriber) Describe(ctx context.Context, prompt string) (*Description, error) {
	start := time.Now()

	resp, err := d.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: d.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemDesignMessage},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   400,
	})
	if err != nil {
		d.logger.Error("Description request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, err.Error())
	}
	if len(resp.Choices) == 0 {
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, "no choices in response")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, "empty description")
	}

	d.logger.Info("Description generated",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &Description{
		Text:         text,
		ModelUsed:    d.model,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

// OpenAISynthesizer renders images through the images endpoint.
type OpenAISynthesizer struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

func NewOpenAISynthesizer(cfg OpenAIConfig, logger *zap.Logger) *OpenAISynthesizer {
	model := cfg.ImageModel
	if model == "" {
		model = openai.CreateImageModelDallE2
	}
	return &OpenAISynthesizer{
		client: newOpenAIClient(cfg),
		model:  model,
		logger: logger.Named("openai-synthesizer"),
	}
}

func (s *OpenAISynthesizer) Model() string { return s.model }

func (s *OpenAISynthesizer) Synthesize(ctx context.Context, prompt string) ([]byte, error) {
	start := time.Now()

	resp, err := s.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          s.model,
		N:              1,
		Size:           openai.CreateImageSize512x512,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		s.logger.Error("Image request failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, err.Error())
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return nil, errors.Wrap(apperrors.ErrGenerationFailure, "no image in response")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return nil, errors.Wrap(err, "decode image payload")
	}

	s.logger.Info("Image generated", zap.Int("bytes", len(data)), zap.Duration("elapsed", time.Since(start)))
	return data, nil
}
