package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/slidesmith/slidesmith-api/internal/config"
	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// chatClient is the slice of the openai-go client exercised here. Tests
// substitute a fake.
type chatClient interface {
	New(
		ctx context.Context,
		params openai.ChatCompletionNewParams,
		opts ...option.RequestOption,
	) (*openai.ChatCompletion, error)
}

// Invoker implements generation.ModelInvoker over chat completions.
type Invoker struct {
	completions chatClient
	modelID     string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewInvoker builds an Invoker from the LLM configuration. A non-empty
// BaseURL points the client at an OpenAI-compatible endpoint.
func NewInvoker(logger *slog.Logger, cfg config.LLMConfig) (*Invoker, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: openai model id cannot be empty", generation.ErrInvalidConfig)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)

	return &Invoker{
		completions: &client.Chat.Completions,
		modelID:     cfg.ModelID,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger.With(slog.String("component", "openai_invoker")),
	}, nil
}

// Invoke sends the instruction as the system message and the user message
// as a single user turn.
func (inv *Invoker) Invoke(ctx context.Context, instruction, userMessage string) (string, error) {
	inv.logger.DebugContext(ctx, "invoking openai model",
		slog.String("model_id", inv.modelID),
		slog.Int("message_length", len(userMessage)))

	resp, err := inv.completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(inv.modelID),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(instruction),
			openai.UserMessage(userMessage),
		},
		MaxTokens:   openai.Int(int64(inv.maxTokens)),
		Temperature: openai.Float(inv.temperature),
	})
	if err != nil {
		inv.logger.ErrorContext(ctx, "openai invocation failed",
			slog.String("model_id", inv.modelID),
			slog.Any("error", err))
		return "", classify(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", generation.Permanent(errors.New("openai response contained no text content"))
	}
	return resp.Choices[0].Message.Content, nil
}
