package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"google.golang.org/genai"

	"github.com/slidesmith/slidesmith-api/internal/config"
	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// generateFunc matches the genai Models.GenerateContent call shape so tests
// can substitute a fake without a live client.
type generateFunc func(
	ctx context.Context,
	model string,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (*genai.GenerateContentResponse, error)

// Invoker implements generation.ModelInvoker against the Gemini API.
type Invoker struct {
	generate    generateFunc
	modelID     string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewInvoker builds an Invoker from the LLM configuration.
func NewInvoker(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Invoker, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: gemini API key cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: gemini model id cannot be empty", generation.ErrInvalidConfig)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create gemini client: %v", generation.ErrInvalidConfig, err)
	}

	return &Invoker{
		generate:    client.Models.GenerateContent,
		modelID:     cfg.ModelID,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger.With(slog.String("component", "gemini_invoker")),
	}, nil
}

// Invoke sends the instruction as the system instruction and the user
// message as the sole content turn, returning the response text.
func (inv *Invoker) Invoke(ctx context.Context, instruction, userMessage string) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(instruction, genai.RoleUser),
		Temperature:       genai.Ptr(float32(inv.temperature)),
		MaxOutputTokens:   int32(inv.maxTokens),
	}

	inv.logger.DebugContext(ctx, "invoking gemini model",
		slog.String("model_id", inv.modelID),
		slog.Int("message_length", len(userMessage)))

	resp, err := inv.generate(ctx, inv.modelID, genai.Text(userMessage), genCfg)
	if err != nil {
		inv.logger.ErrorContext(ctx, "gemini invocation failed",
			slog.String("model_id", inv.modelID),
			slog.Any("error", err))
		return "", classify(err)
	}

	text := resp.Text()
	if text == "" {
		return "", generation.Permanent(errors.New("gemini response contained no text content"))
	}
	return text, nil
}
