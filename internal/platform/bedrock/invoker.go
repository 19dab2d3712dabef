package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"

	"github.com/slidesmith/slidesmith-api/internal/config"
	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// anthropicVersion is required by Bedrock for all Anthropic model payloads.
const anthropicVersion = "bedrock-2023-05-31"

// modelClient is the subset of the bedrockruntime client used by the
// transports in this package. Tests substitute a fake.
type modelClient interface {
	InvokeModel(
		ctx context.Context,
		params *bedrockruntime.InvokeModelInput,
		optFns ...func(*bedrockruntime.Options),
	) (*bedrockruntime.InvokeModelOutput, error)
}

// Invoker implements generation.ModelInvoker against AWS Bedrock using the
// Anthropic messages request format.
type Invoker struct {
	client      modelClient
	modelID     string
	maxTokens   int
	temperature float64
	logger      *slog.Logger
}

// NewInvoker builds an Invoker from the LLM configuration. The AWS
// credential chain is resolved from the environment; only the region comes
// from config.
func NewInvoker(ctx context.Context, logger *slog.Logger, cfg config.LLMConfig) (*Invoker, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: bedrock model id cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: bedrock region cannot be empty", generation.ErrInvalidConfig)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS configuration: %v", generation.ErrInvalidConfig, err)
	}

	return &Invoker{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		modelID:     cfg.ModelID,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		logger:      logger.With(slog.String("component", "bedrock_invoker")),
	}, nil
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Temperature      float64            `json:"temperature"`
	System           string             `json:"system,omitempty"`
	Messages         []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

// Invoke sends the instruction as the system prompt and the user message as
// a single user turn, returning the concatenated text blocks of the reply.
func (inv *Invoker) Invoke(ctx context.Context, instruction, userMessage string) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        inv.maxTokens,
		Temperature:      inv.temperature,
		System:           instruction,
		Messages: []anthropicMessage{
			{Role: "user", Content: userMessage},
		},
	})
	if err != nil {
		return "", generation.Permanent(fmt.Errorf("failed to encode bedrock request: %w", err))
	}

	inv.logger.DebugContext(ctx, "invoking bedrock model",
		slog.String("model_id", inv.modelID),
		slog.Int("body_bytes", len(body)))

	out, err := inv.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &inv.modelID,
		ContentType: ptr("application/json"),
		Accept:      ptr("application/json"),
		Body:        body,
	})
	if err != nil {
		inv.logger.ErrorContext(ctx, "bedrock invocation failed",
			slog.String("model_id", inv.modelID),
			slog.Any("error", err))
		return "", classify(err)
	}

	var resp anthropicResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", generation.Permanent(fmt.Errorf("failed to decode bedrock response: %w", err))
	}

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", generation.Permanent(errors.New("bedrock response contained no text content"))
	}
	return text, nil
}

func ptr[T any](v T) *T { return &v }
