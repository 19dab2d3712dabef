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

// ImageClient renders infographic images through a Stability diffusion
// model on Bedrock.
type ImageClient struct {
	client  modelClient
	modelID string
	logger  *slog.Logger
}

// NewImageClient builds an ImageClient from the image configuration.
func NewImageClient(ctx context.Context, logger *slog.Logger, cfg config.ImageConfig) (*ImageClient, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("%w: image model id cannot be empty", generation.ErrInvalidConfig)
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("%w: image region cannot be empty", generation.ErrInvalidConfig)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to load AWS configuration: %v", generation.ErrInvalidConfig, err)
	}

	return &ImageClient{
		client:  bedrockruntime.NewFromConfig(awsCfg),
		modelID: cfg.ModelID,
		logger:  logger.With(slog.String("component", "bedrock_image")),
	}, nil
}

type stabilityPrompt struct {
	Text   string  `json:"text"`
	Weight float64 `json:"weight"`
}

type stabilityRequest struct {
	TextPrompts []stabilityPrompt `json:"text_prompts"`
	CfgScale    int               `json:"cfg_scale"`
	Seed        int               `json:"seed"`
	Steps       int               `json:"steps"`
	Width       int               `json:"width"`
	Height      int               `json:"height"`
}

type stabilityResponse struct {
	Artifacts []struct {
		Base64       string `json:"base64"`
		FinishReason string `json:"finishReason"`
	} `json:"artifacts"`
}

// GenerateImage renders a 1024x1024 image for the prompt and returns the
// raw base64-encoded PNG data.
func (c *ImageClient) GenerateImage(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(stabilityRequest{
		TextPrompts: []stabilityPrompt{{Text: prompt, Weight: 1.0}},
		CfgScale:    10,
		Seed:        0,
		Steps:       50,
		Width:       1024,
		Height:      1024,
	})
	if err != nil {
		return "", generation.Permanent(fmt.Errorf("failed to encode image request: %w", err))
	}

	c.logger.DebugContext(ctx, "invoking image model",
		slog.String("model_id", c.modelID),
		slog.Int("prompt_length", len(prompt)))

	out, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		ContentType: ptr("application/json"),
		Accept:      ptr("application/json"),
		Body:        body,
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "image invocation failed",
			slog.String("model_id", c.modelID),
			slog.Any("error", err))
		return "", classify(err)
	}

	var resp stabilityResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", generation.Permanent(fmt.Errorf("failed to decode image response: %w", err))
	}
	if len(resp.Artifacts) == 0 || resp.Artifacts[0].Base64 == "" {
		return "", generation.Permanent(errors.New("image response contained no artifacts"))
	}
	return resp.Artifacts[0].Base64, nil
}
