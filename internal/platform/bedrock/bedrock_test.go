package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slidesmith/slidesmith-api/internal/generation"
)

type fakeModelClient struct {
	lastInput *bedrockruntime.InvokeModelInput
	output    *bedrockruntime.InvokeModelOutput
	err       error
}

func (f *fakeModelClient) InvokeModel(
	_ context.Context,
	params *bedrockruntime.InvokeModelInput,
	_ ...func(*bedrockruntime.Options),
) (*bedrockruntime.InvokeModelOutput, error) {
	f.lastInput = params
	return f.output, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestInvoker(client modelClient) *Invoker {
	return &Invoker{
		client:      client,
		modelID:     "anthropic.claude-3-sonnet-20240229-v1:0",
		maxTokens:   16000,
		temperature: 0.7,
		logger:      testLogger(),
	}
}

func TestInvokerSendsAnthropicBody(t *testing.T) {
	fake := &fakeModelClient{
		output: &bedrockruntime.InvokeModelOutput{
			Body: []byte(`{"content":[{"type":"text","text":"hello"}]}`),
		},
	}
	inv := newTestInvoker(fake)

	text, err := inv.Invoke(context.Background(), "system prompt", "user message")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	require.NotNil(t, fake.lastInput)
	assert.Equal(t, "anthropic.claude-3-sonnet-20240229-v1:0", *fake.lastInput.ModelId)

	var req anthropicRequest
	require.NoError(t, json.Unmarshal(fake.lastInput.Body, &req))
	assert.Equal(t, anthropicVersion, req.AnthropicVersion)
	assert.Equal(t, 16000, req.MaxTokens)
	assert.Equal(t, "system prompt", req.System)
	require.Len(t, req.Messages, 1)
	assert.Equal(t, "user", req.Messages[0].Role)
	assert.Equal(t, "user message", req.Messages[0].Content)
}

func TestInvokerConcatenatesTextBlocks(t *testing.T) {
	fake := &fakeModelClient{
		output: &bedrockruntime.InvokeModelOutput{
			Body: []byte(`{"content":[{"type":"text","text":"part one "},{"type":"tool_use","text":"ignored"},{"type":"text","text":"part two"}]}`),
		},
	}
	inv := newTestInvoker(fake)

	text, err := inv.Invoke(context.Background(), "sys", "msg")
	require.NoError(t, err)
	assert.Equal(t, "part one part two", text)
}

func TestInvokerEmptyResponseIsPermanent(t *testing.T) {
	fake := &fakeModelClient{
		output: &bedrockruntime.InvokeModelOutput{Body: []byte(`{"content":[]}`)},
	}
	inv := newTestInvoker(fake)

	_, err := inv.Invoke(context.Background(), "sys", "msg")
	require.Error(t, err)
	assert.False(t, generation.IsTransient(err))
}

type stubAPIError struct {
	code string
}

func (e *stubAPIError) Error() string                 { return e.code }
func (e *stubAPIError) ErrorCode() string             { return e.code }
func (e *stubAPIError) ErrorMessage() string          { return e.code }
func (e *stubAPIError) ErrorFault() smithy.ErrorFault { return smithy.FaultUnknown }

var _ smithy.APIError = (*stubAPIError)(nil)

func TestClassify(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		transient bool
	}{
		{"throttling", &stubAPIError{code: "ThrottlingException"}, true},
		{"service unavailable", &stubAPIError{code: "ServiceUnavailableException"}, true},
		{"model timeout", &stubAPIError{code: "ModelTimeoutException"}, true},
		{"internal server", &stubAPIError{code: "InternalServerException"}, true},
		{"validation", &stubAPIError{code: "ValidationException"}, false},
		{"access denied", &stubAPIError{code: "AccessDeniedException"}, false},
		{"resource not found", &stubAPIError{code: "ResourceNotFoundException"}, false},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"plain error", errors.New("boom"), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			classified := classify(tc.err)
			require.Error(t, classified)
			assert.Equal(t, tc.transient, generation.IsTransient(classified))
			assert.ErrorIs(t, classified, tc.err)
		})
	}
}

func TestClassifyPassesThroughCancellation(t *testing.T) {
	classified := classify(context.Canceled)
	assert.ErrorIs(t, classified, context.Canceled)
	assert.False(t, generation.IsTransient(classified))
}

func TestImageClientBuildsStabilityBody(t *testing.T) {
	fake := &fakeModelClient{
		output: &bedrockruntime.InvokeModelOutput{
			Body: []byte(`{"artifacts":[{"base64":"aW1hZ2VkYXRh","finishReason":"SUCCESS"}]}`),
		},
	}
	client := &ImageClient{client: fake, modelID: "stability.stable-diffusion-xl-v1", logger: testLogger()}

	data, err := client.GenerateImage(context.Background(), "a chart")
	require.NoError(t, err)
	assert.Equal(t, "aW1hZ2VkYXRh", data)

	var req stabilityRequest
	require.NoError(t, json.Unmarshal(fake.lastInput.Body, &req))
	require.Len(t, req.TextPrompts, 1)
	assert.Equal(t, "a chart", req.TextPrompts[0].Text)
	assert.Equal(t, 10, req.CfgScale)
	assert.Equal(t, 50, req.Steps)
	assert.Equal(t, 1024, req.Width)
	assert.Equal(t, 1024, req.Height)
}

func TestImageClientNoArtifacts(t *testing.T) {
	fake := &fakeModelClient{
		output: &bedrockruntime.InvokeModelOutput{Body: []byte(`{"artifacts":[]}`)},
	}
	client := &ImageClient{client: fake, modelID: "stability.stable-diffusion-xl-v1", logger: testLogger()}

	_, err := client.GenerateImage(context.Background(), "a chart")
	require.Error(t, err)
	assert.False(t, generation.IsTransient(err))
}

func TestImageClientTransportError(t *testing.T) {
	fake := &fakeModelClient{err: &stubAPIError{code: "ThrottlingException"}}
	client := &ImageClient{client: fake, modelID: "stability.stable-diffusion-xl-v1", logger: testLogger()}

	_, err := client.GenerateImage(context.Background(), "a chart")
	require.Error(t, err)
	assert.True(t, generation.IsTransient(err))
}
