package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/slidesmith/slidesmith-api/internal/domain"
)

// ModelInvoker is the text-generation transport the pipeline depends on:
// one round trip to a hosted model, returning raw output text. Latency may
// be minutes; implementations must classify their failures via Transient
// and Permanent before returning them.
type ModelInvoker interface {
	Invoke(ctx context.Context, instruction, userMessage string) (string, error)
}

// DocumentGenerator is the single operation the core exposes to callers.
type DocumentGenerator interface {
	Generate(ctx context.Context, kind domain.DocumentKind, fields Fields) (*domain.GeneratedDocument, error)
}

// Service orchestrates the generation pipeline: prompt construction, the
// retried transport call, JSON extraction, and slide normalization. It holds
// no mutable state, so a single instance is safe for concurrent use as long
// as the underlying transport client is.
type Service struct {
	invoker    ModelInvoker
	retry      *RetryingInvoker
	normalizer *Normalizer
	logger     *slog.Logger
}

var _ DocumentGenerator = (*Service)(nil)

// NewService creates a generation Service with explicit dependencies.
// A nil retry invoker gets the default policy.
func NewService(invoker ModelInvoker, retry *RetryingInvoker, logger *slog.Logger) (*Service, error) {
	if invoker == nil {
		return nil, fmt.Errorf("%w: model invoker cannot be nil", ErrInvalidConfig)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	if retry == nil {
		retry = NewRetryingInvoker(logger)
	}

	return &Service{
		invoker:    invoker,
		retry:      retry,
		normalizer: NewNormalizer(logger),
		logger:     logger.With(slog.String("component", "generation_service")),
	}, nil
}

// Generate produces a finished document for the given kind and fields.
// Failures from each stage cross this boundary untouched so callers can
// distinguish transport, extraction, and schema errors.
func (s *Service) Generate(
	ctx context.Context,
	kind domain.DocumentKind,
	fields Fields,
) (*domain.GeneratedDocument, error) {
	if !domain.IsValidDocumentKind(kind) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	if !fields.HasAny() {
		return nil, ErrEmptyFields
	}

	instruction := BuildInstruction(kind, fields)
	userMessage := BuildUserMessage(kind, fields)

	s.logger.DebugContext(ctx, "prompt built",
		slog.String("kind", string(kind)),
		slog.Int("instruction_length", len(instruction)),
		slog.Int("user_message_length", len(userMessage)))

	raw, err := s.retry.Invoke(ctx, func(ctx context.Context) (string, error) {
		return s.invoker.Invoke(ctx, instruction, userMessage)
	})
	if err != nil {
		return nil, err
	}

	obj, err := ExtractObject(raw)
	if err != nil {
		return nil, err
	}

	doc, err := s.normalizer.Normalize(kind, obj)
	if err != nil {
		return nil, err
	}

	// Observability signal only, not part of the return contract.
	s.logger.InfoContext(ctx, "document generated",
		slog.String("kind", string(kind)),
		slog.Int("slides", doc.TotalSlides))

	return doc, nil
}
