package openai

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/openai/openai-go"

	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// classify maps openai-go failures onto transport error classes. Timeouts,
// rate limits and server-side failures retry; other API errors do not.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return generation.Transient(err)
	}

	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusRequestTimeout,
			apiErr.StatusCode == http.StatusTooManyRequests,
			apiErr.StatusCode >= 500:
			return generation.Transient(err)
		default:
			return generation.Permanent(err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return generation.Transient(err)
	}

	return generation.Permanent(err)
}
