package gemini

import (
	"context"
	"errors"
	"net"

	"google.golang.org/genai"

	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// classify maps genai SDK failures onto transport error classes. Rate
// limits and server-side failures retry; client errors do not.
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

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Code == 429 || apiErr.Code >= 500 {
			return generation.Transient(err)
		}
		return generation.Permanent(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return generation.Transient(err)
	}

	return generation.Permanent(err)
}
