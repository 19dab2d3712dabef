package bedrock

import (
	"context"
	"errors"
	"net"

	"github.com/aws/smithy-go"

	"github.com/slidesmith/slidesmith-api/internal/generation"
)

// transientCodes are the Bedrock API error codes that signal temporary
// conditions worth retrying. Everything else is treated as permanent.
var transientCodes = map[string]bool{
	"ThrottlingException":           true,
	"ServiceUnavailableException":   true,
	"ModelTimeoutException":         true,
	"ModelNotReadyException":        true,
	"InternalServerException":       true,
	"ServiceQuotaExceededException": true,
}

// classify wraps an SDK error in the transport error class the retry layer
// keys on. Network timeouts and context deadlines count as transient;
// context cancellation passes through unwrapped so callers see it as such.
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

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if transientCodes[apiErr.ErrorCode()] {
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
