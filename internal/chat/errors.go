package chat

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/fpang/latex-ocr/internal/auth"
	"github.com/rs/zerolog/log"
)

// VisionErrorType categorizes API call failures.
type VisionErrorType int

const (
	// ErrTypeTransport indicates a DNS, connection or TLS failure.
	ErrTypeTransport VisionErrorType = iota
	// ErrTypeTimeout indicates the call did not finish within the timeout.
	ErrTypeTimeout
	// ErrTypeAPI indicates the API answered with a non-success status.
	ErrTypeAPI
	// ErrTypeResponseFormat indicates a success response without usable text content.
	ErrTypeResponseFormat
)

// VisionError is returned by every Analyzer.
type VisionError struct {
	Type VisionErrorType
	// StatusCode is set for ErrTypeAPI.
	StatusCode int
	Message    string
	Err        error
}

func (e *VisionError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *VisionError) Unwrap() error {
	return e.Err
}

// classifyTransportError wraps an error from sending the request or reading
// the response body.
func classifyTransportError(err error) *VisionError {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		log.Error().Err(err).Msg("API request timed out")
		return &VisionError{
			Type:    ErrTypeTimeout,
			Message: fmt.Sprintf("request timed out after %s", defaultTimeout),
			Err:     err,
		}
	}

	log.Error().Err(err).Msg("Network error during API request")
	return &VisionError{
		Type:    ErrTypeTransport,
		Message: "network error - check your internet connection",
		Err:     err,
	}
}

// classifyStatus builds the error for a non-success HTTP status. detail is
// the API's own error message, when the body carried one.
func classifyStatus(code int, detail string) *VisionError {
	msg := fmt.Sprintf("API request failed with status %d", code)
	if text := http.StatusText(code); text != "" {
		msg += " " + text
	}

	var cause error
	switch {
	case code == http.StatusBadRequest:
		cause = errors.New("bad request - the image or model may be unsupported")
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		cause = &auth.ValidationError{
			Type:    auth.ErrTypeInvalidKey,
			Message: "API key is invalid, expired, or lacks permissions",
		}
	case code == http.StatusTooManyRequests:
		cause = errors.New("rate limit exceeded - try again later")
	case code >= 500:
		cause = errors.New("server error - try again later")
	}

	if detail != "" {
		if cause == nil {
			cause = errors.New(detail)
		} else {
			cause = fmt.Errorf("%w (%s)", cause, detail)
		}
	}

	log.Error().Int("code", code).Str("detail", detail).Msg("API returned error status")
	return &VisionError{
		Type:       ErrTypeAPI,
		StatusCode: code,
		Message:    msg,
		Err:        cause,
	}
}
