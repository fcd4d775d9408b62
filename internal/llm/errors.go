package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

var errMissingAPIKey = errors.New("API key is required")

// ProviderTimeoutError reports that the backend did not answer in time.
type ProviderTimeoutError struct {
	Provider string
	Err      error
}

func (e *ProviderTimeoutError) Error() string {
	return fmt.Sprintf("%s: request timed out: %v", e.Provider, e.Err)
}

func (e *ProviderTimeoutError) Unwrap() error { return e.Err }

// ProviderAuthError reports rejected credentials (HTTP 401/403).
type ProviderAuthError struct {
	Provider string
	Err      error
}

func (e *ProviderAuthError) Error() string {
	return fmt.Sprintf("%s: authentication failed: %v", e.Provider, e.Err)
}

func (e *ProviderAuthError) Unwrap() error { return e.Err }

// ProviderBadRequestError reports a request the backend considered malformed (HTTP 400).
type ProviderBadRequestError struct {
	Provider string
	Err      error
}

func (e *ProviderBadRequestError) Error() string {
	return fmt.Sprintf("%s: bad request: %v", e.Provider, e.Err)
}

func (e *ProviderBadRequestError) Unwrap() error { return e.Err }

// OutputError reports model output that could not be parsed or failed
// schema validation. Raw holds the offending text.
type OutputError struct {
	Schema string
	Raw    string
	Err    error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("invalid %s output: %v", e.Schema, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// IsOutputError reports whether err is (or wraps) an *OutputError.
func IsOutputError(err error) bool {
	var oe *OutputError
	return errors.As(err, &oe)
}

// mapError translates a backend failure into the typed taxonomy.
// Unrecognized errors are returned unchanged.
func mapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var (
		te *ProviderTimeoutError
		ae *ProviderAuthError
		be *ProviderBadRequestError
	)
	if errors.As(err, &te) || errors.As(err, &ae) || errors.As(err, &be) {
		return err
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &ProviderTimeoutError{Provider: provider, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &ProviderTimeoutError{Provider: provider, Err: err}
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "timeout"),
		strings.Contains(errStr, "timed out"),
		strings.Contains(errStr, "deadline exceeded"):
		return &ProviderTimeoutError{Provider: provider, Err: err}
	case strings.Contains(errStr, "401"),
		strings.Contains(errStr, "403"),
		strings.Contains(errStr, "unauthorized"),
		strings.Contains(errStr, "invalid api key"),
		strings.Contains(errStr, "invalid_api_key"),
		strings.Contains(errStr, "permission denied"):
		return &ProviderAuthError{Provider: provider, Err: err}
	case strings.Contains(errStr, "status code: 400"),
		strings.Contains(errStr, "status: 400"),
		strings.Contains(errStr, "400 bad request"),
		strings.Contains(errStr, "bad request"),
		strings.Contains(errStr, "invalid_request_error"),
		strings.Contains(errStr, "invalid argument"):
		return &ProviderBadRequestError{Provider: provider, Err: err}
	}
	return err
}
