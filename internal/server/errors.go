package server

import (
	"errors"
	"net/http"

	"github.com/josephgoksu/planwing/internal/llm"
	"github.com/josephgoksu/planwing/internal/projectctx"
	"github.com/josephgoksu/planwing/internal/taskgen"
)

// errBadBody marks request bodies that are not valid JSON.
var errBadBody = errors.New("invalid request body")

// statusFor maps a service error to its HTTP status and error code.
func statusFor(err error) (int, string) {
	var (
		timeoutErr *llm.ProviderTimeoutError
		authErr    *llm.ProviderAuthError
	)
	switch {
	case errors.Is(err, taskgen.ErrServiceUnavailable):
		return http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"
	case errors.Is(err, taskgen.ErrInvalidRequest), errors.Is(err, errBadBody):
		return http.StatusBadRequest, "INVALID_REQUEST"
	case errors.Is(err, projectctx.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.As(err, &timeoutErr):
		return http.StatusGatewayTimeout, "PROVIDER_TIMEOUT"
	case errors.As(err, &authErr):
		return http.StatusBadGateway, "PROVIDER_AUTH"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
