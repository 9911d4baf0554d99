package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/generative-ai-go/genai"
	"github.com/googleapis/gax-go/v2/apierror"
	"google.golang.org/grpc/codes"
)

var (
	ErrMissingAPIKey   = errors.New("gemini api key not configured")
	ErrRateLimited     = errors.New("gemini rate limit exceeded")
	ErrTimeout         = errors.New("gemini request timed out")
	ErrUnavailable     = errors.New("gemini service unavailable")
	ErrUnauthenticated = errors.New("gemini rejected the api key")
	ErrInvalidOutput   = errors.New("gemini returned unusable output")
)

// classify maps an upstream failure onto one of the package sentinels while
// keeping the original error text.
func classify(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}

	var blocked *genai.BlockedError
	if errors.As(err, &blocked) {
		return fmt.Errorf("%w: %v", ErrInvalidOutput, err)
	}

	apiErr, ok := apierror.FromError(err)
	if !ok {
		return fmt.Errorf("gemini request failed: %w", err)
	}

	if sentinel := sentinelForHTTP(apiErr.HTTPCode()); sentinel != nil {
		return fmt.Errorf("%w: %v", sentinel, err)
	}
	if st := apiErr.GRPCStatus(); st != nil {
		if sentinel := sentinelForCode(st.Code()); sentinel != nil {
			return fmt.Errorf("%w: %v", sentinel, err)
		}
	}
	return fmt.Errorf("gemini request failed: %w", err)
}

func sentinelForHTTP(code int) error {
	switch code {
	case http.StatusTooManyRequests:
		return ErrRateLimited
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return ErrTimeout
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return ErrUnavailable
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthenticated
	}
	return nil
}

func sentinelForCode(code codes.Code) error {
	switch code {
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.DeadlineExceeded:
		return ErrTimeout
	case codes.Unavailable, codes.Internal:
		return ErrUnavailable
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthenticated
	}
	return nil
}
