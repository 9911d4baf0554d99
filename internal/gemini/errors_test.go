package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "http 429", err: &googleapi.Error{Code: 429, Message: "quota"}, want: ErrRateLimited},
		{name: "http 503", err: &googleapi.Error{Code: 503}, want: ErrUnavailable},
		{name: "http 504", err: &googleapi.Error{Code: 504}, want: ErrTimeout},
		{name: "http 403", err: &googleapi.Error{Code: 403}, want: ErrUnauthenticated},
		{name: "grpc exhausted", err: status.Error(codes.ResourceExhausted, "slow down"), want: ErrRateLimited},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "down"), want: ErrUnavailable},
		{name: "grpc deadline", err: status.Error(codes.DeadlineExceeded, "late"), want: ErrTimeout},
		{name: "context deadline", err: fmt.Errorf("call: %w", context.DeadlineExceeded), want: ErrTimeout},
		{name: "blocked", err: &genai.BlockedError{PromptFeedback: &genai.PromptFeedback{BlockReason: genai.BlockReasonSafety}}, want: ErrInvalidOutput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, classify(tt.err), tt.want)
		})
	}
}

func TestClassifyPassesThrough(t *testing.T) {
	assert.NoError(t, classify(nil))
	assert.ErrorIs(t, classify(context.Canceled), context.Canceled)

	plain := errors.New("dns failure")
	err := classify(plain)
	assert.ErrorIs(t, err, plain)
	for _, sentinel := range []error{ErrRateLimited, ErrTimeout, ErrUnavailable, ErrInvalidOutput} {
		assert.NotErrorIs(t, err, sentinel)
	}

	bad := classify(&googleapi.Error{Code: 400, Message: "bad request"})
	assert.NotErrorIs(t, bad, ErrUnavailable)
	assert.Contains(t, bad.Error(), "bad request")
}
