package client

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	withStatus := &Error{Kind: KindRateLimit, Message: "slow down", StatusCode: 429}
	assert.Equal(t, "simpleanalytics: rate limit error (HTTP 429): slow down", withStatus.Error())

	preflight := &Error{Kind: KindAuthentication, Message: "API key is required for this operation"}
	assert.Equal(t, "simpleanalytics: authentication error: API key is required for this operation", preflight.Error())
}

func TestErrorSentinelMatching(t *testing.T) {
	err := fmt.Errorf("fetching stats: %w", &Error{Kind: KindNotFound, Message: "no such site", StatusCode: 404})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrServer))
	assert.False(t, errors.Is(err, ErrAuthentication))

	var apiErr *Error
	assert.True(t, errors.As(err, &apiErr))
	assert.Equal(t, 404, apiErr.StatusCode)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{401, KindAuthentication},
		{403, KindAuthentication},
		{404, KindNotFound},
		{422, KindValidation},
		{429, KindRateLimit},
		{500, KindServer},
		{503, KindServer},
		{599, KindServer},
		{400, KindGeneric},
		{418, KindGeneric},
		{301, KindGeneric},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, classify(tt.status), "status %d", tt.status)
	}
}
