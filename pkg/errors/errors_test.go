package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpstreamErrorKindSurvivesWrapping(t *testing.T) {
	cause := stderrors.New("connection reset")
	err := fmt.Errorf("fetch video: %w", NewUpstreamError(KindNetworkFailure, "youtube", "videos.list", cause))

	kind, ok := KindOf(err)
	require.True(t, ok)
	assert.Equal(t, KindNetworkFailure, kind)
	assert.True(t, IsKind(err, KindNetworkFailure))
	assert.False(t, IsKind(err, KindNotFound))
	assert.ErrorIs(t, err, cause)
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 200},
		{"input", NewInputError("no video id", "https://example.com"), 400},
		{"credential", NewCredentialError("missing key"), 401},
		{"not found", NewUpstreamError(KindNotFound, "youtube", "videos.list", nil), 404},
		{"auth rejected", NewUpstreamError(KindAuthRejected, "youtube", "videos.list", nil), 401},
		{"network", NewUpstreamError(KindNetworkFailure, "youtube", "videos.list", nil), 502},
		{"malformed", NewUpstreamError(KindMalformedResponse, "youtube", "videos.list", nil), 502},
		{"cache", NewCacheError("get failed", "get", "k", nil), 500},
		{"plain", stderrors.New("boom"), 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestAppErrorMessageIncludesCause(t *testing.T) {
	err := NewAppError("render failed", CodeAppError, 500, nil).WithCause(stderrors.New("template missing"))
	assert.Equal(t, "render failed: template missing", err.Error())
}
