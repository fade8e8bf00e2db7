package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsErrorType_TypedErrors(t *testing.T) {
	cause := fmt.Errorf("connection reset")

	tests := []struct {
		name    string
		err     error
		errType ErrorType
		want    bool
	}{
		{
			name:    "graph sync failure classifies as graph",
			err:     NewGraphSyncFailed("s1", cause),
			errType: ErrorTypeGraph,
			want:    true,
		},
		{
			name:    "graph sync failure is not a store error",
			err:     NewGraphSyncFailed("s1", cause),
			errType: ErrorTypeStore,
			want:    false,
		},
		{
			name:    "store query failure classifies as store",
			err:     NewStoreQueryFailed("cascade_sessions", cause),
			errType: ErrorTypeStore,
			want:    true,
		},
		{
			name:    "extraction failure classifies as extract",
			err:     NewExtractionFailed("s1", cause),
			errType: ErrorTypeExtract,
			want:    true,
		},
		{
			name:    "malformed extraction classifies as extract",
			err:     NewMalformedExtraction("s1", cause),
			errType: ErrorTypeExtract,
			want:    true,
		},
		{
			name:    "missing config classifies as config",
			err:     NewConfigMissingRequired("DATABASE_URL"),
			errType: ErrorTypeConfig,
			want:    true,
		},
		{
			name:    "bare base error classifies by its type",
			err:     NewBaseError(ErrorTypeGraph, "boom", nil),
			errType: ErrorTypeGraph,
			want:    true,
		},
		{
			name:    "plain error matches nothing",
			err:     cause,
			errType: ErrorTypeExtract,
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsErrorType(tt.err, tt.errType))
		})
	}
}

func TestIsErrorType_WrappedChain(t *testing.T) {
	inner := NewGraphConnectionFailed("bolt://localhost:7687", fmt.Errorf("refused"))
	wrapped := fmt.Errorf("running pipeline: %w", inner)

	assert.True(t, IsErrorType(wrapped, ErrorTypeGraph))
	assert.False(t, IsErrorType(wrapped, ErrorTypeConfig))
}

func TestBaseError_Error(t *testing.T) {
	withCause := NewBaseError(ErrorTypeStore, "query failed", fmt.Errorf("timeout"))
	assert.Equal(t, "[store] query failed: timeout", withCause.Error())

	withoutCause := NewBaseError(ErrorTypeConfig, "missing value", nil)
	assert.Equal(t, "[config] missing value", withoutCause.Error())
}
