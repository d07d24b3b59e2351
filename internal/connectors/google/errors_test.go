package google

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{name: "401 maps to unauthorized", code: http.StatusUnauthorized, want: ErrUnauthorized},
		{name: "403 maps to forbidden", code: http.StatusForbidden, want: ErrForbidden},
		{name: "404 maps to not found", code: http.StatusNotFound, want: ErrNotFound},
		{name: "429 maps to rate limited", code: http.StatusTooManyRequests, want: ErrRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := WrapError(&googleapi.Error{Code: tt.code, Message: "boom"})

			assert.ErrorIs(t, err, tt.want)
			// The original message survives the wrap.
			assert.Contains(t, err.Error(), "boom")
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		assert.NoError(t, WrapError(nil))
	})

	t.Run("other codes pass through unchanged", func(t *testing.T) {
		orig := &googleapi.Error{Code: http.StatusInternalServerError}
		assert.Equal(t, error(orig), WrapError(orig))
	})

	t.Run("non-API errors pass through unchanged", func(t *testing.T) {
		orig := errors.New("dial tcp: timeout")
		assert.Equal(t, orig, WrapError(orig))
	})
}

func TestErrorPredicates(t *testing.T) {
	t.Run("detect googleapi codes", func(t *testing.T) {
		assert.True(t, IsUnauthorized(&googleapi.Error{Code: 401}))
		assert.True(t, IsForbidden(&googleapi.Error{Code: 403}))
		assert.True(t, IsNotFound(&googleapi.Error{Code: 404}))
		assert.True(t, IsRateLimited(&googleapi.Error{Code: 429}))
	})

	t.Run("detect wrapped sentinels", func(t *testing.T) {
		assert.True(t, IsNotFound(fmt.Errorf("get file: %w", ErrNotFound)))
		assert.True(t, IsRateLimited(fmt.Errorf("list: %w", ErrRateLimited)))
	})

	t.Run("reject unrelated errors", func(t *testing.T) {
		err := errors.New("nope")
		assert.False(t, IsUnauthorized(err))
		assert.False(t, IsForbidden(err))
		assert.False(t, IsNotFound(err))
		assert.False(t, IsRateLimited(err))
	})
}
