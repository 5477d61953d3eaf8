package memfs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKinds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"NotFound", NotFound("/a/b"), ErrNotFound},
		{"Exists", Exists("/a/b"), ErrExists},
		{"NotADirectory", NotADirectory("/a/b"), ErrNotADirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.ErrorIs(t, tt.err, tt.kind)

			var fsErr *Error
			require.ErrorAs(t, tt.err, &fsErr)
			assert.Equal(t, "/a/b", fsErr.Path)
			assert.Contains(t, tt.err.Error(), "/a/b")
		})
	}
}

func TestErrorWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("seeding tree: %w", NotFound("/x"))

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.False(t, errors.Is(wrapped, ErrExists))

	var fsErr *Error
	require.ErrorAs(t, wrapped, &fsErr)
	assert.Equal(t, "/x", fsErr.Path)
}
