package vfs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadError(t *testing.T) {
	tests := map[string]struct {
		name            string
		wrapped         error
		expectedMessage string
	}{
		"bare": {
			expectedMessage: "failed to read file content",
		},
		"with name": {
			name:            "css/style.css",
			expectedMessage: "failed to read file content of css/style.css",
		},
		"with name and cause": {
			name:            "index.html",
			wrapped:         context.Canceled,
			expectedMessage: "failed to read file content of index.html: context canceled",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			err := fmt.Errorf("sending response: %w", NewReadError(test.name, test.wrapped))

			require.EqualError(t, errors.Unwrap(err), test.expectedMessage)
			require.ErrorIs(t, err, &ReadError{})
			require.NotErrorIs(t, err, fs.ErrClosed)

			if test.wrapped != nil {
				require.ErrorIs(t, err, test.wrapped)
			}

			var readErr *ReadError
			require.ErrorAs(t, err, &readErr)
			require.Equal(t, test.name, readErr.Name)
		})
	}
}
