package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWrapAndIsCode(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := Wrap("remote_create_failed", "could not create itinerary", cause)

	require.True(t, IsCode(err, "remote_create_failed"))
	require.False(t, IsCode(err, "load_failed"))
	require.ErrorIs(t, err, cause)
	require.Equal(t, "could not create itinerary: dial tcp: refused", err.Error())
}

func TestCodeOfWrappedChain(t *testing.T) {
	err := fmt.Errorf("save: %w", Wrap("missing_title", "title is required", nil))
	require.Equal(t, "missing_title", CodeOf(err))
	require.Equal(t, "", CodeOf(errors.New("plain")))
	require.Equal(t, "", CodeOf(nil))
}
