package sharestore

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitizeEndpoint(t *testing.T) {
	require.Equal(t, "abc.r2.cloudflarestorage.com", sanitizeEndpoint("https://abc.r2.cloudflarestorage.com/bucket"))
	require.Equal(t, "localhost:9000", sanitizeEndpoint(" http://localhost:9000 "))
	require.Equal(t, "", sanitizeEndpoint(""))
}

func TestMemoryStorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStorage()

	obj, err := store.Put(ctx, "shared/x.ics", []byte("BEGIN:VCALENDAR"), "text/calendar")
	require.NoError(t, err)
	require.EqualValues(t, 15, obj.Size)
	require.NotEmpty(t, obj.ETag)

	reader, err := store.Get(ctx, "shared/x.ics")
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "BEGIN:VCALENDAR", string(data))

	_, err = store.Get(ctx, "shared/missing.ics")
	require.Error(t, err)
}
