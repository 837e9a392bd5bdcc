package mime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComplies(t *testing.T) {
	for _, tc := range []string{"", JSON, JSON + ";", JSON + ";param", JSON + "; charset=utf8"} {
		require.True(t, Complies(JSON, tc))
	}

	require.False(t, Complies(JSON, HTML))
}

func TestByFilename(t *testing.T) {
	require.Equal(t, HTML, ByFilename("/index.html"))
	require.Equal(t, HTML, ByFilename("/INDEX.HTM"))
	require.Equal(t, OctetStream, ByFilename("/archive.tar"))
	require.Equal(t, OctetStream, ByFilename("/README"))
}
