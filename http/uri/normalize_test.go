package uri

import (
	"testing"

	"github.com/indigo-web/minicat/http/status"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tcs := []struct {
		Name, Path, Want string
	}{
		{"root", "/", "/"},
		{"single dot", "/.", "/"},
		{"parent segment", "/a/b/../c", "/a/c"},
		{"current segment", "/a/./b", "/a/b"},
		{"double slash", "/a//b", "/a/b"},
		{"many slashes", "/a////b//", "/a/b/"},
		{"encoded tilde upper", "/%7Eabc", "/~abc"},
		{"encoded tilde lower", "/%7eabc/x", "/~abc/x"},
		{"backslashes", `/a\b\c`, "/a/b/c"},
		{"no leading slash", "index.html", "/index.html"},
		{"trailing parent", "/a/b/..", "/a/"},
		{"trailing dot", "/a/.", "/a/"},
		{"nested parents", "/a/b/c/../../d", "/a/d"},
		{"dots inside names", "/a..b/c.d", "/a..b/c.d"},
		{"other encodings survive", "/a%20b", "/a%20b"},
	}

	for _, tc := range tcs {
		t.Run(tc.Name, func(t *testing.T) {
			normalized, err := Normalize(tc.Path)
			require.NoError(t, err)
			require.Equal(t, tc.Want, normalized)
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	for _, path := range []string{
		"/../a",
		"/..",
		"/a/../../b",
		"/a/...",
		"/a/..../b",
		`\..\secret`,
	} {
		t.Run(path, func(t *testing.T) {
			_, err := Normalize(path)
			require.ErrorIs(t, err, status.ErrInvalidRequestURI)
		})
	}

	t.Run("dangerous encodings", func(t *testing.T) {
		for _, encoded := range []string{"%2e", "%2E", "%2f", "%2F", "%5c", "%5C", "%25"} {
			for _, path := range []string{
				"/" + encoded,
				"/a/" + encoded + "/b",
				"/prefix" + encoded,
				"/a/b" + encoded + encoded,
			} {
				_, err := Normalize(path)
				require.ErrorIs(t, err, status.ErrInvalidRequestURI, path)
			}
		}
	})
}

func TestNormalizeIdempotent(t *testing.T) {
	for _, path := range []string{
		"/",
		"/index.html",
		"/servlet/PrimitiveServlet",
		"/a/b/c/",
		"/~user/file.txt",
		"/with%20space",
	} {
		normalized, err := Normalize(path)
		require.NoError(t, err)
		require.Equal(t, path, normalized)

		again, err := Normalize(normalized)
		require.NoError(t, err)
		require.Equal(t, normalized, again)
	}
}
