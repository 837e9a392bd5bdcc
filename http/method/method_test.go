package method

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	known := map[string]Method{
		"GET":     GET,
		"HEAD":    HEAD,
		"POST":    POST,
		"PUT":     PUT,
		"DELETE":  DELETE,
		"CONNECT": CONNECT,
		"OPTIONS": OPTIONS,
		"TRACE":   TRACE,
		"PATCH":   PATCH,
	}

	for token, want := range known {
		t.Run(token, func(t *testing.T) {
			assert.Equal(t, want, Parse(token))
		})
	}

	t.Run("unknown", func(t *testing.T) {
		for _, token := range []string{"get", "BREW", "", "GETS", "PUTT", "HEADER"} {
			assert.Equal(t, Unknown, Parse(token), token)
		}
	})
}
