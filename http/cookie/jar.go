package cookie

import (
	"errors"
	"strings"

	"github.com/indigo-web/minicat/kv"
)

// Jar is a key-value storage for cookies received from a user-agent.
type Jar = *kv.Storage

func NewJarPreAlloc(n int) Jar {
	return kv.NewPrealloc(n)
}

var ErrBadCookie = errors.New("cookie has a malformed syntax")

// Parse parses the Cookie header value, calling cb for every pair in order of appearance.
// Pairs preceding a malformed one are still reported.
func Parse(data string, cb func(name, value string)) error {
	for data = strings.TrimSpace(data); len(data) > 0; {
		eq := strings.IndexByte(data, '=')
		if eq == -1 {
			return ErrBadCookie
		}

		name := strings.TrimSpace(data[:eq])
		data = data[eq+1:]

		if len(name) == 0 {
			return ErrBadCookie
		}

		var value string

		if cs := strings.IndexByte(data, ';'); cs != -1 {
			value, data = data[:cs], strings.TrimLeft(data[cs+1:], " ")
		} else {
			value, data = data, ""
		}

		cb(name, unquote(strings.TrimSpace(value)))
	}

	return nil
}

func unquote(value string) string {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		return value[1 : len(value)-1]
	}

	return value
}
