package query

import (
	"strings"

	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/kv"
)

// Parse decodes an application/x-www-form-urlencoded query string into the storage. Keys
// without a value (`?flag`) are stored with an empty value. Pairs preceding a malformed
// one are kept.
func Parse(into *kv.Storage, query string) error {
	for len(query) > 0 {
		var pair string
		pair, query, _ = strings.Cut(query, "&")
		if len(pair) == 0 {
			continue
		}

		key, value, _ := strings.Cut(pair, "=")
		key, ok := Decode(key)
		if !ok || len(key) == 0 {
			return status.ErrURLDecoding
		}

		value, ok = Decode(value)
		if !ok {
			return status.ErrURLDecoding
		}

		into.Add(key, value)
	}

	return nil
}

// Decode decodes percent-encoded sequences and pluses as spaces. The string is returned
// as is if there's nothing to decode.
func Decode(str string) (string, bool) {
	if strings.IndexByte(str, '%') == -1 && strings.IndexByte(str, '+') == -1 {
		return str, true
	}

	var b strings.Builder
	b.Grow(len(str))

	for i := 0; i < len(str); i++ {
		switch c := str[i]; c {
		case '+':
			b.WriteByte(' ')
		case '%':
			if len(str)-i < 3 {
				return "", false
			}

			hi, lo := halfbyte[str[i+1]], halfbyte[str[i+2]]
			if hi|lo > 0x0f {
				return "", false
			}

			b.WriteByte(hi<<4 | lo)
			i += 2
		default:
			b.WriteByte(c)
		}
	}

	return b.String(), true
}

var halfbyte = func() (table [256]byte) {
	for i := range table {
		table[i] = 0xff
	}

	for c := '0'; c <= '9'; c++ {
		table[c] = byte(c - '0')
	}

	for c := 'a'; c <= 'f'; c++ {
		table[c] = byte(c-'a') + 10
		table[c-'a'+'A'] = byte(c-'a') + 10
	}

	return table
}()
