package uri

import (
	"strings"

	"github.com/indigo-web/minicat/http/status"
)

// encodedSpecials are percent-encoded '%', '/', '.' and '\'. Decoding them after the
// normalization would allow to smuggle the path separators and dots past it.
var encodedSpecials = [...]string{"%25", "%2f", "%2e", "%5c"}

// Normalize returns a context-relative path, always beginning with a slash, with all the
// ".", ".." and empty segments resolved. Attempts to escape the root, as well as dangerous
// encodings, result in status.ErrInvalidRequestURI.
func Normalize(path string) (string, error) {
	if strings.HasPrefix(path, "/%7E") || strings.HasPrefix(path, "/%7e") {
		path = "/~" + path[len("/%7E"):]
	}

	if containsEncodedSpecial(path) {
		return "", status.ErrInvalidRequestURI
	}

	if path == "/." {
		return "/", nil
	}

	path = strings.ReplaceAll(path, `\`, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	// trailing dot segments are resolved just like the inner ones
	if strings.HasSuffix(path, "/.") || strings.HasSuffix(path, "/..") {
		path += "/"
	}

	for {
		index := strings.Index(path, "//")
		if index == -1 {
			break
		}

		path = path[:index] + path[index+1:]
	}

	for {
		index := strings.Index(path, "/./")
		if index == -1 {
			break
		}

		path = path[:index] + path[index+2:]
	}

	for {
		index := strings.Index(path, "/../")
		if index == -1 {
			break
		}

		if index == 0 {
			// no segment to step back from
			return "", status.ErrInvalidRequestURI
		}

		prev := strings.LastIndexByte(path[:index], '/')
		path = path[:prev] + path[index+3:]
	}

	// on some platforms three or more dots walk up the directory tree
	if strings.Contains(path, "/...") {
		return "", status.ErrInvalidRequestURI
	}

	return path, nil
}

func containsEncodedSpecial(path string) bool {
	for percent := strings.IndexByte(path, '%'); percent != -1; {
		path = path[percent:]
		if len(path) < 3 {
			return false
		}

		for _, special := range encodedSpecials {
			if strings.EqualFold(path[:3], special) {
				return true
			}
		}

		path = path[1:]
		percent = strings.IndexByte(path, '%')
	}

	return false
}
