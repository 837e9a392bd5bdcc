package request

import (
	"io"
	"net"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/minicat/http/cookie"
	"github.com/indigo-web/minicat/kv"
)

// Fields is the mutable state of a request, filled in by the parser. Handlers never see
// it directly, only through the read-only http.Request.
type Fields struct {
	Method   string
	URI      string
	Query    string
	HasQuery bool
	Protocol string
	// Headers keys are lower-cased.
	Headers *kv.Storage
	Cookies cookie.Jar
	// SessionID is the requested session id, either from the URI path parameter or
	// from the cookie.
	SessionID           string
	SessionIDFromCookie bool
	SessionIDFromURL    bool
	ContentLength       int64
	HasContentLength    bool
	ContentType         string
	Remote              net.Addr
	Body                io.Reader
}

func New(cfg *config.Config) *Fields {
	return &Fields{
		Headers: kv.NewPrealloc(cfg.Headers.Number.Default),
		Cookies: cookie.NewJarPreAlloc(cfg.Headers.CookiesPrealloc),
	}
}

// SetURLSessionID records the session id found in the URI.
func (f *Fields) SetURLSessionID(id string) {
	f.SessionID = id
	f.SessionIDFromURL = true
}

// SetCookieSessionID records the session id found in a cookie. It overrides the one from
// the URI, but only the first cookie is taken into account. Returns whether the id was
// accepted.
func (f *Fields) SetCookieSessionID(id string) bool {
	if f.SessionIDFromCookie {
		return false
	}

	f.SessionID = id
	f.SessionIDFromCookie = true
	f.SessionIDFromURL = false

	return true
}
