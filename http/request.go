package http

import (
	"io"
	"iter"
	"net"

	"github.com/indigo-web/minicat/http/query"
	"github.com/indigo-web/minicat/internal/request"
	"github.com/indigo-web/minicat/kv"
)

// Request is a read-only view of a parsed HTTP request. Everything is decoded by the time a
// handler receives it, so handlers have no access to the connection or the parser.
type Request struct {
	fields    *request.Fields
	params    *kv.Storage
	paramsErr error
}

func NewRequest(fields *request.Fields) *Request {
	return &Request{fields: fields}
}

// Method returns the request method token as is. It is guaranteed to be non-empty.
func (r *Request) Method() string {
	return r.fields.Method
}

// URI returns the normalized path. It always begins with a slash and contains neither dot
// segments nor repeated slashes.
func (r *Request) URI() string {
	return r.fields.URI
}

// QueryString returns the raw query string and whether it was presented at all.
func (r *Request) QueryString() (string, bool) {
	return r.fields.Query, r.fields.HasQuery
}

// Protocol returns the protocol token, e.g. HTTP/1.1.
func (r *Request) Protocol() string {
	return r.fields.Protocol
}

// Header returns the first value of the header, or an empty string.
func (r *Request) Header(name string) string {
	return r.fields.Headers.Value(name)
}

// HeaderValues returns all the values of the header in order of their appearance.
func (r *Request) HeaderValues(name string) []string {
	return r.fields.Headers.Values(name)
}

// Headers iterates over all the header pairs. Names are lower-cased.
func (r *Request) Headers() iter.Seq2[string, string] {
	return r.fields.Headers.Pairs()
}

// HeaderNames returns unique lower-cased header names.
func (r *Request) HeaderNames() []string {
	return r.fields.Headers.Keys()
}

// Cookie returns the value of the first cookie with the name.
func (r *Request) Cookie(name string) (string, bool) {
	return r.fields.Cookies.Get(name)
}

// Cookies iterates over all the received cookies.
func (r *Request) Cookies() iter.Seq2[string, string] {
	return r.fields.Cookies.Pairs()
}

// SessionID returns the requested session id, if any.
func (r *Request) SessionID() string {
	return r.fields.SessionID
}

func (r *Request) SessionIDFromCookie() bool {
	return r.fields.SessionIDFromCookie
}

func (r *Request) SessionIDFromURL() bool {
	return r.fields.SessionIDFromURL
}

// ContentLength returns the Content-Length header value and whether it was presented.
func (r *Request) ContentLength() (int64, bool) {
	return r.fields.ContentLength, r.fields.HasContentLength
}

func (r *Request) ContentType() string {
	return r.fields.ContentType
}

// Params lazily decodes the query string. The returned storage is a copy, so it is free
// to be modified.
func (r *Request) Params() (*kv.Storage, error) {
	if r.params == nil {
		r.params = kv.New()
		r.paramsErr = query.Parse(r.params, r.fields.Query)
	}

	return r.params.Clone(), r.paramsErr
}

// Body returns the request body reader, limited by the Content-Length. Requests without
// it have an empty body.
func (r *Request) Body() io.Reader {
	return r.fields.Body
}

func (r *Request) Remote() net.Addr {
	return r.fields.Remote
}
