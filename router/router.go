package router

import (
	"github.com/indigo-web/minicat/http"
)

// Router is the entry point of the request handling. It must write the response into the
// provided Response. A returned error is rendered into the response by the server, unless
// the response is already committed.
type Router interface {
	OnRequest(request *http.Request, response *http.Response) error
}

// HandlerFunc is an adapter allowing ordinary functions to be used as a Router.
type HandlerFunc func(request *http.Request, response *http.Response) error

func (h HandlerFunc) OnRequest(request *http.Request, response *http.Response) error {
	return h(request, response)
}
