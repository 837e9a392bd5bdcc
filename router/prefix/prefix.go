package prefix

import (
	"strings"

	"github.com/indigo-web/minicat/http"
	"github.com/indigo-web/minicat/router"
)

type Kind uint8

const (
	Static Kind = iota
	Dynamic
)

func (k Kind) String() string {
	if k == Dynamic {
		return "dynamic"
	}

	return "static"
}

// Router dispatches requests by the URI prefix: those beginning with the prefix go to the
// dynamic handler, everything else goes to the static one.
type Router struct {
	prefix          string
	dynamic, static router.Router
}

func New(prefix string, dynamic, static router.Router) *Router {
	return &Router{
		prefix:  prefix,
		dynamic: dynamic,
		static:  static,
	}
}

// Route returns the kind of handler the URI is dispatched to. The match is literal and
// case-sensitive.
func (r *Router) Route(uri string) Kind {
	if strings.HasPrefix(uri, r.prefix) {
		return Dynamic
	}

	return Static
}

func (r *Router) OnRequest(request *http.Request, response *http.Response) error {
	if r.Route(request.URI()) == Dynamic {
		return r.dynamic.OnRequest(request, response)
	}

	return r.static.OnRequest(request, response)
}
