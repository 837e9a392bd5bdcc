package servlet

import (
	"github.com/indigo-web/minicat/http"
)

// Servlet is a dynamic request handler. A fresh instance serves every request, so
// implementations may keep per-request state in their fields.
type Servlet interface {
	Service(request *http.Request, response *http.Response) error
}

// Initializer is implemented by servlets requiring preparation before serving. A failed
// Init means the servlet couldn't be instantiated, Service isn't called then.
type Initializer interface {
	Init() error
}

// Destroyer is implemented by servlets holding resources. Destroy is called after the
// Service, no matter how it finished.
type Destroyer interface {
	Destroy()
}

// Factory instantiates a servlet.
type Factory func() Servlet

// Func is an adapter allowing ordinary functions to be used as a Servlet.
type Func func(request *http.Request, response *http.Response) error

func (f Func) Service(request *http.Request, response *http.Response) error {
	return f(request, response)
}

// Of returns a Factory producing the same stateless servlet every time.
func Of(servlet Servlet) Factory {
	return func() Servlet {
		return servlet
	}
}
