package servlet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/indigo-web/minicat/http"
	"github.com/indigo-web/minicat/http/status"
)

// Container is the dynamic handler. It resolves the servlet by the name following the
// prefix in the URI, instantiates it and runs a single service cycle. Any failure, panics
// included, is returned as either status.ErrHandlerResolution or status.ErrHandlerExecution.
type Container struct {
	prefix   string
	registry *Registry
}

func NewContainer(prefix string, registry *Registry) *Container {
	return &Container{
		prefix:   prefix,
		registry: registry,
	}
}

// Name extracts the servlet name: the path segment right after the prefix. Returns an
// empty string if the URI doesn't start with the prefix.
func Name(prefix, uri string) string {
	rest, found := strings.CutPrefix(uri, prefix)
	if !found {
		return ""
	}

	name, _, _ := strings.Cut(rest, "/")
	return name
}

func (c *Container) OnRequest(request *http.Request, response *http.Response) error {
	name := Name(c.prefix, request.URI())
	if len(name) == 0 {
		return fmt.Errorf("no servlet name in %s: %w", request.URI(), status.ErrHandlerResolution)
	}

	factory, found := c.registry.Resolve(name)
	if !found {
		return fmt.Errorf("servlet %s: %w", name, status.ErrHandlerResolution)
	}

	servlet, err := instantiate(factory)
	if err != nil {
		return fmt.Errorf("servlet %s: %v: %w", name, err, status.ErrHandlerResolution)
	}

	if destroyer, ok := servlet.(Destroyer); ok {
		defer destroyer.Destroy()
	}

	if err = service(servlet, request, response); err != nil {
		return fmt.Errorf("servlet %s: %w: %w", name, status.ErrHandlerExecution, err)
	}

	return nil
}

func instantiate(factory Factory) (servlet Servlet, err error) {
	defer func() {
		if r := recover(); r != nil {
			servlet, err = nil, fmt.Errorf("panic: %v", r)
		}
	}()

	servlet = factory()
	if servlet == nil {
		return nil, errors.New("factory returned nil")
	}

	if initializer, ok := servlet.(Initializer); ok {
		if err = initializer.Init(); err != nil {
			return nil, err
		}
	}

	return servlet, nil
}

func service(servlet Servlet, request *http.Request, response *http.Response) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return servlet.Service(request, response)
}
