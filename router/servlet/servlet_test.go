package servlet

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/minicat/http"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/internal/request"
	"github.com/stretchr/testify/require"
)

type lifecycle struct {
	events  *[]string
	initErr error
}

func (l *lifecycle) Init() error {
	*l.events = append(*l.events, "init")
	return l.initErr
}

func (l *lifecycle) Service(_ *http.Request, response *http.Response) error {
	*l.events = append(*l.events, "service")
	return response.String("served")
}

func (l *lifecycle) Destroy() {
	*l.events = append(*l.events, "destroy")
}

func call(c *Container, uri string) (string, error) {
	fields := request.New(config.Default())
	fields.Method, fields.URI, fields.Protocol = "GET", uri, "HTTP/1.1"
	sink := new(bytes.Buffer)
	response := http.NewResponse(sink)
	err := c.OnRequest(http.NewRequest(fields), response)
	_ = response.Finish()

	return sink.String(), err
}

func TestName(t *testing.T) {
	for uri, want := range map[string]string{
		"/servlet/Primitive":         "Primitive",
		"/servlet/Primitive/extra/x": "Primitive",
		"/servlet/":                  "",
		"/static/servlet/Primitive":  "",
		"/servlet/Echo;x":            "Echo;x",
	} {
		require.Equal(t, want, Name("/servlet/", uri), uri)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	hello := Of(Func(func(*http.Request, *http.Response) error { return nil }))

	require.NoError(t, r.Register("Hello", hello))
	require.ErrorIs(t, r.Register("Hello", hello), ErrDuplicate)
	require.Error(t, r.Register("", hello))
	require.Error(t, r.Register("Nil", nil))
	r.MustRegister("Another", hello)
	require.Panics(t, func() {
		r.MustRegister("Another", hello)
	})

	_, found := r.Resolve("Hello")
	require.True(t, found)
	_, found = r.Resolve("hello")
	require.False(t, found)
	require.Equal(t, []string{"Another", "Hello"}, r.Names())
}

func TestContainer(t *testing.T) {
	var events []string
	registry := NewRegistry().
		MustRegister("Lifecycle", func() Servlet {
			return &lifecycle{events: &events}
		}).
		MustRegister("BrokenInit", func() Servlet {
			return &lifecycle{events: &events, initErr: errors.New("no database")}
		}).
		MustRegister("Nil", func() Servlet {
			return nil
		}).
		MustRegister("PanicFactory", func() Servlet {
			panic("cannot instantiate")
		}).
		MustRegister("Failing", Of(Func(func(*http.Request, *http.Response) error {
			return status.ErrNotFound
		}))).
		MustRegister("Panicking", Of(Func(func(*http.Request, *http.Response) error {
			panic("boom")
		})))
	c := NewContainer("/servlet/", registry)

	t.Run("lifecycle", func(t *testing.T) {
		events = nil
		written, err := call(c, "/servlet/Lifecycle/anything")
		require.NoError(t, err)
		require.True(t, strings.HasSuffix(written, "\r\n\r\nserved"))
		require.Equal(t, []string{"init", "service", "destroy"}, events)
	})

	t.Run("fresh instance per request", func(t *testing.T) {
		events = nil
		_, err := call(c, "/servlet/Lifecycle")
		require.NoError(t, err)
		_, err = call(c, "/servlet/Lifecycle")
		require.NoError(t, err)
		require.Len(t, events, 6)
	})

	t.Run("resolution failures", func(t *testing.T) {
		for _, uri := range []string{
			"/servlet/",
			"/servlet/Unknown",
			"/servlet/lifecycle",
			"/servlet/Nil",
			"/servlet/PanicFactory",
			"/servlet/BrokenInit",
		} {
			written, err := call(c, uri)
			require.ErrorIs(t, err, status.ErrHandlerResolution, uri)
			require.Equal(t, status.NotFound, status.CodeOf(err), uri)
			require.NotContains(t, written, "served")
		}
	})

	t.Run("init failure skips the service", func(t *testing.T) {
		events = nil
		_, err := call(c, "/servlet/BrokenInit")
		require.Error(t, err)
		require.Equal(t, []string{"init"}, events)
	})

	t.Run("execution failures", func(t *testing.T) {
		_, err := call(c, "/servlet/Failing")
		require.ErrorIs(t, err, status.ErrHandlerExecution)
		require.ErrorIs(t, err, status.ErrNotFound)
		require.Equal(t, status.InternalServerError, status.CodeOf(err))

		_, err = call(c, "/servlet/Panicking")
		require.ErrorIs(t, err, status.ErrHandlerExecution)
		require.Contains(t, err.Error(), "boom")
	})
}
