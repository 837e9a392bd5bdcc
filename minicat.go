package minicat

import (
	"context"
	"net"
	"os"
	"strconv"
	"sync"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/minicat/internal/server/http"
	"github.com/indigo-web/minicat/internal/server/tcp"
	"github.com/indigo-web/minicat/router"
	"github.com/indigo-web/minicat/router/prefix"
	"github.com/indigo-web/minicat/router/servlet"
	"github.com/indigo-web/minicat/router/servlet/builtin"
	"github.com/indigo-web/minicat/router/static"
	"github.com/rs/zerolog"
)

// ListenerError is returned by App.Serve when the listening socket can't be opened or
// fails unrecoverably. It's the only failure ending the server.
type ListenerError struct {
	Op   string
	Addr string
	Err  error
}

func (l *ListenerError) Error() string {
	return "minicat: " + l.Op + " " + l.Addr + ": " + l.Err.Error()
}

func (l *ListenerError) Unwrap() error {
	return l.Err
}

type hooks struct {
	OnStart, OnStop func()
}

// App is a servlet container serving a single address. Requests beginning with the
// servlet prefix are served by the servlets from the registry, everything else by
// the files beneath the document root.
type App struct {
	cfg      *config.Config
	log      zerolog.Logger
	router   router.Router
	registry *servlet.Registry
	hooks    hooks

	mu     sync.Mutex
	addr   net.Addr
	cancel context.CancelFunc
}

// New returns a new App. Nil config means config.Default().
func New(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default()
	}

	return &App{
		cfg: cfg,
		log: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.InfoLevel).
			With().Timestamp().Logger(),
		registry: servlet.NewRegistry(),
	}
}

// Logger replaces the default console logger.
func (a *App) Logger(log zerolog.Logger) *App {
	a.log = log
	return a
}

// Handle replaces the default dispatch entirely. The servlet registry and the document
// root aren't used then.
func (a *App) Handle(r router.Router) *App {
	a.router = r
	return a
}

// Registry returns the servlet registry. The demo servlets are added to it on Serve,
// unless a custom router is set.
func (a *App) Registry() *servlet.Registry {
	return a.registry
}

// NotifyOnStart calls the callback as soon as the listener is open.
func (a *App) NotifyOnStart(cb func()) *App {
	a.hooks.OnStart = cb
	return a
}

// NotifyOnStop calls the callback once the server is down. By that moment no connections
// are accepted anymore and all the connections in flight are served.
func (a *App) NotifyOnStop(cb func()) *App {
	a.hooks.OnStop = cb
	return a
}

// Serve opens the listener and serves until the context is done, Stop is called or the
// shutdown URI is requested. Returns nil after a graceful shutdown, or a *ListenerError.
func (a *App) Serve(ctx context.Context) error {
	r, err := a.getRouter()
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(a.cfg.NET.Addr, strconv.Itoa(int(a.cfg.NET.Port)))
	sock, err := net.Listen("tcp", addr)
	if err != nil {
		return &ListenerError{Op: "listen", Addr: addr, Err: err}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.mu.Lock()
	a.addr, a.cancel = sock.Addr(), cancel
	a.mu.Unlock()

	httpServer := http.NewServer(a.cfg, r, a.log, cancel)
	tcpServer := tcp.NewServer(sock, a.cfg.NET.AcceptLoopInterruptPeriod, httpServer.OnConn)

	a.log.Info().
		Stringer("addr", sock.Addr()).
		Str("root", a.cfg.Static.Root).
		Msg("server started")
	callIfNotNil(a.hooks.OnStart)

	err = tcpServer.Start(ctx)

	a.log.Info().Msg("server stopped")
	callIfNotNil(a.hooks.OnStop)

	if err != nil {
		return &ListenerError{Op: "accept", Addr: sock.Addr().String(), Err: err}
	}

	return nil
}

// Stop shuts the running server down gracefully. It does nothing if the server isn't
// running.
func (a *App) Stop() {
	a.mu.Lock()
	cancel := a.cancel
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// Addr returns the address the listener is bound to, or nil if it was never started.
func (a *App) Addr() net.Addr {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.addr
}

func (a *App) getRouter() (router.Router, error) {
	if a.router != nil {
		return a.router, nil
	}

	if err := builtin.Register(a.registry, a.log); err != nil {
		return nil, err
	}

	files, err := static.New(a.cfg.Static.Root, a.cfg.Static.FileBufferSize)
	if err != nil {
		return nil, err
	}

	a.router = prefix.New(
		a.cfg.HTTP.ServletPrefix,
		servlet.NewContainer(a.cfg.HTTP.ServletPrefix, a.registry),
		files,
	)

	return a.router, nil
}

func callIfNotNil(f func()) {
	if f != nil {
		f()
	}
}
