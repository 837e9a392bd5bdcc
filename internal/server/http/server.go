package http

import (
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/minicat/http"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/http/uri"
	"github.com/indigo-web/minicat/internal/parser/http1"
	"github.com/indigo-web/minicat/internal/request"
	"github.com/indigo-web/minicat/internal/server/tcp"
	"github.com/indigo-web/minicat/router"
	"github.com/rs/zerolog"
)

// Server holds everything shared by connection workers. It's read-only once constructed,
// so a single instance serves all the connections concurrently.
type Server struct {
	cfg        *config.Config
	parser     *http1.Parser
	router     router.Router
	log        zerolog.Logger
	onShutdown func()
}

// NewServer returns a new Server. The onShutdown callback is called after a request to the
// configured shutdown URI has been served. It may be nil.
func NewServer(cfg *config.Config, r router.Router, log zerolog.Logger, onShutdown func()) *Server {
	return &Server{
		cfg:        cfg,
		parser:     http1.NewParser(cfg),
		router:     r,
		log:        log,
		onShutdown: onShutdown,
	}
}

// OnConn serves exactly one request over the connection by a fresh Processor. Closing the
// connection is up to the caller.
func (s *Server) OnConn(conn net.Conn) {
	newProcessor(s, conn).process()
}

// Processor drives a single connection through the request cycle: the request line,
// the headers, the URI normalization and the dispatch.
type Processor struct {
	srv    *Server
	state  state
	reader *tcp.LineReader
	fields *request.Fields
	resp   *http.Response
}

func newProcessor(srv *Server, conn net.Conn) *Processor {
	client := tcp.NewClient(conn, srv.cfg.NET)
	fields := request.New(srv.cfg)
	fields.Remote = client.Remote()

	return &Processor{
		srv:    srv,
		state:  accepted,
		reader: tcp.NewLineReader(client),
		fields: fields,
		resp:   http.NewResponse(client),
	}
}

func (p *Processor) process() {
	defer func() {
		if r := recover(); r != nil {
			p.srv.log.Error().
				Interface("panic", r).
				Stringer("state", p.state).
				Stringer("remote", p.fields.Remote).
				Msg("connection worker panicked")
		}

		p.state = closed
	}()

	_ = p.resp.SetHeader("Server", p.srv.cfg.HTTP.ServerName)
	_ = p.resp.SetHeader("Connection", "close")

	if err := p.parse(); err != nil {
		p.reject(err)
		return
	}

	p.dispatch()

	if p.fields.URI == p.srv.cfg.HTTP.ShutdownURI && p.srv.onShutdown != nil {
		p.srv.log.Info().Stringer("remote", p.fields.Remote).Msg("shutdown requested")
		p.srv.onShutdown()
	}
}

func (p *Processor) parse() error {
	if err := p.srv.parser.RequestLine(p.reader, p.fields); err != nil {
		return err
	}

	p.state = lineParsed

	if err := p.srv.parser.Headers(p.reader, p.fields); err != nil {
		return err
	}

	p.state = headersParsed

	normalized, err := uri.Normalize(p.fields.URI)
	if err != nil {
		return err
	}

	p.fields.URI = normalized
	p.state = uriNormalized

	var length int64
	if p.fields.HasContentLength {
		length = p.fields.ContentLength
	}

	p.fields.Body = io.LimitReader(p.reader, length)

	return nil
}

// reject reports the parse failure and, if enabled, responds with a minimal error
// response. Nothing is sent if the peer has gone.
func (p *Processor) reject(err error) {
	if errors.Is(err, status.ErrConnectionClosed) {
		p.srv.log.Debug().
			Stringer("state", p.state).
			Stringer("remote", p.fields.Remote).
			Msg("connection closed before the request was complete")
		return
	}

	p.srv.log.Warn().
		Err(err).
		Stringer("state", p.state).
		Stringer("remote", p.fields.Remote).
		Msg("bad request")

	if !p.srv.cfg.HTTP.RespondOnError {
		return
	}

	if errors.Is(err, status.ErrLineTooLong) {
		if p.state == accepted {
			err = status.ErrURITooLong
		} else {
			err = status.ErrHeaderFieldsTooLarge
		}
	}

	if err = p.resp.Error(err); err != nil {
		p.srv.log.Debug().Err(err).Msg("failed to write the error response")
	}
}

func (p *Processor) dispatch() {
	req := http.NewRequest(p.fields)

	if err := p.invoke(req); err != nil {
		p.srv.log.Error().
			Err(err).
			Str("method", p.fields.Method).
			Str("uri", p.fields.URI).
			Stringer("remote", p.fields.Remote).
			Msg("dispatch failed")

		if !p.resp.Committed() {
			_ = p.resp.Error(err)
		}
	}

	if err := p.resp.Finish(); err != nil {
		p.srv.log.Debug().Err(err).Msg("failed to finish the response")
	}

	p.state = dispatched

	p.srv.log.Debug().
		Str("method", p.fields.Method).
		Str("uri", p.fields.URI).
		Uint16("status", uint16(p.resp.StatusCode())).
		Stringer("remote", p.fields.Remote).
		Msg("request")
}

func (p *Processor) invoke(req *http.Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v: %w", r, status.ErrHandlerExecution)
		}
	}()

	return p.srv.router.OnRequest(req, p.resp)
}
