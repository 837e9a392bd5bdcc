package tcp

import (
	"context"
	"errors"
	"net"
	"sync"
	"syscall"
	"time"
)

type OnConn func(net.Conn)

type deadliner interface {
	SetDeadline(t time.Time) error
}

// Server owns the listener and runs the accept loop. Every accepted connection is served
// by its own goroutine and closed as soon as the callback returns.
type Server struct {
	sock      net.Listener
	onConn    OnConn
	interrupt time.Duration
	wg        sync.WaitGroup
}

// NewServer returns a new Server. The interrupt period controls how often a blocked Accept
// is interrupted in order to check whether it's time to stop.
func NewServer(sock net.Listener, interrupt time.Duration, onConn OnConn) *Server {
	return &Server{
		sock:      sock,
		onConn:    onConn,
		interrupt: interrupt,
	}
}

// Start runs the accept loop until the context is done or the listener fails. Cancelling
// the context closes the listener, so a blocked Accept returns immediately. In both cases
// it stops accepting, waits for all the connections in flight and closes the listener.
// The returned error is nil unless the listener failed.
func (s *Server) Start(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		_ = s.sock.Close()
	})

	defer func() {
		stop()
		_ = s.sock.Close()
		s.wg.Wait()
	}()

	var backoff time.Duration

	for ctx.Err() == nil {
		if d, ok := s.sock.(deadliner); ok && s.interrupt > 0 {
			if err := d.SetDeadline(time.Now().Add(s.interrupt)); err != nil {
				if ctx.Err() != nil {
					// the listener was closed by the cancellation
					return nil
				}

				return err
			}
		}

		conn, err := s.sock.Accept()
		if err != nil {
			switch {
			case isTimeout(err):
				continue
			case isTransient(err):
				backoff = nextBackoff(backoff)
				time.Sleep(backoff)
				continue
			case ctx.Err() != nil:
				return nil
			default:
				return err
			}
		}

		backoff = 0
		s.wg.Add(1)
		go s.serve(conn)
	}

	return nil
}

// Addr returns the listener's network address.
func (s *Server) Addr() net.Addr {
	return s.sock.Addr()
}

func (s *Server) serve(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	s.onConn(conn)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// isTransient reports errors after which the listener is still usable, like running
// out of file descriptors or a connection aborted before it was accepted.
func isTransient(err error) bool {
	return errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE) ||
		errors.Is(err, syscall.ECONNABORTED)
}

func nextBackoff(prev time.Duration) time.Duration {
	const (
		initial = 5 * time.Millisecond
		maximal = time.Second
	)

	switch {
	case prev == 0:
		return initial
	case prev*2 > maximal:
		return maximal
	default:
		return prev * 2
	}
}
