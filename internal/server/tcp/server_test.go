package tcp

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func listen(t *testing.T) net.Listener {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	return listener
}

func TestServer(t *testing.T) {
	t.Run("serves and stops on cancel", func(t *testing.T) {
		server := NewServer(listen(t), 20*time.Millisecond, func(conn net.Conn) {
			_, _ = conn.Write([]byte("hello"))
		})

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(ctx)
		}()

		for range 3 {
			conn, err := net.Dial("tcp", server.Addr().String())
			require.NoError(t, err)
			data, err := io.ReadAll(conn)
			require.NoError(t, err)
			require.Equal(t, "hello", string(data))
			require.NoError(t, conn.Close())
		}

		cancel()
		select {
		case err := <-errCh:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			require.Fail(t, "server didn't stop")
		}
	})

	t.Run("waits for connections in flight", func(t *testing.T) {
		release := make(chan struct{})
		served := make(chan struct{})
		server := NewServer(listen(t), 20*time.Millisecond, func(net.Conn) {
			close(served)
			<-release
		})

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(ctx)
		}()

		conn, err := net.Dial("tcp", server.Addr().String())
		require.NoError(t, err)
		defer conn.Close()
		<-served
		cancel()

		select {
		case <-errCh:
			require.Fail(t, "server stopped before the connection was served")
		case <-time.After(100 * time.Millisecond):
		}

		close(release)
		require.NoError(t, <-errCh)
	})

	t.Run("listener failure", func(t *testing.T) {
		listener := listen(t)
		server := NewServer(listener, 0, func(net.Conn) {})
		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start(context.Background())
		}()

		require.NoError(t, listener.Close())
		require.ErrorIs(t, <-errCh, net.ErrClosed)
	})
}

// cancellingListener cancels the context right before the given SetDeadline call and
// closes itself the way the cancellation would, so the deadline can't be set anymore.
type cancellingListener struct {
	*net.TCPListener
	cancel context.CancelFunc
	on     int
	calls  int
}

func (c *cancellingListener) SetDeadline(t time.Time) error {
	c.calls++
	if c.calls == c.on {
		c.cancel()
		_ = c.TCPListener.Close()
	}

	return c.TCPListener.SetDeadline(t)
}

func TestServer_CancelDuringDeadline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	listener := &cancellingListener{
		TCPListener: listen(t).(*net.TCPListener),
		cancel:      cancel,
		on:          2,
	}
	server := NewServer(listener, 10*time.Millisecond, func(net.Conn) {})

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(ctx)
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
		require.GreaterOrEqual(t, listener.calls, 2)
	case <-time.After(5 * time.Second):
		require.Fail(t, "server didn't stop")
	}
}

func TestNextBackoff(t *testing.T) {
	require.Equal(t, 5*time.Millisecond, nextBackoff(0))
	require.Equal(t, 10*time.Millisecond, nextBackoff(5*time.Millisecond))
	require.Equal(t, time.Second, nextBackoff(800*time.Millisecond))
}
