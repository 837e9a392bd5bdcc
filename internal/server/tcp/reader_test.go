package tcp

import (
	"io"
	"testing"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/internal/server/tcp/dummy"
	"github.com/stretchr/testify/require"
)

func newReader(readBuff int, chunks ...string) *LineReader {
	cfg := config.Default().NET
	cfg.ReadBufferSize = readBuff

	return NewLineReader(NewClient(dummy.NewConn(chunks...), cfg))
}

func TestLineReader_ReadLine(t *testing.T) {
	t.Run("CRLF and LF terminators", func(t *testing.T) {
		r := newReader(64, "GET / HTTP/1.1\r\nHost: localhost\n\r\n")

		line, err := r.ReadLine(100)
		require.NoError(t, err)
		require.Equal(t, "GET / HTTP/1.1", string(line))

		line, err = r.ReadLine(100)
		require.NoError(t, err)
		require.Equal(t, "Host: localhost", string(line))

		line, err = r.ReadLine(100)
		require.NoError(t, err)
		require.Empty(t, line)
	})

	t.Run("partial reads", func(t *testing.T) {
		// a read buffer of 3 bytes splits everything into tiny pieces
		r := newReader(3, "GET /index", ".html HTTP/1.1\r", "\nrest")

		line, err := r.ReadLine(100)
		require.NoError(t, err)
		require.Equal(t, "GET /index.html HTTP/1.1", string(line))

		rest, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "rest", string(rest))
	})

	t.Run("too long", func(t *testing.T) {
		r := newReader(4, "0123456789\r\n")
		_, err := r.ReadLine(5)
		require.ErrorIs(t, err, status.ErrLineTooLong)
	})

	t.Run("exactly the limit", func(t *testing.T) {
		r := newReader(64, "01234\n")
		line, err := r.ReadLine(5)
		require.NoError(t, err)
		require.Equal(t, "01234", string(line))
	})

	t.Run("closed before terminator", func(t *testing.T) {
		r := newReader(64, "GET / HTT")
		_, err := r.ReadLine(100)
		require.ErrorIs(t, err, status.ErrConnectionClosed)
	})

	t.Run("closed immediately", func(t *testing.T) {
		r := newReader(64)
		_, err := r.ReadLine(100)
		require.ErrorIs(t, err, status.ErrConnectionClosed)
	})
}

func TestLineReader_Pushback(t *testing.T) {
	t.Run("byte is given back to the next line", func(t *testing.T) {
		r := newReader(64, "Host: x\r\n")

		b, err := r.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte('H'), b)
		require.NoError(t, r.UnreadByte())

		line, err := r.ReadLine(100)
		require.NoError(t, err)
		require.Equal(t, "Host: x", string(line))
	})

	t.Run("pushed LF terminates an empty line", func(t *testing.T) {
		r := newReader(64, "\nnext\n")

		b, err := r.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte('\n'), b)
		require.NoError(t, r.UnreadByte())

		line, err := r.ReadLine(100)
		require.NoError(t, err)
		require.Empty(t, line)

		line, err = r.ReadLine(100)
		require.NoError(t, err)
		require.Equal(t, "next", string(line))
	})

	t.Run("only one byte", func(t *testing.T) {
		r := newReader(64, "ab")
		_, err := r.ReadByte()
		require.NoError(t, err)
		require.NoError(t, r.UnreadByte())
		require.ErrorIs(t, r.UnreadByte(), ErrNothingToUnread)
	})

	t.Run("nothing read yet", func(t *testing.T) {
		require.ErrorIs(t, newReader(64, "a").UnreadByte(), ErrNothingToUnread)
	})

	t.Run("raw read after pushback", func(t *testing.T) {
		r := newReader(64, "xyz")
		_, err := r.ReadByte()
		require.NoError(t, err)
		require.NoError(t, r.UnreadByte())

		data, err := io.ReadAll(r)
		require.NoError(t, err)
		require.Equal(t, "xyz", string(data))
	})
}
