package tcp

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/indigo-web/minicat/http/status"
)

var ErrNothingToUnread = errors.New("no byte to unread")

// LineReader is a forward-only byte source over the Client. It reads lines, single bytes
// with a one-byte pushback, and raw data. Everything read past the requested piece is
// given back to the client, so no data is lost between the calls.
type LineReader struct {
	client Client
	line   []byte
	last   byte
	// canUnread is set after ReadByte, pushed after UnreadByte.
	canUnread, pushed bool
}

func NewLineReader(client Client) *LineReader {
	return &LineReader{client: client}
}

// ReadLine returns the bytes up to, but excluding, the LF or CRLF terminator. At most
// maxLen bytes (CR included) are allowed before the LF, otherwise status.ErrLineTooLong
// is returned. If the stream ends before the terminator, status.ErrConnectionClosed is
// returned. The returned slice is valid until the next call.
func (l *LineReader) ReadLine(maxLen int) ([]byte, error) {
	l.line = l.line[:0]
	l.canUnread = false

	if l.pushed {
		l.pushed = false
		if l.last == '\n' {
			return l.line, nil
		}

		l.line = append(l.line, l.last)
	}

	for {
		data, err := l.client.Read()

		if lf := bytes.IndexByte(data, '\n'); lf != -1 {
			if len(l.line)+lf > maxLen {
				return nil, status.ErrLineTooLong
			}

			l.line = append(l.line, data[:lf]...)
			if rest := data[lf+1:]; len(rest) > 0 {
				l.client.Unread(rest)
			}

			return bytes.TrimSuffix(l.line, []byte{'\r'}), nil
		}

		if len(l.line)+len(data) > maxLen {
			return nil, status.ErrLineTooLong
		}

		l.line = append(l.line, data...)

		if err != nil {
			return nil, closed(err)
		}
	}
}

// ReadByte returns a single byte.
func (l *LineReader) ReadByte() (byte, error) {
	if l.pushed {
		l.pushed = false
		l.canUnread = true
		return l.last, nil
	}

	for {
		data, err := l.client.Read()
		if len(data) > 0 {
			l.last = data[0]
			l.canUnread = true
			if len(data) > 1 {
				l.client.Unread(data[1:])
			}

			return l.last, nil
		}

		if err != nil {
			return 0, closed(err)
		}
	}
}

// UnreadByte gives back the byte returned by the last ReadByte call. Only a single byte
// can be given back.
func (l *LineReader) UnreadByte() error {
	if !l.canUnread {
		return ErrNothingToUnread
	}

	l.canUnread = false
	l.pushed = true
	return nil
}

// Read implements io.Reader, returning the raw data left after the lines.
func (l *LineReader) Read(b []byte) (n int, err error) {
	if len(b) == 0 {
		return 0, nil
	}

	l.canUnread = false

	if l.pushed {
		l.pushed = false
		b[0] = l.last
		return 1, nil
	}

	data, err := l.client.Read()
	n = copy(b, data)
	if n < len(data) {
		l.client.Unread(data[n:])
		return n, nil
	}

	return n, err
}

func closed(err error) error {
	if errors.Is(err, io.EOF) {
		return status.ErrConnectionClosed
	}

	return fmt.Errorf("%w: %v", status.ErrConnectionClosed, err)
}
