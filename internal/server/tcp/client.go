package tcp

import (
	"net"
	"time"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/utils/unreader"
)

// Client is a connection with an ability to give back a part of the read data, so the
// next Read returns it first.
type Client interface {
	Read() ([]byte, error)
	Unread([]byte)
	Write([]byte) (int, error)
	Remote() net.Addr
	Close() error
}

type client struct {
	unreader     *unreader.Unreader
	buff         []byte
	conn         net.Conn
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewClient(conn net.Conn, cfg config.NET) Client {
	return &client{
		unreader:     new(unreader.Unreader),
		buff:         make([]byte, cfg.ReadBufferSize),
		conn:         conn,
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// Read returns either previously unread data or reads a new chunk from the connection.
// The returned slice stays valid only until the next call.
func (c *client) Read() ([]byte, error) {
	return c.unreader.PendingOr(func() ([]byte, error) {
		if c.readTimeout > 0 {
			if err := c.conn.SetReadDeadline(time.Now().Add(c.readTimeout)); err != nil {
				return nil, err
			}
		}

		n, err := c.conn.Read(c.buff)

		return c.buff[:n], err
	})
}

func (c *client) Unread(b []byte) {
	c.unreader.Unread(b)
}

func (c *client) Write(b []byte) (int, error) {
	if c.writeTimeout > 0 {
		if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
			return 0, err
		}
	}

	return c.conn.Write(b)
}

func (c *client) Remote() net.Addr {
	return c.conn.RemoteAddr()
}

func (c *client) Close() error {
	return c.conn.Close()
}
