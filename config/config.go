package config

import (
	"time"
)

type (
	HeadersNumber struct {
		Default, Maximal int
	}
)

type (
	URI struct {
		// MaxRequestLineLength limits the request line, including the method and the protocol.
		// A line exceeding it is rejected without being buffered any further.
		MaxRequestLineLength int
	}

	Headers struct {
		// Number is responsible for headers storage size.
		// Default value is an initial size of allocated storage.
		// Maximal value is maximum number of headers allowed to be presented
		Number HeadersNumber
		// MaxLineLength limits every single header line.
		MaxLineLength int
		// CookiesPrealloc defines the initial kv.Storage capacity for request cookies.
		CookiesPrealloc int
	}

	NET struct {
		// Addr is the address to bind to. Loopback by default.
		Addr string
		// Port to bind to.
		Port uint16
		// ReadBufferSize is a size of buffer in bytes which will be used to read from
		// socket
		ReadBufferSize int
		// ReadTimeout limits how long a single read from the client may block. Zero
		// disables the deadline.
		ReadTimeout time.Duration
		// WriteTimeout does the same as ReadTimeout, but for writes.
		WriteTimeout time.Duration
		// AcceptLoopInterruptPeriod controls how often will the Accept() call be interrupted
		// in order to check whether it's time to stop. Defaults to 5 seconds.
		AcceptLoopInterruptPeriod time.Duration
	}

	Static struct {
		// Root is the document root. Static resources are looked up beneath it and never
		// outside.
		Root string
		// FileBufferSize is the size of the buffer used to stream files.
		FileBufferSize int
	}

	HTTP struct {
		// ServerName is sent as the Server header value of every response.
		ServerName string
		// ShutdownURI is the request URI which stops the server after the request is served.
		ShutdownURI string
		// ServletPrefix selects requests for dynamic handlers.
		ServletPrefix string
		// RespondOnError enables minimal error responses (e.g. 400 Bad Request) for requests
		// which failed to be parsed. Otherwise, the connection is closed silently.
		RespondOnError bool
	}
)

// Config holds settings used across the server, mainly restrictions and limitations.
//
// You must ALWAYS modify defaults (returned via Default()) and NEVER try to initialize the
// config manually, because most likely this will result in ambiguous errors.
type Config struct {
	URI     URI
	Headers Headers
	NET     NET
	Static  Static
	HTTP    HTTP
}

// Default returns default config.
func Default() *Config {
	return &Config{
		URI: URI{
			MaxRequestLineLength: 2 * 1024,
		},
		Headers: Headers{
			Number: HeadersNumber{
				Default: 10,
				Maximal: 100,
			},
			MaxLineLength:   8 * 1024, // there might be extremely long cookies.
			CookiesPrealloc: 5,
		},
		NET: NET{
			Addr:                      "127.0.0.1",
			Port:                      8080,
			ReadBufferSize:            2 * 1024,
			ReadTimeout:               90 * time.Second,
			WriteTimeout:              90 * time.Second,
			AcceptLoopInterruptPeriod: 5 * time.Second,
		},
		Static: Static{
			Root:           "webroot",
			FileBufferSize: 1024,
		},
		HTTP: HTTP{
			ServerName:     "My Servlet Container",
			ShutdownURI:    "/SHUTDOWN",
			ServletPrefix:  "/servlet/",
			RespondOnError: true,
		},
	}
}
