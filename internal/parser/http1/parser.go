package http1

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/indigo-web/minicat/config"
	"github.com/indigo-web/minicat/http/cookie"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/internal/request"
	"github.com/indigo-web/utils/uf"
	"golang.org/x/net/http/httpguts"
)

// LineReader is the byte source the parser consumes.
type LineReader interface {
	ReadLine(maxLen int) ([]byte, error)
	ReadByte() (byte, error)
	UnreadByte() error
}

const sessionIDParam = ";jsessionid="

// Parser parses the request line and the headers. Everything extracted is copied into
// owned strings, so the reader's buffers may be reused right after.
type Parser struct {
	cfg *config.Config
}

func NewParser(cfg *config.Config) *Parser {
	return &Parser{cfg: cfg}
}

// RequestLine parses the request line into the fields. The URI is left raw, it must be
// normalized separately.
func (p *Parser) RequestLine(r LineReader, fields *request.Fields) error {
	if err := skipEmptyLines(r, p.cfg.URI.MaxRequestLineLength); err != nil {
		return err
	}

	line, err := r.ReadLine(p.cfg.URI.MaxRequestLineLength)
	if err != nil {
		return err
	}

	method, target, protocol, err := splitRequestLine(line)
	if err != nil {
		return err
	}

	t := SplitTarget(target)
	fields.Method = method
	fields.Protocol = protocol
	fields.URI = t.Path
	fields.Query, fields.HasQuery = t.Query, t.HasQuery
	if t.HasSessionID {
		fields.SetURLSessionID(t.SessionID)
	}

	return nil
}

// skipEmptyLines skips CRLFs preceding the request line, which is tolerated by RFC 9112
// for the sake of clients sending an extra CRLF after a request body.
func skipEmptyLines(r LineReader, limit int) error {
	for range limit {
		c, err := r.ReadByte()
		if err != nil {
			return err
		}

		if c != '\r' && c != '\n' {
			return r.UnreadByte()
		}
	}

	return status.ErrLineTooLong
}

func splitRequestLine(line []byte) (method, target, protocol string, err error) {
	sp := bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return "", "", "", status.ErrMalformedRequestLine
	}

	method, line = string(line[:sp]), line[sp+1:]

	sp = bytes.IndexByte(line, ' ')
	if sp <= 0 {
		return "", "", "", status.ErrMalformedRequestLine
	}

	target, line = string(line[:sp]), line[sp+1:]

	if len(line) == 0 || bytes.IndexByte(line, ' ') != -1 {
		return "", "", "", status.ErrMalformedRequestLine
	}

	return method, target, string(line), nil
}

// Target is the request-target split into its parts.
type Target struct {
	Path         string
	Query        string
	HasQuery     bool
	SessionID    string
	HasSessionID bool
}

// SplitTarget separates the query and the session id path parameter from the path. The
// absolute form (http://host/path) is reduced to the path.
func SplitTarget(target string) (t Target) {
	t.Path = target
	if question := strings.IndexByte(target, '?'); question != -1 {
		t.Path, t.Query, t.HasQuery = target[:question], target[question+1:], true
	}

	if !strings.HasPrefix(t.Path, "/") {
		if scheme := strings.Index(t.Path, "://"); scheme != -1 {
			slash := strings.IndexByte(t.Path[scheme+3:], '/')
			if slash == -1 {
				t.Path = ""
			} else {
				t.Path = t.Path[scheme+3+slash:]
			}
		}
	}

	param := strings.Index(t.Path, sessionIDParam)
	if param == -1 {
		return t
	}

	rest := t.Path[param+len(sessionIDParam):]
	t.SessionID, t.HasSessionID = rest, true
	if semicolon := strings.IndexByte(rest, ';'); semicolon != -1 {
		t.SessionID, rest = rest[:semicolon], rest[semicolon:]
	} else {
		rest = ""
	}

	t.Path = t.Path[:param] + rest

	return t
}

// Headers parses header lines until the empty one. Names are lower-cased. Folded lines
// (obsolete line continuation) aren't supported and are rejected.
func (p *Parser) Headers(r LineReader, fields *request.Fields) error {
	for {
		c, err := r.ReadByte()
		if err != nil {
			return err
		}

		if c == ' ' || c == '\t' {
			return fmt.Errorf("folded header line: %w", status.ErrMalformedHeader)
		}

		if err = r.UnreadByte(); err != nil {
			return err
		}

		line, err := r.ReadLine(p.cfg.Headers.MaxLineLength)
		if err != nil {
			return err
		}

		if len(line) == 0 {
			return nil
		}

		if fields.Headers.Len() >= p.cfg.Headers.Number.Maximal {
			return status.ErrTooManyHeaders
		}

		colon := bytes.IndexByte(line, ':')
		if colon == -1 || !httpguts.ValidHeaderFieldName(uf.B2S(line[:colon])) {
			return status.ErrMalformedHeader
		}

		name := strings.ToLower(string(line[:colon]))
		value := string(bytes.Trim(line[colon+1:], " \t"))
		fields.Headers.Add(name, value)

		if err = p.special(fields, name, value); err != nil {
			return err
		}
	}
}

var errDigits = errors.New("not a non-negative decimal number")

func (p *Parser) special(fields *request.Fields, name, value string) error {
	switch name {
	case "cookie":
		err := cookie.Parse(value, func(name, value string) {
			if name == "jsessionid" {
				fields.SetCookieSessionID(value)
			}

			fields.Cookies.Add(name, value)
		})
		if err != nil {
			return fmt.Errorf("cookie: %v: %w", err, status.ErrMalformedHeader)
		}
	case "content-length":
		length, err := parseUint(value)
		if err != nil {
			return fmt.Errorf("content-length: %v: %w", err, status.ErrMalformedHeader)
		}

		if fields.HasContentLength && fields.ContentLength != length {
			return fmt.Errorf("conflicting content-length: %w", status.ErrMalformedHeader)
		}

		fields.ContentLength, fields.HasContentLength = length, true
	case "content-type":
		fields.ContentType = value
	}

	return nil
}

// parseUint is a strict strconv.ParseInt: no signs, no spaces, digits only.
func parseUint(raw string) (num int64, err error) {
	if len(raw) == 0 {
		return 0, errDigits
	}

	for i := 0; i < len(raw); i++ {
		digit := raw[i] - '0'
		if digit > 9 {
			return 0, errDigits
		}

		if num > (math.MaxInt64-int64(digit))/10 {
			return 0, errDigits
		}

		num = num*10 + int64(digit)
	}

	return num, nil
}
