package render

import (
	"strconv"
	"time"

	"github.com/indigo-web/minicat/http/cookie"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/internal/response"
)

const protocol = "HTTP/1.1 "

// Head appends the status line, the headers and the terminating empty line.
func Head(buff []byte, fields *response.Fields) []byte {
	buff = append(buff, protocol...)
	buff = strconv.AppendUint(buff, uint64(fields.Code), 10)
	buff = append(buff, ' ')
	if len(fields.Status) > 0 {
		buff = append(buff, fields.Status...)
	} else {
		buff = append(buff, status.Text(fields.Code)...)
	}
	buff = crlf(buff)

	for key, value := range fields.Headers.Pairs() {
		buff = header(buff, key, value)
	}

	if len(fields.ContentType) > 0 {
		buff = header(buff, "Content-Type", fields.ContentType)
	}

	if fields.ContentLength >= 0 {
		buff = append(buff, "Content-Length: "...)
		buff = strconv.AppendInt(buff, fields.ContentLength, 10)
		buff = crlf(buff)
	}

	for _, c := range fields.Cookies {
		buff = setCookie(buff, c)
	}

	return crlf(buff)
}

func header(buff []byte, key, value string) []byte {
	buff = append(buff, key...)
	buff = append(buff, ':', ' ')
	buff = append(buff, value...)
	return crlf(buff)
}

var zoneGMT = time.FixedZone("GMT", 0)

func setCookie(buff []byte, c cookie.Cookie) []byte {
	buff = append(buff, "Set-Cookie: "...)
	buff = append(buff, c.Name...)
	buff = append(buff, '=')
	buff = append(buff, c.Value...)

	if len(c.Path) > 0 {
		buff = append(buff, "; Path="...)
		buff = append(buff, c.Path...)
	}

	if len(c.Domain) > 0 {
		buff = append(buff, "; Domain="...)
		buff = append(buff, c.Domain...)
	}

	if !c.Expires.IsZero() {
		buff = append(buff, "; Expires="...)
		buff = c.Expires.In(zoneGMT).AppendFormat(buff, time.RFC1123)
	}

	if c.MaxAge != 0 {
		buff = append(buff, "; Max-Age="...)
		if c.MaxAge > 0 {
			buff = strconv.AppendInt(buff, int64(c.MaxAge), 10)
		} else {
			buff = append(buff, '0')
		}
	}

	if len(c.SameSite) > 0 {
		buff = append(buff, "; SameSite="...)
		buff = append(buff, c.SameSite...)
	}

	if c.Secure {
		buff = append(buff, "; Secure"...)
	}

	if c.HttpOnly {
		buff = append(buff, "; HttpOnly"...)
	}

	return crlf(buff)
}

func crlf(buff []byte) []byte {
	return append(buff, '\r', '\n')
}
