package builtin

import (
	"io"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/minicat/http"
	"github.com/indigo-web/minicat/http/cookie"
	"github.com/indigo-web/minicat/http/mime"
	"github.com/indigo-web/minicat/router/servlet"
	"github.com/rs/zerolog"
)

// SessionCookie is the name of the cookie carrying the session id.
const SessionCookie = "jsessionid"

// Register adds all the demo servlets to the registry.
func Register(registry *servlet.Registry, log zerolog.Logger) error {
	for name, factory := range map[string]servlet.Factory{
		"PrimitiveServlet": func() servlet.Servlet { return &Primitive{log: log} },
		"Echo":             servlet.Of(servlet.Func(Echo)),
		"Headers":          servlet.Of(servlet.Func(Headers)),
		"Session":          servlet.Of(servlet.Func(Session)),
	} {
		if err := registry.Register(name, factory); err != nil {
			return err
		}
	}

	return nil
}

// Primitive is the simplest servlet possible, writing a couple of lines of text.
type Primitive struct {
	log zerolog.Logger
}

func (p *Primitive) Init() error {
	p.log.Debug().Str("servlet", "PrimitiveServlet").Msg("init")
	return nil
}

func (p *Primitive) Service(_ *http.Request, response *http.Response) error {
	p.log.Debug().Str("servlet", "PrimitiveServlet").Msg("from service")

	w := response.Writer()
	if err := w.Println("Hello. Roses are red."); err != nil {
		return err
	}

	return w.Print("Violets are blue.")
}

func (p *Primitive) Destroy() {
	p.log.Debug().Str("servlet", "PrimitiveServlet").Msg("destroy")
}

// Echo describes the request back as plain text: the request line, the headers, the
// session and the body.
func Echo(request *http.Request, response *http.Response) error {
	if err := response.ContentType(mime.Plain); err != nil {
		return err
	}

	w := response.Writer()
	target := request.URI()
	if query, ok := request.QueryString(); ok {
		target += "?" + query
	}

	if err := w.Println(request.Method(), target, request.Protocol()); err != nil {
		return err
	}

	for name, value := range request.Headers() {
		if err := w.Printf("%s: %s\n", name, value); err != nil {
			return err
		}
	}

	if id := request.SessionID(); len(id) > 0 {
		if err := w.Printf("session: %s (cookie: %t, url: %t)\n",
			id, request.SessionIDFromCookie(), request.SessionIDFromURL(),
		); err != nil {
			return err
		}
	}

	if err := w.Println(); err != nil {
		return err
	}

	_, err := io.Copy(response, request.Body())
	return err
}

// Headers responds with the request headers as a JSON object, mapping lower-cased names
// to the lists of their values.
func Headers(request *http.Request, response *http.Response) error {
	headers := make(map[string][]string)
	for name, value := range request.Headers() {
		headers[name] = append(headers[name], value)
	}

	return response.JSON(headers)
}

// Session reports the requested session id. If there is none, a new one is issued and
// set as a cookie.
func Session(request *http.Request, response *http.Response) error {
	if err := response.ContentType(mime.Plain); err != nil {
		return err
	}

	if id := request.SessionID(); len(id) > 0 {
		source := "url"
		if request.SessionIDFromCookie() {
			source = "cookie"
		}

		return response.String("session " + id + " from " + source + "\n")
	}

	id := uniuri.NewLen(32)
	err := response.Cookie(cookie.Build(SessionCookie, id).
		Path("/").
		HttpOnly(true).
		SameSite(cookie.SameSiteLax).
		Cookie(),
	)
	if err != nil {
		return err
	}

	return response.String("new session " + id + "\n")
}
