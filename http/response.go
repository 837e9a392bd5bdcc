package http

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/indigo-web/minicat/http/cookie"
	"github.com/indigo-web/minicat/http/mime"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/internal/render"
	"github.com/indigo-web/minicat/internal/response"
	"github.com/indigo-web/utils/strcomp"
	"github.com/indigo-web/utils/uf"
	json "github.com/json-iterator/go"
	"golang.org/x/net/http/httpguts"
)

// Response accumulates the status and the headers until the first body byte is written.
// After that it is committed, and the metadata can't be changed anymore. The body may be
// written either as raw bytes (Write) or as text (Writer), both end up in the same sink
// in the order they were issued.
type Response struct {
	fields    *response.Fields
	sink      io.Writer
	text      *TextWriter
	committed bool
	written   int64
}

// NewResponse returns a new Response with status code set to 200 OK and text/html
// content type, writing into the sink.
func NewResponse(sink io.Writer) *Response {
	resp := &Response{
		fields: response.New(),
		sink:   sink,
	}
	resp.text = &TextWriter{resp: resp}

	return resp
}

// Code sets the response code. The status text is reset to the default one for the code.
func (r *Response) Code(code status.Code) error {
	if r.committed {
		return status.ErrCommitted
	}

	r.fields.Code = code
	r.fields.Status = ""
	return nil
}

// Status sets the code together with a custom status text.
func (r *Response) Status(code status.Code, text status.Status) error {
	if err := r.Code(code); err != nil {
		return err
	}

	r.fields.Status = text
	return nil
}

// Header adds header values. Content-Type and Content-Length are redirected to
// the corresponding setters. Names and values are validated, so that no CR or LF
// ever reaches the wire.
func (r *Response) Header(key string, values ...string) error {
	if r.committed {
		return status.ErrCommitted
	}

	if err := validateHeader(key, values...); err != nil {
		return err
	}

	switch {
	case strcomp.EqualFold(key, "content-type"):
		if len(values) != 1 {
			return fmt.Errorf("content-type takes exactly one value: %w", status.ErrInvalidHeader)
		}

		return r.ContentType(values[0])
	case strcomp.EqualFold(key, "content-length"):
		return fmt.Errorf("content-length must be set via ContentLength: %w", status.ErrInvalidHeader)
	}

	for _, value := range values {
		r.fields.Headers.Add(key, value)
	}

	return nil
}

// SetHeader replaces all the values of the header.
func (r *Response) SetHeader(key, value string) error {
	if r.committed {
		return status.ErrCommitted
	}

	if err := validateHeader(key, value); err != nil {
		return err
	}

	r.fields.Headers.Set(key, value)
	return nil
}

// ContentType sets the Content-Type header. Empty value omits the header.
func (r *Response) ContentType(value mime.MIME) error {
	if r.committed {
		return status.ErrCommitted
	}

	if !httpguts.ValidHeaderFieldValue(value) {
		return fmt.Errorf("content-type: %w", status.ErrInvalidHeader)
	}

	r.fields.ContentType = value
	return nil
}

// ContentLength sets the Content-Length header. Negative values omit it.
func (r *Response) ContentLength(n int64) error {
	if r.committed {
		return status.ErrCommitted
	}

	r.fields.ContentLength = n
	return nil
}

// Cookie adds cookies. They'll be later rendered as a set of Set-Cookie headers
func (r *Response) Cookie(cookies ...cookie.Cookie) error {
	if r.committed {
		return status.ErrCommitted
	}

	for _, c := range cookies {
		if len(c.Name) == 0 || !httpguts.ValidHeaderFieldName(c.Name) {
			return fmt.Errorf("cookie name %q: %w", c.Name, status.ErrInvalidHeader)
		}

		for _, attr := range [...]string{c.Value, c.Path, c.Domain, c.SameSite} {
			if !httpguts.ValidHeaderFieldValue(attr) || strings.IndexByte(attr, ';') != -1 {
				return fmt.Errorf("cookie %s: %w", c.Name, status.ErrInvalidHeader)
			}
		}
	}

	r.fields.Cookies = append(r.fields.Cookies, cookies...)
	return nil
}

// StatusCode returns the currently set code.
func (r *Response) StatusCode() status.Code {
	return r.fields.Code
}

// Committed tells whether the response head was already sent.
func (r *Response) Committed() bool {
	return r.committed
}

// Written returns the number of body bytes sent so far.
func (r *Response) Written() int64 {
	return r.written
}

// Write implements io.Writer. The first call commits the response. Pending text is
// flushed in advance, so the ordering is preserved.
func (r *Response) Write(b []byte) (n int, err error) {
	if err = r.text.Flush(); err != nil {
		return 0, err
	}

	return r.write(b)
}

func (r *Response) write(b []byte) (n int, err error) {
	if !r.committed {
		r.committed = true
		head := render.Head(make([]byte, 0, 128+len(b)), r.fields)
		if _, err = r.sink.Write(append(head, b...)); err != nil {
			return 0, err
		}

		r.written += int64(len(b))
		return len(b), nil
	}

	if len(b) == 0 {
		return 0, nil
	}

	n, err = r.sink.Write(b)
	r.written += int64(n)
	return n, err
}

// Writer returns the text surface of the response. Lines are flushed as soon as they
// are terminated.
func (r *Response) Writer() *TextWriter {
	return r.text
}

// String writes the whole body at once, setting the Content-Length accordingly.
func (r *Response) String(body string) error {
	return r.Bytes(uf.S2B(body))
}

// Bytes does the same as String. Text pending in the Writer precedes the body, so it's
// counted in the Content-Length too.
func (r *Response) Bytes(body []byte) error {
	if err := r.ContentLength(int64(len(r.text.buff) + len(body))); err != nil {
		return err
	}

	_, err := r.Write(body)
	return err
}

// JSON serializes the model and writes it as the whole body.
func (r *Response) JSON(model any) error {
	body, err := json.ConfigCompatibleWithStandardLibrary.Marshal(model)
	if err != nil {
		return err
	}

	if err = r.ContentType(mime.JSON); err != nil {
		return err
	}

	return r.Bytes(body)
}

// Error writes a minimal plain-text response describing the error. Codes are taken from
// status.HTTPError, other errors result in 500 Internal Server Error, and their text is
// never exposed. Text pending in the Writer is discarded.
func (r *Response) Error(err error) error {
	code := status.CodeOf(err)
	if err = r.Code(code); err != nil {
		return err
	}

	r.text.buff = r.text.buff[:0]

	if err = r.ContentType(mime.Plain); err != nil {
		return err
	}

	return r.String(string(status.Text(code)) + "\n")
}

func validateHeader(key string, values ...string) error {
	if !httpguts.ValidHeaderFieldName(key) {
		return fmt.Errorf("header name %q: %w", key, status.ErrInvalidHeader)
	}

	for _, value := range values {
		if !httpguts.ValidHeaderFieldValue(value) {
			return fmt.Errorf("header %s value: %w", key, status.ErrInvalidHeader)
		}
	}

	return nil
}

// Finish flushes the pending text and commits the response, if nothing was written yet.
func (r *Response) Finish() error {
	if err := r.text.Flush(); err != nil {
		return err
	}

	if r.committed {
		return nil
	}

	if r.fields.ContentLength < 0 {
		r.fields.ContentLength = 0
	}

	_, err := r.write(nil)
	return err
}

// TextWriter is a line-oriented writer on top of the Response. Data is buffered until
// a line terminator is met or Flush is called explicitly.
type TextWriter struct {
	resp *Response
	buff []byte
}

// Write implements io.Writer.
func (w *TextWriter) Write(b []byte) (n int, err error) {
	w.buff = append(w.buff, b...)
	if bytes.IndexByte(b, '\n') != -1 {
		err = w.Flush()
	}

	return len(b), err
}

func (w *TextWriter) Print(a ...any) error {
	_, err := fmt.Fprint(w, a...)
	return err
}

func (w *TextWriter) Printf(format string, a ...any) error {
	_, err := fmt.Fprintf(w, format, a...)
	return err
}

func (w *TextWriter) Println(a ...any) error {
	_, err := fmt.Fprintln(w, a...)
	return err
}

// Flush sends the buffered text.
func (w *TextWriter) Flush() error {
	if len(w.buff) == 0 {
		return nil
	}

	_, err := w.resp.write(w.buff)
	w.buff = w.buff[:0]
	return err
}
