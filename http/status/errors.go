package status

import "errors"

// HTTPError is an error carrying the status code the peer should see, if anything is
// going to be sent at all.
type HTTPError struct {
	Message string
	Code    Code
}

func NewError(code Code, message string) error {
	return HTTPError{
		Code:    code,
		Message: message,
	}
}

func (h HTTPError) Error() string {
	return h.Message
}

// Per-connection failures. None of them is allowed to leave the connection worker.
var (
	ErrConnectionClosed     = NewError(CloseConnection, "connection closed by peer")
	ErrLineTooLong          = NewError(BadRequest, "line is too long")
	ErrMalformedRequestLine = NewError(BadRequest, "malformed request line")
	ErrMalformedHeader      = NewError(BadRequest, "malformed header")
	ErrTooManyHeaders       = NewError(RequestHeaderFieldsTooLarge, "too many headers")
	ErrInvalidRequestURI    = NewError(BadRequest, "invalid request URI")
	ErrHandlerResolution    = NewError(NotFound, "no handler found")
	ErrHandlerExecution     = NewError(InternalServerError, "handler failed")
	ErrNotFound             = NewError(NotFound, "not found")
	ErrInternalServerError  = NewError(InternalServerError, "internal server error")
	ErrCommitted            = NewError(InternalServerError, "response is already committed")
	ErrInvalidHeader        = NewError(InternalServerError, "invalid response header")
	ErrURLDecoding          = NewError(BadRequest, "invalid urlencoded sequence")
	ErrURITooLong           = NewError(RequestURITooLong, "request line is too long")
	ErrHeaderFieldsTooLarge = NewError(RequestHeaderFieldsTooLarge, "header line is too long")
)

// CodeOf extracts the status code from the error, falling back to 500 Internal Server Error
// for errors not originating from this package.
func CodeOf(err error) Code {
	var httpErr HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code
	}

	return InternalServerError
}
