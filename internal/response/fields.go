package response

import (
	"github.com/indigo-web/minicat/http/cookie"
	"github.com/indigo-web/minicat/http/mime"
	"github.com/indigo-web/minicat/http/status"
	"github.com/indigo-web/minicat/kv"
)

const DefaultContentType = mime.HTML

// Fields is the response metadata, rendered into the response head once committed.
type Fields struct {
	Code        status.Code
	Status      status.Status
	ContentType string
	// ContentLength is negative when unknown. The body is delimited by closing the connection
	// then.
	ContentLength int64
	Headers       *kv.Storage
	Cookies       []cookie.Cookie
}

func New() *Fields {
	return &Fields{
		Code:          status.OK,
		ContentType:   DefaultContentType,
		ContentLength: -1,
		Headers:       kv.NewPrealloc(7),
	}
}
