package cookie

import "time"

// Cookie is a single Set-Cookie entry of a response. Zero-valued attributes are omitted
// when rendered.
type Cookie struct {
	Name    string
	Value   string
	Path    string
	Domain  string
	Expires time.Time
	// MaxAge is in seconds. Zero means the attribute is absent, so a negative value is
	// how Max-Age=0 is requested.
	MaxAge   int
	SameSite SameSite
	Secure   bool
	HttpOnly bool
}

func New(name, value string) Cookie {
	return Cookie{Name: name, Value: value}
}

// Builder sets the attributes the container itself relies on. Anything else is set on
// the Cookie fields directly.
type Builder struct {
	cookie Cookie
}

func Build(name, value string) Builder {
	return Builder{New(name, value)}
}

func (b Builder) Path(path string) Builder {
	b.cookie.Path = path
	return b
}

func (b Builder) HttpOnly(httpOnly bool) Builder {
	b.cookie.HttpOnly = httpOnly
	return b
}

func (b Builder) SameSite(mode SameSite) Builder {
	b.cookie.SameSite = mode
	return b
}

func (b Builder) Cookie() Cookie {
	return b.cookie
}

type SameSite = string

const (
	SameSiteLax    SameSite = "Lax"
	SameSiteStrict SameSite = "Strict"
)
