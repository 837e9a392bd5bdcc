package http

type state uint8

const (
	accepted state = iota
	lineParsed
	headersParsed
	uriNormalized
	dispatched
	closed
)

func (s state) String() string {
	switch s {
	case accepted:
		return "ACCEPTED"
	case lineParsed:
		return "LINE_PARSED"
	case headersParsed:
		return "HEADERS_PARSED"
	case uriNormalized:
		return "URI_NORMALIZED"
	case dispatched:
		return "DISPATCHED"
	case closed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}
