package format

// ErrorCode defines error types for response parsing
type ErrorCode string

const (
	// ErrFormatNotSupported is returned for any format other than json or xml
	ErrFormatNotSupported ErrorCode = "FormatNotSupported"

	// ErrParse is returned when a body does not parse under its declared format
	ErrParse ErrorCode = "ParseError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
