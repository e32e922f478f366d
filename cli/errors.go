package cli

// ErrorCode defines error types for CLI operations
type ErrorCode string

const (
	NoURLSpecified    ErrorCode = "NoURLSpecified"
	InvalidFormatFlag ErrorCode = "InvalidFormatFlag"
	InvalidSizeFlag   ErrorCode = "InvalidSizeFlag"
	ProviderNotFound  ErrorCode = "ProviderNotFound"
	SomeURLsFailed    ErrorCode = "SomeURLsFailed"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
