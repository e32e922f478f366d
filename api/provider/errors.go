package provider

type ErrorCode string

const (
	// ErrNotFound represents errors when no provider serves a URL
	ErrNotFound ErrorCode = "ProviderNotFound"

	// ErrInvalidConfig represents errors in a provider list file
	ErrInvalidConfig ErrorCode = "InvalidProviderConfig"
)
