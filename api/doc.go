// Package api fetches oEmbed responses for consumer URLs.
//
// A Client resolves the provider serving a URL, builds the provider request,
// fetches it through a Fetcher and turns the body into a response.Response.
package api

// ErrorCode defines error types for API operations
type ErrorCode string

const (
	// ErrNotFound represents a 404 from the provider
	ErrNotFound ErrorCode = "ResourceNotFound"
	// ErrUnauthorized represents a 401 or 403 from the provider
	ErrUnauthorized ErrorCode = "Unauthorized"
	// ErrUnknownFormat represents a 501: the provider cannot serve the requested format
	ErrUnknownFormat ErrorCode = "UnknownFormat"
	// ErrUnknownResponse represents any other non-success status
	ErrUnknownResponse ErrorCode = "UnknownResponse"
	// ErrFetch represents transport errors
	ErrFetch ErrorCode = "FetchError"
)

func (c ErrorCode) ErrorCode() string {
	return string(c)
}
