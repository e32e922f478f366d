package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/ka2n/oembed/log"
	"github.com/morikuni/failure/v2"
)

// MaxRedirects is the number of redirects HTTPFetcher follows
const MaxRedirects = 4

// DefaultTimeout bounds a single provider request
var DefaultTimeout = 15 * time.Second

// maxBodySize caps provider bodies; oEmbed responses are small
const maxBodySize = 4 << 20

// FetchResult is a provider body together with its Content-Type hint
type FetchResult struct {
	Body        string
	ContentType string
}

// Fetcher retrieves the body behind an oEmbed request URL
type Fetcher interface {
	Fetch(ctx context.Context, endpoint string) (FetchResult, error)
}

// HTTPFetcher fetches over HTTP
type HTTPFetcher struct {
	Client    *http.Client
	UserAgent string
}

var errTooManyRedirects = errors.New("too many redirects")

// NewHTTPFetcher returns a fetcher whose requests go through the logging
// transport. A nil client gets one with DefaultTimeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{
			Transport: log.Transport(),
			Timeout:   DefaultTimeout,
		}
	}
	if client.CheckRedirect == nil {
		// copy, the caller's client is shared with discovery
		c := *client
		client = &c
		client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			if len(via) > MaxRedirects {
				return errTooManyRedirects
			}
			return nil
		}
	}
	return &HTTPFetcher{
		Client:    client,
		UserAgent: UserAgent(),
	}
}

// Fetch implements Fetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, endpoint string) (FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return FetchResult{}, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Context{"endpoint": endpoint})
	}
	req.Header.Set("Accept", "application/json, text/xml;q=0.9, */*;q=0.1")
	if f.UserAgent != "" {
		req.Header.Set("User-Agent", f.UserAgent)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return FetchResult{}, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Message("Failed to reach the oEmbed provider"),
			failure.Context{"endpoint": endpoint})
	}
	defer resp.Body.Close()

	if err := statusError(resp, endpoint); err != nil {
		return FetchResult{}, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return FetchResult{}, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Message("Failed to read the oEmbed response"),
			failure.Context{"endpoint": endpoint})
	}

	return FetchResult{
		Body:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func statusError(resp *http.Response, endpoint string) error {
	ctx := failure.Context{"endpoint": endpoint, "status": resp.Status}
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return failure.New(ErrNotFound,
			failure.Message("The provider has no response for this URL"), ctx)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return failure.New(ErrUnauthorized,
			failure.Message("The provider refused to embed this URL"), ctx)
	case resp.StatusCode == http.StatusNotImplemented:
		return failure.New(ErrUnknownFormat,
			failure.Message("The provider cannot return the requested format"), ctx)
	default:
		return failure.New(ErrUnknownResponse,
			failure.Message("Unexpected response from the oEmbed provider"), ctx)
	}
}
