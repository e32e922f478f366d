package api

import (
	"context"
	"mime"
	"net/http"
	"strings"

	"github.com/ka2n/oembed/api/cache"
	"github.com/ka2n/oembed/api/discovery"
	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/provider"
	"github.com/ka2n/oembed/api/response"
	"github.com/ka2n/oembed/log"
	"github.com/morikuni/failure/v2"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds parallel requests in GetAll
const DefaultConcurrency = 4

// Options holds per-request settings
type Options struct {
	// Format overrides the provider's preferred format
	Format    format.Format
	MaxWidth  int
	MaxHeight int

	// Provider skips registry lookup
	Provider *provider.Provider

	// Discover falls back to link discovery when no provider matches
	Discover bool

	// ForceUpdate bypasses cached bodies
	ForceUpdate bool
}

func (o Options) query() provider.Query {
	return provider.Query{Format: o.Format, MaxWidth: o.MaxWidth, MaxHeight: o.MaxHeight}
}

// Client fetches oEmbed responses
type Client struct {
	registry    *provider.Registry
	fetcher     Fetcher
	httpClient  *http.Client
	cache       *cache.Cache[FetchResult]
	concurrency int
}

// Option configures a Client
type Option func(*Client)

// WithRegistry sets the provider registry
func WithRegistry(r *provider.Registry) Option {
	return func(c *Client) { c.registry = r }
}

// WithFetcher sets the fetcher used for provider requests
func WithFetcher(f Fetcher) Option {
	return func(c *Client) { c.fetcher = f }
}

// WithHTTPClient sets the client used for provider requests and discovery
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithCache stores fetched bodies in ch, keyed by request URL
func WithCache(ch *cache.Cache[FetchResult]) Option {
	return func(c *Client) { c.cache = ch }
}

// WithConcurrency sets how many requests GetAll runs at once
func WithConcurrency(n int) Option {
	return func(c *Client) { c.concurrency = n }
}

// NewClient creates a client. Without options it uses the built-in providers,
// an HTTPFetcher and no cache.
func NewClient(opts ...Option) *Client {
	c := &Client{concurrency: DefaultConcurrency}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = provider.DefaultRegistry()
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(c.httpClient)
	}
	if c.httpClient == nil {
		if hf, ok := c.fetcher.(*HTTPFetcher); ok {
			c.httpClient = hf.Client
		} else {
			c.httpClient = &http.Client{Transport: log.Transport(), Timeout: DefaultTimeout}
		}
	}
	if c.concurrency < 1 {
		c.concurrency = 1
	}
	return c
}

// Registry returns the client's provider registry
func (c *Client) Registry() *provider.Registry {
	return c.registry
}

// Resolve returns the provider serving consumerURL. With opts.Discover, a URL
// no registered provider serves is looked up through its page's link tags.
func (c *Client) Resolve(ctx context.Context, consumerURL string, opts Options) (*provider.Provider, error) {
	if opts.Provider != nil {
		return opts.Provider, nil
	}

	p, err := c.registry.Find(consumerURL)
	if err == nil || !opts.Discover || !failure.Is(err, provider.ErrNotFound) {
		return p, err
	}

	log.Debug("no registered provider, trying discovery", "url", consumerURL)
	link, derr := discovery.Discover(ctx, c.httpClient, consumerURL)
	if derr != nil {
		return nil, derr
	}
	return link.Provider(consumerURL), nil
}

// Get fetches the oEmbed response for consumerURL.
func (c *Client) Get(ctx context.Context, consumerURL string, opts Options) (*response.Response, error) {
	p, err := c.Resolve(ctx, consumerURL, opts)
	if err != nil {
		return nil, err
	}

	endpoint, f, err := p.BuildURL(consumerURL, opts.query())
	if err != nil {
		return nil, err
	}

	res, err := c.fetch(ctx, endpoint, opts.ForceUpdate)
	if err != nil {
		return nil, err
	}

	if hinted := formatOf(res.ContentType); hinted != format.None && hinted != f {
		log.Debug("content type does not match requested format",
			"endpoint", endpoint,
			"content_type", res.ContentType,
			"format", f.String(),
		)
	}

	return response.CreateFor(res.Body, p, endpoint, f)
}

// Result is the outcome of one URL in GetAll
type Result struct {
	URL      string
	Response *response.Response
	Err      error
}

// GetAll fetches every URL with bounded concurrency. Results keep the order
// of urls; a failing URL does not stop the others.
func (c *Client) GetAll(ctx context.Context, urls []string, opts Options) []Result {
	results := make([]Result, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			resp, err := c.Get(ctx, u, opts)
			results[i] = Result{URL: u, Response: resp, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (c *Client) fetch(ctx context.Context, endpoint string, forceUpdate bool) (FetchResult, error) {
	if c.cache == nil {
		return c.fetcher.Fetch(ctx, endpoint)
	}
	return c.cache.GetOrSet(endpoint, func() (FetchResult, error) {
		return c.fetcher.Fetch(ctx, endpoint)
	}, forceUpdate)
}

// formatOf maps a Content-Type to the format it announces
func formatOf(contentType string) format.Format {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return format.None
	}
	_, subtype, _ := strings.Cut(mt, "/")
	// application/json, application/json+oembed, application/vnd.api+json
	for _, part := range strings.Split(subtype, "+") {
		switch part {
		case "json":
			return format.JSON
		case "xml":
			return format.XML
		}
	}
	return format.None
}
