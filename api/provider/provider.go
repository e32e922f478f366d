package provider

import (
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/pattern"
	"github.com/morikuni/failure/v2"
)

// FormatPlaceholder is replaced by the format name when building an endpoint
const FormatPlaceholder = "{format}"

// Provider is an oEmbed endpoint together with the URL schemes it serves.
//
// Patterns are only added during setup. Matching against a Provider whose
// patterns are still being added is not safe for concurrent use.
type Provider struct {
	// Name identifies the provider in listings and logs
	Name string

	// Endpoint is the endpoint template; it may contain FormatPlaceholder
	Endpoint string

	// Format is the preferred response format; format.None means json
	Format format.Format

	// RequiredParams are added to every request URL (e.g. an access token)
	RequiredParams map[string]string

	patterns []*pattern.Matcher
}

// New creates a provider for the given endpoint template and preferred format.
func New(endpoint string, f format.Format) *Provider {
	return &Provider{
		Name:     hostOf(endpoint),
		Endpoint: endpoint,
		Format:   f,
	}
}

// AddPattern registers another URL scheme served by the provider.
func (p *Provider) AddPattern(scheme string) *Provider {
	p.patterns = append(p.patterns, pattern.Compile(scheme))
	return p
}

// Patterns returns the registered URL schemes in order
func (p *Provider) Patterns() []string {
	out := make([]string, len(p.patterns))
	for i, m := range p.patterns {
		out[i] = m.String()
	}
	return out
}

// Matches reports whether any scheme covers url.
// A provider without schemes matches nothing.
func (p *Provider) Matches(url string) bool {
	return slices.ContainsFunc(p.patterns, func(m *pattern.Matcher) bool {
		return m.Matches(url)
	})
}

// Preferred returns the format to request when the caller has no preference
func (p *Provider) Preferred() format.Format {
	if p.Format == format.None {
		return format.JSON
	}
	return p.Format
}

// BuildEndpoint returns the endpoint with the format placeholder substituted.
func (p *Provider) BuildEndpoint(f format.Format) string {
	return strings.ReplaceAll(p.Endpoint, FormatPlaceholder, f.String())
}

// Query holds optional request parameters
type Query struct {
	// Format overrides the provider's preferred format
	Format    format.Format
	MaxWidth  int
	MaxHeight int
}

// BuildURL builds the request URL for consumerURL and reports the format
// that was requested.
func (p *Provider) BuildURL(consumerURL string, q Query) (string, format.Format, error) {
	if !p.Matches(consumerURL) {
		return "", format.None, failure.New(ErrNotFound,
			failure.Message("No provider scheme matches the URL"),
			failure.Context{"url": consumerURL, "provider": p.Name},
		)
	}

	f := q.Format
	if f == format.None {
		f = p.Preferred()
	}
	if !f.Supported() {
		return "", format.None, failure.New(format.ErrFormatNotSupported,
			failure.Message("Response format is not supported; use json or xml"),
			failure.Context{"format": f.String(), "provider": p.Name},
		)
	}

	values := url.Values{}
	for k, v := range p.RequiredParams {
		values.Set(k, v)
	}
	values.Set("url", consumerURL)
	if !strings.Contains(p.Endpoint, FormatPlaceholder) {
		values.Set("format", f.String())
	}
	if q.MaxWidth > 0 {
		values.Set("maxwidth", strconv.Itoa(q.MaxWidth))
	}
	if q.MaxHeight > 0 {
		values.Set("maxheight", strconv.Itoa(q.MaxHeight))
	}

	endpoint := p.BuildEndpoint(f)
	sep := "?"
	if strings.Contains(endpoint, "?") {
		sep = "&"
	}
	return endpoint + sep + values.Encode(), f, nil
}

func hostOf(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Hostname()
}
