// Package discovery finds oEmbed endpoints advertised by HTML pages.
//
// Pages announce their endpoint with a link element in the head:
//
//	<link rel="alternate" type="application/json+oembed" href="...">
//
// JSON links are preferred over XML ones.
package discovery

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/provider"
	"github.com/morikuni/failure/v2"
	"golang.org/x/net/html"
)

type ErrorCode string

const (
	// ErrFetch represents errors while retrieving the page
	ErrFetch ErrorCode = "DiscoveryFetchError"
	// ErrNoEndpoint represents pages that advertise no oEmbed endpoint
	ErrNoEndpoint ErrorCode = "NoOEmbedEndpoint"
)

var linkTypes = map[string]format.Format{
	"application/json+oembed": format.JSON,
	"text/json+oembed":        format.JSON,
	"text/xml+oembed":         format.XML,
	"application/xml+oembed":  format.XML,
}

// Link is an advertised oEmbed endpoint
type Link struct {
	// Href is the absolute request URL, including the url parameter
	Href   string
	Format format.Format
	Title  string
}

// Provider returns an ad hoc provider serving exactly pageURL through l.
// Query parameters of the link other than the standard oEmbed ones are kept
// as required parameters.
func (l Link) Provider(pageURL string) *provider.Provider {
	endpoint, rawQuery, _ := strings.Cut(l.Href, "?")
	p := provider.New(endpoint, l.Format).AddPattern(pageURL)

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return p
	}
	for k := range q {
		switch k {
		case "url", "format", "maxwidth", "maxheight":
			continue
		}
		if p.RequiredParams == nil {
			p.RequiredParams = map[string]string{}
		}
		p.RequiredParams[k] = q.Get(k)
	}
	return p
}

// Discover fetches pageURL and returns its preferred oEmbed link.
func Discover(ctx context.Context, client *http.Client, pageURL string) (Link, error) {
	if client == nil {
		client = http.DefaultClient
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return Link{}, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Message("Failed to parse page URL"),
			failure.Context{"url": pageURL})
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Link{}, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Context{"url": pageURL})
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := client.Do(req)
	if err != nil {
		return Link{}, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Message("Failed to fetch page for oEmbed discovery"),
			failure.Context{"url": pageURL})
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Link{}, failure.New(ErrFetch,
			failure.Message("Page for oEmbed discovery returned an error"),
			failure.Context{"url": pageURL, "status": resp.Status})
	}

	// resolve relative hrefs against the final URL after redirects
	links, err := FindLinks(resp.Body, resp.Request.URL)
	if err != nil {
		return Link{}, err
	}
	return preferred(links, pageURL)
}

// FindLinks returns every oEmbed link in the document, in document order.
func FindLinks(r io.Reader, base *url.URL) ([]Link, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, failure.Wrap(err, failure.WithCode(ErrFetch),
			failure.Message("Failed to parse HTML page"))
	}

	var links []Link
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "link" {
			if l, ok := linkFrom(n, base); ok {
				links = append(links, l)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return links, nil
}

func linkFrom(n *html.Node, base *url.URL) (Link, bool) {
	var rel, typ, href, title string
	for _, attr := range n.Attr {
		switch strings.ToLower(attr.Key) {
		case "rel":
			rel = attr.Val
		case "type":
			typ = attr.Val
		case "href":
			href = attr.Val
		case "title":
			title = attr.Val
		}
	}

	f, ok := linkTypes[strings.ToLower(strings.TrimSpace(typ))]
	if !ok || href == "" || !hasToken(rel, "alternate") {
		return Link{}, false
	}

	u, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return Link{}, false
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	return Link{Href: u.String(), Format: f, Title: title}, true
}

func hasToken(list, token string) bool {
	for _, t := range strings.Fields(list) {
		if strings.EqualFold(t, token) {
			return true
		}
	}
	return false
}

func preferred(links []Link, pageURL string) (Link, error) {
	for _, f := range []format.Format{format.JSON, format.XML} {
		for _, l := range links {
			if l.Format == f {
				return l, nil
			}
		}
	}
	return Link{}, failure.New(ErrNoEndpoint,
		failure.Message("Page does not advertise an oEmbed endpoint"),
		failure.Context{"url": pageURL})
}
