package cli

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	html2md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/charmbracelet/glamour"
	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/response"
	"github.com/ka2n/oembed/log"
	"github.com/mackee/go-readability"
	"github.com/morikuni/failure/v2"
	"github.com/samber/lo"
	"github.com/tidwall/pretty"
)

// summaryKeys are shown in the header of the markdown summary; every other
// field goes to the field table.
var summaryKeys = []string{"title", "type", "author_name", "author_url", "provider_name", "provider_url", "thumbnail_url", "html"}

// Markdown renders resp as a markdown document
func Markdown(resp *response.Response) string {
	var b strings.Builder

	title := resp.Field("title")
	if title == "" {
		title = resp.RequestURL()
	}
	if title == "" {
		title = providerName(resp)
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	if t := resp.Type(); t != "" {
		fmt.Fprintf(&b, "*%s*", t)
	}
	if author := resp.Field("author_name"); author != "" {
		fmt.Fprintf(&b, " by %s", link(author, resp.Field("author_url")))
	}
	provider := resp.Field("provider_name")
	if provider == "" {
		provider = providerName(resp)
	}
	fmt.Fprintf(&b, " on %s\n\n", link(provider, resp.Field("provider_url")))

	if thumb := resp.Field("thumbnail_url"); thumb != "" {
		fmt.Fprintf(&b, "![thumbnail](%s)\n\n", thumb)
	}

	if html, ok := resp.HTML(); ok && html != "" {
		b.WriteString("## Embed\n\n")
		if md := embedMarkdown(html, resp.Field("provider_url")); md != "" {
			b.WriteString(md)
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "```html\n%s\n```\n\n", html)
	}

	b.WriteString("## Fields\n\n| key | value |\n| --- | --- |\n")
	for key, value := range resp.Fields().All() {
		if lo.Contains(summaryKeys, key) {
			continue
		}
		fmt.Fprintf(&b, "| %s | %s |\n", key, cell(format.Stringify(value)))
	}

	fmt.Fprintf(&b, "\nFetched as %s from %s\n", resp.Format(), resp.RequestURL())
	return b.String()
}

// WritePlain writes every field as a key: value line, in response order
func WritePlain(w io.Writer, resp *response.Response) {
	for key, value := range resp.Fields().All() {
		fmt.Fprintf(w, "%s: %s\n", key, format.Stringify(value))
	}
	if _, has := resp.Fields().Value("html"); !has {
		if html, ok := resp.HTML(); ok {
			fmt.Fprintf(w, "html: %s\n", html)
		}
	}
}

// RawJSON returns the fields as indented JSON, colored for terminals
func RawJSON(resp *response.Response, color bool) ([]byte, error) {
	b, err := resp.Fields().MarshalJSON()
	if err != nil {
		return nil, failure.Wrap(err)
	}
	b = pretty.Pretty(b)
	if color {
		b = pretty.Color(b, nil)
	}
	return b, nil
}

// RenderTerminal renders markdown for the terminal
func RenderTerminal(md string) (string, error) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", failure.Wrap(err)
	}
	out, err := renderer.Render(md)
	if err != nil {
		return "", failure.Wrap(err)
	}
	return out, nil
}

// BrowseURL is the address opened by --browser: the photo itself for photo
// responses, the consumer URL otherwise.
func BrowseURL(resp *response.Response) string {
	if resp.Type() == response.TypePhoto {
		if u := resp.Field("url"); u != "" {
			return u
		}
	}
	if u, err := url.Parse(resp.RequestURL()); err == nil {
		if consumer := u.Query().Get("url"); consumer != "" {
			return consumer
		}
	}
	return resp.RequestURL()
}

// embedMarkdown converts embed HTML to markdown. Readability is tried first
// for rich blocks; small snippets such as a bare iframe fall through to
// html-to-markdown.
func embedMarkdown(html, providerURL string) string {
	article, err := readability.Extract(html, readability.DefaultOptions())
	if err == nil && article.Root != nil {
		if md := strings.TrimSpace(readability.ToMarkdown(article.Root)); md != "" {
			return md
		}
	}

	domain := ""
	if u, err := url.Parse(providerURL); err == nil {
		domain = u.Host
	}
	converter := html2md.NewConverter(domain, true, &html2md.Options{})
	md, err := converter.ConvertString(html)
	if err != nil {
		log.Debug("failed to convert embed html", "error", err)
		return ""
	}
	return strings.TrimSpace(md)
}

func link(text, href string) string {
	if href == "" {
		return text
	}
	return fmt.Sprintf("[%s](%s)", text, href)
}

func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

func providerName(resp *response.Response) string {
	if p := resp.Provider(); p != nil {
		return p.Name
	}
	return "unknown provider"
}
