package mcp

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/ka2n/oembed/api"
	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/provider"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"
	"github.com/morikuni/failure/v2"
)

var validate = validator.New()

func InitTools(client *api.Client) []server.ServerTool {
	tools := []server.ServerTool{}

	tools = append(tools, newServerTool(FetchOEmbed(client)))
	tools = append(tools, newServerTool(FindProvider(client)))

	return tools
}

// ResponseInfo is the fetch_oembed result
type ResponseInfo struct {
	Type       string          `json:"type,omitempty"`
	Provider   string          `json:"provider"`
	Format     string          `json:"format"`
	RequestURL string          `json:"request_url"`
	HTML       string          `json:"html,omitempty"`
	Fields     json.RawMessage `json:"fields"`
}

// ProviderInfo is the find_provider result
type ProviderInfo struct {
	Name     string   `json:"name"`
	Endpoint string   `json:"endpoint"`
	Format   string   `json:"format"`
	Patterns []string `json:"patterns"`
}

func FetchOEmbed(client *api.Client) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"fetch_oembed",
			mcp.WithDescription("Fetch the oEmbed response for a URL: title, author, thumbnail, embed HTML and every other field the provider returns"),
			mcp.WithString("url", mcp.Required(), mcp.Description("URL of the resource to embed")),
			mcp.WithString("format", mcp.Description("Response format to request (json or xml)")),
			mcp.WithNumber("maxwidth", mcp.Description("Maximum width of the embedded resource")),
			mcp.WithNumber("maxheight", mcp.Description("Maximum height of the embedded resource")),
			mcp.WithBoolean("discover", mcp.Description("Look for oEmbed link tags when no provider matches the URL")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				URL       string `mapstructure:"url" validate:"required,url"`
				Format    string `mapstructure:"format" validate:"omitempty,oneof=json xml JSON XML"`
				MaxWidth  int    `mapstructure:"maxwidth" validate:"gte=0"`
				MaxHeight int    `mapstructure:"maxheight" validate:"gte=0"`
				Discover  bool   `mapstructure:"discover"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			opts := api.Options{
				MaxWidth:  args.MaxWidth,
				MaxHeight: args.MaxHeight,
				Discover:  args.Discover,
			}
			if args.Format != "" {
				f, err := format.Lookup(args.Format)
				if err != nil {
					return mcp.NewToolResultError(errorText(err)), nil
				}
				opts.Format = f
			}

			resp, err := client.Get(ctx, args.URL, opts)
			if err != nil {
				return mcp.NewToolResultError(errorText(err)), nil
			}

			fields, err := resp.Fields().MarshalJSON()
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			info := ResponseInfo{
				Type:       string(resp.Type()),
				Provider:   resp.Provider().Name,
				Format:     resp.Format().String(),
				RequestURL: resp.RequestURL(),
				Fields:     fields,
			}
			if html, ok := resp.HTML(); ok {
				info.HTML = html
			}

			b, err := json.Marshal(info)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}

func FindProvider(client *api.Client) (tool mcp.Tool, handler server.ToolHandlerFunc) {
	return mcp.NewTool(
			"find_provider",
			mcp.WithDescription("Find the oEmbed provider serving a URL without fetching it"),
			mcp.WithString("url", mcp.Required(), mcp.Description("URL of the resource to embed")),
		), func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			type ToolArguments struct {
				URL string `mapstructure:"url" validate:"required"`
			}
			var args ToolArguments
			if err := mapstructure.Decode(req.Params.Arguments, &args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			if err := validate.StructCtx(ctx, args); err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			p, err := client.Registry().Find(args.URL)
			if err != nil {
				return mcp.NewToolResultError(errorText(err)), nil
			}

			b, err := json.Marshal(providerInfo(p))
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}

			return mcp.NewToolResultText(string(b)), nil
		}
}

func providerInfo(p *provider.Provider) ProviderInfo {
	return ProviderInfo{
		Name:     p.Name,
		Endpoint: p.Endpoint,
		Format:   p.Preferred().String(),
		Patterns: p.Patterns(),
	}
}

func errorText(err error) string {
	if msg := failure.MessageOf(err); msg != "" {
		return msg.String()
	}
	return err.Error()
}
