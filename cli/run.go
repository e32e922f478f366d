package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/ka2n/oembed/api"
	"github.com/ka2n/oembed/api/cache"
	"github.com/ka2n/oembed/api/provider"
	"github.com/ka2n/oembed/api/response"
	"github.com/ka2n/oembed/log"
	"github.com/ka2n/oembed/mcp"
	"github.com/mattn/go-isatty"
	"github.com/morikuni/failure/v2"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

// EnvProviders names a provider list file loaded ahead of the built-in providers
const EnvProviders = "OEMBED_PROVIDERS"

var (
	// Command line flags
	formatFlagValue formatFlag
	maxWidthFlag    int
	maxHeightFlag   int
	providersFlag   string
	providerFlag    string
	discoverFlag    bool
	forceUpdateFlag bool
	rawFlag         bool
	browserFlag     bool
	noPagerFlag     bool

	// Root command
	rootCmd = &cobra.Command{
		Use:           "oembed [flags] URL...",
		Short:         "Fetch oEmbed responses for URLs",
		SilenceErrors: true,
		SilenceUsage:  true,
		Long: `oembed resolves the oEmbed provider for each URL, fetches its response and
displays the returned fields.

Providers come from a built-in list, optionally preceded by a YAML provider
file given with --providers or $OEMBED_PROVIDERS. With --discover, pages that
no provider serves are checked for <link rel="alternate"> oEmbed tags.`,
		Args: cobra.ArbitraryArgs,
		RunE: runRoot,
	}

	// Version command
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print detailed version information about oembed",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "oembed version %s\n", api.Version)
			if api.VersionCommit != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n", api.VersionCommit)
			}
		},
	}
)

func init() {
	flags := rootCmd.Flags()
	flags.VarP(&formatFlagValue, "format", "f", "Response format to request")
	flags.IntVar(&maxWidthFlag, "maxwidth", 0, "Maximum width of the embedded resource")
	flags.IntVar(&maxHeightFlag, "maxheight", 0, "Maximum height of the embedded resource")
	flags.StringVar(&providerFlag, "provider", "", "Use the named provider instead of matching URL schemes")
	flags.BoolVar(&discoverFlag, "discover", false, "Look for oEmbed link tags when no provider matches")
	flags.BoolVar(&forceUpdateFlag, "force-update", false, "Ignore cached responses")
	flags.BoolVar(&rawFlag, "raw", false, "Print the response fields as JSON")
	flags.BoolVarP(&browserFlag, "browser", "b", false, "Open the embedded resource in a browser")
	flags.BoolVar(&noPagerFlag, "no-pager", false, "Write to stdout without the pager")

	rootCmd.PersistentFlags().StringVar(&providersFlag, "providers", "", "YAML provider list `file` (default $"+EnvProviders+")")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(providersCmd)
	rootCmd.AddCommand(mcp.Command(newClient))
}

// Run executes the main CLI functionality
func Run() error {
	return rootCmd.Execute()
}

// loadRegistry returns the built-in providers, preceded by those from the
// provider list file if one is configured.
func loadRegistry() (*provider.Registry, error) {
	path := providersFlag
	if path == "" {
		path = os.Getenv(EnvProviders)
	}
	if path == "" {
		return provider.DefaultRegistry(), nil
	}

	loaded, err := provider.LoadFile(path)
	if err != nil {
		return nil, err
	}
	log.Debug("loaded provider list", "path", path, "providers", len(loaded))
	return provider.NewRegistry(append(loaded, provider.Builtin()...)...), nil
}

func newClient() (*api.Client, error) {
	registry, err := loadRegistry()
	if err != nil {
		return nil, err
	}
	return api.NewClient(
		api.WithRegistry(registry),
		api.WithCache(cache.New[api.FetchResult]("responses")),
	), nil
}

func runRoot(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return failure.New(NoURLSpecified,
			failure.Message("No URL specified; run oembed --help for usage"),
		)
	}
	if maxWidthFlag < 0 || maxHeightFlag < 0 {
		return failure.New(InvalidSizeFlag,
			failure.Message("--maxwidth and --maxheight must not be negative"),
			failure.Context{"maxwidth": fmt.Sprint(maxWidthFlag), "maxheight": fmt.Sprint(maxHeightFlag)},
		)
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	opts := api.Options{
		Format:      formatFlagValue.Value,
		MaxWidth:    maxWidthFlag,
		MaxHeight:   maxHeightFlag,
		Discover:    discoverFlag,
		ForceUpdate: forceUpdateFlag,
	}
	if providerFlag != "" {
		p, ok := client.Registry().Lookup(providerFlag)
		if !ok {
			return failure.New(ProviderNotFound,
				failure.Message("No provider with that name; run oembed providers to list them"),
				failure.Context{"provider": providerFlag},
			)
		}
		opts.Provider = p
	}

	results := client.GetAll(cmd.Context(), args, opts)
	if len(results) == 1 && results[0].Err != nil {
		return results[0].Err
	}

	var responses []*response.Response
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Error("failed to fetch oEmbed response", "url", r.URL, "error", userMessage(r.Err))
			continue
		}
		responses = append(responses, r.Response)
	}

	if err := display(cmd.OutOrStdout(), responses); err != nil {
		return err
	}

	if failed > 0 {
		return failure.New(SomeURLsFailed,
			failure.Message(fmt.Sprintf("%d of %d URLs could not be fetched", failed, len(results))),
		)
	}
	return nil
}

func display(w io.Writer, responses []*response.Response) error {
	if browserFlag {
		for _, resp := range responses {
			u := BrowseURL(resp)
			fmt.Fprintf(os.Stderr, "Opening in browser: %s\n", u)
			if err := browser.OpenURL(u); err != nil {
				return failure.Wrap(err)
			}
		}
		return nil
	}

	tty := isTerminal(w)

	if rawFlag {
		for _, resp := range responses {
			out, err := RawJSON(resp, tty)
			if err != nil {
				return err
			}
			w.Write(out)
		}
		return nil
	}

	if !tty {
		for i, resp := range responses {
			if i > 0 {
				fmt.Fprintln(w)
			}
			WritePlain(w, resp)
		}
		return nil
	}

	var doc string
	for i, resp := range responses {
		if i > 0 {
			doc += "\n---\n\n"
		}
		doc += Markdown(resp)
	}

	out, err := RenderTerminal(doc)
	if err != nil {
		return err
	}
	if noPagerFlag {
		_, err := io.WriteString(w, out)
		return err
	}
	if err := RunPager(out); err != nil {
		return failure.Wrap(err)
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func userMessage(err error) string {
	if msg := failure.MessageOf(err); msg != "" {
		return msg.String()
	}
	return err.Error()
}
