package cli

import (
	"fmt"
	"strings"

	"github.com/ka2n/oembed/api/format"
	"github.com/spf13/cobra"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List known oEmbed providers and their URL schemes",
	Long:  "Display every provider in lookup order: those from the provider list file first, then the built-in ones",
	RunE:  runProviders,
}

func runProviders(cmd *cobra.Command, args []string) error {
	registry, err := loadRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "oEmbed Providers:")

	for _, p := range registry.All() {
		f := p.Format
		if f == format.None {
			f = p.Preferred()
		}
		fmt.Fprintf(out, "  %-20s %s (%s)\n", p.Name, p.Endpoint, f)
		fmt.Fprintf(out, "  %-20s %s\n", "", strings.Join(p.Patterns(), ", "))
	}
	return nil
}
