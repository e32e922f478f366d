package mcp

import (
	"github.com/ka2n/oembed/api"
	"github.com/ka2n/oembed/log"
	"github.com/spf13/cobra"
)

// Command returns the MCP server command. newClient is called once when the
// command runs.
func Command(newClient func() (*api.Client, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server",
		Long:  "Serve the fetch_oembed and find_provider tools over stdio using the Model Context Protocol",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			log.Info("serving MCP over stdio", "version", api.Version, "providers", len(client.Registry().All()))
			return NewServer(client).Run()
		},
	}
}
