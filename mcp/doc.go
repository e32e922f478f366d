// Package mcp implements the Model Context Protocol server for oembed.
//
// The server speaks MCP over stdio and exposes two tools: fetch_oembed, which
// returns the fields of an oEmbed response, and find_provider, which reports
// the provider serving a URL without fetching anything.
package mcp
