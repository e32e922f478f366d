// Package cli implements the command-line interface for oembed.
//
// The cli package provides:
// - Command-line argument parsing and validation
// - Provider list loading from a YAML file
// - Terminal output through glamour and a searchable pager
// - Plain and raw JSON output for pipes
// - Browser integration for the embedded resource
package cli
