// Package format parses oEmbed response bodies.
//
// Two parsers exist, one per wire format. Both extract only the top-level
// fields of a response into an ordered Fields value; neither tries to model
// the document beyond that. The caller always declares the format: a body is
// never sniffed, and a body written in one format is rejected by the other
// format's parser.
package format

import (
	"strings"

	"github.com/morikuni/failure/v2"
)

// Format identifies an oEmbed wire format
type Format string

const (
	// None is the format of a response that was not parsed from a body
	None Format = ""
	JSON Format = "json"
	XML  Format = "xml"
)

// Parser turns a raw body into fields
type Parser func(body string) (Fields, error)

var parsers = map[Format]Parser{
	JSON: ParseJSON,
	XML:  ParseXML,
}

// String returns the name used in endpoint templates and query strings
func (f Format) String() string {
	return string(f)
}

// Supported reports whether a parser exists for f
func (f Format) Supported() bool {
	_, ok := parsers[f]
	return ok
}

// Lookup resolves a user supplied format name such as "JSON" or "xml".
func Lookup(name string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	if !f.Supported() {
		return None, notSupported(name)
	}
	return f, nil
}

// Parse runs the parser bound to f on body.
func Parse(f Format, body string) (Fields, error) {
	p, ok := parsers[f]
	if !ok {
		return Fields{}, notSupported(string(f))
	}
	return p(body)
}

func notSupported(name string) error {
	return failure.New(ErrFormatNotSupported,
		failure.Message("Response format is not supported; use json or xml"),
		failure.Context{"format": name},
	)
}
