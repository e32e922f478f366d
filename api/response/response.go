// Package response holds parsed oEmbed responses.
//
// A Response keeps the fields of a provider's answer in source order and
// exposes each field as a named member reachable through Get. Members are
// decided once, when the Response is built:
//
//   - a fixed set of protected names (see ProtectedNames) always resolves to
//     the Response's own members, even when a field has the same name;
//   - every other field whose name is an identifier is installed as a member,
//     taking precedence over extension members (RegisterMember) and over
//     members derived from the resource type, such as a photo's html;
//   - remaining fields are reachable only through Field.
//
// A Response is immutable once built and safe for concurrent reads.
package response

import (
	"fmt"
	"sync/atomic"

	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/provider"
)

// Type is the oEmbed resource type carried in the "type" field
type Type string

const (
	TypePhoto Type = "photo"
	TypeVideo Type = "video"
	TypeLink  Type = "link"
	TypeRich  Type = "rich"
)

var lastID atomic.Uint64

// Response is a parsed oEmbed response
type Response struct {
	id         uint64
	fields     format.Fields
	provider   *provider.Provider
	format     format.Format
	requestURL string

	members    map[string]Member
	projection map[string]Projection
	accessors  []string
}

// CreateFor parses body in the declared format and builds a Response for it.
func CreateFor(body string, p *provider.Provider, requestURL string, f format.Format) (*Response, error) {
	fields, err := format.Parse(f, body)
	if err != nil {
		return nil, err
	}
	return build(fields, p, f, requestURL), nil
}

// New builds a Response directly from fields. Its format is format.None and
// it has no request URL.
func New(fields format.Fields, p *provider.Provider) *Response {
	return build(fields, p, format.None, "")
}

func build(fields format.Fields, p *provider.Provider, f format.Format, requestURL string) *Response {
	r := &Response{
		id:         lastID.Add(1),
		fields:     fields,
		provider:   p,
		format:     f,
		requestURL: requestURL,
	}
	r.project()
	return r
}

// ID returns an identifier unique to this Response within the process
func (r *Response) ID() uint64 {
	return r.id
}

// Fields returns the parsed fields in source order
func (r *Response) Fields() format.Fields {
	return r.fields
}

// Field returns the display form of a field, whether or not it is installed
// as a member. It returns "" for unknown keys.
func (r *Response) Field(key string) string {
	return r.fields.String(key)
}

// Provider returns the provider that produced the response
func (r *Response) Provider() *provider.Provider {
	return r.provider
}

// Format returns the format the body was parsed from, or format.None
func (r *Response) Format() format.Format {
	return r.format
}

// RequestURL returns the URL the response was requested for, or ""
func (r *Response) RequestURL() string {
	return r.requestURL
}

// Type returns the resource type
func (r *Response) Type() Type {
	return Type(r.fields.String("type"))
}

// HTML returns the embed fragment: the html member when one is installed,
// which for photos is derived from url and title.
func (r *Response) HTML() (string, bool) {
	v, ok := r.Get("html")
	if !ok {
		return "", false
	}
	return format.Stringify(v), true
}

// String describes the response; it never returns field data.
func (r *Response) String() string {
	name := "unknown provider"
	if r.provider != nil {
		name = r.provider.Name
	}
	t := r.Type()
	if t == "" {
		t = "untyped"
	}
	return fmt.Sprintf("oembed.Response#%d(%s from %s, %d fields)", r.id, t, name, r.fields.Len())
}
