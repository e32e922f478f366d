package response

import (
	"maps"
	"slices"
	"sync"
	"unicode"

	"github.com/morikuni/failure/v2"
)

// Member computes the value of a named member of a Response
type Member func(r *Response) any

// Projection describes how a field is exposed
type Projection int

const (
	// Absent means the Response has no such field
	Absent Projection = iota
	// Installed means the field is reachable through Get
	Installed
	// FieldOnly means the field is reachable only through Field
	FieldOnly
)

func (p Projection) String() string {
	switch p {
	case Installed:
		return "installed"
	case FieldOnly:
		return "field-only"
	default:
		return "absent"
	}
}

// ProtectedNames are the members no field can shadow
var ProtectedNames = []string{
	"id", "string",
	"fields", "field", "provider", "format", "request_url", "responds_to", "get",
}

func ownMember(name string) (Member, bool) {
	switch name {
	case "id":
		return func(r *Response) any { return r.ID() }, true
	case "string":
		return func(r *Response) any { return r.String() }, true
	case "fields":
		return func(r *Response) any { return r.Fields() }, true
	case "field":
		return func(r *Response) any { return r.Field }, true
	case "provider":
		return func(r *Response) any { return r.Provider() }, true
	case "format":
		return func(r *Response) any { return r.Format() }, true
	case "request_url":
		return func(r *Response) any { return r.RequestURL() }, true
	case "responds_to":
		return func(r *Response) any { return r.RespondsTo }, true
	case "get":
		return func(r *Response) any { return r.Get }, true
	}
	return nil, false
}

func isProtected(name string) bool {
	_, ok := ownMember(name)
	return ok
}

var (
	extMu      sync.RWMutex
	extensions = map[string]Member{}
)

// RegisterMember adds a member to every Response built afterwards. Fields
// with the same name still win over it. Protected names cannot be registered.
func RegisterMember(name string, m Member) error {
	if isProtected(name) || !isIdentifier(name) {
		return failure.New(ErrProtectedMember,
			failure.Message("Member name is reserved or not an identifier"),
			failure.Context{"name": name},
		)
	}
	extMu.Lock()
	defer extMu.Unlock()
	extensions[name] = m
	return nil
}

// UnregisterMember removes a member added with RegisterMember
func UnregisterMember(name string) {
	extMu.Lock()
	defer extMu.Unlock()
	delete(extensions, name)
}

// project builds the member table. It runs once, from build.
func (r *Response) project() {
	r.members = make(map[string]Member)
	r.projection = make(map[string]Projection, r.fields.Len())

	extMu.RLock()
	maps.Copy(r.members, extensions)
	extMu.RUnlock()

	for name, m := range derivedMembers(r) {
		r.members[name] = m
	}

	for _, name := range ProtectedNames {
		m, _ := ownMember(name)
		r.members[name] = m
	}

	for key := range r.fields.All() {
		if isProtected(key) || !isIdentifier(key) {
			r.projection[key] = FieldOnly
			continue
		}
		r.members[key] = fieldMember(key)
		r.projection[key] = Installed
		r.accessors = append(r.accessors, key)
	}
}

func fieldMember(key string) Member {
	return func(r *Response) any { return r.Field(key) }
}

// derivedMembers returns the members implied by the resource type
func derivedMembers(r *Response) map[string]Member {
	switch r.Type() {
	case TypePhoto:
		if r.fields.Has("url") {
			return map[string]Member{"html": photoHTML}
		}
	}
	return nil
}

// Get returns the value of the named member.
func (r *Response) Get(name string) (any, bool) {
	m, ok := r.members[name]
	if !ok {
		return nil, false
	}
	return m(r), true
}

// RespondsTo reports whether name is a member or a field. Fields that are not
// installed as members still count: their value is available through Field.
func (r *Response) RespondsTo(name string) bool {
	if r.fields.Has(name) {
		return true
	}
	_, ok := r.members[name]
	return ok
}

// Projection reports how the field key is exposed
func (r *Response) Projection(key string) Projection {
	return r.projection[key]
}

// Accessors returns the fields installed as members, in source order
func (r *Response) Accessors() []string {
	return slices.Clone(r.accessors)
}

// Members returns the names of all installed members, sorted
func (r *Response) Members() []string {
	return slices.Sorted(maps.Keys(r.members))
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		switch {
		case c == '_' || unicode.IsLetter(c):
		case i > 0 && unicode.IsDigit(c):
		default:
			return false
		}
	}
	return true
}
