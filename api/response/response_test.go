package response

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ka2n/oembed/api/format"
	"github.com/ka2n/oembed/api/provider"
	"github.com/morikuni/failure/v2"
)

// readTestFile reads a test file from the testdata directory
func readTestFile(t *testing.T, filename string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("Failed to read test file %s: %v", filename, err)
	}
	return string(content)
}

var (
	validKeys   = []string{"type", "version", "fields", "id"}
	validValues = map[string]any{"type": "photo", "version": "1.0", "fields": "hello", "id": 1234}
)

const (
	flickrURL  = "http://www.flickr.com/photos/bees/2341623661/"
	qikURL     = "http://qik.com/video/49565"
	viddlerURL = "http://www.viddler.com/explore/cdevroe/videos/424/"
	skitchURL  = "https://skitch.com/sebastianbuenos/e4z4r/skitch"
)

func flickr() *provider.Provider {
	return provider.New("http://www.flickr.com/services/oembed/", format.None).
		AddPattern("http://*.flickr.com/*")
}

func qik() *provider.Provider {
	return provider.New("http://qik.com/api/oembed.{format}", format.XML).
		AddPattern("http://qik.com/video/*").
		AddPattern("http://qik.com/*")
}

func viddler() *provider.Provider {
	return provider.New("http://lab.viddler.com/services/oembed/", format.JSON).
		AddPattern("http://*.viddler.com/*")
}

func oohEmbed() *provider.Provider {
	return provider.New("http://oohembed.com/oohembed/", format.JSON).AddPattern("*")
}

func TestCreateFor(t *testing.T) {
	f, q, v, o := flickr(), qik(), viddler(), oohEmbed()

	tests := []struct {
		name           string
		build          func(t *testing.T) *Response
		wantProvider   *provider.Provider
		wantFormat     format.Format
		wantRequestURL string
	}{
		{
			name: "Direct construction",
			build: func(t *testing.T) *Response {
				return New(format.NewFields(validKeys, validValues), o)
			},
			wantProvider: o,
			wantFormat:   format.None,
		},
		{
			name: "JSON for flickr",
			build: func(t *testing.T) *Response {
				r, err := CreateFor(readTestFile(t, "valid.json"), f, flickrURL, format.JSON)
				if err != nil {
					t.Fatalf("CreateFor() error = %v", err)
				}
				return r
			},
			wantProvider:   f,
			wantFormat:     format.JSON,
			wantRequestURL: flickrURL,
		},
		{
			name: "XML for qik",
			build: func(t *testing.T) *Response {
				r, err := CreateFor(readTestFile(t, "valid.xml"), q, qikURL, format.XML)
				if err != nil {
					t.Fatalf("CreateFor() error = %v", err)
				}
				return r
			},
			wantProvider:   q,
			wantFormat:     format.XML,
			wantRequestURL: qikURL,
		},
		{
			name: "JSON for viddler",
			build: func(t *testing.T) *Response {
				r, err := CreateFor(readTestFile(t, "valid.json"), v, viddlerURL, format.JSON)
				if err != nil {
					t.Fatalf("CreateFor() error = %v", err)
				}
				return r
			},
			wantProvider:   v,
			wantFormat:     format.JSON,
			wantRequestURL: viddlerURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.build(t)

			// Keys and string forms are compared separately: numbers come
			// back as json.Number from JSON and as strings from XML.
			if diff := cmp.Diff(validKeys, r.Fields().Keys()); diff != "" {
				t.Errorf("Fields().Keys() mismatch (-want +got):\n%s", diff)
			}
			for _, k := range validKeys {
				if got, want := r.Field(k), format.Stringify(validValues[k]); got != want {
					t.Errorf("Field(%q) = %q, want %q", k, got, want)
				}
			}

			if r.Provider() != tt.wantProvider {
				t.Errorf("Provider() = %v, want %v", r.Provider(), tt.wantProvider)
			}
			if r.Format() != tt.wantFormat {
				t.Errorf("Format() = %q, want %q", r.Format(), tt.wantFormat)
			}
			if r.RequestURL() != tt.wantRequestURL {
				t.Errorf("RequestURL() = %q, want %q", r.RequestURL(), tt.wantRequestURL)
			}
		})
	}
}

func TestCreateForFormats(t *testing.T) {
	if _, err := CreateFor(readTestFile(t, "valid.json"), flickr(), flickrURL, format.JSON); err != nil {
		t.Errorf("CreateFor(json) error = %v", err)
	}
	if _, err := CreateFor(readTestFile(t, "valid.xml"), flickr(), flickrURL, format.XML); err != nil {
		t.Errorf("CreateFor(xml) error = %v", err)
	}

	r, err := CreateFor(readTestFile(t, "valid.yml"), flickr(), flickrURL, format.Format("yml"))
	if !failure.Is(err, format.ErrFormatNotSupported) {
		t.Errorf("CreateFor(yml) error = %v, want %v", err, format.ErrFormatNotSupported)
	}
	if r != nil {
		t.Errorf("CreateFor(yml) returned a response: %v", r)
	}
}

func TestCreateForMismatchedBody(t *testing.T) {
	tests := []struct {
		name   string
		file   string
		format format.Format
	}{
		{name: "XML body declared as JSON", file: "valid.xml", format: format.JSON},
		{name: "JSON body declared as XML", file: "valid.json", format: format.XML},
		{name: "YAML body declared as JSON", file: "valid.yml", format: format.JSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CreateFor(readTestFile(t, tt.file), viddler(), viddlerURL, tt.format)
			if !failure.Is(err, format.ErrParse) {
				t.Errorf("CreateFor() error = %v, want %v", err, format.ErrParse)
			}
			if r != nil {
				t.Error("CreateFor() returned a partial response")
			}
		})
	}
}

func TestFieldAccess(t *testing.T) {
	xmlRes, err := CreateFor(readTestFile(t, "valid.xml"), qik(), qikURL, format.XML)
	if err != nil {
		t.Fatal(err)
	}
	jsonRes, err := CreateFor(readTestFile(t, "valid.json"), viddler(), viddlerURL, format.JSON)
	if err != nil {
		t.Fatal(err)
	}

	want := map[string]string{"type": "photo", "version": "1.0", "fields": "hello", "id": "1234"}
	for name, r := range map[string]*Response{"xml": xmlRes, "json": jsonRes} {
		for k, v := range want {
			if got := r.Field(k); got != v {
				t.Errorf("%s: Field(%q) = %q, want %q", name, k, got, v)
			}
		}
		if got := r.Field("missing"); got != "" {
			t.Errorf("%s: Field(missing) = %q, want empty", name, got)
		}
	}
}

var (
	expectedHelpers = map[string]any{
		"type":    "random",
		"version": "1.0",
		"html":    "&lt;em&gt;Hello world!&lt;/em&gt;",
		"url":     "http://foo.com/bar",
	}
	expectedSkipped = map[string]any{
		"fields":   "hello",
		"id":       1234,
		"provider": "oohEmbed",
		"string":   "random string",
	}
)

func allExpected() format.Fields {
	keys := []string{"type", "version", "html", "url", "fields", "id", "provider", "string"}
	values := map[string]any{}
	for k, v := range expectedHelpers {
		values[k] = v
	}
	for k, v := range expectedSkipped {
		values[k] = v
	}
	return format.NewFields(keys, values)
}

func TestProjection(t *testing.T) {
	r := New(allExpected(), oohEmbed())

	for _, k := range r.Fields().Keys() {
		if !r.RespondsTo(k) {
			t.Errorf("RespondsTo(%q) = false", k)
		}
	}

	for k, want := range expectedHelpers {
		got, ok := r.Get(k)
		if !ok {
			t.Errorf("Get(%q) not installed", k)
			continue
		}
		if got != want {
			t.Errorf("Get(%q) = %#v, want %#v", k, got, want)
		}
		if p := r.Projection(k); p != Installed {
			t.Errorf("Projection(%q) = %v, want installed", k, p)
		}
	}

	for k, skipped := range expectedSkipped {
		got, ok := r.Get(k)
		if !ok {
			t.Errorf("Get(%q) lost the protected member", k)
			continue
		}
		if got == skipped || format.Stringify(got) == format.Stringify(skipped) {
			t.Errorf("Get(%q) returned field data %#v", k, got)
		}
		if p := r.Projection(k); p != FieldOnly {
			t.Errorf("Projection(%q) = %v, want field-only", k, p)
		}
		if got, want := r.Field(k), format.Stringify(skipped); got != want {
			t.Errorf("Field(%q) = %q, want %q", k, got, want)
		}
	}

	if diff := cmp.Diff([]string{"type", "version", "html", "url"}, r.Accessors()); diff != "" {
		t.Errorf("Accessors() mismatch (-want +got):\n%s", diff)
	}
}

func TestProtectedMembers(t *testing.T) {
	r := New(allExpected(), oohEmbed())

	id, _ := r.Get("id")
	if id != r.ID() {
		t.Errorf("Get(id) = %v, want %v", id, r.ID())
	}
	if format.Stringify(id) == r.Field("id") {
		t.Error("identity member returned field data")
	}

	s, _ := r.Get("string")
	if s != r.String() {
		t.Errorf("Get(string) = %v, want %v", s, r.String())
	}
	if s == r.Field("string") {
		t.Error("string member returned field data")
	}

	p, _ := r.Get("provider")
	if p != r.Provider() {
		t.Errorf("Get(provider) = %v, want the provider", p)
	}

	fieldFn, _ := r.Get("field")
	if fn, ok := fieldFn.(func(string) string); !ok || fn("url") != "http://foo.com/bar" {
		t.Errorf("Get(field) = %T", fieldFn)
	}

	if err := RegisterMember("id", func(*Response) any { return "x" }); !failure.Is(err, ErrProtectedMember) {
		t.Errorf("RegisterMember(id) error = %v, want %v", err, ErrProtectedMember)
	}
	if err := RegisterMember("not an identifier", func(*Response) any { return "x" }); !failure.Is(err, ErrProtectedMember) {
		t.Errorf("RegisterMember(not an identifier) error = %v, want %v", err, ErrProtectedMember)
	}
}

func TestFieldsOverrideRegisteredMembers(t *testing.T) {
	const twoPointOh = "two point oh"
	if err := RegisterMember("version", func(*Response) any { return twoPointOh }); err != nil {
		t.Fatalf("RegisterMember() error = %v", err)
	}
	t.Cleanup(func() { UnregisterMember("version") })

	r := New(allExpected(), oohEmbed())
	got, ok := r.Get("version")
	if !ok || got != r.Field("version") {
		t.Errorf("Get(version) = %v, want %q", got, r.Field("version"))
	}
	if got == twoPointOh {
		t.Error("registered member shadowed the field")
	}

	bare := New(format.NewFields([]string{"type"}, map[string]any{"type": "link"}), oohEmbed())
	if got, _ := bare.Get("version"); got != twoPointOh {
		t.Errorf("Get(version) without field = %v, want %q", got, twoPointOh)
	}
}

func TestNonIdentifierKeys(t *testing.T) {
	fields := format.NewFields(
		[]string{"author name", "1st", "x-y", "ok_1"},
		map[string]any{"author name": "bees", "1st": "a", "x-y": "b", "ok_1": "c"},
	)
	r := New(fields, oohEmbed())

	for _, k := range []string{"author name", "1st", "x-y"} {
		if _, ok := r.Get(k); ok {
			t.Errorf("Get(%q) installed a member", k)
		}
		if !r.RespondsTo(k) {
			t.Errorf("RespondsTo(%q) = false", k)
		}
		if p := r.Projection(k); p != FieldOnly {
			t.Errorf("Projection(%q) = %v", k, p)
		}
	}
	if got := r.Field("author name"); got != "bees" {
		t.Errorf("Field(author name) = %q", got)
	}
	if got, _ := r.Get("ok_1"); got != "c" {
		t.Errorf("Get(ok_1) = %v", got)
	}
	if p := r.Projection("nope"); p != Absent {
		t.Errorf("Projection(nope) = %v", p)
	}
}

func TestPhotoHTML(t *testing.T) {
	t.Run("With title", func(t *testing.T) {
		r, err := CreateFor(readTestFile(t, "flickr.json"), flickr(), flickrURL, format.JSON)
		if err != nil {
			t.Fatal(err)
		}
		photo, ok := r.Photo()
		if !ok {
			t.Fatal("Photo() = false for a photo response")
		}
		title, ok := r.Get("title")
		if !ok || title == "" {
			t.Fatalf("Get(title) = %v, %v", title, ok)
		}
		html := photo.HTML()
		if !regexp.MustCompile(`alt='Bacon Lollys'`).MatchString(html) {
			t.Errorf("HTML() = %q, want alt with title", html)
		}
		if !regexp.MustCompile(`src='https://live.staticflickr.com/`).MatchString(html) {
			t.Errorf("HTML() = %q, want src from url", html)
		}
	})

	t.Run("Without title", func(t *testing.T) {
		skitch := provider.New("https://skitch.com/oembed", format.JSON)
		r, err := CreateFor(readTestFile(t, "skitch.json"), skitch, skitchURL, format.JSON)
		if err != nil {
			t.Fatal(err)
		}
		if r.RespondsTo("title") {
			t.Error("RespondsTo(title) = true")
		}
		html, ok := r.HTML()
		if !ok || html == "" {
			t.Fatal("HTML() is absent")
		}
		if !regexp.MustCompile(`alt=''`).MatchString(html) {
			t.Errorf("HTML() = %q, want empty alt", html)
		}
	})

	t.Run("Hello example", func(t *testing.T) {
		body := `{"type":"photo","url":"http://foo.com/bar","title":"Hello"}`
		r, err := CreateFor(body, oohEmbed(), "http://foo.com/page", format.JSON)
		if err != nil {
			t.Fatal(err)
		}
		if html, _ := r.HTML(); !regexp.MustCompile(`alt='Hello'`).MatchString(html) {
			t.Errorf("HTML() = %q", html)
		}

		body = `{"type":"photo","url":"http://foo.com/bar"}`
		r, err = CreateFor(body, oohEmbed(), "http://foo.com/page", format.JSON)
		if err != nil {
			t.Fatal(err)
		}
		if html, _ := r.HTML(); !regexp.MustCompile(`alt=''`).MatchString(html) {
			t.Errorf("HTML() = %q", html)
		}
	})

	t.Run("Attributes are escaped", func(t *testing.T) {
		fields := format.NewFields([]string{"type", "url", "title"},
			map[string]any{"type": "photo", "url": "http://foo.com/a'b", "title": "<x>"})
		html, _ := New(fields, oohEmbed()).HTML()
		if want := "<img src='http://foo.com/a&#39;b' alt='&lt;x&gt;' />"; html != want {
			t.Errorf("HTML() = %q, want %q", html, want)
		}
	})

	t.Run("Provider html field wins", func(t *testing.T) {
		fields := format.NewFields([]string{"type", "url", "html"},
			map[string]any{"type": "photo", "url": "http://foo.com/bar", "html": "<figure/>"})
		photo, _ := New(fields, oohEmbed()).Photo()
		if got := photo.HTML(); got != "<figure/>" {
			t.Errorf("HTML() = %q", got)
		}
	})
}

func TestHTMLByType(t *testing.T) {
	video := New(format.NewFields([]string{"type", "html"},
		map[string]any{"type": "video", "html": "<iframe></iframe>"}), oohEmbed())
	if got, ok := video.HTML(); !ok || got != "<iframe></iframe>" {
		t.Errorf("video HTML() = %q, %v", got, ok)
	}
	if _, ok := video.Photo(); ok {
		t.Error("video Photo() = true")
	}

	link := New(format.NewFields([]string{"type"}, map[string]any{"type": "link"}), oohEmbed())
	if _, ok := link.HTML(); ok {
		t.Error("link HTML() present")
	}
	if link.Type() != TypeLink {
		t.Errorf("Type() = %q", link.Type())
	}
}

func TestIdentity(t *testing.T) {
	a := New(allExpected(), oohEmbed())
	b := New(allExpected(), oohEmbed())
	if a.ID() == b.ID() {
		t.Error("two responses share an ID")
	}
	if a.String() == b.String() {
		t.Error("two responses share a string form")
	}
}
