package provider

import "github.com/ka2n/oembed/api/format"

type builtinSpec struct {
	name     string
	endpoint string
	format   format.Format
	patterns []string
}

var builtinSpecs = []builtinSpec{
	{
		name:     "youtube",
		endpoint: "https://www.youtube.com/oembed",
		format:   format.JSON,
		patterns: []string{
			"http*://www.youtube.com/watch*",
			"http*://m.youtube.com/watch*",
			"http*://www.youtube.com/shorts/*",
			"http*://youtube.com/watch*",
			"http*://youtu.be/*",
		},
	},
	{
		name:     "vimeo",
		endpoint: "https://vimeo.com/api/oembed.{format}",
		format:   format.JSON,
		patterns: []string{
			"http*://vimeo.com/*",
			"http*://*.vimeo.com/*",
		},
	},
	{
		name:     "flickr",
		endpoint: "https://www.flickr.com/services/oembed/",
		format:   format.JSON,
		patterns: []string{
			"http*://*.flickr.com/*",
			"http*://flic.kr/*",
		},
	},
	{
		name:     "soundcloud",
		endpoint: "https://soundcloud.com/oembed",
		format:   format.JSON,
		patterns: []string{
			"http*://soundcloud.com/*",
			"http*://*.soundcloud.com/*",
		},
	},
	{
		name:     "spotify",
		endpoint: "https://open.spotify.com/oembed",
		format:   format.JSON,
		patterns: []string{
			"https://open.spotify.com/*",
			"spotify:*",
		},
	},
	{
		name:     "slideshare",
		endpoint: "https://www.slideshare.net/api/oembed/2",
		format:   format.JSON,
		patterns: []string{
			"http*://www.slideshare.net/*/*",
			"http*://*.slideshare.net/*/*",
		},
	},
	{
		name:     "dailymotion",
		endpoint: "https://www.dailymotion.com/services/oembed",
		format:   format.JSON,
		patterns: []string{
			"http*://www.dailymotion.com/video/*",
			"http*://dai.ly/*",
		},
	},
}

// Builtin returns fresh instances of the providers shipped with the library
func Builtin() []*Provider {
	out := make([]*Provider, 0, len(builtinSpecs))
	for _, s := range builtinSpecs {
		p := New(s.endpoint, s.format)
		p.Name = s.name
		for _, pat := range s.patterns {
			p.AddPattern(pat)
		}
		out = append(out, p)
	}
	return out
}
