package response

import (
	"fmt"
	"html"
)

// Photo is the view of a Response whose type is photo
type Photo struct {
	*Response
}

// Photo returns the photo view of r when its type is photo
func (r *Response) Photo() (*Photo, bool) {
	if r.Type() != TypePhoto {
		return nil, false
	}
	return &Photo{Response: r}, true
}

// HTML returns an <img> fragment for the photo. The alt text is the title
// when the response installs one, and empty otherwise.
func (p *Photo) HTML() string {
	s, _ := p.Response.HTML()
	return s
}

func photoHTML(r *Response) any {
	var title string
	if r.Projection("title") == Installed {
		title = r.Field("title")
	}
	return fmt.Sprintf("<img src='%s' alt='%s' />", html.EscapeString(r.Field("url")), html.EscapeString(title))
}
