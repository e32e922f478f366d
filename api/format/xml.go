package format

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/morikuni/failure/v2"
	"golang.org/x/net/html/charset"
)

// ParseXML extracts the child elements of the document's root element.
// Each child must be a simple element: its tag becomes the key and its text
// the value.
func ParseXML(body string) (Fields, error) {
	d := xml.NewDecoder(strings.NewReader(body))
	d.CharsetReader = charset.NewReaderLabel

	var (
		b        fieldsBuilder
		depth    int
		rootSeen bool
		field    string
		text     strings.Builder
	)

	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Fields{}, failure.Wrap(err, failure.WithCode(ErrParse),
				failure.Message("Response body is not well-formed XML"),
				failure.Context{"format": XML.String()},
			)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch depth {
			case 0:
				if rootSeen {
					return Fields{}, xmlShapeError("document has more than one root element", t.Name.Local)
				}
				rootSeen = true
			case 1:
				field = t.Name.Local
				text.Reset()
			default:
				return Fields{}, xmlShapeError("field element contains child elements", field)
			}
			depth++
		case xml.EndElement:
			depth--
			if depth == 1 {
				b.set(field, text.String())
			}
		case xml.CharData:
			switch depth {
			case 0:
				if strings.TrimSpace(string(t)) != "" {
					return Fields{}, xmlShapeError("text outside the root element", "")
				}
			case 1:
				if strings.TrimSpace(string(t)) != "" {
					return Fields{}, xmlShapeError("root element contains text", "")
				}
			case 2:
				text.Write(t)
			}
		}
	}

	if !rootSeen {
		return Fields{}, xmlShapeError("document has no root element", "")
	}
	return b.build(), nil
}

func xmlShapeError(reason, element string) error {
	return failure.New(ErrParse,
		failure.Message("XML response has an unexpected structure: "+reason),
		failure.Context{"format": XML.String(), "element": element},
	)
}
