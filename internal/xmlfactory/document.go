package xmlfactory

import (
	"encoding/xml"
	"io"
	"strings"
)

// element is the factory's own minimal XML AST: a tag, its attributes in
// document order, and its child elements. The factory never needs text
// content or comments, only the tree of elements and attributes the BT.CPP
// dialect actually carries.
type element struct {
	Tag      string
	Attrs    []xml.Attr
	Children []*element
}

func attrValue(attrs []xml.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// parseDocument decodes canonicalized XML source into a single root
// element, rejecting any processing instruction other than the standard
// <?xml ...?> declaration.
func parseDocument(src string) (*element, error) {
	dec := xml.NewDecoder(strings.NewReader(src))
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &RootNotFoundError{Path: "<document>"}
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.ProcInst:
			if t.Target != "xml" {
				return nil, &UnknownProcessingInstructionError{Target: t.Target}
			}
		case xml.StartElement:
			return parseElement(dec, t)
		}
	}
}

func parseElement(dec *xml.Decoder, start xml.StartElement) (*element, error) {
	el := &element{Tag: start.Name.Local, Attrs: start.Attr}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, &MissingEndTagError{Tag: el.Tag}
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := parseElement(dec, t)
			if err != nil {
				return nil, err
			}
			el.Children = append(el.Children, child)
		case xml.EndElement:
			return el, nil
		}
	}
}
