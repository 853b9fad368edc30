package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrNoRoot is returned when a document has no root element
var ErrNoRoot = errors.New("markup document has no root element")

// Decode reads an XML document into a Config tree.
// Namespace prefixes are dropped and attributes become leaf children of their element.
func Decode(r io.Reader) (*Config, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var (
		root  *Config
		stack []*Config
		text  []*strings.Builder
	)

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error decoding markup: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := New(t.Name.Local, "")
			for _, attr := range t.Attr {
				if attr.Name.Space == "xmlns" || attr.Name.Local == "xmlns" {
					continue
				}
				el.AddValue(attr.Name.Local, strings.TrimSpace(attr.Value))
			}
			if len(stack) > 0 {
				stack[len(stack)-1].Add(el)
			} else if root == nil {
				root = el
			}
			stack = append(stack, el)
			text = append(text, &strings.Builder{})
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			el := stack[len(stack)-1]
			el.text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		}
	}

	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// DecodeFile opens and decodes the file at path.
func DecodeFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening %s: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}
