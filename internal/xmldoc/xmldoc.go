// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package xmldoc parses XML into a generic element tree with relative-path
// lookups. Registry documents have no fixed schema version, so extraction
// works by path probing rather than struct decoding.
// Implements: docs/ARCHITECTURE § Document Access.
package xmldoc

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"
)

// Element is one node of a parsed XML document.
type Element struct {
	// Name is the element's local name. Namespace prefixes are dropped;
	// registry documents do not use them.
	Name string

	// Attrs holds the element's attributes by local name.
	Attrs map[string]string

	// Children are the child elements in document order.
	Children []*Element

	// Text is the concatenation of the element's direct character data.
	Text string
}

// Parse reads an XML document from r and returns its root element. Any
// well-formedness error aborts the parse.
func Parse(r io.Reader) (*Element, error) {
	dec := xml.NewDecoder(r)

	var root *Element
	var stack []*Element

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local}
			if len(t.Attr) > 0 {
				el.Attrs = make(map[string]string, len(t.Attr))
				for _, a := range t.Attr {
					el.Attrs[a.Name.Local] = a.Value
				}
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("parsing XML: multiple root elements")
				}
				root = el
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, el)
			}
			stack = append(stack, el)

		case xml.CharData:
			if len(stack) > 0 {
				cur := stack[len(stack)-1]
				cur.Text += string(t)
			}

		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, fmt.Errorf("parsing XML: no root element")
	}
	return root, nil
}

// ParseFile opens and parses the XML document at path.
func ParseFile(path string) (*Element, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// FindAll returns every descendant matching the "/"-separated relative
// path, in document order. Each segment descends one level; "a/b" matches
// the b children of every a child of e.
func (e *Element) FindAll(path string) []*Element {
	level := []*Element{e}
	for _, seg := range strings.Split(path, "/") {
		var next []*Element
		for _, el := range level {
			for _, child := range el.Children {
				if child.Name == seg {
					next = append(next, child)
				}
			}
		}
		level = next
		if len(level) == 0 {
			break
		}
	}
	return level
}

// Find returns the first element matching the relative path, or nil.
func (e *Element) Find(path string) *Element {
	matches := e.FindAll(path)
	if len(matches) == 0 {
		return nil
	}
	return matches[0]
}

// Attr returns the named attribute value and whether it is present.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}
