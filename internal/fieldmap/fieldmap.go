// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package fieldmap defines the versioned contract between registry XML
// documents and flat trial record fields: which element path (or attribute)
// feeds which field, and how. The publisher contract ships embedded; runs
// may substitute their own.
// Implements: docs/ARCHITECTURE § Field Mapping.
package fieldmap

import (
	_ "embed"
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

//go:embed default.yaml
var defaultYAML []byte

// Kind selects how a field's value is read from the document.
type Kind string

const (
	// KindText reads the text of the first element at Path.
	KindText Kind = "text"

	// KindTextList reads the non-empty texts of every element at Path.
	KindTextList Kind = "text_list"

	// KindAttr reads the Attr attribute of the first element at Path.
	KindAttr Kind = "attr"
)

// Field maps one record field to its location in the document.
type Field struct {
	// Name is the record field the value feeds (e.g. "nct_id").
	Name string `yaml:"name"`

	// Kind selects the lookup: text, text_list, or attr.
	Kind Kind `yaml:"kind"`

	// Path is the "/"-separated element path, relative to the document root.
	Path string `yaml:"path"`

	// Attr is the attribute name, for kind attr only.
	Attr string `yaml:"attr,omitempty"`
}

// Map is a complete field-mapping contract.
type Map struct {
	// Version is the contract version. Only version 1 is supported.
	Version int `yaml:"version"`

	// Fields lists the mapped fields. Order is irrelevant; record key
	// order is fixed by the record type, not the contract.
	Fields []Field `yaml:"fields"`
}

// Default returns the embedded publisher contract.
func Default() (*Map, error) {
	return parse(defaultYAML, "embedded default")
}

// Load reads and validates a contract from a YAML file.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fieldmap: %w", err)
	}
	return parse(data, path)
}

func parse(data []byte, source string) (*Map, error) {
	var m Map
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing fieldmap %s: %w", source, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("invalid fieldmap %s: %w", source, err)
	}
	return &m, nil
}

// Validate checks the contract's structure: supported version, unique
// non-empty names, known kinds, non-empty paths, and an attribute name
// exactly when the kind calls for one.
func (m *Map) Validate() error {
	if m.Version != 1 {
		return fmt.Errorf("unsupported version %d", m.Version)
	}
	if len(m.Fields) == 0 {
		return fmt.Errorf("no fields defined")
	}

	seen := make(map[string]bool, len(m.Fields))
	for i, f := range m.Fields {
		if f.Name == "" {
			return fmt.Errorf("field %d: empty name", i)
		}
		if seen[f.Name] {
			return fmt.Errorf("field %q: duplicate name", f.Name)
		}
		seen[f.Name] = true

		switch f.Kind {
		case KindText, KindTextList, KindAttr:
		default:
			return fmt.Errorf("field %q: unknown kind %q", f.Name, f.Kind)
		}

		if f.Path == "" {
			return fmt.Errorf("field %q: empty path", f.Name)
		}

		if f.Kind == KindAttr && f.Attr == "" {
			return fmt.Errorf("field %q: kind attr requires an attr name", f.Name)
		}
		if f.Kind != KindAttr && f.Attr != "" {
			return fmt.Errorf("field %q: attr is only valid for kind attr", f.Name)
		}
	}

	return nil
}
