// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// This file defines the Template model and the parsing of its "sch_path:"
// header, which declares where the schematic (and therefore its results)
// live on disk.
package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// HeaderMarker introduces the schematic path on a template's first content line.
const HeaderMarker = "sch_path:"

// DefaultRootName is the output directory created next to a template whose
// header does not declare a schematic path.
const DefaultRootName = "SCH_Results"

var (
	// ErrEmptyTemplate is returned for templates with no content lines.
	ErrEmptyTemplate = errors.New("template is empty")
	// ErrMissingHeader is returned in strict mode when the first content line
	// does not carry the sch_path marker.
	ErrMissingHeader = errors.New("first content line must contain 'sch_path: <path>'")
)

// Template is a netlist template loaded for one batch. It is read once and
// never modified.
type Template struct {
	// Path is the template file on disk.
	Path string
	// Text is the full template content.
	Text string
	// BaseName is the template file name without its extension.
	BaseName string
	// SchematicPath is the path declared by the header, empty if absent.
	SchematicPath string
	// Root is the default output root: the parent of SchematicPath, or
	// <template-dir>/SCH_Results when the header is absent.
	Root string
}

// HasHeader reports whether the template declared its schematic path.
func (t *Template) HasHeader() bool {
	return t.SchematicPath != ""
}

// NewTemplate builds a Template from a file path and its content. When strict
// is false a missing header falls back to DefaultRootName next to the file.
func NewTemplate(path, text string, strict bool) (*Template, error) {
	schPath, err := ParseHeader(text)
	if err != nil {
		if !errors.Is(err, ErrMissingHeader) || strict {
			return nil, fmt.Errorf("template %s: %w", path, err)
		}
	}

	t := &Template{
		Path:          path,
		Text:          text,
		BaseName:      BaseName(path),
		SchematicPath: schPath,
	}
	if schPath != "" {
		t.Root = filepath.Dir(filepath.FromSlash(schPath))
	} else {
		t.Root = filepath.Join(filepath.Dir(path), DefaultRootName)
	}
	return t, nil
}

// ParseHeader extracts the schematic path from the first non-blank line of
// text. Leading comment stars are ignored ("** sch_path: /a/b.sch").
func ParseHeader(text string) (string, error) {
	first, ok := firstContentLine(text)
	if !ok {
		return "", ErrEmptyTemplate
	}
	_, after, found := strings.Cut(first, HeaderMarker)
	if !found {
		return "", ErrMissingHeader
	}
	schPath := strings.TrimSpace(after)
	if schPath == "" {
		return "", fmt.Errorf("%w: marker has no path", ErrMissingHeader)
	}
	return schPath, nil
}

// BaseName returns the file name of path without its final extension.
func BaseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// ContentText strips surrounding blanks and leading comment stars from a
// template line. Lines with no content text, such as a lone "*", are skipped
// when looking for the header.
func ContentText(line string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "*"))
}

func firstContentLine(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		line = ContentText(line)
		if line != "" {
			return line, true
		}
	}
	return "", false
}
