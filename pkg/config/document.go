// Package config loads comparison documents and engine settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"digital.vasic.polyglot/pkg/example"
)

// ErrInvalidDocument is returned when a comparison document is
// unreadable or lacks runtimes or examples.
var ErrInvalidDocument = errors.New("invalid comparison document")

// Document is a parsed comparison document. Abstract carries the
// free-form intent section, Runtimes the concrete wiring and
// Examples the balanced test vectors.
type Document struct {
	// Path is the file the document was loaded from, if any.
	Path string `json:"path,omitempty"`

	// BaseDir resolves relative runtime paths.
	BaseDir string `json:"base_dir"`

	// Abstract is the intent section, kept verbatim.
	Abstract map[string]any `json:"abstract,omitempty"`

	// Runtimes lists the runtime participants in configured order.
	Runtimes []example.RuntimeSpec `json:"runtimes"`

	// Examples lists the test vectors in configured order.
	Examples []example.Example `json:"examples"`
}

type sections struct {
	Abstract map[string]any `yaml:"abstract"`
	Concrete struct {
		Runtimes []example.RuntimeSpec `yaml:"runtimes_config"`
	} `yaml:"concrete"`
	Balanced struct {
		Examples []example.Example `yaml:"examples"`
	} `yaml:"balanced"`
}

type rawDocument struct {
	CLM      *sections         `yaml:"clm"`
	sections `yaml:",inline"`
	Examples []example.Example `yaml:"examples"`
}

// LoadDocument reads and parses the comparison document at path.
// The document's directory becomes its base directory.
func LoadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	doc, err := ParseDocument(data, filepath.Dir(abs))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	doc.Path = abs
	return doc, nil
}

// ParseDocument parses a comparison document. Both the standard
// form, with sections under a clm key, and the legacy form, with
// sections at the root, are accepted. A top-level examples list is
// used when the balanced section has none.
func ParseDocument(data []byte, baseDir string) (*Document, error) {
	var raw rawDocument
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	s := raw.sections
	if raw.CLM != nil {
		s = *raw.CLM
	}

	doc := &Document{
		BaseDir:  baseDir,
		Abstract: s.Abstract,
		Runtimes: s.Concrete.Runtimes,
		Examples: s.Balanced.Examples,
	}
	if len(doc.Examples) == 0 {
		doc.Examples = raw.Examples
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Validate checks that the document names at least one runtime
// and one example, that runtime names are unique and that every
// example is well formed.
func (d *Document) Validate() error {
	if len(d.Runtimes) == 0 {
		return fmt.Errorf(
			"%w: missing runtimes configuration", ErrInvalidDocument,
		)
	}
	if len(d.Examples) == 0 {
		return fmt.Errorf(
			"%w: missing examples configuration", ErrInvalidDocument,
		)
	}

	seen := make(map[string]bool, len(d.Runtimes))
	for i, rt := range d.Runtimes {
		if err := rt.Validate(); err != nil {
			return fmt.Errorf(
				"%w: runtime %d: %w", ErrInvalidDocument, i+1, err,
			)
		}
		if seen[rt.Name] {
			return fmt.Errorf(
				"%w: duplicate runtime: %s", ErrInvalidDocument, rt.Name,
			)
		}
		seen[rt.Name] = true
	}

	for i, ex := range d.Examples {
		if err := ex.Validate(); err != nil {
			return fmt.Errorf(
				"%w: example %d: %w", ErrInvalidDocument, i+1, err,
			)
		}
	}
	return nil
}

// RuntimeNames returns the configured runtime names in order.
func (d *Document) RuntimeNames() []string {
	names := make([]string, len(d.Runtimes))
	for i, rt := range d.Runtimes {
		names[i] = rt.Name
	}
	return names
}
