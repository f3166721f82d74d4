package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scalar is a string field that accepts any YAML scalar. Channel numbers,
// ref ids and broadcast dates are commonly written unquoted (42, 2016-08-05)
// and would otherwise decode as ints or timestamps; Scalar keeps the literal
// text as it appears in the document.
type Scalar string

func (s *Scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar value", value.Line)
	}
	// An explicit null ("null", "~", empty) means absent, not the word "null".
	if value.Tag == "!!null" {
		*s = ""
		return nil
	}
	*s = Scalar(value.Value)
	return nil
}

// StreamDef is one stream entry of a channel definition.
type StreamDef struct {
	ID            Scalar `yaml:"id"`
	Collection    string `yaml:"collection"`
	URL           string `yaml:"url"`
	Source        string `yaml:"source"`
	Runtime       string `yaml:"runtime"`
	Network       string `yaml:"network"`
	BroadcastDate Scalar `yaml:"broadcast_date"`
	Notes         string `yaml:"notes"`
}

// ChannelDef is one channel definition from a catalog document.
type ChannelDef struct {
	Number      Scalar      `yaml:"number"`
	Name        string      `yaml:"name"`
	Group       string      `yaml:"group"`
	Description string      `yaml:"description"`
	Enabled     *bool       `yaml:"enabled"`
	Streams     []StreamDef `yaml:"streams"`
}

// IsEnabled reports the channel's enabled flag, defaulting to true when the
// document omits it.
func (c *ChannelDef) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// Document is a parsed catalog document.
type Document struct {
	Channels []ChannelDef `yaml:"channels"`
}

// Load reads and parses the catalog document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog document: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog document. Unknown keys are ignored so
// documents can carry annotations the importer does not care about. Syntax
// and type errors come back as a *ValidationError listing every decode
// problem yaml reported.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) {
			return nil, &ValidationError{Violations: typeErr.Errors}
		}
		return nil, &ValidationError{Violations: []string{err.Error()}}
	}
	return &doc, nil
}
