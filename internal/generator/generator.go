// Package generator serializes metadata documents into the artifacts consumed
// by the engine runtime.
package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/models"
)

// Format selects the serialization of the emitted document
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a configuration value into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", errors.ConfigurationError("format", fmt.Sprintf("unsupported output format '%s'", s)).
			WithSuggestion("Use 'json' or 'yaml'")
	}
}

// The wire shapes mirror the runtime's reader, which stores components as an
// ordered list of key/value pairs.
type document struct {
	Components []entry `json:"Components" yaml:"Components"`
}

type entry struct {
	Key   string  `json:"key" yaml:"key"`
	Value []field `json:"value" yaml:"value"`
}

type field struct {
	Name          string `json:"Name" yaml:"Name"`
	Type          string `json:"Type" yaml:"Type"`
	FieldTypeEnum int    `json:"FieldTypeEnum" yaml:"FieldTypeEnum"`
}

// Emitter implements MetadataEmitter for one Format
type Emitter struct {
	Format Format
}

// NewEmitter creates an emitter for format
func NewEmitter(format Format) *Emitter {
	return &Emitter{Format: format}
}

// Emit serializes doc in the emitter's format
func (e *Emitter) Emit(doc *models.MetadataDocument) ([]byte, error) {
	switch e.Format {
	case FormatYAML:
		return EmitYAML(doc)
	case FormatJSON, "":
		return Emit(doc)
	default:
		return nil, errors.NewGenerationError("encode", string(e.Format),
			fmt.Errorf("unsupported output format '%s'", e.Format))
	}
}

// Extension returns the file extension for the emitter's format
func (e *Emitter) Extension() string {
	if e.Format == FormatYAML {
		return ".yaml"
	}
	return ".json"
}

// Emit renders doc as indented JSON with a trailing newline
func Emit(doc *models.MetadataDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	// Template arguments such as Handle<Texture> must stay readable.
	enc.SetEscapeHTML(false)

	if err := enc.Encode(wireDocument(doc)); err != nil {
		return nil, errors.NewGenerationError("encode", "json", err)
	}
	return buf.Bytes(), nil
}

// EmitYAML renders doc as YAML with the same structure as Emit
func EmitYAML(doc *models.MetadataDocument) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(wireDocument(doc)); err != nil {
		return nil, errors.NewGenerationError("encode", "yaml", err)
	}
	if err := enc.Close(); err != nil {
		return nil, errors.NewGenerationError("encode", "yaml", err)
	}
	return buf.Bytes(), nil
}

func wireDocument(doc *models.MetadataDocument) document {
	out := document{Components: make([]entry, 0)}
	if doc == nil {
		return out
	}
	for _, c := range doc.Components {
		e := entry{Key: c.QualifiedName, Value: make([]field, 0, len(c.Fields))}
		for _, f := range c.Fields {
			e.Value = append(e.Value, field{Name: f.Name, Type: f.Type, FieldTypeEnum: int(f.Kind)})
		}
		out.Components = append(out.Components, e)
	}
	return out
}
