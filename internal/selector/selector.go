// Package selector decides which declared types are components.
package selector

import (
	"strings"

	"github.com/novaengine/compmeta/internal/models"
)

// Default marker names used by the engine
const (
	DefaultMarker     = "IComponent"
	DefaultPoolMarker = "IComponentPool"
	DefaultMacroTag   = "NV_COMPONENT_"
)

// Selector filters parsed types down to components.
//
// A type is a component when a base name contains Marker without containing
// PoolMarker, or, failing that, when its identifier carries MacroTag. Matching
// is textual so qualified and templated base spellings still match.
type Selector struct {
	Marker     string
	PoolMarker string
	MacroTag   string
}

// New creates a selector with the engine's default markers
func New() *Selector {
	return &Selector{
		Marker:     DefaultMarker,
		PoolMarker: DefaultPoolMarker,
		MacroTag:   DefaultMacroTag,
	}
}

// Select returns the components among types, preserving order
func (s *Selector) Select(types []models.ParsedType) []models.ParsedType {
	var selected []models.ParsedType
	for _, t := range types {
		if component, ok := s.Matches(t); ok {
			selected = append(selected, component)
		}
	}
	return selected
}

// Matches reports whether t is a component. Macro-tagged types are returned
// with the tag stripped from their name.
func (s *Selector) Matches(t models.ParsedType) (models.ParsedType, bool) {
	if s.inheritsMarker(t) {
		return t, true
	}
	if s.MacroTag != "" && strings.Contains(t.Identifier, s.MacroTag) {
		stripped := strings.Replace(t.Identifier, s.MacroTag, "", 1)
		t.Name = strings.TrimSuffix(t.Name, t.Identifier) + stripped
		return t, true
	}
	return t, false
}

func (s *Selector) inheritsMarker(t models.ParsedType) bool {
	if s.Marker == "" {
		return false
	}
	for _, base := range t.Bases {
		if !strings.Contains(base.Name, s.Marker) {
			continue
		}
		if s.PoolMarker != "" && strings.Contains(base.Name, s.PoolMarker) {
			continue
		}
		return true
	}
	return false
}
