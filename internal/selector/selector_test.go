package selector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/novaengine/compmeta/internal/models"
)

func parsed(name string, bases ...string) models.ParsedType {
	t := models.ParsedType{Name: name, Identifier: name}
	for _, b := range bases {
		t.Bases = append(t.Bases, models.BaseSpecifier{Name: b})
	}
	return t
}

func TestSelector_Matches(t *testing.T) {
	s := New()

	tests := []struct {
		name     string
		input    models.ParsedType
		selected bool
		expected string
	}{
		{"direct marker", parsed("Transform", "IComponent"), true, "Transform"},
		{"qualified marker", parsed("Position", "nv::ecs::IComponent"), true, "Position"},
		{"templated marker", parsed("Tagged", "IComponentT<Tagged>"), true, "Tagged"},
		{"pool marker", parsed("ComponentPool", "IComponentPool"), false, ""},
		{"qualified pool marker", parsed("Pool", "ecs::IComponentPool"), false, ""},
		{"no bases", parsed("Plain"), false, ""},
		{"unrelated base", parsed("Window", "IWindow"), false, ""},
		{"pool then marker", parsed("Both", "IComponentPool", "IComponent"), true, "Both"},
		{"macro tag", parsed("NV_COMPONENT_Health"), true, "Health"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := s.Matches(tt.input)
			assert.Equal(t, tt.selected, ok)
			if tt.selected {
				assert.Equal(t, tt.expected, got.Name)
			}
		})
	}
}

func TestSelector_MacroTagOnNestedType(t *testing.T) {
	s := New()
	input := models.ParsedType{Name: "Outer::NV_COMPONENT_Inner", Identifier: "NV_COMPONENT_Inner", Namespace: "nv"}

	got, ok := s.Matches(input)
	require.True(t, ok)
	assert.Equal(t, "Outer::Inner", got.Name)
	assert.Equal(t, "nv::Outer::Inner", got.QualifiedName())
}

func TestSelector_BaseMatchTakesPrecedence(t *testing.T) {
	s := New()
	input := parsed("NV_COMPONENT_Dual", "IComponent")

	got, ok := s.Matches(input)
	require.True(t, ok)
	// The base-class rule short-circuits, so the identifier is left alone.
	assert.Equal(t, "NV_COMPONENT_Dual", got.Name)
}

func TestSelector_Select(t *testing.T) {
	s := New()
	types := []models.ParsedType{
		parsed("A", "IComponent"),
		parsed("Pool", "IComponentPool"),
		parsed("B"),
		parsed("NV_COMPONENT_C"),
		parsed("D", "ecs::IComponent"),
	}

	selected := s.Select(types)
	var names []string
	for _, c := range selected {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"A", "C", "D"}, names)
	assert.Empty(t, s.Select(nil))
}

func TestSelector_CustomMarkers(t *testing.T) {
	s := &Selector{Marker: "Reflected", PoolMarker: "ReflectedRegistry"}

	_, ok := s.Matches(parsed("Thing", "Reflected"))
	assert.True(t, ok)
	_, ok = s.Matches(parsed("Registry", "ReflectedRegistry"))
	assert.False(t, ok)
	_, ok = s.Matches(parsed("NV_COMPONENT_X"))
	assert.False(t, ok, "empty macro tag disables the naming rule")
}
