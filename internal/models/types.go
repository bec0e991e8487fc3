package models

import "fmt"

// FieldKind classifies the storage type of a component field for the runtime.
// Ordinals are part of the metadata contract: append new kinds, never reorder.
type FieldKind int

const (
	FieldUndefined FieldKind = iota
	FieldFloat
	FieldInt
	FieldFloat2
	FieldFloat3
	FieldFloat4
	FieldString
	FieldHandleTexture
	FieldHandleMesh
	FieldHandleMaterial
	FieldUInt
	FieldBool
	FieldInt64
	FieldUInt64
)

// FieldKindCount is the number of defined kinds.
const FieldKindCount = int(FieldUInt64) + 1

var fieldKindNames = [FieldKindCount]string{
	"FIELD_UNDEFINED",
	"FIELD_FLOAT",
	"FIELD_INT",
	"FIELD_FLOAT2",
	"FIELD_FLOAT3",
	"FIELD_FLOAT4",
	"FIELD_STRING",
	"FIELD_HANDLE_TEX",
	"FIELD_HANDLE_MESH",
	"FIELD_HANDLE_MAT",
	"FIELD_UINT",
	"FIELD_BOOL",
	"FIELD_INT64",
	"FIELD_UINT64",
}

// String returns the engine-side enumerator name of the kind
func (k FieldKind) String() string {
	if k < 0 || int(k) >= FieldKindCount {
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
	return fieldKindNames[k]
}

// IsValid reports whether k is one of the defined kinds
func (k FieldKind) IsValid() bool {
	return k >= 0 && int(k) < FieldKindCount
}

// FieldDescriptor describes one public field of a component
type FieldDescriptor struct {
	Name string    // field identifier
	Type string    // type spelling as reported by the classifier
	Kind FieldKind // classified kind
}

// ComponentDescriptor describes one discovered component
type ComponentDescriptor struct {
	QualifiedName string
	Fields        []FieldDescriptor

	// Source location of the declaration that won de-duplication.
	// Diagnostics only, never serialized.
	SourceFile string
	Line       int
}

// MetadataDocument is the result of one aggregation run
type MetadataDocument struct {
	Components []ComponentDescriptor
}

// Lookup returns the component with the given qualified name
func (d *MetadataDocument) Lookup(qualifiedName string) (ComponentDescriptor, bool) {
	for _, c := range d.Components {
		if c.QualifiedName == qualifiedName {
			return c, true
		}
	}
	return ComponentDescriptor{}, false
}

// QualifiedName joins a namespace and a declared name the way the runtime keys components.
// An empty namespace still produces the leading separator ("::Transform").
func QualifiedName(namespace, name string) string {
	return namespace + "::" + name
}
