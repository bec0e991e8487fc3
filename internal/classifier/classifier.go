// Package classifier maps C++ type spellings onto the closed FieldKind taxonomy.
package classifier

import (
	"sort"

	"github.com/novaengine/compmeta/internal/models"
)

// Spellings of the opaque resource handles understood by the runtime
const (
	TextureHandle  = "Handle<Texture>"
	MeshHandle     = "Handle<Mesh>"
	MaterialHandle = "Handle<Material>"
)

// table is matched by exact string comparison. Spellings are expected to be
// normalized by the parser before lookup.
var table = map[string]models.FieldKind{
	"float":        models.FieldFloat,
	"float2":       models.FieldFloat2,
	"float3":       models.FieldFloat3,
	"float4":       models.FieldFloat4,
	"string":       models.FieldString,
	"std::string":  models.FieldString,
	"int":          models.FieldInt,
	"int32_t":      models.FieldInt,
	"uint32_t":     models.FieldUInt,
	"bool":         models.FieldBool,
	"int64_t":      models.FieldInt64,
	"uint64_t":     models.FieldUInt64,
	TextureHandle:  models.FieldHandleTexture,
	MeshHandle:     models.FieldHandleMesh,
	MaterialHandle: models.FieldHandleMaterial,
}

// Classify returns the reported type spelling and kind for a field.
//
// The declared spelling is looked up first. If it is unknown and a raw spelling
// is given, the raw spelling is looked up and, on a hit, replaces the reported
// spelling. Anything else is Undefined with the declared spelling unchanged.
func Classify(typeSpelling, rawTypeSpelling string) (string, models.FieldKind) {
	if kind, ok := table[typeSpelling]; ok {
		return typeSpelling, kind
	}
	if rawTypeSpelling != "" {
		if kind, ok := table[rawTypeSpelling]; ok {
			return rawTypeSpelling, kind
		}
	}
	return typeSpelling, models.FieldUndefined
}

// Field builds a FieldDescriptor for a member
func Field(name, typeSpelling, rawTypeSpelling string) models.FieldDescriptor {
	reported, kind := Classify(typeSpelling, rawTypeSpelling)
	return models.FieldDescriptor{Name: name, Type: reported, Kind: kind}
}

// Entry is one row of the classification table
type Entry struct {
	Spelling string
	Kind     models.FieldKind
}

// Table returns the classification table ordered by kind, then spelling
func Table() []Entry {
	entries := make([]Entry, 0, len(table))
	for spelling, kind := range table {
		entries = append(entries, Entry{Spelling: spelling, Kind: kind})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Kind != entries[j].Kind {
			return entries[i].Kind < entries[j].Kind
		}
		return entries[i].Spelling < entries[j].Spelling
	})
	return entries
}
