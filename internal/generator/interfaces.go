package generator

import "github.com/novaengine/compmeta/internal/models"

// MetadataEmitter defines the interface for serializing a metadata document
type MetadataEmitter interface {
	Emit(doc *models.MetadataDocument) ([]byte, error)
	Extension() string
}
