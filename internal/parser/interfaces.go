package parser

import (
	"context"

	"github.com/novaengine/compmeta/internal/models"
)

// DeclarationParser turns one translation unit into its tree of declared types
type DeclarationParser interface {
	ParseFile(ctx context.Context, path string) (*models.ParsedFile, error)
}

// ComponentMatcher reports whether a declared type is a component
type ComponentMatcher interface {
	Matches(t models.ParsedType) (models.ParsedType, bool)
}
