package models

// ParsedFile is the declaration tree of one translation unit
type ParsedFile struct {
	Path  string
	Types []ParsedType
	// Recovered holds the syntax errors the parser worked around. None of them
	// lies in a declaration that could be a component.
	Recovered []error
}

// ParsedType represents one class or struct declaration with a body
type ParsedType struct {
	// Name is the declared name, nested types are spelled "Outer::Inner".
	Name string
	// Namespace is the enclosing namespace ("" for the global namespace).
	Namespace string
	// Identifier is the raw declaration identifier before any marker stripping.
	Identifier string

	Bases         []BaseSpecifier
	PublicMembers []Member

	File string
	Line int
}

// QualifiedName returns the namespace-qualified name used as the de-duplication key
func (t ParsedType) QualifiedName() string {
	return QualifiedName(t.Namespace, t.Name)
}

// BaseSpecifier is one entry of an inheritance list
type BaseSpecifier struct {
	Name string
}

// Member is a public data member of a declared type
type Member struct {
	Name string
	// TypeSpelling is the declared type text, normalized for whitespace.
	TypeSpelling string
	// RawTypeSpelling is the underlying type behind an alias; empty when there is none.
	RawTypeSpelling string
	Line            int
}
