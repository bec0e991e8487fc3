package parser

// DefaultMarkerMacro is the macro that tags a struct as a component without a base class
const DefaultMarkerMacro = "NV_COMPONENT"

// maxAliasDepth bounds transitive alias resolution
const maxAliasDepth = 8

// tree-sitter node types used by the walker
const (
	nodeNamespace      = "namespace_definition"
	nodeClass          = "class_specifier"
	nodeStruct         = "struct_specifier"
	nodeUnion          = "union_specifier"
	nodeEnum           = "enum_specifier"
	nodeField          = "field_declaration"
	nodeAccess         = "access_specifier"
	nodeBaseClause     = "base_class_clause"
	nodeAlias          = "alias_declaration"
	nodeTypedef        = "type_definition"
	nodeStorageClass   = "storage_class_specifier"
	nodeFunctionDef    = "function_definition"
	nodeCompound       = "compound_statement"
	nodeTemplateDecl   = "template_declaration"
	nodeFieldIdent     = "field_identifier"
	nodeTypeIdent      = "type_identifier"
	nodeQualifiedType  = "qualified_type_identifier"
	nodeQualifiedIdent = "qualified_identifier"
	nodeTemplateType   = "template_type"
	nodeArrayDecl      = "array_declarator"
	nodePointerDecl    = "pointer_declarator"
	nodeReferenceDecl  = "reference_declarator"
	nodeTypeQualifier  = "type_qualifier"
	nodePreprocIf      = "preproc_if"
	nodePreprocIfdef   = "preproc_ifdef"
	nodePreprocElse    = "preproc_else"
	nodePreprocElif    = "preproc_elif"
	nodePreprocElifdef = "preproc_elifdef"
	nodeTranslation    = "translation_unit"
	nodeDeclList       = "declaration_list"
	nodeError          = "ERROR"
	fieldName          = "name"
	fieldBody          = "body"
	fieldType          = "type"
	fieldDeclarator    = "declarator"
	fieldSize          = "size"
	accessPublic       = "public"
	storageStatic      = "static"
	storageExtern      = "extern"
	storageThreadLocal = "thread_local"
)
