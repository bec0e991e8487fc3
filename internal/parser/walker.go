package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/novaengine/compmeta/internal/models"
)

// walker adapts a tree-sitter C++ syntax tree into ParsedTypes
type walker struct {
	src         []byte
	path        string
	fileAliases map[string]string
	types       []models.ParsedType
}

func (w *walker) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(w.src)
}

// walk visits the named children of n looking for namespaces and type
// declarations. Function bodies are never entered.
func (w *walker) walk(n *sitter.Node, namespace []string, outer []string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case nodeNamespace:
			body := child.ChildByFieldName(fieldBody)
			if body == nil {
				continue
			}
			ns := namespace
			if name := w.text(child.ChildByFieldName(fieldName)); name != "" {
				ns = append(append([]string(nil), namespace...), splitScope(name)...)
			}
			w.walk(body, ns, outer)
		case nodeClass, nodeStruct:
			w.visitType(child, namespace, outer)
		case nodeFunctionDef, nodeCompound:
			continue
		default:
			w.walk(child, namespace, outer)
		}
	}
}

// visitType records a class or struct that has a body, then its nested types
func (w *walker) visitType(n *sitter.Node, namespace []string, outer []string) {
	body := n.ChildByFieldName(fieldBody)
	nameNode := n.ChildByFieldName(fieldName)
	if body == nil || nameNode == nil {
		return
	}

	identifier := NormalizeType(w.text(nameNode))
	scope := append(append([]string(nil), outer...), identifier)

	// Reserve the slot so the enclosing type precedes its nested types.
	slot := len(w.types)
	w.types = append(w.types, models.ParsedType{})

	local := make(map[string]string)
	w.collectAliases(body, local)

	parsed := models.ParsedType{
		Name:       strings.Join(scope, "::"),
		Namespace:  strings.Join(namespace, "::"),
		Identifier: identifier,
		Bases:      w.bases(n),
		File:       w.path,
		Line:       int(nameNode.StartPoint().Row) + 1,
	}

	public := n.Type() == nodeStruct
	w.visitBody(body, &parsed, namespace, scope, local, &public)

	w.types[slot] = parsed
}

// visitBody collects the members of a class body. Conditional compilation
// blocks are entered as if their text were inline, and an access specifier
// inside one stays in effect after it.
func (w *walker) visitBody(body *sitter.Node, parsed *models.ParsedType, namespace, scope []string, local map[string]string, public *bool) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case nodeAccess:
			*public = strings.TrimSuffix(strings.TrimSpace(w.text(child)), ":") == accessPublic
		case nodeField:
			if typ := child.ChildByFieldName(fieldType); typ != nil && isTypeSpecifier(typ) {
				w.visitType(typ, namespace, scope)
			}
			if *public {
				parsed.PublicMembers = append(parsed.PublicMembers, w.members(child, local)...)
			}
		case nodeTemplateDecl:
			w.walk(child, namespace, scope)
		case nodePreprocIf, nodePreprocIfdef, nodePreprocElse, nodePreprocElif, nodePreprocElifdef:
			w.visitBody(child, parsed, namespace, scope, local, public)
		}
	}
}

func (w *walker) bases(n *sitter.Node) []models.BaseSpecifier {
	var bases []models.BaseSpecifier
	for i := 0; i < int(n.NamedChildCount()); i++ {
		clause := n.NamedChild(i)
		if clause.Type() != nodeBaseClause {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			base := clause.NamedChild(j)
			switch base.Type() {
			case nodeTypeIdent, nodeQualifiedType, nodeQualifiedIdent, nodeTemplateType:
				bases = append(bases, models.BaseSpecifier{Name: NormalizeType(w.text(base))})
			}
		}
	}
	return bases
}

// members returns one Member per data declarator of a field declaration.
// Static members, methods and bare nested type declarations yield nothing.
func (w *walker) members(field *sitter.Node, local map[string]string) []models.Member {
	typ := field.ChildByFieldName(fieldType)
	if typ == nil {
		return nil
	}

	var before, after []string
	for i := 0; i < int(field.NamedChildCount()); i++ {
		c := field.NamedChild(i)
		switch c.Type() {
		case nodeStorageClass:
			switch strings.TrimSpace(w.text(c)) {
			case storageStatic, storageExtern, storageThreadLocal:
				return nil
			}
		case nodeTypeQualifier:
			if c.StartByte() < typ.StartByte() {
				before = append(before, w.text(c))
			} else {
				after = append(after, w.text(c))
			}
		}
	}

	spelling := w.typeSpelling(typ)
	base := qualify(before, spelling, after)
	raw := ""
	if resolved := w.resolve(spelling, local); resolved != "" {
		raw = qualify(before, resolved, after)
	}

	var out []models.Member
	for i := 0; i < int(field.ChildCount()); i++ {
		if field.FieldNameForChild(i) != fieldDeclarator {
			continue
		}
		name, suffix, ok := w.declarator(field.Child(i))
		if !ok {
			continue
		}
		m := models.Member{
			Name:         name,
			TypeSpelling: base + suffix,
			Line:         int(field.Child(i).StartPoint().Row) + 1,
		}
		if raw != "" {
			m.RawTypeSpelling = raw + suffix
		}
		out = append(out, m)
	}
	return out
}

// declarator unwraps pointer, reference and array declarators down to the
// field identifier. Function declarators are methods and are rejected.
func (w *walker) declarator(n *sitter.Node) (name, suffix string, ok bool) {
	for n != nil {
		switch n.Type() {
		case nodeFieldIdent:
			return w.text(n), suffix, true
		case nodeArrayDecl:
			suffix += "[" + collapseSpace(w.text(n.ChildByFieldName(fieldSize))) + "]"
			n = n.ChildByFieldName(fieldDeclarator)
		case nodePointerDecl:
			suffix += "*"
			n = n.ChildByFieldName(fieldDeclarator)
		case nodeReferenceDecl:
			suffix += strings.TrimSpace(w.text(n.Child(0)))
			n = n.NamedChild(0)
		default:
			return "", "", false
		}
	}
	return "", "", false
}

func (w *walker) typeSpelling(typ *sitter.Node) string {
	if isTypeSpecifier(typ) || typ.Type() == nodeUnion || typ.Type() == nodeEnum {
		// Inline definitions are spelled by their name alone.
		if name := typ.ChildByFieldName(fieldName); name != nil {
			return NormalizeType(w.text(name))
		}
		return strings.SplitN(typ.Type(), "_", 2)[0]
	}
	return NormalizeType(w.text(typ))
}

// collectAliases records `using X = Y;` and `typedef Y X;` declarations found
// under n, without descending into nested type bodies or function bodies.
func (w *walker) collectAliases(n *sitter.Node, into map[string]string) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case nodeAlias:
			name := w.text(child.ChildByFieldName(fieldName))
			target := NormalizeType(w.text(child.ChildByFieldName(fieldType)))
			if name != "" && target != "" {
				into[name] = target
			}
		case nodeTypedef:
			target := NormalizeType(w.text(child.ChildByFieldName(fieldType)))
			for j := 0; j < int(child.ChildCount()); j++ {
				if child.FieldNameForChild(j) != fieldDeclarator {
					continue
				}
				if d := child.Child(j); d.Type() == nodeTypeIdent && target != "" {
					into[w.text(d)] = target
				}
			}
		case nodeClass, nodeStruct, nodeUnion, nodeFunctionDef, nodeCompound:
			continue
		case nodeField:
			continue
		default:
			w.collectAliases(child, into)
		}
	}
}

// resolve follows aliases for a spelling, class-local first. It returns ""
// when the spelling is not an alias.
func (w *walker) resolve(spelling string, local map[string]string) string {
	resolved := ""
	current := spelling
	for depth := 0; depth < maxAliasDepth; depth++ {
		next, ok := local[current]
		if !ok {
			next, ok = w.fileAliases[current]
		}
		if !ok || next == current {
			break
		}
		resolved = next
		current = next
	}
	return resolved
}

// qualify puts the cv-qualifiers written around a type back on its spelling
func qualify(before []string, spelling string, after []string) string {
	if len(before) == 0 && len(after) == 0 {
		return spelling
	}
	parts := append(append(append([]string(nil), before...), spelling), after...)
	return NormalizeType(strings.Join(parts, " "))
}

func isTypeSpecifier(n *sitter.Node) bool {
	t := n.Type()
	return (t == nodeClass || t == nodeStruct) && n.ChildByFieldName(fieldBody) != nil
}

func splitScope(name string) []string {
	var parts []string
	for _, p := range strings.Split(name, "::") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}
