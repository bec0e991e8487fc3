package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// typeSpec is the subset of C++ type syntax that component fields use:
// cv-qualifiers, (global) qualified names, template argument lists and
// pointer/reference suffixes.
type typeSpec struct {
	Qualifiers []string   `parser:"@('const' | 'volatile')*"`
	Global     bool       `parser:"@'::'?"`
	Segments   []*segment `parser:"@@ ( '::' @@ )*"`
	Suffix     []string   `parser:"@('*' | '&' | 'const' | 'volatile')*"`
}

type segment struct {
	Words    []string       `parser:"@Ident+"`
	Template bool           `parser:"( @'<'"`
	Args     []*templateArg `parser:"  ( @@ ( ',' @@ )* )? '>' )?"`
}

type templateArg struct {
	Number *string   `parser:"  @Number"`
	Type   *typeSpec `parser:"| @@"`
}

var typeLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Number", Pattern: `[0-9]+[uUlL]*`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Punct", Pattern: `[<>,*&]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var typeParser = participle.MustBuild[typeSpec](
	participle.Lexer(typeLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// NormalizeType returns the canonical spelling of a C++ type: tokens joined
// without incidental whitespace, so "Handle< Texture >" and "Handle<Texture>"
// compare equal. Spellings outside the supported grammar only have their
// whitespace collapsed.
func NormalizeType(spelling string) string {
	spelling = strings.TrimSpace(spelling)
	if spelling == "" {
		return ""
	}
	spec, err := typeParser.ParseString("", spelling)
	if err != nil {
		return collapseSpace(spelling)
	}
	return spec.String()
}

func (t *typeSpec) String() string {
	var b strings.Builder
	for _, q := range t.Qualifiers {
		b.WriteString(q)
		b.WriteByte(' ')
	}
	if t.Global {
		b.WriteString("::")
	}
	for i, s := range t.Segments {
		if i > 0 {
			b.WriteString("::")
		}
		b.WriteString(s.String())
	}
	for _, s := range t.Suffix {
		if s == "const" || s == "volatile" {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

func (s *segment) String() string {
	name := strings.Join(s.Words, " ")
	if !s.Template {
		return name
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = a.String()
	}
	return name + "<" + strings.Join(args, ",") + ">"
}

func (a *templateArg) String() string {
	if a.Number != nil {
		return *a.Number
	}
	return a.Type.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
