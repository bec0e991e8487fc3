package parser

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/models"
	"github.com/novaengine/compmeta/internal/selector"
)

// Options configures the declaration parser
type Options struct {
	// MarkerMacro is the component marker macro; MarkerMacro(Name) is rewritten
	// to the identifier MarkerMacro_Name before parsing.
	MarkerMacro string
	// Lenient adapts trees that contain syntax errors instead of rejecting the file.
	Lenient bool
	// Components decides which syntax errors are fatal: only an error inside a
	// declaration that could be a component rejects the file. Nil means the
	// default selector.
	Components ComponentMatcher
}

// Parser extracts class and struct declarations from C++ translation units
type Parser struct {
	opts   Options
	marker *regexp.Regexp
}

// NewParser creates a new declaration parser
func NewParser(opts Options) *Parser {
	if opts.MarkerMacro == "" {
		opts.MarkerMacro = DefaultMarkerMacro
	}
	if opts.Components == nil {
		opts.Components = selector.New()
	}
	return &Parser{
		opts:   opts,
		marker: regexp.MustCompile(`\b` + regexp.QuoteMeta(opts.MarkerMacro) + `\s*\(\s*([A-Za-z_][A-Za-z0-9_]*)\s*\)`),
	}
}

// MarkerTag returns the identifier prefix produced by marker macro expansion
func (p *Parser) MarkerTag() string {
	return p.opts.MarkerMacro + "_"
}

// ParseFile reads and parses a source file
func (p *Parser) ParseFile(ctx context.Context, path string) (*models.ParsedFile, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", path, err)
	}
	return p.Parse(ctx, path, src)
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(ctx context.Context, filename, source string) (*models.ParsedFile, error) {
	return p.Parse(ctx, filename, []byte(source))
}

// Parse parses one translation unit.
//
// tree-sitter recovers from syntax errors, so an error only rejects the file
// when it lies in a top-level declaration that mentions a component marker;
// anything else is adapted and reported in ParsedFile.Recovered. A stray ';'
// after a member function body is an empty declaration, not an error. A
// lenient parser never rejects a file.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*models.ParsedFile, error) {
	src = p.expandMarker(src)

	// sitter.Parser is not safe for concurrent use, so each call gets its own.
	ts := sitter.NewParser()
	defer ts.Close()
	ts.SetLanguage(cpp.GetLanguage())

	tree, err := ts.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.WrapParseError(path, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	var recovered []error
	if root.HasError() {
		for _, bad := range syntaxErrors(root, nil) {
			if isEmptyDeclaration(bad, src) {
				continue
			}
			if !p.opts.Lenient && p.touchesComponent(bad, src) {
				return nil, syntaxError(path, src, bad)
			}
			recovered = append(recovered, syntaxError(path, src, bad))
		}
	}

	w := &walker{
		src:         src,
		path:        path,
		fileAliases: make(map[string]string),
	}
	w.collectAliases(root, w.fileAliases)
	w.walk(root, nil, nil)

	return &models.ParsedFile{Path: path, Types: w.types, Recovered: recovered}, nil
}

func (p *Parser) expandMarker(src []byte) []byte {
	if !strings.Contains(string(src), p.opts.MarkerMacro) {
		return src
	}
	return p.marker.ReplaceAll(src, []byte(p.opts.MarkerMacro+"_$1"))
}

func syntaxError(path string, src []byte, bad *sitter.Node) *errors.SyntaxError {
	pt := bad.StartPoint()
	loc := errors.SourceLocation{File: path, Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
	token := firstLine(bad.Content(src))
	msg := "syntax error"
	if bad.IsMissing() {
		msg = fmt.Sprintf("syntax error: missing '%s'", bad.Type())
	} else if token != "" {
		msg = fmt.Sprintf("syntax error near '%s'", token)
	}
	return errors.NewSyntaxError(msg).WithLocation(loc).WithToken(token)
}

// syntaxErrors appends the outermost ERROR and every MISSING node under n in
// document order
func syntaxErrors(n *sitter.Node, into []*sitter.Node) []*sitter.Node {
	if n == nil {
		return into
	}
	if n.Type() == nodeError || n.IsMissing() {
		return append(into, n)
	}
	if !n.HasError() {
		return into
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		into = syntaxErrors(n.Child(i), into)
	}
	return into
}

// isEmptyDeclaration reports an ERROR node made of nothing but semicolons
func isEmptyDeclaration(n *sitter.Node, src []byte) bool {
	if n.Type() != nodeError {
		return false
	}
	text := n.Content(src)
	return strings.Contains(text, ";") && strings.Trim(text, "; \t\r\n") == ""
}

// touchesComponent reports whether the top-level declaration holding n names
// anything the component selector would accept
func (p *Parser) touchesComponent(n *sitter.Node, src []byte) bool {
	decl := n
	for parent := decl.Parent(); parent != nil; parent = decl.Parent() {
		if t := parent.Type(); t == nodeTranslation || t == nodeDeclList {
			break
		}
		decl = parent
	}

	words := strings.FieldsFunc(decl.Content(src), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	for _, word := range words {
		candidate := models.ParsedType{
			Name:       word,
			Identifier: word,
			Bases:      []models.BaseSpecifier{{Name: word}},
		}
		if _, ok := p.opts.Components.Matches(candidate); ok {
			return true
		}
	}
	return false
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
