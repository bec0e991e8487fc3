// Package aggregator turns a set of C++ source files into a MetadataDocument.
package aggregator

import (
	"context"
	stderrors "errors"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/novaengine/compmeta/internal/classifier"
	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/models"
	"github.com/novaengine/compmeta/internal/parser"
	"github.com/novaengine/compmeta/internal/selector"
	"github.com/novaengine/compmeta/internal/utils"
)

// Aggregator parses files, selects components and de-duplicates them by
// qualified name. Parsing fans out across Workers goroutines; merging is
// sequential over the path-sorted file list so output order never depends on
// scheduling.
type Aggregator struct {
	parser      parser.DeclarationParser
	selector    *selector.Selector
	diagnostics *utils.DiagnosticSystem
	workers     int
}

// Option configures an Aggregator
type Option func(*Aggregator)

// WithWorkers bounds the number of files parsed concurrently. Values below 1
// mean runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(a *Aggregator) {
		a.workers = n
	}
}

// WithDiagnostics sets the sink for per-file and de-duplication diagnostics
func WithDiagnostics(d *utils.DiagnosticSystem) Option {
	return func(a *Aggregator) {
		a.diagnostics = d
	}
}

// New creates an aggregator
func New(p parser.DeclarationParser, s *selector.Selector, opts ...Option) *Aggregator {
	a := &Aggregator{
		parser:   p,
		selector: s,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.workers < 1 {
		a.workers = runtime.NumCPU()
	}
	if a.diagnostics == nil {
		a.diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return a
}

// Result is the outcome of one aggregation run
type Result struct {
	Document *models.MetadataDocument
	Summary  models.RunSummary
	// Failures holds the per-file errors that caused files to be skipped.
	Failures *errors.MultipleErrors
}

type parseResult struct {
	file *models.ParsedFile
	err  error
}

// Aggregate parses files and merges their components. Per-file failures are
// reported and skipped; only context cancellation aborts the run.
func (a *Aggregator) Aggregate(ctx context.Context, files []string) (*Result, error) {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	results, err := a.parseAll(ctx, sorted)
	if err != nil {
		return nil, err
	}

	m := newMerger(a.selector, a.diagnostics)
	for i, res := range results {
		m.summary.FilesScanned++
		if res.err != nil {
			m.summary.FilesSkipped++
			a.diagnostics.Warn("Skipping %s: %v", sorted[i], res.err)
			var metaErr errors.MetaError
			if stderrors.As(res.err, &metaErr) {
				m.failures.Add(metaErr)
			} else {
				m.failures.Add(errors.WrapParseError(sorted[i], res.err))
			}
			continue
		}
		m.summary.FilesParsed++
		if n := len(res.file.Recovered); n > 0 {
			m.summary.FilesRecovered++
			a.diagnostics.Warn("Recovered from %d syntax error(s) outside components in %s: %v", n, sorted[i], res.file.Recovered[0])
		}
		m.add(res.file)
	}

	return &Result{
		Document: &models.MetadataDocument{Components: m.components},
		Summary:  m.summary,
		Failures: m.failures,
	}, nil
}

func (a *Aggregator) parseAll(ctx context.Context, files []string) ([]parseResult, error) {
	results := make([]parseResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			file, err := a.parser.ParseFile(gctx, path)
			results[i] = parseResult{file: file, err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// merger holds the append-only state of the sequential merge step
type merger struct {
	selector    *selector.Selector
	diagnostics *utils.DiagnosticSystem
	seen        map[string]int
	components  []models.ComponentDescriptor
	summary     models.RunSummary
	failures    *errors.MultipleErrors
}

func newMerger(s *selector.Selector, d *utils.DiagnosticSystem) *merger {
	return &merger{
		selector:    s,
		diagnostics: d,
		seen:        make(map[string]int),
		components:  make([]models.ComponentDescriptor, 0),
		failures:    errors.NewMultipleErrors(),
	}
}

func (m *merger) add(file *models.ParsedFile) {
	for _, t := range m.selector.Select(file.Types) {
		name := t.QualifiedName()

		// First declaration wins. Later ones are assumed identical.
		if idx, dup := m.seen[name]; dup {
			m.summary.DuplicatesDropped++
			first := m.components[idx]
			m.diagnostics.Verbose("Duplicate component %s in %s:%d, keeping %s:%d",
				name, t.File, t.Line, first.SourceFile, first.Line)
			if !sameFields(first.Fields, t.PublicMembers) {
				m.diagnostics.Warn("Component %s declared differently in %s and %s; keeping the first",
					name, first.SourceFile, t.File)
			}
			continue
		}

		component := models.ComponentDescriptor{
			QualifiedName: name,
			Fields:        make([]models.FieldDescriptor, 0, len(t.PublicMembers)),
			SourceFile:    t.File,
			Line:          t.Line,
		}
		for _, member := range t.PublicMembers {
			field := classifier.Field(member.Name, member.TypeSpelling, member.RawTypeSpelling)
			m.summary.FieldsClassified++
			if field.Kind == models.FieldUndefined {
				m.summary.UndefinedFields++
				m.diagnostics.Verbose("%s.%s: unrecognized type '%s'", name, field.Name, field.Type)
			}
			component.Fields = append(component.Fields, field)
		}

		m.seen[name] = len(m.components)
		m.components = append(m.components, component)
		m.summary.ComponentsFound++
		m.diagnostics.Debug("Component %s (%d fields) from %s", name, len(component.Fields), t.File)
	}
}

// sameFields compares a kept component against a later declaration by name
// and declared spelling, without classifying the duplicate
func sameFields(kept []models.FieldDescriptor, members []models.Member) bool {
	if len(kept) != len(members) {
		return false
	}
	for i, member := range members {
		if kept[i].Name != member.Name {
			return false
		}
		if kept[i].Type != member.TypeSpelling && kept[i].Type != member.RawTypeSpelling {
			return false
		}
	}
	return true
}
