package cli

import (
	"context"
	"time"

	"github.com/novaengine/compmeta/internal/aggregator"
	"github.com/novaengine/compmeta/internal/errors"
	"github.com/novaengine/compmeta/internal/generator"
	"github.com/novaengine/compmeta/internal/models"
	"github.com/novaengine/compmeta/internal/parser"
	"github.com/novaengine/compmeta/internal/utils"
)

// Generator coordinates one metadata extraction run: discover, aggregate,
// emit, write and publish
type Generator struct {
	config        *Config
	parser        *parser.CachingParser
	diagnostics   *utils.DiagnosticSystem
	fileProcessor *utils.FileProcessor
	summary       models.RunSummary
}

// NewGenerator creates a new CLI generator
func NewGenerator(config *Config, diagnostics *utils.DiagnosticSystem) *Generator {
	if diagnostics == nil {
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticSilent)
	}
	return &Generator{
		config:        config,
		parser:        parser.NewCachingParser(parser.NewParser(config.ParserOptions())),
		diagnostics:   diagnostics,
		fileProcessor: utils.NewFileProcessor(),
	}
}

// GetSummary returns the summary of the last run
func (g *Generator) GetSummary() models.RunSummary {
	return g.summary
}

// Run executes the complete generation process. Unparseable files are reported
// and skipped; configuration, write and copy failures abort the run. Files left
// unchanged since a previous Run on the same Generator are not parsed again.
func (g *Generator) Run(ctx context.Context) error {
	startTime := time.Now()
	g.summary = models.RunSummary{}

	format, err := generator.ParseFormat(g.config.Format)
	if err != nil {
		return err
	}

	directories := g.config.Directories
	if len(directories) == 0 {
		directories = []string{"."}
	}
	g.diagnostics.Debug("Scanning directories: %v", directories)

	agg := aggregator.New(
		g.parser,
		g.config.Selector(),
		aggregator.WithWorkers(g.config.Workers),
		aggregator.WithDiagnostics(g.diagnostics),
	)

	result, err := agg.AggregateTree(ctx, aggregator.NewScanner(g.config.ScanPolicy()), directories...)
	if err != nil {
		return err
	}
	g.summary = result.Summary
	stats := g.parser.Stats()
	g.diagnostics.Verbose("Parse cache: %d hits, %d misses", stats.Hits, stats.Misses)

	if result.Summary.FilesScanned == 0 {
		g.diagnostics.Warn("No C++ sources found in %v", directories)
	}
	if !result.Failures.IsEmpty() {
		g.diagnostics.Warn("%d file(s) could not be parsed and were skipped", result.Failures.Count())
	}

	data, err := generator.NewEmitter(format).Emit(result.Document)
	if err != nil {
		return err
	}

	if err := g.fileProcessor.WriteFile(g.config.Output, data); err != nil {
		return errors.NewGenerationError("write", g.config.Output, err)
	}
	g.summary.OutputFile = g.config.Output

	for _, dir := range g.config.CopyTo {
		dst, err := g.fileProcessor.CopyToDir(g.config.Output, dir)
		if err != nil {
			return errors.NewGenerationError("copy", dir, err)
		}
		g.summary.CopiedTo = append(g.summary.CopiedTo, dst)
	}

	g.report(time.Since(startTime))
	return nil
}

func (g *Generator) report(elapsed time.Duration) {
	g.diagnostics.Summary("Generation Summary", g.summary.Stats())

	g.diagnostics.Info("Wrote %s", g.summary.OutputFile)
	if len(g.summary.CopiedTo) > 0 {
		g.diagnostics.Indent()
		for _, dst := range g.summary.CopiedTo {
			g.diagnostics.List("copied to %s", dst)
		}
		g.diagnostics.Unindent()
	}
	g.diagnostics.Success("Extracted %d components in %s", g.summary.ComponentsFound, elapsed.Round(time.Millisecond))
}
