package aggregator

import "context"

// AggregateTree scans roots with the scanner and aggregates every discovered file
func (a *Aggregator) AggregateTree(ctx context.Context, scanner *Scanner, roots ...string) (*Result, error) {
	files, err := scanner.Scan(roots...)
	if err != nil {
		return nil, err
	}
	a.diagnostics.Verbose("Discovered %d source files", len(files))
	return a.Aggregate(ctx, files)
}
