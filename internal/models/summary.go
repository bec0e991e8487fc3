package models

// RunSummary collects counters for one extraction run
type RunSummary struct {
	FilesScanned      int
	FilesParsed       int
	FilesSkipped      int
	FilesRecovered    int
	ComponentsFound   int
	DuplicatesDropped int
	FieldsClassified  int
	UndefinedFields   int
	OutputFile        string
	CopiedTo          []string
}

// Stats returns the summary as display name/value pairs
func (s RunSummary) Stats() map[string]interface{} {
	return map[string]interface{}{
		"Files scanned":      s.FilesScanned,
		"Files parsed":       s.FilesParsed,
		"Files skipped":      s.FilesSkipped,
		"Files recovered":    s.FilesRecovered,
		"Components found":   s.ComponentsFound,
		"Duplicates dropped": s.DuplicatesDropped,
		"Fields classified":  s.FieldsClassified,
		"Undefined fields":   s.UndefinedFields,
	}
}
