package extract

import (
	"fmt"

	"github.com/sitewright/queryscan/internal/parser"
)

// Extractor locates, normalizes and deduplicates the fragments of a parsed
// file. It holds no per-file state and is safe for concurrent use.
type Extractor struct {
	opts     Options
	reporter Reporter
}

// NewExtractor creates an Extractor. A nil reporter logs through slog.
func NewExtractor(opts Options, reporter Reporter) *Extractor {
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &Extractor{opts: opts.withDefaults(), reporter: reporter}
}

// Extract returns the deduplicated, normalized fragments of one parsed
// file, in traversal order.
func (e *Extractor) Extract(res *parser.Result, filePath string) []Fragment {
	scan := newFileScan(res, e.opts)
	finds := scan.locate(filePath, e.reporter)
	if len(finds) == 0 {
		return nil
	}

	fragments := make([]Fragment, 0, len(finds))
	for _, f := range finds {
		fragments = append(fragments, scan.normalize(f, filePath))
	}
	fragments = Dedupe(fragments)

	// Deprecation warnings count physical uses, so they are emitted after
	// deduplication: a fragment two passes discovered is still one use.
	if !scan.tagImported {
		for range fragments {
			e.reporter.Warn(Diagnostic{
				Severity: SeverityWarning,
				Message:  fmt.Sprintf("%s uses the global %s tag without importing it; the bare-global form is deprecated, import the tag instead", filePath, e.opts.Tag),
				FilePath: filePath,
			})
		}
	}
	return fragments
}
