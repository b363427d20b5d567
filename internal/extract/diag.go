package extract

import (
	"log/slog"
	"sync"
)

// Severity grades a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Diagnostic is a warning or error record tied to one file. VariableName and
// UsageContext are set for unresolved-reference warnings only.
type Diagnostic struct {
	Severity     Severity
	Message      string
	FilePath     string
	VariableName string
	UsageContext string
}

// Reporter is the diagnostic side channel. It is the only externally
// observable effect of extraction besides the returned documents.
// Implementations must be safe for concurrent use: batch extraction reports
// from multiple goroutines.
type Reporter interface {
	// ExtractionSucceeded signals that a file produced a non-empty document,
	// clearing any prior stale marker the surrounding system holds.
	ExtractionSucceeded(filePath string)
	// ExtractionFailed signals a read or parse failure for a file.
	ExtractionFailed(filePath string)
	Warn(d Diagnostic)
	Error(d Diagnostic)
}

// LogReporter reports diagnostics through slog.
type LogReporter struct{}

func (LogReporter) ExtractionSucceeded(filePath string) {
	slog.Debug("extract.ok", "file", filePath)
}

func (LogReporter) ExtractionFailed(filePath string) {
	slog.Warn("extract.failed", "file", filePath)
}

func (LogReporter) Warn(d Diagnostic) {
	slog.Warn("extract.diag", "file", d.FilePath, "msg", d.Message)
}

func (LogReporter) Error(d Diagnostic) {
	slog.Error("extract.diag", "file", d.FilePath, "msg", d.Message)
}

// Collector accumulates diagnostics in memory, for tests and for callers
// that surface them after a batch completes.
type Collector struct {
	mu        sync.Mutex
	diags     []Diagnostic
	succeeded []string
	failed    []string
}

func (c *Collector) ExtractionSucceeded(filePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.succeeded = append(c.succeeded, filePath)
}

func (c *Collector) ExtractionFailed(filePath string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed = append(c.failed, filePath)
}

func (c *Collector) Warn(d Diagnostic) {
	d.Severity = SeverityWarning
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

func (c *Collector) Error(d Diagnostic) {
	d.Severity = SeverityError
	c.mu.Lock()
	defer c.mu.Unlock()
	c.diags = append(c.diags, d)
}

// Diagnostics returns a copy of the collected diagnostics.
func (c *Collector) Diagnostics() []Diagnostic {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Diagnostic, len(c.diags))
	copy(out, c.diags)
	return out
}

// Succeeded returns the files that signalled extraction success.
func (c *Collector) Succeeded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.succeeded))
	copy(out, c.succeeded)
	return out
}

// Failed returns the files that signalled extraction failure.
func (c *Collector) Failed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.failed))
	copy(out, c.failed)
	return out
}
