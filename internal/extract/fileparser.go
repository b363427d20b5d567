package extract

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"runtime"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"github.com/sitewright/queryscan/internal/parser"
)

// ParseAdapter turns file text into an AST. Satisfied by *parser.Adapter;
// tests wrap it to count parser invocations.
type ParseAdapter interface {
	Parse(filePath string, source []byte) (*parser.Result, error)
}

// FileParser is the public entry point of the extraction engine. It owns a
// process-wide cache keyed by hash(path, contents) so unchanged files are
// never re-traversed, and reports all failures through its Reporter rather
// than returning them; a failed file yields a nil Document.
type FileParser struct {
	opts     Options
	adapter  ParseAdapter
	cache    Cache
	reporter Reporter
}

// NewFileParser creates a FileParser. Nil collaborators get defaults: a
// preprocessor-free parser adapter, a fresh in-memory cache and a
// slog-backed reporter.
func NewFileParser(opts Options, adapter ParseAdapter, cache Cache, reporter Reporter) *FileParser {
	if adapter == nil {
		adapter = parser.NewAdapter()
	}
	if cache == nil {
		cache = NewMemoryCache()
	}
	if reporter == nil {
		reporter = LogReporter{}
	}
	return &FileParser{opts: opts.withDefaults(), adapter: adapter, cache: cache, reporter: reporter}
}

// ParseFile extracts the query fragments of one file. It returns nil both
// for "no fragments" and for read/parse failures; the diagnostic channel
// distinguishes the two.
func (fp *FileParser) ParseFile(ctx context.Context, filePath string) *Document {
	if ctx.Err() != nil {
		return nil
	}

	source, err := os.ReadFile(filePath)
	if err != nil {
		fp.reporter.Error(Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("failed to read %s: %v", filePath, err),
			FilePath: filePath,
		})
		fp.reporter.ExtractionFailed(filePath)
		return nil
	}

	// Most files never mention the tag; skip AST work for them entirely.
	if !bytes.Contains(source, []byte(fp.opts.Tag)) {
		return nil
	}

	key := cacheKey(filePath, source)
	if doc, ok := fp.cache.Get(key); ok {
		return doc
	}

	res, err := fp.adapter.Parse(filePath, source)
	if err != nil {
		fp.reporter.Error(Diagnostic{
			Severity: SeverityError,
			Message:  fmt.Sprintf("failed to parse %s: %v; the file may use a syntax dialect the parser cannot read", filePath, err),
			FilePath: filePath,
		})
		fp.reporter.ExtractionFailed(filePath)
		return nil
	}
	defer res.Close()

	fragments := NewExtractor(fp.opts, fp.reporter).Extract(res, filePath)

	var doc *Document
	if len(fragments) > 0 {
		doc = &Document{FilePath: filePath, Hash: key, Definitions: fragments}
	}
	// Empty results are cached too: "no fragments" is as stable a fact of
	// this content as any document.
	fp.cache.Put(key, doc)

	if doc != nil {
		fp.reporter.ExtractionSucceeded(filePath)
	}
	return doc
}

// ParseFiles extracts every path concurrently and returns the non-nil
// documents keyed by path. Files are independent; a failure in one never
// aborts the batch.
func (fp *FileParser) ParseFiles(ctx context.Context, paths []string) map[string]*Document {
	if len(paths) == 0 {
		return map[string]*Document{}
	}
	results := make([]*Document, len(paths))

	numWorkers := runtime.NumCPU()
	if numWorkers > len(paths) {
		numWorkers = len(paths)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)
	for i, p := range paths {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			results[i] = fp.ParseFile(gctx, p)
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]*Document, len(paths))
	for i, p := range paths {
		if results[i] != nil {
			out[p] = results[i]
		}
	}
	return out
}

// cacheKey hashes file path and contents together, so a rename and an edit
// both miss the cache.
func cacheKey(filePath string, source []byte) string {
	h := xxh3.New()
	_, _ = h.Write([]byte(filePath))
	_, _ = h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}
