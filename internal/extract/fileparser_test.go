package extract

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/sitewright/queryscan/internal/parser"
)

// countingAdapter wraps the real adapter and counts invocations, so tests
// can assert the fast path and the cache short-circuit parsing.
type countingAdapter struct {
	inner *parser.Adapter
	calls atomic.Int64
}

func (c *countingAdapter) Parse(filePath string, source []byte) (*parser.Result, error) {
	c.calls.Add(1)
	return c.inner.Parse(filePath, source)
}

func writeFixture(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

const pageFixture = `import { graphql } from "sitewright"

export const query = graphql` + "`" + `
  query HomePage {
    site {
      title
    }
  }
` + "`" + `
`

func TestParseFileFastPathSkipsParser(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "plain.js", `export const answer = 42`)

	adapter := &countingAdapter{inner: parser.NewAdapter()}
	fp := NewFileParser(Options{}, adapter, nil, &Collector{})

	doc := fp.ParseFile(context.Background(), path)
	if doc != nil {
		t.Fatalf("expected nil document, got %+v", doc)
	}
	if n := adapter.calls.Load(); n != 0 {
		t.Errorf("file without the tag substring must not reach the parser, got %d calls", n)
	}
}

func TestParseFileCachesUnchangedContent(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "home.js", pageFixture)

	adapter := &countingAdapter{inner: parser.NewAdapter()}
	fp := NewFileParser(Options{}, adapter, NewMemoryCache(), &Collector{})

	first := fp.ParseFile(context.Background(), path)
	second := fp.ParseFile(context.Background(), path)
	if first == nil || second == nil {
		t.Fatalf("expected documents, got %v and %v", first, second)
	}
	if n := adapter.calls.Load(); n != 1 {
		t.Errorf("unchanged content must hit the cache, got %d parser calls", n)
	}
	if len(first.Definitions) != 1 || first.Definitions[0].Name != "HomePage" {
		t.Errorf("unexpected definitions: %+v", first.Definitions)
	}
}

func TestParseFileReparsesOnContentChange(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "home.js", pageFixture)

	adapter := &countingAdapter{inner: parser.NewAdapter()}
	fp := NewFileParser(Options{}, adapter, NewMemoryCache(), &Collector{})

	first := fp.ParseFile(context.Background(), path)

	changed := `import { graphql } from "sitewright"

export const query = graphql` + "`" + `query HomePageV2 { site { title } }` + "`" + `
`
	writeFixture(t, dir, "home.js", changed)

	second := fp.ParseFile(context.Background(), path)
	if n := adapter.calls.Load(); n != 2 {
		t.Errorf("changed content must be reparsed, got %d parser calls", n)
	}
	if first.Hash == second.Hash {
		t.Errorf("content hash must change with content, both %q", first.Hash)
	}
	if second.Definitions[0].Name != "HomePageV2" {
		t.Errorf("stale extraction result: %+v", second.Definitions)
	}
}

func TestParseFileEmptyResultIsCached(t *testing.T) {
	dir := t.TempDir()
	// Mentions the tag substring but declares no fragment, so the file is
	// parsed once and the empty result pinned in the cache.
	path := writeFixture(t, dir, "mention.js", `// graphql is mentioned here
export const x = 1
`)

	adapter := &countingAdapter{inner: parser.NewAdapter()}
	fp := NewFileParser(Options{}, adapter, NewMemoryCache(), &Collector{})

	if doc := fp.ParseFile(context.Background(), path); doc != nil {
		t.Fatalf("expected nil document, got %+v", doc)
	}
	if doc := fp.ParseFile(context.Background(), path); doc != nil {
		t.Fatalf("expected nil document on second pass, got %+v", doc)
	}
	if n := adapter.calls.Load(); n != 1 {
		t.Errorf("empty result must be cached, got %d parser calls", n)
	}
}

func TestParseFileReadFailure(t *testing.T) {
	collector := &Collector{}
	fp := NewFileParser(Options{}, nil, nil, collector)

	doc := fp.ParseFile(context.Background(), "/nonexistent/nope.js")
	if doc != nil {
		t.Fatalf("expected nil document, got %+v", doc)
	}
	if failed := collector.Failed(); len(failed) != 1 || failed[0] != "/nonexistent/nope.js" {
		t.Errorf("expected a failure signal, got %v", failed)
	}
	diags := collector.Diagnostics()
	if len(diags) != 1 || diags[0].Severity != SeverityError {
		t.Errorf("expected one error diagnostic, got %+v", diags)
	}
}

func TestParseFileSyntaxErrorNotCached(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "broken.js", `const graphql = {{{{`)

	adapter := &countingAdapter{inner: parser.NewAdapter()}
	collector := &Collector{}
	fp := NewFileParser(Options{}, adapter, NewMemoryCache(), collector)

	if doc := fp.ParseFile(context.Background(), path); doc != nil {
		t.Fatalf("expected nil document, got %+v", doc)
	}
	if doc := fp.ParseFile(context.Background(), path); doc != nil {
		t.Fatalf("expected nil document on retry, got %+v", doc)
	}
	// Parse failures are transient from the cache's point of view: each
	// attempt parses again.
	if n := adapter.calls.Load(); n != 2 {
		t.Errorf("expected 2 parser calls, got %d", n)
	}
	if failed := collector.Failed(); len(failed) != 2 {
		t.Errorf("expected 2 failure signals, got %v", failed)
	}
}

func TestParseFileSuccessSignal(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "home.js", pageFixture)

	collector := &Collector{}
	fp := NewFileParser(Options{}, nil, NewMemoryCache(), collector)

	fp.ParseFile(context.Background(), path)
	fp.ParseFile(context.Background(), path)
	// Cache hits return silently; only the fresh extraction signals.
	if succeeded := collector.Succeeded(); len(succeeded) != 1 {
		t.Errorf("expected exactly 1 success signal, got %v", succeeded)
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	withQuery := writeFixture(t, dir, "home.js", pageFixture)
	without := writeFixture(t, dir, "plain.js", `export const x = 1`)
	missing := filepath.Join(dir, "missing.js")

	collector := &Collector{}
	fp := NewFileParser(Options{}, nil, NewMemoryCache(), collector)

	docs := fp.ParseFiles(context.Background(), []string{withQuery, without, missing})
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	doc, ok := docs[withQuery]
	if !ok || len(doc.Definitions) != 1 {
		t.Errorf("expected home.js document, got %+v", docs)
	}
	if failed := collector.Failed(); len(failed) != 1 || failed[0] != missing {
		t.Errorf("expected missing.js failure, got %v", failed)
	}
}

func TestParseFilesEmpty(t *testing.T) {
	fp := NewFileParser(Options{}, nil, nil, &Collector{})
	docs := fp.ParseFiles(context.Background(), nil)
	if len(docs) != 0 {
		t.Fatalf("expected empty map, got %v", docs)
	}
}

func TestParseFileCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fp := NewFileParser(Options{}, nil, nil, &Collector{})
	if doc := fp.ParseFile(ctx, "irrelevant.js"); doc != nil {
		t.Fatalf("expected nil document under cancelled context, got %+v", doc)
	}
}
