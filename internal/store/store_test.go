package store

import (
	"testing"

	"github.com/sitewright/queryscan/internal/extract"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleDoc(path string) *extract.Document {
	return &extract.Document{
		FilePath: path,
		Hash:     "hash1",
		Definitions: []extract.Fragment{
			{
				Name:        "HomePage",
				Kind:        extract.PageQuery,
				SourceText:  "query HomePage { site { title } }",
				ContentHash: "abc123",
				LocationKey: "40-48",
				FilePath:    path,
				Line:        3,
				Column:      22,
			},
			{
				Name:        "headerdeadbeef",
				Kind:        extract.ComponentQuery,
				SourceText:  "{ site { title } }",
				ContentHash: "deadbeef",
				LocationKey: "120-128",
				FilePath:    path,
				Line:        9,
				Column:      14,
			},
		},
	}
}

func TestReplaceFileDocumentRoundtrip(t *testing.T) {
	s := testStore(t)

	if err := s.ReplaceFileDocument("src/pages/home.js", "hash1", sampleDoc("src/pages/home.js")); err != nil {
		t.Fatalf("ReplaceFileDocument: %v", err)
	}

	defs, err := s.DefinitionsForFile("src/pages/home.js")
	if err != nil {
		t.Fatalf("DefinitionsForFile: %v", err)
	}
	if len(defs) != 2 {
		t.Fatalf("expected 2 definitions, got %d", len(defs))
	}
	if defs[0].Name != "HomePage" || defs[0].Kind != string(extract.PageQuery) {
		t.Errorf("unexpected first row: %+v", defs[0])
	}
	if defs[1].Line != 9 || defs[1].Column != 14 {
		t.Errorf("position lost: %+v", defs[1])
	}
}

func TestReplaceFileDocumentReplaces(t *testing.T) {
	s := testStore(t)
	path := "src/pages/home.js"

	if err := s.ReplaceFileDocument(path, "hash1", sampleDoc(path)); err != nil {
		t.Fatalf("first replace: %v", err)
	}

	smaller := &extract.Document{
		FilePath: path,
		Hash:     "hash2",
		Definitions: []extract.Fragment{
			{Name: "OnlyOne", Kind: extract.HookQuery, ContentHash: "x", LocationKey: "5-10", SourceText: "{ x }"},
		},
	}
	if err := s.ReplaceFileDocument(path, "hash2", smaller); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	defs, err := s.DefinitionsForFile(path)
	if err != nil {
		t.Fatalf("DefinitionsForFile: %v", err)
	}
	if len(defs) != 1 || defs[0].Name != "OnlyOne" {
		t.Errorf("stale rows survived the replace: %+v", defs)
	}

	hashes, err := s.GetFileHashes()
	if err != nil {
		t.Fatalf("GetFileHashes: %v", err)
	}
	if hashes[path] != "hash2" {
		t.Errorf("expected hash2, got %q", hashes[path])
	}
}

func TestReplaceFileDocumentNilClears(t *testing.T) {
	s := testStore(t)
	path := "src/pages/home.js"

	if err := s.ReplaceFileDocument(path, "hash1", sampleDoc(path)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.ReplaceFileDocument(path, "hash2", nil); err != nil {
		t.Fatalf("nil replace: %v", err)
	}

	n, err := s.CountDefinitions()
	if err != nil {
		t.Fatalf("CountDefinitions: %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 definitions after nil replace, got %d", n)
	}

	// The file row survives so its hash still short-circuits rescans.
	hashes, _ := s.GetFileHashes()
	if hashes[path] != "hash2" {
		t.Errorf("file row should survive with updated hash, got %v", hashes)
	}
}

func TestDeleteFileCascades(t *testing.T) {
	s := testStore(t)
	path := "src/pages/home.js"

	if err := s.ReplaceFileDocument(path, "hash1", sampleDoc(path)); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if err := s.DeleteFile(path); err != nil {
		t.Fatalf("DeleteFile: %v", err)
	}

	n, err := s.CountDefinitions()
	if err != nil {
		t.Fatalf("CountDefinitions: %v", err)
	}
	if n != 0 {
		t.Errorf("cascade delete left %d definitions", n)
	}
}

func TestListDefinitionsOrdering(t *testing.T) {
	s := testStore(t)

	if err := s.ReplaceFileDocument("b.js", "h", sampleDoc("b.js")); err != nil {
		t.Fatalf("replace b: %v", err)
	}
	if err := s.ReplaceFileDocument("a.js", "h", sampleDoc("a.js")); err != nil {
		t.Fatalf("replace a: %v", err)
	}

	defs, err := s.ListDefinitions()
	if err != nil {
		t.Fatalf("ListDefinitions: %v", err)
	}
	if len(defs) != 4 {
		t.Fatalf("expected 4 definitions, got %d", len(defs))
	}
	if defs[0].FilePath != "a.js" || defs[2].FilePath != "b.js" {
		t.Errorf("rows not ordered by file path: %+v", defs)
	}
	if defs[0].Line > defs[1].Line {
		t.Errorf("rows not ordered by line within a file: %+v", defs[:2])
	}
}
