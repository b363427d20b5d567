package store

import (
	"fmt"

	"github.com/sitewright/queryscan/internal/extract"
)

// Definition is one persisted query definition row.
type Definition struct {
	ID          int64
	FilePath    string
	Name        string
	Kind        string
	ContentHash string
	LocationKey string
	SourceText  string
	Line        int
	Column      int
}

// ReplaceFileDocument replaces all definitions registered for a file with
// the given document's fragments, in one transaction. A nil document clears
// the file's definitions but keeps the hash so no-fragment files are not
// rescanned downstream.
func (s *Store) ReplaceFileDocument(filePath, contentHash string, doc *extract.Document) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(
		`INSERT INTO files (path, content_hash, scanned_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET content_hash = excluded.content_hash, scanned_at = excluded.scanned_at`,
		filePath, contentHash, Now(),
	); err != nil {
		return fmt.Errorf("upsert file: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM definitions WHERE file_path = ?`, filePath); err != nil {
		return fmt.Errorf("clear definitions: %w", err)
	}

	if doc != nil {
		for _, f := range doc.Definitions {
			if _, err := tx.Exec(
				`INSERT INTO definitions (file_path, name, kind, content_hash, location_key, source_text, line, col)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				filePath, f.Name, string(f.Kind), f.ContentHash, f.LocationKey, f.SourceText, f.Line, f.Column,
			); err != nil {
				return fmt.Errorf("insert definition %s: %w", f.Name, err)
			}
		}
	}

	return tx.Commit()
}

// DeleteFile removes a file and (via cascade) its definitions.
func (s *Store) DeleteFile(filePath string) error {
	_, err := s.db.Exec(`DELETE FROM files WHERE path = ?`, filePath)
	return err
}

// ListDefinitions returns all registered definitions ordered by file then
// location, so output is reproducible across runs.
func (s *Store) ListDefinitions() ([]Definition, error) {
	rows, err := s.db.Query(
		`SELECT id, file_path, name, kind, content_hash, location_key, source_text, line, col
		 FROM definitions ORDER BY file_path, line, col`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.FilePath, &d.Name, &d.Kind, &d.ContentHash, &d.LocationKey, &d.SourceText, &d.Line, &d.Column); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// DefinitionsForFile returns the definitions registered for one file.
func (s *Store) DefinitionsForFile(filePath string) ([]Definition, error) {
	rows, err := s.db.Query(
		`SELECT id, file_path, name, kind, content_hash, location_key, source_text, line, col
		 FROM definitions WHERE file_path = ? ORDER BY line, col`, filePath)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var defs []Definition
	for rows.Next() {
		var d Definition
		if err := rows.Scan(&d.ID, &d.FilePath, &d.Name, &d.Kind, &d.ContentHash, &d.LocationKey, &d.SourceText, &d.Line, &d.Column); err != nil {
			return nil, err
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// GetFileHashes returns the stored content hash per file path.
func (s *Store) GetFileHashes() (map[string]string, error) {
	rows, err := s.db.Query(`SELECT path, content_hash FROM files`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]string)
	for rows.Next() {
		var path, hash string
		if err := rows.Scan(&path, &hash); err != nil {
			return nil, err
		}
		hashes[path] = hash
	}
	return hashes, rows.Err()
}

// CountDefinitions returns the number of registered definitions.
func (s *Store) CountDefinitions() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM definitions`).Scan(&n)
	return n, err
}
