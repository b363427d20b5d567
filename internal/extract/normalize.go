package extract

import (
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	"github.com/zeebo/xxh3"
)

// normalize turns a located fragment into a Fragment record: canonical
// name, content hash, provenance, location key.
func (s *fileScan) normalize(f rawFind, filePath string) Fragment {
	text := templateText(f.fragment, s.source)
	hash := hashText(text)

	name := operationName(text)
	if name == "" {
		// Generated names are a pure function of file identity and fragment
		// content, so re-extraction of unchanged content is stable.
		name = componentName(filePath) + hash
	}

	pos := f.fragment.StartPosition()
	return Fragment{
		Name:        name,
		Kind:        f.kind,
		SourceText:  text,
		ContentHash: hash,
		LocationKey: fmt.Sprintf("%d-%d", f.enclosing.StartByte(), f.fragment.StartByte()),
		FilePath:    filePath,
		Line:        int(pos.Row) + 1,
		Column:      int(pos.Column) + 1,
	}
}

// templateText returns the template interior with the backticks stripped.
func templateText(node *tree_sitter.Node, source []byte) string {
	text := string(source[node.StartByte():node.EndByte()])
	text = strings.TrimPrefix(text, "`")
	text = strings.TrimSuffix(text, "`")
	return text
}

// hashText returns the hex xxh3 digest of s.
func hashText(s string) string {
	h := xxh3.New()
	_, _ = h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

// operationName extracts the author-written definition name from query
// text, or "" for anonymous definitions. The fragment body is otherwise
// opaque to the extractor.
func operationName(src string) string {
	fields := strings.Fields(src)
	if len(fields) < 2 {
		return ""
	}
	switch fields[0] {
	case "query", "mutation", "subscription", "fragment":
	default:
		return ""
	}
	name := fields[1]
	for i, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			name = name[:i]
			break
		}
	}
	return name
}

// componentName derives a camelCase identifier from the file path, used as
// the prefix of generated fragment names. Index files take their directory
// name so the result stays meaningful.
func componentName(filePath string) string {
	base := strings.TrimSuffix(filepath.Base(filePath), filepath.Ext(filePath))
	if base == "index" {
		if dir := filepath.Base(filepath.Dir(filePath)); dir != "." && dir != string(filepath.Separator) {
			base = dir
		}
	}

	var b strings.Builder
	upperNext := false
	for _, r := range base {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upperNext = b.Len() > 0
			continue
		}
		switch {
		case b.Len() == 0:
			b.WriteRune(unicode.ToLower(r))
		case upperNext:
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "anonymous"
	}
	return b.String()
}
