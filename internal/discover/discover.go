package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/sitewright/queryscan/internal/lang"
)

// IGNORE_PATTERNS are directory names to skip during discovery. Generated
// output and dependency trees never carry authored query fragments.
var IGNORE_PATTERNS = map[string]bool{
	".cache": true, ".git": true, ".hg": true, ".idea": true,
	".next": true, ".npm": true, ".pnpm-store": true, ".svn": true,
	".vscode": true, ".yarn": true, "bower_components": true,
	"build": true, "coverage": true, "dist": true,
	"node_modules": true, "out": true, "public": true,
	"static": true, "tmp": true,
}

// IGNORE_SUFFIXES are file suffixes to skip.
var IGNORE_SUFFIXES = map[string]bool{
	".tmp": true, "~": true, ".min.js": true, ".d.ts": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to the source root
	Language lang.Language // detected dialect
}

// Options configures file discovery.
type Options struct {
	IgnoreFile    string   // path to a .queryscanignore file (optional)
	ExtraPatterns []string // additional ignore patterns, e.g. from config
}

// shouldSkipDir returns true if the directory should be skipped during discovery.
func shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if IGNORE_PATTERNS[name] {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks a source root and returns all files in a supported dialect.
func Discover(ctx context.Context, rootPath string, opts *Options) ([]FileInfo, error) {
	rootPath, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Load .queryscanignore patterns if present
	var extraIgnore []string
	if opts != nil && opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		ignPath := filepath.Join(rootPath, ".queryscanignore")
		extraIgnore, _ = loadIgnoreFile(ignPath)
	}
	if opts != nil {
		extraIgnore = append(extraIgnore, opts.ExtraPatterns...)
	}

	var files []FileInfo

	err = filepath.Walk(rootPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(rootPath, path)

		if info.IsDir() {
			if shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		for suffix := range IGNORE_SUFFIXES {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}

		ext := filepath.Ext(path)
		if l, ok := lang.LanguageForExtension(ext); ok {
			files = append(files, FileInfo{
				Path:     path,
				RelPath:  filepath.ToSlash(rel),
				Language: l,
			})
		}
		return nil
	})

	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
