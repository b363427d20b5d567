package parser

import (
	"errors"
	"fmt"
	"path/filepath"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sitewright/queryscan/internal/lang"
)

// Preprocessor rewrites raw source into zero or more candidate variants
// before parsing. It is the hook for source dialects the base grammars
// cannot read directly. An empty result means "parse the source as-is".
type Preprocessor interface {
	Name() string
	Preprocess(filePath string, source []byte) [][]byte
}

// Result is the outcome of a successful Adapter.Parse call. Source is the
// byte slice the tree was actually parsed from; when a preprocessor rewrote
// the file, node offsets refer to this variant, not the on-disk text.
type Result struct {
	Tree     *tree_sitter.Tree
	Source   []byte
	Language lang.Language
	Spec     *lang.DialectSpec
}

// Close releases the underlying tree.
func (r *Result) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// Adapter turns file text into an AST, running registered preprocessors
// first. Each preprocessor's candidates are tried in registration order and
// the first candidate that parses cleanly wins; only when every candidate
// from every preprocessor fails are the combined failures returned.
type Adapter struct {
	preprocessors []Preprocessor
}

// NewAdapter creates an Adapter with the given preprocessors. Order matters:
// an earlier preprocessor's clean candidate wins over a later one's.
func NewAdapter(pre ...Preprocessor) *Adapter {
	return &Adapter{preprocessors: pre}
}

// Parse parses the source for filePath, resolving the dialect from the file
// extension. The caller owns the returned Result and must Close it.
func (a *Adapter) Parse(filePath string, source []byte) (*Result, error) {
	ext := filepath.Ext(filePath)
	spec := lang.ForExtension(ext)
	if spec == nil {
		return nil, fmt.Errorf("unsupported file extension %q", ext)
	}

	var errs []error
	preprocessed := false
	for _, pre := range a.preprocessors {
		candidates := pre.Preprocess(filePath, source)
		if len(candidates) == 0 {
			continue
		}
		preprocessed = true
		res, err := a.parseCandidates(pre.Name(), spec, candidates)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		return res, nil
	}
	if preprocessed {
		return nil, fmt.Errorf("parse %s: no preprocessed candidate parsed: %w", filePath, errors.Join(errs...))
	}

	tree, err := parseClean(spec.Language, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	return &Result{Tree: tree, Source: source, Language: spec.Language, Spec: spec}, nil
}

// parseCandidates tries each preprocessed variant in order and returns the
// first that parses without error.
func (a *Adapter) parseCandidates(preName string, spec *lang.DialectSpec, candidates [][]byte) (*Result, error) {
	var errs []error
	for i, candidate := range candidates {
		tree, err := parseClean(spec.Language, candidate)
		if err != nil {
			errs = append(errs, fmt.Errorf("candidate %d from %s: %w", i, preName, err))
			continue
		}
		return &Result{Tree: tree, Source: candidate, Language: spec.Language, Spec: spec}, nil
	}
	return nil, errors.Join(errs...)
}

// parseClean parses source and rejects trees containing syntax errors.
// Tree-sitter always produces a tree; a root with ERROR nodes means the
// file uses syntax the grammar cannot read.
func parseClean(l lang.Language, source []byte) (*tree_sitter.Tree, error) {
	tree, err := Parse(l, source)
	if err != nil {
		return nil, err
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("syntax error in source (unsupported dialect?)")
	}
	return tree, nil
}
