package extract

import (
	"fmt"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/sitewright/queryscan/internal/lang"
	"github.com/sitewright/queryscan/internal/parser"
)

// rawFind is one located fragment before normalization. fragment is the
// template_string node; enclosing is the tagged-template call expression
// around it, which anchors the location key.
type rawFind struct {
	kind      Kind
	fragment  *tree_sitter.Node
	enclosing *tree_sitter.Node
}

// fileScan holds the per-file traversal state: the parsed tree, the
// variable-binding map built once up front, and the import facts the
// passes and the normalizer consult.
type fileScan struct {
	root   *tree_sitter.Node
	source []byte
	spec   *lang.DialectSpec
	opts   Options

	// bindings maps a local variable name to its tagged-fragment
	// initializer, so identifier indirection resolves in O(1) instead of
	// re-traversing the file per candidate.
	bindings map[string]rawFind
	// tagImported is false when the file uses the tag without importing it
	// (the deprecated bare-global form).
	tagImported bool
	// hookImported is true when the hook name resolves to an import from
	// the expected module.
	hookImported bool
}

func newFileScan(res *parser.Result, opts Options) *fileScan {
	s := &fileScan{
		root:   res.Tree.RootNode(),
		source: res.Source,
		spec:   res.Spec,
		opts:   opts,
	}
	s.tagImported = s.importedFrom(opts.Tag, "")
	s.hookImported = s.importedFrom(opts.Hook, opts.Module)
	s.buildBindings()
	return s
}

// locate runs the three traversal passes in fixed order. The order matters
// for diagnostic ordering and for which duplicate wins, not for coverage.
func (s *fileScan) locate(filePath string, rep Reporter) []rawFind {
	var finds []rawFind
	finds = append(finds, s.componentPass(filePath, rep)...)
	finds = append(finds, s.hookPass(filePath, rep)...)
	finds = append(finds, s.pagePass()...)
	return finds
}

// taggedTemplate returns the template node if n is a tagged template
// literal whose tag is the configured identifier, else nil.
func (s *fileScan) taggedTemplate(n *tree_sitter.Node) *tree_sitter.Node {
	if n == nil || n.Kind() != s.spec.CallNodeType {
		return nil
	}
	fn := n.ChildByFieldName("function")
	if fn == nil || fn.Kind() != "identifier" || parser.NodeText(fn, s.source) != s.opts.Tag {
		return nil
	}
	args := n.ChildByFieldName("arguments")
	if args == nil || args.Kind() != s.spec.TemplateNodeType {
		return nil
	}
	return args
}

// buildBindings walks the file once and records every variable declarator
// whose initializer is a tagged fragment.
func (s *fileScan) buildBindings() {
	s.bindings = make(map[string]rawFind)
	parser.Walk(s.root, func(n *tree_sitter.Node) bool {
		if n.Kind() != s.spec.DeclaratorNodeType {
			return true
		}
		nameNode := n.ChildByFieldName("name")
		valueNode := n.ChildByFieldName("value")
		if nameNode == nil || nameNode.Kind() != "identifier" {
			return true
		}
		template := s.taggedTemplate(valueNode)
		if template == nil {
			return true
		}
		s.bindings[parser.NodeText(nameNode, s.source)] = rawFind{
			fragment:  template,
			enclosing: valueNode,
		}
		return false
	})
}

// importedFrom reports whether name is bound by an import statement. When
// module is non-empty, only imports whose source is that module count.
func (s *fileScan) importedFrom(name, module string) bool {
	found := false
	parser.Walk(s.root, func(n *tree_sitter.Node) bool {
		if found {
			return false
		}
		if n.Kind() != s.spec.ImportNodeType {
			return true
		}
		if module != "" {
			src := n.ChildByFieldName("source")
			if src == nil || strings.Trim(parser.NodeText(src, s.source), "\"'`") != module {
				return false
			}
		}
		parser.Walk(n, func(m *tree_sitter.Node) bool {
			if m.Kind() == "identifier" && parser.NodeText(m, s.source) == name {
				found = true
			}
			return !found
		})
		return false
	})
	return found
}

// resolveValue resolves an attribute or argument expression to a fragment.
// Inline tagged fragments resolve directly; bare identifiers resolve
// through the binding map. The second return is the identifier name when
// it could not be traced to a fragment declaration in this file.
func (s *fileScan) resolveValue(expr *tree_sitter.Node) (rawFind, bool, string) {
	if expr == nil {
		return rawFind{}, false, ""
	}
	if template := s.taggedTemplate(expr); template != nil {
		return rawFind{fragment: template, enclosing: expr}, true, ""
	}
	if expr.Kind() != "identifier" {
		return rawFind{}, false, ""
	}
	name := parser.NodeText(expr, s.source)
	// The tag identifier itself is the tag, not a reference to a fragment.
	if name == s.opts.Tag {
		return rawFind{}, false, ""
	}
	if b, ok := s.bindings[name]; ok {
		return b, true, ""
	}
	return rawFind{}, false, name
}

// componentPass finds the static-query component's query attribute.
func (s *fileScan) componentPass(filePath string, rep Reporter) []rawFind {
	elementKinds := make(map[string]bool, len(s.spec.ElementNodeTypes))
	for _, k := range s.spec.ElementNodeTypes {
		elementKinds[k] = true
	}
	if len(elementKinds) == 0 {
		return nil
	}

	var finds []rawFind
	parser.Walk(s.root, func(n *tree_sitter.Node) bool {
		if !elementKinds[n.Kind()] {
			return true
		}
		open := n
		if n.Kind() == "jsx_element" {
			open = childOfKind(n, "jsx_opening_element")
			if open == nil {
				return true
			}
		}
		nameNode := open.ChildByFieldName("name")
		if nameNode == nil || parser.NodeText(nameNode, s.source) != s.opts.Component {
			return true // keep walking: the component may be nested deeper
		}

		expr := s.attributeValue(open, "query")
		find, ok, missing := s.resolveValue(expr)
		if ok {
			find.kind = ComponentQuery
			finds = append(finds, find)
		} else if missing != "" {
			rep.Warn(unresolvedDiagnostic(filePath, missing, "<"+s.opts.Component+">"))
		}
		return true
	})
	return finds
}

// attributeValue returns the expression assigned to the named JSX
// attribute, unwrapping the surrounding jsx_expression braces.
func (s *fileScan) attributeValue(open *tree_sitter.Node, attrName string) *tree_sitter.Node {
	for i := uint(0); i < open.NamedChildCount(); i++ {
		attr := open.NamedChild(i)
		if attr == nil || attr.Kind() != s.spec.AttributeNodeType {
			continue
		}
		name := attr.NamedChild(0)
		if name == nil || parser.NodeText(name, s.source) != attrName {
			continue
		}
		if attr.NamedChildCount() < 2 {
			return nil
		}
		value := attr.NamedChild(attr.NamedChildCount() - 1)
		if value != nil && value.Kind() == "jsx_expression" {
			return value.NamedChild(0)
		}
		return value
	}
	return nil
}

// hookPass finds calls to the query-fetching hook. The hook must resolve to
// an import from the expected module; a same-named local function is not a
// query source.
func (s *fileScan) hookPass(filePath string, rep Reporter) []rawFind {
	if !s.hookImported {
		return nil
	}
	var finds []rawFind
	parser.Walk(s.root, func(n *tree_sitter.Node) bool {
		if n.Kind() != s.spec.CallNodeType {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil || fn.Kind() != "identifier" || parser.NodeText(fn, s.source) != s.opts.Hook {
			return true
		}
		args := n.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() == 0 {
			return true
		}

		find, ok, missing := s.resolveValue(args.NamedChild(0))
		if ok {
			find.kind = HookQuery
			finds = append(finds, find)
		} else if missing != "" {
			rep.Warn(unresolvedDiagnostic(filePath, missing, s.opts.Hook))
		}
		return true
	})
	return finds
}

// pagePass finds fragments written inline inside named export declarations.
// Identifier indirection is not supported for this form.
func (s *fileScan) pagePass() []rawFind {
	var finds []rawFind
	parser.Walk(s.root, func(n *tree_sitter.Node) bool {
		if n.Kind() != s.spec.ExportNodeType {
			return true
		}
		if n.ChildByFieldName("declaration") == nil || hasDefaultKeyword(n) {
			return true // only named export declarations carry page queries
		}
		parser.Walk(n, func(m *tree_sitter.Node) bool {
			if template := s.taggedTemplate(m); template != nil {
				finds = append(finds, rawFind{kind: PageQuery, fragment: template, enclosing: m})
				return false
			}
			return true
		})
		return false
	})
	return finds
}

// hasDefaultKeyword reports whether an export statement is a default
// export. The grammar files default-exported declarations under the same
// declaration field as named ones.
func hasDefaultKeyword(n *tree_sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child != nil && child.Kind() == "default" {
			return true
		}
	}
	return false
}

func childOfKind(n *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < n.NamedChildCount(); i++ {
		child := n.NamedChild(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

func unresolvedDiagnostic(filePath, variable, usage string) Diagnostic {
	return Diagnostic{
		Severity:     SeverityWarning,
		Message:      fmt.Sprintf("variable %q passed to %s in %s could not be traced to a query fragment declared in the same file; fragments imported from other files are not supported", variable, usage, filePath),
		FilePath:     filePath,
		VariableName: variable,
		UsageContext: usage,
	}
}
