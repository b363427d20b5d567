package lang

// Language represents a supported source dialect.
type Language string

const (
	JavaScript Language = "javascript"
	JSX        Language = "jsx"
	TypeScript Language = "typescript"
	TSX        Language = "tsx"
)

// AllLanguages returns all supported dialects.
func AllLanguages() []Language {
	return []Language{JavaScript, JSX, TypeScript, TSX}
}

// DialectSpec defines the tree-sitter node kinds the extractor consumes
// for one source dialect.
type DialectSpec struct {
	Language       Language
	FileExtensions []string

	// ElementNodeTypes lists JSX element node kinds searched for the
	// static-query component.
	ElementNodeTypes []string
	// AttributeNodeType is the node kind of a JSX attribute.
	AttributeNodeType string
	// CallNodeType is the node kind of a call expression. Tagged template
	// literals also surface as this kind, with a template_string argument.
	CallNodeType string
	// TemplateNodeType is the node kind of a template string literal.
	TemplateNodeType string
	// DeclaratorNodeType is the node kind of a variable declarator.
	DeclaratorNodeType string
	// ExportNodeType is the node kind of an export statement.
	ExportNodeType string
	// ImportNodeType is the node kind of an import statement.
	ImportNodeType string
}

// registry maps file extensions to dialect specs.
var registry = map[string]*DialectSpec{}

// Register adds a DialectSpec to the global registry.
func Register(spec *DialectSpec) {
	for _, ext := range spec.FileExtensions {
		registry[ext] = spec
	}
}

// ForExtension returns the DialectSpec for a file extension (e.g. ".tsx").
func ForExtension(ext string) *DialectSpec {
	return registry[ext]
}

// ForLanguage returns the DialectSpec for a dialect.
func ForLanguage(lang Language) *DialectSpec {
	for _, spec := range registry {
		if spec.Language == lang {
			return spec
		}
	}
	return nil
}

// LanguageForExtension returns the Language for a file extension.
func LanguageForExtension(ext string) (Language, bool) {
	spec := registry[ext]
	if spec == nil {
		return "", false
	}
	return spec.Language, true
}
