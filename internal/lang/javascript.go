package lang

func init() {
	Register(&DialectSpec{
		Language:       JavaScript,
		FileExtensions: []string{".js", ".mjs", ".cjs"},

		ElementNodeTypes:   []string{"jsx_element", "jsx_self_closing_element"},
		AttributeNodeType:  "jsx_attribute",
		CallNodeType:       "call_expression",
		TemplateNodeType:   "template_string",
		DeclaratorNodeType: "variable_declarator",
		ExportNodeType:     "export_statement",
		ImportNodeType:     "import_statement",
	})

	// The JSX dialect shares the JavaScript grammar; tree-sitter-javascript
	// parses JSX syntax natively.
	Register(&DialectSpec{
		Language:       JSX,
		FileExtensions: []string{".jsx"},

		ElementNodeTypes:   []string{"jsx_element", "jsx_self_closing_element"},
		AttributeNodeType:  "jsx_attribute",
		CallNodeType:       "call_expression",
		TemplateNodeType:   "template_string",
		DeclaratorNodeType: "variable_declarator",
		ExportNodeType:     "export_statement",
		ImportNodeType:     "import_statement",
	})
}
