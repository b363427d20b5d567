package lang

func init() {
	Register(&DialectSpec{
		Language:       TSX,
		FileExtensions: []string{".tsx"},

		ElementNodeTypes:   []string{"jsx_element", "jsx_self_closing_element"},
		AttributeNodeType:  "jsx_attribute",
		CallNodeType:       "call_expression",
		TemplateNodeType:   "template_string",
		DeclaratorNodeType: "variable_declarator",
		ExportNodeType:     "export_statement",
		ImportNodeType:     "import_statement",
	})
}
