package lang

func init() {
	Register(&DialectSpec{
		Language:       TypeScript,
		FileExtensions: []string{".ts", ".mts", ".cts"},

		// Plain TypeScript has no JSX elements; component queries can still
		// appear through React.createElement-free helper files that export
		// page queries or call the hook.
		ElementNodeTypes:   nil,
		AttributeNodeType:  "jsx_attribute",
		CallNodeType:       "call_expression",
		TemplateNodeType:   "template_string",
		DeclaratorNodeType: "variable_declarator",
		ExportNodeType:     "export_statement",
		ImportNodeType:     "import_statement",
	})
}
