package extract

// Kind classifies how a fragment was declared in source.
type Kind string

const (
	// ComponentQuery is a fragment passed to the static-query component's
	// query attribute.
	ComponentQuery Kind = "component"
	// HookQuery is a fragment passed to the query-fetching hook call.
	HookQuery Kind = "hook"
	// PageQuery is a fragment exported as a named module-level declaration.
	PageQuery Kind = "page"
)

// Fragment is one discovered query block plus its metadata.
type Fragment struct {
	// Name is the canonical name: the author-written operation name, or a
	// generated camelCase(file)+contentHash when the author omitted one.
	Name string
	// Kind records the syntactic shape the fragment was declared in.
	Kind Kind
	// SourceText is the raw fragment text as written, backticks stripped.
	SourceText string
	// ContentHash is the xxh3 hex digest of SourceText.
	ContentHash string
	// LocationKey is unique per physical occurrence in the file:
	// <enclosing tagged-template start byte>-<template start byte>.
	// Two fragments with equal keys are the same physical text.
	LocationKey string
	// FilePath is the file the fragment was extracted from.
	FilePath string
	// Line and Column are the 1-based position of the fragment text,
	// for mapping diagnostics back to source.
	Line   int
	Column int
}

// Document is the ordered, deduplicated fragment set extracted from one
// file. A Document returned by the file parser is never empty; empty
// extraction yields nil instead.
type Document struct {
	FilePath string
	// Hash is the cache key: xxh3 of file path plus contents.
	Hash        string
	Definitions []Fragment
}

// Options names the syntactic anchors the locator searches for.
type Options struct {
	// Tag is the template-tag identifier marking embedded query text.
	Tag string
	// Component is the static-query element name whose query attribute
	// carries a fragment.
	Component string
	// Hook is the query-fetching function name.
	Hook string
	// Module is the import source the hook must resolve to.
	Module string
}

// DefaultOptions returns the standard anchor names.
func DefaultOptions() Options {
	return Options{
		Tag:       "graphql",
		Component: "StaticQuery",
		Hook:      "useStaticQuery",
		Module:    "sitewright",
	}
}

// withDefaults fills any zero field from DefaultOptions.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tag == "" {
		o.Tag = d.Tag
	}
	if o.Component == "" {
		o.Component = d.Component
	}
	if o.Hook == "" {
		o.Hook = d.Hook
	}
	if o.Module == "" {
		o.Module = d.Module
	}
	return o
}
