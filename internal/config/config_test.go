package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeRC(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".queryscanrc"), []byte(content), 0o644); err != nil {
		t.Fatalf("write rc: %v", err)
	}
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg := Load(t.TempDir())
	opts := cfg.Options()
	if opts.Tag != "graphql" || opts.Component != "StaticQuery" || opts.Hook != "useStaticQuery" {
		t.Errorf("unexpected defaults: %+v", opts)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, `extract:
  tag: gql
  hook: useQueryData
ignore_patterns:
  - generated
`)

	cfg := Load(dir)
	opts := cfg.Options()
	if opts.Tag != "gql" {
		t.Errorf("expected tag override, got %q", opts.Tag)
	}
	if opts.Hook != "useQueryData" {
		t.Errorf("expected hook override, got %q", opts.Hook)
	}
	// Unset fields keep their defaults.
	if opts.Component != "StaticQuery" {
		t.Errorf("expected default component, got %q", opts.Component)
	}
	if len(cfg.IgnorePatterns) != 1 || cfg.IgnorePatterns[0] != "generated" {
		t.Errorf("expected ignore pattern, got %v", cfg.IgnorePatterns)
	}
}

func TestLoadInvalidYAMLGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeRC(t, dir, "extract: [not: valid: yaml")

	cfg := Load(dir)
	if opts := cfg.Options(); opts.Tag != "graphql" {
		t.Errorf("invalid file must give defaults, got %+v", opts)
	}
}
