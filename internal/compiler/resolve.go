package compiler

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/vast/internal/tsconfig"
)

// resolveImports scans a file's top-level import statements and resolves
// each module specifier to an absolute target path. Resolution only probes
// the compiled file set, never the wider filesystem, so results depend on
// nothing but the inputs. Specifiers that resolve nowhere (typically bare
// package imports) are simply absent from the map.
func resolveImports(f *SourceFile, fileSet map[string]bool, opts tsconfig.Options) map[string]string {
	root := f.Root()
	if root == nil {
		return nil
	}

	var resolved map[string]string
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_statement" {
			continue
		}
		spec := ImportSpecifier(child, f.Src)
		if spec == "" {
			continue
		}
		target := resolveSpecifier(spec, filepath.Dir(f.Path), fileSet, opts)
		if target == "" {
			continue
		}
		if resolved == nil {
			resolved = map[string]string{}
		}
		resolved[spec] = target
	}
	return resolved
}

// ImportSpecifier extracts the module specifier text from an import
// statement's source string literal, without the surrounding quotes.
func ImportSpecifier(node *sitter.Node, src []byte) string {
	source := node.ChildByFieldName("source")
	if source == nil {
		return ""
	}
	text := source.Content(src)
	return strings.Trim(text, `"'`)
}

// resolveSpecifier maps one specifier to an absolute file path, or "" when
// it cannot be resolved. Relative specifiers resolve against fromDir;
// non-relative ones against baseUrl when configured.
func resolveSpecifier(spec, fromDir string, fileSet map[string]bool, opts tsconfig.Options) string {
	var base string
	switch {
	case strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == "..":
		base = filepath.Join(fromDir, filepath.FromSlash(spec))
	case opts.BaseURL != "":
		base = filepath.Join(opts.BaseURL, filepath.FromSlash(spec))
	default:
		return ""
	}

	for _, candidate := range candidatePaths(base) {
		if fileSet[filepath.Clean(candidate)] {
			return filepath.Clean(candidate)
		}
	}
	return ""
}

// candidatePaths lists probe targets for a resolved base path, in tsc's
// probing order. Emitted-extension specifiers ("./util.js") are rewritten to
// their source extension first.
func candidatePaths(base string) []string {
	switch {
	case strings.HasSuffix(base, ".js"):
		base = strings.TrimSuffix(base, ".js") + ".ts"
	case strings.HasSuffix(base, ".jsx"):
		base = strings.TrimSuffix(base, ".jsx") + ".tsx"
	}
	return []string{
		base,
		base + ".ts",
		base + ".tsx",
		base + ".d.ts",
		filepath.Join(base, "index.ts"),
		filepath.Join(base, "index.tsx"),
	}
}
