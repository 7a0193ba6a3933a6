package vast

import (
	"path/filepath"

	"github.com/jward/vast/internal/compiler"
)

// extractDeps lists the project-relative paths of a file's resolved import
// targets, in source order, duplicates removed. Specifiers without a
// resolution are skipped: ambient and third-party imports are expected, not
// errors. A file with nothing resolvable gets nil, so the deps field is
// absent from the output rather than empty.
//
// Targets outside the project root keep their computed relative path, which
// may start with "..": the edge to an out-of-root file is still real
// information for consumers.
func extractDeps(f *compiler.SourceFile, projectRoot string) []string {
	root := f.Root()
	if root == nil || len(f.ResolvedImports) == 0 {
		return nil
	}

	var deps []string
	seen := map[string]bool{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_statement" {
			continue
		}
		spec := compiler.ImportSpecifier(child, f.Src)
		target, ok := f.ResolvedImports[spec]
		if !ok {
			continue
		}
		rel, err := filepath.Rel(projectRoot, target)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if !seen[rel] {
			seen[rel] = true
			deps = append(deps, rel)
		}
	}
	return deps
}
