package vast

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeps_RelativeImportsResolveToProjectRelativePaths(t *testing.T) {
	t.Parallel()
	tree := summarize(t, map[string]string{
		"src/a.ts":      "import {B} from './util/b';\nexport const a = new B();",
		"src/util/b.ts": "export class B {}",
	})

	src := mustChild(t, tree, TypeDir, "src")
	a := mustChild(t, src, TypeFile, "a.ts")
	assert.Equal(t, []string{"src/util/b.ts"}, a.Deps)

	b := mustChild(t, mustChild(t, src, TypeDir, "util"), TypeFile, "b.ts")
	assert.Nil(t, b.Deps, "a file with no resolvable imports carries no deps at all")
}

func TestDeps_IndexResolution(t *testing.T) {
	t.Parallel()
	tree := summarize(t, map[string]string{
		"a.ts":          "import {x} from './util';",
		"util/index.ts": "export const x = 1;",
	})

	a := mustChild(t, tree, TypeFile, "a.ts")
	assert.Equal(t, []string{"util/index.ts"}, a.Deps)
}

func TestDeps_UnresolvableSpecifiersSilentlyDropped(t *testing.T) {
	t.Parallel()
	tree := summarize(t, map[string]string{
		"a.ts": "import react from 'react';\nimport {b} from './b';\nimport {gone} from './gone';",
		"b.ts": "export const b = 1;",
	})

	a := mustChild(t, tree, TypeFile, "a.ts")
	assert.Equal(t, []string{"b.ts"}, a.Deps, "only the resolvable edge survives")
}

func TestDeps_SourceOrderAndDeduplication(t *testing.T) {
	t.Parallel()
	tree := summarize(t, map[string]string{
		"a.ts": "import {z} from './z';\nimport {b} from './b';\nimport {z2} from './z';",
		"b.ts": "export const b = 1;",
		"z.ts": "export const z = 1;\nexport const z2 = 2;",
	})

	a := mustChild(t, tree, TypeFile, "a.ts")
	assert.Equal(t, []string{"z.ts", "b.ts"}, a.Deps)
}

func TestDeps_OutOfRootTargetKeepsRelativePath(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"proj/tsconfig.json": `{"files": ["a.ts", "../outside/o.ts"]}`,
		"proj/a.ts":          "import {o} from '../outside/o';",
		"outside/o.ts":       "export const o = 1;",
	})

	env, err := New().Summarize(context.Background(), filepath.Join(root, "proj"))
	assert.NoError(t, err)

	a := findChild(env.Tree, TypeFile, "a.ts")
	if assert.NotNil(t, a) {
		assert.Equal(t, []string{"../outside/o.ts"}, a.Deps)
	}
}
