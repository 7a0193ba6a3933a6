package vast

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeProject lays out files (slash-relative path -> content) in a temp dir.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// summarize runs a full summarization over files and returns the tree root.
func summarize(t *testing.T, files map[string]string, opts ...Option) *TreeNode {
	t.Helper()
	dir := writeProject(t, files)
	env, err := New(opts...).Summarize(context.Background(), dir)
	require.NoError(t, err)
	require.NotNil(t, env.Tree)
	return env.Tree
}

// findChild returns the first child with the given type and name, or nil.
func findChild(node *TreeNode, typ, name string) *TreeNode {
	for _, child := range node.Children {
		if child.Type == typ && child.Name == name {
			return child
		}
	}
	return nil
}

// mustChild is findChild that fails the test on a miss.
func mustChild(t *testing.T, node *TreeNode, typ, name string) *TreeNode {
	t.Helper()
	child := findChild(node, typ, name)
	require.NotNilf(t, child, "no %s child named %q under %s %q", typ, name, node.Type, node.Name)
	return child
}

func TestSummarize_EnvelopeMetadata(t *testing.T) {
	t.Parallel()
	dir := writeProject(t, map[string]string{"a.ts": "export function foo() {}"})

	env, err := New().Summarize(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, "vast", env.Format)
	assert.Equal(t, "1.0.0", env.Version)
	assert.Equal(t, dir, env.Source)
	assert.Equal(t, DefaultColors, env.Colors)
	_, err = time.Parse(time.RFC3339, env.Timestamp)
	assert.NoError(t, err)
	require.NotNil(t, env.Tree)
	assert.Equal(t, TypeProgram, env.Tree.Type)
	assert.Equal(t, filepath.Base(dir), env.Tree.Name)
}

func TestSummarize_ColorsOverride(t *testing.T) {
	t.Parallel()
	dir := writeProject(t, map[string]string{"a.ts": ""})
	colors := map[string]string{TypeClass: "#000000"}

	env, err := New(WithColors(colors)).Summarize(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, colors, env.Colors)
}

func TestSummarize_IdempotentExceptTimestamp(t *testing.T) {
	t.Parallel()
	dir := writeProject(t, map[string]string{
		"src/a.ts":      "export function foo() {}\nexport class Box { get(): number { return 1; } }",
		"src/util/b.ts": "import {foo} from '../a';\nexport const x = foo;",
	})

	s := New()
	first, err := s.Summarize(context.Background(), dir)
	require.NoError(t, err)
	second, err := s.Summarize(context.Background(), dir)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first.Tree)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second.Tree)
	require.NoError(t, err)
	assert.JSONEq(t, string(firstJSON), string(secondJSON))
}

func TestSummarize_BatchingEquivalence(t *testing.T) {
	t.Parallel()
	files := map[string]string{}
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g"} {
		files["src/"+name+".ts"] = "export function " + name + "() {}"
	}
	dir := writeProject(t, files)

	var trees []json.RawMessage
	for _, batchSize := range []int{1, 3, 1000} {
		env, err := New(WithBatchSize(batchSize)).Summarize(context.Background(), dir)
		require.NoError(t, err)
		data, err := json.Marshal(env.Tree)
		require.NoError(t, err)
		trees = append(trees, data)
	}
	assert.JSONEq(t, string(trees[0]), string(trees[1]))
	assert.JSONEq(t, string(trees[0]), string(trees[2]))
}

func TestSummarize_MalformedConfigIsFatal(t *testing.T) {
	t.Parallel()
	dir := writeProject(t, map[string]string{
		"tsconfig.json": `{"include": [}`,
		"a.ts":          "",
	})

	_, err := New().Summarize(context.Background(), dir)
	require.Error(t, err)
}

func TestSummarize_ProjectReferences(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"app/tsconfig.json": `{"include": ["**/*"], "references": [{"path": "../lib"}]}`,
		"app/main.ts":       "export function main() {}",
		"lib/tsconfig.json": `{"include": ["**/*"]}`,
		"lib/helper.ts":     "export function helper() {}",
	})

	env, err := New().Summarize(context.Background(), filepath.Join(root, "app"))
	require.NoError(t, err)

	program := env.Tree
	mustChild(t, program, TypeFile, "main.ts")
	lib := mustChild(t, program, TypeProgram, "lib")
	mustChild(t, lib, TypeFile, "helper.ts")
}

func TestSummarize_CyclicReferencesTerminate(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"a/tsconfig.json": `{"include": ["**/*"], "references": [{"path": "../b"}]}`,
		"a/a.ts":          "export const a = 1;",
		"b/tsconfig.json": `{"include": ["**/*"], "references": [{"path": "../a"}]}`,
		"b/b.ts":          "export const b = 1;",
	})

	env, err := New().Summarize(context.Background(), filepath.Join(root, "a"))
	require.NoError(t, err)

	a := env.Tree
	require.Equal(t, "a", a.Name)
	b := mustChild(t, a, TypeProgram, "b")
	// The back-reference from b to a is pruned: b has no program child.
	assert.Nil(t, findChild(b, TypeProgram, "a"))
}

func TestSummarize_DiamondReferencesMaterializedOnce(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"app/tsconfig.json":    `{"include": ["**/*"], "references": [{"path": "../left"}, {"path": "../right"}]}`,
		"app/main.ts":          "",
		"left/tsconfig.json":   `{"include": ["**/*"], "references": [{"path": "../shared"}]}`,
		"left/l.ts":            "",
		"right/tsconfig.json":  `{"include": ["**/*"], "references": [{"path": "../shared"}]}`,
		"right/r.ts":           "",
		"shared/tsconfig.json": `{"include": ["**/*"]}`,
		"shared/s.ts":          "",
	})

	env, err := New().Summarize(context.Background(), filepath.Join(root, "app"))
	require.NoError(t, err)

	// References resolve depth-first in declaration order, so shared lands
	// under left and is pruned under right.
	left := mustChild(t, env.Tree, TypeProgram, "left")
	right := mustChild(t, env.Tree, TypeProgram, "right")
	assert.NotNil(t, findChild(left, TypeProgram, "shared"))
	assert.Nil(t, findChild(right, TypeProgram, "shared"))
}

func TestSummarize_ReferencePathMayNameConfigFile(t *testing.T) {
	t.Parallel()
	root := writeProject(t, map[string]string{
		"app/tsconfig.json": `{"include": ["**/*"], "references": [{"path": "../lib/tsconfig.json"}]}`,
		"app/main.ts":       "",
		"lib/tsconfig.json": `{"include": ["**/*"]}`,
		"lib/l.ts":          "",
	})

	env, err := New().Summarize(context.Background(), filepath.Join(root, "app"))
	require.NoError(t, err)
	mustChild(t, env.Tree, TypeProgram, "lib")
}

func TestSummarize_NoConfigUsesGlobDiscovery(t *testing.T) {
	t.Parallel()
	tree := summarize(t, map[string]string{
		"a.ts":              "export function foo() {}",
		"node_modules/x.ts": "export function hidden() {}",
	})

	mustChild(t, tree, TypeFile, "a.ts")
	assert.Nil(t, findChild(tree, TypeDir, "node_modules"))
}

func TestSummarize_DebugLogsGoToLogf(t *testing.T) {
	t.Parallel()
	dir := writeProject(t, map[string]string{"a.ts": ""})

	var lines int
	s := New(WithLogf(func(format string, args ...any) { lines++ }))
	_, err := s.Summarize(context.Background(), dir)
	require.NoError(t, err)
	assert.Greater(t, lines, 0)
}
