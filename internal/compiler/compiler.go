// Package compiler parses TypeScript sources with tree-sitter and resolves
// each file's import specifiers. It is the summarizer's language front-end:
// callers hand it a file list and options and get back syntax trees plus a
// per-file resolved-import map, with no type information attached.
package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/jward/vast/internal/tsconfig"
)

// DefaultBatchSize bounds how many files a single parse pass holds in memory
// at once. Trees from one batch are released before the next is parsed, so
// this is the peak-memory knob for very large projects.
const DefaultBatchSize = 100

// SourceFile is one parsed source file: its content, its syntax tree, and
// the subset of its import specifiers that resolved to files on disk.
type SourceFile struct {
	Path string
	Src  []byte

	// ResolvedImports maps an import specifier as written ("./util") to the
	// absolute path of its target file. Specifiers that did not resolve are
	// absent, not mapped to "".
	ResolvedImports map[string]string

	tree *sitter.Tree
}

// Root returns the root syntax node, or nil after Close.
func (f *SourceFile) Root() *sitter.Node {
	if f.tree == nil {
		return nil
	}
	return f.tree.RootNode()
}

// Close releases the underlying tree-sitter tree. The SourceFile must not be
// traversed afterwards.
func (f *SourceFile) Close() {
	if f.tree != nil {
		f.tree.Close()
		f.tree = nil
	}
}

// Compiler parses batches of TypeScript files.
type Compiler struct {
	batchSize int
}

// New creates a Compiler. batchSize <= 0 selects DefaultBatchSize.
func New(batchSize int) *Compiler {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Compiler{batchSize: batchSize}
}

// BatchSize returns the configured batch size.
func (c *Compiler) BatchSize() int {
	return c.batchSize
}

// Compile parses fileNames in contiguous batches and returns one SourceFile
// per input, in input order. Import resolution probes the whole input file
// set (not just the current batch), so batching never changes resolution
// results. The caller owns the returned trees and must Close them.
func (c *Compiler) Compile(ctx context.Context, fileNames []string, opts tsconfig.Options) ([]*SourceFile, error) {
	var out []*SourceFile
	err := c.compile(ctx, fileNames, opts, func(f *SourceFile) error {
		out = append(out, f)
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CompileEach parses fileNames in contiguous batches, handing each
// SourceFile to fn in input order. Every tree is released after fn returns,
// and a whole batch is released before the next one is parsed, so peak
// memory is bounded by the batch size rather than the project size.
func (c *Compiler) CompileEach(ctx context.Context, fileNames []string, opts tsconfig.Options, fn func(*SourceFile) error) error {
	return c.compile(ctx, fileNames, opts, fn, true)
}

func (c *Compiler) compile(ctx context.Context, fileNames []string, opts tsconfig.Options, fn func(*SourceFile) error, release bool) error {
	fileSet := make(map[string]bool, len(fileNames))
	for _, name := range fileNames {
		fileSet[filepath.Clean(name)] = true
	}

	for start := 0; start < len(fileNames); start += c.batchSize {
		end := start + c.batchSize
		if end > len(fileNames) {
			end = len(fileNames)
		}
		batch, err := c.compileBatch(ctx, fileNames[start:end], fileSet, opts)
		if err != nil {
			return err
		}
		for _, f := range batch {
			err := fn(f)
			if release {
				f.Close()
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Compiler) compileBatch(ctx context.Context, fileNames []string, fileSet map[string]bool, opts tsconfig.Options) ([]*SourceFile, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	out := make([]*SourceFile, 0, len(fileNames))
	for _, name := range fileNames {
		src, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		parser.SetLanguage(grammarFor(name))
		tree, err := parser.ParseCtx(ctx, nil, src)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		f := &SourceFile{Path: name, Src: src, tree: tree}
		f.ResolvedImports = resolveImports(f, fileSet, opts)
		out = append(out, f)
	}
	return out, nil
}

// grammarFor selects the tree-sitter grammar by extension: .tsx needs the
// JSX-aware dialect, everything else parses as plain TypeScript.
func grammarFor(path string) *sitter.Language {
	if strings.HasSuffix(path, ".tsx") {
		return tsx.GetLanguage()
	}
	return typescript.GetLanguage()
}
