package vast

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jward/vast/internal/compiler"
	"github.com/jward/vast/internal/tsconfig"
)

// Summarizer turns a project directory into a summary tree. A Summarizer is
// stateless between Summarize calls; options fix its behavior at
// construction time.
type Summarizer struct {
	detail    bool
	unnamed   bool
	batchSize int
	colors    map[string]string
	logf      func(format string, args ...any)
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithDetail enables statement/expression-level output: loops, calls,
// function expressions, blocks, and string literals become nodes instead of
// noise.
func WithDetail(detail bool) Option {
	return func(s *Summarizer) {
		s.detail = detail
	}
}

// WithUnnamedLeaves keeps leaf nodes that have no name. By default anonymous
// leaves are suppressed to keep the output free of clutter.
func WithUnnamedLeaves(include bool) Option {
	return func(s *Summarizer) {
		s.unnamed = include
	}
}

// WithBatchSize overrides how many files the compilation front-end parses
// per batch. Smaller batches lower peak memory; the resulting tree is
// identical regardless of batch size.
func WithBatchSize(n int) Option {
	return func(s *Summarizer) {
		s.batchSize = n
	}
}

// WithColors replaces the advisory color table written into the envelope.
func WithColors(colors map[string]string) Option {
	return func(s *Summarizer) {
		s.colors = colors
	}
}

// WithLogf sets the diagnostic log function. Diagnostics never go to the
// primary output; the default discards them.
func WithLogf(logf func(format string, args ...any)) Option {
	return func(s *Summarizer) {
		s.logf = logf
	}
}

// New creates a Summarizer.
func New(opts ...Option) *Summarizer {
	s := &Summarizer{
		batchSize: compiler.DefaultBatchSize,
		colors:    DefaultColors,
		logf:      func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summarize analyzes the project at projectDir and returns the completed
// envelope. The project's declared references are walked recursively; a
// project reachable through several reference paths (or a reference cycle)
// is materialized exactly once.
func (s *Summarizer) Summarize(ctx context.Context, projectDir string) (*Envelope, error) {
	visited := map[string]bool{}
	tree, err := s.resolveProject(ctx, projectDir, visited)
	if err != nil {
		return nil, err
	}
	return &Envelope{
		Format:    FormatName,
		Version:   FormatVersion,
		Source:    projectDir,
		Colors:    s.colors,
		Timestamp: time.Now().Format(time.RFC3339),
		Tree:      tree,
	}, nil
}

// resolveProject materializes one project: its files under reconstructed
// directory nodes, then one subtree per declared reference. Returns nil when
// dir was already visited. visited keys are canonicalized directories,
// threaded through the whole recursive walk.
func (s *Summarizer) resolveProject(ctx context.Context, dir string, visited map[string]bool) (*TreeNode, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve project dir %s: %w", dir, err)
	}
	key := canonicalDir(abs)
	if visited[key] {
		s.logf("skipping %s: already summarized", abs)
		return nil, nil
	}
	visited[key] = true

	cfg, err := tsconfig.Load(abs)
	if err != nil {
		return nil, fmt.Errorf("load configuration for %s: %w", abs, err)
	}
	if cfg.ConfigPath != "" {
		s.logf("project %s: %d file(s) from %s", abs, len(cfg.FileNames), cfg.ConfigPath)
	} else {
		s.logf("project %s: %d file(s) from glob fallback", abs, len(cfg.FileNames))
	}

	program := &TreeNode{Name: filepath.Base(abs), Type: TypeProgram}

	comp := compiler.New(s.batchSize)
	err = comp.CompileEach(ctx, cfg.FileNames, cfg.Options, func(f *compiler.SourceFile) error {
		rel, err := filepath.Rel(abs, f.Path)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", f.Path, err)
		}
		rel = filepath.ToSlash(rel)

		fileNode := s.buildFile(f, rel)
		fileNode.Deps = extractDeps(f, abs)
		insert(program, fileNode, rel)
		s.logf("summarized %s", rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", abs, err)
	}

	for _, ref := range cfg.References {
		refDir := ref.Path
		if !filepath.IsAbs(refDir) {
			refDir = filepath.Join(abs, refDir)
		}
		// A reference may name the tsconfig file itself.
		if info, statErr := os.Stat(refDir); statErr == nil && !info.IsDir() {
			refDir = filepath.Dir(refDir)
		}
		child, err := s.resolveProject(ctx, refDir, visited)
		if err != nil {
			return nil, fmt.Errorf("reference %s: %w", ref.Path, err)
		}
		if child != nil {
			program.Children = append(program.Children, child)
		}
	}

	return program, nil
}

// canonicalDir normalizes a project directory for visited-set membership:
// cleaned, with a trailing separator so "/a/b" and "/a/b/" collide.
func canonicalDir(abs string) string {
	return filepath.Clean(abs) + string(filepath.Separator)
}
