// Package tsconfig locates and normalizes TypeScript build configuration.
//
// Load finds tsconfig.json in a project directory, resolves extends chains,
// and expands files/include/exclude into a concrete file list. When no
// configuration exists it falls back to globbing for source files, so callers
// always receive a usable Config. A tsconfig.json that exists but cannot be
// parsed is a hard error: malformed configuration is a user mistake, not a
// condition to paper over.
package tsconfig

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ConfigFileName is the configuration file recognized in a project directory.
const ConfigFileName = "tsconfig.json"

// SourceExtensions are the file extensions treated as TypeScript sources,
// both for include-pattern expansion and for the no-config glob fallback.
var SourceExtensions = []string{".ts", ".tsx"}

// Options is the subset of compiler options the summarizer cares about.
// Unknown options parse tolerantly and are dropped.
type Options struct {
	BaseURL string
	OutDir  string
}

// Reference is a declared dependency on another project, as written in the
// "references" array. Path is relative to the declaring config's directory.
type Reference struct {
	Path string
}

// Config is a fully resolved project configuration: an absolute, ordered
// file list plus options and references.
type Config struct {
	// ConfigPath is the absolute path of the tsconfig.json this Config was
	// read from, or empty when Load fell back to globbing.
	ConfigPath string
	FileNames  []string
	Options    Options
	References []Reference
}

// rawConfig mirrors the on-disk tsconfig.json shape.
type rawConfig struct {
	Extends         string         `json:"extends"`
	CompilerOptions rawOptions     `json:"compilerOptions"`
	Files           []string       `json:"files"`
	Include         []string       `json:"include"`
	Exclude         []string       `json:"exclude"`
	References      []rawReference `json:"references"`
}

type rawOptions struct {
	BaseURL string `json:"baseUrl"`
	OutDir  string `json:"outDir"`
}

type rawReference struct {
	Path string `json:"path"`
}

// Load resolves the configuration for projectDir. If tsconfig.json exists it
// is parsed (fatal on malformed content); otherwise Load globs for source
// files beneath projectDir and returns a Config with default options and no
// references.
func Load(projectDir string) (*Config, error) {
	configPath := filepath.Join(projectDir, ConfigFileName)
	if _, err := os.Stat(configPath); err != nil {
		if os.IsNotExist(err) {
			return globFallback(projectDir)
		}
		return nil, fmt.Errorf("stat %s: %w", configPath, err)
	}

	raw, err := loadRaw(configPath, nil)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(configPath)
	files, err := expandFiles(dir, raw)
	if err != nil {
		return nil, fmt.Errorf("expand file list for %s: %w", configPath, err)
	}

	cfg := &Config{
		ConfigPath: configPath,
		FileNames:  files,
		Options: Options{
			BaseURL: resolveOptionPath(dir, raw.CompilerOptions.BaseURL),
			OutDir:  resolveOptionPath(dir, raw.CompilerOptions.OutDir),
		},
	}
	for _, ref := range raw.References {
		if ref.Path != "" {
			cfg.References = append(cfg.References, Reference{Path: ref.Path})
		}
	}
	return cfg, nil
}

// loadRaw parses a config file and merges its extends chain, child fields
// overriding parent fields. seen guards against extends cycles.
func loadRaw(configPath string, seen map[string]bool) (*rawConfig, error) {
	abs, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", configPath, err)
	}
	if seen[abs] {
		return nil, fmt.Errorf("parse %s: extends cycle", configPath)
	}
	if seen == nil {
		seen = map[string]bool{}
	}
	seen[abs] = true

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", configPath, err)
	}

	var child rawConfig
	if err := json.Unmarshal(stripJSONC(data), &child); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}

	if child.Extends == "" {
		return &child, nil
	}

	parentPath := filepath.Join(filepath.Dir(abs), child.Extends)
	if filepath.Ext(parentPath) != ".json" {
		parentPath += ".json"
	}
	parent, err := loadRaw(parentPath, seen)
	if err != nil {
		return nil, err
	}
	return mergeRaw(parent, &child, filepath.Dir(parentPath), filepath.Dir(abs)), nil
}

// mergeRaw overlays child on parent. Inherited path-valued options stay
// anchored to the parent config's directory and are rebased onto the child's
// directory; inherited files/include/exclude are reinterpreted relative to
// the extending config, which keeps every pattern inside the project being
// summarized.
func mergeRaw(parent, child *rawConfig, parentDir, childDir string) *rawConfig {
	out := *child
	if out.CompilerOptions.BaseURL == "" {
		out.CompilerOptions.BaseURL = rebase(parent.CompilerOptions.BaseURL, parentDir, childDir)
	}
	if out.CompilerOptions.OutDir == "" {
		out.CompilerOptions.OutDir = rebase(parent.CompilerOptions.OutDir, parentDir, childDir)
	}
	if out.Files == nil {
		out.Files = parent.Files
	}
	if out.Include == nil {
		out.Include = parent.Include
	}
	if out.Exclude == nil {
		out.Exclude = parent.Exclude
	}
	// References are never inherited (tsc behavior).
	return &out
}

func rebase(p, fromDir, toDir string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(toDir, filepath.Join(fromDir, p))
	if err != nil {
		return p
	}
	return rel
}

func resolveOptionPath(dir, p string) string {
	if p == "" {
		return ""
	}
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}

// defaultExcludes mirrors tsc's built-in exclude list.
var defaultExcludes = []string{"node_modules", "bower_components", "jspm_packages"}

// expandFiles turns files/include/exclude into an absolute, ordered,
// duplicate-free file list rooted at dir.
func expandFiles(dir string, raw *rawConfig) ([]string, error) {
	var out []string
	seen := map[string]bool{}
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	// Explicit "files" entries are literal, never filtered by exclude.
	for _, f := range raw.Files {
		add(filepath.Join(dir, filepath.FromSlash(f)))
	}

	include := raw.Include
	if raw.Files == nil && include == nil {
		include = []string{"**/*"}
	}
	if len(include) == 0 {
		return out, nil
	}

	exclude := raw.Exclude
	if exclude == nil {
		exclude = defaultExcludes
	}
	if raw.CompilerOptions.OutDir != "" {
		if rel, err := filepath.Rel(dir, resolveOptionPath(dir, raw.CompilerOptions.OutDir)); err == nil && !strings.HasPrefix(rel, "..") {
			exclude = append(append([]string{}, exclude...), filepath.ToSlash(rel))
		}
	}

	matches, err := matchIncludes(dir, include, exclude)
	if err != nil {
		return nil, err
	}
	for _, m := range matches {
		add(m)
	}
	return out, nil
}

// matchIncludes walks dir once and tests every source file against the
// include and exclude patterns with doublestar semantics.
func matchIncludes(dir string, include, exclude []string) ([]string, error) {
	var matches []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(dir, path)
		if relErr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if excluded(rel, exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !hasSourceExtension(path) || excluded(rel, exclude) {
			return nil
		}
		for _, pat := range include {
			if matchPattern(pat, rel) {
				matches = append(matches, path)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)
	return matches, nil
}

// matchPattern applies one include/exclude pattern. A pattern without
// wildcards also matches everything beneath it, the way tsc treats a bare
// directory name.
func matchPattern(pat, rel string) bool {
	if ok, err := doublestar.Match(pat, rel); err == nil && ok {
		return true
	}
	if !strings.ContainsAny(pat, "*?[{") {
		prefix := strings.TrimSuffix(pat, "/")
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

func excluded(rel string, exclude []string) bool {
	for _, pat := range exclude {
		if matchPattern(pat, rel) {
			return true
		}
	}
	return false
}

func hasSourceExtension(path string) bool {
	for _, ext := range SourceExtensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// globFallback discovers source files when no tsconfig.json exists: every
// recognized source file beneath projectDir, skipping node_modules and
// hidden directories.
func globFallback(projectDir string) (*Config, error) {
	var files []string
	err := filepath.WalkDir(projectDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			if path != projectDir && (name == "node_modules" || strings.HasPrefix(name, ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if hasSourceExtension(path) {
			files = append(files, filepath.Clean(path))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", projectDir, err)
	}
	sort.Strings(files)
	return &Config{FileNames: files}, nil
}
