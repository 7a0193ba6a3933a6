// Package vast summarizes a TypeScript project into a compact, hierarchical
// tree of declarations built on tree-sitter. The output is a single
// self-describing JSON document: files, namespaces, classes, interfaces,
// methods, and functions, each annotated with its source span, plus resolved
// import edges between files.
//
// # Pipeline
//
// A summarization run has four stages:
//
//  1. Resolve: locate and parse tsconfig.json (following extends, expanding
//     include/exclude), or fall back to globbing for source files when no
//     configuration exists.
//
//  2. Compile: parse the resolved file list with tree-sitter in fixed-size
//     batches to bound peak memory, and resolve each file's import
//     specifiers against the compiled file set.
//
//  3. Build: classify each syntax node, skip noise, recurse into composite
//     declarations, and insert every file's subtree into the aggregate tree
//     under reconstructed directory nodes. Declared project references are
//     walked recursively, each physical project materialized at most once.
//
//  4. Assemble: wrap the tree in a versioned envelope with an advisory color
//     table and a generation timestamp, and serialize it.
//
// # Usage
//
// Create a Summarizer and point it at a project directory:
//
//	s := vast.New(vast.WithDetail(false))
//	env, err := s.Summarize("path/to/project")
//	if err != nil { ... }
//	data, _ := json.Marshal(env)
//
// The whole tree is built once per Summarize call and owned by the caller;
// nothing persists between runs.
//
// Language-front-end concerns (lexing, parsing, grammar selection for .ts vs
// .tsx) live in the internal/compiler package; tsconfig discovery and
// normalization live in internal/tsconfig.
package vast
