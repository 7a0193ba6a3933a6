package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jward/vast"
)

var (
	flagDebug          bool
	flagIncludeUnnamed bool
	flagDetail         bool
	flagColors         string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "vast <project-dir>",
	Short: "Summarize a TypeScript project as a hierarchical declaration tree",
	Long: "Vast parses a TypeScript project with tree-sitter and writes a JSON document\n" +
		"describing its files, namespaces, classes, interfaces, methods, and functions,\n" +
		"with source spans and resolved import edges. The document goes to stdout;\n" +
		"diagnostics, when enabled, go to stderr.",
	Args:          cobra.MaximumNArgs(1),
	SilenceErrors: true,
	SilenceUsage:  true,
	RunE:          runSummarize,
}

func init() {
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "write progress diagnostics to stderr")
	rootCmd.Flags().BoolVar(&flagIncludeUnnamed, "include-unnamed", false, "keep anonymous leaf nodes in the output")
	rootCmd.Flags().BoolVar(&flagDetail, "detail", false, "expand statement/expression-level detail (loops, calls, blocks)")
	rootCmd.Flags().StringVar(&flagColors, "colors", "", "YAML file overriding the node-type color table")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	// No project directory is not an error: print usage and do nothing.
	if len(args) == 0 {
		return cmd.Help()
	}
	projectDir := args[0]

	colors, err := loadColors(flagColors)
	if err != nil {
		return err
	}

	opts := []vast.Option{
		vast.WithDetail(flagDetail),
		vast.WithUnnamedLeaves(flagIncludeUnnamed),
		vast.WithColors(colors),
	}
	if flagDebug {
		opts = append(opts, vast.WithLogf(func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	}

	env, err := vast.New(opts...).Summarize(context.Background(), projectDir)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

// loadColors returns the default color table, overlaid with entries from the
// given YAML file when one is provided.
func loadColors(path string) (map[string]string, error) {
	colors := make(map[string]string, len(vast.DefaultColors))
	for k, v := range vast.DefaultColors {
		colors[k] = v
	}
	if path == "" {
		return colors, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read colors file: %w", err)
	}
	var override map[string]string
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("parse colors file %s: %w", path, err)
	}
	for k, v := range override {
		colors[k] = v
	}
	return colors, nil
}
