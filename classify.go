package vast

import (
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// classification is the classifier's verdict for one syntax node: the output
// node type, the display name, and how the tree builder should treat it.
type classification struct {
	Type      string
	Name      string
	Composite bool
	Noise     bool
}

// noiseTypes are syntax-node categories that never appear in the output.
// Their children are not visited either: a declaration buried inside an
// expression statement is invisible by design.
var noiseTypes = map[string]bool{
	"comment":                 true,
	"import_statement":        true,
	"import_alias":            true,
	"type_alias_declaration":  true,
	"lexical_declaration":     true,
	"variable_declaration":    true,
	"expression_statement":    true,
	"return_statement":        true,
	"if_statement":            true,
	"for_statement":           true,
	"for_in_statement":        true,
	"while_statement":         true,
	"do_statement":            true,
	"switch_statement":        true,
	"try_statement":           true,
	"throw_statement":         true,
	"break_statement":         true,
	"continue_statement":      true,
	"labeled_statement":       true,
	"debugger_statement":      true,
	"empty_statement":         true,
	"decorator":               true,
	"identifier":              true,
	"type_identifier":         true,
	"property_identifier":     true,
	"string_fragment":         true,
	"property_signature":      true,
	"index_signature":         true,
	"call_signature":          true,
	"construct_signature":     true,
	"public_field_definition": true,
	"accessibility_modifier":  true,
	"override_modifier":       true,
	"class_heritage":          true,
	"extends_clause":          true,
	"implements_clause":       true,
	"extends_type_clause":     true,
	"type_parameters":         true,
	"statement_identifier":    true,
	"formal_parameters":       true,
	"type_annotation":         true,
	"hash_bang_line":          true,
	"export_clause":           true,
	"namespace_export":        true,
	"expression":              true,
	"sequence_expression":     true,
	"subscript_expression":    true,
	"assignment_expression":   true,
}

// detailTypes are the statement/expression-level categories that move from
// noise to composite when extended detail is enabled: loops, calls, function
// expressions, and blocks.
var detailTypes = map[string]bool{
	"for_statement":        true,
	"for_in_statement":     true,
	"while_statement":      true,
	"do_statement":         true,
	"call_expression":      true,
	"function_expression":  true,
	"function":             true,
	"arrow_function":       true,
	"generator_function":   true,
	"statement_block":      true,
	"expression_statement": true,
	"lexical_declaration":  true,
	"variable_declaration": true,
	"return_statement":     true,
	"if_statement":         true,
}

// bodyContainers are containers traversed transparently when recursing into
// a composite declaration: the class body itself is not a node in the
// output, its members hang directly off the class.
var bodyContainers = map[string]bool{
	"class_body":     true,
	"interface_body": true,
	"object_type":    true,
}

// unwrap sees through wrapper statements that tree-sitter emits where the
// language treats export/declare as modifiers. "export class Foo {}" should
// classify as the class, not as an export statement. A wrapper with no inner
// declaration (re-exports, export assignments) unwraps to nothing.
func unwrap(node *sitter.Node) *sitter.Node {
	for node != nil {
		t := node.Type()
		if t != "export_statement" && t != "ambient_declaration" {
			return node
		}
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			node = decl
			continue
		}
		// "declare namespace" has no declaration field; fall back to the
		// first named child that is itself a declaration-like node.
		var inner *sitter.Node
		for i := 0; i < int(node.NamedChildCount()); i++ {
			c := node.NamedChild(i)
			if c.Type() != "comment" && c.Type() != "decorator" {
				inner = c
				break
			}
		}
		if inner == nil || inner == node {
			return nil
		}
		if inner.Type() == "export_clause" || inner.Type() == "string" {
			return nil // export {x} / export * from "..."
		}
		node = inner
	}
	return nil
}

// classify maps one syntax node to its output classification. The mapping is
// total: unrecognized categories fall through to a synthetic
// "<kind>-<code>" label rather than an error, so a grammar bump can never
// make summarization fail.
func (s *Summarizer) classify(node *sitter.Node, src []byte) classification {
	t := node.Type()

	// A namespace body is module-block in every mode, even though detail
	// mode treats other statement blocks as expandable.
	if t == "statement_block" {
		if p := node.Parent(); p != nil && (p.Type() == "internal_module" || p.Type() == "module") {
			return classification{Type: TypeModuleBlock, Composite: true}
		}
	}

	if s.detail && detailTypes[t] {
		switch t {
		case "function_expression", "function", "arrow_function", "generator_function":
			return classification{Type: TypeFunction, Name: fieldText(node, "name", src), Composite: true}
		default:
			return classification{Type: syntheticLabel(node), Composite: true}
		}
	}
	if noiseTypes[t] {
		return classification{Noise: true}
	}

	switch t {
	case "class_declaration", "abstract_class_declaration", "class":
		// Bare "class" covers anonymous default-exported classes; the name
		// field is then absent and the name stays empty.
		return classification{Type: TypeClass, Name: fieldText(node, "name", src), Composite: true}
	case "interface_declaration":
		return classification{Type: TypeInterface, Name: fieldText(node, "name", src), Composite: true}
	case "method_definition":
		// Detail mode opens function and method bodies so that loops,
		// calls, and blocks inside them become reachable.
		name := fieldText(node, "name", src)
		if name == "constructor" {
			return classification{Type: TypeConstructor, Composite: s.detail}
		}
		return classification{Type: TypeMethod, Name: name, Composite: s.detail}
	case "method_signature", "abstract_method_signature":
		return classification{Type: TypeMethod, Name: fieldText(node, "name", src)}
	case "function_declaration", "generator_function_declaration", "function", "function_expression":
		return classification{Type: TypeFunction, Name: fieldText(node, "name", src), Composite: s.detail}
	case "internal_module", "module":
		// Quoted ambient module names ('declare module "fs"') keep just the
		// name text.
		name := strings.Trim(fieldText(node, "name", src), `"'`)
		return classification{Type: TypeModule, Name: name, Composite: true}
	case "string":
		if s.detail {
			return classification{Type: TypeText, Name: strings.Trim(node.Content(src), `"'`+"`")}
		}
		return classification{Noise: true}
	}

	return classification{Type: syntheticLabel(node)}
}

// syntheticLabel builds the fallback label for categories outside the fixed
// mapping: the raw grammar kind plus its numeric symbol.
func syntheticLabel(node *sitter.Node) string {
	return fmt.Sprintf("%s-%d", node.Type(), node.Symbol())
}

// fieldText returns the source text of a named grammar field, or "" when the
// field is absent (anonymous classes and default-exported functions).
func fieldText(node *sitter.Node, field string, src []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(src)
}
