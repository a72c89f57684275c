package extract

import (
	"log/slog"
	"strings"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/blocksmith/pkg/parser"
	"github.com/gnana997/blocksmith/pkg/source"
)

// AST extracts property names from a tree-sitter parse tree. It looks at the
// same two places as Lexical: the first top-level *Props interface or type
// alias, and the destructured first parameter of the first top-level
// function or arrow-function component.
type AST struct {
	manager *parser.Manager
	logger  *slog.Logger
}

// NewAST creates an AST extractor backed by manager.
func NewAST(manager *parser.Manager, logger *slog.Logger) *AST {
	if logger == nil {
		logger = slog.Default()
	}
	return &AST{manager: manager, logger: logger}
}

// Extract implements Extractor. Sources without a recognised extension are
// parsed as TSX.
func (a *AST) Extract(src source.Source) []string {
	c := newCollector()

	dialect := parser.DetectDialect(src.Path)
	if dialect == parser.DialectUnknown {
		dialect = parser.DialectTSX
	}

	tree, err := a.manager.Parse(src.Text, dialect)
	if err != nil {
		a.logger.Warn("ast extraction failed, no properties", "path", src.Path, "error", err)
		return c.result()
	}
	defer tree.Close()

	statements := topLevel(tree.RootNode())

	if body := findPropsBody(statements, src.Text); body != nil {
		for i := uint(0); i < body.NamedChildCount(); i++ {
			member := body.NamedChild(i)
			if member.Kind() != "property_signature" {
				continue
			}
			if name := member.ChildByFieldName("name"); name != nil {
				c.add(name.Utf8Text(src.Text))
			}
		}
	}

	if pattern := findDestructuredParam(statements); pattern != nil {
		for _, name := range patternKeys(pattern, src.Text) {
			c.add(name)
		}
	}

	return c.result()
}

// topLevel returns the program's statements with export wrappers removed.
func topLevel(root *ts.Node) []*ts.Node {
	var out []*ts.Node
	for i := uint(0); i < root.NamedChildCount(); i++ {
		stmt := root.NamedChild(i)
		if stmt.Kind() == "export_statement" {
			if decl := stmt.ChildByFieldName("declaration"); decl != nil {
				out = append(out, decl)
				continue
			}
			if value := stmt.ChildByFieldName("value"); value != nil {
				out = append(out, value)
				continue
			}
		}
		out = append(out, stmt)
	}
	return out
}

// findPropsBody returns the member list of the first interface or object type
// alias whose name ends in "Props".
func findPropsBody(statements []*ts.Node, src []byte) *ts.Node {
	for _, stmt := range statements {
		switch stmt.Kind() {
		case "interface_declaration":
			if !isPropsName(stmt, src) {
				continue
			}
			if body := stmt.ChildByFieldName("body"); body != nil {
				return body
			}
		case "type_alias_declaration":
			if !isPropsName(stmt, src) {
				continue
			}
			if body := objectType(stmt.ChildByFieldName("value")); body != nil {
				return body
			}
		}
	}
	return nil
}

func isPropsName(decl *ts.Node, src []byte) bool {
	name := decl.ChildByFieldName("name")
	return name != nil && strings.HasSuffix(name.Utf8Text(src), "Props")
}

// objectType unwraps `{...}` or the first `{...}` of an intersection.
func objectType(value *ts.Node) *ts.Node {
	if value == nil {
		return nil
	}
	switch value.Kind() {
	case "object_type":
		return value
	case "intersection_type":
		for i := uint(0); i < value.NamedChildCount(); i++ {
			if body := objectType(value.NamedChild(i)); body != nil {
				return body
			}
		}
	}
	return nil
}

// findDestructuredParam returns the object pattern of the first function-like
// top-level declaration whose first parameter is destructured.
func findDestructuredParam(statements []*ts.Node) *ts.Node {
	for _, stmt := range statements {
		switch stmt.Kind() {
		case "function_declaration", "function_expression", "arrow_function":
			if pattern := firstParamPattern(stmt); pattern != nil {
				return pattern
			}
		case "lexical_declaration", "variable_declaration":
			for i := uint(0); i < stmt.NamedChildCount(); i++ {
				declarator := stmt.NamedChild(i)
				if declarator.Kind() != "variable_declarator" {
					continue
				}
				if fn := functionValue(declarator.ChildByFieldName("value")); fn != nil {
					if pattern := firstParamPattern(fn); pattern != nil {
						return pattern
					}
				}
			}
		}
	}
	return nil
}

// functionValue unwraps wrappers such as memo(...) and forwardRef(...).
func functionValue(value *ts.Node) *ts.Node {
	if value == nil {
		return nil
	}
	switch value.Kind() {
	case "arrow_function", "function_expression", "function":
		return value
	case "call_expression":
		args := value.ChildByFieldName("arguments")
		if args == nil {
			return nil
		}
		for i := uint(0); i < args.NamedChildCount(); i++ {
			if fn := functionValue(args.NamedChild(i)); fn != nil {
				return fn
			}
		}
	}
	return nil
}

func firstParamPattern(fn *ts.Node) *ts.Node {
	params := fn.ChildByFieldName("parameters")
	if params == nil || params.NamedChildCount() == 0 {
		return nil
	}
	first := params.NamedChild(0)
	switch first.Kind() {
	case "object_pattern":
		return first
	case "required_parameter", "optional_parameter":
		if pattern := first.ChildByFieldName("pattern"); pattern != nil && pattern.Kind() == "object_pattern" {
			return pattern
		}
	case "assignment_pattern":
		if left := first.ChildByFieldName("left"); left != nil && left.Kind() == "object_pattern" {
			return left
		}
	}
	return nil
}

// patternKeys returns the keys bound by an object pattern, skipping rest
// elements.
func patternKeys(pattern *ts.Node, src []byte) []string {
	var keys []string
	for i := uint(0); i < pattern.NamedChildCount(); i++ {
		child := pattern.NamedChild(i)
		switch child.Kind() {
		case "shorthand_property_identifier_pattern":
			keys = append(keys, child.Utf8Text(src))
		case "object_assignment_pattern":
			if left := child.ChildByFieldName("left"); left != nil {
				keys = append(keys, left.Utf8Text(src))
			}
		case "pair_pattern":
			if key := child.ChildByFieldName("key"); key != nil {
				keys = append(keys, key.Utf8Text(src))
			}
		}
	}
	return keys
}
