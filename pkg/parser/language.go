package parser

import (
	"path/filepath"
	"strings"
)

// Dialect selects the tree-sitter grammar used for a component file.
type Dialect int

const (
	// DialectTSX is TypeScript with JSX enabled (.tsx).
	DialectTSX Dialect = iota
	// DialectTypeScript is plain TypeScript (.ts, .mts, .cts).
	DialectTypeScript
	// DialectJavaScript covers .js and .jsx; the grammar handles JSX natively.
	DialectJavaScript
	// DialectUnknown is any other extension.
	DialectUnknown
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectTSX:
		return "tsx"
	case DialectTypeScript:
		return "typescript"
	case DialectJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectDialect picks the dialect from a file extension. Components pasted
// without a path are treated as TSX by callers.
func DetectDialect(filePath string) Dialect {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".tsx":
		return DialectTSX
	case ".ts", ".mts", ".cts":
		return DialectTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return DialectJavaScript
	default:
		return DialectUnknown
	}
}
