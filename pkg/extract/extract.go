// Package extract infers the configurable property names of a UI component
// from its source text.
//
// Two strategies are available. Lexical (the default) pattern-matches the
// props declaration and the destructured first parameter. AST performs the
// same two scans on a tree-sitter parse tree. Both return names in
// first-seen order without duplicates, and both degrade to an empty result
// instead of failing when nothing matches.
package extract

import (
	"fmt"
	"log/slog"
	"regexp"

	"github.com/gnana997/blocksmith/pkg/parser"
	"github.com/gnana997/blocksmith/pkg/source"
)

// Extractor returns the property names declared by a component source.
type Extractor interface {
	Extract(src source.Source) []string
}

// Strategy names an extraction strategy in config and on the command line.
type Strategy string

const (
	StrategyLexical Strategy = "lexical"
	StrategyAST     Strategy = "ast"
)

// Strategies lists the accepted strategy names.
func Strategies() []Strategy {
	return []Strategy{StrategyLexical, StrategyAST}
}

// New returns the extractor for strategy. An empty strategy selects Lexical.
// The AST strategy requires a parser manager.
func New(strategy Strategy, manager *parser.Manager, logger *slog.Logger) (Extractor, error) {
	switch strategy {
	case "", StrategyLexical:
		return Lexical{}, nil
	case StrategyAST:
		if manager == nil {
			return nil, fmt.Errorf("ast extractor requires a parser manager")
		}
		return NewAST(manager, logger), nil
	default:
		return nil, fmt.Errorf("unknown extractor %q (want one of %v)", strategy, Strategies())
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// collector accumulates names in first-seen order.
type collector struct {
	seen  map[string]bool
	names []string
}

func newCollector() *collector {
	return &collector{seen: make(map[string]bool)}
}

func (c *collector) add(name string) {
	if !identRe.MatchString(name) || c.seen[name] {
		return
	}
	c.seen[name] = true
	c.names = append(c.names, name)
}

func (c *collector) result() []string {
	if c.names == nil {
		return []string{}
	}
	return c.names
}
