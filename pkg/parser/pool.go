package parser

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool bounds the number of live parsers for one dialect.
//
// A slot token is taken for every checked-out parser, so at most maxSize
// parsers exist at once. Returned parsers are kept idle for reuse.
type parserPool struct {
	dialect  Dialect
	language *ts.Language
	slots    chan struct{}

	mu      sync.Mutex
	idle    []*ts.Parser
	created int
	closed  bool

	logger *slog.Logger
}

func newParserPool(dialect Dialect, langPtr unsafe.Pointer, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		dialect:  dialect,
		language: ts.NewLanguage(langPtr),
		slots:    make(chan struct{}, maxSize),
		logger:   logger,
	}
}

// acquire blocks while every slot is in use.
func (p *parserPool) acquire() (*ts.Parser, error) {
	p.slots <- struct{}{}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		<-p.slots
		return nil, ErrClosed
	}

	if n := len(p.idle); n > 0 {
		parser := p.idle[n-1]
		p.idle = p.idle[:n-1]
		return parser, nil
	}

	parser, err := p.newParser()
	if err != nil {
		<-p.slots
		return nil, err
	}
	return parser, nil
}

// newParser must be called with p.mu held.
func (p *parserPool) newParser() (*ts.Parser, error) {
	parser := ts.NewParser()
	if parser == nil {
		return nil, fmt.Errorf("tree-sitter could not allocate a %s parser", p.dialect)
	}
	if err := parser.SetLanguage(p.language); err != nil {
		parser.Close()
		return nil, fmt.Errorf("set %s grammar: %w", p.dialect, err)
	}

	p.created++
	p.logger.Debug("parser created", "dialect", p.dialect.String(), "live", p.created)
	return parser, nil
}

func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}

	p.mu.Lock()
	if p.closed {
		parser.Close()
	} else {
		p.idle = append(p.idle, parser)
	}
	p.mu.Unlock()

	<-p.slots
}

// close frees idle parsers. Parsers still checked out are freed on release.
func (p *parserPool) close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.closed = true
	for _, parser := range p.idle {
		parser.Close()
	}
	p.logger.Debug("parser pool closed", "dialect", p.dialect.String(), "idle_closed", len(p.idle))
	p.idle = nil
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
