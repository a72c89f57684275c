// Package parser wraps tree-sitter with per-dialect parser pools so that
// component files can be parsed concurrently.
package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/gnana997/blocksmith/pkg/util"
)

// ErrClosed is returned by Parse after Close.
var ErrClosed = errors.New("parser manager is closed")

// Manager owns one lazily created parser pool per dialect.
//
// Callers own the returned trees and must call tree.Close().
//
//	manager := parser.NewManager(logger, 0)
//	defer manager.Close()
//
//	tree, err := manager.Parse(src, parser.DialectTSX)
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type Manager struct {
	pools    map[Dialect]*parserPool
	poolSize int
	closed   bool

	mutex  sync.RWMutex
	logger *slog.Logger

	parsesCalled int
}

// Stats contains parser usage counters.
type Stats struct {
	ParsersCreated int
	ParsesCalled   int
}

// NewManager creates a Manager. poolSize <= 0 sizes each pool from the CPU count.
func NewManager(logger *slog.Logger, poolSize int) *Manager {
	if logger == nil {
		logger = slog.Default()
	}

	return &Manager{
		pools:    make(map[Dialect]*parserPool),
		poolSize: util.GetOptimalPoolSizeWithOverride(poolSize),
		logger:   logger,
	}
}

// Parse parses source with the given dialect's grammar.
//
// Trees with syntax errors are still returned; a partially broken component
// usually still has a readable props interface.
func (m *Manager) Parse(source []byte, dialect Dialect) (*ts.Tree, error) {
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("cannot parse unknown dialect")
	}

	pool, err := m.getOrCreatePool(dialect)
	if err != nil {
		return nil, err
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no tree for %s source", dialect)
	}

	if tree.RootNode().HasError() {
		m.logger.Debug("parse tree contains errors", "dialect", dialect.String())
	}

	return tree, nil
}

// ParseFile parses source using the dialect implied by filePath.
func (m *Manager) ParseFile(source []byte, filePath string) (*ts.Tree, error) {
	dialect := DetectDialect(filePath)
	if dialect == DialectUnknown {
		return nil, fmt.Errorf("unsupported file extension: %s", filePath)
	}
	return m.Parse(source, dialect)
}

// Close releases every pooled parser. The Manager is unusable afterwards.
func (m *Manager) Close() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	m.logger.Debug("closing parser manager", "parses_called", m.parsesCalled)

	for _, pool := range m.pools {
		pool.close()
	}
	m.pools = nil

	return nil
}

// Stats returns usage counters across all pools.
func (m *Manager) Stats() Stats {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	created := 0
	for _, pool := range m.pools {
		created += pool.createdCount()
	}

	return Stats{ParsersCreated: created, ParsesCalled: m.parsesCalled}
}

func (m *Manager) getOrCreatePool(dialect Dialect) (*parserPool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	m.parsesCalled++

	if pool, ok := m.pools[dialect]; ok {
		return pool, nil
	}

	langPtr, err := languagePointer(dialect)
	if err != nil {
		return nil, err
	}

	pool := newParserPool(dialect, langPtr, m.poolSize, m.logger)
	m.pools[dialect] = pool

	m.logger.Debug("created parser pool", "dialect", dialect.String(), "max_size", m.poolSize)

	return pool, nil
}

func languagePointer(dialect Dialect) (unsafe.Pointer, error) {
	switch dialect {
	case DialectTSX:
		return ts_typescript.LanguageTSX(), nil
	case DialectTypeScript:
		return ts_typescript.LanguageTypescript(), nil
	case DialectJavaScript:
		return ts_javascript.Language(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %s", dialect)
	}
}
