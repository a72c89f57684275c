package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/blocksmith/pkg/config"
	"github.com/gnana997/blocksmith/pkg/extract"
	"github.com/gnana997/blocksmith/pkg/integrate"
)

// syncBuffer is a bytes.Buffer safe for one writer and a polling reader.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchComponents(t *testing.T) {
	root := t.TempDir()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	o, err := integrate.New(root, config.Default(), extract.Lexical{}, logger)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var out syncBuffer
	done := make(chan error, 1)
	go func() { done <- watchComponents(ctx, &out, o, "", logger) }()

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("Watching components/aceternity"))
	}, 3*time.Second, 10*time.Millisecond)

	writeProjectFile(t, root, sourceRel, sparklesSource)

	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(out.String()), []byte("WROTE "+blockRel))
	}, 5*time.Second, 20*time.Millisecond)
	assert.Contains(t, out.String(), "Sparkles  [animations]")
	assert.True(t, projectFileExists(root, schemaRel))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("watch did not stop")
	}
}
