package config

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/relaykit/relay/pkg/observability"
)

// syncBuffer makes a bytes.Buffer safe to share with the watcher goroutine.
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

func TestWatchLogLevel_AppliesFileEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("observability:\n  log_level: info\n"), 0o644))

	var buf syncBuffer
	logger := observability.NewLogger(observability.InfoLevel, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, WatchLogLevel(ctx, path, logger))

	require.NoError(t, os.WriteFile(path, []byte("observability:\n  log_level: debug\n"), 0o644))

	assert.Eventually(t, func() bool {
		logger.Debug("level probe")
		return bytes.Contains([]byte(buf.String()), []byte("level probe"))
	}, 3*time.Second, 50*time.Millisecond, "debug level should take effect after the file edit")
}

func TestWatchLogLevel_BadEditKeepsLevel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "relay.yaml")
	require.NoError(t, os.WriteFile(path, []byte("observability:\n  log_level: info\n"), 0o644))

	var buf syncBuffer
	logger := observability.NewLogger(observability.InfoLevel, &buf)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, WatchLogLevel(ctx, path, logger))

	require.NoError(t, os.WriteFile(path, []byte("observability: [broken"), 0o644))

	assert.Eventually(t, func() bool {
		return bytes.Contains([]byte(buf.String()), []byte("Config reload failed"))
	}, 3*time.Second, 50*time.Millisecond)

	logger.Debug("should be filtered")
	assert.NotContains(t, buf.String(), "should be filtered")
}

func TestWatchLogLevel_EmptyPathNoop(t *testing.T) {
	logger := observability.NewLogger(observability.InfoLevel, &bytes.Buffer{})
	assert.NoError(t, WatchLogLevel(context.Background(), "", logger))
}
