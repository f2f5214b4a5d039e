package testutil

import (
	"bytes"
	"sync"
	"testing"

	"github.com/GustavoCaso/spendwatch/internal/logger"
)

// TestLogger creates a test logger that doesn't output anything.
func TestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	return logger.New(logger.Config{
		Level:  logger.LevelInfo,
		Format: logger.FormatText,
		Output: "discard",
	})
}

// LogBuffer collects log lines and is safe for concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// CaptureLogger returns a debug level logger whose text output lands in the
// returned buffer.
func CaptureLogger(t *testing.T) (*logger.Logger, *LogBuffer) {
	t.Helper()

	buf := &LogBuffer{}
	return logger.NewWithWriter(logger.Config{
		Level:  logger.LevelDebug,
		Format: logger.FormatText,
	}, buf), buf
}
