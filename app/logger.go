package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Logger appends timestamped lines to a log file. The terminal belongs
// to the TUI, so everything that would otherwise go to stdout lands
// here. A nil Logger discards all writes; callers never guard their
// log calls.
type Logger struct {
	mu   sync.Mutex
	file *os.File
}

// DefaultLogPath returns the log file location under the user cache
// directory.
func DefaultLogPath() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gridline", "gridline.log"), nil
}

// NewLogger opens the log file at path for appending, creating parent
// directories as needed.
func NewLogger(path string) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Logger{file: f}, nil
}

// Log writes one line: timestamp, upper-cased level, message.
func (l *Logger) Log(level, message string) {
	if l == nil || l.file == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.file, "%s [%s] %s\n",
		time.Now().Format(time.RFC3339), strings.ToUpper(level), message)
}

// Close closes the log file. Further Log calls are dropped.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	err := l.file.Close()
	l.file = nil
	return err
}
