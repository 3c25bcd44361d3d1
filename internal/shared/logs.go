package shared

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// logFileName is the active log file inside the configured log directory.
const logFileName = "plexloc.log"

// OpenLogWriter opens the active log file in dir for appending and returns a
// writer that duplicates entries to stderr. Callers own the returned closer.
func OpenLogWriter(dir string) (io.Writer, io.Closer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	f, err := os.OpenFile(filepath.Join(dir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	return io.MultiWriter(os.Stderr, f), f, nil
}

// CleanOldLogs deletes log files in dir whose modification time is older than
// retentionDays. The active log file is always skipped. Returns the number of
// files deleted; per-file failures are reported but do not stop the sweep.
func CleanOldLogs(dir string, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted := 0
	var firstErr error

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == logFileName || !strings.HasPrefix(name, logFileName) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			deleted++
		}
	}

	return deleted, firstErr
}
