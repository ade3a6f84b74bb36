package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Log file names look like jkit-20251213-095105-123.log.
const (
	logFilePrefix = "jkit-"
	logFileSuffix = ".log"
)

// LogConfig holds configuration for structured log output.
type LogConfig struct {
	Format        string // "human" (default), "text" or "json"
	Level         string // "DEBUG", "INFO" (default), "WARN", "ERROR"
	Output        string // "-" for stderr, "none" to disable, "" for a generated file in Dir, or a path
	Dir           string // Log directory (default: $JKIT_DIR/logs)
	RetentionDays int    // Days to retain generated log files (0 keeps everything)
}

// LogFile is the destination of log output. Path is empty unless a file was opened.
type LogFile struct {
	Path   string
	file   *os.File
	writer io.Writer
}

// NewLogFile opens the log destination described by cfg.
//
//   - "none": io.Discard
//   - "-": os.Stderr
//   - "": new file named by GenerateLogFilename in cfg.Dir
//   - other: the given path, relative paths resolved against cfg.Dir
func NewLogFile(cfg *LogConfig) (*LogFile, error) {
	var path string
	switch out := strings.ToLower(cfg.Output); out {
	case "none":
		return &LogFile{writer: io.Discard}, nil
	case "-":
		return &LogFile{writer: os.Stderr}, nil
	case "":
		path = filepath.Join(cfg.Dir, GenerateLogFilename(time.Now().UTC()))
	default:
		path = cfg.Output
		if !filepath.IsAbs(path) {
			path = filepath.Join(cfg.Dir, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory %q: %w", filepath.Dir(path), err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %q: %w", path, err)
	}
	return &LogFile{Path: path, file: f, writer: f}, nil
}

// Writer returns the io.Writer for log output.
func (lf *LogFile) Writer() io.Writer {
	return lf.writer
}

// Close closes the log file if one was opened.
func (lf *LogFile) Close() error {
	if lf.file == nil {
		return nil
	}
	return lf.file.Close()
}

// GenerateLogFilename returns jkit-YYYYMMDD-HHMMSS-sss.log for t (sss = milliseconds).
func GenerateLogFilename(t time.Time) string {
	return fmt.Sprintf("%s%s-%03d%s", logFilePrefix, t.Format("20060102-150405"), t.Nanosecond()/1_000_000, logFileSuffix)
}

// CleanupOldLogFiles removes generated log files in dir older than retentionDays.
// A missing dir is not an error; files that cannot be removed are skipped.
func CleanupOldLogFiles(dir string, retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading log directory %q: %w", dir, err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, logFilePrefix) || !strings.HasSuffix(name, logFileSuffix) {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		_ = os.Remove(filepath.Join(dir, name))
	}
	return nil
}
