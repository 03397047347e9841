package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

// StdoutAdapter writes log entries to stdout in json or text format
type StdoutAdapter struct {
	name   string
	format string
	mu     sync.Mutex
}

// NewStdoutAdapter creates a new stdout adapter
func NewStdoutAdapter(name, format string) *StdoutAdapter {
	return &StdoutAdapter{name: name, format: format}
}

func (a *StdoutAdapter) Write(entry *LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	line, err := formatEntry(entry, a.format)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}
	_, err = fmt.Fprintln(os.Stdout, line)
	return err
}

func (a *StdoutAdapter) Close() error { return nil }

func (a *StdoutAdapter) Name() string { return a.name }

// FileAdapter appends log entries to a file, creating parent directories
type FileAdapter struct {
	name   string
	format string
	file   *os.File
	mu     sync.Mutex
}

// NewFileAdapter creates a new file adapter
func NewFileAdapter(name, path, format string) (*FileAdapter, error) {
	if path == "" {
		return nil, fmt.Errorf("file_path is required for file adapter")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return &FileAdapter{name: name, format: format, file: f}, nil
}

func (a *FileAdapter) Write(entry *LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	line, err := formatEntry(entry, a.format)
	if err != nil {
		return fmt.Errorf("failed to format log entry: %w", err)
	}
	_, err = fmt.Fprintln(a.file, line)
	return err
}

func (a *FileAdapter) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.file.Close()
}

func (a *FileAdapter) Name() string { return a.name }

func formatEntry(entry *LogEntry, format string) (string, error) {
	if strings.ToLower(format) == "text" {
		return formatText(entry), nil
	}
	return formatJSON(entry)
}

func formatJSON(entry *LogEntry) (string, error) {
	logData := map[string]interface{}{
		"level":   entry.Level.String(),
		"message": entry.Message,
		"time":    entry.Timestamp.Format(time.RFC3339),
	}
	for k, v := range entry.Fields {
		logData[k] = v
	}

	data, err := json.Marshal(logData)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func formatText(entry *LogEntry) string {
	out := fmt.Sprintf("%s [%s] %s",
		entry.Timestamp.Format("2006-01-02T15:04:05.000Z07:00"),
		strings.ToUpper(entry.Level.String()),
		entry.Message)

	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		pairs := make([]string, 0, len(keys))
		for _, k := range keys {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, entry.Fields[k]))
		}
		out += " " + strings.Join(pairs, " ")
	}
	return out
}
