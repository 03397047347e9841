package logging

import (
	"sync"

	"github.com/REHANAMD/InternGenie/internal/config"
)

var (
	globalLogger Logger
	globalMu     sync.RWMutex
)

// InitFromConfig builds the global logger from the logging configuration.
// With no adapters configured it falls back to a single stdout adapter using
// the top-level format.
func InitFromConfig(cfg *config.Config) (Logger, error) {
	logger := NewMultiLogger()
	logger.SetLevel(ParseLevel(cfg.Logging.Level))

	added := 0
	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}

		var (
			adapter LogAdapter
			err     error
		)
		switch ac.Type {
		case "stdout":
			adapter = NewStdoutAdapter(ac.Name, stringOption(ac.Options, "format", cfg.Logging.Format))
		case "file":
			adapter, err = NewFileAdapter(ac.Name,
				stringOption(ac.Options, "file_path", ""),
				stringOption(ac.Options, "format", cfg.Logging.Format))
		default:
			continue
		}
		if err != nil {
			return nil, err
		}
		if err := logger.AddAdapter(adapter); err != nil {
			return nil, err
		}
		added++
	}

	if added == 0 {
		if err := logger.AddAdapter(NewStdoutAdapter("stdout", cfg.Logging.Format)); err != nil {
			return nil, err
		}
	}

	globalMu.Lock()
	globalLogger = logger
	globalMu.Unlock()

	return logger, nil
}

// GetGlobalLogger returns the process-wide logger, initializing a plain
// stdout logger on first use so early callers never get nil.
func GetGlobalLogger() Logger {
	globalMu.RLock()
	if globalLogger != nil {
		defer globalMu.RUnlock()
		return globalLogger
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		logger := NewMultiLogger()
		_ = logger.AddAdapter(NewStdoutAdapter("stdout", "json"))
		globalLogger = logger
	}
	return globalLogger
}

func stringOption(options map[string]interface{}, key, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}
