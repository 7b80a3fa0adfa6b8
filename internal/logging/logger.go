// Package logging provides categorized file-based logging for tftNERD.
// Logs are written to <workspace>/.tftnerd/logs/ with one file per category.
// Nothing is written unless debug mode is enabled via config.
package logging

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Category represents a log category/system.
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup and configuration
	CategoryData    Category = "data"    // Champion/comp JSON store, reloads
	CategoryScraper Category = "scraper" // Web scraping, HTML parsing
	CategoryVision  Category = "vision"  // Screen capture, OCR, template match
	CategoryLLM     Category = "llm"     // Cloud model calls
	CategoryRules   Category = "rules"   // Synergy inference, sell decisions
	CategoryMonitor Category = "monitor" // Shop polling loop
	CategoryChat    Category = "chat"    // Interactive advisor session
	CategoryTTS     Category = "tts"     // Speech output
)

// Logger wraps a standard logger with category and file output.
type Logger struct {
	category Category
	logger   *log.Logger
	file     *os.File
}

var (
	loggers   = make(map[Category]*Logger)
	loggersMu sync.RWMutex
	logsDir   string
	debugMode bool
	logLevel  int
	configMu  sync.RWMutex
)

// Log levels.
const (
	LevelDebug = 0
	LevelInfo  = 1
	LevelWarn  = 2
	LevelError = 3
)

// Initialize sets up the logging directory. Call once at startup.
// With debug=false every logger is a silent no-op.
func Initialize(workspace string, debug bool, level string) error {
	configMu.Lock()
	debugMode = debug
	switch level {
	case "debug":
		logLevel = LevelDebug
	case "warn", "warning":
		logLevel = LevelWarn
	case "error":
		logLevel = LevelError
	default:
		logLevel = LevelInfo
	}
	configMu.Unlock()

	if !debug {
		return nil
	}
	if workspace == "" {
		return fmt.Errorf("workspace path required")
	}
	logsDir = filepath.Join(workspace, ".tftnerd", "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	boot := Get(CategoryBoot)
	boot.Info("=== tftNERD logging initialized ===")
	boot.Info("Logs directory: %s", logsDir)
	boot.Info("Log level: %s", level)
	return nil
}

// IsDebugMode returns whether debug logging is enabled.
func IsDebugMode() bool {
	configMu.RLock()
	defer configMu.RUnlock()
	return debugMode
}

// Get returns (or creates) a logger for the given category.
// Returns a no-op logger when debug mode is disabled.
func Get(category Category) *Logger {
	if !IsDebugMode() || logsDir == "" {
		return &Logger{category: category}
	}

	loggersMu.RLock()
	if l, ok := loggers[category]; ok {
		loggersMu.RUnlock()
		return l
	}
	loggersMu.RUnlock()

	loggersMu.Lock()
	defer loggersMu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}

	// Date-prefixed files keep rotation trivial.
	date := time.Now().Format("2006-01-02")
	logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", date, category))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "[logging] Warning: could not open log file %s: %v\n", logPath, err)
		return &Logger{category: category}
	}

	l := &Logger{
		category: category,
		file:     file,
		logger:   log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds),
	}
	loggers[category] = l
	return l
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelDebug {
		return
	}
	l.logger.Printf("[DEBUG] %s", fmt.Sprintf(format, args...))
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelInfo {
		return
	}
	l.logger.Printf("[INFO] %s", fmt.Sprintf(format, args...))
}

// Warn logs a warning message.
func (l *Logger) Warn(format string, args ...interface{}) {
	if l.logger == nil || logLevel > LevelWarn {
		return
	}
	l.logger.Printf("[WARN] %s", fmt.Sprintf(format, args...))
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...interface{}) {
	if l.logger == nil {
		return
	}
	l.logger.Printf("[ERROR] %s", fmt.Sprintf(format, args...))
}

// CloseAll closes all open log files. Call at shutdown.
func CloseAll() {
	loggersMu.Lock()
	defer loggersMu.Unlock()
	for _, l := range loggers {
		if l.file != nil {
			l.file.Close()
		}
	}
	loggers = make(map[Category]*Logger)
}

// Convenience functions. No-ops when debug mode is disabled.

// Boot logs to the boot category.
func Boot(format string, args ...interface{}) { Get(CategoryBoot).Info(format, args...) }

// BootWarn logs warning to the boot category.
func BootWarn(format string, args ...interface{}) { Get(CategoryBoot).Warn(format, args...) }

// Data logs to the data category.
func Data(format string, args ...interface{}) { Get(CategoryData).Info(format, args...) }

// Scraper logs to the scraper category.
func Scraper(format string, args ...interface{}) { Get(CategoryScraper).Info(format, args...) }

// ScraperWarn logs warning to the scraper category.
func ScraperWarn(format string, args ...interface{}) { Get(CategoryScraper).Warn(format, args...) }

// Vision logs to the vision category.
func Vision(format string, args ...interface{}) { Get(CategoryVision).Info(format, args...) }

// LLM logs to the llm category.
func LLM(format string, args ...interface{}) { Get(CategoryLLM).Info(format, args...) }

// LLMWarn logs warning to the llm category.
func LLMWarn(format string, args ...interface{}) { Get(CategoryLLM).Warn(format, args...) }

// Rules logs to the rules category.
func Rules(format string, args ...interface{}) { Get(CategoryRules).Info(format, args...) }

// Monitor logs to the monitor category.
func Monitor(format string, args ...interface{}) { Get(CategoryMonitor).Info(format, args...) }

// Timer helps measure operation duration.
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation.
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if duration exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
