package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex

	current  Config
	override io.Writer
	logFile  *os.File
)

// Configure sets the configuration used by subsequently created loggers and
// rebuilds the ones already handed out.
func Configure(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	current = cfg
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
	for component, entry := range loggers {
		apply(entry.Logger, component)
	}
}

// SetOutput sends every logger to w, bypassing the configured sinks.
// Passing nil restores the configured sinks.
func SetOutput(w io.Writer) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	override = w
	for component, entry := range loggers {
		apply(entry.Logger, component)
	}
}

// NewLogger returns the logger for a component, creating it on first use.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logger := logrus.New()
	apply(logger, component)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// apply configures logger from the current settings. Callers hold loggersMu.
func apply(logger *logrus.Logger, component string) {
	levelStr := "info"
	if env := os.Getenv("PINIT_LOG_LEVEL"); env != "" {
		levelStr = env
	} else if current.Level != "" {
		levelStr = current.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	logger.SetReportCaller(os.Getenv("PINIT_LOG_CALLER") == "true" || current.ReportCaller)

	switch current.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&TextFormatter{})
	}

	if override != nil {
		logger.SetOutput(override)
		return
	}

	var writers []io.Writer
	if f := openLogFile(); f != nil {
		writers = append(writers, f)
	}

	toStderr := false
	switch current.Stderr {
	case "always":
		toStderr = true
	case "never":
	default:
		isDebug := logger.GetLevel() >= logrus.DebugLevel
		isInteractive := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
		toStderr = isDebug || !isInteractive
	}
	if toStderr {
		writers = append(writers, os.Stderr)
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// openLogFile lazily opens the shared daily log file. Callers hold loggersMu.
func openLogFile() *os.File {
	if !current.File || current.Dir == "" {
		return nil
	}
	if logFile != nil {
		return logFile
	}
	if err := os.MkdirAll(current.Dir, 0o755); err != nil {
		return nil
	}
	name := fmt.Sprintf("pinit-%s.log", time.Now().Format("2006-01-02"))
	f, err := os.OpenFile(filepath.Join(current.Dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil
	}
	logFile = f
	return logFile
}
