package logger

import (
	"io"
	"log"
	"os"
)

var (
	Info   *log.Logger
	Warn   *log.Logger
	Debug  *log.Logger
	Error  *log.Logger
	Always *log.Logger // Always logs to file regardless of log level

	// Current log level for filtering
	currentLogLevel string
)

func init() {
	// Safe defaults so library consumers and tests can log before (or
	// without) InitWithConfig wiring a log file.
	InitDiscard()
}

func Init() error {
	return InitWithConfig("info", "dealcast.log")
}

// InitWithConfig routes leveled loggers to the given log file, filtering by
// level. Errors additionally mirror to stderr.
func InitWithConfig(logLevel, logFilePath string) error {
	currentLogLevel = logLevel

	logFile, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}

	nullWriter := io.Discard

	Info = log.New(getWriter("info", logFile, nullWriter), "ℹ️  INFO: ", log.Ldate|log.Ltime)
	Warn = log.New(getWriter("warn", logFile, nullWriter), "⚠️  WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(getWriter("debug", logFile, nullWriter), "🐛 DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(io.MultiWriter(os.Stderr, logFile), "❌ ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Always = log.New(logFile, "📝 ALWAYS: ", log.Ldate|log.Ltime) // bypasses level filtering

	return nil
}

// InitDiscard silences all loggers. Used in tests and as the pre-init state.
func InitDiscard() {
	discard := log.New(io.Discard, "", 0)
	Info, Warn, Debug, Error, Always = discard, discard, discard, discard, discard
}

// getWriter returns the appropriate writer based on log level
func getWriter(level string, activeWriter, disabledWriter io.Writer) io.Writer {
	if shouldLog(level) {
		return activeWriter
	}
	return disabledWriter
}

// shouldLog determines if a log level should be active
func shouldLog(level string) bool {
	levels := map[string]int{
		"error": 0,
		"warn":  1,
		"info":  2,
		"debug": 3,
	}

	currentLevel, exists := levels[currentLogLevel]
	if !exists {
		currentLevel = 2 // default to info
	}

	requiredLevel, exists := levels[level]
	if !exists {
		return false
	}

	return currentLevel >= requiredLevel
}
