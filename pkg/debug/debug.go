/*
 * Package debug provides leveled logging functionality for the application.
 * Logging is configured through the DEBUG and LOG_LEVEL environment
 * variables and can be reinitialized after the environment is loaded.
 */
package debug

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarning
	LevelError
)

var levelNames = map[LogLevel]string{
	LevelDebug:   "DEBUG",
	LevelInfo:    "INFO",
	LevelWarning: "WARNING",
	LevelError:   "ERROR",
}

var (
	// IsEnabled indicates whether logging output is enabled
	IsEnabled bool

	// CurrentLevel is the minimum level that will be logged
	CurrentLevel LogLevel

	logger = log.New(os.Stdout, "", 0)
)

func init() {
	Reinitialize()
}

// Reinitialize reloads the logging configuration from environment variables.
// Call after loading .env so DEBUG and LOG_LEVEL take effect.
func Reinitialize() {
	debugEnv := strings.ToLower(os.Getenv("DEBUG"))
	IsEnabled = debugEnv == "true" || debugEnv == "1"

	switch strings.ToUpper(os.Getenv("LOG_LEVEL")) {
	case "DEBUG":
		CurrentLevel = LevelDebug
	case "WARNING":
		CurrentLevel = LevelWarning
	case "ERROR":
		CurrentLevel = LevelError
	default:
		CurrentLevel = LevelInfo
	}
}

// Log writes a message at the given level if logging is enabled
func Log(level LogLevel, format string, args ...interface{}) {
	logMessage(level, format, args...)
}

// Debug logs a message at DEBUG level
func Debug(format string, args ...interface{}) {
	logMessage(LevelDebug, format, args...)
}

// Info logs a message at INFO level
func Info(format string, args ...interface{}) {
	logMessage(LevelInfo, format, args...)
}

// Warning logs a message at WARNING level
func Warning(format string, args ...interface{}) {
	logMessage(LevelWarning, format, args...)
}

// Error logs a message at ERROR level
func Error(format string, args ...interface{}) {
	logMessage(LevelError, format, args...)
}

func logMessage(level LogLevel, format string, args ...interface{}) {
	if !IsEnabled || level < CurrentLevel {
		return
	}

	// Caller of the exported wrapper
	_, file, line, ok := runtime.Caller(2)
	caller := "unknown:0"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05.000")
	message := fmt.Sprintf(format, args...)

	logger.Printf("[%s] [%s] [%s] %s", timestamp, levelNames[level], caller, message)
}
