package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"visionguard/internal/config"
)

// Logger provides leveled logging (info/warning/error) to files and stdout/stderr.
type Logger struct {
	infoLog    *log.Logger
	warningLog *log.Logger
	errorLog   *log.Logger
	logDir     string
	mu         sync.Mutex
}

// NewLogger creates a Logger and ensures the log directory exists.
func NewLogger(config *config.Config) *Logger {
	if err := os.MkdirAll(config.LogDirectory, 0755); err != nil {
		log.Fatalf("Failed to create log directory: %v", err)
	}

	l := &Logger{logDir: config.LogDirectory}
	l.infoLog = l.newLevelLogger("info.log", os.Stdout, "ℹ️  INFO    ")
	l.warningLog = l.newLevelLogger("warning.log", os.Stdout, "⚠️  WARNING ")
	l.errorLog = l.newLevelLogger("error.log", os.Stderr, "❌ ERROR   ")
	return l
}

// newLevelLogger opens the per-level log file and builds a logger that
// writes to both the console and the file.
func (l *Logger) newLevelLogger(filename string, console io.Writer, prefix string) *log.Logger {
	path := filepath.Join(l.logDir, filename)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("Failed to open log file %s: %v", path, err)
	}
	return log.New(io.MultiWriter(console, file), prefix, log.Ldate|log.Ltime|log.Lshortfile)
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLog.Printf(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warningLog.Printf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errorLog.Printf(format, v...)
}

// CleanLogs truncates the specified log file.
func (l *Logger) CleanLogs(fileName string) {
	filePath := filepath.Join(l.logDir, fileName)
	file, err := os.OpenFile(filePath, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.Error("Error opening file: %v", err)
		return
	}
	defer file.Close()

	l.Info("File content has been cleared.")
}
