// Package logging writes leveled, printf-style messages to a rotating file
// under the project's .viewpoint/logs directory. CLI output stays on stdout;
// everything diagnostic goes here.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DEBUG = iota
	INFO
	WARN
	ERROR
	FATAL
)

const (
	logDirName  = ".viewpoint/logs"
	logFileName = "viewpoint.log"
	maxLogSize  = int64(10 * 1024 * 1024)
	maxLogAge   = 7 * 24 * time.Hour
)

var (
	globalLogger *Logger
	once         sync.Once
)

// Logger appends to a single log file and rotates it by size. Rotated files
// older than maxLogAge are cleaned up in the background.
type Logger struct {
	mu      sync.Mutex
	file    *os.File
	logger  *log.Logger
	level   int
	logPath string
	size    int64
}

// Initialize sets up the global logger rooted at projectDir. The first call
// wins; later calls are no-ops.
func Initialize(projectDir string) error {
	var initErr error
	once.Do(func() {
		globalLogger = &Logger{level: INFO}
		initErr = globalLogger.open(projectDir)
	})
	return initErr
}

// GetLogger returns the global logger, initializing it against the current
// directory if Initialize was never called.
func GetLogger() *Logger {
	if globalLogger == nil {
		Initialize(".")
	}
	return globalLogger
}

func (l *Logger) open(projectDir string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	logDir := filepath.Join(projectDir, logDirName)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	l.logPath = filepath.Join(logDir, logFileName)
	return l.openLogFile()
}

func (l *Logger) openLogFile() error {
	file, err := os.OpenFile(l.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	if info, err := file.Stat(); err == nil {
		l.size = info.Size()
	}
	l.file = file
	l.logger = log.New(file, "", log.Ldate|log.Ltime|log.Lmicroseconds|log.Lshortfile)
	return nil
}

func (l *Logger) rotateIfNeeded() error {
	if l.size < maxLogSize {
		return nil
	}
	if l.file != nil {
		l.file.Close()
	}
	stamp := time.Now().Format("20060102-150405")
	rotated := filepath.Join(filepath.Dir(l.logPath), fmt.Sprintf("viewpoint-%s.log", stamp))
	if err := os.Rename(l.logPath, rotated); err != nil {
		return fmt.Errorf("failed to rotate log file: %w", err)
	}
	if err := l.openLogFile(); err != nil {
		return err
	}
	go l.cleanOldLogs()
	return nil
}

func (l *Logger) cleanOldLogs() {
	logDir := filepath.Dir(l.logPath)
	files, err := os.ReadDir(logDir)
	if err != nil {
		return
	}
	cutoff := time.Now().Add(-maxLogAge)
	for _, file := range files {
		if file.IsDir() || file.Name() == logFileName || filepath.Ext(file.Name()) != ".log" {
			continue
		}
		info, err := file.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			os.Remove(filepath.Join(logDir, file.Name()))
		}
	}
}

func (l *Logger) write(level int, format string, v ...interface{}) {
	if level < l.level {
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.logger == nil {
		return
	}
	l.rotateIfNeeded()

	msg := fmt.Sprintf("[%s] %s", levelString(level), fmt.Sprintf(format, v...))
	l.logger.Output(3, msg)
	l.size += int64(len(msg)) + 1
}

func levelString(level int) string {
	switch level {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

func (l *Logger) Debug(format string, v ...interface{}) { l.write(DEBUG, format, v...) }
func (l *Logger) Info(format string, v ...interface{})  { l.write(INFO, format, v...) }
func (l *Logger) Warn(format string, v ...interface{})  { l.write(WARN, format, v...) }
func (l *Logger) Error(format string, v ...interface{}) { l.write(ERROR, format, v...) }

// Fatal logs the message and exits the process.
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.write(FATAL, format, v...)
	os.Exit(1)
}

// SetLevel sets the minimum level that gets written.
func (l *Logger) SetLevel(level int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// Close closes the underlying log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}

// LogPath returns the current log file path.
func (l *Logger) LogPath() string {
	return l.logPath
}

// Package-level convenience functions on the global logger.

func Debug(format string, v ...interface{}) { GetLogger().Debug(format, v...) }
func Info(format string, v ...interface{})  { GetLogger().Info(format, v...) }
func Warn(format string, v ...interface{})  { GetLogger().Warn(format, v...) }
func Error(format string, v ...interface{}) { GetLogger().Error(format, v...) }
func Fatal(format string, v ...interface{}) { GetLogger().Fatal(format, v...) }

// Writer adapts the global logger to io.Writer so the standard log package
// and third-party libraries can be pointed at the log file.
func Writer() io.Writer {
	return &logWriter{logger: GetLogger()}
}

type logWriter struct {
	logger *Logger
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.logger.Info("%s", string(p))
	return len(p), nil
}

// RedirectStandardLog routes the standard log package into the log file.
func RedirectStandardLog() {
	log.SetOutput(Writer())
	log.SetFlags(0)
}
