package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Dated file loggers for the three levels. They stay nil until InitLogger
// runs, and every Log* helper tolerates that, so tests and scripts can use
// packages that log without any setup.
var (
	InfoLogger  *log.Logger
	ErrorLogger *log.Logger
	DebugLogger *log.Logger
)

// InitLogger opens the day's log files under logs/. The <level>-YYYY-MM-DD.log
// naming is load-bearing: scripts/analyze_logs.go globs for it.
func InitLogger() error {
	logsDir := "logs"
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return fmt.Errorf("failed to create logs directory: %v", err)
	}

	day := time.Now().Format("2006-01-02")
	infoFile, err := openLogFile(logsDir, "info", day)
	if err != nil {
		return err
	}
	errorFile, err := openLogFile(logsDir, "error", day)
	if err != nil {
		return err
	}
	debugFile, err := openLogFile(logsDir, "debug", day)
	if err != nil {
		return err
	}

	InfoLogger = log.New(infoFile, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(errorFile, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	DebugLogger = log.New(debugFile, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)

	return nil
}

func openLogFile(dir, level, day string) (*os.File, error) {
	file, err := os.OpenFile(
		filepath.Join(dir, fmt.Sprintf("%s-%s.log", level, day)),
		os.O_APPEND|os.O_CREATE|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s log file: %v", level, err)
	}
	return file, nil
}

// LogInfo writes to the info log
func LogInfo(format string, v ...interface{}) {
	if InfoLogger != nil {
		InfoLogger.Printf(format, v...)
	}
}

// LogError writes to the error log
func LogError(format string, v ...interface{}) {
	if ErrorLogger != nil {
		ErrorLogger.Printf(format, v...)
	}
}

// LogDebug writes to the debug log
func LogDebug(format string, v ...interface{}) {
	if DebugLogger != nil {
		DebugLogger.Printf(format, v...)
	}
}

// LogRequest records one handled HTTP request, used by the request middleware
func LogRequest(method, path, ip string, status int, duration time.Duration) {
	LogInfo("Request: %s %s from %s - Status: %d - Duration: %v", method, path, ip, status, duration)
}

// LogErrorWithStack records a recovered panic with its stack trace
func LogErrorWithStack(err error, stack []byte) {
	if ErrorLogger != nil {
		ErrorLogger.Printf("Error: %v\nStack Trace:\n%s", err, stack)
	}
}
