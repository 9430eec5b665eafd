package security

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Atrate/certumctl/internal/config"
)

// DiagEvent is one diagnostic event. Events record internal state
// transitions (OS identity, check outcomes, remediation results) for
// troubleshooting. PIN values must never appear in an event.
type DiagEvent struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	Detail    string    `json:"detail"`
	Success   bool      `json:"success"`
}

// DiagLogger is the env-gated diagnostics sink. When disabled every call
// is a no-op.
type DiagLogger struct {
	enabled bool
	logFile *os.File
	logger  *log.Logger
}

var diagLogger = &DiagLogger{}

// InitDiagLogger initializes diagnostics logging from the environment.
// CERTUMCTL_DEBUG enables it; CERTUMCTL_DEBUG_LOG redirects events from
// stderr to a file (created 0600).
func InitDiagLogger() error {
	if os.Getenv(config.EnvDebug) == "" {
		diagLogger = &DiagLogger{}
		return nil
	}

	sink := os.Stderr
	var logFile *os.File
	if path := os.Getenv(config.EnvDebugLog); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("failed to open diagnostics log: %w", err)
		}
		sink = f
		logFile = f
	}

	diagLogger = &DiagLogger{
		enabled: true,
		logFile: logFile,
		logger:  log.New(sink, "", 0),
	}
	LogEvent("diag_init", "diagnostics logging enabled", true)
	return nil
}

// CloseDiagLogger flushes and closes a file-backed diagnostics sink.
func CloseDiagLogger() {
	if diagLogger.enabled && diagLogger.logFile != nil {
		LogEvent("diag_close", "diagnostics logging session ended", true)
		diagLogger.logFile.Close()
	}
}

// LogEvent records one diagnostic event.
func LogEvent(eventType, detail string, success bool) {
	if !diagLogger.enabled || diagLogger.logger == nil {
		return
	}
	ev := DiagEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		Detail:    detail,
		Success:   success,
	}
	data, err := json.Marshal(ev)
	if err != nil {
		diagLogger.logger.Printf("DIAG %s %s success=%v", eventType, detail, success)
		return
	}
	diagLogger.logger.Println(string(data))
}

// Enabled reports whether diagnostics logging is active.
func Enabled() bool {
	return diagLogger.enabled
}
