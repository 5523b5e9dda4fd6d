package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

var (
	AppLogger   *log.Logger
	AuditLogger *log.Logger
	ErrorLogger *log.Logger

	logLevel     string
	appLogFile   *os.File
	auditLogFile *os.File
	initialized  bool
)

// InitGlobalLoggers opens the application and audit log files and wires the
// package-level loggers. Safe to call again with the same settings.
func InitGlobalLoggers(appLogPath, auditLogPath, level string) error {
	if initialized && appLogFile != nil && auditLogFile != nil && strings.ToUpper(level) == logLevel {
		return nil
	}
	if appLogFile != nil {
		appLogFile.Close()
		appLogFile = nil
	}
	if auditLogFile != nil {
		auditLogFile.Close()
		auditLogFile = nil
	}

	logLevel = strings.ToUpper(level)
	if logLevel == "" {
		logLevel = "INFO"
	}

	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)

	actualAppLogPath := appLogPath
	var appLogWriter io.Writer = io.Discard
	if err := os.MkdirAll(filepath.Dir(appLogPath), 0750); err != nil {
		ErrorLogger.Printf("Failed to create app log directory %s: %v. App logs will be discarded.", filepath.Dir(appLogPath), err)
		actualAppLogPath = "(discarded)"
	} else {
		var errApp error
		appLogFile, errApp = os.OpenFile(appLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if errApp != nil {
			ErrorLogger.Printf("Failed to open app log file %s: %v. App logs will be discarded.", appLogPath, errApp)
			actualAppLogPath = "(discarded)"
		} else {
			appLogWriter = appLogFile
		}
	}
	AppLogger = log.New(appLogWriter, "APP: ", log.Ldate|log.Ltime|log.Lshortfile)

	actualAuditLogPath := auditLogPath
	var auditLogWriter io.Writer = io.Discard
	if err := os.MkdirAll(filepath.Dir(auditLogPath), 0750); err != nil {
		ErrorLogger.Printf("Failed to create audit log directory %s: %v. Audit logs will be discarded.", filepath.Dir(auditLogPath), err)
		actualAuditLogPath = "(discarded)"
	} else {
		var errAudit error
		auditLogFile, errAudit = os.OpenFile(auditLogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
		if errAudit != nil {
			ErrorLogger.Printf("Failed to open audit log file %s: %v. Audit logs will be discarded.", auditLogPath, errAudit)
			actualAuditLogPath = "(discarded)"
		} else {
			auditLogWriter = auditLogFile
		}
	}
	AuditLogger = log.New(auditLogWriter, "AUDIT: ", log.Ldate|log.Ltime)

	if !initialized {
		AppLogger.Printf("App logger initialized. Log level: %s. Output file: %s", logLevel, actualAppLogPath)
		AuditLogger.Printf("Audit logger initialized. Output file: %s", actualAuditLogPath)
	}
	initialized = true
	return nil
}

func Info(format string, v ...interface{}) {
	if AppLogger != nil && (logLevel == "INFO" || logLevel == "DEBUG") {
		AppLogger.Printf(format, v...)
	}
}

func Debug(format string, v ...interface{}) {
	if AppLogger != nil && logLevel == "DEBUG" {
		AppLogger.Printf(format, v...)
	}
}

func Warn(format string, v ...interface{}) {
	if AppLogger != nil && logLevel != "ERROR" {
		AppLogger.Printf(format, v...)
	}
}

func Error(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Print(message)
	}
	if AppLogger != nil && appLogFile != nil {
		AppLogger.Print(message)
	}
}

func Fatal(format string, v ...interface{}) {
	message := fmt.Sprintf(format, v...)
	if ErrorLogger != nil {
		ErrorLogger.Fatal(message)
	} else {
		log.Fatal(message)
	}
}

// Audit records security-relevant events (logins, logouts, exports, credential
// changes) to the audit log regardless of the configured level.
func Audit(format string, v ...interface{}) {
	if AuditLogger != nil {
		AuditLogger.Printf(format, v...)
	}
}

func CloseLogFiles() {
	if appLogFile != nil {
		AppLogger.Println("Closing app log file.")
		appLogFile.Close()
		appLogFile = nil
	}
	if auditLogFile != nil {
		auditLogFile.Close()
		auditLogFile = nil
	}
	initialized = false
}
