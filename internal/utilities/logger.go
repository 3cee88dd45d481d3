// Package utilities holds small shared helpers, currently logging.
package utilities

import (
	"log"
	"os"
	"time"
)

var (
	infoLogger  = log.New(os.Stdout, "[info] ", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "[error] ", log.LstdFlags)
)

// LogRequest records one HTTP request with its outcome.
func LogRequest(method, path, remoteAddr string, status int, duration time.Duration) {
	infoLogger.Printf("%s %s %s %d %v", method, path, remoteAddr, status, duration)
}

// LogError records an error with context.
func LogError(err error, context string) {
	errorLogger.Printf("%s: %v", context, err)
}

// LogInfo records general information.
func LogInfo(format string, v ...interface{}) {
	infoLogger.Printf(format, v...)
}
