// Package logging configures the process-wide logger.
//
// All log output goes to stderr: when the server runs with the stdio
// transport, stdout carries the JSON-RPC response stream and must stay
// clean of anything else.
package logging

import (
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// New returns a logger writing structured key-value records to stderr.
// Setting NATIVELINK_MCP_DEBUG to any non-empty value enables debug level.
func New() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "nativelink-mcp",
	})

	if os.Getenv("NATIVELINK_MCP_DEBUG") != "" {
		logger.SetLevel(log.DebugLevel)
	} else {
		logger.SetLevel(log.InfoLevel)
	}

	return logger
}
