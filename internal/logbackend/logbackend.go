// Package logbackend provides the shared logging backend used by every
// long-lived component in this client: one backend, many named loggers, so
// log lines are attributable to the component that emitted them.
package logbackend

import (
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

var format = logging.MustStringFormatter(
	`%{time:15:04:05.000} %{level:.4s} %{module}: %{message}`,
)

// Backend wraps a single op/go-logging backend shared by named sub-loggers.
type Backend struct {
	level logging.Level
}

// New constructs a Backend writing to stderr at the given level ("DEBUG",
// "INFO", "NOTICE", "WARNING", "ERROR", "CRITICAL"). An empty level defaults
// to NOTICE.
func New(level string) (*Backend, error) {
	if level == "" {
		level = "NOTICE"
	}
	lvl, err := logging.LogLevel(level)
	if err != nil {
		return nil, err
	}
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(lvl, "")
	logging.SetBackend(leveled)
	return &Backend{level: lvl}, nil
}

// GetLogger returns a logger tagged with the given component name.
func (b *Backend) GetLogger(name string) *logging.Logger {
	return logging.MustGetLogger(name)
}
