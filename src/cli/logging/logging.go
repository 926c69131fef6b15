// Package logging contains the singleton logger used globally by cbuild.
// It deliberately has little else since it's a dependency of almost every
// other package.
package logging

import (
	"os"

	logging "gopkg.in/op/go-logging.v1"
)

// Log is the singleton logger instance. We never need more than one and
// sharing it avoids having to thread a logger through every constructor.
var Log = logging.MustGetLogger("cbuild")

// Level re-exports the underlying library's type so callers don't need to
// import gopkg.in/op/go-logging.v1 themselves.
type Level = logging.Level

// Re-exports of the log levels we use.
const (
	CRITICAL = logging.CRITICAL
	ERROR    = logging.ERROR
	WARNING  = logging.WARNING
	NOTICE   = logging.NOTICE
	INFO     = logging.INFO
	DEBUG    = logging.DEBUG
)

var backend = logging.NewLogBackend(os.Stderr, "", 0)

// InitFromLevel sets up the default backend at the given verbosity, with a
// format similar to the teacher's: level, then message.
func InitFromLevel(level Level) {
	format := logging.MustStringFormatter(
		`%{color}%{time:15:04:05.000} %{level:-8s}%{color:reset} %{message}`,
	)
	formatted := logging.NewBackendFormatter(backend, format)
	leveled := logging.AddModuleLevel(formatted)
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
