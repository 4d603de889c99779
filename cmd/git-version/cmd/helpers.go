package cmd

import (
	"io"

	"github.com/charmbracelet/log"
)

// newLogger creates the stderr logger. Info by default, debug with
// --verbose, errors only with --quiet. Quiet wins over verbose.
func newLogger(w io.Writer, s settings) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		Prefix: "git-version",
	})
	switch {
	case s.Quiet:
		logger.SetLevel(log.ErrorLevel)
	case s.Verbose:
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}
