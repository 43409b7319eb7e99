// Package util holds the small pieces of ambient infrastructure shared by
// the command-line front end: run options and logging setup. It mirrors
// the shape of the teacher's own util package, generalized from a
// multi-architecture assembler's option set down to what a textual-IR-only
// core needs.
package util

import (
	"github.com/sirupsen/logrus"
)

// Options carries the flags the compile command was invoked with.
type Options struct {
	Src     string // path to the input AST JSON file
	Out     string // path to the output .ll file; "" means stdout
	Verbose bool   // emit debug-level logging, including the generated module
}

// NewLogger returns a logrus.Logger configured for the given verbosity:
// Info-and-above normally, Debug-and-above with --verbose.
func NewLogger(verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
	return log
}
