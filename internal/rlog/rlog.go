// rlog.go - leveled logger construction
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

// Package rlog wraps github.com/opencoff/go-logger the way
// testsuite/run.go does: one logger.Logger per run, leveled by a
// verbosity count, standing in for the original's boolean-gated
// verbose_print closure.
package rlog

import (
	"fmt"
	"io"
	"os"

	"github.com/opencoff/go-logger"
)

// New builds a logger writing to w (os.Stderr if nil) with a priority
// derived from verbosity: 0 = LOG_INFO, 1+ = LOG_DEBUG. prefix
// typically names the subcommand ("create" or "audit").
func New(w io.Writer, verbosity int, prefix string) (logger.Logger, error) {
	if w == nil {
		w = os.Stderr
	}

	prio := logger.LOG_INFO
	if verbosity > 0 {
		prio = logger.LOG_DEBUG
	}

	log, err := logger.NewLogger(w, prio, prefix, logger.Ldate|logger.Ltime)
	if err != nil {
		return nil, fmt.Errorf("rlog: %w", err)
	}
	return log, nil
}
