// logfile.go - shared --logfile handling for create and audit
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

package main

import (
	"io"
	"os"
)

// openLogFile opens path for append if non-empty, returning a writer
// (os.Stderr if path is empty) and a closer safe to defer unconditionally.
func openLogFile(path string) (io.Writer, func()) {
	if path == "" {
		return os.Stderr, func() {}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		Die("logfile %s: %s", path, err)
	}
	return f, func() { f.Close() }
}
