// die.go - fatal error helper
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
	"fmt"
	"os"
)

// Z is the program name, as reported in usage and error messages.
var Z = "hashgoblin"

// Die prints a formatted error to stderr, prefixed with the program
// name, and exits with status 1.
func Die(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	fmt.Fprintf(os.Stderr, "%s: %s\n", Z, msg)
	os.Exit(1)
}
