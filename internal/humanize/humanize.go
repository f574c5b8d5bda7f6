// humanize.go - human-readable size formatting
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

// Package humanize forwards to github.com/opencoff/go-utils for the
// same size formatting testsuite/flag_size.go uses for its `-size`
// flag value, applied here to the manifest size cmd/hashgoblin logs
// after a successful create. The audit summary does not use it.
package humanize

import "github.com/opencoff/go-utils"

// Size renders n bytes as a human-readable string, e.g. "4.2 GiB".
func Size(n uint64) string {
	return utils.HumanizeSize(n)
}

// ParseSize is the inverse of Size, accepting the same k/M/G/T/P/E
// suffixes.
func ParseSize(s string) (uint64, error) {
	return utils.ParseSize(s)
}
