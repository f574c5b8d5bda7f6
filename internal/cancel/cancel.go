// cancel.go - cooperative cancellation flag
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

// Package cancel implements the monotonic, process-wide cancellation flag
// shared by the walker, the work engine and the audit comparator. Once
// latched, it never resets; every blocking loop in this module polls it
// at each suspension point instead of relying on an exception-like
// interrupt.
package cancel

import "sync/atomic"

// Flag is a monotonic boolean. It starts false and can only ever
// transition to true.
type Flag struct {
	v atomic.Bool
}

// New returns a fresh, unlatched Flag.
func New() *Flag {
	return &Flag{}
}

// Set latches the flag. Subsequent calls are no-ops.
func (f *Flag) Set() {
	f.v.Store(true)
}

// IsSet reports whether the flag has been latched.
func (f *Flag) IsSet() bool {
	return f.v.Load()
}

// OnErr latches the flag iff err is non-nil, and returns err unchanged.
// This is the Go shape of the original's `cancel_on_err`.
func (f *Flag) OnErr(err error) error {
	if err != nil {
		f.Set()
	}
	return err
}
