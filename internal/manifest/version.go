// version.go - the program's own semver, embedded in every manifest header
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

package manifest

// ProgramVersion is written as the "version" header line and compared,
// on read, against whatever a manifest file declares (spec.md §4.6): a
// mismatch is a warning, never a hard failure.
const ProgramVersion = "1.0.0"

// NoDateLiteral is written in place of a timestamp when the host clock
// is unavailable at the moment of writing (spec.md §9).
const NoDateLiteral = "[NO DATE]"

// TimeLayout is the fixed-width ISO-8601-ish layout used for time_start
// and time_finish. Its width must never change without also changing
// how Writer computes the reserved pad (spec.md §9's "finish-time
// back-patching" open question).
const TimeLayout = "2006-01-02T15:04:05"
