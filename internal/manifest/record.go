// record.go - the HashRecord data model
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

// Package manifest implements the manifest's text format (spec.md §3,
// §6): a three-line header followed by one data line per scanned entry,
// plus the writer and reader that produce and consume it.
package manifest

import (
	"fmt"
	"strings"
)

// DefaultPath is the manifest path used when the caller does not
// specify one (spec.md §6).
const DefaultPath = "./hashes.txt"

// HashRecord is one (path, digests) tuple. Digests is empty iff this
// record describes an empty directory.
type HashRecord struct {
	Path    string
	Digests []string
}

// IsEmptyDir reports whether this record describes an empty directory.
func (r HashRecord) IsEmptyDir() bool {
	return len(r.Digests) == 0
}

// String renders r as a manifest data line, without the trailing
// newline: "<path>|<hex>[,<hex>...]".
func (r HashRecord) String() string {
	return fmt.Sprintf("%s|%s", r.Path, strings.Join(r.Digests, ","))
}

// ParseDataLine splits a manifest data line into a HashRecord by
// splitting on the *last* '|', since paths may themselves contain '|'.
// An empty right-hand side denotes an empty directory and is only
// accepted when emptyDirs is true.
func ParseDataLine(line string, algoCount int, emptyDirs bool) (HashRecord, error) {
	idx := strings.LastIndexByte(line, '|')
	if idx < 0 {
		return HashRecord{}, &ErrFileFormat{Reason: "data line missing '|' separator"}
	}
	path := line[:idx]
	rhs := line[idx+1:]

	if rhs == "" {
		if !emptyDirs {
			return HashRecord{}, &ErrAuditEmptyDir{Path: path}
		}
		return HashRecord{Path: path, Digests: nil}, nil
	}

	digests := strings.Split(rhs, ",")
	if algoCount > 0 && len(digests) != algoCount {
		return HashRecord{}, &ErrFileFormat{
			Reason: fmt.Sprintf("expected %d digest(s) for %q, found %d", algoCount, path, len(digests)),
		}
	}
	return HashRecord{Path: path, Digests: digests}, nil
}
