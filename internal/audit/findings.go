// findings.go - audit finding types and the per-category result tally
//
// Findings tallies each category into its own concurrency-safe map, the
// same shape cmp/cmp.go uses for its LeftDirs/RightFiles/Diff/Funny
// buckets: a result set callers can Range() over once the run is done.
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

package audit

import (
	"fmt"

	"github.com/puzpuzpuz/xsync/v3"
)

// Kind is the closed set of discrepancies the comparator can report.
type Kind int

const (
	Mismatch Kind = iota
	Extra
	NotFound
	EmptyDirUnexpected
)

// Finding is one discrepancy between the manifest and the live scan.
type Finding struct {
	Kind Kind
	Path string
}

func (f Finding) String() string {
	switch f.Kind {
	case Mismatch:
		return fmt.Sprintf("audit_err: %q does not match", f.Path)
	case Extra:
		return fmt.Sprintf("audit_err: additional %q found in audit source", f.Path)
	case NotFound:
		return fmt.Sprintf("audit_err: %q not found", f.Path)
	case EmptyDirUnexpected:
		return fmt.Sprintf("audit_err: directory %q should not be empty", f.Path)
	default:
		return fmt.Sprintf("audit_err: unknown finding for %q", f.Path)
	}
}

// PathSet is a concurrency-safe set of paths, keyed for O(1) membership
// and iterable with Range.
type PathSet = xsync.MapOf[string, struct{}]

func newPathSet() *PathSet {
	return xsync.NewMapOf[string, struct{}]()
}

// Findings is the comparator's run result: every discrepancy, bucketed
// by kind.
type Findings struct {
	Mismatch           *PathSet
	Extra              *PathSet
	NotFound           *PathSet
	EmptyDirUnexpected *PathSet
}

func newFindings() Findings {
	return Findings{
		Mismatch:           newPathSet(),
		Extra:              newPathSet(),
		NotFound:           newPathSet(),
		EmptyDirUnexpected: newPathSet(),
	}
}

func (fs Findings) add(f Finding) {
	var set *PathSet
	switch f.Kind {
	case Mismatch:
		set = fs.Mismatch
	case Extra:
		set = fs.Extra
	case NotFound:
		set = fs.NotFound
	case EmptyDirUnexpected:
		set = fs.EmptyDirUnexpected
	default:
		return
	}
	set.Store(f.Path, struct{}{})
}

// Len returns the total number of findings across every category.
func (fs Findings) Len() int {
	n := 0
	count := func(s *PathSet) {
		s.Range(func(string, struct{}) bool {
			n++
			return true
		})
	}
	count(fs.Mismatch)
	count(fs.Extra)
	count(fs.NotFound)
	count(fs.EmptyDirUnexpected)
	return n
}

// HasFindings reports whether the audit recorded any discrepancy at all.
func (fs Findings) HasFindings() bool {
	return fs.Len() > 0
}
