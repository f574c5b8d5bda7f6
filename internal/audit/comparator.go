// comparator.go - streaming audit comparator
//
// Grounded on original_source/src/exec/checker.rs's Checker: a small
// reorder-tolerant backlog absorbs records the live scan and the
// manifest disagree on the order of, while comparePaths recognizes the
// "manifest says empty directory, live scan found a file under it" (and
// its mirror) as a reportable finding rather than noise.
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

// Package audit implements spec.md §4.7's streaming audit comparator.
package audit

import (
	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/manifest"
)

// defaultBacklogCap is the starting capacity of the reorder-tolerance
// backlog, per spec.md §4.7 ("100 is typical"). The backlog grows past
// this without issue; it only sets the initial allocation.
const defaultBacklogCap = 100

// Comparator cross-references a live stream of HashRecords against a
// manifest.Reader, in the shape of spec.md's Active -> Draining -> Done
// state machine.
type Comparator struct {
	reader  *manifest.Reader
	backlog []manifest.HashRecord
	early   bool
	cf      *cancel.Flag
	report  func(Finding)

	findings Findings
}

// New builds a Comparator reading the remainder of reader as its
// manifest-side stream. report, if non-nil, is invoked synchronously
// for every finding as it is discovered (real-time printing); findings
// are always tallied into the Findings result regardless.
func New(reader *manifest.Reader, early bool, cf *cancel.Flag, report func(Finding)) *Comparator {
	return &Comparator{
		reader:   reader,
		backlog:  make([]manifest.HashRecord, 0, defaultBacklogCap),
		early:    early,
		cf:       cf,
		report:   report,
		findings: newFindings(),
	}
}

// Run drains live until it closes or the cancel flag is observed, then
// (unless canceled) drains the remainder of the manifest into the
// backlog and reports NotFound for whatever is left. Returns the final
// tally; per spec.md §9, a backlog left non-empty by cancellation is
// not reported as NotFound.
func (c *Comparator) Run(live <-chan manifest.HashRecord) (Findings, error) {
	for l := range live {
		if c.cf.IsSet() {
			break
		}

		matched, finding, err := c.searchBacklog(l)
		if err != nil {
			return c.findings, c.cf.OnErr(err)
		}
		if !matched {
			finding, err = c.searchReader(l)
			if err != nil {
				return c.findings, c.cf.OnErr(err)
			}
		}
		if finding != nil {
			c.record(*finding)
		}
	}

	if c.cf.IsSet() {
		return c.findings, nil
	}

	if err := c.drainReader(); err != nil {
		return c.findings, c.cf.OnErr(err)
	}
	for _, b := range c.backlog {
		c.record(Finding{Kind: NotFound, Path: b.Path})
	}
	return c.findings, nil
}

// searchBacklog scans the backlog once (its length at entry) for a
// record related to l. matched is true for an exact match (with or
// without a Mismatch finding) or an inconsistent-pair finding; false
// means l was not accounted for and the reader must be searched next.
func (c *Comparator) searchBacklog(l manifest.HashRecord) (matched bool, finding *Finding, err error) {
	n := len(c.backlog)
	for i := 0; i < n; i++ {
		if c.cf.IsSet() {
			return false, nil, nil
		}

		b := c.backlog[0]
		c.backlog = c.backlog[1:]

		switch comparePaths(b, l) {
		case relEqual:
			if digestsEqual(b.Digests, l.Digests) {
				return true, nil, nil
			}
			return true, &Finding{Kind: Mismatch, Path: l.Path}, nil

		case relUnrelated:
			c.backlog = append(c.backlog, b)

		case relExtra:
			// b is the empty-dir side: keep it, other live files may
			// still live beneath the same manifest directory.
			c.backlog = append(c.backlog, b)
			return true, &Finding{Kind: Extra, Path: l.Path}, nil

		case relEmptyDirUnexpected:
			// b is the file side: fully consumed by this finding.
			return true, &Finding{Kind: EmptyDirUnexpected, Path: l.Path}, nil
		}
	}
	return false, nil, nil
}

// searchReader pulls fresh records from the manifest reader until one
// relates to l or the manifest is exhausted (an Extra finding).
// Unrelated records accumulate in the backlog for future comparisons.
func (c *Comparator) searchReader(l manifest.HashRecord) (*Finding, error) {
	for {
		if c.cf.IsSet() {
			return nil, nil
		}

		rec, ok, err := c.reader.Next()
		if err != nil {
			return nil, &Error{Op: "reader-next", Path: l.Path, Err: err}
		}
		if !ok {
			return &Finding{Kind: Extra, Path: l.Path}, nil
		}

		switch comparePaths(rec, l) {
		case relEqual:
			if digestsEqual(rec.Digests, l.Digests) {
				return nil, nil
			}
			return &Finding{Kind: Mismatch, Path: l.Path}, nil

		case relUnrelated:
			c.backlog = append(c.backlog, rec)

		case relExtra:
			c.backlog = append(c.backlog, rec)
			return &Finding{Kind: Extra, Path: l.Path}, nil

		case relEmptyDirUnexpected:
			return &Finding{Kind: EmptyDirUnexpected, Path: l.Path}, nil
		}
	}
}

func (c *Comparator) drainReader() error {
	for {
		rec, ok, err := c.reader.Next()
		if err != nil {
			return &Error{Op: "drain-reader", Err: err}
		}
		if !ok {
			return nil
		}
		c.backlog = append(c.backlog, rec)
	}
}

func (c *Comparator) record(f Finding) {
	c.findings.add(f)
	if c.report != nil {
		c.report(f)
	}
	if c.early {
		c.cf.Set()
	}
}
