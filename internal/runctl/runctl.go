// runctl.go - wires a create or audit run end to end
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

// Package runctl implements spec.md §4.8's run controller: it builds
// the input path set, asks the drive classifier to split it, wires the
// work engine to either a manifest writer (create) or the audit
// comparator (audit), and owns the cancel flag and the cleanup-on-
// failure contract for each path.
package runctl

import (
	"github.com/jonnyso/hashgoblin/internal/audit"
	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/driveclass"
	"github.com/jonnyso/hashgoblin/internal/engine"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/manifest"
)

// WalkOptions are the inputs shared by both the create and audit paths.
type WalkOptions struct {
	Paths     []string
	Recursive bool
	EmptyDirs bool
	Workers   int

	// Warn receives non-fatal diagnostics: a degraded drive
	// classification, a manifest version mismatch.
	Warn func(format string, args ...any)
}

func (w WalkOptions) classify() ([]driveclass.Group, error) {
	warn := w.Warn
	if warn == nil {
		warn = func(string, ...any) {}
	}
	return driveclass.Classify(w.Paths, driveclass.Default(), warn)
}

// Create runs the create path: classify the inputs, hash every file
// under a fresh manifest writer, and finalize it on success. Any
// failure from classification, hashing, or the writer itself leaves no
// manifest behind.
func Create(w WalkOptions, algos []hashalgo.Algorithm, outPath string) error {
	groups, err := w.classify()
	if err != nil {
		return err
	}

	mw, err := manifest.NewWriter(outPath, algos)
	if err != nil {
		return err
	}

	cf := cancel.New()
	sink := engine.WriterSink{W: mw}

	if err := engine.Run(groups, algos, w.Workers, w.Recursive, w.EmptyDirs, cf, sink); err != nil {
		if abortErr := mw.Abort(); abortErr != nil && w.Warn != nil {
			w.Warn("cleanup after failed run: %s", abortErr)
		}
		return err
	}

	if err := mw.Finish(); err != nil {
		if abortErr := mw.Abort(); abortErr != nil && w.Warn != nil {
			w.Warn("cleanup after failed finish: %s", abortErr)
		}
		return err
	}
	return nil
}

// AuditResult is the outcome of a completed audit run.
type AuditResult struct {
	Findings audit.Findings
	// Failed mirrors spec.md's auditErr: true iff any discrepancy was
	// found. It is not a Go error - a clean audit with no findings
	// returns Failed=false and a nil error.
	Failed bool
}

// Audit runs the audit path: classify the inputs, hash every file
// concurrently with streaming it against manifestPath, and report the
// result. The algorithm set is whatever the manifest itself recorded,
// not caller-supplied - the live scan must hash with the same
// algorithms to be comparable. report, if non-nil, is called
// synchronously for every finding as the comparator discovers it.
func Audit(w WalkOptions, manifestPath string, early bool, report func(audit.Finding)) (AuditResult, error) {
	groups, err := w.classify()
	if err != nil {
		return AuditResult{}, err
	}

	mr, err := manifest.NewReader(manifestPath, w.EmptyDirs)
	if err != nil {
		return AuditResult{}, err
	}
	defer mr.Close()

	if mr.VersionWarning != "" && w.Warn != nil {
		w.Warn("%s", mr.VersionWarning)
	}

	cf := cancel.New()
	live := make(chan manifest.HashRecord, w.Workers)
	sink := engine.ChanSink{Ch: live}
	cmp := audit.New(mr, early, cf, report)

	var runErr error
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer close(live)
		runErr = engine.Run(groups, mr.Algorithms, w.Workers, w.Recursive, w.EmptyDirs, cf, sink)
	}()

	findings, cmpErr := cmp.Run(live)
	// The comparator may stop early (early mode or an error) with the
	// cancel flag latched; discard whatever the workers still send so
	// none of them stays blocked on the channel.
	for range live {
	}
	<-done

	if runErr != nil {
		return AuditResult{Findings: findings}, runErr
	}
	if cmpErr != nil {
		return AuditResult{Findings: findings}, cmpErr
	}

	return AuditResult{Findings: findings, Failed: findings.HasFindings()}, nil
}
