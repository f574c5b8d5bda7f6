// writer.go - append-only manifest sink with a reserved, patchable header
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

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/jonnyso/hashgoblin/internal/hashalgo"
)

// writerState is the manifest writer's state: Writing from construction,
// then Closed after a successful Finish or Deleted after Abort. There is
// no separate Open or Finishing state; Finish runs under the mutex.
type writerState int

const (
	stateWriting writerState = iota
	stateClosed
	stateDeleted
)

// Writer is the manifest's append-only sink. It creates/truncates the
// output file at construction, writes the three header lines with
// time_finish reserved as whitespace, and serializes one data line per
// AppendLine call under a single mutex (spec.md §4.5).
type Writer struct {
	mu    sync.Mutex
	f     *os.File
	w     *bufio.Writer
	path  string
	state writerState

	finishOffset int64
	finishWidth  int
}

// NewWriter creates (truncating any existing file) the manifest at path
// and writes its header. If path is empty, DefaultPath is used.
func NewWriter(path string, algos []hashalgo.Algorithm) (*Writer, error) {
	if path == "" {
		path = DefaultPath
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, &Error{Op: "create", Path: path, Err: err}
	}

	w := bufio.NewWriter(f)

	headerA := fmt.Sprintf("version %s\n", ProgramVersion)
	headerB := fmt.Sprintf("algo %s\n", hashalgo.JoinList(algos))

	ts := currentTimeString()
	pad := strings.Repeat(" ", len(ts))
	prefixC := fmt.Sprintf("time_start %s - time_finish ", ts)
	headerC := prefixC + pad + "\n"

	for _, s := range []string{headerA, headerB, headerC} {
		if _, err := w.WriteString(s); err != nil {
			f.Close()
			os.Remove(path)
			return nil, &Error{Op: "write-header", Path: path, Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(path)
		return nil, &Error{Op: "flush-header", Path: path, Err: err}
	}

	mw := &Writer{
		f:            f,
		w:            w,
		path:         path,
		state:        stateWriting,
		finishOffset: int64(len(headerA) + len(headerB) + len(prefixC)),
		finishWidth:  len(ts),
	}
	return mw, nil
}

// Path returns the manifest's output path.
func (mw *Writer) Path() string {
	return mw.path
}

// AppendLine writes one data line. Concurrent callers serialize on the
// writer's internal mutex; each call writes exactly one record.
func (mw *Writer) AppendLine(rec HashRecord) error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.state != stateWriting {
		return &Error{Op: "append", Path: mw.path, Err: fmt.Errorf("writer is not open")}
	}

	if _, err := mw.w.WriteString(rec.String() + "\n"); err != nil {
		return &Error{Op: "append", Path: mw.path, Err: err}
	}
	return nil
}

// Finish flushes any buffered data lines, then reacquires the file
// exclusively to patch the reserved pad in place with the finish
// timestamp. It does not touch any data line. Finish must only be
// called once the run has succeeded.
func (mw *Writer) Finish() error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.state != stateWriting {
		return &Error{Op: "finish", Path: mw.path, Err: fmt.Errorf("writer already %v", mw.state)}
	}

	if err := mw.w.Flush(); err != nil {
		return &Error{Op: "finish-flush", Path: mw.path, Err: err}
	}

	finish := currentTimeString()
	if len(finish) != mw.finishWidth {
		// The reserved pad no longer matches: our own invariant (fixed-width
		// timestamp layout) was violated. Fall back to the no-date literal
		// only if it happens to fit; otherwise this is a hard failure, per
		// spec.md §9's "implementers should assert the offset before writing".
		if len(NoDateLiteral) == mw.finishWidth {
			finish = NoDateLiteral
		} else {
			return &Error{Op: "finish", Path: mw.path, Err: fmt.Errorf(
				"finish timestamp width %d does not match reserved pad width %d", len(finish), mw.finishWidth)}
		}
	}

	if _, err := mw.f.WriteAt([]byte(finish), mw.finishOffset); err != nil {
		return &Error{Op: "finish-patch", Path: mw.path, Err: err}
	}

	if err := mw.f.Close(); err != nil {
		return &Error{Op: "finish-close", Path: mw.path, Err: err}
	}
	mw.state = stateClosed
	return nil
}

// Abort discards the manifest: the file is closed (if still open) and
// removed, per spec.md's "on failure the entire file is removed".
func (mw *Writer) Abort() error {
	mw.mu.Lock()
	defer mw.mu.Unlock()

	if mw.state == stateDeleted {
		return nil
	}
	if mw.state == stateWriting {
		mw.f.Close()
	}
	mw.state = stateDeleted
	if err := os.Remove(mw.path); err != nil && !os.IsNotExist(err) {
		return &Error{Op: "abort", Path: mw.path, Err: err}
	}
	return nil
}

func currentTimeString() string {
	now := time.Now()
	if now.IsZero() {
		return NoDateLiteral
	}
	return now.Format(TimeLayout)
}

func (s writerState) String() string {
	switch s {
	case stateWriting:
		return "writing"
	case stateClosed:
		return "closed"
	case stateDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
