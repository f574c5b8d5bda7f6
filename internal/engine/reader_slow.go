// reader_slow.go - SLOW regime: one reader lock, many hashers
//
// Grounded on original_source/src/exec/streader.rs's STReader: every
// worker keeps its own reader slot, but the slot array and the walker
// it pulls from both live behind one mutex, so only one actual read(2)
// happens at a time across the whole device group. A worker that just
// got its chunk back releases the lock and hashes it while another
// worker takes the next read - disk head movement stays serial, CPU
// work doesn't.
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

package engine

import (
	"bufio"
	"io"
	"os"
	"sync"

	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/manifest"
	"github.com/jonnyso/hashgoblin/internal/walker"
)

type slowSlot struct {
	path string
	f    *os.File
	br   *bufio.Reader
}

type slowResultKind int

const (
	slowDone slowResultKind = iota
	slowEmptyDir
	slowChunk
	slowEOF
)

type slowResult struct {
	kind slowResultKind
	path string
	buf  []byte
}

// slowReader serializes both directory/file discovery (via the shared
// walker) and every buffered read behind one mutex. It hands out one
// slot per worker index so each worker's in-flight file survives
// across lock releases.
type slowReader struct {
	mu    sync.Mutex
	w     *walker.Walker
	slots []*slowSlot
}

func newSlowReader(w *walker.Walker, workers int) *slowReader {
	return &slowReader{w: w, slots: make([]*slowSlot, workers)}
}

// next returns the next unit of progress for worker idx: a data chunk
// from its current file, an EOF marking that file done, an EmptyDir
// record, or slowDone once the walker is exhausted. It holds the reader
// lock for one buffered read of the worker's current file, or, when the
// worker has no file open, for the walker pop plus the open and first
// read of the file it yields.
func (r *slowReader) next(idx int) (slowResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for {
		if slot := r.slots[idx]; slot != nil {
			buf := make([]byte, readChunkSize)
			n, err := slot.br.Read(buf)
			if n > 0 {
				return slowResult{kind: slowChunk, path: slot.path, buf: buf[:n]}, nil
			}
			if err != nil && err != io.EOF {
				return slowResult{}, &Error{Op: "read", Path: slot.path, Err: err}
			}
			slot.f.Close()
			path := slot.path
			r.slots[idx] = nil
			return slowResult{kind: slowEOF, path: path}, nil
		}

		ev, ok, err := r.w.Next()
		if err != nil {
			return slowResult{}, err
		}
		if !ok {
			return slowResult{kind: slowDone}, nil
		}
		if ev.Kind == walker.EmptyDir {
			return slowResult{kind: slowEmptyDir, path: ev.Path}, nil
		}

		f, err := os.Open(ev.Path)
		if err != nil {
			return slowResult{}, &Error{Op: "open", Path: ev.Path, Err: err}
		}
		r.slots[idx] = &slowSlot{path: ev.Path, f: f, br: bufio.NewReaderSize(f, readerBufSize)}
		// loop again, still holding the lock, to attempt the first read.
	}
}

// runSlowWorker drives worker idx against sr until the walker is
// exhausted. The per-file hasher lives here, outside sr's lock, so
// hashing for different in-flight files overlaps even though reads do
// not.
func runSlowWorker(idx int, sr *slowReader, algos []hashalgo.Algorithm, cf *cancel.Flag, sink Sink) error {
	var mh *hashalgo.MultiHasher

	for {
		if cf.IsSet() {
			return nil
		}

		res, err := sr.next(idx)
		if err != nil {
			return cf.OnErr(err)
		}

		switch res.kind {
		case slowDone:
			return nil

		case slowEmptyDir:
			if err := sink.Emit(manifest.HashRecord{Path: res.path}); err != nil {
				return cf.OnErr(err)
			}

		case slowChunk:
			if mh == nil {
				mh = hashalgo.New(algos)
			}
			mh.Update(res.buf)

		case slowEOF:
			if mh == nil {
				mh = hashalgo.New(algos)
			}
			rec := manifest.HashRecord{Path: res.path, Digests: mh.FinalizeReset()}
			mh = nil
			if err := sink.Emit(rec); err != nil {
				return cf.OnErr(err)
			}
		}
	}
}
