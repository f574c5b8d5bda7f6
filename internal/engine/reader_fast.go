// reader_fast.go - FAST regime: parallel I/O against a shared FIFO
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

	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/manifest"
	"github.com/jonnyso/hashgoblin/internal/walker"
)

// runFastWorker pulls paths directly from w until exhausted. Every
// worker opens and reads its own files, so I/O for a FAST-tagged
// device group proceeds in parallel across the pool (spec.md §4.4).
func runFastWorker(_ int, w *walker.Walker, algos []hashalgo.Algorithm, cf *cancel.Flag, sink Sink) error {
	for {
		if cf.IsSet() {
			return nil
		}

		ev, ok, err := w.Next()
		if err != nil {
			return cf.OnErr(err)
		}
		if !ok {
			return nil
		}

		if ev.Kind == walker.EmptyDir {
			if err := sink.Emit(manifest.HashRecord{Path: ev.Path}); err != nil {
				return cf.OnErr(err)
			}
			continue
		}

		rec, err := hashFile(ev.Path, algos, cf)
		if err != nil {
			return cf.OnErr(err)
		}
		if rec == nil {
			// canceled mid-file: no record for this path, per spec.md §4.4.
			continue
		}
		if err := sink.Emit(*rec); err != nil {
			return cf.OnErr(err)
		}
	}
}

// hashFile opens path, reads it in readChunkSize chunks through a
// readerBufSize buffered reader, feeding every chunk to all configured
// algorithms in order. Returns nil, nil if the cancel flag is observed
// between chunks.
func hashFile(path string, algos []hashalgo.Algorithm, cf *cancel.Flag) (*manifest.HashRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	br := bufio.NewReaderSize(f, readerBufSize)
	mh := hashalgo.New(algos)
	buf := make([]byte, readChunkSize)

	for {
		if cf.IsSet() {
			return nil, nil
		}

		n, err := br.Read(buf)
		if n > 0 {
			mh.Update(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &Error{Op: "read", Path: path, Err: err}
		}
	}

	return &manifest.HashRecord{Path: path, Digests: mh.FinalizeReset()}, nil
}
