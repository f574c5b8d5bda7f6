// engine.go - drives walkers and hashers under a bounded worker pool
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

// Package engine implements spec.md §4.4's work engine: for each
// driveclass.Group it builds a walker and runs that group's worker
// pool in the FAST regime (parallel I/O) or the SLOW regime (serial
// I/O, interleaved hashing), emitting every resulting HashRecord to a
// Sink.
package engine

import (
	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/driveclass"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/walker"
)

const (
	// DefaultWorkers is the engine's default bounded worker count W,
	// per spec.md §4.4 and §5.
	DefaultWorkers = 5

	readChunkSize = 32 * 1024
	readerBufSize = 64 * 1024
)

// Run walks and hashes every group in turn, in the order given, using
// up to workers goroutines per group. Groups run sequentially so the
// worker budget W bounds concurrency at any instant regardless of how
// many device groups the classifier produced; a group with few files
// simply finishes its pool quickly and the next group's pool starts.
func Run(groups []driveclass.Group, algos []hashalgo.Algorithm, workers int, recursive, emptyDirs bool, cf *cancel.Flag, sink Sink) error {
	if workers < 1 {
		workers = DefaultWorkers
	}

	for _, g := range groups {
		if cf.IsSet() {
			return nil
		}
		if err := runGroup(g, algos, workers, recursive, emptyDirs, cf, sink); err != nil {
			return err
		}
	}
	return nil
}

func runGroup(g driveclass.Group, algos []hashalgo.Algorithm, workers int, recursive, emptyDirs bool, cf *cancel.Flag, sink Sink) error {
	w, err := walker.New(g.Paths, recursive, emptyDirs, cf)
	if err != nil {
		return cf.OnErr(err)
	}

	switch g.Kind {
	case driveclass.SLOW:
		sr := newSlowReader(w, workers)
		pool := NewWorkPool[int](workers, func(idx int, _ int) error {
			return runSlowWorker(idx, sr, algos, cf, sink)
		})
		for i := 0; i < workers; i++ {
			pool.Submit(i)
		}
		pool.Close()
		return pool.Wait()

	default: // FAST
		pool := NewWorkPool[int](workers, func(idx int, _ int) error {
			return runFastWorker(idx, w, algos, cf, sink)
		})
		for i := 0; i < workers; i++ {
			pool.Submit(i)
		}
		pool.Close()
		return pool.Wait()
	}
}
