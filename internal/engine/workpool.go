// workpool.go - bounded worker pool
//
// Adapted from opencoff/go-fio's generic WorkPool: a fixed number of
// goroutines accept work submitted via a channel and invoke a caller
// supplied function, joining before Wait() returns and aggregating
// every error the workers raised.
//
// A typical invocation looks like so:
//
//	pool := NewWorkPool[int](5, func(worker int, slot int) error {
//		.. run one regime worker identified by 'slot' ..
//		return nil
//	})
//	for i := 0; i < 5; i++ {
//		pool.Submit(i)
//	}
//	pool.Close()
//	err := pool.Wait()
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
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

type WorkPool[Work any] struct {
	stopped atomic.Bool
	wg      sync.WaitGroup
	ch      chan Work

	ech  chan error
	ewg  sync.WaitGroup
	errs []error
}

var ErrCompleted = errors.New("workpool: workpool closed")

// NewWorkPool spawns nworkers goroutines, each running fp until the
// pool is closed and drained. Every worker is numbered 0..nworkers-1,
// which the engine's SLOW regime uses as its reader-slot index (the
// FAST regime ignores it).
func NewWorkPool[Work any](nworkers int, fp func(i int, w Work) error) *WorkPool[Work] {
	if nworkers < 1 {
		nworkers = 1
	}

	wp := &WorkPool[Work]{
		ch:   make(chan Work, nworkers),
		ech:  make(chan error, 1),
		errs: make([]error, 0, 1),
	}

	wp.wg.Add(nworkers)
	for i := 0; i < nworkers; i++ {
		go func(i int) {
			defer func() {
				if e := recover(); e != nil {
					if err, ok := e.(error); ok {
						wp.ech <- fmt.Errorf("workpool: panic: %w", err)
					} else {
						wp.ech <- fmt.Errorf("workpool: panic: %v", e)
					}
				}
				wp.wg.Done()
			}()

			for w := range wp.ch {
				if err := fp(i, w); err != nil {
					wp.ech <- err
				}
			}
		}(i)
	}

	wp.ewg.Add(1)
	go func() {
		for e := range wp.ech {
			wp.errs = append(wp.errs, e)
		}
		wp.ewg.Done()
	}()

	return wp
}

// Wait blocks until every worker has returned, joining the error
// harvester last. It does not close work submission itself: Close must
// be called first, or the workers never finish. Returns the aggregate of
// every error raised by a worker.
func (wp *WorkPool[Work]) Wait() error {
	wp.wg.Wait()
	close(wp.ech)
	wp.ewg.Wait()
	if len(wp.errs) > 0 {
		return errors.Join(wp.errs...)
	}
	return nil
}

// Close stops accepting new work. Safe to call multiple times.
func (wp *WorkPool[Work]) Close() {
	if wp.stopped.Swap(true) {
		return
	}
	close(wp.ch)
}

// Submit hands one unit of work to the pool.
func (wp *WorkPool[Work]) Submit(w Work) {
	if wp.stopped.Load() {
		panic("workpool: submit after close")
	}
	wp.ch <- w
}
