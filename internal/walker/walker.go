// walker.go - produces a stream of DirOrFile events from a work set
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

// Package walker implements spec.md §4.3's path walker: a FIFO of
// pending paths behind a single mutex, so either a lone caller (the SLOW
// regime) or a pool of concurrent workers (the FAST regime) can pull the
// next entry. It never follows symbolic links, and supports cooperative
// cancellation via internal/cancel.
package walker

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/jonnyso/hashgoblin/internal/cancel"
)

// Kind distinguishes the two event shapes a Walker can produce.
type Kind int

const (
	// File is a regular file ready to be hashed.
	File Kind = iota
	// EmptyDir is a directory with no entries, emitted only when the
	// caller opted in (emptyDirs=true at construction).
	EmptyDir
)

// Event is one unit of work produced by a Walker.
type Event struct {
	Kind Kind
	Path string
}

// Walker crawls a seed set of paths, expanding directories into their
// direct children as it goes. Next is safe to call from multiple
// goroutines concurrently: callers race for the shared FIFO behind a
// mutex, which is exactly the FAST-group regime of spec.md §4.4.
type Walker struct {
	mu        sync.Mutex
	queue     []string
	emptyDirs bool
	cancel    *cancel.Flag
}

// New validates the seed paths and returns a Walker ready to be
// consumed. If recursive is false and any seed is a directory,
// construction fails with ErrIsDir, per spec.md §4.3.
func New(seeds []string, recursive, emptyDirs bool, cf *cancel.Flag) (*Walker, error) {
	queue := make([]string, 0, len(seeds))
	for _, p := range seeds {
		fi, err := os.Lstat(p)
		if err != nil {
			return nil, &Error{Op: "lstat", Path: p, Err: err}
		}
		if fi.IsDir() && !recursive {
			return nil, &ErrIsDir{Path: p}
		}
		queue = append(queue, p)
	}
	return &Walker{queue: queue, emptyDirs: emptyDirs, cancel: cf}, nil
}

// Next pops the next path off the shared FIFO, classifying it as it
// goes: directories are expanded into their direct children (and
// optionally yielded as EmptyDir when they have none), files are
// yielded directly, and symlinks and other special files are skipped
// silently since this walker never follows symbolic links. ok is false
// once the queue is exhausted or the cancel flag is observed.
func (w *Walker) Next() (Event, bool, error) {
	for {
		if w.cancel.IsSet() {
			return Event{}, false, nil
		}

		path, ok := w.pop()
		if !ok {
			return Event{}, false, nil
		}

		fi, err := os.Lstat(path)
		if err != nil {
			return Event{}, false, &Error{Op: "lstat", Path: path, Err: err}
		}

		switch {
		case fi.IsDir():
			children, err := os.ReadDir(path)
			if err != nil {
				return Event{}, false, &Error{Op: "readdir", Path: path, Err: err}
			}
			if len(children) == 0 {
				if w.emptyDirs {
					return Event{Kind: EmptyDir, Path: path}, true, nil
				}
				continue
			}
			names := make([]string, len(children))
			for i, c := range children {
				names[i] = filepath.Join(path, c.Name())
			}
			w.push(names)
			continue

		case fi.Mode()&os.ModeSymlink != 0:
			// never followed: skip entirely.
			continue

		case !fi.Mode().IsRegular():
			// devices, sockets, fifos - not hashable content.
			continue

		default:
			return Event{Kind: File, Path: path}, true, nil
		}
	}
}

func (w *Walker) pop() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return "", false
	}
	p := w.queue[0]
	w.queue = w.queue[1:]
	return p, true
}

func (w *Walker) push(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, paths...)
}
