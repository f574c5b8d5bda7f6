// sink.go - engine output collectors
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

import "github.com/jonnyso/hashgoblin/internal/manifest"

// Sink is where the engine hands off every HashRecord it produces: a
// manifest.Writer on the create path, a channel to the audit
// comparator on the audit path. Per spec.md §5, the sink is the one
// place record emission is serialized.
type Sink interface {
	Emit(rec manifest.HashRecord) error
}

// WriterSink adapts a manifest.Writer to Sink.
type WriterSink struct {
	W *manifest.Writer
}

func (s WriterSink) Emit(rec manifest.HashRecord) error {
	return s.W.AppendLine(rec)
}

// ChanSink adapts a channel to Sink. The audit comparator reads from
// the other end on the main goroutine while the engine's workers feed
// this end concurrently.
type ChanSink struct {
	Ch chan<- manifest.HashRecord
}

func (s ChanSink) Emit(rec manifest.HashRecord) error {
	s.Ch <- rec
	return nil
}
