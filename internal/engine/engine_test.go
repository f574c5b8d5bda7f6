package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/driveclass"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/manifest"
)

// collectSink is a concurrency-safe Sink used only by tests.
type collectSink struct {
	mu   sync.Mutex
	recs []manifest.HashRecord
}

func (s *collectSink) Emit(rec manifest.HashRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *collectSink) sorted() []manifest.HashRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]manifest.HashRecord(nil), s.recs...)
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

func writeFiles(t *testing.T, root string, contents map[string]string) {
	t.Helper()
	for name, data := range contents {
		p := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func sha256Hex(s string) string {
	h := sha256.Sum256([]byte(s))
	return hex.EncodeToString(h[:])
}

func TestRunFastRegime(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt":     "hello",
		"sub/b.txt": "world",
	})

	groups := []driveclass.Group{{Kind: driveclass.FAST, Paths: []string{root}}}
	algos := []hashalgo.Algorithm{hashalgo.SHA256}
	sink := &collectSink{}
	cf := cancel.New()

	if err := Run(groups, algos, 3, true, false, cf, sink); err != nil {
		t.Fatal(err)
	}

	got := sink.sorted()
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2: %+v", len(got), got)
	}
	if got[0].Path != filepath.Join(root, "a.txt") || got[0].Digests[0] != sha256Hex("hello") {
		t.Fatalf("record 0 = %+v", got[0])
	}
	if got[1].Path != filepath.Join(root, "sub", "b.txt") || got[1].Digests[0] != sha256Hex("world") {
		t.Fatalf("record 1 = %+v", got[1])
	}
}

func TestRunSlowRegime(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a.txt": "hello",
		"b.txt": "world",
		"c.txt": "!",
	})

	groups := []driveclass.Group{{Kind: driveclass.SLOW, Paths: []string{root}}}
	algos := []hashalgo.Algorithm{hashalgo.SHA256}
	sink := &collectSink{}
	cf := cancel.New()

	if err := Run(groups, algos, 4, true, false, cf, sink); err != nil {
		t.Fatal(err)
	}

	got := sink.sorted()
	if len(got) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(got), got)
	}
	want := map[string]string{"a.txt": "hello", "b.txt": "world", "c.txt": "!"}
	for _, rec := range got {
		base := filepath.Base(rec.Path)
		if rec.Digests[0] != sha256Hex(want[base]) {
			t.Fatalf("record %+v has wrong digest", rec)
		}
	}
}

func TestRunEmitsEmptyDir(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	groups := []driveclass.Group{{Kind: driveclass.FAST, Paths: []string{root}}}
	sink := &collectSink{}
	cf := cancel.New()

	if err := Run(groups, []hashalgo.Algorithm{hashalgo.SHA256}, 2, true, true, cf, sink); err != nil {
		t.Fatal(err)
	}

	got := sink.sorted()
	if len(got) != 1 || got[0].Path != empty || !got[0].IsEmptyDir() {
		t.Fatalf("got %+v, want one empty-dir record for %s", got, empty)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"a.txt": "hello"})

	groups := []driveclass.Group{
		{Kind: driveclass.FAST, Paths: []string{root}},
		{Kind: driveclass.FAST, Paths: []string{root}},
	}
	sink := &collectSink{}
	cf := cancel.New()
	cf.Set()

	if err := Run(groups, []hashalgo.Algorithm{hashalgo.SHA256}, 2, true, false, cf, sink); err != nil {
		t.Fatal(err)
	}
	if len(sink.sorted()) != 0 {
		t.Fatalf("expected no records once canceled, got %+v", sink.sorted())
	}
}

func TestRunMultipleGroupsSequential(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFiles(t, rootA, map[string]string{"a.txt": "A"})
	writeFiles(t, rootB, map[string]string{"b.txt": "B"})

	groups := []driveclass.Group{
		{Kind: driveclass.FAST, Paths: []string{rootA}},
		{Kind: driveclass.SLOW, Paths: []string{rootB}},
	}
	sink := &collectSink{}
	cf := cancel.New()

	if err := Run(groups, []hashalgo.Algorithm{hashalgo.SHA256}, 2, true, false, cf, sink); err != nil {
		t.Fatal(err)
	}

	got := sink.sorted()
	if len(got) != 2 {
		t.Fatalf("got %d records, want 2", len(got))
	}
}
