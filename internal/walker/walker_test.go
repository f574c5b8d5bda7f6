package walker

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/jonnyso/hashgoblin/internal/cancel"
)

func drain(t *testing.T, w *Walker) []Event {
	t.Helper()
	var events []Event
	for {
		ev, ok, err := w.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		events = append(events, ev)
	}
	return events
}

func TestWalkerExpandsDirectories(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.txt"), "a")
	mustWrite(t, filepath.Join(root, "sub", "b.txt"), "b")

	w, err := New([]string{root}, true, false, cancel.New())
	if err != nil {
		t.Fatal(err)
	}

	events := drain(t, w)
	var files []string
	for _, ev := range events {
		if ev.Kind != File {
			t.Fatalf("unexpected non-file event: %+v", ev)
		}
		files = append(files, ev.Path)
	}
	sort.Strings(files)

	want := []string{filepath.Join(root, "a.txt"), filepath.Join(root, "sub", "b.txt")}
	sort.Strings(want)
	if len(files) != len(want) {
		t.Fatalf("got %v, want %v", files, want)
	}
	for i := range want {
		if files[i] != want[i] {
			t.Fatalf("got %v, want %v", files, want)
		}
	}
}

func TestWalkerRejectsNonRecursiveDir(t *testing.T) {
	root := t.TempDir()
	_, err := New([]string{root}, false, false, cancel.New())
	if err == nil {
		t.Fatal("expected ErrIsDir for a directory seed without recursive")
	}
}

func TestWalkerEmptyDirOptIn(t *testing.T) {
	root := t.TempDir()
	empty := filepath.Join(root, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{root}, true, true, cancel.New())
	if err != nil {
		t.Fatal(err)
	}
	events := drain(t, w)
	if len(events) != 1 || events[0].Kind != EmptyDir || events[0].Path != empty {
		t.Fatalf("events = %+v, want one EmptyDir(%s)", events, empty)
	}
}

func TestWalkerEmptyDirSkippedByDefault(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "empty"), 0o755); err != nil {
		t.Fatal(err)
	}

	w, err := New([]string{root}, true, false, cancel.New())
	if err != nil {
		t.Fatal(err)
	}
	events := drain(t, w)
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none", events)
	}
}

func TestWalkerSkipsSymlinks(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real.txt")
	mustWrite(t, target, "data")
	link := filepath.Join(root, "link.txt")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	w, err := New([]string{root}, true, false, cancel.New())
	if err != nil {
		t.Fatal(err)
	}
	events := drain(t, w)
	if len(events) != 1 || events[0].Path != target {
		t.Fatalf("events = %+v, want only %s", events, target)
	}
}

func TestWalkerRespectsCancel(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "a.txt"), "a")

	cf := cancel.New()
	cf.Set()
	w, err := New([]string{root}, true, false, cf)
	if err != nil {
		t.Fatal(err)
	}
	events := drain(t, w)
	if len(events) != 0 {
		t.Fatalf("events = %+v, want none once canceled", events)
	}
}

func mustWrite(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
