package audit

import (
	"path/filepath"
	"testing"

	"github.com/jonnyso/hashgoblin/internal/cancel"
	"github.com/jonnyso/hashgoblin/internal/hashalgo"
	"github.com/jonnyso/hashgoblin/internal/manifest"
)

func TestComparePaths(t *testing.T) {
	fileA := manifest.HashRecord{Path: "dir/a.txt", Digests: []string{"aa"}}
	fileASame := manifest.HashRecord{Path: "dir/a.txt", Digests: []string{"aa"}}
	emptyDir := manifest.HashRecord{Path: "dir", Digests: nil}
	fileUnderEmpty := manifest.HashRecord{Path: "dir/new.txt", Digests: []string{"bb"}}
	unrelated := manifest.HashRecord{Path: "other/x.txt", Digests: []string{"cc"}}

	if got := comparePaths(fileA, fileASame); got != relEqual {
		t.Fatalf("equal paths: got %v, want relEqual", got)
	}
	if got := comparePaths(emptyDir, fileUnderEmpty); got != relExtra {
		t.Fatalf("dir vs file beneath: got %v, want relExtra", got)
	}
	if got := comparePaths(fileA, emptyDir); got != relEmptyDirUnexpected {
		t.Fatalf("file vs its live empty parent dir: got %v, want relEmptyDirUnexpected", got)
	}
	if got := comparePaths(fileA, unrelated); got != relUnrelated {
		t.Fatalf("unrelated files: got %v, want relUnrelated", got)
	}

	// mirror: manifest has a file, live scan finds an empty dir at the
	// file's parent.
	fileB := manifest.HashRecord{Path: "dir/sub/leaf.txt", Digests: []string{"dd"}}
	liveEmptyParent := manifest.HashRecord{Path: "dir/sub", Digests: nil}
	if got := comparePaths(fileB, liveEmptyParent); got != relEmptyDirUnexpected {
		t.Fatalf("file vs empty parent: got %v, want relEmptyDirUnexpected", got)
	}
}

func TestDigestsEqual(t *testing.T) {
	if !digestsEqual([]string{"a", "b"}, []string{"a", "b"}) {
		t.Fatal("expected equal")
	}
	if digestsEqual([]string{"a"}, []string{"a", "b"}) {
		t.Fatal("expected unequal (length)")
	}
	if digestsEqual([]string{"a"}, []string{"b"}) {
		t.Fatal("expected unequal (content)")
	}
}

func TestFindingString(t *testing.T) {
	cases := []struct {
		f    Finding
		want string
	}{
		{Finding{Kind: Mismatch, Path: "p"}, `audit_err: "p" does not match`},
		{Finding{Kind: Extra, Path: "p"}, `audit_err: additional "p" found in audit source`},
		{Finding{Kind: NotFound, Path: "p"}, `audit_err: "p" not found`},
		{Finding{Kind: EmptyDirUnexpected, Path: "p"}, `audit_err: directory "p" should not be empty`},
	}
	for _, c := range cases {
		if got := c.f.String(); got != c.want {
			t.Errorf("String() = %q, want %q", got, c.want)
		}
	}
}

func TestFindingsAddAndLen(t *testing.T) {
	fs := newFindings()
	fs.add(Finding{Kind: Mismatch, Path: "a"})
	fs.add(Finding{Kind: Extra, Path: "b"})
	fs.add(Finding{Kind: NotFound, Path: "c"})
	fs.add(Finding{Kind: EmptyDirUnexpected, Path: "d"})

	if fs.Len() != 4 {
		t.Fatalf("Len() = %d, want 4", fs.Len())
	}
	if !fs.HasFindings() {
		t.Fatal("HasFindings() = false, want true")
	}
}

func newManifestReader(t *testing.T, recs []manifest.HashRecord, emptyDirs bool) *manifest.Reader {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hashes.txt")
	mw, err := manifest.NewWriter(path, []hashalgo.Algorithm{hashalgo.SHA256})
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range recs {
		if err := mw.AppendLine(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Finish(); err != nil {
		t.Fatal(err)
	}
	mr, err := manifest.NewReader(path, emptyDirs)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { mr.Close() })
	return mr
}

func runComparator(t *testing.T, manifestRecs []manifest.HashRecord, liveRecs []manifest.HashRecord, early bool) (Findings, []Finding) {
	t.Helper()
	mr := newManifestReader(t, manifestRecs, true)
	cf := cancel.New()

	var reported []Finding
	cmp := New(mr, early, cf, func(f Finding) { reported = append(reported, f) })

	live := make(chan manifest.HashRecord, len(liveRecs))
	for _, r := range liveRecs {
		live <- r
	}
	close(live)

	findings, err := cmp.Run(live)
	if err != nil {
		t.Fatal(err)
	}
	return findings, reported
}

func TestComparatorCleanRun(t *testing.T) {
	recs := []manifest.HashRecord{
		{Path: "a.txt", Digests: []string{"aa"}},
		{Path: "b.txt", Digests: []string{"bb"}},
	}
	findings, reported := runComparator(t, recs, recs, false)
	if findings.HasFindings() {
		t.Fatalf("expected no findings, got %+v / reported %+v", findings, reported)
	}
}

func TestComparatorDetectsMismatch(t *testing.T) {
	manifestRecs := []manifest.HashRecord{{Path: "a.txt", Digests: []string{"aa"}}}
	liveRecs := []manifest.HashRecord{{Path: "a.txt", Digests: []string{"changed"}}}

	findings, _ := runComparator(t, manifestRecs, liveRecs, false)
	if pathSetLen(findings.Mismatch) != 1 {
		t.Fatalf("expected one Mismatch finding, got %+v", findings)
	}
}

func TestComparatorDetectsExtraFile(t *testing.T) {
	manifestRecs := []manifest.HashRecord{{Path: "a.txt", Digests: []string{"aa"}}}
	liveRecs := []manifest.HashRecord{
		{Path: "a.txt", Digests: []string{"aa"}},
		{Path: "b.txt", Digests: []string{"bb"}},
	}

	findings, _ := runComparator(t, manifestRecs, liveRecs, false)
	if pathSetLen(findings.Extra) != 1 {
		t.Fatalf("expected one Extra finding, got %+v", findings)
	}
}

func TestComparatorDetectsNotFound(t *testing.T) {
	manifestRecs := []manifest.HashRecord{
		{Path: "a.txt", Digests: []string{"aa"}},
		{Path: "b.txt", Digests: []string{"bb"}},
	}
	liveRecs := []manifest.HashRecord{{Path: "a.txt", Digests: []string{"aa"}}}

	findings, _ := runComparator(t, manifestRecs, liveRecs, false)
	if pathSetLen(findings.NotFound) != 1 {
		t.Fatalf("expected one NotFound finding, got %+v", findings)
	}
}

func TestComparatorEarlyStopsAtFirstFinding(t *testing.T) {
	manifestRecs := []manifest.HashRecord{
		{Path: "a.txt", Digests: []string{"aa"}},
		{Path: "b.txt", Digests: []string{"bb"}},
		{Path: "c.txt", Digests: []string{"cc"}},
	}
	liveRecs := []manifest.HashRecord{
		{Path: "a.txt", Digests: []string{"aa"}},
		{Path: "b.txt", Digests: []string{"WRONG"}},
		{Path: "c.txt", Digests: []string{"cc"}},
	}

	findings, _ := runComparator(t, manifestRecs, liveRecs, true)
	if findings.Len() == 0 {
		t.Fatal("expected at least one finding")
	}
	if findings.Len() > 1 {
		t.Fatalf("early mode kept going after first finding: %+v", findings)
	}
}

func TestComparatorEmptyDirExtra(t *testing.T) {
	manifestRecs := []manifest.HashRecord{{Path: "dir", Digests: nil}}
	liveRecs := []manifest.HashRecord{{Path: "dir/new.txt", Digests: []string{"bb"}}}

	findings, _ := runComparator(t, manifestRecs, liveRecs, false)
	if pathSetLen(findings.Extra) != 1 {
		t.Fatalf("expected one Extra finding for a file under a recorded empty dir, got %+v", findings)
	}
}

func TestComparatorEmptyDirUnexpected(t *testing.T) {
	manifestRecs := []manifest.HashRecord{{Path: "dir/leaf.txt", Digests: []string{"aa"}}}
	liveRecs := []manifest.HashRecord{{Path: "dir", Digests: nil}}

	findings, _ := runComparator(t, manifestRecs, liveRecs, false)
	if pathSetLen(findings.EmptyDirUnexpected) != 1 {
		t.Fatalf("expected one EmptyDirUnexpected finding, got %+v", findings)
	}
}

func pathSetLen(s *PathSet) int {
	n := 0
	s.Range(func(string, struct{}) bool {
		n++
		return true
	})
	return n
}
