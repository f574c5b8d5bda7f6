// reader.go - parses the manifest header and streams data lines
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
	"time"

	"github.com/jonnyso/hashgoblin/internal/hashalgo"
)

// Reader parses a manifest's three header lines strictly, then streams
// the remaining lines as HashRecords (spec.md §4.6).
type Reader struct {
	f  *os.File
	sc *bufio.Scanner

	Path       string
	Version    string
	Algorithms []hashalgo.Algorithm
	TimeStart  string
	TimeFinish string

	emptyDirs bool

	// VersionWarning is set when the manifest's "version" line differs
	// from ProgramVersion. The caller decides how to surface it (the
	// run controller logs it at LOG_WARN, spec.md §4.6).
	VersionWarning string
}

// NewReader opens path (DefaultPath if empty) and parses its header.
// emptyDirs controls whether an empty right-hand-side data line (an
// empty-directory entry) is accepted or rejected with ErrAuditEmptyDir.
func NewReader(path string, emptyDirs bool) (*Reader, error) {
	if path == "" {
		path = DefaultPath
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Op: "open", Path: path, Err: err}
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	r := &Reader{f: f, sc: sc, Path: path, emptyDirs: emptyDirs}

	line1, err := r.nextRawLine()
	if err != nil {
		f.Close()
		return nil, err
	}
	version, ok := splitHeaderField(line1, "version")
	if !ok {
		f.Close()
		return nil, &Error{Op: "parse-header", Path: path, Err: &ErrFileFormat{Reason: "line 1 must start with 'version'"}}
	}
	r.Version = version
	if version != ProgramVersion {
		r.VersionWarning = fmt.Sprintf(
			"the hashes file was created using a different version of this program: current version %s, file version %s",
			ProgramVersion, version)
	}

	line2, err := r.nextRawLine()
	if err != nil {
		f.Close()
		return nil, err
	}
	algoCSV, ok := splitHeaderField(line2, "algo")
	if !ok {
		f.Close()
		return nil, &Error{Op: "parse-header", Path: path, Err: &ErrFileFormat{Reason: "line 2 must start with 'algo'"}}
	}
	algos, err := hashalgo.ParseList(algoCSV)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.Algorithms = algos

	line3, err := r.nextRawLine()
	if err != nil {
		f.Close()
		return nil, err
	}
	start, finish, err := parseTimeLine(line3)
	if err != nil {
		f.Close()
		return nil, &Error{Op: "parse-header", Path: path, Err: err}
	}
	r.TimeStart = start
	r.TimeFinish = finish

	return r, nil
}

// Next returns the next data line as a HashRecord. ok is false once the
// manifest is exhausted.
func (r *Reader) Next() (rec HashRecord, ok bool, err error) {
	line, err := r.nextRawLine()
	if err != nil {
		if _, isEOF := err.(*eofMarker); isEOF {
			return HashRecord{}, false, nil
		}
		return HashRecord{}, false, err
	}
	rec, err = ParseDataLine(line, len(r.Algorithms), r.emptyDirs)
	if err != nil {
		return HashRecord{}, false, err
	}
	return rec, true, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error {
	return r.f.Close()
}

type eofMarker struct{}

func (*eofMarker) Error() string { return "EOF" }

func (r *Reader) nextRawLine() (string, error) {
	if !r.sc.Scan() {
		if err := r.sc.Err(); err != nil {
			return "", &Error{Op: "readline", Path: r.Path, Err: err}
		}
		return "", &eofMarker{}
	}
	return r.sc.Text(), nil
}

// splitHeaderField splits "<key> <rest>" and confirms the key matches
// want; (<rest>, false) otherwise signals a format error upstream.
func splitHeaderField(line, want string) (string, bool) {
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return "", false
	}
	key := line[:idx]
	if key != want {
		return "", false
	}
	return line[idx+1:], true
}

// parseTimeLine parses "time_start <t> - time_finish <t>" where each <t>
// is either NoDateLiteral or a TimeLayout-formatted timestamp.
func parseTimeLine(line string) (start, finish string, err error) {
	lhs, rhs, ok := strings.Cut(line, " - ")
	if !ok {
		return "", "", &ErrFileFormat{Reason: "line 3 must contain ' - '"}
	}

	start, ok = splitHeaderField(lhs, "time_start")
	if !ok {
		return "", "", &ErrFileFormat{Reason: "line 3 left side must start with 'time_start'"}
	}
	if err := validateTimestamp(start); err != nil {
		return "", "", err
	}

	finish, ok = splitHeaderField(rhs, "time_finish")
	if !ok {
		return "", "", &ErrFileFormat{Reason: "line 3 right side must start with 'time_finish'"}
	}
	if err := validateTimestamp(finish); err != nil {
		return "", "", err
	}

	return start, finish, nil
}

func validateTimestamp(s string) error {
	if s == NoDateLiteral {
		return nil
	}
	if _, err := time.Parse(TimeLayout, s); err != nil {
		return &ErrFileFormat{Reason: fmt.Sprintf("invalid timestamp %q", s)}
	}
	return nil
}
