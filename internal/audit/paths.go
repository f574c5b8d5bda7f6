// paths.go - path relation rule shared by backlog and reader search
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

package audit

import (
	"path/filepath"

	"github.com/jonnyso/hashgoblin/internal/manifest"
)

type relation int

const (
	relUnrelated relation = iota
	relEqual
	relExtra              // b is an empty-dir record, l is a file directly beneath it
	relEmptyDirUnexpected // b is a file record, l is an empty-dir directly above it
)

// comparePaths relates a backlog/manifest record b to a live record l.
// It never touches the filesystem: directory-ness comes from each
// record's own IsEmptyDir, which the engine and the manifest reader
// already computed.
func comparePaths(b, l manifest.HashRecord) relation {
	if b.Path == l.Path {
		return relEqual
	}

	switch {
	case b.IsEmptyDir() && !l.IsEmptyDir():
		if filepath.Dir(l.Path) == b.Path {
			return relExtra
		}
	case !b.IsEmptyDir() && l.IsEmptyDir():
		if filepath.Dir(b.Path) == l.Path {
			return relEmptyDirUnexpected
		}
	}
	return relUnrelated
}

func digestsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
