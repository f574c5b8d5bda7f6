// driveclass.go - drive-affinity classifier
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

// Package driveclass groups input paths by underlying physical storage
// device and tags each group FAST (non-rotational) or SLOW (rotational),
// per spec.md §4.2. The platform volume-query syscalls are an external
// collaborator, expressed here as the pluggable Capability interface;
// classify_linux.go, classify_windows.go and classify_other.go provide
// the concrete per-OS implementations, with classify_other.go's
// "everything is FAST" as the portable, test-friendly default.
package driveclass

import (
	"path/filepath"
)

// Kind tags a DriveGroup as FAST (parallel scanning regime) or SLOW
// (serialized scanning regime).
type Kind int

const (
	FAST Kind = iota
	SLOW
)

func (k Kind) String() string {
	if k == SLOW {
		return "SLOW"
	}
	return "FAST"
}

// Group is a non-empty set of paths sharing one physical device, tagged
// with the scanning regime the work engine should use for them.
type Group struct {
	Kind  Kind
	Paths []string
}

// Capability abstracts the platform-specific volume queries: given a
// canonicalized path, DeviceID returns an identifier shared by every
// path on the same physical device, and Rotational reports whether that
// device incurs a seek penalty.
type Capability interface {
	DeviceID(path string) (string, error)
	Rotational(deviceID string) (bool, error)
}

// Default returns the Capability appropriate for the host this binary
// was built for.
func Default() Capability {
	return newDefaultCapability()
}

// Classify canonicalizes and groups paths by physical device, preserving
// the insertion order of first-seen devices (spec.md §4.2, step 4). warn
// is invoked (non-fatally) whenever a device or rotational query fails;
// such paths degrade to a FAST group, per spec.md §4.2's "on query
// failure for a given device, tag FAST and emit a warning".
func Classify(paths []string, cap Capability, warn func(format string, args ...any)) ([]Group, error) {
	type bucket struct {
		kind  Kind
		paths []string
	}

	order := make([]string, 0, len(paths))
	buckets := make(map[string]*bucket, len(paths))

	for _, p := range paths {
		canon, err := filepath.Abs(p)
		if err != nil {
			return nil, &Error{Op: "canonicalize", Path: p, Err: err}
		}

		devID, err := cap.DeviceID(canon)
		if err != nil {
			warn("could not determine storage device for %q: %s; treating as FAST", p, err)
			devID = "unknown:" + canon
		}

		b, ok := buckets[devID]
		if !ok {
			kind := FAST
			if err == nil {
				rot, rerr := cap.Rotational(devID)
				if rerr != nil {
					warn("could not determine rotational flag for device %q: %s; treating as FAST", devID, rerr)
				} else if rot {
					kind = SLOW
				}
			}
			b = &bucket{kind: kind}
			buckets[devID] = b
			order = append(order, devID)
		}
		b.paths = append(b.paths, p)
	}

	groups := make([]Group, 0, len(order))
	for _, id := range order {
		b := buckets[id]
		groups = append(groups, Group{Kind: b.kind, Paths: b.paths})
	}
	return groups, nil
}
