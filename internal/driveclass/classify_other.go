//go:build !linux && !windows

// classify_other.go - fallback drive-affinity capability
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

package driveclass

// otherCapability treats every path as its own FAST device, per spec.md
// §4.2's "on any other host, treat everything as FAST". Hosts outside
// Linux and Windows (Darwin, BSDs) have no portable seek-penalty query
// in this codebase's dependency set, so classification degrades to the
// conservative no-op rather than guessing.
type otherCapability struct{}

func newDefaultCapability() Capability {
	return otherCapability{}
}

func (otherCapability) DeviceID(path string) (string, error) {
	return path, nil
}

func (otherCapability) Rotational(deviceID string) (bool, error) {
	return false, nil
}
