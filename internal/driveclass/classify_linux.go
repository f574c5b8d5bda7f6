//go:build linux

// classify_linux.go - Linux drive-affinity capability
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

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// linuxCapability resolves a path's mount source with `findmnt` and its
// rotational flag from /sys/block/<dev>/queue/rotational, per spec.md
// §4.2's Linux-like host behavior. Grounded on
// original_source/src/path.rs's linux_path module and on
// other_examples/ddfcdb06_maisi-unraid-filehasher's NVMe-suffix
// stripping.
type linuxCapability struct{}

func newDefaultCapability() Capability {
	return linuxCapability{}
}

func (linuxCapability) DeviceID(path string) (string, error) {
	out, err := exec.Command("findmnt", "-no", "source", "-T", path).Output()
	if err != nil {
		return "", fmt.Errorf("findmnt %s: %w", path, err)
	}
	source := strings.TrimSpace(string(out))
	if source == "" {
		return "", fmt.Errorf("findmnt %s: empty mount source", path)
	}
	return extractDeviceName(source), nil
}

func (linuxCapability) Rotational(deviceID string) (bool, error) {
	p := filepath.Join("/sys/block", deviceID, "queue/rotational")
	data, err := os.ReadFile(p)
	if err != nil {
		return false, err
	}
	switch strings.TrimSpace(string(data)) {
	case "1":
		return true, nil
	case "0":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected content for %s: %q", p, string(data))
	}
}

// extractDeviceName strips a subvolume suffix in brackets, the leading
// directory components of a /dev path, and (for NVMe devices) the
// trailing partition suffix:
//
//	/dev/sda3              -> sda3 (partition suffixes are only stripped
//	                          for nvme; /sys/block/sda3 does not exist
//	                          for a partition name, so Rotational fails
//	                          and Classify treats the device as FAST
//	                          with a warning)
//	/dev/nvme0n1p3[/subvol] -> nvme0n1
func extractDeviceName(name string) string {
	if idx := strings.LastIndexByte(name, '['); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if strings.HasPrefix(name, "nvme") {
		if idx := strings.LastIndexByte(name, 'p'); idx > 0 {
			name = name[:idx]
		}
	}
	return name
}
