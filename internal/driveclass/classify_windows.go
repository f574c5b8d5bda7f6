//go:build windows

// classify_windows.go - Windows drive-affinity capability
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
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/windows"
)

// windowsCapability resolves a path's volume with GetVolumePathNameW and
// queries StorageDeviceSeekPenaltyProperty via DeviceIoControl, per
// spec.md §4.2's Windows-like host behavior. Grounded on
// original_source/src/path.rs's windows_path module; the Win32 volume
// query pattern itself mirrors how xBen-Harveyx-GoSize/main.go already
// reaches for golang.org/x/sys/windows to inspect volumes on this host.
type windowsCapability struct{}

func newDefaultCapability() Capability {
	return windowsCapability{}
}

const (
	ioctlStorageQueryProperty        = 0x2D1400
	propertyStandardQuery            = 0
	storageDeviceSeekPenaltyProperty = 7
)

// storagePropertyQuery mirrors STORAGE_PROPERTY_QUERY.
type storagePropertyQuery struct {
	PropertyID           uint32
	QueryType            uint32
	AdditionalParameters [1]byte
}

func (windowsCapability) DeviceID(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u16, err := windows.UTF16PtrFromString(abs)
	if err != nil {
		return "", err
	}

	buf := make([]uint16, windows.MAX_PATH)
	if err := windows.GetVolumePathName(u16, &buf[0], uint32(len(buf))); err != nil {
		return "", fmt.Errorf("GetVolumePathName %s: %w", abs, err)
	}
	return windows.UTF16ToString(buf), nil
}

func (windowsCapability) Rotational(deviceID string) (bool, error) {
	u16, err := windows.UTF16PtrFromString(trimTrailingBackslash(deviceID))
	if err != nil {
		return false, err
	}

	handle, err := windows.CreateFile(
		u16,
		0,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_EXISTING,
		windows.FILE_FLAG_BACKUP_SEMANTICS,
		0,
	)
	if err != nil {
		return false, fmt.Errorf("CreateFile %s: %w", deviceID, err)
	}
	defer windows.CloseHandle(handle)

	query := storagePropertyQuery{
		PropertyID: storageDeviceSeekPenaltyProperty,
		QueryType:  propertyStandardQuery,
	}

	var out [32]byte
	var bytesReturned uint32
	err = windows.DeviceIoControl(
		handle,
		ioctlStorageQueryProperty,
		(*byte)(unsafe.Pointer(&query)),
		uint32(unsafe.Sizeof(query)),
		&out[0],
		uint32(len(out)),
		&bytesReturned,
		nil,
	)
	if err != nil {
		// ERROR_INVALID_FUNCTION is treated as SLOW (conservative),
		// per spec.md §4.2.
		if err == windows.ERROR_INVALID_FUNCTION {
			return true, nil
		}
		return false, fmt.Errorf("DeviceIoControl %s: %w", deviceID, err)
	}

	// DEVICE_SEEK_PENALTY_DESCRIPTOR{Version DWORD, Size DWORD,
	// IncursSeekPenalty BOOLEAN} - the flag lands right after the two
	// leading DWORDs.
	incursSeekPenalty := out[8] == 1
	return incursSeekPenalty, nil
}

func trimTrailingBackslash(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\\' {
		return s[:n-1]
	}
	return s
}
