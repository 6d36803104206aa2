//go:build linux

package budget

import "golang.org/x/sys/unix"

// systemMemoryBytes reports currently available RAM (free plus buffers).
func systemMemoryBytes() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}
	return (uint64(info.Freeram) + uint64(info.Bufferram)) * unit
}
