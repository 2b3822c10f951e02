//go:build unix

package scanner

import "golang.org/x/sys/unix"

// deviceID returns the device id of the filesystem holding path, used
// for the same-filesystem boundary check. The path is not followed if it
// is a symlink.
func deviceID(path string) (uint64, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return 0, err
	}
	return uint64(st.Dev), nil
}
