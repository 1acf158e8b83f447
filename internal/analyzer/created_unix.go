//go:build linux || darwin || freebsd

package analyzer

import (
	"time"

	"golang.org/x/sys/unix"
)

// createdTime returns the inode change time, the closest unix analogue of a
// creation time.
func createdTime(path string) (time.Time, bool) {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return time.Time{}, false
	}
	sec, nsec := st.Ctim.Unix()
	return time.Unix(sec, nsec), true
}
