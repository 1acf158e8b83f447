//go:build !(linux || darwin || freebsd || windows)

package analyzer

import "time"

func createdTime(string) (time.Time, bool) {
	return time.Time{}, false
}
