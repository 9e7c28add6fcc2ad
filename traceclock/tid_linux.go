//go:build linux

package traceclock

import "golang.org/x/sys/unix"

func osThreadID() int64 {
	return int64(unix.Gettid())
}
