//go:build !linux

package traceclock

import (
	"bytes"
	"runtime"
	"strconv"
)

// Without a portable thread-id syscall, fall back to the goroutine id
// from the runtime stack header.  Viewers only need a stable integer
// per concurrent track.
func osThreadID() int64 {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	// header is "goroutine N [...":
	buf = bytes.TrimPrefix(buf, []byte("goroutine "))
	if i := bytes.IndexByte(buf, ' '); i > 0 {
		if n, err := strconv.ParseInt(string(buf[:i]), 10, 64); err == nil {
			return n
		}
	}
	return 0
}
