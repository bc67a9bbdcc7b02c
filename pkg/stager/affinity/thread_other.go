//go:build !linux

package affinity

import (
	"bytes"
	"runtime"
	"strconv"
)

// currentThreadID falls back to the goroutine id parsed from the stack header
// ("goroutine 42 [running]:") on platforms without gettid.
func currentThreadID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := bytes.TrimPrefix(buf[:n], []byte("goroutine "))
	if i := bytes.IndexByte(b, ' '); i > 0 {
		b = b[:i]
	}
	id, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return -1
	}
	return id
}
