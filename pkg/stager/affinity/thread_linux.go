//go:build linux

package affinity

import "golang.org/x/sys/unix"

// currentThreadID returns the OS thread id. The loop goroutine locks its thread,
// so no other goroutine can observe the same id while the loop is running.
func currentThreadID() int64 {
	return int64(unix.Gettid())
}
