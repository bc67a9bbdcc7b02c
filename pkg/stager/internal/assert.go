// Package internal contains the shared infrastructure of the stager framework:
// logging, affinity assertions and localization.
// Types and functions in this package are not part of the public API.
package internal

import "fmt"

// AffinityViolation is the panic value raised when an affinity-only operation
// is called from another thread while assertions are enabled.
type AffinityViolation struct {
	Op string
}

func (v AffinityViolation) Error() string {
	return fmt.Sprintf("stager: %s called from a thread that is not the affinity thread", v.Op)
}

// AssertAffinity panics with an AffinityViolation when enabled is true and
// isAffinity reports that the caller is not on the affinity thread.
// A nil predicate disables the check.
func AssertAffinity(enabled bool, isAffinity func() bool, op string) {
	if !enabled || isAffinity == nil {
		return
	}
	if !isAffinity() {
		panic(AffinityViolation{Op: op})
	}
}
