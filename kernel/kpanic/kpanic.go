// Package kpanic is the kernel's closed error taxonomy for boot-time
// failures. Every error here is fatal: there is no
// recovery path once the scheduler or interrupt substrate has failed
// to come up, so Panic logs and then panics unconditionally, in every
// build.
package kpanic

import (
	"errors"
	"fmt"

	"vkernel/kernel/log"
)

var (
	// ErrOutOfMemory is returned when a boot-time allocator call fails.
	ErrOutOfMemory = errors.New("out of memory")
	// ErrNoVectors is returned when the interrupt slot table is
	// saturated and a pin cannot be bound.
	ErrNoVectors = errors.New("no vectors available")
	// ErrNoFirmwareTable is returned when the expected firmware table
	// (MADT) is absent.
	ErrNoFirmwareTable = errors.New("firmware table not found")
	// ErrInvalidRedirection is returned when an I/O controller pin is
	// configured but no slot is available to serve as its vector.
	ErrInvalidRedirection = errors.New("no free slot for redirection entry")
)

// Panic logs msg wrapping err and then panics. Callers should not
// expect control to return.
func Panic(msg string, err error) {
	log.Warnf("fatal: %s: %v", msg, err)
	panic(fmt.Errorf("%s: %w", msg, err))
}

// Assert panics unconditionally if cond is false. Assertion failures
// (a lock not held, a state machine invariant broken) are fatal in
// every build — there is no "debug-only" assertion mode
// here.
func Assert(cond bool, msg string) {
	if !cond {
		panic("assertion failed: " + msg)
	}
}
