// Package platform declares the narrow interfaces the scheduler and
// interrupt substrate use to reach the rest of the kernel: physical/
// virtual memory, CPU model-specific registers, the firmware table
// blob, and trap delivery. None of these are implemented against real
// hardware in this repository — that is the job of the memory manager,
// the ACPI parser, and the trap layer, all out of scope here. A hosted
// test double lives in platform/hosted.
package platform

// CacheType selects how a mapped region is cached. The interrupt
// substrate always maps its MMIO windows Uncached.
type CacheType int

const (
	CacheWriteback CacheType = iota
	CacheUncached
)

// MapFlags controls page protection for Memory.MapPage.
type MapFlags int

const (
	MapRead  MapFlags = 1 << 0
	MapWrite MapFlags = 1 << 1
)

// Memory is the narrow interface the interrupt substrate needs from the
// physical/virtual memory manager: translating between a physical
// address and its kernel-virtual "higher-half" mirror, and mapping a
// page-aligned MMIO window uncached.
type Memory interface {
	// ToHigherHalf translates a physical address to the kernel's
	// higher-half virtual mirror.
	ToHigherHalf(phys uintptr) uintptr
	// FromHigherHalf is the inverse of ToHigherHalf.
	FromHigherHalf(virt uintptr) uintptr
	// MapPage maps a single page (or, if large is true, a large page)
	// at virt to phys with the given flags and cache type.
	MapPage(flags MapFlags, cache CacheType, virt, phys uintptr, large bool) error
	// UnmapPage removes a mapping installed by MapPage.
	UnmapPage(virt uintptr) error
	// AllocPages allocates n contiguous physical pages, or returns 0
	// if none are available.
	AllocPages(n int) uintptr
}

// MMIO is the narrow interface for reading and writing a 32-bit
// register through a window already installed by Memory.MapPage. On
// real hardware this is a direct pointer dereference of the mapped
// virtual address; a hosted test double cannot safely let a test
// process dereference an arbitrary physical-looking address, so it
// tracks the backing bytes itself and answers through this interface
// instead. Production code built against this package would implement
// MMIO with a one-line unsafe.Pointer dereference.
type MMIO interface {
	Read32(virt uintptr) uint32
	Write32(virt uintptr, value uint32)
}

// CPU is the narrow interface the scheduler and local interrupt
// controller need from the CPU abstraction layer.
type CPU interface {
	Rdmsr(id uint32) uint64
	Wrmsr(id uint32, value uint64)
	IntrEnabled() bool
	SetIntrMode(enabled bool)
	GetCoreID() int
	GetCoreCount() int
}

// Firmware supplies firmware-provided structured tables by name. It
// returns nil if the named table is absent.
type Firmware interface {
	GetTable(name string) []byte
}

// TrapFrame is the saved register state for an interrupted context. Its
// fields belong to the trap delivery layer; the scheduler only ever
// swaps the pointer, never interprets the contents.
type TrapFrame struct {
	_ [0]byte
}

// TrapHandler is invoked with the vector number and the trap frame of
// the interrupted context when a hardware interrupt for that vector is
// delivered. Trap delivery is synchronous: the handler runs to
// completion before the interrupted context resumes.
type TrapHandler func(vector uint8, frame *TrapFrame)

// Trap is the narrow interface into the trap delivery layer: register a
// handler for a hardware vector.
type Trap interface {
	SetHandler(vector uint8, handler TrapHandler)
}
