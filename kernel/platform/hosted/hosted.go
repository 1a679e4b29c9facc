// Package hosted is a Linux-hosted test/dev backend for the platform
// collaborator interfaces. It is not a memory manager, an ACPI parser,
// or a trap layer — those remain out of scope — but it gives the
// interrupt substrate and scheduler tests something real to run
// against instead of bare mocks: real mmap'd memory and real syscalls
// standing in for guest RAM and MMIO windows, rather than fakes.
package hosted

import (
	"fmt"
	"sync"

	"golang.org/x/sys/unix"

	"vkernel/kernel/platform"
)

// Memory implements platform.Memory over an anonymous mmap'd region
// standing in for physical RAM, with a fixed offset standing in for
// the kernel's higher-half mirror. MapPage/UnmapPage track uncached
// windows the way a page table would, without actually altering cache
// attributes — there is no MMU to program on the host side.
type Memory struct {
	mu        sync.Mutex
	higherOff uintptr
	ram       []byte
	ramBase   uintptr
	mapped    map[uintptr]mapping
	pages     map[uintptr][]byte
	nextPhys  uintptr
	pageSize  int
}

type mapping struct {
	phys  uintptr
	size  int
	cache platform.CacheType
}

// NewMemory reserves size bytes of anonymous memory to stand in for
// physical RAM. higherHalfOffset is added to a physical address to
// form its higher-half virtual mirror.
func NewMemory(size int, higherHalfOffset uintptr) (*Memory, error) {
	ram, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("hosted.Memory: mmap guest ram: %w", err)
	}
	return &Memory{
		higherOff: higherHalfOffset,
		ram:       ram,
		ramBase:   1 << 20, // pretend physical RAM starts at 1MiB, like a real PC map
		mapped:    make(map[uintptr]mapping),
		pages:     make(map[uintptr][]byte),
		nextPhys:  1 << 20,
		pageSize:  unix.Getpagesize(),
	}, nil
}

func (m *Memory) ToHigherHalf(phys uintptr) uintptr   { return phys + m.higherOff }
func (m *Memory) FromHigherHalf(virt uintptr) uintptr { return virt - m.higherOff }

// MapPage records a mapping; for MMIO windows (CacheUncached) it backs
// the virtual address with a dedicated anonymous page rather than the
// shared RAM slice, so writes through the mapping are observable at
// the same virt the caller used.
func (m *Memory) MapPage(flags platform.MapFlags, cache platform.CacheType, virt, phys uintptr, large bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	size := m.pageSize
	if large {
		size *= 512
	}
	if cache == platform.CacheUncached {
		page, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
		if err != nil {
			return fmt.Errorf("hosted.Memory: mmap uncached window: %w", err)
		}
		m.pages[virt] = page
	}
	m.mapped[virt] = mapping{phys: phys, size: size, cache: cache}
	return nil
}

func (m *Memory) UnmapPage(virt uintptr) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if page, ok := m.pages[virt]; ok {
		_ = unix.Munmap(page)
		delete(m.pages, virt)
	}
	delete(m.mapped, virt)
	return nil
}

// AllocPages hands out pageSize*n from a monotonically increasing
// physical cursor. There is no free list — boot-time allocation is
// expected to never be released.
func (m *Memory) AllocPages(n int) uintptr {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n <= 0 {
		return 0
	}
	phys := m.nextPhys
	m.nextPhys += uintptr(n * m.pageSize)
	if int(m.nextPhys) > len(m.ram) {
		return 0
	}
	return phys
}

// Read32 and Write32 implement platform.MMIO over the byte slice
// MapPage allocated for virt's window.
func (m *Memory) Read32(virt uintptr) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	for base, page := range m.pages {
		if virt >= base && virt+4 <= base+uintptr(len(page)) {
			off := virt - base
			return uint32(page[off]) | uint32(page[off+1])<<8 | uint32(page[off+2])<<16 | uint32(page[off+3])<<24
		}
	}
	return 0
}

func (m *Memory) Write32(virt uintptr, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var page []byte
	var off uintptr
	found := false
	for base, p := range m.pages {
		if virt >= base && virt < base+uintptr(len(p)) {
			off = virt - base
			page = p
			found = true
			break
		}
	}
	if !found || int(off)+4 > len(page) {
		return
	}
	page[off] = byte(value)
	page[off+1] = byte(value >> 8)
	page[off+2] = byte(value >> 16)
	page[off+3] = byte(value >> 24)
}

// MMIOBytes returns the backing slice for a previously MapPage'd
// uncached window, so tests can assert on register writes without
// going through unsafe.Pointer casts.
func (m *Memory) MMIOBytes(virt uintptr) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pages[virt]
}

// Close releases the mmap'd regions.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, page := range m.pages {
		_ = unix.Munmap(page)
	}
	return unix.Munmap(m.ram)
}
