package intr

import (
	"sync"

	"vkernel/kernel/log"
	"vkernel/kernel/platform"
)

// LocalController is the per-CPU interrupt controller: it enables
// itself via a model-specific register, acknowledges interrupts by
// writing an EOI register, and arms the one-shot timer that drives
// the scheduler's clock tick. One exists per CPU; there
// is no sharing and no lock contention across CPUs, only within one
// (a local controller's own registers are never touched concurrently
// by two goroutines in the hosted harness, but the mutex keeps init
// and steady-state EOI/arm calls honest regardless).
type LocalController struct {
	mu   sync.Mutex
	cpu  platform.CPU
	mmio platform.MMIO
	mem  platform.Memory
	base uintptr
}

// NewLocalController reads MSR 0x1B, masks off the low 12 bits, and
// compares the result against the architectural default. It maps the
// enclosing page uncached into the kernel's higher half, then enables
// the controller and programs the spurious-vector register.
func NewLocalController(cpu platform.CPU, mem platform.Memory, mmio platform.MMIO) *LocalController {
	raw := cpu.Rdmsr(MSRAPICBase)
	phys := uintptr(raw) & APICBasePageMask
	if phys != DefaultAPICBasePhy {
		log.Infof("intr: local controller base 0x%x differs from architectural default 0x%x, adopting it", phys, uintptr(DefaultAPICBasePhy))
	}

	virt := mem.ToHigherHalf(phys)
	if err := mem.MapPage(platform.MapRead|platform.MapWrite, platform.CacheUncached, virt, phys, false); err != nil {
		log.Warnf("intr: local controller map failed: %v", err)
	}

	lc := &LocalController{
		cpu:  cpu,
		mmio: mmio,
		mem:  mem,
		base: virt,
	}
	lc.enable()
	return lc
}

func (lc *LocalController) enable() {
	raw := lc.cpu.Rdmsr(MSRAPICBase)
	lc.cpu.Wrmsr(MSRAPICBase, raw|APICBaseEnableBit)
	lc.mmio.Write32(lc.base+RegSpuriousVector, SpuriousBit|SpuriousVec)
}

// SubmitEOI writes zero to the EOI register, acknowledging the
// in-service interrupt.
func (lc *LocalController) SubmitEOI() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.mmio.Write32(lc.base+RegEOI, 0)
}

// ArmOneshot programs the timer LVT entry with vector and loads count
// into the initial-count register for a single shot.
// There is no periodic mode here — the scheduler re-arms on every
// reschedule.
func (lc *LocalController) ArmOneshot(vector uint8, count uint32) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.mmio.Write32(lc.base+RegTimerLVT, uint32(vector))
	lc.mmio.Write32(lc.base+RegTimerInitCount, count)
}

// CurrentCount reads the timer's current-count register, mostly
// useful for tests asserting a oneshot is actually counting down.
func (lc *LocalController) CurrentCount() uint32 {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	return lc.mmio.Read32(lc.base + RegTimerCurCount)
}
