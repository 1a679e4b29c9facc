package kernel

import (
	"fmt"

	"vkernel/kernel/intr"
	"vkernel/kernel/log"
	"vkernel/kernel/platform"
	"vkernel/kernel/sched"
)

// System owns the slot table, the I/O controllers, the per-CPU local
// controllers, and the scheduler state: the top-level object a
// bootloader hands off to, analogous to a hypervisor's VM object
// owning its bus and device set.
type System struct {
	Config Config

	Mem  platform.Memory
	MMIO platform.MMIO
	CPUs []platform.CPU
	FW   platform.Firmware
	// Traps holds one trap-delivery collaborator per CPU — real
	// hardware dispatches a vector to whichever core took the
	// interrupt, so the handler registered on Traps[i] always knows
	// its own core id without a lookup.
	Traps []platform.Trap

	Router *intr.Router
	Locals []*intr.LocalController

	Scheduler *sched.Scheduler
}

// New constructs a System from its collaborators and configuration but
// does not boot it — call Init for that. traps must have one entry per
// CPU.
func New(cfg Config, mem platform.Memory, mmio platform.MMIO, cpus []platform.CPU, fw platform.Firmware, traps []platform.Trap) *System {
	cfg = cfg.WithDefaults()
	return &System{
		Config: cfg,
		Mem:    mem,
		MMIO:   mmio,
		CPUs:   cpus,
		FW:     fw,
		Traps:  traps,
	}
}

// Describe prints a one-line boot summary of the interrupt topology,
// logging configured devices once bring-up completes.
func (s *System) Describe() {
	log.Infof("vkernel: %d CPU(s), %d I/O controller(s), %d slot(s) reserved",
		len(s.CPUs), len(s.Router.Controllers), intr.ReservedLow)
	for _, c := range s.Router.Controllers {
		log.Infof("vkernel:   ioctrl gsi_base=%d pins=%d", c.GSIBase(), c.PinCount())
	}
}

func (s *System) String() string {
	return fmt.Sprintf("System{cpus=%d}", len(s.CPUs))
}
