package kernel

import (
	"vkernel/kernel/intr"
	"vkernel/kernel/log"
	"vkernel/kernel/platform"
	"vkernel/kernel/sched"
)

// Init implements init(): bring up the slot table, parse
// the MADT-like structure for I/O controller entries, initialize each
// I/O controller, initialize the per-CPU local controller, register
// the timer trap, arm the first oneshot, and enable interrupts.
func (s *System) Init() {
	slots := intr.NewSlotTable()
	controllers := intr.NewIOControllersFromMADT(s.FW, s.Mem, s.MMIO, slots)
	s.Router = &intr.Router{Slots: slots, Controllers: controllers}

	s.Locals = make([]*intr.LocalController, len(s.CPUs))
	pcs := make([]*sched.PerCPU, len(s.CPUs))
	for i, cpu := range s.CPUs {
		s.Locals[i] = intr.NewLocalController(cpu, s.Mem, s.MMIO)
		pcs[i] = sched.NewPerCPU(i, cpu)
	}
	s.Scheduler = &sched.Scheduler{CPUs: pcs}

	for i, local := range s.Locals {
		cpuID := i
		s.Traps[i].SetHandler(intr.TimerVector, func(vector uint8, frame *platform.TrapFrame) {
			s.reschedule(cpuID, vector, frame)
		})
		local.ArmOneshot(intr.TimerVector, timerCountForHZ(s.Config.HZ))
		log.Debugf("vkernel: cpu %d local controller armed", i)
	}

	for _, cpu := range s.CPUs {
		cpu.SetIntrMode(true)
	}

	s.Describe()
}

// timerCountForHZ derives a one-shot initial count from the configured
// tick rate. The real conversion depends on the local controller's bus
// frequency, supplied by the CPU/firmware layer in a real boot; absent
// that here, a 1 MHz timer is assumed, giving 1_000_000/hz counts per
// tick. The hosted test double does not count down, so its ticks advance
// once per fired timer trap whatever the count.
func timerCountForHZ(hz int) uint32 {
	if hz <= 0 {
		hz = sched.HZ
	}
	return uint32(1_000_000 / hz)
}
