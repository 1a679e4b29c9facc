package sched

import "vkernel/kernel/platform"

// CritSection is the per-CPU critical-section/spinlock nesting
// discipline of this: enter_spinlock/exit_spinlock nest, the
// first entry disables interrupts and remembers their prior state, and
// a pending preemption is only honored at the last exit.
type CritSection struct {
	pc  *PerCPU
	cpu platform.CPU
}

// NewCritSection binds a critical-section controller to one CPU's
// scheduling context and its CPU register interface.
func NewCritSection(pc *PerCPU) *CritSection {
	return &CritSection{pc: pc, cpu: pc.CPU}
}

// Enter increments the thread's critical-section nesting; on the
// first entry it saves the current interrupt-enable state and
// disables interrupts.
func (cs *CritSection) Enter(t *Thread) {
	if t.critNest == 0 {
		t.savedIntrEn = cs.cpu.IntrEnabled()
		cs.cpu.SetIntrMode(false)
	}
	t.critNest++
}

// Exit decrements the nesting counter; on the last exit it restores
// the saved interrupt-enable state and, if a preemption was queued
// while interrupts were masked, lets the caller know it must now be
// honored.
func (cs *CritSection) Exit(t *Thread) bool {
	if t.critNest == 0 {
		panic("sched: CritSection.Exit with no matching Enter")
	}
	t.critNest--
	if t.critNest != 0 {
		return false
	}
	cs.cpu.SetIntrMode(t.savedIntrEn)
	if cs.pc.Queue.OwePreempt() {
		cs.pc.Queue.ClearOwePreempt()
		return true
	}
	return false
}

// EnterSpin and ExitSpin mirror Enter/Exit for the separate spinlock
// nesting counter Thread keeps alongside critNest — distinct because a
// thread can hold a spinlock (e.g. during migration's lock dance)
// without being in a scheduler critical section, and vice versa.
func (cs *CritSection) EnterSpin(t *Thread) { t.spinNest++ }

func (cs *CritSection) ExitSpin(t *Thread) {
	if t.spinNest == 0 {
		panic("sched: CritSection.ExitSpin with no matching EnterSpin")
	}
	t.spinNest--
}
