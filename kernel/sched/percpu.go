package sched

import "vkernel/kernel/platform"

// PerCPU is one CPU's scheduling context: its current
// thread, its thread queue, a local tick counter, the saved trap-frame
// pointer, and bookkeeping for the last switch.
type PerCPU struct {
	ID      int
	Queue   *ThreadQueue
	Ticks   int64
	Frame   *platform.TrapFrame
	Idle    *Thread

	lastSwitchTick int64

	CPU platform.CPU
}

// NewPerCPU builds a CPU's scheduling context with a fresh empty
// queue and a dedicated idle thread already parked at PriMaxIdle.
func NewPerCPU(id int, cpu platform.CPU) *PerCPU {
	idle := NewThread("idle", ClassIdle, PriMaxIdle)
	idle.SetFlag(FlagIdleThread | FlagNoLoad)
	idle.CPU = id
	idle.PrevCPU = id
	idle.State = StateRunning

	pc := &PerCPU{
		ID:    id,
		Queue: NewThreadQueue(),
		Idle:  idle,
		CPU:   cpu,
	}
	pc.Queue.Current = idle
	return pc
}
