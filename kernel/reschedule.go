package kernel

import (
	"vkernel/kernel/intr"
	"vkernel/kernel/platform"
	"vkernel/kernel/sched"
)

// reschedule implements reschedule(trap_frame): the
// timer-vector handler, bound to cpuID by Init so it always knows
// which CPU's scheduling context it is running on. It advances the
// clock, re-arms the next oneshot, acknowledges the interrupt, and
// drives a context switch when the current thread's slice has run
// out.
func (s *System) reschedule(cpuID int, vector uint8, frame *platform.TrapFrame) {
	pc := s.Scheduler.CPUs[cpuID]
	local := s.Locals[cpuID]

	pc.Frame = frame

	sched.Hardclock(pc, 1)

	pc.Queue.Mu.Lock()
	cur := pc.Queue.Current
	requestAST := sched.Clock(pc.Queue, cur, 1, sched.GlobalTicks())

	local.ArmOneshot(intr.TimerVector, timerCountForHZ(s.Config.HZ))
	local.SubmitEOI()

	if !requestAST {
		pc.Queue.Mu.Unlock()
		return
	}

	cur.SetLock(&pc.Queue.Mu)
	cur.PrimeSwitchCrit()
	s.Scheduler.MiSwitch(pc, sched.SwitchInvoluntary, sched.GlobalTicks())
	cur.ClearSwitchCrit()
}
