package sched

// Scheduler ties a CPU topology together: every PerCPU's queue,
// indexed so sched_switch's migration lock dance can reach a remote
// queue by id.
type Scheduler struct {
	CPUs []*PerCPU
}

func (s *Scheduler) topology() *Topology {
	qs := make([]*ThreadQueue, len(s.CPUs))
	for i, pc := range s.CPUs {
		qs[i] = pc.Queue
	}
	return &Topology{Queues: qs}
}

// MiSwitch implements mi_switch(flags). The caller must
// already hold pc.Queue.Mu (the current thread's lock, per the
// assertion below) before calling — SchedSwitch releases it as part of
// step 6's hand-off, so the lock is never re-acquired by this call.
func (s *Scheduler) MiSwitch(pc *PerCPU, flags SwitchFlags, ticks int64) {
	t := pc.Queue.Current
	if t.Lock() == nil {
		panic("sched: mi_switch with no lock held")
	}
	if t.critNest != 1 {
		panic("sched: mi_switch outside a single critical section")
	}
	v := flags&SwitchVoluntary != 0
	iv := flags&SwitchInvoluntary != 0
	if v == iv {
		panic("sched: mi_switch requires exactly one of voluntary/involuntary")
	}

	t.AccruedTicks += ticks - pc.lastSwitchTick
	pc.lastSwitchTick = ticks

	s.SchedSwitch(pc, t, flags, ticks)
}

// SchedSwitch implements sched_switch, the seven-step
// hand-off: update accounting, latch preemption, clear owed flags,
// block the outgoing thread, re-queue or drop it depending on its
// post-switch state, and choose the next thread. It does not arm the
// next tick; the timer trap handler re-arms the oneshot before it
// calls MiSwitch.
func (s *Scheduler) SchedSwitch(pc *PerCPU, t *Thread, flags SwitchFlags, ticks int64) {
	q := pc.Queue

	UpdatePctCPU(t, ticks, true)
	t.RealLastTick = ticks
	if flags&SwitchPickCPU != 0 {
		t.RealLastTick -= int64(Affinity * MaxCacheLevels)
	}

	preempted := !t.HasFlag(FlagSliceEnd) && flags&SwitchPreempt != 0
	t.ClearFlag(FlagPickCPUNext)
	t.ClearFlag(FlagSliceEnd)

	q.ClearOwePreempt()
	if !t.HasFlag(FlagIdleThread) {
		q.switchCnt++
	}

	t.Block()

	switch {
	case t.HasFlag(FlagIdleThread):
		t.State = StateCanRun
	case t.State == StateRunning:
		dest := PickCPU(s.topology(), t, flagsFromSwitch(flags), ticks)
		s.requeue(pc, t, dest, preempted)
	default:
		q.RemLoad(t)
	}

	next := s.chooseThread(pc, ticks)
	next.State = StateRunning
	next.CPU = pc.ID
	q.Current = next
	UpdatePctCPU(next, ticks, true)

	q.Mu.Unlock()

	pc.CPU.SetIntrMode(true)
	for next.IsBlocked() {
		// spin until the successor CPU's queue finishes installing
		// this thread, bounded hand-off spin.
	}
	pc.Frame = nil // swapped in by the trap return path
}

func flagsFromSwitch(flags SwitchFlags) PickCPUFlags {
	if flags&SwitchPickCPU != 0 {
		return 0
	}
	return PickOurself
}

// requeue re-adds t to its chosen destination queue, migrating via a
// lock dance when dest differs from pc's own CPU: drop the source
// lock, take the destination lock, insert and notify, drop the
// destination lock, and re-take the source lock so the caller's
// deferred unlock remains balanced.
func (s *Scheduler) requeue(pc *PerCPU, t *Thread, dest int, preempted bool) {
	srcQ := pc.Queue
	if dest == pc.ID || dest < 0 || dest >= len(s.CPUs) {
		var f AddFlags
		if preempted {
			f |= AddPreempted
		}
		srcQ.AddRunq(t, f)
		srcQ.AddLoad(t)
		srcQ.SetLowPri(pcCurrentPri(srcQ))
		t.SetLock(&srcQ.Mu)
		return
	}

	destPC := s.CPUs[dest]
	destQ := destPC.Queue

	srcQ.Mu.Unlock()
	destQ.Mu.Lock()

	var f AddFlags
	if preempted {
		f |= AddPreempted
	}
	destQ.AddRunq(t, f)
	destQ.AddLoad(t)
	destQ.SetLowPri(pcCurrentPri(destQ))
	t.CPU = dest
	t.SetLock(&destQ.Mu)
	destQ.Notify(t.EffPri)

	destQ.Mu.Unlock()
	srcQ.Mu.Lock()
}

func pcCurrentPri(q *ThreadQueue) int {
	if q.Current != nil {
		return q.Current.EffPri
	}
	return PriMaxIdle
}

// chooseThread selects the next runnable thread for pc: the head of
// its queue's aggregate choose(), or the CPU's dedicated idle thread
// if nothing is runnable.
func (s *Scheduler) chooseThread(pc *PerCPU, ticks int64) *Thread {
	q := pc.Queue
	if next := q.Choose(); next != nil {
		q.RemRunq(next)
		next.SetLock(&q.Mu)
		return next
	}
	pc.Idle.SetLock(&q.Mu)
	return pc.Idle
}

// SwitchMigrate implements switchMigrate: after a cross-CPU migration
// completes, the destination CPU considers the migrated thread bound
// to it, even though the thread was never TSF_BOUND before migrating
// — the source's assertion that the migrating thread is already
// TSF_BOUND contradicts its own name and is not reproduced here;
// instead this marks the thread bound to its new CPU as the
// migration's result.
func SwitchMigrate(t *Thread, dest int) {
	t.CPU = dest
	t.SetFlag(FlagBound)
}
