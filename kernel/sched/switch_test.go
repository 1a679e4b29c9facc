package sched

import (
	"testing"

	"vkernel/kernel/platform/hosted"
)

func newTestScheduler(t *testing.T, n int) (*Scheduler, []*PerCPU) {
	t.Helper()
	cpus := hosted.NewCPUSet(n)
	pcs := make([]*PerCPU, n)
	for i := 0; i < n; i++ {
		pcs[i] = NewPerCPU(i, cpus[i])
	}
	return &Scheduler{CPUs: pcs}, pcs
}

// TestSchedSwitchVoluntaryYieldPicksRunnableThread exercises the
// ordinary single-CPU hand-off: a thread yields while another thread
// is runnable on the same queue, and mi_switch installs it as current.
func TestSchedSwitchVoluntaryYieldPicksRunnableThread(t *testing.T) {
	s, pcs := newTestScheduler(t, 1)
	pc := pcs[0]

	next := threadAt("next", 150)
	next.Class = ClassTimeshare
	pc.Queue.AddRunq(next, 0)
	pc.Queue.AddLoad(next)

	cur := threadAt("cur", 150)
	cur.Class = ClassTimeshare
	cur.State = StateInhibited // blocking voluntarily, e.g. on a sleep
	cur.Inhibit = InhibitSleeping
	cur.SetLock(&pc.Queue.Mu)
	cur.PrimeSwitchCrit()
	pc.Queue.Current = cur
	pc.Queue.AddLoad(cur)

	pc.Queue.Mu.Lock()
	s.MiSwitch(pc, SwitchVoluntary, 10)
	cur.ClearSwitchCrit()

	if pc.Queue.Current != next {
		t.Fatalf("expected next thread installed as current, got %v", pc.Queue.Current.Name)
	}
	if next.State != StateRunning {
		t.Fatalf("next.State = %v, want StateRunning", next.State)
	}
	if next.CPU != pc.ID {
		t.Fatalf("next.CPU = %d, want %d", next.CPU, pc.ID)
	}
}

// TestSchedSwitchFallsBackToIdle covers the case where nothing else is
// runnable: the outgoing thread blocks (it is not StateRunning, so it
// is dropped rather than re-queued) and the CPU's idle thread takes
// over.
func TestSchedSwitchFallsBackToIdle(t *testing.T) {
	s, pcs := newTestScheduler(t, 1)
	pc := pcs[0]

	cur := threadAt("cur", 150)
	cur.Class = ClassTimeshare
	cur.State = StateInhibited
	cur.Inhibit = InhibitSleeping
	cur.SetLock(&pc.Queue.Mu)
	cur.PrimeSwitchCrit()
	pc.Queue.Current = cur
	pc.Queue.AddLoad(cur)

	pc.Queue.Mu.Lock()
	s.MiSwitch(pc, SwitchVoluntary, 10)
	cur.ClearSwitchCrit()

	if pc.Queue.Current != pc.Idle {
		t.Fatalf("expected idle thread installed when nothing else is runnable")
	}
	if pc.Idle.IsBlocked() {
		t.Fatalf("idle thread must not be left in the blocked hand-off state")
	}
}

func TestMiSwitchPanicsWithoutLockHeld(t *testing.T) {
	s, pcs := newTestScheduler(t, 1)
	pc := pcs[0]
	cur := threadAt("cur", 150)
	cur.PrimeSwitchCrit()
	pc.Queue.Current = cur

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when the current thread holds no lock")
		}
	}()
	s.MiSwitch(pc, SwitchVoluntary, 10)
}

func TestMiSwitchPanicsOnWrongCritNest(t *testing.T) {
	s, pcs := newTestScheduler(t, 1)
	pc := pcs[0]
	cur := threadAt("cur", 150)
	cur.SetLock(&pc.Queue.Mu)
	pc.Queue.Current = cur // critNest left at its zero value, not 1

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on critNest != 1")
		}
	}()
	s.MiSwitch(pc, SwitchVoluntary, 10)
}

func TestMiSwitchPanicsOnAmbiguousFlags(t *testing.T) {
	s, pcs := newTestScheduler(t, 1)
	pc := pcs[0]
	cur := threadAt("cur", 150)
	cur.SetLock(&pc.Queue.Mu)
	cur.PrimeSwitchCrit()
	pc.Queue.Current = cur

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic when neither or both of voluntary/involuntary are set")
		}
	}()
	s.MiSwitch(pc, SwitchVoluntary|SwitchInvoluntary, 10)
}

// TestRequeueMigratesAcrossCPUs drives the cross-CPU lock dance
// directly: a running thread whose PickCPU destination differs from
// its current CPU is moved to the destination queue, notified, and
// left unlocked against that queue.
func TestRequeueMigratesAcrossCPUs(t *testing.T) {
	s, pcs := newTestScheduler(t, 2)
	src, dst := pcs[0], pcs[1]

	th := threadAt("t", 100)
	th.CPU = 0
	th.State = StateRunning

	src.Queue.Mu.Lock()
	s.requeue(src, th, 1, false)
	src.Queue.Mu.Unlock()

	if th.CPU != 1 {
		t.Fatalf("t.CPU = %d, want migrated to 1", th.CPU)
	}
	if th.Lock() != &dst.Queue.Mu {
		t.Fatalf("expected thread locked against the destination queue")
	}
	if dst.Queue.Timeshare.Empty() && dst.Queue.Realtime.Empty() && dst.Queue.Idle.Empty() {
		t.Fatalf("expected thread enqueued on the destination queue")
	}
}

func TestRequeueSameCPUIsASimpleReAdd(t *testing.T) {
	s, pcs := newTestScheduler(t, 2)
	pc := pcs[0]

	th := threadAt("t", 100)
	th.CPU = 0
	th.State = StateRunning

	pc.Queue.Mu.Lock()
	s.requeue(pc, th, 0, false)
	pc.Queue.Mu.Unlock()

	if th.Lock() != &pc.Queue.Mu {
		t.Fatalf("expected thread relocked against its own queue")
	}
	if th.CPU != 0 {
		t.Fatalf("t.CPU = %d, should not change on a same-CPU re-add", th.CPU)
	}
}

func TestSwitchMigrateBindsThreadToDestination(t *testing.T) {
	th := threadAt("t", 100)
	th.CPU = 0
	SwitchMigrate(th, 2)
	if th.CPU != 2 {
		t.Fatalf("CPU = %d, want 2", th.CPU)
	}
	if !th.HasFlag(FlagBound) {
		t.Fatalf("expected FlagBound set after migration")
	}
}
