package sched

// Sleep implements sleep(thread, _): record the tick
// a thread went to sleep, and set a timeshare thread whose priority is
// numerically above PriMinBatch to PriMinBatch before it blocks. A
// timeshare thread already at or below PriMinBatch keeps its priority.
func Sleep(t *Thread, ticks int64) {
	t.Inhibit |= InhibitSleeping
	t.State = StateInhibited
	t.SliceRem = 0
	t.slptick = ticks
	if t.Class == ClassTimeshare && t.EffPri > PriMinBatch {
		t.EffPri = PriMinBatch
		t.UserPri = PriMinBatch
	}
}

// WakeupFlags select extra AddRunq flags a caller wants applied to the
// woken thread's run-queue insertion, beyond the BORROWING-equivalent
// "boring" class always applied on wakeup.
type WakeupFlags = AddFlags

// Wakeup implements the accounting half of wakeup(thread, srq_flags):
// charge elapsed sleep time, recompute
// interactivity and pct-cpu, restore interrupt threads to their base
// priority, and reset the slice. It leaves the thread in StateCanRun;
// the caller completes the operation by picking a CPU and calling
// ThreadQueue.AddRunq(t, srqFlags|AddBorrowing) on it, mirroring how
// sched_add is a separate call from sched_wakeup in the source this is
// grounded on.
func Wakeup(t *Thread, ticks int64, srqFlags WakeupFlags) {
	t.Inhibit &^= InhibitSleeping
	if elapsed := ticks - t.slptick; elapsed >= 1 {
		t.SlpTime += elapsed << 10
		UpdateInteract(t)
		if t.Class == ClassTimeshare {
			ComputePriority(t, ticks)
		}
		UpdatePctCPU(t, ticks, false)
	}
	if t.Class == ClassInterrupt {
		t.EffPri = t.BaseIThdPri
		t.UserPri = t.BaseIThdPri
	}
	t.SliceRem = SchedSlice
	if t.Inhibit == 0 {
		t.State = StateCanRun
	}
}

// ThreadPriority adjusts a thread's effective priority, re-queuing it
// if its bucket changes while it is on a run-queue, or updating the
// owning queue's lowpri if it is the one currently running
//.
func ThreadPriority(t *Thread, pri int, q *ThreadQueue) {
	if t.EffPri == pri {
		return
	}
	onRunq := t.State == StateOnRunqueue
	if onRunq && q != nil && bucketOf(t.EffPri) != bucketOf(pri) {
		q.RemRunq(t)
		t.EffPri = pri
		q.AddRunq(t, 0)
	} else {
		t.EffPri = pri
	}
	if t.State == StateRunning && q != nil {
		q.SetLowPri(t.EffPri)
	}
}

// LendPriority implements lend_priority: mark the
// thread as borrowing and adjust its effective priority downward (a
// numerically smaller value, i.e. higher priority) to pri.
func LendPriority(t *Thread, pri int, q *ThreadQueue) {
	t.SetFlag(FlagBorrowing)
	t.LentUserPri = pri
	ThreadPriority(t, pri, q)
}

// UnlendPriority implements unlend_priority: clear
// borrowing and restore base/user priority, unless the thread's
// currently tracked lend is still numerically lower than the priority
// being relinquished (pri), in which case the thread stays lent at that
// tracked value. Thread tracks only a single active lend (LentUserPri),
// not a stack of lenders, so "still lower" is evaluated against that
// one recorded value rather than against an arbitrary lender chain.
func UnlendPriority(t *Thread, pri int, q *ThreadQueue) {
	t.ClearFlag(FlagBorrowing)
	if t.LentUserPri < pri {
		t.SetFlag(FlagBorrowing)
		ThreadPriority(t, t.LentUserPri, q)
		return
	}
	ThreadPriority(t, t.BaseUserPri, q)
}

// LendUserPriority implements lend_user_priority: the
// user-priority becomes min(pri, base_user_pri); if the effective
// priority is now looser than that, it is demoted to match.
func LendUserPriority(t *Thread, pri int, q *ThreadQueue) bool {
	newUserPri := pri
	if t.BaseUserPri < newUserPri {
		newUserPri = t.BaseUserPri
	}
	t.UserPri = newUserPri
	if t.EffPri > newUserPri {
		ThreadPriority(t, newUserPri, q)
		return false
	}
	return true // AST requested: effective priority already at or below the new user priority
}
