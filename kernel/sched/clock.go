package sched

import "sync/atomic"

// globalTicks is the kernel-wide tick counter every CPU's hardclock
// keeps in sync via a bounded CAS retry.
var globalTicks atomic.Int64

// GlobalTicks returns the current kernel-wide tick count.
func GlobalTicks() int64 { return globalTicks.Load() }

// maxHardclockRetries bounds the CAS loop in Hardclock. If contention
// is this persistent something else is badly wrong and a plain
// fetch-add is a safer fallback than spinning unboundedly.
const maxHardclockRetries = 64

// Hardclock implements hardclock(n): advance pc's own
// tick counter by n, then publish the new value into the global
// counter if it is ahead of it, clamping any apparent backward jump of
// more than one tick (a sign of cross-CPU tick skew, not something to
// propagate).
func Hardclock(pc *PerCPU, n int64) {
	pc.Ticks += n
	t := pc.Ticks

	for i := 0; i < maxHardclockRetries; i++ {
		old := globalTicks.Load()
		next := t
		if next < old-1 {
			next = old + 1
		}
		if next <= old {
			return
		}
		if globalTicks.CompareAndSwap(old, next) {
			return
		}
	}
	globalTicks.Add(1)
}

// Clock implements clock(thread, n), the per-tick
// scheduler hook: rotate the timeshare cursor, charge runtime, and
// deplete the thread's slice.
func Clock(q *ThreadQueue, t *Thread, n int64, ticks int64) (requestAST bool) {
	if q.idx == q.ridx {
		q.idx = (q.idx + 1) % RQBuckets
	}
	if q.ridx != q.idx && len(q.Timeshare.buckets[q.ridx]) == 0 {
		q.ridx = (q.ridx + 1) % RQBuckets
	}

	if t.Class == ClassTimeshare {
		t.RunTime += TickIncr * n
		UpdateInteract(t)
		ComputePriority(t, ticks)
	}

	t.SliceRem -= int(n)
	if t.SliceRem > 0 {
		return false
	}

	switch t.Class {
	case ClassIdle:
		return false
	case ClassInterrupt:
		t.EffPri += 4
		if t.EffPri > PriMaxIThd {
			t.EffPri = PriMaxIThd
		}
		return false
	default:
		t.SetFlag(FlagSliceEnd)
		return true
	}
}
