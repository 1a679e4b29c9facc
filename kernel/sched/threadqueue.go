package sched

import (
	"sync"
	"sync/atomic"
)

// AddFlags select how AddRunq should place a thread into the
// timeshare queue's rotation.
type AddFlags uint32

const (
	AddBorrowing AddFlags = 1 << 0
	AddPreempted AddFlags = 1 << 1
)

// ThreadQueue is the per-CPU scheduling queue: three run-queues
// (realtime, timeshare, idle), load counters, a cached lowpri, and the
// spinlock protecting all of it.
type ThreadQueue struct {
	Mu sync.Mutex

	Realtime  RunQueue
	Timeshare RunQueue
	Idle      RunQueue

	idx  int // rotating insert index into the timeshare queue
	ridx int // drain index

	load    int32
	sysload int32

	lowpri atomic.Int64 // cached min priority, read cross-CPU with acquire semantics

	switchCnt    int64
	prevSwitchCnt int64
	owePreempt   atomic.Bool

	transferable int32

	Current *Thread
}

// NewThreadQueue returns an empty queue with lowpri defaulted to
// PriMaxIdle, matching "nothing runnable, nothing running".
func NewThreadQueue() *ThreadQueue {
	q := &ThreadQueue{}
	q.lowpri.Store(PriMaxIdle)
	return q
}

// LowPri returns the cached minimum priority across the queue's
// current thread and its runnables, loaded with acquire ordering for
// cross-CPU readers.
func (q *ThreadQueue) LowPri() int { return int(q.lowpri.Load()) }

// SetLowPri recomputes lowpri as the min of currentOverride (typically
// q.Current's priority, or PriMaxIdle if nil) and the head of the
// aggregate queue.
func (q *ThreadQueue) SetLowPri(currentOverride int) {
	best := currentOverride
	for _, rq := range []*RunQueue{&q.Realtime, &q.Timeshare, &q.Idle} {
		if head := rq.Choose(); head != nil && head.EffPri < best {
			best = head.EffPri
		}
	}
	q.lowpri.Store(int64(best))
}

// classBucket returns which of the three run-queues priority belongs
// to, class boundaries.
func classBucket(priority int) int {
	switch {
	case priority < PriMinBatch:
		return 0 // realtime
	case priority <= PriMaxBatch:
		return 1 // timeshare
	default:
		return 2 // idle
	}
}

// AddRunq implements add_runq: realtime priorities go
// straight to the realtime queue; batch-range priorities go to the
// timeshare queue at a bucket derived from the rotating insert index
// unless flags indicate borrowing or preemption; everything else goes
// to the idle queue, inserted explicitly at ridx rather than through a
// dead `prio` local that never affected the insertion point.
func (q *ThreadQueue) AddRunq(t *Thread, flags AddFlags) {
	switch classBucket(t.EffPri) {
	case 0:
		q.Realtime.Add(t, flags&AddPreempted != 0)
	case 1:
		preempted := flags&AddPreempted != 0
		if flags&(AddBorrowing|AddPreempted) != 0 {
			q.Timeshare.Add(t, preempted)
		} else {
			bucket := RQBuckets * (t.EffPri - PriMinBatch) / (PriMaxBatch - PriMinBatch + 1)
			bucket = (bucket + q.idx) % RQBuckets
			if q.ridx != q.idx && bucket == q.ridx {
				bucket = (bucket - 1 + RQBuckets) % RQBuckets
			}
			t.RqIndex = bucket
			if preempted {
				q.Timeshare.buckets[bucket] = append([]*Thread{t}, q.Timeshare.buckets[bucket]...)
			} else {
				q.Timeshare.buckets[bucket] = append(q.Timeshare.buckets[bucket], t)
			}
			q.Timeshare.bitmap |= 1 << uint(bucket)
		}
	default:
		// idle queue: explicit insertion at ridx.
		t.RqIndex = q.ridx
		q.Idle.buckets[q.ridx] = append(q.Idle.buckets[q.ridx], t)
		q.Idle.bitmap |= 1 << uint(q.ridx)
	}
	t.State = StateOnRunqueue
}

// RemRunq is AddRunq's inverse. Removing from the timeshare queue
// advances ridx iff idx != ridx and the drained bucket emptied.
func (q *ThreadQueue) RemRunq(t *Thread) {
	switch classBucket(t.EffPri) {
	case 0:
		q.Realtime.Remove(t, nil)
	case 1:
		if q.idx != q.ridx {
			q.Timeshare.Remove(t, &q.ridx)
		} else {
			q.Timeshare.Remove(t, nil)
		}
	default:
		q.Idle.Remove(t, nil)
	}
}

// Choose tries realtime, then the timeshare rotation from ridx, then
// idle; returns nil if every queue is empty.
func (q *ThreadQueue) Choose() *Thread {
	if t := q.Realtime.Choose(); t != nil {
		return t
	}
	if t := q.Timeshare.ChooseFrom(q.ridx); t != nil {
		return t
	}
	return q.Idle.Choose()
}

// AddLoad and RemLoad maintain load/sysload: sysload
// excludes NO_LOAD threads.
func (q *ThreadQueue) AddLoad(t *Thread) {
	q.load++
	if !t.HasFlag(FlagNoLoad) {
		q.sysload++
	}
}

func (q *ThreadQueue) RemLoad(t *Thread) {
	q.load--
	if !t.HasFlag(FlagNoLoad) {
		q.sysload--
	}
}

// Slice returns the tick budget for a thread given current sysload
//.
func (q *ThreadQueue) Slice() int {
	switch {
	case q.sysload-1 >= 6:
		return SchedSliceMin
	case q.sysload-1 <= 1:
		return SchedSlice
	default:
		return SchedSlice / int(q.sysload-1)
	}
}

// Notify raises owePreempt when a thread newly queued on this CPU
// (from a remote CPU's perspective) should preempt the current thread,
// and it is not already pending. A release fence precedes the store so
// the remote CPU observes the queued thread before the wake request
//.
func (q *ThreadQueue) Notify(incomingLowPri int) {
	cur := PriMaxIdle
	if q.Current != nil {
		cur = q.Current.EffPri
	}
	if ShouldPreempt(incomingLowPri, cur, true) && !q.owePreempt.Load() {
		q.owePreempt.Store(true)
	}
}

// OwePreempt and ClearOwePreempt expose the pending-preemption flag to
// the critical-section exit path.
func (q *ThreadQueue) OwePreempt() bool   { return q.owePreempt.Load() }
func (q *ThreadQueue) ClearOwePreempt()   { q.owePreempt.Store(false) }

func (q *ThreadQueue) Load() int32    { return q.load }
func (q *ThreadQueue) SysLoad() int32 { return q.sysload }
