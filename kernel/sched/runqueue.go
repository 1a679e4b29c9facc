package sched

import "math/bits"

// RunQueue is a 64-bucket FIFO array with a bitmap index for O(1)
// minimum selection. Priority maps to bucket via
// priority/4. The spec's "4 × 16-bit words" bitmap is expressed here
// as a single 64-bit word with bits.TrailingZeros64, which the spec
// itself calls "equivalent and preferable where available".
type RunQueue struct {
	buckets [RQBuckets][]*Thread
	bitmap  uint64
}

func bucketOf(priority int) int { return priority / 4 % RQBuckets }

// Add places thread at the head (preempted) or tail (otherwise) of
// its priority bucket and sets the bucket's bitmap bit.
func (rq *RunQueue) Add(t *Thread, preempted bool) {
	b := bucketOf(t.EffPri)
	t.RqIndex = b
	if preempted {
		rq.buckets[b] = append([]*Thread{t}, rq.buckets[b]...)
	} else {
		rq.buckets[b] = append(rq.buckets[b], t)
	}
	rq.bitmap |= 1 << uint(b)
}

// Remove pops the head of thread's recorded bucket. Per this
// ("RunQueue.removeWithIdx pops the head of the bucket unconditionally;
// callers are expected to pass the head thread"), Remove enforces this
// rather than silently replicating the ambiguity: it panics if thread
// is not the head of its bucket. If cursor is non-nil and the bucket
// empties, it is advanced to (bucket+1) % RQBuckets.
func (rq *RunQueue) Remove(t *Thread, cursor *int) {
	b := t.RqIndex
	bucket := rq.buckets[b]
	if len(bucket) == 0 || bucket[0] != t {
		panic("sched: RunQueue.Remove called on non-head thread")
	}
	rq.buckets[b] = bucket[1:]
	if len(rq.buckets[b]) == 0 {
		rq.bitmap &^= 1 << uint(b)
		if cursor != nil {
			*cursor = (b + 1) % RQBuckets
		}
	}
}

// Choose returns the head of the lowest-numbered non-empty bucket, or
// nil if the queue is empty.
func (rq *RunQueue) Choose() *Thread {
	if rq.bitmap == 0 {
		return nil
	}
	b := bits.TrailingZeros64(rq.bitmap)
	bucket := rq.buckets[b]
	if len(bucket) == 0 {
		return nil
	}
	return bucket[0]
}

// ChooseFrom scans circularly starting at start, implementing the
// timeshare rotation's draining order.
func (rq *RunQueue) ChooseFrom(start int) *Thread {
	if rq.bitmap == 0 {
		return nil
	}
	for i := 0; i < RQBuckets; i++ {
		b := (start + i) % RQBuckets
		if rq.bitmap&(1<<uint(b)) != 0 && len(rq.buckets[b]) > 0 {
			return rq.buckets[b][0]
		}
	}
	return nil
}

// Empty reports whether the bitmap shows no non-empty buckets.
func (rq *RunQueue) Empty() bool { return rq.bitmap == 0 }

// BitSet reports whether bucket b's bitmap bit is set, used by tests
// asserting bitmap coherence against actual bucket contents.
func (rq *RunQueue) BitSet(b int) bool { return rq.bitmap&(1<<uint(b)) != 0 }
