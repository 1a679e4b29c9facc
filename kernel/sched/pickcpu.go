package sched

// PickCPUFlags select pick_cpu's calling context.
type PickCPUFlags uint32

const (
	// PickOurself marks a call from the running thread's own path
	// (e.g. voluntarily yielding): always keep the current CPU.
	PickOurself PickCPUFlags = 1 << 0
)

// Topology is the narrow view PickCPU needs of the rest of the
// per-CPU scheduler state: every CPU's queue, indexed by CPU id.
type Topology struct {
	Queues []*ThreadQueue
}

// PickCPU implements pick_cpu: choose which CPU a
// thread should run on next, preferring affinity to its last CPU over
// load balancing, and never picking a CPU over one with a strictly
// better idle state.
func PickCPU(topo *Topology, t *Thread, flags PickCPUFlags, ticks int64) int {
	if flags&PickOurself != 0 {
		return t.CPU
	}

	if t.EffPri <= PriMaxIThd {
		if t.CPU >= 0 && t.CPU < len(topo.Queues) && topo.Queues[t.CPU].LowPri() >= PriMinIdle {
			return t.CPU
		}
		return t.CPU
	}

	last := t.PrevCPU
	if last < 0 {
		last = t.CPU
	}
	if last >= 0 && last < len(topo.Queues) {
		q := topo.Queues[last]
		if q.LowPri() >= PriMinIdle && t.RealLastTick > ticks-2*Affinity {
			return last
		}
	}

	chosen := leastLoaded(topo)

	if chosen >= 0 && chosen < len(topo.Queues) && t.CPU >= 0 && t.CPU < len(topo.Queues) {
		chosenQ := topo.Queues[chosen]
		curQ := topo.Queues[t.CPU]
		if chosenQ.LowPri() < PriMinIdle && curQ.LowPri() > t.EffPri && curQ.Load() <= chosenQ.Load() {
			return t.CPU
		}
	}

	return chosen
}

// leastLoaded scans every CPU's queue and returns the index of the
// one with the smallest load, breaking ties toward the lowest index.
func leastLoaded(topo *Topology) int {
	best := -1
	bestLoad := int32(1 << 30)
	for i, q := range topo.Queues {
		if q.Load() < bestLoad {
			bestLoad = q.Load()
			best = i
		}
	}
	return best
}
