// Package sched implements a per-CPU, priority-decayed, multi-level
// run-queue thread scheduler in the style of FreeBSD's ULE. It is
// deliberately not a general-purpose goroutine scheduler: Thread is a
// kernel thread descriptor, PerCPU is a per-core scheduling context,
// and none of this touches the Go runtime's own scheduler.
package sched

// Priority bands. Lower numbers are higher priority. These partition
// the full [0,255] priority space; the boundary values are fixed
// tuning constants that must stay numerically identical across
// reimplementations.
const (
	PriMinIThd      = 0
	PriMaxIThd      = 15
	PriMinRealtime  = 16
	PriMaxRealtime  = 47
	PriMinKern      = 48
	PriMinTimeshare = 88
	PriMaxTimeshare = 223
	PriMinIdle      = 224
	PriMaxIdle      = 255

	SchedPriNresv   = 40
	PriMinInteract  = 88
	PriMaxInteract  = 135
	PriMinBatch     = 136
	PriMaxBatch     = 223
	SchedPriRange   = 48
	SchedPriMin     = 136
)

// Interactivity scoring.
const (
	SchedInteractMax   = 100
	SchedInteractHalf  = SchedInteractMax / 2
	SchedInteractThresh = 30
)

// Tick and slice tuning.
const (
	HZ               = 100
	TickIncr         = 10
	Affinity         = 2
	MaxCacheLevels   = 2
	SchedSlice       = 12
	SchedSliceMin    = 4
	PreemptThreshold = PriMinKern
)

// RQBuckets is the number of FIFO buckets in a priority run-queue;
// priority maps to bucket via priority/4.
const RQBuckets = 64

// NoCPU marks a thread as not currently assigned to any CPU.
const NoCPU = -1
