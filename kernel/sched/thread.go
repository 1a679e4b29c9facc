package sched

import (
	"sync"
	"sync/atomic"
)

// blockedLock is the shared sentinel a thread's lock pointer is set to
// between the instant it relinquishes its queue and the instant its
// successor CPU's queue takes ownership. It is never
// actually locked — its identity, not its state, is what matters:
// code spins on (*Thread).Lock() == &blockedLock to detect hand-off in
// progress.
var blockedLock sync.Mutex

// Class is a thread's scheduling class. Classes are ordered by
// urgency: interrupt threads always run ahead of realtime, which run
// ahead of timeshare, which run ahead of idle.
type Class int

const (
	ClassInterrupt Class = iota
	ClassRealtime
	ClassTimeshare
	ClassIdle
)

// State is a thread's current scheduling state.
type State int

const (
	StateInactive State = iota
	StateInhibited
	StateCanRun
	StateOnRunqueue
	StateRunning
)

// Inhibit is a bitmask of reasons a thread is not runnable.
type Inhibit uint32

const (
	InhibitSuspended Inhibit = 1 << iota
	InhibitSleeping
	InhibitSwapped
	InhibitLockBlocked
	InhibitIntrWait
)

// Flags are per-thread scheduling flags.
type Flags uint32

const (
	FlagBound          Flags = 1 << iota // TSF_BOUND: pinned to one CPU
	FlagTransferable                     // eligible for cross-CPU migration
	FlagNoLoad                           // excluded from sysload accounting
	FlagBorrowing                        // priority currently lent
	FlagIdleThread                       // the CPU's designated idle thread
	FlagPickCPUNext                      // re-pick CPU on next switch
	FlagSliceEnd                         // current slice ran out
)

// SwitchFlags select why mi_switch was called; exactly one of
// Voluntary/Involuntary must be set, plus any of Preempt/PickCPU.
type SwitchFlags uint32

const (
	SwitchVoluntary   SwitchFlags = 1 << 0
	SwitchInvoluntary SwitchFlags = 1 << 1
	SwitchPreempt     SwitchFlags = 1 << 2
	SwitchPickCPU     SwitchFlags = 1 << 3
)

// Thread is a kernel thread's scheduling descriptor.
// Fields are grouped the way the spec's data model groups them:
// identity/locking, classification, priority, accounting, placement,
// scheduling state.
type Thread struct {
	// Identity/locking.
	lock         atomic.Pointer[sync.Mutex]
	critNest     int
	spinNest     int
	savedIntrEn  bool

	// Classification.
	Class Class
	flags Flags

	// Priority.
	BasePri      int
	EffPri       int
	BaseUserPri  int
	LentUserPri  int
	UserPri      int
	BaseIThdPri  int
	RqIndex      int

	// Accounting.
	Ticks        int64
	FirstTick    int64
	LastTick     int64
	RealLastTick int64 // rltick, for affinity
	SliceRem     int
	SlpTime      int64
	RunTime      int64
	AccruedTicks int64
	slptick      int64

	// Placement.
	CPU     int
	PrevCPU int

	// Scheduling state.
	State    State
	Inhibit  Inhibit

	// Back-pointer to the queue currently holding this thread, set by
	// whichever ThreadQueue owns it. nil when not on any queue.
	Queue *ThreadQueue

	Name string
}

// NewThread builds a thread with the given class and base priority,
// idle and not on any queue, not bound to any CPU.
func NewThread(name string, class Class, basePri int) *Thread {
	t := &Thread{
		Name:        name,
		Class:       class,
		BasePri:     basePri,
		EffPri:      basePri,
		BaseUserPri: basePri,
		UserPri:     basePri,
		BaseIThdPri: basePri,
		SliceRem:    SchedSlice,
		CPU:         NoCPU,
		PrevCPU:     NoCPU,
		State:       StateInactive,
	}
	return t
}

// Lock returns the thread's current lock pointer, loaded with acquire
// ordering so a remote CPU observing it also observes everything the
// owning CPU published before the store.
func (t *Thread) Lock() *sync.Mutex { return t.lock.Load() }

// SetLock installs lock as the thread's current lock pointer.
func (t *Thread) SetLock(lock *sync.Mutex) { t.lock.Store(lock) }

// Block replaces the thread's lock with the blocked-lock sentinel and
// returns the lock it held, the first step of sched_switch's hand-off
//.
func (t *Thread) Block() *sync.Mutex {
	held := t.lock.Swap(&blockedLock)
	return held
}

// IsBlocked reports whether the thread's lock is currently the
// sentinel, i.e. it is mid hand-off between CPUs.
func (t *Thread) IsBlocked() bool { return t.lock.Load() == &blockedLock }

// PrimeSwitchCrit sets the thread's critical-section nesting to 1, the
// precondition MiSwitch asserts. A trap handler reaching mi_switch has
// already disabled interrupts as a side effect of the trap itself, so
// it primes the count directly rather than going through
// CritSection.Enter (which would disable interrupts again and record
// a redundant saved state).
func (t *Thread) PrimeSwitchCrit() { t.critNest = 1 }

// ClearSwitchCrit balances PrimeSwitchCrit once mi_switch has
// returned.
func (t *Thread) ClearSwitchCrit() { t.critNest = 0 }

func (t *Thread) HasFlag(f Flags) bool  { return t.flags&f != 0 }
func (t *Thread) SetFlag(f Flags)       { t.flags |= f }
func (t *Thread) ClearFlag(f Flags)     { t.flags &^= f }

// Runnable reports whether the thread can be placed on a run-queue:
// not inhibited for any reason.
func (t *Thread) Runnable() bool { return t.Inhibit == 0 }
