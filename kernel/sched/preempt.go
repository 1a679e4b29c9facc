package sched

// ShouldPreempt decides whether a newly runnable thread should
// preempt the thread currently running:
//
//   - false if newPri >= curPri (not actually higher priority)
//   - true if curPri is in the idle band (anything beats idle)
//   - false if the preempt threshold is disabled (zero)
//   - true if newPri is at or below the threshold (unconditional preempt)
//   - true if remote and newPri is interactive while cur is not
//   - false otherwise
func ShouldPreempt(newPri, curPri int, remote bool) bool {
	if newPri >= curPri {
		return false
	}
	if curPri >= PriMinIdle {
		return true
	}
	if PreemptThreshold == 0 {
		return false
	}
	if newPri <= PreemptThreshold {
		return true
	}
	if remote && newPri <= PriMaxInteract && curPri > PriMaxInteract {
		return true
	}
	return false
}
