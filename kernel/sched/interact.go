package sched

// Interactivity implements interactivity(thread): a
// score in [0, SchedInteractMax] from a thread's accumulated runtime
// and sleep time. Whenever the interactivity threshold sits below
// half-max, nonzero runtime at or above slptime short-circuits
// straight to half-max rather than climbing toward the
// runtime-dominant extreme; otherwise the sleep-dominant side still
// scales the score down from half-max, and equal-zero scores zero.
func Interactivity(runtime, slptime int64) int {
	switch {
	case runtime != 0 && runtime >= slptime && SchedInteractThresh <= SchedInteractHalf:
		return SchedInteractHalf
	case runtime > slptime:
		div := runtime / 50
		if div < 1 {
			div = 1
		}
		return int(SchedInteractHalf + (int64(SchedInteractHalf) - slptime/div))
	case slptime > runtime:
		div := slptime / 50
		if div < 1 {
			div = 1
		}
		return int(runtime / div)
	case runtime != 0:
		return SchedInteractHalf
	default:
		return 0
	}
}

// ComputePriority implements compute_priority for the
// timeshare class: an interactive band for scores below the
// interactivity threshold, a batch band otherwise. It writes the
// result into t.UserPri.
func ComputePriority(t *Thread, globalTicks int64) {
	score := Interactivity(t.RunTime, t.SlpTime)
	var pri int
	if score < SchedInteractThresh {
		pri = PriMinInteract + (PriMaxInteract-PriMinInteract+1)*score/SchedInteractThresh
	} else {
		window := t.LastTick - t.FirstTick
		if window < HZ {
			window = HZ
		}
		pri = SchedPriMin + int(t.Ticks>>10/window)
		if pri > SchedPriMin+SchedPriRange-1 {
			pri = SchedPriMin + SchedPriRange - 1
		}
	}
	t.UserPri = pri
}

// schedInteractCapTicks is 5*hz<<10, the accumulated-tick cap past
// which UpdateInteract decays runtime/slptime.
const schedInteractCapTicks = 5 * HZ << 10

// UpdateInteract decays runtime/slptime once their sum exceeds the
// cap, in three bands: past 2x cap, clamp; past 6/5x cap, halve both;
// otherwise scale both by 4/5.
func UpdateInteract(t *Thread) {
	sum := t.RunTime + t.SlpTime
	if sum <= schedInteractCapTicks {
		return
	}
	switch {
	case sum >= 2*schedInteractCapTicks:
		if t.RunTime > t.SlpTime {
			t.RunTime = schedInteractCapTicks
			t.SlpTime = 1
		} else {
			t.SlpTime = schedInteractCapTicks
			t.RunTime = 1
		}
	case sum >= schedInteractCapTicks*6/5:
		t.RunTime /= 2
		t.SlpTime /= 2
	default:
		t.RunTime = t.RunTime * 4 / 5
		t.SlpTime = t.SlpTime * 4 / 5
	}
}

// pctCPUTargetTicks is the pct-cpu accounting window width, chosen to
// match the tick-shift accounting used elsewhere (ticks are tracked in
// a <<10 fixed-point representation).
const pctCPUTargetTicks = 10 * HZ << 10

// UpdatePctCPU advances the pct-cpu tick-accumulation window
//: reset the window if stale, rescale it if it has
// overfilled, and charge elapsed ticks if the thread is running.
func UpdatePctCPU(t *Thread, now int64, running bool) {
	target := int64(pctCPUTargetTicks)
	if t.LastTick < now-target {
		t.Ticks = 0
		t.FirstTick = now - target
	} else if t.LastTick-t.FirstTick > target {
		num := t.LastTick - (now - target)
		den := t.LastTick - t.FirstTick
		if den > 0 {
			t.Ticks = t.Ticks * num / den
		}
		t.FirstTick = now - target
	}
	if running {
		t.Ticks += (now - t.LastTick) << 10
	}
	t.LastTick = now
}
