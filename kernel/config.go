// Package kernel wires the interrupt substrate (kernel/intr) and the
// scheduler core (kernel/sched) together into a bootable System.
package kernel

import (
	"vkernel/kernel/log"
	"vkernel/kernel/sched"
)

// Config holds every scheduler/interrupt tunable. The zero value is
// sane: every field defaults to its fixed tuning constant when left
// unset, following the usual "if memSize == 0 { memSize = ... }"
// defaulting pattern.
type Config struct {
	NumCPUs int

	HZ               int
	TickIncr         int64
	Affinity         int64
	PreemptThreshold int
	SchedSlice       int
	SchedSliceMin    int

	Verbose bool
}

// WithDefaults returns a copy of cfg with every unset field filled in
// from the package's fixed tuning constants.
func (cfg Config) WithDefaults() Config {
	if cfg.NumCPUs == 0 {
		cfg.NumCPUs = 1
	}
	if cfg.HZ == 0 {
		cfg.HZ = sched.HZ
	}
	if cfg.TickIncr == 0 {
		cfg.TickIncr = sched.TickIncr
	}
	if cfg.Affinity == 0 {
		cfg.Affinity = sched.Affinity
	}
	if cfg.PreemptThreshold == 0 {
		cfg.PreemptThreshold = sched.PreemptThreshold
	}
	if cfg.SchedSlice == 0 {
		cfg.SchedSlice = sched.SchedSlice
	}
	if cfg.SchedSliceMin == 0 {
		cfg.SchedSliceMin = sched.SchedSliceMin
	}
	log.Verbose = cfg.Verbose
	return cfg
}
