package hosted

import "sync"

// CPU implements platform.CPU with an in-process MSR store standing in
// for the real register file. Each core has its own CPU value; core
// identity is assigned at construction, mirroring how the real CPU
// abstraction exposes per-core storage.
type CPU struct {
	mu        sync.Mutex
	id        int
	coreCount int
	msrs      map[uint32]uint64
	intrOn    bool
}

// NewCPUSet builds n CPU values sharing a core count but each with its
// own id and MSR store.
func NewCPUSet(n int) []*CPU {
	cpus := make([]*CPU, n)
	for i := range cpus {
		cpus[i] = &CPU{id: i, coreCount: n, msrs: make(map[uint32]uint64), intrOn: true}
	}
	return cpus
}

func (c *CPU) Rdmsr(id uint32) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.msrs[id]
}

func (c *CPU) Wrmsr(id uint32, value uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.msrs[id] = value
}

func (c *CPU) IntrEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.intrOn
}

func (c *CPU) SetIntrMode(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.intrOn = enabled
}

func (c *CPU) GetCoreID() int    { return c.id }
func (c *CPU) GetCoreCount() int { return c.coreCount }
