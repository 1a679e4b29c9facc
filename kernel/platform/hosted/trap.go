package hosted

import (
	"sync"

	"vkernel/kernel/platform"
)

// Trap implements platform.Trap with a plain handler table, standing in
// for the real trap delivery layer's vector-to-handler map.
type Trap struct {
	mu       sync.Mutex
	handlers map[uint8]platform.TrapHandler
}

func NewTrap() *Trap {
	return &Trap{handlers: make(map[uint8]platform.TrapHandler)}
}

func (t *Trap) SetHandler(vector uint8, handler platform.TrapHandler) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.handlers[vector] = handler
}

// Fire invokes the handler registered for vector, if any. Tests use
// this to simulate a hardware interrupt without a real trap gate.
func (t *Trap) Fire(vector uint8, frame *platform.TrapFrame) {
	t.mu.Lock()
	h := t.handlers[vector]
	t.mu.Unlock()
	if h != nil {
		h(vector, frame)
	}
}
