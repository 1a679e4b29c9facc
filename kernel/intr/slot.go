package intr

import (
	"sync"

	"vkernel/kernel/kpanic"
)

// Slot is one entry of the global IRQ slot table. An inactive slot is
// free; an active one is bound to exactly one pin.
type Slot struct {
	active bool
	pin    *Pin
}

// SlotTable is the flat, 256-entry global IRQ slot table. The low 32
// slots are reserved for CPU exceptions at boot and are never
// considered free. A single mutex protects the whole table — binding
// happens only during device bring-up, never on a hot path, so there
// is no need for anything finer-grained than a plain array-plus-mutex.
type SlotTable struct {
	mu    sync.Mutex
	slots [NumSlots]Slot
}

// NewSlotTable reserves the low ReservedLow slots for CPU exceptions.
func NewSlotTable() *SlotTable {
	t := &SlotTable{}
	for i := 0; i < ReservedLow; i++ {
		t.slots[i].active = true
	}
	return t
}

// Bind finds the first inactive slot, marks it active, links pin to
// it, and returns the slot's index. Binding an already-bound pin is
// idempotent: it returns the pin's existing slot rather than consuming
// a second one. Re-binding a pin to a different slot is not
// supported. Bind panics via kpanic on saturation — a boot-time,
// fatal condition that should never occur on real hardware.
func (t *SlotTable) Bind(pin *Pin) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.slots {
		if t.slots[i].active && t.slots[i].pin == pin {
			return i
		}
	}
	for i := ReservedLow; i < NumSlots; i++ {
		if !t.slots[i].active {
			t.slots[i].active = true
			t.slots[i].pin = pin
			return i
		}
	}
	kpanic.Panic("slot table saturated", kpanic.ErrNoVectors)
	return -1 // unreachable
}

// Lookup returns the pin bound to slot index, or nil if the slot is
// free or out of range.
func (t *SlotTable) Lookup(index int) *Pin {
	t.mu.Lock()
	defer t.mu.Unlock()
	if index < 0 || index >= NumSlots || !t.slots[index].active {
		return nil
	}
	return t.slots[index].pin
}

// Active reports whether index is bound.
func (t *SlotTable) Active(index int) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return index >= 0 && index < NumSlots && t.slots[index].active
}
