package intr

import (
	"testing"

	"vkernel/kernel/platform"
	"vkernel/kernel/platform/hosted"
)

func newTestIOController(t *testing.T, gsiBase int, pinCount int) (*IOController, *hosted.Memory, *SlotTable) {
	t.Helper()
	mem, err := hosted.NewMemory(16<<20, 0xFFFF800000000000)
	if err != nil {
		t.Fatalf("NewMemory: %v", err)
	}
	t.Cleanup(func() { mem.Close() })

	base := mem.ToHigherHalf(0x1000)
	if err := mem.MapPage(platform.MapRead|platform.MapWrite, platform.CacheUncached, base, 0x1000, false); err != nil {
		t.Fatalf("MapPage: %v", err)
	}

	// Seed the version register so NewIOController derives pinCount
	// pins: bits 16-23 encode (count-1).
	seedVersion(mem, base, pinCount)

	slots := NewSlotTable()
	c := NewIOController(mem, base, gsiBase, slots, "test-ioapic")
	return c, mem, slots
}

// seedVersion writes directly to the data window the way a real
// controller's firmware-initialized version register would already
// hold a value before any software touches it — readReg/writeReg
// aren't usable yet because the controller doesn't exist.
func seedVersion(mem *hosted.Memory, base uintptr, pinCount int) {
	mem.Write32(base+RegIndex, RegVersion)
	mem.Write32(base+RegData, uint32(pinCount-1)<<16)
}

func TestIOControllerPinsAppendedToList(t *testing.T) {
	c, _, _ := newTestIOController(t, 0, 8)
	if c.PinCount() != 8 {
		t.Fatalf("expected 8 pins, got %d", c.PinCount())
	}
	for i := 0; i < 8; i++ {
		p := c.Pin(i)
		if p == nil {
			t.Fatalf("pin %d missing from controller's pin list", i)
		}
		if p.Index() != i {
			t.Errorf("pin %d has index %d", i, p.Index())
		}
	}
}

func TestIOControllerConfigureMasksAndBindsSlot(t *testing.T) {
	c, _, slots := newTestIOController(t, 0, 4)
	pin := c.Pin(2)

	mode := pin.Configure(true, true)
	if mode != TriggerLevel {
		t.Errorf("expected TriggerLevel, got %v", mode)
	}
	if pin.Slot() < ReservedLow {
		t.Fatalf("pin should have been bound a non-reserved slot, got %d", pin.Slot())
	}
	if slots.Lookup(pin.Slot()) != pin {
		t.Errorf("slot table should resolve back to the same pin")
	}

	entry := c.readReg(redirReg(pin.index))
	if entry&RedirMaskBit == 0 {
		t.Errorf("freshly configured pin should be masked")
	}
	if entry&RedirTriggerBit == 0 {
		t.Errorf("level trigger bit should be set")
	}
	if entry&RedirPolarityBit == 0 {
		t.Errorf("active-low polarity bit should be set")
	}
	if int(entry&RedirVectorMask) != pin.Slot() {
		t.Errorf("vector field should equal the bound slot, got %d want %d", entry&RedirVectorMask, pin.Slot())
	}

	pin.Mask(false)
	entry = c.readReg(redirReg(pin.index))
	if entry&RedirMaskBit != 0 {
		t.Errorf("pin should be unmasked after Mask(false)")
	}
}
