package intr

import (
	"sync"

	"vkernel/kernel/kpanic"
	"vkernel/kernel/log"
	"vkernel/kernel/platform"
)

// IOController is one firmware-discovered I/O interrupt controller: a
// window of MMIO registers owning a contiguous range of global system
// interrupts. Register access is indirect — the index
// register at offset RegIndex selects which register the data window
// at RegData reads or writes — mirroring a real I/O APIC's
// reg_read/reg_write pair rather than a flat register file.
type IOController struct {
	mu      sync.Mutex
	mmio    platform.MMIO
	base    uintptr
	gsiBase int
	pins    []*Pin
	slots   *SlotTable
}

// NewIOController maps no memory itself — base is already a mapped,
// uncached virtual address supplied by the caller (NewIOControllersFromMADT)
// — and derives its pin count from the version register, then
// materializes a Pin for each one and appends it to c.pins.
func NewIOController(mmio platform.MMIO, base uintptr, gsiBase int, slots *SlotTable, name string) *IOController {
	c := &IOController{
		mmio:    mmio,
		base:    base,
		gsiBase: gsiBase,
		slots:   slots,
	}
	version := c.readReg(RegVersion)
	count := int((version>>16)&0xFF) + 1
	c.pins = make([]*Pin, count)
	for i := 0; i < count; i++ {
		c.pins[i] = &Pin{
			controller: c,
			index:      i,
			name:       name,
			slot:       -1,
		}
		c.mask(i, true)
	}
	return c
}

// GSIBase returns the first global system interrupt this controller
// owns.
func (c *IOController) GSIBase() int { return c.gsiBase }

// PinCount returns how many pins this controller owns.
func (c *IOController) PinCount() int { return len(c.pins) }

// Pin returns the index'th pin owned by this controller, or nil if out
// of range.
func (c *IOController) Pin(index int) *Pin {
	if index < 0 || index >= len(c.pins) {
		return nil
	}
	return c.pins[index]
}

// readReg and writeReg implement the write-index-then-access-data-window
// indirection real I/O APICs use for register access.
func (c *IOController) readReg(reg uint32) uint32 {
	c.mmio.Write32(c.base+RegIndex, reg)
	return c.mmio.Read32(c.base + RegData)
}

func (c *IOController) writeReg(reg uint32, value uint32) {
	c.mmio.Write32(c.base+RegIndex, reg)
	c.mmio.Write32(c.base+RegData, value)
}

func redirReg(index int) uint32 { return RegRedirBase + uint32(2*index) }

// maskPin and mask set or clear bit 16 of a pin's redirection entry
// without disturbing the rest of it.
func (c *IOController) maskPin(index int, masked bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mask(index, masked)
}

func (c *IOController) mask(index int, masked bool) {
	entry := c.readReg(redirReg(index))
	if masked {
		entry |= RedirMaskBit
	} else {
		entry &^= RedirMaskBit
	}
	c.writeReg(redirReg(index), entry)
}

// configurePin picks edge/level and polarity flags, acquires a free
// global slot for the pin's vector, and programs the redirection
// entry masked. It returns the trigger mode actually programmed.
func (c *IOController) configurePin(pin *Pin, level bool, activeLow bool) TriggerMode {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.mask(pin.index, true)

	var flags uint32
	mode := TriggerEdge
	if level {
		flags |= RedirTriggerBit
		mode = TriggerLevel
	}
	if activeLow {
		flags |= RedirPolarityBit
	}

	slotIndex := c.slots.Bind(pin)
	if slotIndex < 0 || slotIndex > RedirVectorMask {
		kpanic.Panic("configure pin: no usable slot", kpanic.ErrInvalidRedirection)
	}
	pin.slot = slotIndex

	entry := flags | RedirMaskBit | uint32(slotIndex)
	c.writeReg(redirReg(pin.index), entry)

	log.Debugf("intr: %s pin %d configured on slot %d (level=%v activeLow=%v)", pin.name, pin.index, slotIndex, level, activeLow)
	return mode
}

// eoiPin delegates to local, the caller's local controller. The I/O
// controller itself has no EOI register to write — acknowledgement is
// always local.
func (c *IOController) eoiPin(local *LocalController) {
	if local != nil {
		local.SubmitEOI()
	}
}
