package intr

// Pin is a hardware interrupt input: a capability object binding a
// device's interrupt line to a slot through its owning controller's
// mask/eoi/configure operations. Configuration must
// precede unmasking — Pin does not enforce this itself (the caller,
// almost always boot-time device setup, is expected to call Configure
// before Mask(false)) but IOController.configurePin always leaves a
// freshly configured entry masked.
type Pin struct {
	controller *IOController
	index      int // index within the owning controller, 0-based
	name       string
	slot       int // assigned by Configure; -1 until then
}

// Name returns the pin's human-readable label.
func (p *Pin) Name() string { return p.name }

// Index returns the pin's index within its owning controller.
func (p *Pin) Index() int { return p.index }

// Slot returns the global slot index this pin was configured into, or
// -1 if Configure has not run yet.
func (p *Pin) Slot() int { return p.slot }

// Mask sets or clears the pin's mask bit.
func (p *Pin) Mask(masked bool) {
	p.controller.maskPin(p.index, masked)
}

// Configure chooses edge/level and polarity flags, binds a free global
// slot as the pin's vector, and programs the redirection entry. It
// returns the trigger mode that was actually programmed (callers pass
// the desired level/polarity; the controller echoes back what it
// wrote so a caller that only cares "edge or level" doesn't need to
// re-derive it). The pin is masked both before and after — unmasking
// is the caller's job once it has also registered a slot handler.
func (p *Pin) Configure(level bool, activeLow bool) TriggerMode {
	return p.controller.configurePin(p, level, activeLow)
}

// EOI delegates end-of-interrupt to the owning controller, which in
// turn delegates to local, the local controller of the CPU the
// handler is running on. There is no hidden "current
// CPU" — the caller, always a trap handler dispatched on a specific
// CPU, already knows which local controller that is.
func (p *Pin) EOI(local *LocalController) {
	p.controller.eoiPin(local)
}
