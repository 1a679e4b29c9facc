package intr

// Router is the top-level view the rest of the kernel sees of the
// interrupt substrate: the global slot table plus every I/O
// controller discovered at boot, addressable by global system
// interrupt number.
type Router struct {
	Slots       *SlotTable
	Controllers []*IOController
}

// PinByGSI finds the pin owning global system interrupt gsi, or nil if
// no controller's range covers it. Invariant: controller
// ranges never overlap, so at most one match exists.
func (r *Router) PinByGSI(gsi int) *Pin {
	for _, c := range r.Controllers {
		if gsi >= c.gsiBase && gsi < c.gsiBase+c.PinCount() {
			return c.Pin(gsi - c.gsiBase)
		}
	}
	return nil
}
