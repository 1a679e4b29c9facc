package hosted

import "sync"

// Firmware implements platform.Firmware over an in-memory table set, so
// tests can hand the interrupt substrate a byte-exact MADT without a
// real ACPI stack.
type Firmware struct {
	mu     sync.Mutex
	tables map[string][]byte
}

func NewFirmware() *Firmware {
	return &Firmware{tables: make(map[string][]byte)}
}

// SetTable installs or replaces a named table.
func (f *Firmware) SetTable(name string, data []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tables[name] = data
}

func (f *Firmware) GetTable(name string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tables[name]
}
