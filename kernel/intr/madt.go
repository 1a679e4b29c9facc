package intr

import (
	"encoding/binary"

	"vkernel/kernel/kpanic"
	"vkernel/kernel/log"
	"vkernel/kernel/platform"
)

// madtHeaderLen is the size of the table header, which belongs to the
// caller (firmware table parser, out of scope here). The table handed
// to parseMADT still starts with it; we only skip it, never interpret it.
const madtHeaderLen = 8

// madtIOController is one decoded type-1 MADT record: an I/O
// controller's identity, MMIO base, and GSI base.
type madtIOController struct {
	id       uint8
	mmioBase uint32
	gsiBase  uint32
}

// parseMADT walks the record stream by its exact layout:
// each record is [type:u8, length:u8, payload: length-2 bytes]. Type 1
// records carry [id:u8, reserved:u8, mmio_base:u32 LE, gsi_base:u32 LE].
// Unknown types are skipped. A record whose length exceeds the
// remaining buffer terminates the scan. Records shorter than 2 are
// treated as length 2 to guarantee progress.
func parseMADT(table []byte) []madtIOController {
	var controllers []madtIOController
	if len(table) < madtHeaderLen {
		return controllers
	}
	buf := table[madtHeaderLen:]
	for len(buf) >= 2 {
		recType := buf[0]
		length := int(buf[1])
		if length < 2 {
			length = 2
		}
		if length > len(buf) {
			break
		}
		if recType == 1 && length >= 12 {
			payload := buf[2:length]
			controllers = append(controllers, madtIOController{
				id:       payload[0],
				mmioBase: binary.LittleEndian.Uint32(payload[2:6]),
				gsiBase:  binary.LittleEndian.Uint32(payload[6:10]),
			})
		}
		buf = buf[length:]
	}
	return controllers
}

// NewIOControllersFromMADT reads the "APIC" firmware table, parses it
// for type-1 records, maps each controller's MMIO window uncached
// into the higher half, and constructs an IOController for each,
// failing fatally if the table is absent.
func NewIOControllersFromMADT(fw platform.Firmware, mem platform.Memory, mmio platform.MMIO, slots *SlotTable) []*IOController {
	table := fw.GetTable("APIC")
	if table == nil {
		kpanic.Panic("MADT table not found", kpanic.ErrNoFirmwareTable)
	}

	records := parseMADT(table)
	controllers := make([]*IOController, 0, len(records))
	for _, rec := range records {
		phys := uintptr(rec.mmioBase)
		virt := mem.ToHigherHalf(phys)
		if err := mem.MapPage(platform.MapRead|platform.MapWrite, platform.CacheUncached, virt, phys, false); err != nil {
			kpanic.Panic("map I/O controller MMIO window", err)
		}
		name := "ioapic"
		ctrl := NewIOController(mmio, virt, int(rec.gsiBase), slots, name)
		log.Infof("intr: %s id=%d base=0x%x gsi_base=%d pins=%d", name, rec.id, rec.mmioBase, rec.gsiBase, ctrl.PinCount())
		controllers = append(controllers, ctrl)
	}
	return controllers
}
