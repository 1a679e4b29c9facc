package intr

import (
	"encoding/binary"
	"testing"
)

// buildMADT constructs the MADT binary layout parseMADT expects:
// an 8-byte header the parser skips, then a sequence of
// [type, length, payload...] records. It mirrors how a real firmware
// table would arrive as a raw byte blob rather than a pre-parsed Go
// struct.
func buildMADT(records ...[]byte) []byte {
	buf := make([]byte, madtHeaderLen)
	for _, r := range records {
		buf = append(buf, r...)
	}
	return buf
}

// ioControllerRecord builds a type-1 record: [type, length, id,
// reserved, mmio_base u32 LE, gsi_base u32 LE].
func ioControllerRecord(id uint8, mmioBase, gsiBase uint32) []byte {
	rec := make([]byte, 12)
	rec[0] = 1
	rec[1] = 12
	rec[2] = id
	rec[3] = 0
	binary.LittleEndian.PutUint32(rec[4:8], mmioBase)
	binary.LittleEndian.PutUint32(rec[8:12], gsiBase)
	return rec
}

func unknownRecord(recType byte, payloadLen int) []byte {
	rec := make([]byte, 2+payloadLen)
	rec[0] = recType
	rec[1] = byte(2 + payloadLen)
	return rec
}

func TestParseMADTDecodesIOControllers(t *testing.T) {
	table := buildMADT(
		ioControllerRecord(0, 0xFEC00000, 0),
		unknownRecord(2, 4),
		ioControllerRecord(1, 0xFEC01000, 24),
	)

	got := parseMADT(table)
	if len(got) != 2 {
		t.Fatalf("expected 2 I/O controller records, got %d", len(got))
	}
	if got[0].id != 0 || got[0].mmioBase != 0xFEC00000 || got[0].gsiBase != 0 {
		t.Errorf("record 0 mismatch: %+v", got[0])
	}
	if got[1].id != 1 || got[1].mmioBase != 0xFEC01000 || got[1].gsiBase != 24 {
		t.Errorf("record 1 mismatch: %+v", got[1])
	}
}

func TestParseMADTStopsOnOverlongRecord(t *testing.T) {
	valid := ioControllerRecord(0, 0xFEC00000, 0)
	truncated := []byte{1, 20} // claims length 20 but has no payload
	table := buildMADT(valid, truncated)

	got := parseMADT(table)
	if len(got) != 1 {
		t.Fatalf("expected the scan to stop at the overlong record, got %d records", len(got))
	}
}

func TestParseMADTTreatsShortLengthAsTwo(t *testing.T) {
	// A record with length < 2 must still make progress (treated as
	// length 2) rather than looping forever.
	zeroLen := []byte{9, 0}
	valid := ioControllerRecord(0, 0xFEC00000, 16)
	table := buildMADT(zeroLen, valid)

	got := parseMADT(table)
	if len(got) != 1 {
		t.Fatalf("expected to recover and decode the following valid record, got %d", len(got))
	}
	if got[0].gsiBase != 16 {
		t.Errorf("expected gsiBase 16, got %d", got[0].gsiBase)
	}
}

func TestParseMADTEmptyTable(t *testing.T) {
	if got := parseMADT(nil); len(got) != 0 {
		t.Errorf("expected no records from a nil table, got %d", len(got))
	}
	if got := parseMADT(make([]byte, madtHeaderLen)); len(got) != 0 {
		t.Errorf("expected no records from a header-only table, got %d", len(got))
	}
}
