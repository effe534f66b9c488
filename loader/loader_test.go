package loader

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"testing"
)

// buildMinimalELF64 constructs the smallest valid little-endian ELF64
// RISC-V executable with a single PT_LOAD segment carrying payload at
// virtual/physical address loadAddr, entry point entry.
func buildMinimalELF64(t *testing.T, loadAddr, entry uint64, payload []byte) []byte {
	t.Helper()

	const ehdrSize = 64
	const phdrSize = 56
	phoff := uint64(ehdrSize)
	dataOff := phoff + phdrSize

	var buf bytes.Buffer

	// e_ident
	buf.Write([]byte{0x7f, 'E', 'L', 'F', 2 /* ELFCLASS64 */, 1 /* little endian */, 1, 0})
	buf.Write(make([]byte, 8)) // padding

	le := binary.LittleEndian
	write16 := func(v uint16) { _ = binary.Write(&buf, le, v) }
	write32 := func(v uint32) { _ = binary.Write(&buf, le, v) }
	write64 := func(v uint64) { _ = binary.Write(&buf, le, v) }

	write16(uint16(elf.ET_EXEC)) // e_type
	write16(uint16(elf.EM_RISCV)) // e_machine
	write32(1)                  // e_version
	write64(entry)               // e_entry
	write64(phoff)               // e_phoff
	write64(0)                   // e_shoff
	write32(0)                   // e_flags
	write16(ehdrSize)             // e_ehsize
	write16(phdrSize)             // e_phentsize
	write16(1)                   // e_phnum
	write16(0)                   // e_shentsize
	write16(0)                   // e_shnum
	write16(0)                   // e_shstrndx

	// Program header (PT_LOAD)
	write32(uint32(elf.PT_LOAD))             // p_type
	write32(uint32(elf.PF_R | elf.PF_X))     // p_flags
	write64(dataOff)                         // p_offset
	write64(loadAddr)                        // p_vaddr
	write64(loadAddr)                        // p_paddr
	write64(uint64(len(payload)))            // p_filesz
	write64(uint64(len(payload)) + 16)       // p_memsz (extra bss)
	write64(4)                               // p_align

	buf.Write(payload)

	return buf.Bytes()
}

func TestLoadMinimalELF(t *testing.T) {
	payload := []byte{0x37, 0x16, 0x00, 0x00} // LUI x12, 0x1000
	raw := buildMinimalELF64(t, 0x1000, 0x1000, payload)

	img, err := Load(raw)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if img.Entry != 0x1000 {
		t.Errorf("expected entry 0x1000, got 0x%X", img.Entry)
	}
	if img.XLen != 64 {
		t.Errorf("expected XLen 64, got %d", img.XLen)
	}
	if len(img.Segments) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(img.Segments))
	}
	seg := img.Segments[0]
	if seg.PhysAddr != 0x1000 {
		t.Errorf("expected segment at 0x1000, got 0x%X", seg.PhysAddr)
	}
	if !bytes.Equal(seg.Bytes, payload) {
		t.Errorf("segment bytes mismatch: got %x", seg.Bytes)
	}
	if seg.MemSize != uint64(len(payload))+16 {
		t.Errorf("expected memsize %d, got %d", len(payload)+16, seg.MemSize)
	}
}

func TestLoadRejectsWrongMachine(t *testing.T) {
	raw := buildMinimalELF64(t, 0x1000, 0x1000, []byte{0, 0, 0, 0})
	// Corrupt e_machine (offset 18, 2 bytes) to something else (x86-64 = 62).
	binary.LittleEndian.PutUint16(raw[18:20], 62)

	if _, err := Load(raw); err == nil {
		t.Error("expected error for non-RISC-V ELF")
	}
}
