package loader

import (
	"bytes"
	"debug/elf"
	"fmt"
)

// Segment is a single loadable region of an executable image: place
// Bytes at PhysAddr, then leave MemSize-len(Bytes) further bytes zero
// (bss), per spec.md §6's loader contract.
type Segment struct {
	PhysAddr uint64
	Bytes    []byte
	MemSize  uint64
}

// Image is the loader's output: everything the engine needs to start
// running — an entry address and the segments to place in memory.
type Image struct {
	Entry    uint64
	Segments []Segment
	XLen     int // 32 or 64, inferred from the ELF class
}

// Load parses raw as an ELF executable and returns its entry address
// and loadable segments. Loader errors abort engine startup before any
// step runs (spec.md §6); this function performs no engine-side
// validation of its own (e.g. it does not check that the entry point
// or any segment actually fits within the engine's configured memory
// capacity — that is the caller's job once it knows the capacity).
func Load(raw []byte) (*Image, error) {
	f, err := elf.NewFile(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse executable: %w", err)
	}
	defer f.Close()

	if f.Machine != elf.EM_RISCV {
		return nil, fmt.Errorf("unsupported ELF machine type %s: expected RISC-V", f.Machine)
	}

	xlen := 32
	if f.Class == elf.ELFCLASS64 {
		xlen = 64
	}

	img := &Image{Entry: f.Entry, XLen: xlen}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}
		data := make([]byte, prog.Filesz)
		if _, err := prog.ReadAt(data, 0); err != nil {
			return nil, fmt.Errorf("failed to read segment at 0x%X: %w", prog.Vaddr, err)
		}
		img.Segments = append(img.Segments, Segment{
			PhysAddr: prog.Paddr,
			Bytes:    data,
			MemSize:  prog.Memsz,
		})
	}

	if len(img.Segments) == 0 {
		return nil, fmt.Errorf("executable has no PT_LOAD segments")
	}

	return img, nil
}

// PlaceInto writes every segment of img into mem, per spec.md §6:
// bytes beyond the file size up to the segment's memory size are left
// as whatever mem already held there (zero, for a freshly-allocated
// engine memory).
func (img *Image) PlaceInto(mem interface {
	LoadBytes(addr uint64, src []byte) error
}) error {
	for _, seg := range img.Segments {
		if err := mem.LoadBytes(seg.PhysAddr, seg.Bytes); err != nil {
			return fmt.Errorf("failed to place segment at 0x%X: %w", seg.PhysAddr, err)
		}
	}
	return nil
}
