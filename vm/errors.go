package vm

import "fmt"

// Fault is the engine's single error kind (spec.md §7): every decode
// failure, unsupported encoding, and out-of-range memory access is
// reported the same way, carrying enough context to reconstruct what
// happened without the engine itself attempting recovery or trap
// delivery.
type Fault struct {
	PC     uint64
	Word   uint32
	Reason string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault at pc 0x%X (word 0x%08X): %s", f.PC, f.Word, f.Reason)
}

// newFault builds a Fault from a fixed reason string; newFaultf is its
// formatted counterpart.
func newFault(pc uint64, word uint32, reason string) *Fault {
	return &Fault{PC: pc, Word: word, Reason: reason}
}

func newFaultf(pc uint64, word uint32, format string, args ...any) *Fault {
	return &Fault{PC: pc, Word: word, Reason: fmt.Sprintf(format, args...)}
}
