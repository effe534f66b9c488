package vm

// CSROp executes one of CSRRW/CSRRS/CSRRC/CSRRWI/CSRRSI/CSRRCI
// against csrs, returning the value to write to rd (the CSR's value
// before any modification). funct3 selects both the operation and
// whether the source is a register (rs1Value) or a 5-bit immediate
// (uimm, already zero-extended into rs1Value by the caller); the
// immediate forms are distinguished by the high bit of funct3.
//
// Per spec.md §4.5 / original_source/risky's ops/csr.rs: when the
// source operand is the zero register (CSRRW/CSRRS/CSRRC with
// rs1 == x0) or a zero immediate (CSRRWI/CSRRSI/CSRRCI with uimm ==
// 0), the write is suppressed — the read still happens, but CSRRS/
// CSRRC/CSRRSI/CSRRCI with a zero source become pure reads of a
// read-only CSR, while CSRRW/CSRRWI with rs1 == x0 read then discard
// the write. sourceIsZero tells CSROp which case applies.
func CSROp[W Unsigned](csrs *CSRFile[W], funct3 uint32, addr uint16, rs1Value W, sourceIsZero bool) (W, error) {
	old := csrs.Fetch(addr)
	if sourceIsZero {
		// Any of the six forms with a zero source: the write is fully
		// suppressed (not "write zero"), so a read-only CSR is still
		// legally readable and a writable one is left untouched.
		return old, nil
	}

	slot := csrs.FetchMut(addr)
	if slot == nil {
		return 0, newFaultf(0, 0, "write to read-only CSR 0x%X", addr)
	}

	switch funct3 & 0b011 {
	case 0b001: // CSRRW / CSRRWI
		*slot = rs1Value
	case 0b010: // CSRRS / CSRRSI
		*slot = old | rs1Value
	case 0b011: // CSRRC / CSRRCI
		*slot = old &^ rs1Value
	default:
		return 0, newFaultf(0, 0, "unrecognized funct3 0x%X for SYSTEM/CSR", funct3)
	}
	return old, nil
}
