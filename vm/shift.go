package vm

// execShiftImm executes SLLI/SRLI/SRAI. shamt has already been masked
// to the architecture's shift-amount width by the caller (5 bits for
// RV32, 6 for RV64); funct7 (its top 6 or 7 bits) selects arithmetic
// vs. logical right shift and rejects non-canonical encodings, per
// spec.md §4.7.
func execShiftImm[W Unsigned](a Arch[W], funct3 uint32, top uint32, rs1 W, shamt uint32) (W, error) {
	switch funct3 {
	case 0b001: // SLLI
		if top != 0x00 {
			return 0, newFaultf(0, 0, "non-canonical SLLI encoding (top bits 0x%X)", top)
		}
		return rs1 << shamt, nil
	case 0b101: // SRLI / SRAI
		arithmetic := uint32(0x20)
		if a.Width == Width64 {
			// shiftFields reports the full 6-bit funct6 (bits 26-31) in
			// 64-bit mode instead of funct7, so the arithmetic-shift bit
			// appears at 0x10, not 0x20.
			arithmetic = 0x10
		}
		switch top {
		case 0x00: // SRLI
			return rs1 >> shamt, nil
		case arithmetic: // SRAI
			return a.FromSigned(a.ToSigned(rs1) >> shamt), nil
		default:
			return 0, newFaultf(0, 0, "non-canonical SRLI/SRAI encoding (top bits 0x%X)", top)
		}
	default:
		return 0, newFaultf(0, 0, "unrecognized funct3 0x%X for shift-immediate", funct3)
	}
}
