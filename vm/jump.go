package vm

// execJAL computes the target of a JAL: pc + imm. The link value
// (pc + instructionWidth) is computed by the caller alongside the
// other formats that need it.
func execJAL(pc uint64, imm int64) uint64 {
	return uint64(int64(pc) + imm)
}

// execJALR computes the target of a JALR: (rs1 + imm) with bit 0
// cleared, per spec.md §4.7.
func execJALR[W Unsigned](a Arch[W], rs1 W, imm int64) uint64 {
	target := a.ToSigned(rs1) + imm
	return uint64(target) &^ 1
}
