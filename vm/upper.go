package vm

// execLUI materializes a LUI result: the U-type immediate, sign-
// extended to the full register width.
func execLUI[W Unsigned](a Arch[W], imm int64) W {
	return a.FromSigned(imm)
}

// execAUIPC materializes an AUIPC result: pc + the U-type immediate.
func execAUIPC(pc uint64, imm int64) uint64 {
	return uint64(int64(pc) + imm)
}
