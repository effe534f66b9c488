package vm

// execLoad performs a LOAD (LB/LBU/LH/LHU/LW/LWU/LD) from mem at
// address addr, returning the sign- or zero-extended value to write
// to rd. LWU and LD are only reachable in 64-bit mode; the executor
// is responsible for rejecting them in 32-bit mode.
func execLoad[W Unsigned](a Arch[W], mem *Memory, funct3 uint32, addr uint64) (W, error) {
	switch funct3 {
	case 0b000: // LB
		v, err := mem.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		return a.FromSigned(int64(int8(v))), nil
	case 0b001: // LH
		v, err := mem.ReadHalfword(addr)
		if err != nil {
			return 0, err
		}
		return a.FromSigned(int64(int16(v))), nil
	case 0b010: // LW
		v, err := mem.ReadWord(addr)
		if err != nil {
			return 0, err
		}
		return a.FromSigned(int64(int32(v))), nil
	case 0b011: // LD (RV64 only)
		v, err := mem.ReadDoubleword(addr)
		if err != nil {
			return 0, err
		}
		return W(v), nil
	case 0b100: // LBU
		v, err := mem.ReadByte(addr)
		if err != nil {
			return 0, err
		}
		return W(v), nil
	case 0b101: // LHU
		v, err := mem.ReadHalfword(addr)
		if err != nil {
			return 0, err
		}
		return W(v), nil
	case 0b110: // LWU (RV64 only)
		v, err := mem.ReadWord(addr)
		if err != nil {
			return 0, err
		}
		return W(v), nil
	default:
		return 0, newFaultf(0, 0, "unrecognized funct3 0x%X for LOAD", funct3)
	}
}

// execStore performs a STORE (SB/SH/SW/SD) of rs2's value to mem at
// address addr.
func execStore[W Unsigned](mem *Memory, funct3 uint32, addr uint64, rs2 W) error {
	switch funct3 {
	case 0b000: // SB
		return mem.WriteByte(addr, byte(rs2))
	case 0b001: // SH
		return mem.WriteHalfword(addr, uint16(rs2))
	case 0b010: // SW
		return mem.WriteWord(addr, uint32(rs2))
	case 0b011: // SD (RV64 only)
		return mem.WriteDoubleword(addr, uint64(rs2))
	default:
		return newFaultf(0, 0, "unrecognized funct3 0x%X for STORE", funct3)
	}
}
