package vm

// executeFloat dispatches every float-register-touching opcode
// (LOAD-FP, STORE-FP, OP-FP, and the four fused multiply-add
// opcodes), per spec.md §4.6's FCVT/FMV/FCLASS encodings.
func (v *VM[W]) executeFloat(inst Inst, pc uint64, word uint32, nextPC *uint64) error {
	switch inst.Opcode() {
	case opLoadFP:
		return v.executeFLoad(inst, pc, word)
	case opStoreFP:
		return v.executeFStore(inst, pc, word)
	case opMadd:
		v.fp.Set(inst.Rd(), FMAdd(v.fp.Fetch(inst.Rs1()), v.fp.Fetch(inst.Rs2()), v.fp.Fetch(inst.Rs3())))
		return nil
	case opMsub:
		v.fp.Set(inst.Rd(), FMSub(v.fp.Fetch(inst.Rs1()), v.fp.Fetch(inst.Rs2()), v.fp.Fetch(inst.Rs3())))
		return nil
	case opNmsub:
		v.fp.Set(inst.Rd(), FNMSub(v.fp.Fetch(inst.Rs1()), v.fp.Fetch(inst.Rs2()), v.fp.Fetch(inst.Rs3())))
		return nil
	case opNmadd:
		v.fp.Set(inst.Rd(), FNMAdd(v.fp.Fetch(inst.Rs1()), v.fp.Fetch(inst.Rs2()), v.fp.Fetch(inst.Rs3())))
		return nil
	case opOpFP:
		return v.executeOpFP(inst, pc, word)
	default:
		return newFaultf(pc, word, "unrecognized float opcode 0x%02X", inst.Opcode())
	}
}

func (v *VM[W]) executeFLoad(inst Inst, pc uint64, word uint32) error {
	addr := uint64(v.arch.ToSigned(v.ints.Fetch(inst.Rs1())) + inst.ImmI())
	val, err := v.mem.ReadWord(addr)
	if err != nil {
		return withPC(err, pc, word)
	}
	v.fp.Set(inst.Rd(), val)
	return nil
}

func (v *VM[W]) executeFStore(inst Inst, pc uint64, word uint32) error {
	addr := uint64(v.arch.ToSigned(v.ints.Fetch(inst.Rs1())) + inst.ImmS())
	if err := v.mem.WriteWord(addr, v.fp.Fetch(inst.Rs2())); err != nil {
		return withPC(err, pc, word)
	}
	return nil
}

// Float OP-FP funct7 groups, per spec.md §4.6.
const (
	fpFAdd    = 0b0000000
	fpFSub    = 0b0000100
	fpFMul    = 0b0001000
	fpFDiv    = 0b0001100
	fpFSqrt   = 0b0101100
	fpFSgnj   = 0b0010000
	fpFMinMax = 0b0010100
	fpFCvtIF  = 0b1100000 // FCVT.W.S / FCVT.WU.S (float -> int)
	fpFCvtFI  = 0b1101000 // FCVT.S.W / FCVT.S.WU (int -> float)
	fpFMvXW   = 0b1110000 // FMV.X.W / FCLASS.S
	fpFCmp    = 0b1010000 // FEQ/FLT/FLE
	fpFMvWX   = 0b1111000
)

func (v *VM[W]) executeOpFP(inst Inst, pc uint64, word uint32) error {
	rs1, rs2 := v.fp.Fetch(inst.Rs1()), v.fp.Fetch(inst.Rs2())
	switch inst.Funct7() {
	case fpFAdd:
		v.fp.Set(inst.Rd(), FAdd(rs1, rs2))
	case fpFSub:
		v.fp.Set(inst.Rd(), FSub(rs1, rs2))
	case fpFMul:
		v.fp.Set(inst.Rd(), FMul(rs1, rs2))
	case fpFDiv:
		v.fp.Set(inst.Rd(), FDiv(rs1, rs2))
	case fpFSqrt:
		v.fp.Set(inst.Rd(), FSqrt(rs1))
	case fpFSgnj:
		switch inst.Funct3() {
		case 0b000:
			v.fp.Set(inst.Rd(), FSgnj(rs1, rs2))
		case 0b001:
			v.fp.Set(inst.Rd(), FSgnjn(rs1, rs2))
		case 0b010:
			v.fp.Set(inst.Rd(), FSgnjx(rs1, rs2))
		default:
			return newFaultf(pc, word, "unrecognized FSGNJ variant funct3 0x%X", inst.Funct3())
		}
	case fpFMinMax:
		switch inst.Funct3() {
		case 0b000:
			v.fp.Set(inst.Rd(), FMin(rs1, rs2))
		case 0b001:
			v.fp.Set(inst.Rd(), FMax(rs1, rs2))
		default:
			return newFaultf(pc, word, "unrecognized FMIN/FMAX variant funct3 0x%X", inst.Funct3())
		}
	case fpFCmp:
		var result bool
		switch inst.Funct3() {
		case 0b010:
			result = FEq(rs1, rs2)
		case 0b001:
			result = FLt(rs1, rs2)
		case 0b000:
			result = FLe(rs1, rs2)
		default:
			return newFaultf(pc, word, "unrecognized float compare funct3 0x%X", inst.Funct3())
		}
		if result {
			v.setRd(inst, 1)
		} else {
			v.setRd(inst, 0)
		}
	case fpFCvtIF:
		switch inst.Rs2() {
		case 0b00000: // FCVT.W.S
			v.setRd(inst, v.arch.FromSigned(int64(FCvtWS(rs1))))
		case 0b00001: // FCVT.WU.S
			v.setRd(inst, v.arch.FromSigned(int64(int32(FCvtWUS(rs1)))))
		default:
			return newFaultf(pc, word, "unrecognized FCVT.*.S variant rs2=0x%X", inst.Rs2())
		}
	case fpFCvtFI:
		src := v.ints.Fetch(inst.Rs1())
		switch inst.Rs2() {
		case 0b00000: // FCVT.S.W
			v.fp.Set(inst.Rd(), FCvtSW(int32(v.arch.ToSigned(src))))
		case 0b00001: // FCVT.S.WU
			v.fp.Set(inst.Rd(), FCvtSWU(uint32(src)))
		default:
			return newFaultf(pc, word, "unrecognized FCVT.S.* variant rs2=0x%X", inst.Rs2())
		}
	case fpFMvXW:
		switch inst.Funct3() {
		case 0b000: // FMV.X.W
			v.setRd(inst, v.arch.FromSigned(int64(int32(rs1))))
		case 0b001: // FCLASS.S
			v.setRd(inst, v.arch.FromSigned(int64(FClass(rs1))))
		default:
			return newFaultf(pc, word, "unrecognized FMV.X.W/FCLASS.S variant funct3 0x%X", inst.Funct3())
		}
	case fpFMvWX:
		v.fp.Set(inst.Rd(), uint32(v.ints.Fetch(inst.Rs1())))
	default:
		return newFaultf(pc, word, "unrecognized OP-FP funct7 0x%X", inst.Funct7())
	}
	return nil
}
