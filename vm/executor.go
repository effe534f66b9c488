package vm

// Engine is the width-erased interface the rest of the program
// (debugger, cmd/rvi) drives the interpreter through, so
// callers need not be generic over W themselves (spec.md's "step
// dispatcher" component, C7).
type Engine interface {
	Step() error
	PC() uint64
	SetPC(uint64)
	Memory() *Memory
	Cycles() uint64
}

// VM is the generic instruction-level interpreter: the decoder,
// register files, memory, and the Arch capability set bound together
// with a fetch-decode-execute Step method. NewVM32/NewVM64 bind the
// two concrete instantiations spec.md's design notes call for.
type VM[W Unsigned] struct {
	arch Arch[W]
	mem  *Memory
	ints IntRegisters[W]
	csrs CSRFile[W]
	fp   FloatRegisters
	pc   W
	tick uint64
}

// NewVM32 constructs an RV32 interpreter over mem.
func NewVM32(mem *Memory) *VM[uint32] {
	return &VM[uint32]{arch: NewArch32(), mem: mem}
}

// NewVM64 constructs an RV64 interpreter over mem.
func NewVM64(mem *Memory) *VM[uint64] {
	return &VM[uint64]{arch: NewArch64(), mem: mem}
}

func (v *VM[W]) PC() uint64          { return uint64(v.pc) }
func (v *VM[W]) SetPC(pc uint64)     { v.pc = W(pc) }
func (v *VM[W]) Memory() *Memory     { return v.mem }
func (v *VM[W]) Cycles() uint64      { return v.tick }
func (v *VM[W]) IntRegister(i int) W { return v.ints.Fetch(i) }
func (v *VM[W]) SetIntRegister(i int, value W) {
	v.ints.Set(i, value)
}
func (v *VM[W]) FloatRegister(i int) uint32           { return v.fp.Fetch(i) }
func (v *VM[W]) SetFloatRegister(i int, value uint32) { v.fp.Set(i, value) }
func (v *VM[W]) CSR(addr uint16) W                    { return v.csrs.Fetch(addr) }

// IntRegisterValue and CSRValue give width-erased uint64 views of the
// integer register file and CSR file, for callers (debugger, CLI
// inspection commands) that are not themselves generic over W.
func (v *VM[W]) IntRegisterValue(i int) uint64 { return uint64(v.ints.Fetch(i)) }
func (v *VM[W]) CSRValue(addr uint16) uint64   { return uint64(v.csrs.Fetch(addr)) }

// Step fetches, decodes, and executes exactly one instruction,
// advancing pc and incrementing the cycle counter. It returns a
// *Fault on any decode or access failure; the engine performs no
// recovery of its own (spec.md §7).
func (v *VM[W]) Step() error {
	startPC := uint64(v.pc)
	word, err := v.fetch(startPC)
	if err != nil {
		return err
	}
	inst := Inst(word)
	v.tick++

	nextPC := startPC + 4
	if err := v.execute(inst, startPC, &nextPC); err != nil {
		return err
	}
	v.pc = W(nextPC)
	return nil
}

func (v *VM[W]) fetch(pc uint64) (uint32, error) {
	word, err := v.mem.ReadWord(pc)
	if err != nil {
		return 0, newFaultf(pc, 0, "instruction fetch failed: %v", err)
	}
	return word, nil
}

// execute dispatches on opcode per spec.md §4.7's table, mutating
// register/CSR/memory state and *nextPC in place. Instructions that
// do not alter control flow leave *nextPC as pc+4.
func (v *VM[W]) execute(inst Inst, pc uint64, nextPC *uint64) error {
	word := inst.word()
	switch inst.Opcode() {
	case opLUI:
		if err := v.setRdRequired(inst, execLUI(v.arch, inst.ImmU())); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opAUIPC:
		if err := v.setRdRequired(inst, v.arch.FromSigned(int64(execAUIPC(pc, inst.ImmU())))); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opJAL:
		target := execJAL(pc, inst.ImmJ())
		v.setRd(inst, v.arch.FromSigned(int64(pc+4)))
		*nextPC = target
		return nil

	case opJALR:
		rs1 := v.ints.Fetch(inst.Rs1())
		target := execJALR(v.arch, rs1, inst.ImmI())
		v.setRd(inst, v.arch.FromSigned(int64(pc+4)))
		*nextPC = target
		return nil

	case opBranch:
		rs1, rs2 := v.ints.Fetch(inst.Rs1()), v.ints.Fetch(inst.Rs2())
		taken, err := execBranch(v.arch, inst.Funct3(), rs1, rs2)
		if err != nil {
			return withPC(err, pc, word)
		}
		if taken {
			*nextPC = uint64(int64(pc) + inst.ImmB())
		}
		return nil

	case opLoad:
		addr := uint64(v.arch.ToSigned(v.ints.Fetch(inst.Rs1())) + inst.ImmI())
		if err := v.rejectWideOnRV32(inst.Funct3()); err != nil {
			return withPC(err, pc, word)
		}
		result, err := execLoad(v.arch, v.mem, inst.Funct3(), addr)
		if err != nil {
			return withPC(err, pc, word)
		}
		if err := v.setRdRequired(inst, result); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opStore:
		addr := uint64(v.arch.ToSigned(v.ints.Fetch(inst.Rs1())) + inst.ImmS())
		rs2 := v.ints.Fetch(inst.Rs2())
		if err := v.rejectWideOnRV32(inst.Funct3()); err != nil {
			return withPC(err, pc, word)
		}
		if err := execStore(v.mem, inst.Funct3(), addr, rs2); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opOpImm:
		rs1 := v.ints.Fetch(inst.Rs1())
		if inst.Funct3() == 0b001 || inst.Funct3() == 0b101 {
			top, shamt := v.shiftFields(inst)
			result, err := execShiftImm(v.arch, inst.Funct3(), top, rs1, shamt)
			if err != nil {
				return withPC(err, pc, word)
			}
			if err := v.setRdRequired(inst, result); err != nil {
				return withPC(err, pc, word)
			}
			return nil
		}
		result, err := execMathImm(v.arch, inst.Funct3(), rs1, inst.ImmI())
		if err != nil {
			return withPC(err, pc, word)
		}
		if err := v.setRdRequired(inst, result); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opOp:
		rs1, rs2 := v.ints.Fetch(inst.Rs1()), v.ints.Fetch(inst.Rs2())
		result, err := execMath(v.arch, inst.Funct3(), inst.Funct7(), rs1, rs2)
		if err != nil {
			return withPC(err, pc, word)
		}
		if err := v.setRdRequired(inst, result); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opOpImm32:
		if v.arch.Width != Width64 {
			return withPC(newFaultf(0, 0, "OP-IMM-32 is unavailable outside 64-bit mode"), pc, word)
		}
		rs1 := uint64(v.ints.Fetch(inst.Rs1()))
		if inst.Funct3() == 0b001 || inst.Funct3() == 0b101 {
			top := inst.Funct7()
			result, err := execShiftImm32(inst.Funct3(), top, uint32(rs1), inst.Shamt())
			if err != nil {
				return withPC(err, pc, word)
			}
			if err := v.setRdRequired(inst, v.arch.FromSigned(int64(result))); err != nil {
				return withPC(err, pc, word)
			}
			return nil
		}
		result := execOpImm32(rs1, inst.ImmI())
		if err := v.setRdRequired(inst, v.arch.FromSigned(int64(result))); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opOp32:
		if v.arch.Width != Width64 {
			return withPC(newFaultf(0, 0, "OP-32 is unavailable outside 64-bit mode"), pc, word)
		}
		rs1, rs2 := uint64(v.ints.Fetch(inst.Rs1())), uint64(v.ints.Fetch(inst.Rs2()))
		result, err := execOp32(inst.Funct3(), inst.Funct7(), rs1, rs2)
		if err != nil {
			return withPC(err, pc, word)
		}
		if err := v.setRdRequired(inst, v.arch.FromSigned(int64(result))); err != nil {
			return withPC(err, pc, word)
		}
		return nil

	case opSystem:
		return v.executeSystem(inst, pc, word)

	case opOpFP, opLoadFP, opStoreFP, opMadd, opMsub, opNmsub, opNmadd:
		return v.executeFloat(inst, pc, word, nextPC)

	case opMiscMem:
		// FENCE family is unsupported: halt with a Fault rather than
		// simulate ordering, per the SYSTEM/FENCE resolution in
		// SPEC_FULL.md §14 (see also executeSystem below).
		return newFaultf(pc, word, "FENCE is not supported")

	default:
		return newFaultf(pc, word, "unrecognized opcode 0x%02X", inst.Opcode())
	}
}

// shiftFields splits an OP-IMM shift encoding into its validation
// "top bits" field and shift amount, sized per the active width.
func (v *VM[W]) shiftFields(inst Inst) (top uint32, shamt uint32) {
	if v.arch.Width == Width64 {
		return extractBits(inst.word(), 26, 31), inst.Shamt64()
	}
	return inst.Funct7(), inst.Shamt()
}

func (v *VM[W]) rejectWideOnRV32(funct3 uint32) error {
	if v.arch.Width == Width32 && (funct3 == 0b011 || funct3 == 0b110) {
		return newFaultf(0, 0, "LD/LWU/SD are unavailable outside 64-bit mode")
	}
	return nil
}

func (v *VM[W]) executeSystem(inst Inst, pc uint64, word uint32) error {
	funct3 := inst.Funct3()
	if funct3 == 0 {
		// ECALL/EBREAK/other funct3==0 SYSTEM encodings: unsupported,
		// per spec.md §9's resolved open question — halt with a Fault
		// rather than simulate a trap.
		return newFaultf(pc, word, "ECALL/EBREAK/privileged SYSTEM instructions are not supported")
	}
	addr := uint16(extractBits(inst.word(), 20, 31))
	rs1Index := inst.Rs1()
	var rs1Value W
	var sourceIsZero bool
	if funct3&0b100 != 0 {
		// Immediate forms: the 5-bit rs1 field is a zero-extended uimm.
		rs1Value = W(uint32(rs1Index))
		sourceIsZero = rs1Index == 0
	} else {
		rs1Value = v.ints.Fetch(rs1Index)
		sourceIsZero = rs1Index == 0
	}
	old, err := CSROp(&v.csrs, funct3, addr, rs1Value, sourceIsZero)
	if err != nil {
		return withPC(err, pc, word)
	}
	v.setRd(inst, old)
	return nil
}

func (v *VM[W]) setRd(inst Inst, value W) {
	if dst := v.ints.FetchMut(inst.Rd()); dst != nil {
		*dst = value
	}
}

// setRdRequired writes value to rd, but — per spec.md §9.6 — treats
// rd == x0 as an illegal encoding rather than a silently-discarded
// write, for the instruction groups (integer math, math-immediate,
// the 64-bit-only word variants, load, and LUI/AUIPC) where the source behavior
// this engine preserves rejects it outright.
func (v *VM[W]) setRdRequired(inst Inst, value W) error {
	if inst.Rd() == 0 {
		return newFault(0, 0, "destination register x0 is an illegal encoding for this instruction")
	}
	v.ints.Set(inst.Rd(), value)
	return nil
}

func withPC(err error, pc uint64, word uint32) error {
	if f, ok := err.(*Fault); ok {
		f.PC = pc
		f.Word = word
		return f
	}
	return newFaultf(pc, word, "%v", err)
}
