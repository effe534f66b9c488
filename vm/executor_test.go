package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVM32() *VM[uint32] {
	return NewVM32(NewMemory(1 << 16))
}

func step(t *testing.T, v *VM[uint32], word uint32) {
	t.Helper()
	require.NoError(t, v.mem.WriteWord(v.PC(), word))
	require.NoError(t, v.Step())
}

// Scenario 1: LUI into x12.
func TestLUI(t *testing.T) {
	v := newTestVM32()
	step(t, v, 0x00001637)
	assert.Equal(t, uint32(0x1000), v.IntRegister(12))
	assert.Equal(t, uint64(4), v.PC())
}

// Scenario 2: ADD x12, x13, x14.
func TestAdd(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(13, 100)
	v.SetIntRegister(14, 10)
	step(t, v, 0x00E68633)
	assert.Equal(t, uint32(110), v.IntRegister(12))
	assert.Equal(t, uint64(4), v.PC())
}

// Scenario 3: SRA x12, x13, x14.
func TestSRA(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(13, 0xFFFFFFFF)
	v.SetIntRegister(14, 4)
	step(t, v, 0x40E6D633)
	assert.Equal(t, uint32(0xFFFFFFFF), v.IntRegister(12))
}

// Scenario 4: BEQ taken.
func TestBranchTaken(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(12, 32)
	v.SetIntRegister(13, 32)
	step(t, v, 0x00D60263)
	assert.Equal(t, uint64(4), v.PC())
}

// Scenario 5: CSRRS with rs1 = x0 on a read-only CSR performs the
// read-side effect but leaves the CSR unchanged.
func TestCSRRSZeroSource(t *testing.T) {
	v := newTestVM32()
	// CSRRS x5, 0xC01, x0: imm[31:20]=0xC01, rs1=0, funct3=010, rd=5, opcode=SYSTEM.
	word := uint32(0xC01<<20) | uint32(0)<<15 | uint32(0b010)<<12 | uint32(5)<<7 | opSystem
	step(t, v, word)
	assert.Equal(t, uint32(0), v.IntRegister(5))
	assert.Equal(t, uint32(0), v.CSR(0xC01))
}

// Scenario 6: FADD.S.
func TestFAddS(t *testing.T) {
	v := newTestVM32()
	v.SetFloatRegister(13, math.Float32bits(1.2))
	v.SetFloatRegister(14, math.Float32bits(1.3))
	step(t, v, 0x00E68653)
	assert.Equal(t, math.Float32bits(float32(1.2)+float32(1.3)), v.FloatRegister(12))
}

func TestRegisterZeroAlwaysReadsZero(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(0, 42)
	assert.Equal(t, uint32(0), v.IntRegister(0))
}

func TestLoadStoreRoundTrip(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(10, 0x100)
	v.SetIntRegister(11, 0xDEADBEEF)
	// SW x11, 0(x10): imm=0, rs2=11, rs1=10, funct3=010, opcode=STORE.
	sw := uint32(0)<<25 | uint32(11)<<20 | uint32(10)<<15 | uint32(0b010)<<12 | uint32(0)<<7 | opStore
	step(t, v, sw)
	// LW x12, 0(x10).
	lw := uint32(0)<<20 | uint32(10)<<15 | uint32(0b010)<<12 | uint32(12)<<7 | opLoad
	step(t, v, lw)
	assert.Equal(t, uint32(0xDEADBEEF), v.IntRegister(12))
}

func TestDivideByZero(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(13, 10)
	v.SetIntRegister(14, 0)
	// DIV x12, x13, x14: funct7=0x01, funct3=100, opcode=OP.
	word := uint32(0x01)<<25 | uint32(14)<<20 | uint32(13)<<15 | uint32(0b100)<<12 | uint32(12)<<7 | opOp
	step(t, v, word)
	assert.Equal(t, uint32(0xFFFFFFFF), v.IntRegister(12))
}

func TestIllegalZeroDestinationOnMath(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(13, 1)
	v.SetIntRegister(14, 1)
	// ADD x0, x13, x14.
	word := uint32(0)<<25 | uint32(14)<<20 | uint32(13)<<15 | uint32(0)<<12 | uint32(0)<<7 | opOp
	err := func() error {
		require.NoError(t, v.mem.WriteWord(v.PC(), word))
		return v.Step()
	}()
	assert.Error(t, err)
	var fault *Fault
	assert.ErrorAs(t, err, &fault)
}

func TestJALRClearsLowBit(t *testing.T) {
	v := newTestVM32()
	v.SetIntRegister(13, 0x101)
	// JALR x1, 4(x13).
	word := uint32(4)<<20 | uint32(13)<<15 | uint32(0)<<12 | uint32(1)<<7 | opJALR
	step(t, v, word)
	assert.Equal(t, uint64(0x104), v.PC())
	assert.Equal(t, uint32(4), v.IntRegister(1))
}
