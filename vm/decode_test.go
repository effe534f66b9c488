package vm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImmIDecode(t *testing.T) {
	cases := []struct {
		name string
		word uint32
		want int64
	}{
		{"positive", 0x00A00013, 10},
		{"negative", 0xFFF00013, -1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Inst(c.word).ImmI())
		})
	}
}

func TestImmBDecodeLowBitAlwaysZero(t *testing.T) {
	inst := Inst(0x00D60263)
	assert.Equal(t, int64(4), inst.ImmB())
	assert.Zero(t, inst.ImmB()&1)
}

func TestImmJDecode(t *testing.T) {
	// JAL x1, 0x1000.
	inst := Inst(0x000010EF)
	assert.Equal(t, int64(0x1000), inst.ImmJ())
}

func TestFieldExtraction(t *testing.T) {
	inst := Inst(0x00E68633)
	assert.Equal(t, uint32(opOp), inst.Opcode())
	assert.Equal(t, 12, inst.Rd())
	assert.Equal(t, 13, inst.Rs1())
	assert.Equal(t, 14, inst.Rs2())
	assert.Equal(t, uint32(0), inst.Funct3())
	assert.Equal(t, uint32(0), inst.Funct7())
}
