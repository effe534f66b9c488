package vm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func bitsOf(f float32) uint32 { return math.Float32bits(f) }

func TestFClassDistinguishesSignalingFromQuietNaN(t *testing.T) {
	quiet := uint32(0x7FC00000)
	signaling := uint32(0x7F800001)
	assert.Equal(t, uint32(fclassQuietNaN), FClass(quiet))
	assert.Equal(t, uint32(fclassSignalingNaN), FClass(signaling))
}

func TestFMinFMaxUseTotalOrdering(t *testing.T) {
	posNaN := uint32(0x7FC00000)
	negNaN := uint32(0xFFC00000)
	five := bitsOf(5.0)

	// A negative NaN sorts below every finite value under total
	// ordering, so fmin keeps it rather than falling back to the
	// non-NaN operand the way IEEE-754 minimumNumber would.
	assert.Equal(t, negNaN, FMin(negNaN, five))

	// A positive NaN sorts above every finite value, so fmax keeps it.
	assert.Equal(t, posNaN, FMax(five, posNaN))
}

func TestFEqFalseOnNaN(t *testing.T) {
	nan := uint32(0x7FC00000)
	assert.False(t, FEq(nan, nan))
}

func TestFCvtWSNaNConvertsToZero(t *testing.T) {
	nan := uint32(0x7FC00000)
	assert.Equal(t, int32(0), FCvtWS(nan))
}

func TestFCvtWSSaturates(t *testing.T) {
	huge := bitsOf(1e30)
	assert.Equal(t, int32(math.MaxInt32), FCvtWS(huge))
}

func TestFMSubIsNonFused(t *testing.T) {
	a, b, c := bitsOf(1.0000001), bitsOf(1.0000002), bitsOf(1.0)
	// Non-fused: the product rounds to float32 before the subtraction.
	assert.Equal(t, f32(a)*f32(b)-f32(c), f32(FMSub(a, b, c)))
}

func TestFSgnjFamily(t *testing.T) {
	pos := bitsOf(3.0)
	neg := bitsOf(-3.0)
	assert.Equal(t, neg, FSgnj(pos, neg))
	assert.Equal(t, pos, FSgnjn(pos, neg))
	assert.Equal(t, neg, FSgnjx(pos, neg))
}
