// Package half converts between float32 and IEEE 754 binary16, the HALF
// pixel type of OpenEXR files.
//
// A half has 1 sign bit, 5 exponent bits (bias 15) and 10 mantissa bits.
// Its finite range is about ±65504 and it carries roughly three decimal
// digits, which is ample for normalized [0,1] stimulus intensities.
package half

import "math"

// Half is a binary16 value stored in its bit pattern.
type Half uint16

const (
	signMask     = 0x8000
	exponentMask = 0x7C00
	mantissaMask = 0x03FF
)

// Well-known values.
const (
	Inf               Half = 0x7C00
	NegInf            Half = 0xFC00
	NaN               Half = 0x7E00
	Max               Half = 0x7BFF // 65504
	SmallestNormal    Half = 0x0400 // 2^-14
	SmallestSubnormal Half = 0x0001 // 2^-24
)

// float32 bit patterns for the conversion thresholds.
const (
	f32Inf         = 0x7F800000
	f32Overflow    = 0x477FF000 // 65520, halfway between Max and 2^16
	f32MinNormal   = 0x38800000 // 2^-14
	f32HalfMinSubn = 0x33000000 // 2^-25, halfway between 0 and 2^-24
)

// FromFloat32 rounds f to the nearest half, ties to even. Values beyond
// the finite range become ±Inf and NaN stays NaN.
func FromFloat32(f float32) Half {
	bits := math.Float32bits(f)
	sign := Half(bits>>16) & signMask
	abs := bits &^ 0x80000000

	switch {
	case abs > f32Inf:
		return sign | NaN | Half(abs>>13)&mantissaMask
	case abs >= f32Overflow:
		return sign | Inf
	case abs <= f32HalfMinSubn:
		return sign
	case abs < f32MinNormal:
		// Subnormal: count units of 2^-24.
		e := abs >> 23
		m := abs&0x7FFFFF | 0x800000
		shift := 126 - e
		return sign | Half(roundShift(m, shift))
	}

	h := (abs>>23-127+15)<<10 | (abs&0x7FFFFF)>>13
	rem := abs & 0x1FFF
	if rem > 0x1000 || (rem == 0x1000 && h&1 == 1) {
		// A carry out of the mantissa bumps the exponent, which is the
		// correctly rounded result.
		h++
	}
	return sign | Half(h)
}

// roundShift returns m >> shift rounded to nearest, ties to even.
func roundShift(m, shift uint32) uint32 {
	q := m >> shift
	rem := m & (1<<shift - 1)
	mid := uint32(1) << (shift - 1)
	if rem > mid || (rem == mid && q&1 == 1) {
		q++
	}
	return q
}

// Float32 returns h as a float32. The conversion is exact.
func (h Half) Float32() float32 {
	sign := uint32(h&signMask) << 16
	e := uint32(h&exponentMask) >> 10
	m := uint32(h & mantissaMask)

	switch e {
	case 0:
		f := float32(m) * (1.0 / (1 << 24))
		return math.Float32frombits(sign | math.Float32bits(f))
	case 0x1F:
		return math.Float32frombits(sign | f32Inf | m<<13)
	}
	return math.Float32frombits(sign | (e+127-15)<<23 | m<<13)
}

// Float64 returns h as a float64.
func (h Half) Float64() float64 { return float64(h.Float32()) }

// IsNaN reports whether h is a NaN.
func (h Half) IsNaN() bool {
	return h&exponentMask == exponentMask && h&mantissaMask != 0
}

// IsInf reports whether h is an infinity of either sign.
func (h Half) IsInf() bool { return h&^signMask == Inf }

// Bits returns the binary16 bit pattern.
func (h Half) Bits() uint16 { return uint16(h) }

// FromBits returns the half with bit pattern b.
func FromBits(b uint16) Half { return Half(b) }

// FromFloat32Slice converts src element-wise into dst, which must be at
// least as long as src.
func FromFloat32Slice(dst []Half, src []float32) {
	_ = dst[:len(src)]
	for i, f := range src {
		dst[i] = FromFloat32(f)
	}
}

// ToFloat32Slice converts src element-wise into dst, which must be at
// least as long as src.
func ToFloat32Slice(dst []float32, src []Half) {
	_ = dst[:len(src)]
	for i, h := range src {
		dst[i] = h.Float32()
	}
}
