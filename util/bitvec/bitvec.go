/*
 * RV32 - Fixed-width bit vectors.
 *
 * Copyright 2025, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package bitvec provides fixed-width unsigned bit vectors with ranged
// access. Cache lines are stored as one vector holding the tag in the low
// bits followed by the line data, so the widest vector in use is a few
// hundred bits. A range read or write moves at most 64 bits at a time.
package bitvec

// Vec is a fixed-width bit vector stored little-endian in 64-bit limbs.
// The width is set at creation and never changes.
type Vec struct {
	width int
	limb  []uint64
}

// New returns a zeroed vector of the given width in bits.
func New(width int) Vec {
	return Vec{width: width, limb: make([]uint64, (width+63)/64)}
}

// Width returns the vector width in bits.
func (v Vec) Width() int {
	return v.width
}

// Bit returns bit i as 0 or 1.
func (v Vec) Bit(i int) uint64 {
	return (v.limb[i/64] >> (i % 64)) & 1
}

// SetBit sets bit i to the low bit of b.
func (v *Vec) SetBit(i int, b uint64) {
	if b&1 != 0 {
		v.limb[i/64] |= 1 << (i % 64)
	} else {
		v.limb[i/64] &^= 1 << (i % 64)
	}
}

// Range returns bits [hi:lo] inclusive, right justified. The range must
// not be wider than 64 bits.
func (v Vec) Range(hi, lo int) uint64 {
	n := hi - lo + 1
	idx := lo / 64
	off := lo % 64
	val := v.limb[idx] >> off
	if off+n > 64 {
		val |= v.limb[idx+1] << (64 - off)
	}
	if n < 64 {
		val &= (uint64(1) << n) - 1
	}
	return val
}

// SetRange replaces bits [hi:lo] inclusive with the low bits of val. The
// range must not be wider than 64 bits.
func (v *Vec) SetRange(hi, lo int, val uint64) {
	n := hi - lo + 1
	mask := ^uint64(0)
	if n < 64 {
		mask = (uint64(1) << n) - 1
	}
	val &= mask
	idx := lo / 64
	off := lo % 64
	v.limb[idx] = v.limb[idx]&^(mask<<off) | val<<off
	if off+n > 64 {
		rem := off + n - 64
		hiMask := (uint64(1) << rem) - 1
		v.limb[idx+1] = v.limb[idx+1]&^hiMask | val>>(64-off)
	}
}

// Clone returns an independent copy of the vector.
func (v Vec) Clone() Vec {
	n := Vec{width: v.width, limb: make([]uint64, len(v.limb))}
	copy(n.limb, v.limb)
	return n
}

// Zero clears every bit.
func (v *Vec) Zero() {
	for i := range v.limb {
		v.limb[i] = 0
	}
}
