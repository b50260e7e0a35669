// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package slhdsa

// Algorithm 2 (toInt). n must be at most 8.
func toInt(x []byte, n uint32) uint64 {
	if len(x) < int(n) || n > 8 {
		panic("unreachable")
	}
	total := uint64(0)
	for _, b := range x[:n] {
		total = total<<8 | uint64(b)
	}
	return total
}

// Algorithm 3 (toByte), writing into dst which must be exactly n bytes.
func putToByte(dst []byte, x uint32) {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(x)
		x >>= 8
	}
}

// Algorithm 4 (base_{2^b}).
//
// Reads exactly ceil(outLen*b/8) bytes of x. Bits already emitted are cleared
// from the accumulator after every extraction, so only fewer than b+8 bits are
// ever held and b may be as large as 24 without overflowing.
func base2b(x []byte, b uint32, outLen uint32) []uint32 {
	if b == 0 || b > 24 || len(x) < int((outLen*b+7)/8) {
		panic("unreachable")
	}
	mask := uint32(1)<<b - 1
	out := make([]uint32, outLen)
	in := 0
	bits := uint32(0)
	total := uint32(0)
	for i := range out {
		for bits < b {
			total = total<<8 | uint32(x[in])
			in++
			bits += 8
		}
		bits -= b
		out[i] = (total >> bits) & mask
		total &= uint32(1)<<bits - 1
	}
	return out
}

// lowBits returns x mod 2^w for w in [0, 64].
func lowBits(x uint64, w uint32) uint64 {
	if w >= 64 {
		return x
	}
	return x & (uint64(1)<<w - 1)
}

// wipe overwrites secret material.
func wipe(bs ...[]byte) {
	for _, b := range bs {
		clear(b)
	}
}
