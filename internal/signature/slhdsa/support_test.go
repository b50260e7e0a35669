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

import (
	"crypto/rand"
	"math/big"
	"slices"
	"testing"
)

func TestToInt(t *testing.T) {
	for _, tc := range []struct {
		in   []byte
		n    uint32
		want uint64
	}{
		{[]byte{}, 0, 0},
		{[]byte{0x01}, 1, 1},
		{[]byte{0x01, 0x02}, 2, 0x0102},
		{[]byte{0x01, 0x02, 0x03}, 2, 0x0102},
		{[]byte{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, 8, 0xffffffffffffffff},
	} {
		if got := toInt(tc.in, tc.n); got != tc.want {
			t.Errorf("toInt(%x, %d) = %#x, want %#x", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestPutToByte(t *testing.T) {
	dst := make([]byte, 3)
	putToByte(dst, 0x010203)
	if want := []byte{0x01, 0x02, 0x03}; !slices.Equal(dst, want) {
		t.Errorf("putToByte(0x010203) = %x, want %x", dst, want)
	}
	dst = make([]byte, 2)
	putToByte(dst, 0x010203)
	if want := []byte{0x02, 0x03}; !slices.Equal(dst, want) {
		t.Errorf("putToByte(0x010203) into 2 bytes = %x, want %x", dst, want)
	}
}

// base2bReference interprets the first ceil(outLen*b/8) bytes of x as a big
// endian integer and peels off outLen digits of b bits from the top.
func base2bReference(x []byte, b, outLen uint32) []uint32 {
	nBytes := (outLen*b + 7) / 8
	v := new(big.Int).SetBytes(x[:nBytes])
	v.Rsh(v, uint(nBytes*8-outLen*b))
	mask := big.NewInt(int64(1)<<b - 1)
	out := make([]uint32, outLen)
	for i := int(outLen) - 1; i >= 0; i-- {
		out[i] = uint32(new(big.Int).And(v, mask).Uint64())
		v.Rsh(v, uint(b))
	}
	return out
}

func TestBase2bMatchesBigInt(t *testing.T) {
	x := make([]byte, 64)
	rand.Read(x)
	for b := uint32(1); b <= 24; b++ {
		for _, outLen := range []uint32{1, 3, 14, 17} {
			if (outLen*b+7)/8 > uint32(len(x)) {
				continue
			}
			got := base2b(x, b, outLen)
			want := base2bReference(x, b, outLen)
			if !slices.Equal(got, want) {
				t.Errorf("base2b(x, %d, %d) = %v, want %v", b, outLen, got, want)
			}
		}
	}
}

func TestBase2bReadsOnlyNeededBytes(t *testing.T) {
	// 3 digits of 4 bits need 2 bytes; the slice is exactly that long.
	got := base2b([]byte{0xab, 0xcd}, 4, 3)
	if want := []uint32{0xa, 0xb, 0xc}; !slices.Equal(got, want) {
		t.Errorf("base2b(abcd, 4, 3) = %v, want %v", got, want)
	}
}

func TestLowBits(t *testing.T) {
	for _, tc := range []struct {
		x    uint64
		w    uint32
		want uint64
	}{
		{0xffffffffffffffff, 0, 0},
		{0xffffffffffffffff, 3, 0x7},
		{0x1234, 8, 0x34},
		{0xffffffffffffffff, 63, 0x7fffffffffffffff},
		{0xffffffffffffffff, 64, 0xffffffffffffffff},
	} {
		if got := lowBits(tc.x, tc.w); got != tc.want {
			t.Errorf("lowBits(%#x, %d) = %#x, want %#x", tc.x, tc.w, got, tc.want)
		}
	}
}

func TestWipe(t *testing.T) {
	a := []byte{1, 2, 3}
	b := []byte{4, 5}
	wipe(a, b, nil)
	if !slices.Equal(a, []byte{0, 0, 0}) || !slices.Equal(b, []byte{0, 0}) {
		t.Errorf("wipe() left %x, %x, want all zero", a, b)
	}
}
