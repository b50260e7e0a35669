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

// wotsSignature holds the len chain values revealed by a WOTS+ signature.
type wotsSignature [][]byte

// xmssSignature is a WOTS+ signature followed by the hp authentication path
// nodes of its leaf.
type xmssSignature struct {
	wots wotsSignature
	auth [][]byte
}

// hypertreeSignature holds one XMSS signature per layer, bottom layer first.
type hypertreeSignature []xmssSignature

// forsTreeSignature reveals one leaf secret of a FORS tree together with its
// authentication path.
type forsTreeSignature struct {
	sk   []byte
	auth [][]byte
}

type forsSignature []forsTreeSignature

// signature is the decoded form of an SLH-DSA signature, see Figure 17 of
// FIPS 205:
//
//	| R (n bytes) | SIG_FORS (k*(a+1)*n bytes) | SIG_HT ((h+d*len)*n bytes) |
type signature struct {
	r    []byte
	fors forsSignature
	ht   hypertreeSignature
}

// reader splits a byte slice into consecutive n-byte chunks. The chunks alias
// the input.
type reader struct {
	buf []byte
	n   uint32
}

func (r *reader) next() []byte {
	out := r.buf[:r.n:r.n]
	r.buf = r.buf[r.n:]
	return out
}

func (r *reader) nextN(count uint32) [][]byte {
	out := make([][]byte, count)
	for i := range out {
		out[i] = r.next()
	}
	return out
}

// parseSignature splits sig into its components. Its length must already
// have been checked against SignatureLength.
func (p *ParameterSet) parseSignature(sig []byte) signature {
	if len(sig) != p.SignatureLength() {
		panic("unreachable")
	}
	r := reader{buf: sig, n: p.n}
	out := signature{
		r:    r.next(),
		fors: make(forsSignature, p.k),
		ht:   make(hypertreeSignature, p.d),
	}
	for i := range out.fors {
		out.fors[i].sk = r.next()
		out.fors[i].auth = r.nextN(p.a)
	}
	for j := range out.ht {
		out.ht[j].wots = r.nextN(p.len)
		out.ht[j].auth = r.nextN(p.hp)
	}
	return out
}

// encode serializes s. The output is exactly SignatureLength bytes long.
func (p *ParameterSet) encode(s signature) []byte {
	out := make([]byte, 0, p.SignatureLength())
	out = append(out, s.r...)
	for _, t := range s.fors {
		out = append(out, t.sk...)
		for _, node := range t.auth {
			out = append(out, node...)
		}
	}
	for _, x := range s.ht {
		for _, v := range x.wots {
			out = append(out, v...)
		}
		for _, node := range x.auth {
			out = append(out, node...)
		}
	}
	if len(out) != p.SignatureLength() {
		panic("unreachable")
	}
	return out
}
