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

// Algorithm 5 (chain).
//
// Applies F steps times to x, starting at chain position start. x itself is
// left untouched and is returned as is when steps is zero; intermediate chain
// values are wiped once consumed.
func (p *ParameterSet) chain(x []byte, start, steps uint32, pkSeed []byte, adrs *wotsHashAddress) []byte {
	if start+steps > p.w-1 {
		panic("unreachable")
	}
	tmp := x
	for j := start; j < start+steps; j++ {
		adrs.setHash(j)
		next := p.hash.f(pkSeed, adrs.raw(), tmp)
		if j != start {
			wipe(tmp)
		}
		tmp = next
	}
	return tmp
}

// wotsDigits expands an n-byte message into len base-w digits: len1 message
// digits followed by len2 checksum digits.
func (p *ParameterSet) wotsDigits(msg []byte) []uint32 {
	digits := base2b(msg, p.lgw, p.len1)
	csum := uint32(0)
	for _, d := range digits {
		csum += p.w - 1 - d
	}
	// Left-align the checksum on a byte boundary; for lgw = 4 this is a shift by 4.
	csum <<= (8 - ((p.len2 * p.lgw) & 7)) & 7
	var buf [4]byte
	csumBytes := buf[:(p.len2*p.lgw+7)/8]
	putToByte(csumBytes, csum)
	return append(digits, base2b(csumBytes, p.lgw, p.len2)...)
}

// wotsSecret derives the secret starting value of chain i.
func (p *ParameterSet) wotsSecret(skSeed, pkSeed []byte, skAdrs *wotsPrfAddress, i uint32) []byte {
	skAdrs.setChain(i)
	return p.hash.prf(pkSeed, skSeed, skAdrs.raw())
}

// Algorithm 6 (wots_pkGen).
func (p *ParameterSet) wotsPkGen(skSeed, pkSeed []byte, adrs *wotsHashAddress) []byte {
	skAdrs := adrs.prfAddress()
	ends := make([]byte, 0, p.wotsSignatureLength())
	for i := range p.len {
		sk := p.wotsSecret(skSeed, pkSeed, &skAdrs, i)
		adrs.setChain(i)
		ends = append(ends, p.chain(sk, 0, p.w-1, pkSeed, adrs)...)
		wipe(sk)
	}
	pkAdrs := adrs.pkAddress()
	return p.hash.t(pkSeed, pkAdrs.raw(), ends)
}

// Algorithm 7 (wots_sign).
func (p *ParameterSet) wotsSign(msg, skSeed, pkSeed []byte, adrs *wotsHashAddress) wotsSignature {
	digits := p.wotsDigits(msg)
	skAdrs := adrs.prfAddress()
	sig := make(wotsSignature, p.len)
	for i := range p.len {
		sk := p.wotsSecret(skSeed, pkSeed, &skAdrs, i)
		adrs.setChain(i)
		sig[i] = p.chain(sk, 0, digits[i], pkSeed, adrs)
		if digits[i] != 0 {
			wipe(sk)
		}
	}
	return sig
}

// Algorithm 8 (wots_pkFromSig).
//
// Completes every chain from the revealed position to the top and compresses
// the chain ends. The result is a candidate public key; it is up to the caller
// to compare it or feed it into the next layer.
func (p *ParameterSet) wotsPkFromSig(sig wotsSignature, msg, pkSeed []byte, adrs *wotsHashAddress) []byte {
	if uint32(len(sig)) != p.len {
		panic("unreachable")
	}
	digits := p.wotsDigits(msg)
	ends := make([]byte, 0, p.wotsSignatureLength())
	for i := range p.len {
		adrs.setChain(i)
		ends = append(ends, p.chain(sig[i], digits[i], p.w-1-digits[i], pkSeed, adrs)...)
	}
	pkAdrs := adrs.pkAddress()
	return p.hash.t(pkSeed, pkAdrs.raw(), ends)
}
