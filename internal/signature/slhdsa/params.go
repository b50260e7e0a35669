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

import "math/bits"

// ParameterSet is one of the twelve SLH-DSA parameter sets of Table 2 of
// FIPS 205. Every width used by the algorithms is derived from it.
type ParameterSet struct {
	name string

	// Table 2 parameters. Note that h = d * hp.
	n   uint32
	h   uint32
	d   uint32
	hp  uint32
	a   uint32
	k   uint32
	lgw uint32
	m   uint32

	// Derived by Algorithm 1 and Equations 5.1 to 5.4.
	w    uint32
	len1 uint32
	len2 uint32
	len  uint32

	// Byte widths of the three parts of the message digest, see lines 11 to 13
	// of Algorithm 19. They must add up to m.
	mdLen      uint32
	treeIdxLen uint32
	leafIdxLen uint32

	hash hashSuite
}

type paramsOpts struct {
	n   uint32
	h   uint32
	d   uint32
	hp  uint32
	a   uint32
	k   uint32
	lgw uint32
	m   uint32
	// Digest split widths as listed alongside Table 2.
	mdLen      uint32
	treeIdxLen uint32
	leafIdxLen uint32
}

type hashFamily int

const (
	familySHA2 hashFamily = iota
	familySHAKE
)

func newParameterSet(name string, par paramsOpts, family hashFamily) *ParameterSet {
	if par.d*par.hp != par.h || par.mdLen+par.treeIdxLen+par.leafIdxLen != par.m || par.h-par.hp > 64 {
		panic("slhdsa: inconsistent parameter set " + name)
	}
	w := uint32(1) << par.lgw
	len1 := (8*par.n + par.lgw - 1) / par.lgw
	len2 := uint32(bits.Len32(len1*(w-1))-1)/par.lgw + 1
	p := &ParameterSet{
		name:       name,
		n:          par.n,
		h:          par.h,
		d:          par.d,
		hp:         par.hp,
		a:          par.a,
		k:          par.k,
		lgw:        par.lgw,
		m:          par.m,
		w:          w,
		len1:       len1,
		len2:       len2,
		len:        len1 + len2,
		mdLen:      par.mdLen,
		treeIdxLen: par.treeIdxLen,
		leafIdxLen: par.leafIdxLen,
	}
	switch family {
	case familySHAKE:
		p.hash = &shakeSuite{n: par.n, m: par.m}
	default:
		p.hash = newSHA2Suite(par.n, par.m)
	}
	return p
}

// Name returns the name of the parameter set, e.g. "SLH-DSA-SHAKE-128f".
func (p *ParameterSet) Name() string { return p.name }

// String implements fmt.Stringer.
func (p *ParameterSet) String() string { return p.name }

// N returns the security parameter n in bytes.
func (p *ParameterSet) N() int { return int(p.n) }

// PublicKeyLength returns the length of an encoded public key.
func (p *ParameterSet) PublicKeyLength() int { return int(2 * p.n) }

// SecretKeyLength returns the length of an encoded secret key.
func (p *ParameterSet) SecretKeyLength() int { return int(4 * p.n) }

// SignatureLength returns the length of an encoded signature.
func (p *ParameterSet) SignatureLength() int {
	return int(p.n + p.forsSignatureLength() + p.htSignatureLength())
}

func (p *ParameterSet) wotsSignatureLength() uint32 { return p.len * p.n }

func (p *ParameterSet) xmssSignatureLength() uint32 { return (p.len + p.hp) * p.n }

func (p *ParameterSet) forsSignatureLength() uint32 { return p.k * (p.a + 1) * p.n }

func (p *ParameterSet) htSignatureLength() uint32 { return p.d * p.xmssSignatureLength() }

// Parameters of Table 2 of FIPS 205.
var (
	param128s = paramsOpts{n: 16, h: 63, d: 7, hp: 9, a: 12, k: 14, lgw: 4, m: 30, mdLen: 21, treeIdxLen: 7, leafIdxLen: 2}
	param128f = paramsOpts{n: 16, h: 66, d: 22, hp: 3, a: 6, k: 33, lgw: 4, m: 34, mdLen: 25, treeIdxLen: 8, leafIdxLen: 1}
	param192s = paramsOpts{n: 24, h: 63, d: 7, hp: 9, a: 14, k: 17, lgw: 4, m: 39, mdLen: 30, treeIdxLen: 7, leafIdxLen: 2}
	param192f = paramsOpts{n: 24, h: 66, d: 22, hp: 3, a: 8, k: 33, lgw: 4, m: 42, mdLen: 33, treeIdxLen: 8, leafIdxLen: 1}
	param256s = paramsOpts{n: 32, h: 64, d: 8, hp: 8, a: 14, k: 22, lgw: 4, m: 47, mdLen: 39, treeIdxLen: 7, leafIdxLen: 1}
	param256f = paramsOpts{n: 32, h: 68, d: 17, hp: 4, a: 9, k: 35, lgw: 4, m: 49, mdLen: 40, treeIdxLen: 8, leafIdxLen: 1}
)

// Matching parameter set names as in Table 2 of FIPS 205.
var (
	// SLH_DSA_SHA2_128s defines parameters for SLH-DSA-SHA2-128s.
	SLH_DSA_SHA2_128s = newParameterSet("SLH-DSA-SHA2-128s", param128s, familySHA2)
	// SLH_DSA_SHAKE_128s defines parameters for SLH-DSA-SHAKE-128s.
	SLH_DSA_SHAKE_128s = newParameterSet("SLH-DSA-SHAKE-128s", param128s, familySHAKE)
	// SLH_DSA_SHA2_128f defines parameters for SLH-DSA-SHA2-128f.
	SLH_DSA_SHA2_128f = newParameterSet("SLH-DSA-SHA2-128f", param128f, familySHA2)
	// SLH_DSA_SHAKE_128f defines parameters for SLH-DSA-SHAKE-128f.
	SLH_DSA_SHAKE_128f = newParameterSet("SLH-DSA-SHAKE-128f", param128f, familySHAKE)
	// SLH_DSA_SHA2_192s defines parameters for SLH-DSA-SHA2-192s.
	SLH_DSA_SHA2_192s = newParameterSet("SLH-DSA-SHA2-192s", param192s, familySHA2)
	// SLH_DSA_SHAKE_192s defines parameters for SLH-DSA-SHAKE-192s.
	SLH_DSA_SHAKE_192s = newParameterSet("SLH-DSA-SHAKE-192s", param192s, familySHAKE)
	// SLH_DSA_SHA2_192f defines parameters for SLH-DSA-SHA2-192f.
	SLH_DSA_SHA2_192f = newParameterSet("SLH-DSA-SHA2-192f", param192f, familySHA2)
	// SLH_DSA_SHAKE_192f defines parameters for SLH-DSA-SHAKE-192f.
	SLH_DSA_SHAKE_192f = newParameterSet("SLH-DSA-SHAKE-192f", param192f, familySHAKE)
	// SLH_DSA_SHA2_256s defines parameters for SLH-DSA-SHA2-256s.
	SLH_DSA_SHA2_256s = newParameterSet("SLH-DSA-SHA2-256s", param256s, familySHA2)
	// SLH_DSA_SHAKE_256s defines parameters for SLH-DSA-SHAKE-256s.
	SLH_DSA_SHAKE_256s = newParameterSet("SLH-DSA-SHAKE-256s", param256s, familySHAKE)
	// SLH_DSA_SHA2_256f defines parameters for SLH-DSA-SHA2-256f.
	SLH_DSA_SHA2_256f = newParameterSet("SLH-DSA-SHA2-256f", param256f, familySHA2)
	// SLH_DSA_SHAKE_256f defines parameters for SLH-DSA-SHAKE-256f.
	SLH_DSA_SHAKE_256f = newParameterSet("SLH-DSA-SHAKE-256f", param256f, familySHAKE)
)

var allParameterSets = []*ParameterSet{
	SLH_DSA_SHA2_128s, SLH_DSA_SHAKE_128s,
	SLH_DSA_SHA2_128f, SLH_DSA_SHAKE_128f,
	SLH_DSA_SHA2_192s, SLH_DSA_SHAKE_192s,
	SLH_DSA_SHA2_192f, SLH_DSA_SHAKE_192f,
	SLH_DSA_SHA2_256s, SLH_DSA_SHAKE_256s,
	SLH_DSA_SHA2_256f, SLH_DSA_SHAKE_256f,
}

// ParameterSets returns all supported parameter sets in the order of Table 2.
func ParameterSets() []*ParameterSet {
	return append([]*ParameterSet(nil), allParameterSets...)
}

// ParameterSetByName returns the parameter set with the given name.
func ParameterSetByName(name string) (*ParameterSet, bool) {
	for _, p := range allParameterSets {
		if p.name == name {
			return p, true
		}
	}
	return nil, false
}
