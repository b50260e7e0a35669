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

// Algorithm 14 (fors_skGen).
func (p *ParameterSet) forsSkGen(skSeed, pkSeed []byte, adrs *forsTreeAddress, idx uint32) []byte {
	skAdrs := adrs.prfAddress(idx)
	return p.hash.prf(pkSeed, skSeed, skAdrs.raw())
}

func (p *ParameterSet) forsLeaf(skSeed, pkSeed []byte, adrs *forsTreeAddress) func(i uint32) []byte {
	return func(i uint32) []byte {
		sk := p.forsSkGen(skSeed, pkSeed, adrs, i)
		defer wipe(sk)
		adrs.setHeight(0)
		adrs.setIndex(i)
		return p.hash.f(pkSeed, adrs.raw(), sk)
	}
}

func (p *ParameterSet) forsParent(pkSeed []byte, adrs *forsTreeAddress) nodeFunc {
	return func(height, index uint32, left, right []byte) []byte {
		adrs.setHeight(height)
		adrs.setIndex(index)
		return p.hash.h(pkSeed, adrs.raw(), left, right)
	}
}

// Algorithm 15 (fors_node).
//
// Node indices are absolute over the k trees: the root of tree t is the node
// with index t at height a.
func (p *ParameterSet) forsNode(skSeed []byte, i, z uint32, pkSeed []byte, adrs *forsTreeAddress) []byte {
	root, _ := treehash(i<<z, z, 0, false, p.forsLeaf(skSeed, pkSeed, adrs), p.forsParent(pkSeed, adrs))
	return root
}

// forsRoots compresses the k concatenated tree roots into the FORS public key.
func (p *ParameterSet) forsRoots(roots, pkSeed []byte, adrs *forsTreeAddress) []byte {
	rootsAdrs := adrs.rootsAddress()
	return p.hash.t(pkSeed, rootsAdrs.raw(), roots)
}

// forsPkGen computes the FORS public key of the key pair addressed by adrs
// directly from the secret seed.
func (p *ParameterSet) forsPkGen(skSeed, pkSeed []byte, adrs *forsTreeAddress) []byte {
	roots := make([]byte, 0, p.k*p.n)
	for i := range p.k {
		roots = append(roots, p.forsNode(skSeed, i, p.a, pkSeed, adrs)...)
	}
	return p.forsRoots(roots, pkSeed, adrs)
}

// Algorithm 16 (fors_sign).
//
// Returns the FORS public key as well: every tree is fully traversed to build
// the authentication path, which yields its root at no extra cost.
func (p *ParameterSet) forsSign(md, skSeed, pkSeed []byte, adrs *forsTreeAddress) (forsSignature, []byte) {
	indices := base2b(md, p.a, p.k)
	leaf := p.forsLeaf(skSeed, pkSeed, adrs)
	parent := p.forsParent(pkSeed, adrs)
	sig := make(forsSignature, p.k)
	roots := make([]byte, 0, p.k*p.n)
	for i := range p.k {
		leafIdx := i<<p.a + indices[i]
		root, auth := treehash(i<<p.a, p.a, leafIdx, true, leaf, parent)
		sig[i] = forsTreeSignature{
			sk:   p.forsSkGen(skSeed, pkSeed, adrs, leafIdx),
			auth: auth,
		}
		roots = append(roots, root...)
	}
	return sig, p.forsRoots(roots, pkSeed, adrs)
}

// Algorithm 17 (fors_pkFromSig).
func (p *ParameterSet) forsPkFromSig(sig forsSignature, md, pkSeed []byte, adrs *forsTreeAddress) []byte {
	if uint32(len(sig)) != p.k {
		panic("unreachable")
	}
	indices := base2b(md, p.a, p.k)
	parent := p.forsParent(pkSeed, adrs)
	roots := make([]byte, 0, p.k*p.n)
	for i := range p.k {
		leafIdx := i<<p.a + indices[i]
		adrs.setHeight(0)
		adrs.setIndex(leafIdx)
		node := p.hash.f(pkSeed, adrs.raw(), sig[i].sk)
		roots = append(roots, rootFromAuthPath(node, leafIdx, sig[i].auth, parent)...)
	}
	return p.forsRoots(roots, pkSeed, adrs)
}
