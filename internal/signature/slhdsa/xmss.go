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

// xmssParent returns the nodeFunc hashing inner nodes of the XMSS tree
// addressed by adrs.
func (p *ParameterSet) xmssParent(pkSeed []byte, adrs *treeAddress) nodeFunc {
	return func(height, index uint32, left, right []byte) []byte {
		adrs.setHeight(height)
		adrs.setIndex(index)
		return p.hash.h(pkSeed, adrs.raw(), left, right)
	}
}

// xmssLeaf returns the function computing the WOTS+ public key at leaf i of
// the XMSS tree addressed by adrs.
func (p *ParameterSet) xmssLeaf(skSeed, pkSeed []byte, adrs *treeAddress) func(i uint32) []byte {
	return func(i uint32) []byte {
		leafAdrs := adrs.leafAddress(i)
		return p.wotsPkGen(skSeed, pkSeed, &leafAdrs)
	}
}

// Algorithm 9 (xmss_node).
func (p *ParameterSet) xmssNode(skSeed []byte, i, z uint32, pkSeed []byte, adrs *treeAddress) []byte {
	root, _ := treehash(i<<z, z, 0, false, p.xmssLeaf(skSeed, pkSeed, adrs), p.xmssParent(pkSeed, adrs))
	return root
}

// Algorithm 10 (xmss_sign).
//
// The tree is traversed once; its root is returned alongside the signature so
// that the hypertree does not have to recompute it from the signature.
func (p *ParameterSet) xmssSign(msg, skSeed []byte, idx uint32, pkSeed []byte, adrs *treeAddress) (xmssSignature, []byte) {
	root, auth := treehash(0, p.hp, idx, true, p.xmssLeaf(skSeed, pkSeed, adrs), p.xmssParent(pkSeed, adrs))
	leafAdrs := adrs.leafAddress(idx)
	return xmssSignature{
		wots: p.wotsSign(msg, skSeed, pkSeed, &leafAdrs),
		auth: auth,
	}, root
}

// Algorithm 11 (xmss_pkFromSig).
func (p *ParameterSet) xmssPkFromSig(idx uint32, sig xmssSignature, msg, pkSeed []byte, adrs *treeAddress) []byte {
	if uint32(len(sig.auth)) != p.hp {
		panic("unreachable")
	}
	leafAdrs := adrs.leafAddress(idx)
	node := p.wotsPkFromSig(sig.wots, msg, pkSeed, &leafAdrs)
	return rootFromAuthPath(node, idx, sig.auth, p.xmssParent(pkSeed, adrs))
}
