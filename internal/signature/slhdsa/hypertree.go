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

import "crypto/subtle"

// nextLayer moves one layer up the hypertree: the hp least significant bits of
// idxTree select the leaf in the parent tree, the rest select the tree.
func (p *ParameterSet) nextLayer(idxTree uint64) (uint64, uint32) {
	return idxTree >> p.hp, uint32(lowBits(idxTree, p.hp))
}

// Algorithm 12 (ht_sign).
func (p *ParameterSet) htSign(msg, skSeed, pkSeed []byte, idxTree uint64, idxLeaf uint32) hypertreeSignature {
	sig := make(hypertreeSignature, p.d)
	root := msg
	for j := range p.d {
		adrs := newTreeAddress(j, idxTree)
		sig[j], root = p.xmssSign(root, skSeed, idxLeaf, pkSeed, &adrs)
		idxTree, idxLeaf = p.nextLayer(idxTree)
	}
	return sig
}

// Algorithm 13 (ht_verify).
func (p *ParameterSet) htVerify(msg []byte, sig hypertreeSignature, pkSeed []byte, idxTree uint64, idxLeaf uint32, pkRoot []byte) bool {
	if uint32(len(sig)) != p.d {
		panic("unreachable")
	}
	node := msg
	for j := range p.d {
		adrs := newTreeAddress(j, idxTree)
		node = p.xmssPkFromSig(idxLeaf, sig[j], node, pkSeed, &adrs)
		idxTree, idxLeaf = p.nextLayer(idxTree)
	}
	return subtle.ConstantTimeCompare(node, pkRoot) == 1
}
