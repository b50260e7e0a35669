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

// nodeFunc hashes two children into their parent at the given height and
// index. Indices are absolute within the address space of the tree, i.e. a
// node at height z covering leaves [i<<z, (i+1)<<z) has index i.
type nodeFunc func(height, index uint32, left, right []byte) []byte

// treehash computes the root of the subtree of the given height whose leftmost
// leaf is start, see Algorithms 9 and 15 of FIPS 205.
//
// Leaves are produced left to right and merged on an explicit stack holding at
// most height+1 nodes, so memory is O(height) rather than O(2^height) and no
// recursion is involved. When withAuth is set, the authentication path of leaf
// authLeaf (which must lie inside the subtree) is collected on the way: the
// sibling at height j is the node with index (authLeaf>>j)^1.
func treehash(start, height uint32, authLeaf uint32, withAuth bool, leaf func(i uint32) []byte, parent nodeFunc) (root []byte, auth [][]byte) {
	type stackEntry struct {
		node   []byte
		height uint32
	}
	if withAuth {
		if authLeaf < start || authLeaf-start >= uint32(1)<<height {
			panic("unreachable")
		}
		auth = make([][]byte, height)
	}
	stack := make([]stackEntry, 0, height+1)
	for i := start; i < start+uint32(1)<<height; i++ {
		node := leaf(i)
		if withAuth && height > 0 && i == authLeaf^1 {
			auth[0] = node
		}
		z, idx := uint32(0), i
		for len(stack) > 0 && stack[len(stack)-1].height == z {
			left := stack[len(stack)-1].node
			stack = stack[:len(stack)-1]
			z++
			idx >>= 1
			node = parent(z, idx, left, node)
			if withAuth && z < height && idx == (authLeaf>>z)^1 {
				auth[z] = node
			}
		}
		stack = append(stack, stackEntry{node, z})
	}
	return stack[0].node, auth
}

// rootFromAuthPath walks an authentication path from a leaf node to the root
// of its tree, see lines 9 to 15 of Algorithms 11 and 17 of FIPS 205. The
// child order at height j is given by bit j of leafIdx.
func rootFromAuthPath(node []byte, leafIdx uint32, auth [][]byte, parent nodeFunc) []byte {
	idx := leafIdx
	for j, sibling := range auth {
		if idx&1 == 0 {
			node = parent(uint32(j)+1, idx>>1, node, sibling)
		} else {
			node = parent(uint32(j)+1, idx>>1, sibling, node)
		}
		idx >>= 1
	}
	return node
}
