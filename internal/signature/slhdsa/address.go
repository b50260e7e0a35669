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

import "encoding/binary"

// An address is a 32-byte buffer with added structure, see Table 1 of FIPS 205.
//
//	| layer (4 bytes) | tree (12 bytes) | type (4 bytes) | word 1 (4 bytes) | word 2 (4 bytes) | word 3 (4 bytes) |
//
// The meaning of the three trailing words depends on the type:
//
//	WOTS_HASH:  | key pair | chain        | hash       |
//	WOTS_PK:    | key pair | 0            | 0          |
//	TREE:       | 0        | tree height  | tree index |
//	FORS_TREE:  | key pair | tree height  | tree index |
//	FORS_ROOTS: | key pair | 0            | 0          |
//	WOTS_PRF:   | key pair | chain        | 0          |
//	FORS_PRF:   | key pair | 0            | tree index |
//
// The raw layout is never handled directly outside this file. Each address
// type is a distinct Go type exposing only the fields meaningful for it, and
// related addresses are derived through conversion methods so that layer, tree
// and key pair are carried over consistently.
type address [32]byte

type addressType uint32

const (
	addressWOTSHash addressType = iota
	addressWOTSPk
	addressTree
	addressFORSTree
	addressFORSRoots
	addressWOTSPrf
	addressFORSPrf
)

const compressedAddressSize = 22

func (a *address) layer() uint32 { return binary.BigEndian.Uint32(a[0:4]) }

func (a *address) tree() uint64 { return binary.BigEndian.Uint64(a[8:16]) }

func (a *address) kind() addressType { return addressType(binary.BigEndian.Uint32(a[16:20])) }

func (a *address) word(i int) uint32 { return binary.BigEndian.Uint32(a[20+4*i : 24+4*i]) }

func (a *address) setWord(i int, v uint32) { binary.BigEndian.PutUint32(a[20+4*i:24+4*i], v) }

// newRawAddress returns an address of kind y located at the given layer and
// tree, with all type specific words cleared.
//
// Tree addresses are at most 64 bits wide for every parameter set, so the
// upper 4 bytes of the tree field are always zero.
func newRawAddress(y addressType, layer uint32, tree uint64) address {
	var a address
	binary.BigEndian.PutUint32(a[0:4], layer)
	binary.BigEndian.PutUint64(a[8:16], tree)
	binary.BigEndian.PutUint32(a[16:20], uint32(y))
	return a
}

// derive returns an address of kind y sharing layer and tree with a and with
// the key pair word copied over.
func (a *address) derive(y addressType) address {
	d := newRawAddress(y, a.layer(), a.tree())
	if y != addressTree {
		d.setWord(0, a.word(0))
	}
	return d
}

// compressed returns the 22-byte form of the address used by the SHA2 hash
// suites, see Section 11.2 of FIPS 205.
//
//	| layer (1 byte) | tree (8 bytes) | type (1 byte) | words (12 bytes) |
func (a *address) compressed() [compressedAddressSize]byte {
	var c [compressedAddressSize]byte
	c[0] = a[3]
	copy(c[1:9], a[8:16])
	c[9] = a[19]
	copy(c[10:22], a[20:32])
	return c
}

// wotsHashAddress addresses a single F invocation inside a WOTS+ chain.
type wotsHashAddress struct{ adrs address }

func newWOTSHashAddress(layer uint32, tree uint64, keyPair uint32) wotsHashAddress {
	a := wotsHashAddress{newRawAddress(addressWOTSHash, layer, tree)}
	a.adrs.setWord(0, keyPair)
	return a
}

func (a *wotsHashAddress) raw() *address { return &a.adrs }
func (a *wotsHashAddress) keyPair() uint32 { return a.adrs.word(0) }
func (a *wotsHashAddress) setChain(i uint32) { a.adrs.setWord(1, i) }
func (a *wotsHashAddress) setHash(i uint32) { a.adrs.setWord(2, i) }

// prfAddress returns the WOTS_PRF address used to derive chain secrets of the
// same key pair.
func (a *wotsHashAddress) prfAddress() wotsPrfAddress {
	return wotsPrfAddress{a.adrs.derive(addressWOTSPrf)}
}

// pkAddress returns the WOTS_PK address used to compress the chain ends of the
// same key pair.
func (a *wotsHashAddress) pkAddress() wotsPkAddress {
	return wotsPkAddress{a.adrs.derive(addressWOTSPk)}
}

// treeAddress returns the TREE address of the XMSS tree the key pair is a leaf of.
func (a *wotsHashAddress) treeAddress() treeAddress {
	return treeAddress{a.adrs.derive(addressTree)}
}

type wotsPrfAddress struct{ adrs address }

func (a *wotsPrfAddress) raw() *address { return &a.adrs }
func (a *wotsPrfAddress) setChain(i uint32) { a.adrs.setWord(1, i) }

type wotsPkAddress struct{ adrs address }

func (a *wotsPkAddress) raw() *address { return &a.adrs }

// treeAddress addresses an inner node of an XMSS tree of the hypertree.
type treeAddress struct{ adrs address }

func newTreeAddress(layer uint32, tree uint64) treeAddress {
	return treeAddress{newRawAddress(addressTree, layer, tree)}
}

func (a *treeAddress) raw() *address { return &a.adrs }
func (a *treeAddress) setHeight(z uint32) { a.adrs.setWord(1, z) }
func (a *treeAddress) setIndex(i uint32) { a.adrs.setWord(2, i) }
func (a *treeAddress) index() uint32 { return a.adrs.word(2) }
func (a *treeAddress) layer() uint32 { return a.adrs.layer() }
func (a *treeAddress) tree() uint64 { return a.adrs.tree() }

// leafAddress returns the WOTS_HASH address of the key pair at leaf i.
func (a *treeAddress) leafAddress(i uint32) wotsHashAddress {
	return newWOTSHashAddress(a.adrs.layer(), a.adrs.tree(), i)
}

// forsTreeAddress addresses a node of one of the k FORS trees. FORS trees are
// always on layer 0; the key pair is the hypertree leaf that signs them.
type forsTreeAddress struct{ adrs address }

func newFORSTreeAddress(tree uint64, keyPair uint32) forsTreeAddress {
	a := forsTreeAddress{newRawAddress(addressFORSTree, 0, tree)}
	a.adrs.setWord(0, keyPair)
	return a
}

func (a *forsTreeAddress) raw() *address { return &a.adrs }
func (a *forsTreeAddress) keyPair() uint32 { return a.adrs.word(0) }
func (a *forsTreeAddress) setHeight(z uint32) { a.adrs.setWord(1, z) }
func (a *forsTreeAddress) setIndex(i uint32) { a.adrs.setWord(2, i) }
func (a *forsTreeAddress) index() uint32 { return a.adrs.word(2) }

// prfAddress returns the FORS_PRF address of leaf secret i.
func (a *forsTreeAddress) prfAddress(i uint32) forsPrfAddress {
	p := forsPrfAddress{a.adrs.derive(addressFORSPrf)}
	p.adrs.setWord(2, i)
	return p
}

// rootsAddress returns the FORS_ROOTS address used to compress the k roots.
func (a *forsTreeAddress) rootsAddress() forsRootsAddress {
	return forsRootsAddress{a.adrs.derive(addressFORSRoots)}
}

type forsPrfAddress struct{ adrs address }

func (a *forsPrfAddress) raw() *address { return &a.adrs }

type forsRootsAddress struct{ adrs address }

func (a *forsRootsAddress) raw() *address { return &a.adrs }
