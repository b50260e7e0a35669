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
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"
)

// hashSuite instantiates the six keyed functions of Section 4.1 of FIPS 205.
// Outputs are freshly allocated. Address arguments are only read.
type hashSuite interface {
	// prfMsg returns the n-byte randomizer R.
	prfMsg(skPrf, optRand, msg []byte) []byte
	// hMsg returns the m-byte message digest.
	hMsg(r, pkSeed, pkRoot, msg []byte) []byte
	// prf returns the n-byte secret addressed by adrs.
	prf(pkSeed, skSeed []byte, adrs *address) []byte
	f(pkSeed []byte, adrs *address, m1 []byte) []byte
	h(pkSeed []byte, adrs *address, left, right []byte) []byte
	t(pkSeed []byte, adrs *address, ml []byte) []byte
}

// SHAKE instantiation, see Section 11.1 of FIPS 205.
type shakeSuite struct {
	n uint32
	m uint32
}

var _ hashSuite = (*shakeSuite)(nil)

func shake256(outLen uint32, parts ...[]byte) []byte {
	x := sha3.NewShake256()
	for _, p := range parts {
		x.Write(p)
	}
	out := make([]byte, outLen)
	x.Read(out)
	return out
}

func (s *shakeSuite) prfMsg(skPrf, optRand, msg []byte) []byte {
	return shake256(s.n, skPrf, optRand, msg)
}

func (s *shakeSuite) hMsg(r, pkSeed, pkRoot, msg []byte) []byte {
	return shake256(s.m, r, pkSeed, pkRoot, msg)
}

func (s *shakeSuite) prf(pkSeed, skSeed []byte, adrs *address) []byte {
	return shake256(s.n, pkSeed, adrs[:], skSeed)
}

func (s *shakeSuite) f(pkSeed []byte, adrs *address, m1 []byte) []byte {
	return shake256(s.n, pkSeed, adrs[:], m1)
}

func (s *shakeSuite) h(pkSeed []byte, adrs *address, left, right []byte) []byte {
	return shake256(s.n, pkSeed, adrs[:], left, right)
}

func (s *shakeSuite) t(pkSeed []byte, adrs *address, ml []byte) []byte {
	return shake256(s.n, pkSeed, adrs[:], ml)
}

// SHA2 instantiation, see Section 11.2 of FIPS 205.
//
// PRF and F always use SHA-256. For security category 1 (n = 16) H, T, H_msg
// and PRF_msg use SHA-256 as well; for categories 3 and 5 they use SHA-512.
// PK.seed is padded with zeroes to a full block of the hash it is fed to.
type sha2Suite struct {
	n uint32
	m uint32
	// wide is the hash used by H, T, H_msg and PRF_msg.
	wide      func() hash.Hash
	wideBlock int
}

var _ hashSuite = (*sha2Suite)(nil)

var zeroBlock [sha512.BlockSize]byte

func newSHA2Suite(n, m uint32) *sha2Suite {
	if n == 16 {
		return &sha2Suite{n: n, m: m, wide: sha256.New, wideBlock: sha256.BlockSize}
	}
	return &sha2Suite{n: n, m: m, wide: sha512.New, wideBlock: sha512.BlockSize}
}

// seeded returns a hash already fed with PK.seed || zero padding || ADRS^c.
func seeded(newHash func() hash.Hash, block int, pkSeed []byte, adrs *address) hash.Hash {
	x := newHash()
	x.Write(pkSeed)
	x.Write(zeroBlock[:block-len(pkSeed)])
	c := adrs.compressed()
	x.Write(c[:])
	return x
}

func (s *sha2Suite) truncate(x hash.Hash) []byte {
	return x.Sum(nil)[:s.n]
}

func (s *sha2Suite) prfMsg(skPrf, optRand, msg []byte) []byte {
	mac := hmac.New(s.wide, skPrf)
	mac.Write(optRand)
	mac.Write(msg)
	return s.truncate(mac)
}

func (s *sha2Suite) hMsg(r, pkSeed, pkRoot, msg []byte) []byte {
	x := s.wide()
	x.Write(r)
	x.Write(pkSeed)
	x.Write(pkRoot)
	x.Write(msg)
	seed := make([]byte, 0, len(r)+len(pkSeed)+x.Size())
	seed = append(seed, r...)
	seed = append(seed, pkSeed...)
	seed = x.Sum(seed)
	return mgf1(s.wide, seed, s.m)
}

func (s *sha2Suite) prf(pkSeed, skSeed []byte, adrs *address) []byte {
	x := seeded(sha256.New, sha256.BlockSize, pkSeed, adrs)
	x.Write(skSeed)
	return s.truncate(x)
}

func (s *sha2Suite) f(pkSeed []byte, adrs *address, m1 []byte) []byte {
	x := seeded(sha256.New, sha256.BlockSize, pkSeed, adrs)
	x.Write(m1)
	return s.truncate(x)
}

func (s *sha2Suite) h(pkSeed []byte, adrs *address, left, right []byte) []byte {
	x := seeded(s.wide, s.wideBlock, pkSeed, adrs)
	x.Write(left)
	x.Write(right)
	return s.truncate(x)
}

func (s *sha2Suite) t(pkSeed []byte, adrs *address, ml []byte) []byte {
	x := seeded(s.wide, s.wideBlock, pkSeed, adrs)
	x.Write(ml)
	return s.truncate(x)
}

// Mask generation function based on a hash function, see
// https://datatracker.ietf.org/doc/html/rfc8017#appendix-B.2.1.
func mgf1(newHash func() hash.Hash, seed []byte, maskLen uint32) []byte {
	var ctr [4]byte
	out := make([]byte, 0, int(maskLen)+newHash().Size())
	for c := uint32(0); uint32(len(out)) < maskLen; c++ {
		x := newHash()
		x.Write(seed)
		binary.BigEndian.PutUint32(ctr[:], c)
		x.Write(ctr[:])
		out = x.Sum(out)
	}
	return out[:maskLen]
}
