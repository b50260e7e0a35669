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
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

// PreHash identifies the hash or XOF applied to the message by HashSLH-DSA,
// see Section 10.2.2 of FIPS 205.
type PreHash int

// Supported pre-hash functions.
const (
	PreHashUnknown PreHash = iota
	PreHashSHA256
	PreHashSHA384
	PreHashSHA512
	PreHashSHA224
	PreHashSHA512_224
	PreHashSHA512_256
	PreHashSHA3_224
	PreHashSHA3_256
	PreHashSHA3_384
	PreHashSHA3_512
	PreHashSHAKE128
	PreHashSHAKE256
)

type preHashInfo struct {
	name string
	// Last byte of the DER encoded OID 2.16.840.1.101.3.4.2.x.
	oidArc byte
	newHash func() hash.Hash
	// Output length for the XOFs.
	xofLen int
}

var preHashes = map[PreHash]preHashInfo{
	PreHashSHA256:     {"SHA-256", 0x01, sha256.New, 0},
	PreHashSHA384:     {"SHA-384", 0x02, sha512.New384, 0},
	PreHashSHA512:     {"SHA-512", 0x03, sha512.New, 0},
	PreHashSHA224:     {"SHA-224", 0x04, sha256.New224, 0},
	PreHashSHA512_224: {"SHA-512/224", 0x05, sha512.New512_224, 0},
	PreHashSHA512_256: {"SHA-512/256", 0x06, sha512.New512_256, 0},
	PreHashSHA3_224:   {"SHA3-224", 0x07, sha3.New224, 0},
	PreHashSHA3_256:   {"SHA3-256", 0x08, sha3.New256, 0},
	PreHashSHA3_384:   {"SHA3-384", 0x09, sha3.New384, 0},
	PreHashSHA3_512:   {"SHA3-512", 0x0a, sha3.New512, 0},
	PreHashSHAKE128:   {"SHAKE-128", 0x0b, nil, 32},
	PreHashSHAKE256:   {"SHAKE-256", 0x0c, nil, 64},
}

// oidPrefix is the DER encoding of 2.16.840.1.101.3.4.2 including the tag and
// length of the full OID.
var oidPrefix = []byte{0x06, 0x09, 0x60, 0x86, 0x48, 0x01, 0x65, 0x03, 0x04, 0x02}

func (ph PreHash) String() string {
	if info, ok := preHashes[ph]; ok {
		return info.name
	}
	return "UNKNOWN"
}

// OID returns the DER encoded object identifier of ph.
func (ph PreHash) OID() ([]byte, error) {
	info, ok := preHashes[ph]
	if !ok {
		return nil, fmt.Errorf("unsupported pre-hash function %d", int(ph))
	}
	return append(append([]byte(nil), oidPrefix...), info.oidArc), nil
}

// Digest returns PH(msg).
func (ph PreHash) Digest(msg []byte) ([]byte, error) {
	info, ok := preHashes[ph]
	if !ok {
		return nil, fmt.Errorf("unsupported pre-hash function %d", int(ph))
	}
	if info.newHash != nil {
		h := info.newHash()
		h.Write(msg)
		return h.Sum(nil), nil
	}
	var x sha3.ShakeHash
	if ph == PreHashSHAKE128 {
		x = sha3.NewShake128()
	} else {
		x = sha3.NewShake256()
	}
	x.Write(msg)
	out := make([]byte, info.xofLen)
	x.Read(out)
	return out, nil
}

// preHashFrame builds 1 || len(ctx) || ctx || OID || PH(msg), see line 23 of
// Algorithm 23.
func preHashFrame(msg, ctx []byte, ph PreHash) ([]byte, error) {
	oid, err := ph.OID()
	if err != nil {
		return nil, err
	}
	digest, err := ph.Digest(msg)
	if err != nil {
		return nil, err
	}
	return frame(domainPreHash, ctx, oid, digest)
}

// SignPreHash is the hedged pre-hash signing function. This is Algorithm 23
// (hash_slh_sign) of FIPS 205.
func (sk *SecretKey) SignPreHash(msg, ctx []byte, ph PreHash) ([]byte, error) {
	addrnd := make([]byte, sk.p.n)
	// rand.Read never returns an error.
	rand.Read(addrnd)
	return sk.SignPreHashWithRandomness(msg, ctx, ph, addrnd)
}

// SignPreHashWithRandomness is Algorithm 23 (hash_slh_sign) with caller
// supplied n-byte randomness.
func (sk *SecretKey) SignPreHashWithRandomness(msg, ctx []byte, ph PreHash, addrnd []byte) ([]byte, error) {
	m, err := preHashFrame(msg, ctx, ph)
	if err != nil {
		return nil, err
	}
	return sk.SignInternal(m, addrnd)
}

// SignPreHashDeterministic is Algorithm 23 (hash_slh_sign) with PK.seed as
// randomness.
func (sk *SecretKey) SignPreHashDeterministic(msg, ctx []byte, ph PreHash) ([]byte, error) {
	return sk.SignPreHashWithRandomness(msg, ctx, ph, sk.pkSeed)
}

// VerifyPreHash is Algorithm 25 (hash_slh_verify) of FIPS 205.
func (pk *PublicKey) VerifyPreHash(msg, sig, ctx []byte, ph PreHash) error {
	m, err := preHashFrame(msg, ctx, ph)
	if err != nil {
		return err
	}
	return pk.verifyInternal(m, sig)
}
