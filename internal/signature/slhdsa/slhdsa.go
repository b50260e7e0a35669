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

// Package slhdsa implements SLH-DSA as specified in NIST FIPS 205 (https://doi.org/10.6028/NIST.FIPS.205).
//
// The implementation is constant time assuming that the underlying hashing
// primitives are constant time. Keys are immutable once created, so a single
// key may be used concurrently from multiple goroutines; only Destroy mutates
// a secret key.
package slhdsa

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"slices"
)

// MaxContextLength is the maximum length of a context string in bytes.
const MaxContextLength = 255

var (
	errInvalidSignature = errors.New("invalid signature")
	errContextTooLong   = fmt.Errorf("context too long, must be at most %d bytes", MaxContextLength)
)

// Domain separators prepended to the message by the external functions, see
// Algorithms 22 and 23 of FIPS 205.
const (
	domainPure    = 0x00
	domainPreHash = 0x01
)

// PublicKey represents an SLH-DSA public key.
type PublicKey struct {
	pkSeed []byte
	pkRoot []byte
	// Corresponding parameters.
	p *ParameterSet
}

// SecretKey represents an SLH-DSA secret key.
type SecretKey struct {
	skSeed []byte
	skPrf  []byte
	pkSeed []byte
	pkRoot []byte
	// Corresponding parameters.
	p *ParameterSet
}

// Algorithm 18 (slh_keygen_internal).
func (p *ParameterSet) slhKeygenInternal(skSeed, skPrf, pkSeed []byte) (*SecretKey, *PublicKey) {
	// The public root is the root of the single XMSS tree on the top layer.
	adrs := newTreeAddress(p.d-1, 0)
	pkRoot := p.xmssNode(skSeed, 0, p.hp, pkSeed, &adrs)
	return &SecretKey{skSeed, skPrf, pkSeed, pkRoot, p}, &PublicKey{pkSeed, pkRoot, p}
}

// KeyGenFromSeeds deterministically derives a key pair from the three n-byte
// seeds. The seeds are copied.
func (p *ParameterSet) KeyGenFromSeeds(skSeed, skPrf, pkSeed []byte) (*SecretKey, *PublicKey, error) {
	if len(skSeed) != int(p.n) || len(skPrf) != int(p.n) || len(pkSeed) != int(p.n) {
		return nil, nil, fmt.Errorf("invalid seed length, want %d bytes", p.n)
	}
	sk, pk := p.slhKeygenInternal(bytes.Clone(skSeed), bytes.Clone(skPrf), bytes.Clone(pkSeed))
	return sk, pk, nil
}

// GenerateKey generates a key pair reading the seeds from rand. This is
// Algorithm 21 (slh_keygen).
func (p *ParameterSet) GenerateKey(rand io.Reader) (*SecretKey, *PublicKey, error) {
	seeds := make([]byte, 3*p.n)
	if _, err := io.ReadFull(rand, seeds); err != nil {
		wipe(seeds)
		return nil, nil, fmt.Errorf("reading seeds: %w", err)
	}
	sk, pk := p.slhKeygenInternal(seeds[:p.n:p.n], seeds[p.n:2*p.n:2*p.n], seeds[2*p.n:])
	return sk, pk, nil
}

// KeyGen generates a key pair from crypto/rand. This is Algorithm 21 (slh_keygen).
func (p *ParameterSet) KeyGen() (*SecretKey, *PublicKey) {
	// rand.Reader never returns an error.
	sk, pk, err := p.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	return sk, pk
}

// splitDigest splits the output of H_msg into the FORS message and the
// hypertree leaf coordinates, see lines 10 to 15 of Algorithm 19.
func (p *ParameterSet) splitDigest(digest []byte) (md []byte, idxTree uint64, idxLeaf uint32) {
	md = digest[:p.mdLen]
	treeBytes := digest[p.mdLen : p.mdLen+p.treeIdxLen]
	leafBytes := digest[p.mdLen+p.treeIdxLen : p.m]
	// For the 256f parameter sets h - hp = 64 and the mask is a no-op.
	idxTree = lowBits(toInt(treeBytes, p.treeIdxLen), p.h-p.hp)
	idxLeaf = uint32(lowBits(toInt(leafBytes, p.leafIdxLen), p.hp))
	return md, idxTree, idxLeaf
}

// Algorithm 19 (slh_sign_internal).
//
// This generates a signature of the form R || SIG_FORS || SIG_HT, where R is
// derived from SK.prf and addrnd. The caller selects between the hedged and
// the deterministic variant by passing fresh randomness or PK.seed as addrnd.
func (sk *SecretKey) signInternal(msg, addrnd []byte) []byte {
	p := sk.p
	r := p.hash.prfMsg(sk.skPrf, addrnd, msg)
	digest := p.hash.hMsg(r, sk.pkSeed, sk.pkRoot, msg)
	md, idxTree, idxLeaf := p.splitDigest(digest)
	adrs := newFORSTreeAddress(idxTree, idxLeaf)
	sigFors, pkFors := p.forsSign(md, sk.skSeed, sk.pkSeed, &adrs)
	return p.encode(signature{
		r:    r,
		fors: sigFors,
		ht:   p.htSign(pkFors, sk.skSeed, sk.pkSeed, idxTree, idxLeaf),
	})
}

// Algorithm 20 (slh_verify_internal).
func (pk *PublicKey) verifyInternal(msg, sig []byte) error {
	p := pk.p
	if len(sig) != p.SignatureLength() {
		return fmt.Errorf("invalid signature length %d, want %d", len(sig), p.SignatureLength())
	}
	s := p.parseSignature(sig)
	digest := p.hash.hMsg(s.r, pk.pkSeed, pk.pkRoot, msg)
	md, idxTree, idxLeaf := p.splitDigest(digest)
	adrs := newFORSTreeAddress(idxTree, idxLeaf)
	pkFors := p.forsPkFromSig(s.fors, md, pk.pkSeed, &adrs)
	if !p.htVerify(pkFors, s.ht, pk.pkSeed, idxTree, idxLeaf, pk.pkRoot) {
		return errInvalidSignature
	}
	return nil
}

// SignInternal signs an already framed message with the given n-byte
// randomness. It exposes Algorithm 19 for testing against published vectors;
// applications should use Sign or SignPreHash.
func (sk *SecretKey) SignInternal(msg, addrnd []byte) ([]byte, error) {
	if len(addrnd) != int(sk.p.n) {
		return nil, fmt.Errorf("invalid randomness length %d, want %d", len(addrnd), sk.p.n)
	}
	return sk.signInternal(msg, addrnd), nil
}

// VerifyInternal verifies a signature over an already framed message. This
// is Algorithm 20 (slh_verify_internal).
func (pk *PublicKey) VerifyInternal(msg, sig []byte) error {
	return pk.verifyInternal(msg, sig)
}

// frame builds domain || len(ctx) || ctx || parts...
func frame(domain byte, ctx []byte, parts ...[]byte) ([]byte, error) {
	if len(ctx) > MaxContextLength {
		return nil, errContextTooLong
	}
	return slices.Concat(append([][]byte{{domain, byte(len(ctx))}, ctx}, parts...)...), nil
}

// Sign is the standard hedged signing function. This is Algorithm 22
// (slh_sign) of FIPS 205 with fresh randomness from crypto/rand.
func (sk *SecretKey) Sign(msg, ctx []byte) ([]byte, error) {
	addrnd := make([]byte, sk.p.n)
	// rand.Read never returns an error.
	rand.Read(addrnd)
	return sk.SignWithRandomness(msg, ctx, addrnd)
}

// SignWithRandomness is Algorithm 22 (slh_sign) with caller supplied n-byte
// randomness. The same key, message, context and randomness always yield the
// same signature.
func (sk *SecretKey) SignWithRandomness(msg, ctx, addrnd []byte) ([]byte, error) {
	m, err := frame(domainPure, ctx, msg)
	if err != nil {
		return nil, err
	}
	return sk.SignInternal(m, addrnd)
}

// SignDeterministic signs deterministically. This is Algorithm 22 (slh_sign)
// of FIPS 205 with PK.seed as randomness.
func (sk *SecretKey) SignDeterministic(msg, ctx []byte) ([]byte, error) {
	return sk.SignWithRandomness(msg, ctx, sk.pkSeed)
}

// Verify is the standard verification function. This is Algorithm 24
// (slh_verify) of FIPS 205.
func (pk *PublicKey) Verify(msg, sig, ctx []byte) error {
	m, err := frame(domainPure, ctx, msg)
	if err != nil {
		return err
	}
	return pk.verifyInternal(m, sig)
}

// Parameters returns the parameter set of the key.
func (pk *PublicKey) Parameters() *ParameterSet { return pk.p }

// Encode encodes a public key as PK.seed || PK.root.
func (pk *PublicKey) Encode() []byte {
	return slices.Concat(pk.pkSeed, pk.pkRoot)
}

// Equal reports whether pk and other are the same key.
func (pk *PublicKey) Equal(other *PublicKey) bool {
	return other != nil && pk.p == other.p &&
		subtle.ConstantTimeCompare(pk.Encode(), other.Encode()) == 1
}

// DecodePublicKey decodes a public key. The input is copied.
func (p *ParameterSet) DecodePublicKey(pkEnc []byte) (*PublicKey, error) {
	if len(pkEnc) != p.PublicKeyLength() {
		return nil, fmt.Errorf("invalid public key length %d, want %d", len(pkEnc), p.PublicKeyLength())
	}
	pkEnc = bytes.Clone(pkEnc)
	return &PublicKey{pkEnc[:p.n:p.n], pkEnc[p.n:], p}, nil
}

// Parameters returns the parameter set of the key.
func (sk *SecretKey) Parameters() *ParameterSet { return sk.p }

// Encode encodes a secret key as SK.seed || SK.prf || PK.seed || PK.root.
func (sk *SecretKey) Encode() []byte {
	return slices.Concat(sk.skSeed, sk.skPrf, sk.pkSeed, sk.pkRoot)
}

// Equal reports whether sk and other are the same key.
func (sk *SecretKey) Equal(other *SecretKey) bool {
	if other == nil || sk.p != other.p {
		return false
	}
	a, b := sk.Encode(), other.Encode()
	defer wipe(a, b)
	return subtle.ConstantTimeCompare(a, b) == 1
}

// DecodeSecretKey decodes a secret key. The input is copied.
//
// PK.root is recomputed from the seeds and the key is rejected if it does not
// match the encoded one.
func (p *ParameterSet) DecodeSecretKey(skEnc []byte) (*SecretKey, error) {
	if len(skEnc) != p.SecretKeyLength() {
		return nil, fmt.Errorf("invalid secret key length %d, want %d", len(skEnc), p.SecretKeyLength())
	}
	skEnc = bytes.Clone(skEnc)
	n := p.n
	sk, _ := p.slhKeygenInternal(skEnc[:n:n], skEnc[n:2*n:2*n], skEnc[2*n:3*n:3*n])
	if subtle.ConstantTimeCompare(sk.pkRoot, skEnc[3*n:]) != 1 {
		wipe(skEnc)
		return nil, fmt.Errorf("secret key is inconsistent with its public root")
	}
	return sk, nil
}

// PublicKey returns the public key corresponding to a secret key.
func (sk *SecretKey) PublicKey() *PublicKey {
	return &PublicKey{sk.pkSeed, sk.pkRoot, sk.p}
}

// Destroy overwrites the secret seeds. The key must not be used afterwards.
func (sk *SecretKey) Destroy() {
	wipe(sk.skSeed, sk.skPrf)
}
