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
	"crypto"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign"
	"github.com/tink-crypto/tink-go-slhdsa/internal/signature/slhdsa"
	"github.com/tink-crypto/tink-go-slhdsa/subtle"
)

// DeriveKeySeedSize is the length of the seed accepted by DeriveKey of the
// schemes returned by Scheme.
const DeriveKeySeedSize = 32

// scheme adapts one parameter set to circl's [sign.Scheme].
type scheme struct {
	set *slhdsa.ParameterSet
}

var (
	_ sign.Scheme     = (*scheme)(nil)
	_ sign.PublicKey  = (*schemePublicKey)(nil)
	_ sign.PrivateKey = (*schemePrivateKey)(nil)
)

var schemes = func() map[string]*scheme {
	m := make(map[string]*scheme)
	for _, set := range slhdsa.ParameterSets() {
		m[set.Name()] = &scheme{set: set}
	}
	return m
}()

// Scheme returns the [sign.Scheme] of the parameter set called name, e.g.
// "SLH-DSA-SHA2-128s", or nil if there is no such set.
func Scheme(name string) sign.Scheme {
	if s, ok := schemes[name]; ok {
		return s
	}
	return nil
}

// Schemes returns the [sign.Scheme] of every parameter set.
func Schemes() []sign.Scheme {
	var all []sign.Scheme
	for _, set := range slhdsa.ParameterSets() {
		all = append(all, schemes[set.Name()])
	}
	return all
}

func (s *scheme) Name() string { return s.set.Name() }

func (s *scheme) PublicKeySize() int { return s.set.PublicKeyLength() }

func (s *scheme) PrivateKeySize() int { return s.set.SecretKeyLength() }

func (s *scheme) SignatureSize() int { return s.set.SignatureLength() }

func (s *scheme) SeedSize() int { return DeriveKeySeedSize }

func (s *scheme) SupportsContext() bool { return true }

func (s *scheme) GenerateKey() (sign.PublicKey, sign.PrivateKey, error) {
	sk, pk, err := s.set.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	pub := &schemePublicKey{scheme: s, pk: pk}
	return pub, &schemePrivateKey{scheme: s, sk: sk, pub: pub}, nil
}

// DeriveKey expands seed with HKDF-SHA512 into SK.seed, SK.prf and PK.seed.
// The parameter set name is the HKDF info, so one seed yields unrelated keys
// for different sets. It panics if len(seed) != DeriveKeySeedSize.
func (s *scheme) DeriveKey(seed []byte) (sign.PublicKey, sign.PrivateKey) {
	if len(seed) != DeriveKeySeedSize {
		panic(sign.ErrSeedSize)
	}
	n := s.set.N()
	seeds, err := subtle.ComputeHKDF("SHA512", seed, nil, []byte(s.set.Name()), uint32(3*n))
	if err != nil {
		panic(err)
	}
	defer clear(seeds)
	sk, pk, err := s.set.KeyGenFromSeeds(seeds[:n], seeds[n:2*n], seeds[2*n:])
	if err != nil {
		panic(err)
	}
	pub := &schemePublicKey{scheme: s, pk: pk}
	return pub, &schemePrivateKey{scheme: s, sk: sk, pub: pub}
}

func (s *scheme) UnmarshalBinaryPublicKey(b []byte) (sign.PublicKey, error) {
	if len(b) != s.PublicKeySize() {
		return nil, sign.ErrPubKeySize
	}
	pk, err := s.set.DecodePublicKey(b)
	if err != nil {
		return nil, err
	}
	return &schemePublicKey{scheme: s, pk: pk}, nil
}

// UnmarshalBinaryPrivateKey decodes SK.seed || SK.prf || PK.seed || PK.root and
// checks PK.root against the seeds.
func (s *scheme) UnmarshalBinaryPrivateKey(b []byte) (sign.PrivateKey, error) {
	if len(b) != s.PrivateKeySize() {
		return nil, sign.ErrPrivKeySize
	}
	sk, err := s.set.DecodeSecretKey(b)
	if err != nil {
		return nil, err
	}
	pub := &schemePublicKey{scheme: s, pk: sk.PublicKey()}
	return &schemePrivateKey{scheme: s, sk: sk, pub: pub}, nil
}

func contextFromOpts(opts *sign.SignatureOpts) []byte {
	if opts == nil {
		return nil
	}
	return []byte(opts.Context)
}

// Sign signs message with hedged randomness. It panics if sk belongs to
// another scheme or if the context is longer than 255 bytes.
func (s *scheme) Sign(sk sign.PrivateKey, message []byte, opts *sign.SignatureOpts) []byte {
	priv, ok := sk.(*schemePrivateKey)
	if !ok || priv.scheme != s {
		panic(sign.ErrTypeMismatch)
	}
	sig, err := priv.sk.Sign(message, contextFromOpts(opts))
	if err != nil {
		panic(err)
	}
	return sig
}

func (s *scheme) Verify(pk sign.PublicKey, message []byte, signature []byte, opts *sign.SignatureOpts) bool {
	pub, ok := pk.(*schemePublicKey)
	if !ok || pub.scheme != s {
		panic(sign.ErrTypeMismatch)
	}
	return pub.pk.Verify(message, signature, contextFromOpts(opts)) == nil
}

type schemePublicKey struct {
	scheme *scheme
	pk     *slhdsa.PublicKey
}

func (k *schemePublicKey) Scheme() sign.Scheme { return k.scheme }

func (k *schemePublicKey) MarshalBinary() ([]byte, error) { return k.pk.Encode(), nil }

func (k *schemePublicKey) Equal(other crypto.PublicKey) bool {
	o, ok := other.(*schemePublicKey)
	return ok && o.scheme == k.scheme && k.pk.Equal(o.pk)
}

type schemePrivateKey struct {
	scheme *scheme
	sk     *slhdsa.SecretKey
	pub    *schemePublicKey
}

func (k *schemePrivateKey) Scheme() sign.Scheme { return k.scheme }

func (k *schemePrivateKey) Public() crypto.PublicKey { return k.pub }

func (k *schemePrivateKey) MarshalBinary() ([]byte, error) { return k.sk.Encode(), nil }

func (k *schemePrivateKey) Equal(other crypto.PrivateKey) bool {
	o, ok := other.(*schemePrivateKey)
	return ok && o.scheme == k.scheme && k.sk.Equal(o.sk)
}

// SignerOpts carries the context string for [crypto.Signer] callers. Only the
// pure variant is available through this interface, so HashFunc is zero.
type SignerOpts struct {
	Context []byte
}

// HashFunc returns 0: the message is passed unhashed.
func (o *SignerOpts) HashFunc() crypto.Hash { return 0 }

// Sign implements [crypto.Signer]. message is signed as is, never a digest;
// opts must be nil, a *SignerOpts, or have a zero HashFunc. A nil rand gives
// the deterministic variant; otherwise opt_rand is read from rand.
func (k *schemePrivateKey) Sign(rand io.Reader, message []byte, opts crypto.SignerOpts) ([]byte, error) {
	var ctx []byte
	if opts != nil {
		if opts.HashFunc() != 0 {
			return nil, fmt.Errorf("slhdsa: message must not be pre-hashed, got %v", opts.HashFunc())
		}
		if o, ok := opts.(*SignerOpts); ok {
			ctx = o.Context
		}
	}
	if rand == nil {
		return k.sk.SignDeterministic(message, ctx)
	}
	addrnd := make([]byte, k.scheme.set.N())
	if _, err := io.ReadFull(rand, addrnd); err != nil {
		return nil, fmt.Errorf("slhdsa: reading randomness: %w", err)
	}
	return k.sk.SignWithRandomness(message, ctx, addrnd)
}
