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

package slhdsa_test

import (
	"bytes"
	"crypto"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/cloudflare/circl/sign"
	"github.com/tink-crypto/tink-go-slhdsa/signature/slhdsa"
)

func mustScheme(t *testing.T, name string) sign.Scheme {
	t.Helper()
	s := slhdsa.Scheme(name)
	if s == nil {
		t.Fatalf("slhdsa.Scheme(%q) = nil, want a scheme", name)
	}
	return s
}

func TestSchemes(t *testing.T) {
	all := slhdsa.Schemes()
	if got, want := len(all), len(slhdsa.ParameterSetNames()); got != want {
		t.Fatalf("len(slhdsa.Schemes()) = %v, want %v", got, want)
	}
	for i, s := range all {
		name := slhdsa.ParameterSetNames()[i]
		if s.Name() != name {
			t.Errorf("slhdsa.Schemes()[%d].Name() = %q, want %q", i, s.Name(), name)
		}
		if slhdsa.Scheme(name) != s {
			t.Errorf("slhdsa.Scheme(%q) differs from slhdsa.Schemes()[%d]", name, i)
		}
		params, err := slhdsa.NewParametersFromName(name, slhdsa.VariantNoPrefix)
		if err != nil {
			t.Fatalf("slhdsa.NewParametersFromName(%q) err = %v, want nil", name, err)
		}
		if got, want := s.SignatureSize(), params.SignatureSize(); got != want {
			t.Errorf("%s SignatureSize() = %v, want %v", name, got, want)
		}
		if got, want := s.PrivateKeySize(), params.KeySize(); got != want {
			t.Errorf("%s PrivateKeySize() = %v, want %v", name, got, want)
		}
		if got, want := s.PublicKeySize(), params.KeySize()/2; got != want {
			t.Errorf("%s PublicKeySize() = %v, want %v", name, got, want)
		}
		if got := s.SeedSize(); got != slhdsa.DeriveKeySeedSize {
			t.Errorf("%s SeedSize() = %v, want %v", name, got, slhdsa.DeriveKeySeedSize)
		}
		if !s.SupportsContext() {
			t.Errorf("%s SupportsContext() = false, want true", name)
		}
	}
	if s := slhdsa.Scheme("SLH-DSA-SHA2-512s"); s != nil {
		t.Errorf("slhdsa.Scheme(%q) = %v, want nil", "SLH-DSA-SHA2-512s", s)
	}
}

func TestSchemeSignVerify(t *testing.T) {
	s := mustScheme(t, "SLH-DSA-SHAKE-128f")
	pk, sk, err := s.GenerateKey()
	if err != nil {
		t.Fatalf("s.GenerateKey() err = %v, want nil", err)
	}
	msg := []byte("message")
	opts := &sign.SignatureOpts{Context: "ctx"}
	sig := s.Sign(sk, msg, opts)
	if len(sig) != s.SignatureSize() {
		t.Errorf("len(sig) = %v, want %v", len(sig), s.SignatureSize())
	}
	if !s.Verify(pk, msg, sig, opts) {
		t.Errorf("s.Verify() = false, want true")
	}
	if s.Verify(pk, msg, sig, nil) {
		t.Errorf("s.Verify() without context = true, want false")
	}
	if s.Verify(pk, []byte("other"), sig, opts) {
		t.Errorf("s.Verify() of another message = true, want false")
	}
	if !pk.Equal(sk.Public()) {
		t.Errorf("pk.Equal(sk.Public()) = false, want true")
	}
}

func TestSchemeDeriveKey(t *testing.T) {
	seed := bytes.Repeat([]byte{0x2a}, slhdsa.DeriveKeySeedSize)
	s := mustScheme(t, "SLH-DSA-SHAKE-128f")
	pk1, sk1 := s.DeriveKey(seed)
	pk2, sk2 := s.DeriveKey(seed)
	if !pk1.Equal(pk2) || !sk1.Equal(sk2) {
		t.Errorf("s.DeriveKey() is not deterministic")
	}
	otherSeed := bytes.Repeat([]byte{0x2b}, slhdsa.DeriveKeySeedSize)
	if pk3, _ := s.DeriveKey(otherSeed); pk1.Equal(pk3) {
		t.Errorf("s.DeriveKey() gave the same key for different seeds")
	}

	// The same seed yields unrelated keys for different parameter sets.
	sha2 := mustScheme(t, "SLH-DSA-SHA2-128f")
	pk4, _ := sha2.DeriveKey(seed)
	b1, err := pk1.MarshalBinary()
	if err != nil {
		t.Fatalf("pk1.MarshalBinary() err = %v, want nil", err)
	}
	b4, err := pk4.MarshalBinary()
	if err != nil {
		t.Fatalf("pk4.MarshalBinary() err = %v, want nil", err)
	}
	if bytes.Equal(b1[:16], b4[:16]) {
		t.Errorf("PK.seed is shared between SLH-DSA-SHAKE-128f and SLH-DSA-SHA2-128f")
	}
}

func TestSchemeDeriveKeyPanicsOnWrongSeedSize(t *testing.T) {
	s := mustScheme(t, "SLH-DSA-SHAKE-128f")
	defer func() {
		if r := recover(); r != sign.ErrSeedSize {
			t.Errorf("s.DeriveKey() panic = %v, want %v", r, sign.ErrSeedSize)
		}
	}()
	s.DeriveKey(make([]byte, slhdsa.DeriveKeySeedSize-1))
}

func TestSchemeUnmarshalBinary(t *testing.T) {
	s := mustScheme(t, "SLH-DSA-SHAKE-128f")
	skBytes := mustHexDecode(t, shake128fPrivateKeyHex)
	pkBytes := mustHexDecode(t, shake128fPublicKeyHex)
	sk, err := s.UnmarshalBinaryPrivateKey(skBytes)
	if err != nil {
		t.Fatalf("s.UnmarshalBinaryPrivateKey() err = %v, want nil", err)
	}
	pk, err := s.UnmarshalBinaryPublicKey(pkBytes)
	if err != nil {
		t.Fatalf("s.UnmarshalBinaryPublicKey() err = %v, want nil", err)
	}
	if !pk.Equal(sk.Public()) {
		t.Errorf("pk.Equal(sk.Public()) = false, want true")
	}
	got, err := sk.MarshalBinary()
	if err != nil {
		t.Fatalf("sk.MarshalBinary() err = %v, want nil", err)
	}
	if !bytes.Equal(got, skBytes) {
		t.Errorf("sk.MarshalBinary() = %x, want %x", got, skBytes)
	}

	if _, err := s.UnmarshalBinaryPublicKey(pkBytes[1:]); err != sign.ErrPubKeySize {
		t.Errorf("s.UnmarshalBinaryPublicKey(short) err = %v, want %v", err, sign.ErrPubKeySize)
	}
	if _, err := s.UnmarshalBinaryPrivateKey(skBytes[1:]); err != sign.ErrPrivKeySize {
		t.Errorf("s.UnmarshalBinaryPrivateKey(short) err = %v, want %v", err, sign.ErrPrivKeySize)
	}
	wrongRoot := bytes.Clone(skBytes)
	wrongRoot[len(wrongRoot)-1] ^= 1
	if _, err := s.UnmarshalBinaryPrivateKey(wrongRoot); err == nil {
		t.Errorf("s.UnmarshalBinaryPrivateKey(inconsistent root) err = nil, want error")
	}
}

func TestSchemeSignPanicsOnForeignKey(t *testing.T) {
	shake := mustScheme(t, "SLH-DSA-SHAKE-128f")
	sha2 := mustScheme(t, "SLH-DSA-SHA2-128f")
	_, sk := sha2.DeriveKey(make([]byte, slhdsa.DeriveKeySeedSize))
	defer func() {
		if r := recover(); r != sign.ErrTypeMismatch {
			t.Errorf("shake.Sign() panic = %v, want %v", r, sign.ErrTypeMismatch)
		}
	}()
	shake.Sign(sk, []byte("message"), nil)
}

func TestCryptoSigner(t *testing.T) {
	const wantSHA256 = "fb4161d2d9ae6f5cb798b72a6c752da2c688ccd22f392b11f5b0843cb74a2798"
	s := mustScheme(t, "SLH-DSA-SHAKE-128f")
	sk, err := s.UnmarshalBinaryPrivateKey(mustHexDecode(t, shake128fPrivateKeyHex))
	if err != nil {
		t.Fatalf("s.UnmarshalBinaryPrivateKey() err = %v, want nil", err)
	}
	pk, err := s.UnmarshalBinaryPublicKey(mustHexDecode(t, shake128fPublicKeyHex))
	if err != nil {
		t.Fatalf("s.UnmarshalBinaryPublicKey() err = %v, want nil", err)
	}
	signer, ok := sk.(crypto.Signer)
	if !ok {
		t.Fatalf("private key is not a crypto.Signer")
	}
	msg := bytes.Repeat([]byte{0x03}, 16)

	// A nil reader selects deterministic signing.
	sig, err := signer.Sign(nil, msg, nil)
	if err != nil {
		t.Fatalf("signer.Sign(nil, msg, nil) err = %v, want nil", err)
	}
	digest := sha256.Sum256(sig)
	if got := hex.EncodeToString(digest[:]); got != wantSHA256 {
		t.Errorf("SHA-256(signer.Sign(nil, msg, nil)) = %s, want %s", got, wantSHA256)
	}

	ctxOpts := &slhdsa.SignerOpts{Context: []byte("ctx")}
	hedged, err := signer.Sign(rand.Reader, msg, ctxOpts)
	if err != nil {
		t.Fatalf("signer.Sign(rand.Reader, msg, ctxOpts) err = %v, want nil", err)
	}
	if !s.Verify(pk, msg, hedged, &sign.SignatureOpts{Context: "ctx"}) {
		t.Errorf("s.Verify() of a crypto.Signer signature = false, want true")
	}

	if _, err := signer.Sign(rand.Reader, msg, crypto.SHA256); err == nil {
		t.Errorf("signer.Sign(rand.Reader, msg, crypto.SHA256) err = nil, want error")
	}
	if _, err := signer.Sign(bytes.NewReader(nil), msg, nil); err == nil {
		t.Errorf("signer.Sign() with an empty reader err = nil, want error")
	}
}
