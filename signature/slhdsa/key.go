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
	"bytes"
	"crypto/rand"
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
	"github.com/tink-crypto/tink-go-slhdsa/internal/outputprefix"
	"github.com/tink-crypto/tink-go-slhdsa/internal/signature/slhdsa"
	"github.com/tink-crypto/tink-go-slhdsa/key"
	"github.com/tink-crypto/tink-go-slhdsa/secretdata"
)

// Variant is the prefix variant of a SLH-DSA key.
//
// It describes the format of the signature. For SLH-DSA, there are two options:
//
//   - TINK: prepends '0x01<big endian key id>' to the signature.
//   - NO_PREFIX: adds no prefix to the signature.
type Variant int

const (
	// VariantUnknown is the default value of Variant.
	VariantUnknown Variant = iota
	// VariantTink prefixes '0x01<big endian key id>' to the signature.
	VariantTink
	// VariantNoPrefix does not prefix the signature with the key id.
	VariantNoPrefix
)

func (variant Variant) String() string {
	switch variant {
	case VariantTink:
		return "TINK"
	case VariantNoPrefix:
		return "NO_PREFIX"
	default:
		return "UNKNOWN"
	}
}

// HashType selects the hash family of the parameter set.
type HashType int

const (
	// UnknownHashType is the default value of HashType.
	UnknownHashType HashType = iota
	// SHA2 selects SHA-256 (and SHA-512 above category 1).
	SHA2
	// SHAKE selects SHAKE256.
	SHAKE
)

func (h HashType) String() string {
	switch h {
	case SHA2:
		return "SHA2"
	case SHAKE:
		return "SHAKE"
	default:
		return "UNKNOWN"
	}
}

// SignatureType trades signature size against signing speed.
type SignatureType int

const (
	// UnknownSignatureType is the default value of SignatureType.
	UnknownSignatureType SignatureType = iota
	// FastSigning selects the "f" parameter sets.
	FastSigning
	// SmallSignature selects the "s" parameter sets.
	SmallSignature
)

func (s SignatureType) String() string {
	switch s {
	case FastSigning:
		return "f"
	case SmallSignature:
		return "s"
	default:
		return "UNKNOWN"
	}
}

// Parameters represents the parameters of a SLH-DSA key.
//
// The key size is the length of the private key: 64, 96 or 128 bytes for
// security categories 1, 3 and 5. Together with the hash type and signature
// type it selects one of the twelve FIPS 205 parameter sets; for example
// (SHA2, 64, SmallSignature) is SLH-DSA-SHA2-128s.
type Parameters struct {
	hashType HashType
	keySize  int
	sigType  SignatureType
	variant  Variant
	set      *slhdsa.ParameterSet
}

var _ key.Parameters = (*Parameters)(nil)

func parameterSetFor(hashType HashType, keySize int, sigType SignatureType) (*slhdsa.ParameterSet, error) {
	if hashType != SHA2 && hashType != SHAKE {
		return nil, fmt.Errorf("unsupported hash type: %v", hashType)
	}
	if keySize != 64 && keySize != 96 && keySize != 128 {
		return nil, fmt.Errorf("unsupported key size: %v", keySize)
	}
	if sigType != FastSigning && sigType != SmallSignature {
		return nil, fmt.Errorf("unsupported signature type: %v", sigType)
	}
	// The security level in bits is 8*n and the private key is 4*n bytes.
	name := fmt.Sprintf("SLH-DSA-%v-%d%v", hashType, keySize*2, sigType)
	set, ok := slhdsa.ParameterSetByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown parameter set %q", name)
	}
	return set, nil
}

// NewParameters creates a new Parameters.
func NewParameters(hashType HashType, keySize int, sigType SignatureType, variant Variant) (*Parameters, error) {
	set, err := parameterSetFor(hashType, keySize, sigType)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewParameters: %w", err)
	}
	if variant != VariantTink && variant != VariantNoPrefix {
		return nil, fmt.Errorf("slhdsa.NewParameters: unsupported variant: %v", variant)
	}
	return &Parameters{
		hashType: hashType,
		keySize:  keySize,
		sigType:  sigType,
		variant:  variant,
		set:      set,
	}, nil
}

// NewParametersFromName creates the Parameters of the parameter set called
// name, e.g. "SLH-DSA-SHAKE-192f".
func NewParametersFromName(name string, variant Variant) (*Parameters, error) {
	set, ok := slhdsa.ParameterSetByName(name)
	if !ok {
		return nil, fmt.Errorf("slhdsa.NewParametersFromName: unknown parameter set %q", name)
	}
	return parametersForSet(set, variant)
}

func parametersForSet(set *slhdsa.ParameterSet, variant Variant) (*Parameters, error) {
	for _, h := range []HashType{SHA2, SHAKE} {
		for _, s := range []SignatureType{FastSigning, SmallSignature} {
			p, err := NewParameters(h, set.SecretKeyLength(), s, variant)
			if err != nil {
				return nil, err
			}
			if p.set == set {
				return p, nil
			}
		}
	}
	return nil, fmt.Errorf("no parameters for %v", set)
}

// HashType returns the hash type.
func (p *Parameters) HashType() HashType { return p.hashType }

// KeySize returns the private key size in bytes.
func (p *Parameters) KeySize() int { return p.keySize }

// SignatureType returns the signature type.
func (p *Parameters) SignatureType() SignatureType { return p.sigType }

// Variant returns the prefix variant of the parameters.
func (p *Parameters) Variant() Variant { return p.variant }

// Name returns the FIPS 205 name of the parameter set, e.g.
// "SLH-DSA-SHA2-128s".
func (p *Parameters) Name() string { return p.set.Name() }

// SignatureSize returns the length of signatures, including the output prefix.
func (p *Parameters) SignatureSize() int {
	if p.variant == VariantTink {
		return outputprefix.Size + p.set.SignatureLength()
	}
	return p.set.SignatureLength()
}

func (p *Parameters) String() string { return fmt.Sprintf("%v (%v)", p.set.Name(), p.variant) }

// HasIDRequirement returns true if the key has an ID requirement.
func (p *Parameters) HasIDRequirement() bool { return p.variant != VariantNoPrefix }

// Equal returns true if this parameters object is equal to other.
func (p *Parameters) Equal(other key.Parameters) bool {
	that, ok := other.(*Parameters)
	return ok && p.hashType == that.hashType &&
		p.keySize == that.keySize &&
		p.sigType == that.sigType &&
		p.variant == that.variant
}

// PublicKey represents a SLH-DSA public key.
type PublicKey struct {
	keyBytes      []byte
	idRequirement uint32
	params        *Parameters
	outputPrefix  []byte
}

var _ key.Key = (*PublicKey)(nil)

func calculateOutputPrefix(variant Variant, keyID uint32) ([]byte, error) {
	switch variant {
	case VariantTink:
		return outputprefix.Tink(keyID), nil
	case VariantNoPrefix:
		return nil, nil
	default:
		return nil, fmt.Errorf("invalid output prefix variant: %v", variant)
	}
}

// NewPublicKey creates a new SLH-DSA public key from PK.seed || PK.root.
//
// idRequirement is the ID of the key in the keyset. It must be zero if params
// doesn't have an ID requirement.
func NewPublicKey(keyBytes []byte, idRequirement uint32, params *Parameters) (*PublicKey, error) {
	if params == nil || params.set == nil {
		return nil, fmt.Errorf("slhdsa.NewPublicKey: params must be created with NewParameters")
	}
	if !params.HasIDRequirement() && idRequirement != 0 {
		return nil, fmt.Errorf("slhdsa.NewPublicKey: idRequirement must be zero if params doesn't have an ID requirement")
	}
	if got, want := len(keyBytes), params.set.PublicKeyLength(); got != want {
		return nil, fmt.Errorf("slhdsa.NewPublicKey: invalid public key length %d, want %d", got, want)
	}
	outputPrefix, err := calculateOutputPrefix(params.variant, idRequirement)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewPublicKey: %w", err)
	}
	return &PublicKey{
		keyBytes:      bytes.Clone(keyBytes),
		idRequirement: idRequirement,
		params:        params,
		outputPrefix:  outputPrefix,
	}, nil
}

// KeyBytes returns the public key bytes.
func (k *PublicKey) KeyBytes() []byte { return bytes.Clone(k.keyBytes) }

// OutputPrefix returns the output prefix of this key.
func (k *PublicKey) OutputPrefix() []byte { return bytes.Clone(k.outputPrefix) }

// Parameters returns the parameters of the key.
func (k *PublicKey) Parameters() key.Parameters { return k.params }

// IDRequirement returns the ID requirement of the key, and whether it is
// required.
func (k *PublicKey) IDRequirement() (uint32, bool) {
	return k.idRequirement, k.params.HasIDRequirement()
}

// Equal returns true if this key is equal to other.
func (k *PublicKey) Equal(other key.Key) bool {
	if k == other {
		return true
	}
	that, ok := other.(*PublicKey)
	return ok && k.params.Equal(that.Parameters()) &&
		bytes.Equal(k.keyBytes, that.keyBytes) &&
		k.idRequirement == that.idRequirement
}

func (k *PublicKey) decode() (*slhdsa.PublicKey, error) {
	return k.params.set.DecodePublicKey(k.keyBytes)
}

// PrivateKey represents a SLH-DSA private key.
type PrivateKey struct {
	publicKey *PublicKey
	// keyBytes is SK.seed || SK.prf || PK.seed || PK.root.
	keyBytes secretdata.Bytes
}

var _ key.Key = (*PrivateKey)(nil)

// publicKeyBytes decodes privateKeyBytes, which recomputes PK.root from the
// seeds, and returns the encoded public key.
func publicKeyBytes(privateKeyBytes secretdata.Bytes, params *Parameters) ([]byte, error) {
	if got, want := privateKeyBytes.Len(), params.set.SecretKeyLength(); got != want {
		return nil, fmt.Errorf("invalid private key length %d, want %d", got, want)
	}
	raw := privateKeyBytes.Data(insecuresecretdataaccess.Token{})
	defer clear(raw)
	sk, err := params.set.DecodeSecretKey(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid private key bytes: %w", err)
	}
	defer sk.Destroy()
	return sk.PublicKey().Encode(), nil
}

// NewPrivateKey creates a new SLH-DSA private key from privateKeyBytes, with
// idRequirement and params.
//
// Creating the key recomputes the hypertree root, which takes as long as key
// generation.
func NewPrivateKey(privateKeyBytes secretdata.Bytes, idRequirement uint32, params *Parameters) (*PrivateKey, error) {
	if params == nil || params.set == nil {
		return nil, fmt.Errorf("slhdsa.NewPrivateKey: params must be created with NewParameters")
	}
	pubKeyBytes, err := publicKeyBytes(privateKeyBytes, params)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewPrivateKey: %w", err)
	}
	pubKey, err := NewPublicKey(pubKeyBytes, idRequirement, params)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewPrivateKey: %w", err)
	}
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  privateKeyBytes,
	}, nil
}

// NewPrivateKeyWithPublicKey creates a new SLH-DSA private key from
// privateKeyBytes and a [PublicKey].
func NewPrivateKeyWithPublicKey(privateKeyBytes secretdata.Bytes, pubKey *PublicKey) (*PrivateKey, error) {
	if pubKey == nil {
		return nil, fmt.Errorf("slhdsa.NewPrivateKeyWithPublicKey: pubKey must not be nil")
	}
	if pubKey.params == nil || pubKey.params.set == nil {
		return nil, fmt.Errorf("slhdsa.NewPrivateKeyWithPublicKey: pubKey.params must be created with NewParameters")
	}
	pubKeyBytes, err := publicKeyBytes(privateKeyBytes, pubKey.params)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewPrivateKeyWithPublicKey: %w", err)
	}
	if !bytes.Equal(pubKeyBytes, pubKey.keyBytes) {
		return nil, fmt.Errorf("slhdsa.NewPrivateKeyWithPublicKey: public key does not match private key")
	}
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  privateKeyBytes,
	}, nil
}

// GeneratePrivateKey creates a fresh private key for params using
// crypto/rand.
func GeneratePrivateKey(params *Parameters, idRequirement uint32) (*PrivateKey, error) {
	if params == nil || params.set == nil {
		return nil, fmt.Errorf("slhdsa.GeneratePrivateKey: params must be created with NewParameters")
	}
	sk, pk, err := params.set.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.GeneratePrivateKey: %w", err)
	}
	defer sk.Destroy()
	return newPrivateKeyFromCore(sk, pk, idRequirement, params)
}

func newPrivateKeyFromCore(sk *slhdsa.SecretKey, pk *slhdsa.PublicKey, idRequirement uint32, params *Parameters) (*PrivateKey, error) {
	pubKey, err := NewPublicKey(pk.Encode(), idRequirement, params)
	if err != nil {
		return nil, err
	}
	raw := sk.Encode()
	defer clear(raw)
	return &PrivateKey{
		publicKey: pubKey,
		keyBytes:  secretdata.NewBytesFromData(raw, insecuresecretdataaccess.Token{}),
	}, nil
}

// PrivateKeyBytes returns SK.seed || SK.prf || PK.seed || PK.root.
func (k *PrivateKey) PrivateKeyBytes() secretdata.Bytes { return k.keyBytes }

// PublicKey returns the public key of the key.
func (k *PrivateKey) PublicKey() (key.Key, error) { return k.publicKey, nil }

// Parameters returns the parameters of the key.
func (k *PrivateKey) Parameters() key.Parameters { return k.publicKey.params }

// IDRequirement returns the ID requirement of the key, and whether it is
// required.
func (k *PrivateKey) IDRequirement() (uint32, bool) { return k.publicKey.IDRequirement() }

// OutputPrefix returns the output prefix of this key.
func (k *PrivateKey) OutputPrefix() []byte { return bytes.Clone(k.publicKey.outputPrefix) }

// Equal returns true if this key is equal to other.
func (k *PrivateKey) Equal(other key.Key) bool {
	if k == other {
		return true
	}
	that, ok := other.(*PrivateKey)
	return ok && k.publicKey.Equal(that.publicKey) &&
		k.keyBytes.Equal(that.keyBytes)
}

// decode returns the core secret key. The caller must Destroy it.
func (k *PrivateKey) decode() (*slhdsa.SecretKey, error) {
	raw := k.keyBytes.Data(insecuresecretdataaccess.Token{})
	defer clear(raw)
	return k.publicKey.params.set.DecodeSecretKey(raw)
}

func createPrivateKey(p key.Parameters, idRequirement uint32) (key.Key, error) {
	params, ok := p.(*Parameters)
	if !ok {
		return nil, fmt.Errorf("invalid parameters type: %T", p)
	}
	if !params.HasIDRequirement() {
		idRequirement = 0
	}
	return GeneratePrivateKey(params, idRequirement)
}
