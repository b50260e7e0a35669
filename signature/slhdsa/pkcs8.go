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
	encasn1 "encoding/asn1"
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
	"github.com/tink-crypto/tink-go-slhdsa/secretdata"
	"golang.org/x/crypto/cryptobyte"
	"golang.org/x/crypto/cryptobyte/asn1"
)

// Object identifiers from the NIST CSOR registry, 2.16.840.1.101.3.4.3.20
// through .31.
var oidByName = map[string]encasn1.ObjectIdentifier{
	"SLH-DSA-SHA2-128s":  {2, 16, 840, 1, 101, 3, 4, 3, 20},
	"SLH-DSA-SHA2-128f":  {2, 16, 840, 1, 101, 3, 4, 3, 21},
	"SLH-DSA-SHA2-192s":  {2, 16, 840, 1, 101, 3, 4, 3, 22},
	"SLH-DSA-SHA2-192f":  {2, 16, 840, 1, 101, 3, 4, 3, 23},
	"SLH-DSA-SHA2-256s":  {2, 16, 840, 1, 101, 3, 4, 3, 24},
	"SLH-DSA-SHA2-256f":  {2, 16, 840, 1, 101, 3, 4, 3, 25},
	"SLH-DSA-SHAKE-128s": {2, 16, 840, 1, 101, 3, 4, 3, 26},
	"SLH-DSA-SHAKE-128f": {2, 16, 840, 1, 101, 3, 4, 3, 27},
	"SLH-DSA-SHAKE-192s": {2, 16, 840, 1, 101, 3, 4, 3, 28},
	"SLH-DSA-SHAKE-192f": {2, 16, 840, 1, 101, 3, 4, 3, 29},
	"SLH-DSA-SHAKE-256s": {2, 16, 840, 1, 101, 3, 4, 3, 30},
	"SLH-DSA-SHAKE-256f": {2, 16, 840, 1, 101, 3, 4, 3, 31},
}

// OID returns the object identifier of the parameter set.
func (p *Parameters) OID() encasn1.ObjectIdentifier {
	return append(encasn1.ObjectIdentifier(nil), oidByName[p.set.Name()]...)
}

func parametersForOID(oid encasn1.ObjectIdentifier) (*Parameters, error) {
	for name, candidate := range oidByName {
		if candidate.Equal(oid) {
			return NewParametersFromName(name, VariantNoPrefix)
		}
	}
	return nil, fmt.Errorf("unsupported algorithm %v", oid)
}

func addAlgorithmIdentifier(b *cryptobyte.Builder, oid encasn1.ObjectIdentifier) {
	// The parameters field is absent.
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1ObjectIdentifier(oid)
	})
}

func readAlgorithmIdentifier(s *cryptobyte.String) (*Parameters, error) {
	var algID cryptobyte.String
	var oid encasn1.ObjectIdentifier
	if !s.ReadASN1(&algID, asn1.SEQUENCE) || !algID.ReadASN1ObjectIdentifier(&oid) {
		return nil, fmt.Errorf("malformed algorithm identifier")
	}
	if !algID.Empty() {
		return nil, fmt.Errorf("algorithm parameters must be absent")
	}
	return parametersForOID(oid)
}

// MarshalPKIXPublicKey encodes k as a DER SubjectPublicKeyInfo. The key ID of
// TINK keys is not part of the encoding.
func MarshalPKIXPublicKey(k *PublicKey) ([]byte, error) {
	if k == nil || k.params == nil {
		return nil, fmt.Errorf("slhdsa.MarshalPKIXPublicKey: key must not be nil")
	}
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		addAlgorithmIdentifier(b, k.params.OID())
		b.AddASN1BitString(k.keyBytes)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("slhdsa.MarshalPKIXPublicKey: %w", err)
	}
	return der, nil
}

// ParsePKIXPublicKey decodes a DER SubjectPublicKeyInfo. The result has the
// NO_PREFIX variant.
func ParsePKIXPublicKey(der []byte) (*PublicKey, error) {
	s := cryptobyte.String(der)
	var spki cryptobyte.String
	if !s.ReadASN1(&spki, asn1.SEQUENCE) || !s.Empty() {
		return nil, fmt.Errorf("slhdsa.ParsePKIXPublicKey: malformed SubjectPublicKeyInfo")
	}
	params, err := readAlgorithmIdentifier(&spki)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.ParsePKIXPublicKey: %w", err)
	}
	var bits encasn1.BitString
	if !spki.ReadASN1BitString(&bits) || !spki.Empty() || bits.BitLength%8 != 0 {
		return nil, fmt.Errorf("slhdsa.ParsePKIXPublicKey: malformed subjectPublicKey")
	}
	pk, err := NewPublicKey(bits.Bytes, 0, params)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.ParsePKIXPublicKey: %w", err)
	}
	return pk, nil
}

// MarshalPKCS8PrivateKey encodes k as a DER OneAsymmetricKey (version 0). The
// privateKey field holds SK.seed || SK.prf || PK.seed || PK.root directly.
//
// The result contains secret key material.
func MarshalPKCS8PrivateKey(k *PrivateKey) ([]byte, error) {
	if k == nil || k.publicKey == nil {
		return nil, fmt.Errorf("slhdsa.MarshalPKCS8PrivateKey: key must not be nil")
	}
	raw := k.keyBytes.Data(insecuresecretdataaccess.Token{})
	defer clear(raw)
	var b cryptobyte.Builder
	b.AddASN1(asn1.SEQUENCE, func(b *cryptobyte.Builder) {
		b.AddASN1Int64(0)
		addAlgorithmIdentifier(b, k.publicKey.params.OID())
		b.AddASN1OctetString(raw)
	})
	der, err := b.Bytes()
	if err != nil {
		return nil, fmt.Errorf("slhdsa.MarshalPKCS8PrivateKey: %w", err)
	}
	return der, nil
}

var (
	attributesTag = asn1.Tag(0).ContextSpecific().Constructed()
	publicKeyTag  = asn1.Tag(1).ContextSpecific()
)

// ParsePKCS8PrivateKey decodes a DER OneAsymmetricKey of version 0 or 1. If
// the optional public key is present it must match the one derived from the
// private key. The result has the NO_PREFIX variant.
func ParsePKCS8PrivateKey(der []byte) (*PrivateKey, error) {
	s := cryptobyte.String(der)
	var oak cryptobyte.String
	var version int64
	if !s.ReadASN1(&oak, asn1.SEQUENCE) || !s.Empty() || !oak.ReadASN1Integer(&version) {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: malformed OneAsymmetricKey")
	}
	if version != 0 && version != 1 {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: unsupported version %d", version)
	}
	params, err := readAlgorithmIdentifier(&oak)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: %w", err)
	}
	var raw cryptobyte.String
	if !oak.ReadASN1(&raw, asn1.OCTET_STRING) {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: malformed privateKey")
	}
	if !oak.SkipOptionalASN1(attributesTag) {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: malformed attributes")
	}
	var pub cryptobyte.String
	var hasPub bool
	if !oak.ReadOptionalASN1(&pub, &hasPub, publicKeyTag) || !oak.Empty() {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: malformed publicKey")
	}
	if hasPub && version != 1 {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: publicKey requires version 1")
	}
	priv, err := NewPrivateKey(secretdata.NewBytesFromData(raw, insecuresecretdataaccess.Token{}), 0, params)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: %w", err)
	}
	if hasPub {
		// BIT STRING contents: a zero unused-bits byte, then the key.
		var unused uint8
		if !pub.ReadUint8(&unused) || unused != 0 {
			return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: malformed publicKey")
		}
		if string(pub) != string(priv.publicKey.keyBytes) {
			return nil, fmt.Errorf("slhdsa.ParsePKCS8PrivateKey: publicKey does not match privateKey")
		}
	}
	return priv, nil
}
