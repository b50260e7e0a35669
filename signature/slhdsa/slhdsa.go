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

// Package slhdsa provides SLH-DSA (FIPS 205) keys, parameters, signers and
// verifiers, together with their proto, PKCS#8 and SubjectPublicKeyInfo
// encodings and a [sign.Scheme] for every parameter set.
//
// Importing the package registers its key types with the keyset and
// signature packages.
//
// [sign.Scheme]: https://pkg.go.dev/github.com/cloudflare/circl/sign#Scheme
package slhdsa

import (
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/internal/keygenregistry"
	"github.com/tink-crypto/tink-go-slhdsa/internal/primitiveregistry"
	"github.com/tink-crypto/tink-go-slhdsa/internal/protoserialization"
	"github.com/tink-crypto/tink-go-slhdsa/internal/signature/slhdsa"
)

// PreHash identifies the hash function of HashSLH-DSA. See [WithPreHash].
type PreHash = slhdsa.PreHash

// Pre-hash functions approved for HashSLH-DSA. PreHashUnknown is the zero
// value and selects pure SLH-DSA where an option is optional.
const (
	PreHashUnknown    = slhdsa.PreHashUnknown
	PreHashSHA256     = slhdsa.PreHashSHA256
	PreHashSHA384     = slhdsa.PreHashSHA384
	PreHashSHA512     = slhdsa.PreHashSHA512
	PreHashSHA224     = slhdsa.PreHashSHA224
	PreHashSHA512_224 = slhdsa.PreHashSHA512_224
	PreHashSHA512_256 = slhdsa.PreHashSHA512_256
	PreHashSHA3_224   = slhdsa.PreHashSHA3_224
	PreHashSHA3_256   = slhdsa.PreHashSHA3_256
	PreHashSHA3_384   = slhdsa.PreHashSHA3_384
	PreHashSHA3_512   = slhdsa.PreHashSHA3_512
	PreHashSHAKE128   = slhdsa.PreHashSHAKE128
	PreHashSHAKE256   = slhdsa.PreHashSHAKE256
)

// MaxContextLength is the longest context string accepted by [WithContext].
const MaxContextLength = slhdsa.MaxContextLength

// ParameterSetNames returns the names of the twelve parameter sets, in the
// order of the FIPS 205 parameter table.
func ParameterSetNames() []string {
	var names []string
	for _, set := range slhdsa.ParameterSets() {
		names = append(names, set.Name())
	}
	return names
}

func init() {
	if err := protoserialization.RegisterKeySerializer[*PublicKey](&publicKeySerializer{}); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := protoserialization.RegisterKeyParser(verifierTypeURL, &publicKeyParser{}); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := protoserialization.RegisterKeySerializer[*PrivateKey](&privateKeySerializer{}); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := protoserialization.RegisterKeyParser(signerTypeURL, &privateKeyParser{}); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := protoserialization.RegisterParametersSerializer[*Parameters](&parametersSerializer{}); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := protoserialization.RegisterParametersParser(signerTypeURL, &parametersParser{}); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := primitiveregistry.RegisterPrimitiveConstructor[*PublicKey](verifierConstructor); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := primitiveregistry.RegisterPrimitiveConstructor[*PrivateKey](signerConstructor); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
	if err := keygenregistry.RegisterKeyCreator[*Parameters](createPrivateKey); err != nil {
		panic(fmt.Sprintf("slhdsa.init() failed: %v", err))
	}
}
