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

package signature

import (
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/internal/monitoringutil"
	"github.com/tink-crypto/tink-go-slhdsa/internal/outputprefix"
	"github.com/tink-crypto/tink-go-slhdsa/internal/prefixmap"
	"github.com/tink-crypto/tink-go-slhdsa/internal/primitiveset"
	"github.com/tink-crypto/tink-go-slhdsa/keyset"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
	"github.com/tink-crypto/tink-go-slhdsa/tink"
)

// NewVerifier returns a Verifier primitive from the given keyset handle.
func NewVerifier(handle *keyset.Handle, opts ...Option) (tink.Verifier, error) {
	ps, err := keyset.Primitives[tink.Verifier](handle)
	if err != nil {
		return nil, fmt.Errorf("verifier_factory: cannot obtain primitive set: %s", err)
	}
	return newWrappedVerifier(ps, applyOptions(opts).client)
}

// wrappedVerifier is a Verifier implementation that uses the
// underlying primitive set for verifying.
type wrappedVerifier struct {
	verifiers *prefixmap.PrefixMap[verifierAndID]
	logger    monitoring.Logger
}

type verifierAndID struct {
	verifier tink.Verifier
	keyID    uint32
}

// Asserts that wrappedVerifier implements the Verifier interface.
var _ tink.Verifier = (*wrappedVerifier)(nil)

func newWrappedVerifier(ps *primitiveset.PrimitiveSet[tink.Verifier], client monitoring.Client) (*wrappedVerifier, error) {
	verifiers := prefixmap.New[verifierAndID]()
	for _, entry := range ps.EntriesInKeysetOrder {
		if err := verifiers.Insert(string(entry.OutputPrefix()), verifierAndID{
			verifier: entry.Primitive,
			keyID:    entry.KeyID,
		}); err != nil {
			return nil, fmt.Errorf("verifier_factory: %v", err)
		}
	}
	logger, err := createVerifierLogger(ps, client)
	if err != nil {
		return nil, err
	}
	return &wrappedVerifier{
		verifiers: verifiers,
		logger:    logger,
	}, nil
}

func createVerifierLogger(ps *primitiveset.PrimitiveSet[tink.Verifier], client monitoring.Client) (monitoring.Logger, error) {
	// Only keysets which contain annotations are monitored.
	if len(ps.Annotations) == 0 {
		return &monitoringutil.DoNothingLogger{}, nil
	}
	keysetInfo, err := monitoringutil.KeysetInfoFromPrimitiveSet(ps)
	if err != nil {
		return nil, err
	}
	return client.NewLogger(monitoring.NewContext("public_key_verify", "verify", keysetInfo))
}

// Verify checks whether the given signature is a valid signature of the given data.
func (v *wrappedVerifier) Verify(signature, data []byte) error {
	prefixSize := outputprefix.Size
	if len(signature) < prefixSize {
		return fmt.Errorf("verifier_factory: invalid signature; expected at least %d bytes, got %d", prefixSize, len(signature))
	}
	// Keys whose prefix matches are tried before raw keys.
	for verifier := range v.verifiers.PrimitivesMatchingPrefix(signature) {
		if err := verifier.verifier.Verify(signature, data); err == nil {
			v.logger.Log(verifier.keyID, len(data))
			return nil
		}
	}
	v.logger.LogFailure()
	return fmt.Errorf("verifier_factory: invalid signature")
}
