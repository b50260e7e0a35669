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
	"github.com/tink-crypto/tink-go-slhdsa/internal/primitiveset"
	"github.com/tink-crypto/tink-go-slhdsa/keyset"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
	"github.com/tink-crypto/tink-go-slhdsa/tink"
)

// NewSigner returns a Signer primitive from the given keyset handle.
func NewSigner(handle *keyset.Handle, opts ...Option) (tink.Signer, error) {
	ps, err := keyset.Primitives[tink.Signer](handle)
	if err != nil {
		return nil, fmt.Errorf("public_key_sign_factory: cannot obtain primitive set: %s", err)
	}
	return newWrappedSigner(ps, applyOptions(opts).client)
}

// wrappedSigner is an Signer implementation that uses the underlying primitive set for signing.
type wrappedSigner struct {
	signer      tink.Signer
	signerKeyID uint32
	logger      monitoring.Logger
}

// Asserts that wrappedSigner implements the Signer interface.
var _ tink.Signer = (*wrappedSigner)(nil)

func newWrappedSigner(ps *primitiveset.PrimitiveSet[tink.Signer], client monitoring.Client) (*wrappedSigner, error) {
	logger, err := createSignerLogger(ps, client)
	if err != nil {
		return nil, err
	}
	return &wrappedSigner{
		signer:      ps.Primary.Primitive,
		signerKeyID: ps.Primary.KeyID,
		logger:      logger,
	}, nil
}

func createSignerLogger(ps *primitiveset.PrimitiveSet[tink.Signer], client monitoring.Client) (monitoring.Logger, error) {
	// Only keysets which contain annotations are monitored.
	if len(ps.Annotations) == 0 {
		return &monitoringutil.DoNothingLogger{}, nil
	}
	keysetInfo, err := monitoringutil.KeysetInfoFromPrimitiveSet(ps)
	if err != nil {
		return nil, err
	}
	return client.NewLogger(monitoring.NewContext("public_key_sign", "sign", keysetInfo))
}

// Sign signs the given data using the primary key.
func (s *wrappedSigner) Sign(data []byte) ([]byte, error) {
	signature, err := s.signer.Sign(data)
	if err != nil {
		s.logger.LogFailure()
		return nil, err
	}
	s.logger.Log(s.signerKeyID, len(data))
	return signature, nil
}
