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
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/internal/signature/slhdsa"
	"github.com/tink-crypto/tink-go-slhdsa/key"
	"github.com/tink-crypto/tink-go-slhdsa/tink"
)

// verifier is an implementation of [tink.Verifier] for SLH-DSA.
type verifier struct {
	publicKey *slhdsa.PublicKey
	prefix    []byte
	opts      *options
}

var _ tink.Verifier = (*verifier)(nil)

// NewVerifier creates a new [tink.Verifier] for SLH-DSA. The options must
// match those the signer was created with; WithDeterministicSigning has no
// effect.
func NewVerifier(publicKey *PublicKey, opts ...Option) (tink.Verifier, error) {
	if publicKey == nil {
		return nil, fmt.Errorf("slhdsa.NewVerifier: publicKey must not be nil")
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewVerifier: %w", err)
	}
	pubKey, err := publicKey.decode()
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewVerifier: %w", err)
	}
	return &verifier{
		publicKey: pubKey,
		prefix:    publicKey.OutputPrefix(),
		opts:      o,
	}, nil
}

// Verify verifies whether the given signature is valid for the given data.
//
// It returns an error if the prefix is not valid or the signature is not
// valid.
func (v *verifier) Verify(signature, data []byte) error {
	if !bytes.HasPrefix(signature, v.prefix) {
		return fmt.Errorf("the signature does not have the expected prefix")
	}
	sig := signature[len(v.prefix):]
	if v.opts.preHash != slhdsa.PreHashUnknown {
		return v.publicKey.VerifyPreHash(data, sig, v.opts.context, v.opts.preHash)
	}
	return v.publicKey.Verify(data, sig, v.opts.context)
}

func verifierConstructor(k key.Key) (any, error) {
	publicKey, ok := k.(*PublicKey)
	if !ok {
		return nil, fmt.Errorf("key is not a %T", (*PublicKey)(nil))
	}
	return NewVerifier(publicKey)
}
