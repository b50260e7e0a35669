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
	"fmt"
	"slices"

	"github.com/tink-crypto/tink-go-slhdsa/internal/signature/slhdsa"
	"github.com/tink-crypto/tink-go-slhdsa/key"
	"github.com/tink-crypto/tink-go-slhdsa/tink"
)

type options struct {
	context       []byte
	deterministic bool
	preHash       slhdsa.PreHash
}

// Option configures a signer or verifier.
type Option func(*options) error

// WithContext binds signatures to ctx, which must be at most 255 bytes. A
// signature made with one context does not verify under another.
func WithContext(ctx []byte) Option {
	return func(o *options) error {
		if len(ctx) > slhdsa.MaxContextLength {
			return fmt.Errorf("context is %d bytes, at most %d allowed", len(ctx), slhdsa.MaxContextLength)
		}
		o.context = slices.Clone(ctx)
		return nil
	}
}

// WithDeterministicSigning makes the signer use PK.seed instead of fresh
// randomness as opt_rand. Verifiers ignore it.
func WithDeterministicSigning() Option {
	return func(o *options) error {
		o.deterministic = true
		return nil
	}
}

// WithPreHash switches to HashSLH-DSA: the message is hashed with ph and the
// digest is signed together with the OID of ph.
func WithPreHash(ph slhdsa.PreHash) Option {
	return func(o *options) error {
		if _, err := ph.OID(); err != nil {
			return err
		}
		o.preHash = ph
		return nil
	}
}

func applyOptions(opts []Option) (*options, error) {
	o := new(options)
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// signer is an implementation of [tink.Signer] for SLH-DSA.
type signer struct {
	secretKey *slhdsa.SecretKey
	prefix    []byte
	opts      *options
}

var _ tink.Signer = (*signer)(nil)

// NewSigner creates a new [tink.Signer] for SLH-DSA.
func NewSigner(privateKey *PrivateKey, opts ...Option) (tink.Signer, error) {
	if privateKey == nil {
		return nil, fmt.Errorf("slhdsa.NewSigner: privateKey must not be nil")
	}
	o, err := applyOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewSigner: %w", err)
	}
	secretKey, err := privateKey.decode()
	if err != nil {
		return nil, fmt.Errorf("slhdsa.NewSigner: %w", err)
	}
	return &signer{
		secretKey: secretKey,
		prefix:    privateKey.OutputPrefix(),
		opts:      o,
	}, nil
}

func (e *signer) signRaw(data []byte) ([]byte, error) {
	ctx := e.opts.context
	switch {
	case e.opts.preHash != slhdsa.PreHashUnknown && e.opts.deterministic:
		return e.secretKey.SignPreHashDeterministic(data, ctx, e.opts.preHash)
	case e.opts.preHash != slhdsa.PreHashUnknown:
		return e.secretKey.SignPreHash(data, ctx, e.opts.preHash)
	case e.opts.deterministic:
		return e.secretKey.SignDeterministic(data, ctx)
	default:
		return e.secretKey.Sign(data, ctx)
	}
}

// Sign computes a signature for the given data.
//
// If the key has a prefix, the signature will be prefixed with the output
// prefix.
func (e *signer) Sign(data []byte) ([]byte, error) {
	r, err := e.signRaw(data)
	if err != nil {
		return nil, err
	}
	return slices.Concat(e.prefix, r), nil
}

func signerConstructor(k key.Key) (any, error) {
	that, ok := k.(*PrivateKey)
	if !ok {
		return nil, fmt.Errorf("key is not a %T", (*PrivateKey)(nil))
	}
	return NewSigner(that)
}
