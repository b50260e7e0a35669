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

// Package signature provides keyset-level implementations of the Signer and
// Verifier primitives.
//
// The keys of a keyset are SLH-DSA keys, see package slhdsa. A signer signs
// with the primary key of the keyset; a verifier accepts a signature made by
// any enabled key.
package signature

import (
	"github.com/tink-crypto/tink-go-slhdsa/internal/monitoringutil"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
	_ "github.com/tink-crypto/tink-go-slhdsa/signature/slhdsa" // register slhdsa keys and primitives
)

type options struct {
	client monitoring.Client
}

// Option configures NewSigner and NewVerifier.
type Option func(*options)

// WithMonitoringClient reports every sign or verify call to client.
//
// Only keysets which contain annotations are monitored.
func WithMonitoringClient(client monitoring.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

func applyOptions(opts []Option) *options {
	o := &options{client: &monitoringutil.DoNothingClient{}}
	for _, opt := range opts {
		opt(o)
	}
	if o.client == nil {
		o.client = &monitoringutil.DoNothingClient{}
	}
	return o
}
