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

// Package secretdata provides an access-controlled wrapper for secret key
// material such as the SK.seed and SK.prf of an SLH-DSA private key.
//
// Reading the wrapped bytes requires an [insecuresecretdataaccess.Token].
// Together with build restrictions on who may import
// insecuresecretdataaccess, this confines access to secret key bytes to a
// known set of packages.
package secretdata

import (
	"bytes"
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"

	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
)

// Bytes wraps secret bytes. A copy of the data is only handed out in exchange
// for an [insecuresecretdataaccess.Token].
//
// The wrapped bytes are immutable except for [Bytes.Destroy]. Copies of a
// Bytes value share the wrapped buffer, so destroying one destroys all.
//
// The zero value wraps no bytes.
type Bytes struct {
	data []byte
}

// NewBytesFromReader reads size bytes from r and wraps them.
func NewBytesFromReader(r io.Reader, size int) (Bytes, error) {
	if size < 0 {
		return Bytes{}, fmt.Errorf("secretdata.NewBytesFromReader: negative size %d", size)
	}
	data := make([]byte, size)
	if _, err := io.ReadFull(r, data); err != nil {
		clear(data)
		return Bytes{}, fmt.Errorf("secretdata.NewBytesFromReader: %w", err)
	}
	return Bytes{data: data}, nil
}

// NewBytesFromRand wraps size bytes read from crypto/rand.
func NewBytesFromRand(size uint32) (Bytes, error) {
	return NewBytesFromReader(rand.Reader, int(size))
}

// NewBytesFromData creates a Bytes holding a copy of data. Later changes to
// data do not affect the returned value, and the caller may clear data once
// this returns.
//
// It requires an [insecuresecretdataaccess.Token] since it turns plain bytes
// into key material.
func NewBytesFromData(data []byte, _ insecuresecretdataaccess.Token) Bytes {
	return Bytes{data: bytes.Clone(data)}
}

// Data returns a copy of the wrapped bytes.
//
// It requires an [insecuresecretdataaccess.Token] value to access the data.
// The caller owns the copy and should clear it when done.
func (b Bytes) Data(_ insecuresecretdataaccess.Token) []byte { return bytes.Clone(b.data) }

// Len returns the number of wrapped bytes.
func (b Bytes) Len() int { return len(b.data) }

// Equal reports whether b and other wrap the same bytes.
//
// The comparison is done in constant time: the time taken depends on the
// length of the wrapped bytes, not on their contents. If the lengths differ,
// Equal returns false immediately.
func (b Bytes) Equal(other Bytes) bool {
	return subtle.ConstantTimeCompare(b.data, other.data) == 1
}

// Destroy overwrites the wrapped buffer with zeros. Every copy of b observes
// the zeroed buffer afterwards.
func (b Bytes) Destroy() { clear(b.data) }
