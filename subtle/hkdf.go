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

// Package subtle provides hash lookup and HKDF helpers shared by the key
// derivation code.
package subtle

import (
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// minOutputSize is the smallest HKDF output accepted, giving at least 80 bits
// of security.
const minOutputSize = uint32(10)

// ComputeHKDF runs HKDF-Extract and HKDF-Expand with hashAlg and returns
// outputSize bytes. An empty salt is replaced by a string of zeros as long as
// the digest.
func ComputeHKDF(hashAlg string, key []byte, salt []byte, info []byte, outputSize uint32) ([]byte, error) {
	digestSize, err := GetHashDigestSize(hashAlg)
	if err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	if outputSize > 255*digestSize {
		return nil, fmt.Errorf("hkdf: output size %d too big", outputSize)
	}
	if outputSize < minOutputSize {
		return nil, fmt.Errorf("hkdf: output size %d too small", outputSize)
	}
	hashFunc := GetHashFunc(hashAlg)
	if hashFunc == nil {
		return nil, fmt.Errorf("hkdf: invalid hash algorithm %q", hashAlg)
	}
	if len(salt) == 0 {
		salt = make([]byte, digestSize)
	}
	result := make([]byte, outputSize)
	if _, err := io.ReadFull(hkdf.New(hashFunc, key, salt, info), result); err != nil {
		return nil, fmt.Errorf("hkdf: %w", err)
	}
	return result, nil
}
