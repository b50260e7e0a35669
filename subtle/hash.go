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

package subtle

import (
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"
)

var hashFuncs = map[string]func() hash.Hash{
	"SHA256":   sha256.New,
	"SHA384":   sha512.New384,
	"SHA512":   sha512.New,
	"SHA3-256": sha3.New256,
	"SHA3-512": sha3.New512,
}

// GetHashFunc returns the constructor of the named hash, or nil if the name is
// not supported.
func GetHashFunc(hashAlg string) func() hash.Hash {
	return hashFuncs[hashAlg]
}

// GetHashDigestSize returns the digest size in bytes of the named hash.
func GetHashDigestSize(hashAlg string) (uint32, error) {
	f := GetHashFunc(hashAlg)
	if f == nil {
		return 0, fmt.Errorf("invalid hash algorithm %q", hashAlg)
	}
	return uint32(f().Size()), nil
}
