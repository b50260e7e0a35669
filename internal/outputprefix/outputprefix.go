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

// Package outputprefix computes and parses the key ID prefix that TINK keys
// put in front of their signatures.
package outputprefix

import (
	"encoding/binary"
)

const (
	// Size is the length of a TINK output prefix.
	Size = 5
	// Raw is the prefix of keys that add nothing to their output.
	Raw = ""

	tinkStartByte = byte(1)
)

// Tink returns 0x01 followed by the big-endian keyID.
func Tink(keyID uint32) []byte {
	prefix := make([]byte, Size)
	prefix[0] = tinkStartByte
	binary.BigEndian.PutUint32(prefix[1:], keyID)
	return prefix
}

// KeyID extracts the key ID from the first Size bytes of output. It reports
// false if output does not start with a TINK prefix.
func KeyID(output []byte) (uint32, bool) {
	if len(output) < Size || output[0] != tinkStartByte {
		return 0, false
	}
	return binary.BigEndian.Uint32(output[1:Size]), true
}
