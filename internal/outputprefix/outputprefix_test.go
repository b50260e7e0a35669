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

package outputprefix_test

import (
	"bytes"
	"testing"

	"github.com/tink-crypto/tink-go-slhdsa/internal/outputprefix"
)

func TestTink(t *testing.T) {
	for _, tc := range []struct {
		keyID uint32
		want  []byte
	}{
		{0, []byte{0x01, 0x00, 0x00, 0x00, 0x00}},
		{0x01020304, []byte{0x01, 0x01, 0x02, 0x03, 0x04}},
		{0xffffffff, []byte{0x01, 0xff, 0xff, 0xff, 0xff}},
	} {
		got := outputprefix.Tink(tc.keyID)
		if !bytes.Equal(got, tc.want) {
			t.Errorf("outputprefix.Tink(%#x) = %x, want %x", tc.keyID, got, tc.want)
		}
		id, ok := outputprefix.KeyID(append(got, 0xaa, 0xbb))
		if !ok || id != tc.keyID {
			t.Errorf("outputprefix.KeyID(%x) = %#x, %v, want %#x, true", got, id, ok, tc.keyID)
		}
	}
}

func TestKeyIDRejects(t *testing.T) {
	for _, output := range [][]byte{
		nil,
		{0x01, 0x02, 0x03, 0x04},
		{0x00, 0x01, 0x02, 0x03, 0x04},
	} {
		if _, ok := outputprefix.KeyID(output); ok {
			t.Errorf("outputprefix.KeyID(%x) ok = true, want false", output)
		}
	}
}
