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
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEncodeSignature(t *testing.T) {
	for _, p := range allParameterSets {
		t.Run(p.Name(), func(t *testing.T) {
			raw := randomBytes(t, uint32(p.SignatureLength()))
			s := p.parseSignature(raw)
			if len(s.r) != int(p.n) {
				t.Errorf("len(r) = %d, want %d", len(s.r), p.n)
			}
			if uint32(len(s.fors)) != p.k || uint32(len(s.ht)) != p.d {
				t.Errorf("len(fors), len(ht) = %d, %d, want %d, %d", len(s.fors), len(s.ht), p.k, p.d)
			}
			for _, x := range s.ht {
				if uint32(len(x.wots)) != p.len || uint32(len(x.auth)) != p.hp {
					t.Fatalf("xmss signature has %d chains and %d auth nodes, want %d and %d", len(x.wots), len(x.auth), p.len, p.hp)
				}
			}
			// The FORS secret of the first tree directly follows R.
			if diff := cmp.Diff(raw[p.n:2*p.n], s.fors[0].sk); diff != "" {
				t.Errorf("fors[0].sk mismatch (-want +got):\n%s", diff)
			}
			// The last authentication node is the tail of the signature.
			last := s.ht[p.d-1].auth[p.hp-1]
			if diff := cmp.Diff(raw[len(raw)-int(p.n):], last); diff != "" {
				t.Errorf("last auth node mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(raw, p.encode(s)); diff != "" {
				t.Errorf("encode(parseSignature()) mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParsedChunksDoNotGrowIntoNeighbours(t *testing.T) {
	p := SLH_DSA_SHAKE_128f
	raw := make([]byte, p.SignatureLength())
	s := p.parseSignature(raw)
	_ = append(s.r, 0xff)
	if raw[p.n] != 0 {
		t.Errorf("appending to r overwrote the FORS signature")
	}
}
