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

// Package prefixmap indexes primitives by the output prefix of their key.
package prefixmap

import (
	"fmt"
	"iter"

	"github.com/tink-crypto/tink-go-slhdsa/internal/outputprefix"
)

// PrefixMap groups primitives by output prefix. Keys without an output
// prefix are stored under [outputprefix.Raw].
type PrefixMap[P any] struct {
	items map[string][]P
}

// New creates a new PrefixMap.
func New[P any]() *PrefixMap[P] {
	return &PrefixMap[P]{
		items: make(map[string][]P),
	}
}

// Insert adds primitive under prefix, which is either empty or a TINK prefix.
func (m *PrefixMap[P]) Insert(prefix string, primitive P) error {
	if prefix != outputprefix.Raw && len(prefix) != outputprefix.Size {
		return fmt.Errorf("prefixmap: prefix has size %d, want %d", len(prefix), outputprefix.Size)
	}
	m.items[prefix] = append(m.items[prefix], primitive)
	return nil
}

// PrimitivesMatchingPrefix yields the candidates for an output that starts
// with the given bytes: first the primitives whose prefix matches, in
// insertion order, then every primitive without a prefix.
func (m *PrefixMap[P]) PrimitivesMatchingPrefix(output []byte) iter.Seq[P] {
	var prefixed []P
	if len(output) >= outputprefix.Size {
		prefixed = m.items[string(output[:outputprefix.Size])]
	}
	raw := m.items[outputprefix.Raw]
	return func(yield func(P) bool) {
		for _, p := range prefixed {
			if !yield(p) {
				return
			}
		}
		for _, p := range raw {
			if !yield(p) {
				return
			}
		}
	}
}
