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

// Package primitiveset holds the primitives built from a set of keys, indexed
// by their output prefix, with one of them marked primary.
package primitiveset

import (
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/internal/outputprefix"
	"github.com/tink-crypto/tink-go-slhdsa/key"
)

// Entry is one key of the set together with the primitive built from it.
type Entry[T any] struct {
	KeyID     uint32
	Primitive T
	Key       key.Key
	// KeyType names the key type in monitoring output, e.g.
	// "tink.SlhDsaPrivateKey".
	KeyType   string
	IsPrimary bool
}

// OutputPrefix returns the output prefix of the entry's key, or nil if the key
// adds none.
func (e *Entry[T]) OutputPrefix() []byte {
	if k, ok := e.Key.(withOutputPrefix); ok {
		return k.OutputPrefix()
	}
	return nil
}

type withOutputPrefix interface {
	OutputPrefix() []byte
}

// PrimitiveSet supports key rotation. The primary entry produces new
// signatures; every entry is a candidate for verification, looked up by the
// prefix of the signature.
type PrimitiveSet[T any] struct {
	Primary *Entry[T]
	// Entries groups the entries by output prefix.
	Entries map[string][]*Entry[T]
	// EntriesInKeysetOrder lists the entries in the order they were added.
	EntriesInKeysetOrder []*Entry[T]

	Annotations map[string]string
}

// New returns an empty PrimitiveSet.
func New[T any]() *PrimitiveSet[T] {
	return &PrimitiveSet[T]{
		Entries:              make(map[string][]*Entry[T]),
		EntriesInKeysetOrder: make([]*Entry[T], 0),
	}
}

// RawEntries returns the entries whose keys add no output prefix.
func (ps *PrimitiveSet[T]) RawEntries() []*Entry[T] {
	return ps.EntriesForPrefix(outputprefix.Raw)
}

// EntriesForPrefix returns the entries whose output prefix is prefix.
func (ps *PrimitiveSet[T]) EntriesForPrefix(prefix string) []*Entry[T] {
	return ps.Entries[prefix]
}

// Add inserts e. Adding a second primary entry is an error.
func (ps *PrimitiveSet[T]) Add(e *Entry[T]) error {
	if e == nil || e.Key == nil {
		return fmt.Errorf("primitiveset: key must be set")
	}
	if e.IsPrimary && ps.Primary != nil {
		return fmt.Errorf("primitiveset: primary already set to key %d", ps.Primary.KeyID)
	}
	prefix := string(e.OutputPrefix())
	ps.Entries[prefix] = append(ps.Entries[prefix], e)
	ps.EntriesInKeysetOrder = append(ps.EntriesInKeysetOrder, e)
	if e.IsPrimary {
		ps.Primary = e
	}
	return nil
}
