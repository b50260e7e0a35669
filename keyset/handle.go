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

package keyset

import (
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
	"github.com/tink-crypto/tink-go-slhdsa/internal/primitiveregistry"
	"github.com/tink-crypto/tink-go-slhdsa/internal/primitiveset"
	"github.com/tink-crypto/tink-go-slhdsa/internal/protoserialization"
	"github.com/tink-crypto/tink-go-slhdsa/key"
)

// Handle provides access to a keyset to limit the exposure of the internal
// keyset representation, which may hold sensitive key material.
type Handle struct {
	entries         []*Entry
	annotations     map[string]string
	primaryKeyEntry *Entry
}

// KeyStatus is the key status.
type KeyStatus int

const (
	// Unknown is the default invalid value.
	Unknown KeyStatus = iota
	// Enabled means the key is enabled.
	Enabled
	// Disabled means the key is disabled.
	Disabled
	// Destroyed means the key is marked for destruction.
	Destroyed
)

// String implements fmt.Stringer.
func (ks KeyStatus) String() string {
	switch ks {
	case Enabled:
		return "Enabled"
	case Disabled:
		return "Disabled"
	case Destroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Entry represents an entry in a keyset.
type Entry struct {
	key       key.Key
	isPrimary bool
	keyID     uint32
	status    KeyStatus
}

// Key returns the key.
func (e *Entry) Key() key.Key { return e.key }

// IsPrimary returns true if the key is the primary key.
func (e *Entry) IsPrimary() bool { return e.isPrimary }

// KeyID returns the key ID.
func (e *Entry) KeyID() uint32 { return e.keyID }

// KeyStatus returns the key status.
func (e *Entry) KeyStatus() KeyStatus { return e.status }

// Option is used to configure a Handle.
type Option func(h *Handle) error

// WithAnnotations attaches annotations to the handle. Primitives created from
// the handle pass them on to their monitoring client.
func WithAnnotations(annotations map[string]string) Option {
	return func(h *Handle) error {
		if h.annotations != nil {
			return fmt.Errorf("keyset annotations already set")
		}
		h.annotations = maps.Clone(annotations)
		return nil
	}
}

func newFromEntries(entries []*Entry, opts ...Option) (*Handle, error) {
	var primaryKeyEntry *Entry
	for _, entry := range entries {
		if entry.isPrimary {
			primaryKeyEntry = entry
		}
		if entry.status == Unknown {
			return nil, fmt.Errorf("keyset.Handle: unknown key status for key with id %d", entry.keyID)
		}
	}
	if primaryKeyEntry == nil {
		return nil, fmt.Errorf("keyset.Handle: no primary key")
	}
	h := &Handle{
		entries:         entries,
		primaryKeyEntry: primaryKeyEntry,
	}
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, fmt.Errorf("keyset.Handle: %v", err)
		}
	}
	return h, nil
}

// NewHandle creates a keyset handle that contains a single fresh key generated
// from params.
func NewHandle(params key.Parameters) (*Handle, error) {
	manager := NewManager()
	keyID, err := manager.AddNewKeyFromParameters(params)
	if err != nil {
		return nil, fmt.Errorf("keyset.Handle: cannot generate new keyset: %s", err)
	}
	if err := manager.SetPrimary(keyID); err != nil {
		return nil, fmt.Errorf("keyset.Handle: cannot set primary: %s", err)
	}
	handle, err := manager.Handle()
	if err != nil {
		return nil, fmt.Errorf("keyset.Handle: cannot get keyset handle: %s", err)
	}
	return handle, nil
}

// Primary returns the primary key of the keyset.
func (h *Handle) Primary() (*Entry, error) {
	if h == nil {
		return nil, fmt.Errorf("keyset.Handle: nil handle")
	}
	if h.primaryKeyEntry == nil {
		return nil, fmt.Errorf("keyset.Handle: no primary key")
	}
	return h.primaryKeyEntry, nil
}

// Entry returns the key at index i from the keyset.
// i must be within the range [0, Handle.Len()).
func (h *Handle) Entry(i int) (*Entry, error) {
	if h == nil {
		return nil, fmt.Errorf("keyset.Handle: nil handle")
	}
	if i < 0 || i >= h.Len() {
		return nil, fmt.Errorf("keyset.Handle: index %d out of range", i)
	}
	return h.entries[i], nil
}

// Len returns the number of keys in the keyset.
func (h *Handle) Len() int {
	if h == nil {
		return 0
	}
	return len(h.entries)
}

// privateKey represents a key with a public key.
type privateKey interface {
	PublicKey() (key.Key, error)
}

// Public returns a Handle of the public keys if the managed keyset contains
// private keys.
func (h *Handle) Public() (*Handle, error) {
	if h == nil {
		return nil, fmt.Errorf("keyset.Handle: nil handle")
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("keyset.Handle: entries list is empty or nil")
	}
	entries := make([]*Entry, h.Len())
	for i, entry := range h.entries {
		privateKey, ok := entry.key.(privateKey)
		if !ok {
			return nil, fmt.Errorf("keyset.Handle: keyset contains a non-private key")
		}
		publicKey, err := privateKey.PublicKey()
		if err != nil {
			return nil, fmt.Errorf("keyset.Handle: %v", err)
		}
		entries[i] = &Entry{
			key:       publicKey,
			isPrimary: entry.isPrimary,
			keyID:     entry.keyID,
			status:    entry.status,
		}
	}
	return newFromEntries(entries, WithAnnotations(h.annotations))
}

// String returns a string representation of the managed keyset.
// The result does not contain any sensitive key material.
func (h *Handle) String() string {
	ks, err := entriesToProtoKeyset(h.entries)
	if err != nil {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "primary_key_id:%d", ks.primaryKeyID)
	for i, k := range ks.keys {
		fmt.Fprintf(&b, " key_info:{type_url:%q status:%v key_id:%d output_prefix_type:%v}",
			k.keyData.TypeURL, h.entries[i].status, k.keyID, k.outputPrefixType)
	}
	return b.String()
}

// ReadWithNoSecrets reads a serialized keyset from r. It fails if the keyset
// contains secret key material.
func ReadWithNoSecrets(r io.Reader) (*Handle, error) {
	ks, err := readProtoKeyset(r)
	if err != nil {
		return nil, err
	}
	if ks.hasSecrets() {
		return nil, fmt.Errorf("keyset.Handle: importing unencrypted secret key material is forbidden")
	}
	return newFromProtoKeyset(ks)
}

// ReadCleartext reads a serialized keyset from r, which may contain secret
// key material.
func ReadCleartext(r io.Reader, _ insecuresecretdataaccess.Token) (*Handle, error) {
	ks, err := readProtoKeyset(r)
	if err != nil {
		return nil, err
	}
	return newFromProtoKeyset(ks)
}

func readProtoKeyset(r io.Reader) (*protoKeyset, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("keyset.Handle: %v", err)
	}
	ks, err := unmarshalProtoKeyset(b)
	if err != nil {
		return nil, fmt.Errorf("keyset.Handle: invalid keyset: %v", err)
	}
	return ks, nil
}

func newFromProtoKeyset(ks *protoKeyset) (*Handle, error) {
	entries, err := protoKeysetToEntries(ks)
	if err != nil {
		return nil, fmt.Errorf("keyset.Handle: %v", err)
	}
	return newFromEntries(entries)
}

// WriteWithNoSecrets writes the serialized keyset to w. It fails if the keyset
// contains secret key material.
func (h *Handle) WriteWithNoSecrets(w io.Writer) error {
	if h == nil {
		return fmt.Errorf("keyset.Handle: nil handle")
	}
	ks, err := entriesToProtoKeyset(h.entries)
	if err != nil {
		return fmt.Errorf("keyset.Handle: %v", err)
	}
	if ks.hasSecrets() {
		return fmt.Errorf("keyset.Handle: exporting unencrypted secret key material is forbidden")
	}
	_, err = w.Write(ks.marshal())
	return err
}

// WriteCleartext writes the serialized keyset, including secret key material,
// to w.
func (h *Handle) WriteCleartext(w io.Writer, _ insecuresecretdataaccess.Token) error {
	if h == nil {
		return fmt.Errorf("keyset.Handle: nil handle")
	}
	ks, err := entriesToProtoKeyset(h.entries)
	if err != nil {
		return fmt.Errorf("keyset.Handle: %v", err)
	}
	serialized := ks.marshal()
	defer clear(serialized)
	_, err = w.Write(serialized)
	return err
}

// Primitives creates a [primitiveset.PrimitiveSet] with primitives of type T
// from keys in h.
//
// Only ENABLED keys are considered. The returned set is intended to be used by
// primitive factories.
func Primitives[T any](h *Handle) (*primitiveset.PrimitiveSet[T], error) {
	if h == nil {
		return nil, fmt.Errorf("keyset.Handle: nil handle")
	}
	if h.Len() == 0 {
		return nil, fmt.Errorf("keyset.Handle: empty keyset")
	}
	ps := primitiveset.New[T]()
	ps.Annotations = maps.Clone(h.annotations)
	for _, entry := range h.entries {
		if entry.status != Enabled {
			continue
		}
		serialization, err := protoserialization.SerializeKey(entry.key)
		if err != nil {
			return nil, fmt.Errorf("keyset.Handle: %v", err)
		}
		primitive, err := primitiveregistry.Primitive[T](entry.key)
		if err != nil {
			return nil, fmt.Errorf("keyset.Handle: cannot get primitive from key %d: %v", entry.keyID, err)
		}
		if err := ps.Add(&primitiveset.Entry[T]{
			KeyID:     entry.keyID,
			Primitive: primitive,
			Key:       entry.key,
			KeyType:   keyType(serialization.KeyData().TypeURL),
			IsPrimary: entry.isPrimary,
		}); err != nil {
			return nil, fmt.Errorf("keyset.Handle: %v", err)
		}
	}
	if ps.Primary == nil {
		return nil, fmt.Errorf("keyset.Handle: primary key is not enabled")
	}
	return ps, nil
}
