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
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/tink-crypto/tink-go-slhdsa/internal/keygenregistry"
	"github.com/tink-crypto/tink-go-slhdsa/key"
	"github.com/tink-crypto/tink-go-slhdsa/subtle/random"
)

// managedKey is a key held by a [Manager] until it is frozen into an [Entry].
type managedKey struct {
	key     key.Key
	id      uint32
	status  KeyStatus
	primary bool
}

// Manager builds and rotates keysets: it adds keys, promotes a primary and
// moves keys between the enabled and disabled states.
//
// A Manager is not safe for concurrent use.
type Manager struct {
	keys []*managedKey
	// IDs of current and deleted keys; never handed out again.
	usedIDs     map[uint32]struct{}
	annotations map[string]string
}

// NewManager returns a Manager for an empty keyset.
func NewManager() *Manager {
	return &Manager{usedIDs: make(map[uint32]struct{})}
}

// NewManagerFromHandle returns a Manager that starts from the keys of kh.
func NewManagerFromHandle(kh *Handle) *Manager {
	km := NewManager()
	for _, e := range kh.entries {
		km.keys = append(km.keys, &managedKey{
			key:     e.key,
			id:      e.keyID,
			status:  e.status,
			primary: e.isPrimary,
		})
		km.usedIDs[e.keyID] = struct{}{}
	}
	km.annotations = maps.Clone(kh.annotations)
	return km
}

type keyOptions struct {
	status  KeyStatus
	primary bool
	id      uint32
	hasID   bool
	// ID requirement of the key being added.
	idRequirement    uint32
	hasIDRequirement bool
}

// KeyOpts customizes a key added with [Manager.AddKeyWithOpts].
type KeyOpts interface {
	apply(*keyOptions) error
}

type keyOptFunc func(*keyOptions) error

func (f keyOptFunc) apply(o *keyOptions) error { return f(o) }

// WithStatus sets the status of the added key. The default is [Enabled].
func WithStatus(status KeyStatus) KeyOpts {
	return keyOptFunc(func(o *keyOptions) error {
		o.status = status
		return nil
	})
}

// WithFixedID assigns id to the added key instead of a random one. Keys with
// an ID requirement only accept their own ID.
//
// Add keys with fixed IDs before keys with random IDs to avoid collisions.
func WithFixedID(id uint32) KeyOpts {
	return keyOptFunc(func(o *keyOptions) error {
		if o.hasIDRequirement && o.idRequirement != id {
			return fmt.Errorf("keyset.Manager: key requires ID %d, got fixed ID %d", o.idRequirement, id)
		}
		o.id, o.hasID = id, true
		return nil
	})
}

// AsPrimary makes the added key the primary key.
func AsPrimary() KeyOpts {
	return keyOptFunc(func(o *keyOptions) error {
		o.primary = true
		return nil
	})
}

// AddKeyWithOpts adds k to the keyset and returns its key ID.
//
// Unless opts say otherwise the key is enabled, not primary, and gets its ID
// requirement as key ID, or a fresh random ID if it has none.
func (km *Manager) AddKeyWithOpts(k key.Key, opts ...KeyOpts) (uint32, error) {
	if k == nil {
		return 0, errors.New("keyset.Manager: key is nil")
	}
	idRequirement, hasIDRequirement := k.IDRequirement()
	o := &keyOptions{
		status:           Enabled,
		id:               idRequirement,
		hasID:            hasIDRequirement,
		idRequirement:    idRequirement,
		hasIDRequirement: hasIDRequirement,
	}
	for _, opt := range opts {
		if err := opt.apply(o); err != nil {
			return 0, err
		}
	}
	switch {
	case o.status == Unknown:
		return 0, errors.New("keyset.Manager: key status is unknown")
	case o.primary && o.status != Enabled:
		return 0, fmt.Errorf("keyset.Manager: primary key must be enabled, got %s", o.status)
	}

	id := o.id
	if o.hasID {
		if _, used := km.usedIDs[id]; used {
			return 0, fmt.Errorf("keyset.Manager: key ID %d is already in use", id)
		}
		km.usedIDs[id] = struct{}{}
	} else {
		id = km.reserveID()
	}
	mk := &managedKey{key: k, id: id, status: o.status}
	km.keys = append(km.keys, mk)
	if o.primary {
		km.promote(mk)
	}
	return id, nil
}

// AddKey adds an enabled, non-primary key and returns its key ID.
func (km *Manager) AddKey(k key.Key) (uint32, error) {
	return km.AddKeyWithOpts(k)
}

// AddNewKeyFromParameters generates a key for parameters with a fresh key ID
// and adds it as an enabled, non-primary key.
func (km *Manager) AddNewKeyFromParameters(parameters key.Parameters) (uint32, error) {
	if parameters == nil {
		return 0, errors.New("keyset.Manager: parameters is nil")
	}
	id := km.reserveID()
	k, err := keygenregistry.CreateKey(parameters, id)
	if err != nil {
		delete(km.usedIDs, id)
		return 0, fmt.Errorf("keyset.Manager: cannot create key: %v", err)
	}
	km.keys = append(km.keys, &managedKey{key: k, id: id, status: Enabled})
	return id, nil
}

// SetPrimary makes the enabled key keyID the primary key.
func (km *Manager) SetPrimary(keyID uint32) error {
	i, err := km.index(keyID)
	if err != nil {
		return err
	}
	mk := km.keys[i]
	if mk.status != Enabled {
		return fmt.Errorf("keyset.Manager: key %d is %s and cannot be primary", keyID, mk.status)
	}
	km.promote(mk)
	return nil
}

// Enable enables the key keyID. Destroyed keys cannot be enabled.
func (km *Manager) Enable(keyID uint32) error {
	return km.setStatus(keyID, Enabled)
}

// Disable disables the key keyID. The primary key cannot be disabled.
func (km *Manager) Disable(keyID uint32) error {
	return km.setStatus(keyID, Disabled)
}

// Delete removes the key keyID from the keyset. The primary key cannot be
// deleted, and the ID is not reused.
func (km *Manager) Delete(keyID uint32) error {
	i, err := km.index(keyID)
	if err != nil {
		return err
	}
	if km.keys[i].primary {
		return fmt.Errorf("keyset.Manager: key %d is primary and cannot be deleted", keyID)
	}
	km.keys = slices.Delete(km.keys, i, i+1)
	return nil
}

// SetAnnotations sets a copy of annotations as the keyset annotations.
// Primitives of annotated keysets are monitored.
func (km *Manager) SetAnnotations(annotations map[string]string) error {
	if km == nil {
		return errors.New("keyset.Manager: manager is nil")
	}
	km.annotations = maps.Clone(annotations)
	return nil
}

// Handle returns a Handle for the current keyset. It fails unless exactly one
// enabled key is primary.
func (km *Manager) Handle() (*Handle, error) {
	entries := make([]*Entry, 0, len(km.keys))
	for _, mk := range km.keys {
		entries = append(entries, &Entry{
			key:       mk.key,
			keyID:     mk.id,
			status:    mk.status,
			isPrimary: mk.primary,
		})
	}
	return newFromEntries(entries, WithAnnotations(km.annotations))
}

func (km *Manager) index(keyID uint32) (int, error) {
	i := slices.IndexFunc(km.keys, func(mk *managedKey) bool { return mk.id == keyID })
	if i < 0 {
		return 0, fmt.Errorf("keyset.Manager: no key with ID %d", keyID)
	}
	return i, nil
}

// setStatus moves a key between Enabled and Disabled.
func (km *Manager) setStatus(keyID uint32, status KeyStatus) error {
	i, err := km.index(keyID)
	if err != nil {
		return err
	}
	mk := km.keys[i]
	if mk.primary && status != Enabled {
		return fmt.Errorf("keyset.Manager: key %d is primary and cannot be %s", keyID, status)
	}
	if mk.status != Enabled && mk.status != Disabled {
		return fmt.Errorf("keyset.Manager: key %d is %s and cannot be %s", keyID, mk.status, status)
	}
	mk.status = status
	return nil
}

func (km *Manager) promote(primary *managedKey) {
	for _, mk := range km.keys {
		mk.primary = mk == primary
	}
}

// reserveID returns a random key ID not used in this keyset and marks it used.
func (km *Manager) reserveID() uint32 {
	for {
		id := random.GetRandomUint32()
		if _, used := km.usedIDs[id]; !used {
			km.usedIDs[id] = struct{}{}
			return id
		}
	}
}
