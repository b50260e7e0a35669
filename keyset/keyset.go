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

// Package keyset provides methods to generate, read, write or validate
// keysets.
//
// A keyset is a list of keys with one primary key, used for key rotation: the
// primary key signs, and every enabled key verifies.
package keyset

import (
	"fmt"
	"strings"

	"github.com/tink-crypto/tink-go-slhdsa/internal/protoserialization"
	"google.golang.org/protobuf/encoding/protowire"
)

// Field numbers of google.crypto.tink.Keyset and Keyset.Key.
const (
	keysetPrimaryKeyIDField protowire.Number = 1
	keysetKeyField          protowire.Number = 2

	keyKeyDataField          protowire.Number = 1
	keyStatusField           protowire.Number = 2
	keyKeyIDField            protowire.Number = 3
	keyOutputPrefixTypeField protowire.Number = 4
)

// Values of google.crypto.tink.KeyStatusType.
const (
	protoStatusEnabled   = 1
	protoStatusDisabled  = 2
	protoStatusDestroyed = 3
)

func keyStatusFromProto(status uint64) (KeyStatus, error) {
	switch status {
	case protoStatusEnabled:
		return Enabled, nil
	case protoStatusDisabled:
		return Disabled, nil
	case protoStatusDestroyed:
		return Destroyed, nil
	default:
		return Unknown, fmt.Errorf("unknown key status: %v", status)
	}
}

func keyStatusToProto(status KeyStatus) (uint64, error) {
	switch status {
	case Enabled:
		return protoStatusEnabled, nil
	case Disabled:
		return protoStatusDisabled, nil
	case Destroyed:
		return protoStatusDestroyed, nil
	default:
		return 0, fmt.Errorf("unknown key status: %v", status)
	}
}

// protoKey is the google.crypto.tink.Keyset.Key message.
type protoKey struct {
	keyData          *protoserialization.KeyData
	status           uint64
	keyID            uint32
	outputPrefixType protoserialization.OutputPrefixType
}

func (k *protoKey) marshal() []byte {
	var b []byte
	b = protoserialization.AppendMessage(b, keyKeyDataField, k.keyData.Marshal())
	b = protoserialization.AppendVarint(b, keyStatusField, k.status)
	b = protoserialization.AppendVarint(b, keyKeyIDField, uint64(k.keyID))
	b = protoserialization.AppendVarint(b, keyOutputPrefixTypeField, uint64(k.outputPrefixType))
	return b
}

func unmarshalProtoKey(b []byte) (*protoKey, error) {
	k := new(protoKey)
	err := protoserialization.Walk(b, func(num protowire.Number, f protoserialization.Field) error {
		switch num {
		case keyKeyDataField:
			v, err := f.Bytes()
			if err != nil {
				return err
			}
			k.keyData, err = protoserialization.UnmarshalKeyData(v)
			return err
		case keyStatusField:
			v, err := f.Varint()
			k.status = v
			return err
		case keyKeyIDField:
			v, err := f.Varint()
			if v > 0xffffffff {
				return fmt.Errorf("key ID %d overflows uint32", v)
			}
			k.keyID = uint32(v)
			return err
		case keyOutputPrefixTypeField:
			v, err := f.Varint()
			k.outputPrefixType = protoserialization.OutputPrefixType(v)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if k.keyData == nil {
		return nil, fmt.Errorf("key %d has no key data", k.keyID)
	}
	return k, nil
}

// protoKeyset is the google.crypto.tink.Keyset message.
type protoKeyset struct {
	primaryKeyID uint32
	keys         []*protoKey
}

func (ks *protoKeyset) marshal() []byte {
	var b []byte
	b = protoserialization.AppendVarint(b, keysetPrimaryKeyIDField, uint64(ks.primaryKeyID))
	for _, k := range ks.keys {
		b = protoserialization.AppendMessage(b, keysetKeyField, k.marshal())
	}
	return b
}

func unmarshalProtoKeyset(b []byte) (*protoKeyset, error) {
	ks := new(protoKeyset)
	err := protoserialization.Walk(b, func(num protowire.Number, f protoserialization.Field) error {
		switch num {
		case keysetPrimaryKeyIDField:
			v, err := f.Varint()
			if v > 0xffffffff {
				return fmt.Errorf("primary key ID %d overflows uint32", v)
			}
			ks.primaryKeyID = uint32(v)
			return err
		case keysetKeyField:
			v, err := f.Bytes()
			if err != nil {
				return err
			}
			k, err := unmarshalProtoKey(v)
			if err != nil {
				return err
			}
			ks.keys = append(ks.keys, k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ks, nil
}

func (ks *protoKeyset) hasSecrets() bool {
	for _, k := range ks.keys {
		switch k.keyData.KeyMaterialType {
		case protoserialization.KeyMaterialTypeUnknown,
			protoserialization.KeyMaterialTypeSymmetric,
			protoserialization.KeyMaterialTypeAsymmetricPrivate:
			return true
		}
	}
	return false
}

// validate checks that ks has exactly one primary key among unique key IDs,
// and that the primary key is enabled.
func (ks *protoKeyset) validate() error {
	if len(ks.keys) == 0 {
		return fmt.Errorf("empty keyset")
	}
	seen := make(map[uint32]bool)
	hasPrimary := false
	for _, k := range ks.keys {
		if seen[k.keyID] {
			return fmt.Errorf("duplicate key ID %d", k.keyID)
		}
		seen[k.keyID] = true
		if k.keyID != ks.primaryKeyID {
			continue
		}
		if k.status != protoStatusEnabled {
			return fmt.Errorf("primary key %d is not enabled", k.keyID)
		}
		hasPrimary = true
	}
	if !hasPrimary {
		return fmt.Errorf("no primary key")
	}
	return nil
}

func entryToProtoKey(entry *Entry) (*protoKey, error) {
	status, err := keyStatusToProto(entry.status)
	if err != nil {
		return nil, err
	}
	ks, err := protoserialization.SerializeKey(entry.key)
	if err != nil {
		return nil, err
	}
	return &protoKey{
		keyData:          ks.KeyData(),
		status:           status,
		keyID:            entry.keyID,
		outputPrefixType: ks.OutputPrefixType(),
	}, nil
}

func entriesToProtoKeyset(entries []*Entry) (*protoKeyset, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("entries is empty")
	}
	ks := &protoKeyset{keys: make([]*protoKey, len(entries))}
	for i, entry := range entries {
		k, err := entryToProtoKey(entry)
		if err != nil {
			return nil, err
		}
		ks.keys[i] = k
		if entry.isPrimary {
			ks.primaryKeyID = entry.keyID
		}
	}
	return ks, nil
}

func protoKeysetToEntries(ks *protoKeyset) ([]*Entry, error) {
	if err := ks.validate(); err != nil {
		return nil, fmt.Errorf("invalid keyset: %v", err)
	}
	entries := make([]*Entry, len(ks.keys))
	for i, k := range ks.keys {
		idRequirement := k.keyID
		if k.outputPrefixType == protoserialization.OutputPrefixTypeRaw {
			idRequirement = 0
		}
		serialization, err := protoserialization.NewKeySerialization(k.keyData, k.outputPrefixType, idRequirement)
		if err != nil {
			return nil, err
		}
		parsed, err := protoserialization.ParseKey(serialization)
		if err != nil {
			return nil, err
		}
		status, err := keyStatusFromProto(k.status)
		if err != nil {
			return nil, err
		}
		entries[i] = &Entry{
			key:       parsed,
			isPrimary: k.keyID == ks.primaryKeyID,
			keyID:     k.keyID,
			status:    status,
		}
	}
	return entries, nil
}

// keyType returns the short name of a key type URL, e.g.
// "tink.SlhDsaPrivateKey".
func keyType(typeURL string) string {
	return strings.TrimPrefix(typeURL, "type.googleapis.com/google.crypto.")
}
