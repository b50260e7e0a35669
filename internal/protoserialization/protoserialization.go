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

// Package protoserialization converts key objects to and from the
// google.crypto.tink KeyData wire format, and keeps the global registries of
// per-key-type serializers and parsers.
//
// Messages are encoded with protowire directly; field numbers follow
// tink.proto.
package protoserialization

import (
	"bytes"
	"fmt"
	"reflect"
	"sync"

	"github.com/tink-crypto/tink-go-slhdsa/key"
	"google.golang.org/protobuf/encoding/protowire"
)

// OutputPrefixType mirrors google.crypto.tink.OutputPrefixType.
type OutputPrefixType int32

const (
	OutputPrefixTypeUnknown OutputPrefixType = 0
	OutputPrefixTypeTink    OutputPrefixType = 1
	OutputPrefixTypeLegacy  OutputPrefixType = 2
	OutputPrefixTypeRaw     OutputPrefixType = 3
	OutputPrefixTypeCrunchy OutputPrefixType = 4
)

func (t OutputPrefixType) String() string {
	switch t {
	case OutputPrefixTypeTink:
		return "TINK"
	case OutputPrefixTypeLegacy:
		return "LEGACY"
	case OutputPrefixTypeRaw:
		return "RAW"
	case OutputPrefixTypeCrunchy:
		return "CRUNCHY"
	default:
		return "UNKNOWN_PREFIX"
	}
}

// KeyMaterialType mirrors google.crypto.tink.KeyData.KeyMaterialType.
type KeyMaterialType int32

const (
	KeyMaterialTypeUnknown           KeyMaterialType = 0
	KeyMaterialTypeSymmetric         KeyMaterialType = 1
	KeyMaterialTypeAsymmetricPrivate KeyMaterialType = 2
	KeyMaterialTypeAsymmetricPublic  KeyMaterialType = 3
	KeyMaterialTypeRemote            KeyMaterialType = 4
)

const (
	keyDataTypeURLField         protowire.Number = 1
	keyDataValueField           protowire.Number = 2
	keyDataKeyMaterialTypeField protowire.Number = 3

	keyTemplateTypeURLField          protowire.Number = 1
	keyTemplateValueField            protowire.Number = 2
	keyTemplateOutputPrefixTypeField protowire.Number = 3
)

// KeyData is the google.crypto.tink.KeyData message.
type KeyData struct {
	TypeURL         string
	Value           []byte
	KeyMaterialType KeyMaterialType
}

// Marshal returns the wire encoding of kd.
func (kd *KeyData) Marshal() []byte {
	var b []byte
	b = AppendString(b, keyDataTypeURLField, kd.TypeURL)
	b = AppendBytes(b, keyDataValueField, kd.Value)
	b = AppendVarint(b, keyDataKeyMaterialTypeField, uint64(kd.KeyMaterialType))
	return b
}

// UnmarshalKeyData parses a google.crypto.tink.KeyData message.
func UnmarshalKeyData(b []byte) (*KeyData, error) {
	kd := new(KeyData)
	err := Walk(b, func(num protowire.Number, f Field) error {
		switch num {
		case keyDataTypeURLField:
			s, err := f.StringValue()
			kd.TypeURL = s
			return err
		case keyDataValueField:
			v, err := f.Bytes()
			kd.Value = v
			return err
		case keyDataKeyMaterialTypeField:
			v, err := f.Varint()
			kd.KeyMaterialType = KeyMaterialType(v)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("protoserialization.UnmarshalKeyData: %w", err)
	}
	return kd, nil
}

func (kd *KeyData) clone() *KeyData {
	return &KeyData{
		TypeURL:         kd.TypeURL,
		Value:           bytes.Clone(kd.Value),
		KeyMaterialType: kd.KeyMaterialType,
	}
}

// KeyTemplate is the google.crypto.tink.KeyTemplate message: serialized
// parameters.
type KeyTemplate struct {
	TypeURL          string
	Value            []byte
	OutputPrefixType OutputPrefixType
}

// Marshal returns the wire encoding of kt.
func (kt *KeyTemplate) Marshal() []byte {
	var b []byte
	b = AppendString(b, keyTemplateTypeURLField, kt.TypeURL)
	b = AppendBytes(b, keyTemplateValueField, kt.Value)
	b = AppendVarint(b, keyTemplateOutputPrefixTypeField, uint64(kt.OutputPrefixType))
	return b
}

// UnmarshalKeyTemplate parses a google.crypto.tink.KeyTemplate message.
func UnmarshalKeyTemplate(b []byte) (*KeyTemplate, error) {
	kt := new(KeyTemplate)
	err := Walk(b, func(num protowire.Number, f Field) error {
		switch num {
		case keyTemplateTypeURLField:
			s, err := f.StringValue()
			kt.TypeURL = s
			return err
		case keyTemplateValueField:
			v, err := f.Bytes()
			kt.Value = v
			return err
		case keyTemplateOutputPrefixTypeField:
			v, err := f.Varint()
			kt.OutputPrefixType = OutputPrefixType(v)
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("protoserialization.UnmarshalKeyTemplate: %w", err)
	}
	return kt, nil
}

// KeySerialization is a key in serialized form: its KeyData together with
// the output prefix type and ID it is stored with in a keyset.
type KeySerialization struct {
	keyData          *KeyData
	outputPrefixType OutputPrefixType
	idRequirement    uint32
}

// NewKeySerialization creates a KeySerialization. RAW keys must have a zero
// idRequirement.
func NewKeySerialization(keyData *KeyData, outputPrefixType OutputPrefixType, idRequirement uint32) (*KeySerialization, error) {
	if keyData == nil {
		return nil, fmt.Errorf("protoserialization.NewKeySerialization: keyData is nil")
	}
	if outputPrefixType == OutputPrefixTypeRaw && idRequirement != 0 {
		return nil, fmt.Errorf("protoserialization.NewKeySerialization: RAW keys cannot have an ID requirement")
	}
	return &KeySerialization{
		keyData:          keyData.clone(),
		outputPrefixType: outputPrefixType,
		idRequirement:    idRequirement,
	}, nil
}

// KeyData returns a copy of the key data.
func (k *KeySerialization) KeyData() *KeyData { return k.keyData.clone() }

// OutputPrefixType returns the output prefix type of the key.
func (k *KeySerialization) OutputPrefixType() OutputPrefixType { return k.outputPrefixType }

// IDRequirement returns the key ID and whether the key requires one.
func (k *KeySerialization) IDRequirement() (uint32, bool) {
	return k.idRequirement, k.outputPrefixType != OutputPrefixTypeRaw
}

// Equal reports whether k and other serialize the same key.
func (k *KeySerialization) Equal(other *KeySerialization) bool {
	return other != nil &&
		k.keyData.TypeURL == other.keyData.TypeURL &&
		bytes.Equal(k.keyData.Value, other.keyData.Value) &&
		k.keyData.KeyMaterialType == other.keyData.KeyMaterialType &&
		k.outputPrefixType == other.outputPrefixType &&
		k.idRequirement == other.idRequirement
}

// KeySerializer turns key objects of one type into KeySerializations.
type KeySerializer interface {
	SerializeKey(key key.Key) (*KeySerialization, error)
}

// KeyParser turns KeySerializations of one type URL into key objects.
type KeyParser interface {
	ParseKey(keySerialization *KeySerialization) (key.Key, error)
}

// ParametersSerializer turns parameters of one type into a KeyTemplate.
type ParametersSerializer interface {
	Serialize(parameters key.Parameters) (*KeyTemplate, error)
}

// ParametersParser turns KeyTemplates of one type URL into parameters.
type ParametersParser interface {
	Parse(template *KeyTemplate) (key.Parameters, error)
}

var (
	mu                    sync.RWMutex
	keySerializers        = make(map[reflect.Type]KeySerializer)
	keyParsers            = make(map[string]KeyParser)
	parametersSerializers = make(map[reflect.Type]ParametersSerializer)
	parametersParsers     = make(map[string]ParametersParser)
)

// RegisterKeySerializer registers s for keys of type K. It does not replace
// an existing serializer.
func RegisterKeySerializer[K key.Key](s KeySerializer) error {
	mu.Lock()
	defer mu.Unlock()
	t := reflect.TypeFor[K]()
	if _, found := keySerializers[t]; found {
		return fmt.Errorf("protoserialization.RegisterKeySerializer: type %v already registered", t)
	}
	keySerializers[t] = s
	return nil
}

// RegisterKeyParser registers p for keyTypeURL. It does not replace an
// existing parser.
func RegisterKeyParser(keyTypeURL string, p KeyParser) error {
	mu.Lock()
	defer mu.Unlock()
	if _, found := keyParsers[keyTypeURL]; found {
		return fmt.Errorf("protoserialization.RegisterKeyParser: type %s already registered", keyTypeURL)
	}
	keyParsers[keyTypeURL] = p
	return nil
}

// RegisterParametersSerializer registers s for parameters of type P.
func RegisterParametersSerializer[P key.Parameters](s ParametersSerializer) error {
	mu.Lock()
	defer mu.Unlock()
	t := reflect.TypeFor[P]()
	if _, found := parametersSerializers[t]; found {
		return fmt.Errorf("protoserialization.RegisterParametersSerializer: type %v already registered", t)
	}
	parametersSerializers[t] = s
	return nil
}

// RegisterParametersParser registers p for keyTypeURL.
func RegisterParametersParser(keyTypeURL string, p ParametersParser) error {
	mu.Lock()
	defer mu.Unlock()
	if _, found := parametersParsers[keyTypeURL]; found {
		return fmt.Errorf("protoserialization.RegisterParametersParser: type %s already registered", keyTypeURL)
	}
	parametersParsers[keyTypeURL] = p
	return nil
}

// SerializeKey serializes k with the serializer registered for its type.
func SerializeKey(k key.Key) (*KeySerialization, error) {
	if k == nil {
		return nil, fmt.Errorf("protoserialization.SerializeKey: key is nil")
	}
	mu.RLock()
	s, found := keySerializers[reflect.TypeOf(k)]
	mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("protoserialization.SerializeKey: no serializer for %T", k)
	}
	return s.SerializeKey(k)
}

// ParseKey parses ks with the parser registered for its type URL.
func ParseKey(ks *KeySerialization) (key.Key, error) {
	if ks == nil {
		return nil, fmt.Errorf("protoserialization.ParseKey: key serialization is nil")
	}
	mu.RLock()
	p, found := keyParsers[ks.keyData.TypeURL]
	mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("protoserialization.ParseKey: no parser for %q", ks.keyData.TypeURL)
	}
	return p.ParseKey(ks)
}

// SerializeParameters serializes p with the serializer registered for its
// type.
func SerializeParameters(p key.Parameters) (*KeyTemplate, error) {
	if p == nil {
		return nil, fmt.Errorf("protoserialization.SerializeParameters: parameters are nil")
	}
	mu.RLock()
	s, found := parametersSerializers[reflect.TypeOf(p)]
	mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("protoserialization.SerializeParameters: no serializer for %T", p)
	}
	return s.Serialize(p)
}

// ParseParameters parses kt with the parser registered for its type URL.
func ParseParameters(kt *KeyTemplate) (key.Parameters, error) {
	if kt == nil {
		return nil, fmt.Errorf("protoserialization.ParseParameters: key template is nil")
	}
	mu.RLock()
	p, found := parametersParsers[kt.TypeURL]
	mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("protoserialization.ParseParameters: no parser for %q", kt.TypeURL)
	}
	return p.Parse(kt)
}

// UnregisterKeySerializer removes the serializer for K.
//
// This function is intended to be used in tests only.
func UnregisterKeySerializer[K key.Key]() {
	mu.Lock()
	defer mu.Unlock()
	delete(keySerializers, reflect.TypeFor[K]())
}

// UnregisterKeyParser removes the parser for keyTypeURL.
//
// This function is intended to be used in tests only.
func UnregisterKeyParser(keyTypeURL string) {
	mu.Lock()
	defer mu.Unlock()
	delete(keyParsers, keyTypeURL)
}
