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
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
	"github.com/tink-crypto/tink-go-slhdsa/internal/protoserialization"
	"github.com/tink-crypto/tink-go-slhdsa/key"
	"github.com/tink-crypto/tink-go-slhdsa/secretdata"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// publicKeyProtoVersion is the accepted SlhDsaPublicKey proto version.
	//
	// Currently, only version 0 is supported; other versions are rejected.
	publicKeyProtoVersion = 0
	// privateKeyProtoVersion is the accepted SlhDsaPrivateKey proto version.
	//
	// Currently, only version 0 is supported; other versions are rejected.
	privateKeyProtoVersion = 0

	signerTypeURL   = "type.googleapis.com/google.crypto.tink.SlhDsaPrivateKey"
	verifierTypeURL = "type.googleapis.com/google.crypto.tink.SlhDsaPublicKey"
)

// Field numbers and enum values of slh_dsa.proto.
const (
	paramsKeySizeField  protowire.Number = 1
	paramsHashTypeField protowire.Number = 2
	paramsSigTypeField  protowire.Number = 3

	publicKeyVersionField  protowire.Number = 1
	publicKeyValueField    protowire.Number = 2
	publicKeyParamsField   protowire.Number = 3
	privateKeyVersionField protowire.Number = 1
	privateKeyValueField   protowire.Number = 2
	privateKeyPublicField  protowire.Number = 3

	keyFormatParamsField  protowire.Number = 1
	keyFormatVersionField protowire.Number = 2

	protoHashTypeSHA2          = 1
	protoHashTypeSHAKE         = 2
	protoSigTypeFastSigning    = 1
	protoSigTypeSmallSignature = 2
)

// protoParams is the SlhDsaParams message.
type protoParams struct {
	keySize  int32
	hashType uint64
	sigType  uint64
}

func (p *protoParams) marshal() []byte {
	var b []byte
	b = protoserialization.AppendVarint(b, paramsKeySizeField, uint64(p.keySize))
	b = protoserialization.AppendVarint(b, paramsHashTypeField, p.hashType)
	b = protoserialization.AppendVarint(b, paramsSigTypeField, p.sigType)
	return b
}

func unmarshalProtoParams(b []byte) (*protoParams, error) {
	p := new(protoParams)
	err := protoserialization.Walk(b, func(num protowire.Number, f protoserialization.Field) error {
		var err error
		switch num {
		case paramsKeySizeField:
			var v uint64
			v, err = f.Varint()
			p.keySize = int32(v)
		case paramsHashTypeField:
			p.hashType, err = f.Varint()
		case paramsSigTypeField:
			p.sigType, err = f.Varint()
		}
		return err
	})
	return p, err
}

// protoPublicKey is the SlhDsaPublicKey message.
type protoPublicKey struct {
	version  uint64
	keyValue []byte
	params   *protoParams
}

func (k *protoPublicKey) marshal() []byte {
	var b []byte
	b = protoserialization.AppendVarint(b, publicKeyVersionField, k.version)
	b = protoserialization.AppendBytes(b, publicKeyValueField, k.keyValue)
	if k.params != nil {
		b = protoserialization.AppendMessage(b, publicKeyParamsField, k.params.marshal())
	}
	return b
}

func unmarshalProtoPublicKey(b []byte) (*protoPublicKey, error) {
	k := &protoPublicKey{params: new(protoParams)}
	err := protoserialization.Walk(b, func(num protowire.Number, f protoserialization.Field) error {
		var err error
		switch num {
		case publicKeyVersionField:
			k.version, err = f.Varint()
		case publicKeyValueField:
			k.keyValue, err = f.Bytes()
		case publicKeyParamsField:
			var v []byte
			if v, err = f.Bytes(); err == nil {
				k.params, err = unmarshalProtoParams(v)
			}
		}
		return err
	})
	return k, err
}

// protoPrivateKey is the SlhDsaPrivateKey message.
type protoPrivateKey struct {
	version   uint64
	keyValue  []byte
	publicKey *protoPublicKey
}

func (k *protoPrivateKey) marshal() []byte {
	var b []byte
	b = protoserialization.AppendVarint(b, privateKeyVersionField, k.version)
	b = protoserialization.AppendBytes(b, privateKeyValueField, k.keyValue)
	if k.publicKey != nil {
		b = protoserialization.AppendMessage(b, privateKeyPublicField, k.publicKey.marshal())
	}
	return b
}

func unmarshalProtoPrivateKey(b []byte) (*protoPrivateKey, error) {
	k := &protoPrivateKey{publicKey: &protoPublicKey{params: new(protoParams)}}
	err := protoserialization.Walk(b, func(num protowire.Number, f protoserialization.Field) error {
		var err error
		switch num {
		case privateKeyVersionField:
			k.version, err = f.Varint()
		case privateKeyValueField:
			k.keyValue, err = f.Bytes()
		case privateKeyPublicField:
			var v []byte
			if v, err = f.Bytes(); err == nil {
				k.publicKey, err = unmarshalProtoPublicKey(v)
			}
		}
		return err
	})
	return k, err
}

func protoOutputPrefixTypeFromVariant(variant Variant) (protoserialization.OutputPrefixType, error) {
	switch variant {
	case VariantTink:
		return protoserialization.OutputPrefixTypeTink, nil
	case VariantNoPrefix:
		return protoserialization.OutputPrefixTypeRaw, nil
	default:
		return protoserialization.OutputPrefixTypeUnknown, fmt.Errorf("unknown output prefix variant: %v", variant)
	}
}

func variantFromProto(prefixType protoserialization.OutputPrefixType) (Variant, error) {
	switch prefixType {
	case protoserialization.OutputPrefixTypeTink:
		return VariantTink, nil
	case protoserialization.OutputPrefixTypeRaw:
		return VariantNoPrefix, nil
	default:
		return VariantUnknown, fmt.Errorf("unsupported output prefix type: %v", prefixType)
	}
}

func protoParamsFromParameters(p *Parameters) (*protoParams, error) {
	pp := &protoParams{keySize: int32(p.KeySize())}
	switch p.HashType() {
	case SHA2:
		pp.hashType = protoHashTypeSHA2
	case SHAKE:
		pp.hashType = protoHashTypeSHAKE
	default:
		return nil, fmt.Errorf("unknown hash type: %v", p.HashType())
	}
	switch p.SignatureType() {
	case FastSigning:
		pp.sigType = protoSigTypeFastSigning
	case SmallSignature:
		pp.sigType = protoSigTypeSmallSignature
	default:
		return nil, fmt.Errorf("unknown signature type: %v", p.SignatureType())
	}
	return pp, nil
}

func parametersFromProto(pp *protoParams, variant Variant) (*Parameters, error) {
	var hashType HashType
	switch pp.hashType {
	case protoHashTypeSHA2:
		hashType = SHA2
	case protoHashTypeSHAKE:
		hashType = SHAKE
	default:
		return nil, fmt.Errorf("unsupported hash type: %v", pp.hashType)
	}
	var sigType SignatureType
	switch pp.sigType {
	case protoSigTypeFastSigning:
		sigType = FastSigning
	case protoSigTypeSmallSignature:
		sigType = SmallSignature
	default:
		return nil, fmt.Errorf("unsupported signature type: %v", pp.sigType)
	}
	return NewParameters(hashType, int(pp.keySize), sigType, variant)
}

type publicKeySerializer struct{}

var _ protoserialization.KeySerializer = (*publicKeySerializer)(nil)

func (s *publicKeySerializer) SerializeKey(key key.Key) (*protoserialization.KeySerialization, error) {
	slhdsaPubKey, ok := key.(*PublicKey)
	if !ok {
		return nil, fmt.Errorf("invalid key type: %T, want *slhdsa.PublicKey", key)
	}
	if slhdsaPubKey.params == nil {
		return nil, fmt.Errorf("invalid key: parameters are nil")
	}
	outputPrefixType, err := protoOutputPrefixTypeFromVariant(slhdsaPubKey.params.Variant())
	if err != nil {
		return nil, err
	}
	params, err := protoParamsFromParameters(slhdsaPubKey.params)
	if err != nil {
		return nil, err
	}
	protoKey := &protoPublicKey{
		version:  publicKeyProtoVersion,
		keyValue: slhdsaPubKey.keyBytes,
		params:   params,
	}
	// idRequirement is zero if the key doesn't have a key requirement.
	idRequirement, _ := slhdsaPubKey.IDRequirement()
	keyData := &protoserialization.KeyData{
		TypeURL:         verifierTypeURL,
		Value:           protoKey.marshal(),
		KeyMaterialType: protoserialization.KeyMaterialTypeAsymmetricPublic,
	}
	return protoserialization.NewKeySerialization(keyData, outputPrefixType, idRequirement)
}

type privateKeySerializer struct{}

var _ protoserialization.KeySerializer = (*privateKeySerializer)(nil)

func (s *privateKeySerializer) SerializeKey(key key.Key) (*protoserialization.KeySerialization, error) {
	slhdsaPrivKey, ok := key.(*PrivateKey)
	if !ok {
		return nil, fmt.Errorf("invalid key type: %T, want *slhdsa.PrivateKey", key)
	}
	if slhdsaPrivKey.publicKey == nil || slhdsaPrivKey.publicKey.params == nil {
		return nil, fmt.Errorf("invalid key: public key parameters are nil")
	}
	params := slhdsaPrivKey.publicKey.params
	outputPrefixType, err := protoOutputPrefixTypeFromVariant(params.Variant())
	if err != nil {
		return nil, err
	}
	pp, err := protoParamsFromParameters(params)
	if err != nil {
		return nil, err
	}
	keyValue := slhdsaPrivKey.keyBytes.Data(insecuresecretdataaccess.Token{})
	defer clear(keyValue)
	protoKey := &protoPrivateKey{
		version:  privateKeyProtoVersion,
		keyValue: keyValue,
		publicKey: &protoPublicKey{
			version:  publicKeyProtoVersion,
			keyValue: slhdsaPrivKey.publicKey.keyBytes,
			params:   pp,
		},
	}
	serialized := protoKey.marshal()
	defer clear(serialized)
	// idRequirement is zero if the key doesn't have a key requirement.
	idRequirement, _ := slhdsaPrivKey.IDRequirement()
	keyData := &protoserialization.KeyData{
		TypeURL:         signerTypeURL,
		Value:           serialized,
		KeyMaterialType: protoserialization.KeyMaterialTypeAsymmetricPrivate,
	}
	return protoserialization.NewKeySerialization(keyData, outputPrefixType, idRequirement)
}

type publicKeyParser struct{}

var _ protoserialization.KeyParser = (*publicKeyParser)(nil)

func (s *publicKeyParser) ParseKey(keySerialization *protoserialization.KeySerialization) (key.Key, error) {
	if keySerialization == nil {
		return nil, fmt.Errorf("key serialization is nil")
	}
	keyData := keySerialization.KeyData()
	if keyData.TypeURL != verifierTypeURL {
		return nil, fmt.Errorf("invalid key type URL: %v", keyData.TypeURL)
	}
	if keyData.KeyMaterialType != protoserialization.KeyMaterialTypeAsymmetricPublic {
		return nil, fmt.Errorf("invalid key material type: %v", keyData.KeyMaterialType)
	}
	protoKey, err := unmarshalProtoPublicKey(keyData.Value)
	if err != nil {
		return nil, err
	}
	if protoKey.version != publicKeyProtoVersion {
		return nil, fmt.Errorf("public key has unsupported version: %v", protoKey.version)
	}
	variant, err := variantFromProto(keySerialization.OutputPrefixType())
	if err != nil {
		return nil, err
	}
	params, err := parametersFromProto(protoKey.params, variant)
	if err != nil {
		return nil, err
	}
	// keySerialization.IDRequirement() returns zero if the key doesn't have a key requirement.
	keyID, _ := keySerialization.IDRequirement()
	return NewPublicKey(protoKey.keyValue, keyID, params)
}

type privateKeyParser struct{}

var _ protoserialization.KeyParser = (*privateKeyParser)(nil)

func (s *privateKeyParser) ParseKey(keySerialization *protoserialization.KeySerialization) (key.Key, error) {
	if keySerialization == nil {
		return nil, fmt.Errorf("key serialization is nil")
	}
	keyData := keySerialization.KeyData()
	defer clear(keyData.Value)
	if keyData.TypeURL != signerTypeURL {
		return nil, fmt.Errorf("invalid key type URL: %v", keyData.TypeURL)
	}
	if keyData.KeyMaterialType != protoserialization.KeyMaterialTypeAsymmetricPrivate {
		return nil, fmt.Errorf("invalid key material type: %v", keyData.KeyMaterialType)
	}
	protoKey, err := unmarshalProtoPrivateKey(keyData.Value)
	if err != nil {
		return nil, err
	}
	if protoKey.version != privateKeyProtoVersion {
		return nil, fmt.Errorf("private key has unsupported version: %v", protoKey.version)
	}
	if protoKey.publicKey.version != publicKeyProtoVersion {
		return nil, fmt.Errorf("public key has unsupported version: %v", protoKey.publicKey.version)
	}
	variant, err := variantFromProto(keySerialization.OutputPrefixType())
	if err != nil {
		return nil, err
	}
	params, err := parametersFromProto(protoKey.publicKey.params, variant)
	if err != nil {
		return nil, err
	}
	// keySerialization.IDRequirement() returns zero if the key doesn't have a key requirement.
	keyID, _ := keySerialization.IDRequirement()
	publicKey, err := NewPublicKey(protoKey.publicKey.keyValue, keyID, params)
	if err != nil {
		return nil, err
	}
	privateKeyBytes := secretdata.NewBytesFromData(protoKey.keyValue, insecuresecretdataaccess.Token{})
	return NewPrivateKeyWithPublicKey(privateKeyBytes, publicKey)
}

type parametersSerializer struct{}

var _ protoserialization.ParametersSerializer = (*parametersSerializer)(nil)

func (s *parametersSerializer) Serialize(parameters key.Parameters) (*protoserialization.KeyTemplate, error) {
	slhdsaParameters, ok := parameters.(*Parameters)
	if !ok {
		return nil, fmt.Errorf("invalid parameters type: got %T, want *slhdsa.Parameters", parameters)
	}
	outputPrefixType, err := protoOutputPrefixTypeFromVariant(slhdsaParameters.Variant())
	if err != nil {
		return nil, err
	}
	pp, err := protoParamsFromParameters(slhdsaParameters)
	if err != nil {
		return nil, err
	}
	// SlhDsaKeyFormat at version 0.
	format := protoserialization.AppendMessage(nil, keyFormatParamsField, pp.marshal())
	return &protoserialization.KeyTemplate{
		TypeURL:          signerTypeURL,
		OutputPrefixType: outputPrefixType,
		Value:            format,
	}, nil
}

type parametersParser struct{}

var _ protoserialization.ParametersParser = (*parametersParser)(nil)

func (s *parametersParser) Parse(keyTemplate *protoserialization.KeyTemplate) (key.Parameters, error) {
	if keyTemplate.TypeURL != signerTypeURL {
		return nil, fmt.Errorf("invalid type URL: got %q, want %q", keyTemplate.TypeURL, signerTypeURL)
	}
	pp := new(protoParams)
	var version uint64
	err := protoserialization.Walk(keyTemplate.Value, func(num protowire.Number, f protoserialization.Field) error {
		var err error
		switch num {
		case keyFormatParamsField:
			var v []byte
			if v, err = f.Bytes(); err == nil {
				pp, err = unmarshalProtoParams(v)
			}
		case keyFormatVersionField:
			version, err = f.Varint()
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, fmt.Errorf("unsupported key version: got %d, want %d", version, 0)
	}
	variant, err := variantFromProto(keyTemplate.OutputPrefixType)
	if err != nil {
		return nil, err
	}
	return parametersFromProto(pp, variant)
}
