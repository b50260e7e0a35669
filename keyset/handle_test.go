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

package keyset_test

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
	"github.com/tink-crypto/tink-go-slhdsa/key"
	"github.com/tink-crypto/tink-go-slhdsa/keyset"
	"github.com/tink-crypto/tink-go-slhdsa/secretdata"
	"github.com/tink-crypto/tink-go-slhdsa/signature/slhdsa"
	"github.com/tink-crypto/tink-go-slhdsa/tink"
)

// SLH-DSA-SHAKE-128f key with SK.seed = 0x01.., SK.prf = 0x04.. and
// PK.seed = 0x02...
const (
	publicKeyHex  = "02020202020202020202020202020202" + "4a2a925a122750e35d1fa3720fdbe7c3"
	privateKeyHex = "01010101010101010101010101010101" + "04040404040404040404040404040404" + publicKeyHex
)

func mustHexDecode(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatal(err)
	}
	return b
}

func mustCreateParameters(t *testing.T, variant slhdsa.Variant) *slhdsa.Parameters {
	t.Helper()
	params, err := slhdsa.NewParameters(slhdsa.SHAKE, 64, slhdsa.FastSigning, variant)
	if err != nil {
		t.Fatalf("slhdsa.NewParameters() err = %v, want nil", err)
	}
	return params
}

func mustCreatePrivateKey(t *testing.T, idRequirement uint32, variant slhdsa.Variant) *slhdsa.PrivateKey {
	t.Helper()
	keyBytes := secretdata.NewBytesFromData(mustHexDecode(t, privateKeyHex), insecuresecretdataaccess.Token{})
	privateKey, err := slhdsa.NewPrivateKey(keyBytes, idRequirement, mustCreateParameters(t, variant))
	if err != nil {
		t.Fatalf("slhdsa.NewPrivateKey() err = %v, want nil", err)
	}
	return privateKey
}

// mustCreateHandle returns a handle with a TINK primary key with ID 123 and a
// disabled NO_PREFIX key with ID 456.
func mustCreateHandle(t *testing.T) *keyset.Handle {
	t.Helper()
	km := keyset.NewManager()
	if _, err := km.AddKeyWithOpts(mustCreatePrivateKey(t, 123, slhdsa.VariantTink), keyset.AsPrimary()); err != nil {
		t.Fatalf("km.AddKeyWithOpts() err = %v, want nil", err)
	}
	if _, err := km.AddKeyWithOpts(mustCreatePrivateKey(t, 0, slhdsa.VariantNoPrefix), keyset.WithFixedID(456), keyset.WithStatus(keyset.Disabled)); err != nil {
		t.Fatalf("km.AddKeyWithOpts() err = %v, want nil", err)
	}
	h, err := km.Handle()
	if err != nil {
		t.Fatalf("km.Handle() err = %v, want nil", err)
	}
	return h
}

func sameEntries(t *testing.T, got, want *keyset.Handle) {
	t.Helper()
	if got.Len() != want.Len() {
		t.Fatalf("got.Len() = %v, want %v", got.Len(), want.Len())
	}
	for i := 0; i < want.Len(); i++ {
		gotEntry, err := got.Entry(i)
		if err != nil {
			t.Fatalf("got.Entry(%d) err = %v, want nil", i, err)
		}
		wantEntry, err := want.Entry(i)
		if err != nil {
			t.Fatalf("want.Entry(%d) err = %v, want nil", i, err)
		}
		if gotEntry.KeyID() != wantEntry.KeyID() {
			t.Errorf("entry %d: KeyID() = %v, want %v", i, gotEntry.KeyID(), wantEntry.KeyID())
		}
		if gotEntry.KeyStatus() != wantEntry.KeyStatus() {
			t.Errorf("entry %d: KeyStatus() = %v, want %v", i, gotEntry.KeyStatus(), wantEntry.KeyStatus())
		}
		if gotEntry.IsPrimary() != wantEntry.IsPrimary() {
			t.Errorf("entry %d: IsPrimary() = %v, want %v", i, gotEntry.IsPrimary(), wantEntry.IsPrimary())
		}
		if !gotEntry.Key().Equal(wantEntry.Key()) {
			t.Errorf("entry %d: Key().Equal() = false, want true", i)
		}
	}
}

func TestNewHandle(t *testing.T) {
	for _, variant := range []slhdsa.Variant{slhdsa.VariantTink, slhdsa.VariantNoPrefix} {
		t.Run(variant.String(), func(t *testing.T) {
			params := mustCreateParameters(t, variant)
			h, err := keyset.NewHandle(params)
			if err != nil {
				t.Fatalf("keyset.NewHandle(%v) err = %v, want nil", params, err)
			}
			if h.Len() != 1 {
				t.Errorf("h.Len() = %v, want 1", h.Len())
			}
			primary, err := h.Primary()
			if err != nil {
				t.Fatalf("h.Primary() err = %v, want nil", err)
			}
			if primary.KeyStatus() != keyset.Enabled {
				t.Errorf("primary.KeyStatus() = %v, want %v", primary.KeyStatus(), keyset.Enabled)
			}
			if !primary.Key().Parameters().Equal(params) {
				t.Errorf("primary.Key().Parameters() = %v, want %v", primary.Key().Parameters(), params)
			}
			idRequirement, required := primary.Key().IDRequirement()
			if required != params.HasIDRequirement() {
				t.Errorf("primary.Key().IDRequirement() required = %v, want %v", required, params.HasIDRequirement())
			}
			if required && idRequirement != primary.KeyID() {
				t.Errorf("primary.Key().IDRequirement() = %v, want %v", idRequirement, primary.KeyID())
			}
		})
	}
}

type unregisteredParameters struct{}

var _ key.Parameters = (*unregisteredParameters)(nil)

func (p *unregisteredParameters) HasIDRequirement() bool          { return false }
func (p *unregisteredParameters) Equal(other key.Parameters) bool { return false }

func TestNewHandleFails(t *testing.T) {
	for _, tc := range []struct {
		name   string
		params key.Parameters
	}{
		{"nil", nil},
		{"unregistered", &unregisteredParameters{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := keyset.NewHandle(tc.params); err == nil {
				t.Errorf("keyset.NewHandle(%v) err = nil, want error", tc.params)
			}
		})
	}
}

func TestHandleEntryFails(t *testing.T) {
	h := mustCreateHandle(t)
	for _, i := range []int{-1, 2, 100} {
		if _, err := h.Entry(i); err == nil {
			t.Errorf("h.Entry(%d) err = nil, want error", i)
		}
	}
	var nilHandle *keyset.Handle
	if nilHandle.Len() != 0 {
		t.Errorf("nilHandle.Len() = %v, want 0", nilHandle.Len())
	}
	if _, err := nilHandle.Primary(); err == nil {
		t.Errorf("nilHandle.Primary() err = nil, want error")
	}
}

func TestWriteAndReadCleartext(t *testing.T) {
	h := mustCreateHandle(t)
	buf := new(bytes.Buffer)
	if err := h.WriteCleartext(buf, insecuresecretdataaccess.Token{}); err != nil {
		t.Fatalf("h.WriteCleartext() err = %v, want nil", err)
	}
	got, err := keyset.ReadCleartext(buf, insecuresecretdataaccess.Token{})
	if err != nil {
		t.Fatalf("keyset.ReadCleartext() err = %v, want nil", err)
	}
	sameEntries(t, got, h)
}

func TestWriteAndReadWithNoSecrets(t *testing.T) {
	h := mustCreateHandle(t)
	publicHandle, err := h.Public()
	if err != nil {
		t.Fatalf("h.Public() err = %v, want nil", err)
	}
	buf := new(bytes.Buffer)
	if err := publicHandle.WriteWithNoSecrets(buf); err != nil {
		t.Fatalf("publicHandle.WriteWithNoSecrets() err = %v, want nil", err)
	}
	got, err := keyset.ReadWithNoSecrets(buf)
	if err != nil {
		t.Fatalf("keyset.ReadWithNoSecrets() err = %v, want nil", err)
	}
	sameEntries(t, got, publicHandle)
}

func TestWriteWithNoSecretsFailsWithPrivateKeys(t *testing.T) {
	h := mustCreateHandle(t)
	if err := h.WriteWithNoSecrets(new(bytes.Buffer)); err == nil {
		t.Errorf("h.WriteWithNoSecrets() err = nil, want error")
	}
}

func TestReadWithNoSecretsFailsWithPrivateKeys(t *testing.T) {
	h := mustCreateHandle(t)
	buf := new(bytes.Buffer)
	if err := h.WriteCleartext(buf, insecuresecretdataaccess.Token{}); err != nil {
		t.Fatalf("h.WriteCleartext() err = %v, want nil", err)
	}
	if _, err := keyset.ReadWithNoSecrets(buf); err == nil {
		t.Errorf("keyset.ReadWithNoSecrets() err = nil, want error")
	}
}

func TestReadFailsWithInvalidKeyset(t *testing.T) {
	for _, tc := range []struct {
		name       string
		serialized []byte
	}{
		{"empty", nil},
		{"garbage", []byte{0xff, 0xff, 0xff}},
		// primary_key_id: 1, no keys.
		{"no keys", []byte{0x08, 0x01}},
		// primary_key_id: 1, key: {key_data: {}, status: ENABLED, key_id: 1}.
		{"invalid key data", []byte{0x08, 0x01, 0x12, 0x06, 0x0a, 0x00, 0x10, 0x01, 0x18, 0x01}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := keyset.ReadCleartext(bytes.NewReader(tc.serialized), insecuresecretdataaccess.Token{}); err == nil {
				t.Errorf("keyset.ReadCleartext(%x) err = nil, want error", tc.serialized)
			}
		})
	}
}

func TestReadFailsWithoutEnabledPrimary(t *testing.T) {
	h := mustCreateHandle(t)
	publicHandle, err := h.Public()
	if err != nil {
		t.Fatalf("h.Public() err = %v, want nil", err)
	}
	buf := new(bytes.Buffer)
	if err := publicHandle.WriteWithNoSecrets(buf); err != nil {
		t.Fatalf("publicHandle.WriteWithNoSecrets() err = %v, want nil", err)
	}
	// primary_key_id is the first field; point it at the disabled key 456.
	serialized := buf.Bytes()
	if serialized[0] != 0x08 || serialized[1] != 123 {
		t.Fatalf("serialized[:2] = %x, want 087b", serialized[:2])
	}
	withDisabledPrimary := append([]byte{0x08, 0xc8, 0x03}, serialized[2:]...)
	if _, err := keyset.ReadWithNoSecrets(bytes.NewReader(withDisabledPrimary)); err == nil {
		t.Errorf("keyset.ReadWithNoSecrets() err = nil, want error")
	}
}

func TestPublic(t *testing.T) {
	h := mustCreateHandle(t)
	publicHandle, err := h.Public()
	if err != nil {
		t.Fatalf("h.Public() err = %v, want nil", err)
	}
	for i := 0; i < h.Len(); i++ {
		entry, err := h.Entry(i)
		if err != nil {
			t.Fatalf("h.Entry(%d) err = %v, want nil", i, err)
		}
		publicEntry, err := publicHandle.Entry(i)
		if err != nil {
			t.Fatalf("publicHandle.Entry(%d) err = %v, want nil", i, err)
		}
		wantPublicKey, err := entry.Key().(*slhdsa.PrivateKey).PublicKey()
		if err != nil {
			t.Fatalf("PublicKey() err = %v, want nil", err)
		}
		if !publicEntry.Key().Equal(wantPublicKey) {
			t.Errorf("publicEntry.Key() = %v, want %v", publicEntry.Key(), wantPublicKey)
		}
		if publicEntry.KeyID() != entry.KeyID() || publicEntry.KeyStatus() != entry.KeyStatus() || publicEntry.IsPrimary() != entry.IsPrimary() {
			t.Errorf("publicHandle.Entry(%d) metadata differs from h.Entry(%d)", i, i)
		}
	}
	if _, err := publicHandle.Public(); err == nil {
		t.Errorf("publicHandle.Public() err = nil, want error")
	}
}

func TestString(t *testing.T) {
	h := mustCreateHandle(t)
	got := h.String()
	want := `primary_key_id:123` +
		` key_info:{type_url:"type.googleapis.com/google.crypto.tink.SlhDsaPrivateKey" status:Enabled key_id:123 output_prefix_type:TINK}` +
		` key_info:{type_url:"type.googleapis.com/google.crypto.tink.SlhDsaPrivateKey" status:Disabled key_id:456 output_prefix_type:RAW}`
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("h.String() diff (-want +got):\n%s", diff)
	}
	if strings.Contains(got, "0101010101") {
		t.Errorf("h.String() = %q, contains key material", got)
	}
}

func TestPrimitives(t *testing.T) {
	h := mustCreateHandle(t)
	signers, err := keyset.Primitives[tink.Signer](h)
	if err != nil {
		t.Fatalf("keyset.Primitives[tink.Signer]() err = %v, want nil", err)
	}
	// The disabled key is skipped.
	if got, want := len(signers.EntriesInKeysetOrder), 1; got != want {
		t.Fatalf("len(signers.EntriesInKeysetOrder) = %v, want %v", got, want)
	}
	if signers.Primary.KeyID != 123 {
		t.Errorf("signers.Primary.KeyID = %v, want 123", signers.Primary.KeyID)
	}
	if got, want := signers.Primary.KeyType, "tink.SlhDsaPrivateKey"; got != want {
		t.Errorf("signers.Primary.KeyType = %q, want %q", got, want)
	}
	data := []byte("data")
	sig, err := signers.Primary.Primitive.Sign(data)
	if err != nil {
		t.Fatalf("Sign() err = %v, want nil", err)
	}
	if !bytes.HasPrefix(sig, []byte{0x01, 0x00, 0x00, 0x00, 123}) {
		t.Errorf("sig[:5] = %x, want 010000007b", sig[:5])
	}

	publicHandle, err := h.Public()
	if err != nil {
		t.Fatalf("h.Public() err = %v, want nil", err)
	}
	verifiers, err := keyset.Primitives[tink.Verifier](publicHandle)
	if err != nil {
		t.Fatalf("keyset.Primitives[tink.Verifier]() err = %v, want nil", err)
	}
	if got, want := verifiers.Primary.KeyType, "tink.SlhDsaPublicKey"; got != want {
		t.Errorf("verifiers.Primary.KeyType = %q, want %q", got, want)
	}
	if err := verifiers.Primary.Primitive.Verify(sig, data); err != nil {
		t.Errorf("Verify() err = %v, want nil", err)
	}
}

func TestPrimitivesFailsWithWrongPrimitiveType(t *testing.T) {
	h := mustCreateHandle(t)
	if _, err := keyset.Primitives[tink.Verifier](h); err == nil {
		t.Errorf("keyset.Primitives[tink.Verifier]() err = nil, want error")
	}
	if _, err := keyset.Primitives[tink.Signer](nil); err == nil {
		t.Errorf("keyset.Primitives[tink.Signer](nil) err = nil, want error")
	}
}

func TestPrimitivesCarriesAnnotations(t *testing.T) {
	annotations := map[string]string{"owner": "release-signing"}
	km := keyset.NewManagerFromHandle(mustCreateHandle(t))
	if err := km.SetAnnotations(annotations); err != nil {
		t.Fatalf("km.SetAnnotations() err = %v, want nil", err)
	}
	h, err := km.Handle()
	if err != nil {
		t.Fatalf("km.Handle() err = %v, want nil", err)
	}
	publicHandle, err := h.Public()
	if err != nil {
		t.Fatalf("h.Public() err = %v, want nil", err)
	}
	ps, err := keyset.Primitives[tink.Verifier](publicHandle)
	if err != nil {
		t.Fatalf("keyset.Primitives[tink.Verifier]() err = %v, want nil", err)
	}
	if diff := cmp.Diff(annotations, ps.Annotations); diff != "" {
		t.Errorf("ps.Annotations diff (-want +got):\n%s", diff)
	}
}
