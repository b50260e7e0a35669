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

package signature_test

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/tink-crypto/tink-go-slhdsa/insecuresecretdataaccess"
	"github.com/tink-crypto/tink-go-slhdsa/keyset"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring/prometheusmonitoring"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring/zapmonitoring"
	"github.com/tink-crypto/tink-go-slhdsa/signature"
	"github.com/tink-crypto/tink-go-slhdsa/signature/slhdsa"
	"github.com/tink-crypto/tink-go-slhdsa/subtle/random"
	"github.com/tink-crypto/tink-go-slhdsa/testing/fakemonitoring"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func mustCreateParameters(t testing.TB, variant slhdsa.Variant) *slhdsa.Parameters {
	t.Helper()
	params, err := slhdsa.NewParameters(slhdsa.SHAKE, 64, slhdsa.FastSigning, variant)
	if err != nil {
		t.Fatalf("slhdsa.NewParameters() err = %v, want nil", err)
	}
	return params
}

// mustCreateKeysetPair returns a private keyset with a TINK primary key and a
// NO_PREFIX key, and its public keyset.
func mustCreateKeysetPair(t *testing.T) (*keyset.Handle, *keyset.Handle) {
	t.Helper()
	km := keyset.NewManager()
	tinkKeyID, err := km.AddNewKeyFromParameters(mustCreateParameters(t, slhdsa.VariantTink))
	if err != nil {
		t.Fatalf("km.AddNewKeyFromParameters() err = %v, want nil", err)
	}
	if _, err := km.AddNewKeyFromParameters(mustCreateParameters(t, slhdsa.VariantNoPrefix)); err != nil {
		t.Fatalf("km.AddNewKeyFromParameters() err = %v, want nil", err)
	}
	if err := km.SetPrimary(tinkKeyID); err != nil {
		t.Fatalf("km.SetPrimary() err = %v, want nil", err)
	}
	privHandle, err := km.Handle()
	if err != nil {
		t.Fatalf("km.Handle() err = %v, want nil", err)
	}
	pubHandle, err := privHandle.Public()
	if err != nil {
		t.Fatalf("privHandle.Public() err = %v, want nil", err)
	}
	return privHandle, pubHandle
}

func TestSignerVerifyFactory(t *testing.T) {
	privHandle, pubHandle := mustCreateKeysetPair(t)
	signer, err := signature.NewSigner(privHandle)
	if err != nil {
		t.Fatalf("signature.NewSigner(privHandle) err = %v, want nil", err)
	}
	data := random.GetRandomBytes(1211)
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatalf("signer.Sign(data) err = %v, want nil", err)
	}
	// verify with the same set of public keys should work
	verifier, err := signature.NewVerifier(pubHandle)
	if err != nil {
		t.Fatalf("signature.NewVerifier(pubHandle) err = %v, want nil", err)
	}
	if err := verifier.Verify(sig, data); err != nil {
		t.Errorf("verifier.Verify(sig, data) = %v, want nil", err)
	}
	if err := verifier.Verify(sig, append(data, 0)); err == nil {
		t.Errorf("verifier.Verify(sig, modified data) = nil, want error")
	}
	// verify with other key should fail
	_, otherPubHandle := mustCreateKeysetPair(t)
	otherVerifier, err := signature.NewVerifier(otherPubHandle)
	if err != nil {
		t.Fatalf("signature.NewVerifier(otherPubHandle) err = %v, want nil", err)
	}
	if err = otherVerifier.Verify(sig, data); err == nil {
		t.Error("otherVerifier.Verify(sig, data) = nil, want not nil")
	}
}

func TestVerifierAcceptsSignaturesOfAllEnabledKeys(t *testing.T) {
	privHandle, pubHandle := mustCreateKeysetPair(t)
	verifier, err := signature.NewVerifier(pubHandle)
	if err != nil {
		t.Fatalf("signature.NewVerifier() err = %v, want nil", err)
	}
	data := []byte("rotated data")
	for i := 0; i < privHandle.Len(); i++ {
		entry, err := privHandle.Entry(i)
		if err != nil {
			t.Fatalf("privHandle.Entry(%d) err = %v, want nil", i, err)
		}
		// Make every key primary in turn.
		km := keyset.NewManagerFromHandle(privHandle)
		if err := km.SetPrimary(entry.KeyID()); err != nil {
			t.Fatalf("km.SetPrimary() err = %v, want nil", err)
		}
		h, err := km.Handle()
		if err != nil {
			t.Fatalf("km.Handle() err = %v, want nil", err)
		}
		signer, err := signature.NewSigner(h)
		if err != nil {
			t.Fatalf("signature.NewSigner() err = %v, want nil", err)
		}
		sig, err := signer.Sign(data)
		if err != nil {
			t.Fatalf("signer.Sign() err = %v, want nil", err)
		}
		if err := verifier.Verify(sig, data); err != nil {
			t.Errorf("verifier.Verify() with key %d err = %v, want nil", entry.KeyID(), err)
		}
	}
}

func TestVerifyFailsWithShortSignature(t *testing.T) {
	_, pubHandle := mustCreateKeysetPair(t)
	verifier, err := signature.NewVerifier(pubHandle)
	if err != nil {
		t.Fatalf("signature.NewVerifier() err = %v, want nil", err)
	}
	if err := verifier.Verify([]byte{0x01, 0x02}, []byte("data")); err == nil {
		t.Errorf("verifier.Verify() err = nil, want error")
	}
}

func TestPrimitiveFactoryFailsWithEmptyHandle(t *testing.T) {
	handle := &keyset.Handle{}
	if _, err := signature.NewSigner(handle); err == nil {
		t.Errorf("signature.NewSigner() err = nil, want not-nil")
	}
	if _, err := signature.NewVerifier(handle); err == nil {
		t.Errorf("signature.NewVerifier() err = nil, want not-nil")
	}
}

func TestFactoryWithInvalidPrimitiveSetType(t *testing.T) {
	privHandle, pubHandle := mustCreateKeysetPair(t)
	if _, err := signature.NewSigner(pubHandle); err == nil {
		t.Errorf("signature.NewSigner(pubHandle) err = nil, want error")
	}
	if _, err := signature.NewVerifier(privHandle); err == nil {
		t.Errorf("signature.NewVerifier(privHandle) err = nil, want error")
	}
}

func TestPrimitiveFactorySignVerifyWithoutAnnotationsDoesNothing(t *testing.T) {
	client := fakemonitoring.NewClient("fake-client")
	privHandle, pubHandle := mustCreateKeysetPair(t)
	signer, err := signature.NewSigner(privHandle, signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewSigner() err = %v, want nil", err)
	}
	verifier, err := signature.NewVerifier(pubHandle, signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewVerifier() err = %v, want nil", err)
	}
	data := []byte("some_important_data")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatalf("signer.Sign() err = %v, want nil", err)
	}
	if err := verifier.Verify(sig, data); err != nil {
		t.Fatalf("verifier.Verify() err = %v, want nil", err)
	}
	if len(client.Events()) != 0 {
		t.Errorf("len(client.Events()) = %d, want 0", len(client.Events()))
	}
	if len(client.Failures()) != 0 {
		t.Errorf("len(client.Failures()) = %d, want 0", len(client.Failures()))
	}
}

// mustAnnotate returns a copy of h with annotations.
func mustAnnotate(t *testing.T, h *keyset.Handle, annotations map[string]string) *keyset.Handle {
	t.Helper()
	km := keyset.NewManagerFromHandle(h)
	if err := km.SetAnnotations(annotations); err != nil {
		t.Fatalf("km.SetAnnotations() err = %v, want nil", err)
	}
	annotated, err := km.Handle()
	if err != nil {
		t.Fatalf("km.Handle() err = %v, want nil", err)
	}
	return annotated
}

func TestPrimitiveFactoryMonitoringWithAnnotationsLogSignVerify(t *testing.T) {
	client := fakemonitoring.NewClient("fake-client")
	handle, err := keyset.NewHandle(mustCreateParameters(t, slhdsa.VariantTink))
	if err != nil {
		t.Fatalf("keyset.NewHandle() err = %v, want nil", err)
	}
	buff := &bytes.Buffer{}
	if err := handle.WriteCleartext(buff, insecuresecretdataaccess.Token{}); err != nil {
		t.Fatalf("handle.WriteCleartext() err = %v, want nil", err)
	}
	readHandle, err := keyset.ReadCleartext(buff, insecuresecretdataaccess.Token{})
	if err != nil {
		t.Fatalf("keyset.ReadCleartext() err = %v, want nil", err)
	}
	annotations := map[string]string{"foo": "bar"}
	privHandle := mustAnnotate(t, readHandle, annotations)
	signer, err := signature.NewSigner(privHandle, signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewSigner() err = %v, want nil", err)
	}
	pubHandle, err := privHandle.Public()
	if err != nil {
		t.Fatalf("privHandle.Public() err = %v, want nil", err)
	}
	verifier, err := signature.NewVerifier(pubHandle, signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewVerifier() err = %v, want nil", err)
	}
	data := []byte("some_important_data")
	sig, err := signer.Sign(data)
	if err != nil {
		t.Fatalf("signer.Sign() err = %v, want nil", err)
	}
	if err := verifier.Verify(sig, data); err != nil {
		t.Fatalf("verifier.Verify() err = %v, want nil", err)
	}
	if len(client.Failures()) != 0 {
		t.Errorf("len(client.Failures()) = %d, want 0", len(client.Failures()))
	}
	primary, err := privHandle.Primary()
	if err != nil {
		t.Fatalf("privHandle.Primary() err = %v, want nil", err)
	}
	keyID := primary.KeyID()
	wantVerifyKeysetInfo := &monitoring.KeysetInfo{
		Annotations:  annotations,
		PrimaryKeyID: keyID,
		Entries: []*monitoring.Entry{
			{
				KeyID:     keyID,
				Status:    monitoring.Enabled,
				KeyType:   "tink.SlhDsaPublicKey",
				KeyPrefix: "TINK",
			},
		},
	}
	wantSignKeysetInfo := &monitoring.KeysetInfo{
		Annotations:  annotations,
		PrimaryKeyID: keyID,
		Entries: []*monitoring.Entry{
			{
				KeyID:     keyID,
				Status:    monitoring.Enabled,
				KeyType:   "tink.SlhDsaPrivateKey",
				KeyPrefix: "TINK",
			},
		},
	}
	want := []*fakemonitoring.LogEvent{
		{
			Context:  monitoring.NewContext("public_key_sign", "sign", wantSignKeysetInfo),
			KeyID:    keyID,
			NumBytes: len(data),
		},
		{
			Context:  monitoring.NewContext("public_key_verify", "verify", wantVerifyKeysetInfo),
			KeyID:    keyID,
			NumBytes: len(data),
		},
	}
	if diff := cmp.Diff(want, client.Events()); diff != "" {
		t.Errorf("%v", diff)
	}
}

func TestPrimitiveFactoryMonitoringWithAnnotationsVerifyFailureIsLogged(t *testing.T) {
	client := fakemonitoring.NewClient("fake-client")
	_, pubHandle := mustCreateKeysetPair(t)
	annotations := map[string]string{"foo": "bar"}
	verifier, err := signature.NewVerifier(mustAnnotate(t, pubHandle, annotations), signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewVerifier() err = %v, want nil", err)
	}
	if err := verifier.Verify([]byte("invalid_signature"), []byte("data")); err == nil {
		t.Fatalf("verifier.Verify() err = nil, want error")
	}
	if len(client.Events()) != 0 {
		t.Errorf("len(client.Events()) = %d, want 0", len(client.Events()))
	}
	failures := client.Failures()
	if len(failures) != 1 {
		t.Fatalf("len(client.Failures()) = %d, want 1", len(failures))
	}
	got := failures[0].Context
	if got.Primitive != "public_key_verify" || got.APIFunction != "verify" {
		t.Errorf("failure context = (%q, %q), want (%q, %q)", got.Primitive, got.APIFunction, "public_key_verify", "verify")
	}
	if diff := cmp.Diff(annotations, got.KeysetInfo.Annotations); diff != "" {
		t.Errorf("failure annotations diff (-want +got):\n%s", diff)
	}
	if len(got.KeysetInfo.Entries) != 2 {
		t.Errorf("len(got.KeysetInfo.Entries) = %d, want 2", len(got.KeysetInfo.Entries))
	}
}

// signVerifyWithClient signs data twice with an annotated single-key keyset,
// verifies one signature and one corrupted signature, and returns the primary
// key ID.
func signVerifyWithClient(t *testing.T, client monitoring.Client, data []byte) uint32 {
	t.Helper()
	handle, err := keyset.NewHandle(mustCreateParameters(t, slhdsa.VariantTink))
	if err != nil {
		t.Fatalf("keyset.NewHandle() err = %v, want nil", err)
	}
	privHandle := mustAnnotate(t, handle, map[string]string{"owner": "release"})
	pubHandle, err := privHandle.Public()
	if err != nil {
		t.Fatalf("privHandle.Public() err = %v, want nil", err)
	}
	primary, err := privHandle.Primary()
	if err != nil {
		t.Fatalf("privHandle.Primary() err = %v, want nil", err)
	}
	signer, err := signature.NewSigner(privHandle, signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewSigner() err = %v, want nil", err)
	}
	verifier, err := signature.NewVerifier(pubHandle, signature.WithMonitoringClient(client))
	if err != nil {
		t.Fatalf("signature.NewVerifier() err = %v, want nil", err)
	}
	var sig []byte
	for range 2 {
		if sig, err = signer.Sign(data); err != nil {
			t.Fatalf("signer.Sign() err = %v, want nil", err)
		}
	}
	if err := verifier.Verify(sig, data); err != nil {
		t.Fatalf("verifier.Verify() err = %v, want nil", err)
	}
	corrupted := bytes.Clone(sig)
	corrupted[len(corrupted)-1] ^= 1
	if err := verifier.Verify(corrupted, data); err == nil {
		t.Fatalf("verifier.Verify() with corrupted signature err = nil, want error")
	}
	return primary.KeyID()
}

func TestPrimitiveFactoryWithPrometheusClient(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	client, err := prometheusmonitoring.NewClient(reg)
	if err != nil {
		t.Fatalf("prometheusmonitoring.NewClient() err = %v, want nil", err)
	}
	data := []byte("some_important_data")
	keyID := signVerifyWithClient(t, client, data)

	want := fmt.Sprintf(`
# HELP slhdsa_failures_total Number of failed operations
# TYPE slhdsa_failures_total counter
slhdsa_failures_total{api="sign",primitive="public_key_sign"} 0
slhdsa_failures_total{api="verify",primitive="public_key_verify"} 1
# HELP slhdsa_operation_bytes_total Number of message bytes processed by successful operations
# TYPE slhdsa_operation_bytes_total counter
slhdsa_operation_bytes_total{api="sign",primitive="public_key_sign"} %[2]d
slhdsa_operation_bytes_total{api="verify",primitive="public_key_verify"} %[3]d
# HELP slhdsa_operations_total Number of successful operations
# TYPE slhdsa_operations_total counter
slhdsa_operations_total{api="sign",key_id="%[1]d",primitive="public_key_sign"} 2
slhdsa_operations_total{api="verify",key_id="%[1]d",primitive="public_key_verify"} 1
`, keyID, 2*len(data), len(data))
	if err := testutil.GatherAndCompare(reg, strings.NewReader(want),
		"slhdsa_failures_total", "slhdsa_operation_bytes_total", "slhdsa_operations_total"); err != nil {
		t.Errorf("testutil.GatherAndCompare() err = %v, want nil", err)
	}
}

func TestPrimitiveFactoryWithZapClient(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	client, err := zapmonitoring.NewClient(zap.New(core))
	if err != nil {
		t.Fatalf("zapmonitoring.NewClient() err = %v, want nil", err)
	}
	data := []byte("some_important_data")
	keyID := signVerifyWithClient(t, client, data)

	type logLine struct {
		Message string
		API     string
		KeyID   any
	}
	var got []logLine
	for _, e := range logs.AllUntimed() {
		fields := e.ContextMap()
		got = append(got, logLine{Message: e.Message, API: fmt.Sprint(fields["api"]), KeyID: fields["key_id"]})
	}
	want := []logLine{
		{Message: "operation succeeded", API: "sign", KeyID: keyID},
		{Message: "operation succeeded", API: "sign", KeyID: keyID},
		{Message: "operation succeeded", API: "verify", KeyID: keyID},
		{Message: "operation failed", API: "verify"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("logged entries mismatch (-want +got):\n%s", diff)
	}
}
