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

package keygenregistry_test

import (
	"errors"
	"testing"

	"github.com/tink-crypto/tink-go-slhdsa/internal/keygenregistry"
	"github.com/tink-crypto/tink-go-slhdsa/key"
)

type stubParams struct{ tink bool }

func (p *stubParams) HasIDRequirement() bool          { return p.tink }
func (p *stubParams) Equal(other key.Parameters) bool { return other == key.Parameters(p) }

type stubKey struct {
	params *stubParams
	id     uint32
}

func (k *stubKey) Parameters() key.Parameters    { return k.params }
func (k *stubKey) Equal(other key.Key) bool      { return other == key.Key(k) }
func (k *stubKey) IDRequirement() (uint32, bool) { return k.id, k.params.tink }

func createStubKey(p key.Parameters, idRequirement uint32) (key.Key, error) {
	sp := p.(*stubParams)
	if !sp.tink {
		idRequirement = 0
	}
	return &stubKey{params: sp, id: idRequirement}, nil
}

func TestCreateKey(t *testing.T) {
	defer keygenregistry.UnregisterKeyCreator[*stubParams]()
	if err := keygenregistry.RegisterKeyCreator[*stubParams](createStubKey); err != nil {
		t.Fatalf("keygenregistry.RegisterKeyCreator() err = %v, want nil", err)
	}
	for _, tc := range []struct {
		name   string
		params *stubParams
		wantID uint32
	}{
		{"with ID requirement", &stubParams{tink: true}, 123},
		{"without ID requirement", &stubParams{tink: false}, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			k, err := keygenregistry.CreateKey(tc.params, 123)
			if err != nil {
				t.Fatalf("keygenregistry.CreateKey() err = %v, want nil", err)
			}
			if id, _ := k.IDRequirement(); id != tc.wantID {
				t.Errorf("k.IDRequirement() = %v, want %v", id, tc.wantID)
			}
			if k.Parameters() != key.Parameters(tc.params) {
				t.Errorf("k.Parameters() = %v, want %v", k.Parameters(), tc.params)
			}
		})
	}
}

func TestRegisterKeyCreatorTwiceFails(t *testing.T) {
	defer keygenregistry.UnregisterKeyCreator[*stubParams]()
	if err := keygenregistry.RegisterKeyCreator[*stubParams](createStubKey); err != nil {
		t.Fatalf("keygenregistry.RegisterKeyCreator() err = %v, want nil", err)
	}
	if err := keygenregistry.RegisterKeyCreator[*stubParams](createStubKey); err == nil {
		t.Errorf("second keygenregistry.RegisterKeyCreator() err = nil, want error")
	}
}

func TestCreateKeyFails(t *testing.T) {
	if _, err := keygenregistry.CreateKey(&stubParams{}, 0); err == nil {
		t.Errorf("keygenregistry.CreateKey() without creator err = nil, want error")
	}
	defer keygenregistry.UnregisterKeyCreator[*stubParams]()
	failing := func(key.Parameters, uint32) (key.Key, error) { return nil, errors.New("no entropy") }
	if err := keygenregistry.RegisterKeyCreator[*stubParams](failing); err != nil {
		t.Fatalf("keygenregistry.RegisterKeyCreator() err = %v, want nil", err)
	}
	if _, err := keygenregistry.CreateKey(&stubParams{}, 0); err == nil {
		t.Errorf("keygenregistry.CreateKey() with failing creator err = nil, want error")
	}
}
