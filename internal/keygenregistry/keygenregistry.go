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

// Package keygenregistry maps parameter types to the functions that generate
// fresh keys for them.
package keygenregistry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/tink-crypto/tink-go-slhdsa/key"
)

// KeyCreator generates a new key for p. idRequirement is ignored when p has
// no ID requirement.
type KeyCreator func(p key.Parameters, idRequirement uint32) (key.Key, error)

var (
	mu       sync.RWMutex
	creators = make(map[reflect.Type]KeyCreator)
)

// RegisterKeyCreator registers creator for parameters of type P. Function
// values cannot be compared, so any second registration for P fails.
func RegisterKeyCreator[P key.Parameters](creator KeyCreator) error {
	mu.Lock()
	defer mu.Unlock()
	parametersType := reflect.TypeFor[P]()
	if _, found := creators[parametersType]; found {
		return fmt.Errorf("keygenregistry: a key creator is already registered for %v", parametersType)
	}
	creators[parametersType] = creator
	return nil
}

// CreateKey generates a new key for p.
func CreateKey(p key.Parameters, idRequirement uint32) (key.Key, error) {
	mu.RLock()
	creator, found := creators[reflect.TypeOf(p)]
	mu.RUnlock()
	if !found {
		return nil, fmt.Errorf("keygenregistry: no key creator for parameters %T", p)
	}
	return creator(p, idRequirement)
}

// UnregisterKeyCreator removes the creator for parameters of type P.
//
// This function is intended to be used in tests only.
func UnregisterKeyCreator[P key.Parameters]() {
	mu.Lock()
	defer mu.Unlock()
	delete(creators, reflect.TypeFor[P]())
}
