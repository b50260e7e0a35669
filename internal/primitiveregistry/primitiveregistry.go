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

// Package primitiveregistry maps key types to the functions that build
// primitives from them.
package primitiveregistry

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/tink-crypto/tink-go-slhdsa/key"
)

// Constructor builds a primitive from a key.
type Constructor func(k key.Key) (any, error)

var (
	mu           sync.RWMutex
	constructors = make(map[reflect.Type]Constructor)
)

// RegisterPrimitiveConstructor registers constructor for keys of type K.
// Registering the same function twice is a no-op; registering a different one
// is an error.
func RegisterPrimitiveConstructor[K key.Key](constructor Constructor) error {
	keyType := reflect.TypeFor[K]()
	mu.Lock()
	defer mu.Unlock()
	if existing, found := constructors[keyType]; found && reflect.ValueOf(existing).Pointer() != reflect.ValueOf(constructor).Pointer() {
		return fmt.Errorf("primitiveregistry: a different constructor is already registered for %v", keyType)
	}
	constructors[keyType] = constructor
	return nil
}

// UnregisterPrimitiveConstructor removes the constructor for keys of type K.
//
// This function is intended to be used in tests only.
func UnregisterPrimitiveConstructor[K key.Key]() {
	mu.Lock()
	defer mu.Unlock()
	delete(constructors, reflect.TypeFor[K]())
}

// Primitive builds a primitive of type T from k.
func Primitive[T any](k key.Key) (T, error) {
	var zero T
	if k == nil {
		return zero, fmt.Errorf("primitiveregistry: key is nil")
	}
	mu.RLock()
	constructor, found := constructors[reflect.TypeOf(k)]
	mu.RUnlock()
	if !found {
		return zero, fmt.Errorf("primitiveregistry: no constructor for key %T", k)
	}
	p, err := constructor(k)
	if err != nil {
		return zero, err
	}
	typed, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("primitiveregistry: key %T yields %T, not %v", k, p, reflect.TypeFor[T]())
	}
	return typed, nil
}
