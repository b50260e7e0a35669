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

// Package key defines the interfaces shared by key objects and their
// parameters.
package key

// Parameters describes everything about a key except the key material itself.
type Parameters interface {
	// HasIDRequirement reports whether keys created with these parameters must
	// carry a key ID. Keys with an ID requirement prefix their output with it.
	HasIDRequirement() bool
	// Equal reports whether other describes the same parameters.
	Equal(other Parameters) bool
}

// Key is a key object: key material together with its parameters and, when
// required, its ID.
type Key interface {
	// Parameters returns the parameters of this key.
	Parameters() Parameters
	// IDRequirement returns the key ID and whether the parameters require one.
	// The ID is zero when it is not required.
	IDRequirement() (id uint32, required bool)
	// Equal reports whether other holds the same parameters, ID and material.
	Equal(other Key) bool
}
