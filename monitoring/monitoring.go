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

// Package monitoring defines the interfaces through which signers and
// verifiers report their activity.
//
// The library ships two implementations: package zapmonitoring writes
// structured logs and package prometheusmonitoring maintains counters.
package monitoring

// KeyStatus is the status of a key in a keyset.
type KeyStatus int

const (
	// Enabled keys are used for signing (if primary) and verification.
	Enabled KeyStatus = iota
	// Disabled keys are kept but not used.
	Disabled
	// Destroyed keys have had their material erased.
	Destroyed
)

func (s KeyStatus) String() string {
	switch s {
	case Enabled:
		return "ENABLED"
	case Disabled:
		return "DISABLED"
	case Destroyed:
		return "DESTROYED"
	default:
		return "UNKNOWN"
	}
}

// Entry describes one key of a monitored keyset.
type Entry struct {
	KeyID     uint32
	Status    KeyStatus
	KeyType   string
	KeyPrefix string
}

// KeysetInfo describes a monitored keyset.
type KeysetInfo struct {
	Annotations  map[string]string
	PrimaryKeyID uint32
	Entries      []*Entry
}

// Context identifies what a Logger is recording: which primitive, which API
// function of it, and on which keyset.
type Context struct {
	Primitive   string
	APIFunction string
	KeysetInfo  *KeysetInfo
}

// NewContext creates a new monitoring context.
func NewContext(primitive, apiFunction string, keysetInfo *KeysetInfo) *Context {
	return &Context{
		Primitive:   primitive,
		APIFunction: apiFunction,
		KeysetInfo:  keysetInfo,
	}
}

// Logger records the outcome of calls to a single API function.
type Logger interface {
	// Log records a successful call that used keyID on numBytes of input.
	Log(keyID uint32, numBytes int)
	// LogFailure records a failed call.
	LogFailure()
}

// Client creates Loggers.
type Client interface {
	NewLogger(context *Context) (Logger, error)
}
