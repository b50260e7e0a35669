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

// Package monitoringutil implements utility functions for monitoring.
package monitoringutil

import (
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/internal/primitiveset"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
)

// DoNothingLogger is a Logger that does nothing when invoked.
type DoNothingLogger struct{}

var _ monitoring.Logger = (*DoNothingLogger)(nil)

// Log drops a log call.
func (l *DoNothingLogger) Log(uint32, int) {}

// LogFailure drops a failure call.
func (l *DoNothingLogger) LogFailure() {}

// DoNothingClient hands out DoNothingLoggers.
type DoNothingClient struct{}

var _ monitoring.Client = (*DoNothingClient)(nil)

// NewLogger returns a DoNothingLogger.
func (c *DoNothingClient) NewLogger(*monitoring.Context) (monitoring.Logger, error) {
	return &DoNothingLogger{}, nil
}

func keyPrefixName(prefix []byte) string {
	if len(prefix) == 0 {
		return "RAW"
	}
	return "TINK"
}

// KeysetInfoFromPrimitiveSet creates a KeysetInfo from ps. Entries are listed
// in keyset order; every entry of a primitive set is enabled.
func KeysetInfoFromPrimitiveSet[T any](ps *primitiveset.PrimitiveSet[T]) (*monitoring.KeysetInfo, error) {
	if ps == nil {
		return nil, fmt.Errorf("primitive set is nil")
	}
	if len(ps.EntriesInKeysetOrder) == 0 {
		return nil, fmt.Errorf("primitive set is empty")
	}
	if ps.Primary == nil {
		return nil, fmt.Errorf("primary key must not be nil")
	}
	entries := make([]*monitoring.Entry, 0, len(ps.EntriesInKeysetOrder))
	for _, pe := range ps.EntriesInKeysetOrder {
		entries = append(entries, &monitoring.Entry{
			KeyID:     pe.KeyID,
			Status:    monitoring.Enabled,
			KeyType:   pe.KeyType,
			KeyPrefix: keyPrefixName(pe.OutputPrefix()),
		})
	}
	return &monitoring.KeysetInfo{
		Annotations:  ps.Annotations,
		PrimaryKeyID: ps.Primary.KeyID,
		Entries:      entries,
	}, nil
}
