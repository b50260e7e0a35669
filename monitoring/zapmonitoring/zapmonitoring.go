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

// Package zapmonitoring implements a monitoring.Client that writes one
// structured log entry per sign or verify call.
package zapmonitoring

import (
	"fmt"

	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Client creates loggers that write to a zap.Logger.
type Client struct {
	log   *zap.Logger
	level zapcore.Level
}

var _ monitoring.Client = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithLevel sets the level of the entries for successful calls. Failures are
// always logged at warning level. The default is zapcore.DebugLevel.
func WithLevel(level zapcore.Level) Option {
	return func(c *Client) { c.level = level }
}

// NewClient returns a client that logs to log.
func NewClient(log *zap.Logger, opts ...Option) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("zapmonitoring: logger is nil")
	}
	c := &Client{log: log, level: zapcore.DebugLevel}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// NewLogger returns a logger for the primitive and API function of context.
func (c *Client) NewLogger(context *monitoring.Context) (monitoring.Logger, error) {
	if context == nil || context.KeysetInfo == nil {
		return nil, fmt.Errorf("zapmonitoring: keyset info is required")
	}
	return &logger{
		log: c.log.With(
			zap.String("primitive", context.Primitive),
			zap.String("api", context.APIFunction),
			zap.Uint32("primary_key_id", context.KeysetInfo.PrimaryKeyID),
			zap.Any("annotations", context.KeysetInfo.Annotations),
		),
		level: c.level,
	}, nil
}

type logger struct {
	log   *zap.Logger
	level zapcore.Level
}

var _ monitoring.Logger = (*logger)(nil)

func (l *logger) Log(keyID uint32, numBytes int) {
	if ce := l.log.Check(l.level, "operation succeeded"); ce != nil {
		ce.Write(zap.Uint32("key_id", keyID), zap.Int("num_bytes", numBytes))
	}
}

func (l *logger) LogFailure() {
	l.log.Warn("operation failed")
}
