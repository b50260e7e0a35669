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

// Package prometheusmonitoring implements a monitoring.Client that maintains
// Prometheus counters of sign and verify calls.
package prometheusmonitoring

import (
	"fmt"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tink-crypto/tink-go-slhdsa/monitoring"
)

// Client counts operations into metrics registered on a prometheus.Registerer.
type Client struct {
	operations *prometheus.CounterVec
	bytes      *prometheus.CounterVec
	failures   *prometheus.CounterVec
}

var _ monitoring.Client = (*Client)(nil)

// NewClient creates the metrics and registers them on reg.
func NewClient(reg prometheus.Registerer) (*Client, error) {
	if reg == nil {
		return nil, fmt.Errorf("prometheusmonitoring: registerer is nil")
	}
	c := &Client{
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slhdsa_operations_total",
				Help: "Number of successful operations",
			},
			[]string{"primitive", "api", "key_id"},
		),
		bytes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slhdsa_operation_bytes_total",
				Help: "Number of message bytes processed by successful operations",
			},
			[]string{"primitive", "api"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slhdsa_failures_total",
				Help: "Number of failed operations",
			},
			[]string{"primitive", "api"},
		),
	}
	for _, collector := range []prometheus.Collector{c.operations, c.bytes, c.failures} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("prometheusmonitoring: %v", err)
		}
	}
	return c, nil
}

// NewLogger returns a logger that counts calls under the primitive and API
// function of context.
func (c *Client) NewLogger(context *monitoring.Context) (monitoring.Logger, error) {
	if context == nil {
		return nil, fmt.Errorf("prometheusmonitoring: context is nil")
	}
	labels := prometheus.Labels{"primitive": context.Primitive, "api": context.APIFunction}
	bytes, err := c.bytes.GetMetricWith(labels)
	if err != nil {
		return nil, fmt.Errorf("prometheusmonitoring: %v", err)
	}
	failures, err := c.failures.GetMetricWith(labels)
	if err != nil {
		return nil, fmt.Errorf("prometheusmonitoring: %v", err)
	}
	return &logger{
		operations: c.operations.MustCurryWith(labels),
		bytes:      bytes,
		failures:   failures,
	}, nil
}

type logger struct {
	operations *prometheus.CounterVec
	bytes      prometheus.Counter
	failures   prometheus.Counter
}

var _ monitoring.Logger = (*logger)(nil)

func (l *logger) Log(keyID uint32, numBytes int) {
	l.operations.WithLabelValues(strconv.FormatUint(uint64(keyID), 10)).Inc()
	l.bytes.Add(float64(numBytes))
}

func (l *logger) LogFailure() {
	l.failures.Inc()
}
