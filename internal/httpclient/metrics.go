/*******************************************************************************
* Copyright (C) 2026 the Eclipse BaSyx Authors and Fraunhofer IESE
*
* Permission is hereby granted, free of charge, to any person obtaining
* a copy of this software and associated documentation files (the
* "Software"), to deal in the Software without restriction, including
* without limitation the rights to use, copy, modify, merge, publish,
* distribute, sublicense, and/or sell copies of the Software, and to
* permit persons to whom the Software is furnished to do so, subject to
* the following conditions:
*
* The above copyright notice and this permission notice shall be
* included in all copies or substantial portions of the Software.
*
* THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
* EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
* MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
* NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS BE
* LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN ACTION
* OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN CONNECTION
* WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*
* SPDX-License-Identifier: MIT
******************************************************************************/

package httpclient

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics of the outgoing requests to AAS services.
type Metrics struct {
	Requests     *prometheus.CounterVec
	Duration     *prometheus.HistogramVec
	Retries      *prometheus.CounterVec
	BreakerState *prometheus.GaugeVec
}

// NewMetrics creates unregistered collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aas_dataplane",
				Subsystem: "http_client",
				Name:      "requests_total",
				Help:      "Requests sent to AAS services by host, method and status code (0 = transport error)",
			},
			[]string{"host", "method", "code"},
		),

		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "aas_dataplane",
				Subsystem: "http_client",
				Name:      "request_duration_seconds",
				Help:      "Duration of requests to AAS services including retries",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"host", "method"},
		),

		Retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "aas_dataplane",
				Subsystem: "http_client",
				Name:      "retries_total",
				Help:      "Retried requests to AAS services",
			},
			[]string{"host"},
		),

		BreakerState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "aas_dataplane",
				Subsystem: "http_client",
				Name:      "circuit_breaker_state",
				Help:      "Circuit breaker state per host (0=closed, 1=half-open, 2=open)",
			},
			[]string{"host"},
		),
	}
}

// Register adds all collectors to reg. Collectors already registered are reused.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.Requests, m.Duration, m.Retries, m.BreakerState} {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
