// Copyright 2017 Google Inc. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package mssmt

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors both engines report to, labeled
// by engine ("regular" or "compact"). A nil *Metrics disables
// instrumentation; both NewTree and NewCompactedTree accept one as an
// option and treat nil as "off".
type Metrics struct {
	insertDuration   *prometheus.HistogramVec
	insertTotal      *prometheus.CounterVec
	sumOverflowTotal *prometheus.CounterVec
}

// NewMetrics builds the tree's collectors and registers them against reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		insertDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "mssmt",
			Name:      "insert_duration_seconds",
			Help:      "Time spent executing Insert, by engine.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"engine"}),
		insertTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mssmt",
			Name:      "insert_total",
			Help:      "Number of completed Insert calls, by engine.",
		}, []string{"engine"}),
		sumOverflowTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mssmt",
			Name:      "sum_overflow_total",
			Help:      "Number of Insert calls rejected with ErrSumOverflow, by engine.",
		}, []string{"engine"}),
	}
	for _, c := range []prometheus.Collector{m.insertDuration, m.insertTotal, m.sumOverflowTotal} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) observeOverflow(engine string) {
	if m == nil {
		return
	}
	m.sumOverflowTotal.WithLabelValues(engine).Inc()
}

func (m *Metrics) observeInsert(engine string, seconds float64) {
	if m == nil {
		return
	}
	m.insertDuration.WithLabelValues(engine).Observe(seconds)
	m.insertTotal.WithLabelValues(engine).Inc()
}
