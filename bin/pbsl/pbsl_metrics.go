// Copyright (c) 2024 John Millikin <john@john-millikin.com>
//
// Permission to use, copy, modify, and/or distribute this software for any
// purpose with or without fee is hereby granted.
//
// THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES WITH
// REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF MERCHANTABILITY
// AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR ANY SPECIAL, DIRECT,
// INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES WHATSOEVER RESULTING FROM
// LOSS OF USE, DATA OR PROFITS, WHETHER IN AN ACTION OF CONTRACT, NEGLIGENCE OR
// OTHER TORTIOUS ACTION, ARISING OUT OF OR IN CONNECTION WITH THE USE OR
// PERFORMANCE OF THIS SOFTWARE.
//
// SPDX-License-Identifier: 0BSD

package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type watchMetrics struct {
	compiles    *prometheus.CounterVec
	duration    prometheus.Histogram
	schemaFiles prometheus.Gauge
	events      prometheus.Counter
}

func newWatchMetrics(reg prometheus.Registerer) *watchMetrics {
	factory := promauto.With(reg)
	return &watchMetrics{
		compiles: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pbsl_compiles_total",
			Help: "Schema batch compilations, by result.",
		}, []string{"result"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pbsl_compile_duration_seconds",
			Help:    "Time to compile and generate one batch.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		schemaFiles: factory.NewGauge(prometheus.GaugeOpts{
			Name: "pbsl_schema_files",
			Help: "Schema files in the last batch.",
		}),
		events: factory.NewCounter(prometheus.CounterOpts{
			Name: "pbsl_watch_events_total",
			Help: "File system events that matched a schema file.",
		}),
	}
}
