// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package staging

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	stagingFiles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sirecipe_staging_files_total",
			Help: "Total number of planned files by operation and action",
		},
		[]string{"operation", "action"},
	)

	stagingBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sirecipe_staging_bytes_copied_total",
			Help: "Total number of bytes written to staging destinations",
		},
		[]string{"operation"},
	)

	stagingApplyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sirecipe_staging_apply_duration_seconds",
			Help:    "Duration of plan application in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	stagingStaleRemoved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sirecipe_staging_stale_temp_removed_total",
			Help: "Total number of orphaned staging temp files removed",
		},
	)
)

// recordReport updates the staging metrics from a finished report.
func recordReport(r *Report) {
	op := string(r.Operation)
	for _, f := range r.Files {
		stagingFiles.WithLabelValues(op, string(f.Action)).Inc()
	}
	if !r.DryRun {
		stagingBytes.WithLabelValues(op).Add(float64(r.BytesCopied))
	}
	stagingApplyDuration.WithLabelValues(op).Observe(r.Duration.Seconds())
}
