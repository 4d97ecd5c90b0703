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

// TreeOption configures NewTree or NewCompactedTree.
type TreeOption func(*treeOptions)

type treeOptions struct {
	metrics *Metrics
}

// WithMetrics enables Prometheus instrumentation on the engine.
func WithMetrics(m *Metrics) TreeOption {
	return func(o *treeOptions) { o.metrics = m }
}

func applyOptions(opts []TreeOption) treeOptions {
	var o treeOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
