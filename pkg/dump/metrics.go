/*
 * Copyright 2026 Juicedata, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package dump

import "github.com/prometheus/client_golang/prometheus"

// nodesEmitted counts node-producing editor callbacks by the action they
// resolve to: every delete_entry counts once as "delete" (including one a
// later add turns into a replace), and every add_directory/add_file counts
// once as "add" or "replace". "change" records (open_file, change_dir_prop)
// are not counted, and a replace with a copy source counts once as
// "replace" although it writes a delete record and an add record. The
// counter spans every DumpEditor in the process — there's normally exactly one per run, but
// the counter is process-scoped like the rest of this module's metrics
// rather than per-instance, matching how the teacher's own counters are
// registered once at package init (SPEC_FULL.md §8).
var nodesEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "svnrdump",
	Name:      "nodes_emitted_total",
	Help:      "Number of node-producing editor callbacks, by resolved action.",
}, []string{"action"})

var scratchBytesSpliced = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "svnrdump",
	Name:      "scratch_bytes_spliced_total",
	Help:      "Bytes copied from scratch delta files into the output stream.",
})

func init() {
	prometheus.MustRegister(nodesEmitted, scratchBytesSpliced)
}

// editorMetrics is a thin per-DumpEditor handle onto the package-level
// collectors, kept as a struct (rather than calling the global vars
// directly) so a future second editor in the same process — tests run in
// parallel, say — doesn't have to reason about shared state beyond the
// label set.
type editorMetrics struct{}

func newEditorMetrics() *editorMetrics {
	return &editorMetrics{}
}

func (m *editorMetrics) observeNode(action string) {
	if m == nil {
		return
	}
	nodesEmitted.WithLabelValues(action).Inc()
}
