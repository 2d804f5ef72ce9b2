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

package utils

import "github.com/google/gops/agent"

var diagLogger = GetLogger("diag")

// StartDiagAgent starts a gops diagnostics agent listening on the local
// loopback address so an operator can attach `gops` to a long-running
// dump for stack dumps and memory stats, the same facility diluga-juicefs
// wires into its daemon commands.
func StartDiagAgent() {
	if err := agent.Listen(agent.Options{}); err != nil {
		diagLogger.Warnf("gops agent: %s", err)
	}
}
