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

// Package version carries the build-time version string, mirroring the
// pkg/version import used throughout diluga-juicefs's pkg/meta.
package version

var (
	// version is set by -ldflags at build time; "dev" otherwise.
	version = "dev"
)

// Version returns the dumper's version string.
func Version() string {
	return version
}
