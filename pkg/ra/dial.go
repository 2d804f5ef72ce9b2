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

package ra

import (
	"context"
	"fmt"
	"net/url"
)

// Dial selects a transport by URL scheme and establishes the underlying
// connection: svn+ssh:// via golang.org/x/crypto/ssh, http(s):// via
// golang.org/x/net/http2. The svn ra wire protocol spoken over that
// connection is a non-goal (spec.md §1); the returned Session's Replay
// reports this plainly rather than silently returning nothing. Use
// NewFixtureSession to drive a DumpEditor without a live connection.
func Dial(ctx context.Context, rawURL string) (Session, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("ra: parse %q: %w", rawURL, err)
	}
	switch u.Scheme {
	case "svn+ssh":
		return dialSSH(ctx, u)
	case "http", "https":
		return dialHTTP(ctx, u)
	default:
		return nil, fmt.Errorf("ra: unsupported URL scheme %q", u.Scheme)
	}
}
