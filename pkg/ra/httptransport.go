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
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"golang.org/x/net/http2"
)

// dialHTTP opens the http(s):// transport connection via HTTP/2, the
// protocol svn's mod_dav_svn/serf-based clients negotiate over. As with
// dialSSH, the DAV-over-HTTP exchange itself is out of scope; dialHTTP
// only proves the connection is reachable (one OPTIONS round trip).
func dialHTTP(ctx context.Context, u *url.URL) (Session, error) {
	transport := &http2.Transport{}
	if u.Scheme == "http" {
		transport.AllowHTTP = true
		transport.DialTLS = func(network, addr string, _ *tls.Config) (net.Conn, error) {
			return net.Dial(network, addr)
		}
	}
	client := &http.Client{Transport: transport}

	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("ra: build OPTIONS request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ra: http dial %s: %w", u.Host, err)
	}
	resp.Body.Close()

	return &replaySession{
		src: noProtocolSource{scheme: u.Scheme},
		closer: func() error {
			transport.CloseIdleConnections()
			return nil
		},
	}, nil
}
