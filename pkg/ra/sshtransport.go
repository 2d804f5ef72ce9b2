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
	"net"
	"net/url"
	"os"
	"path/filepath"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

// dialSSH opens the svn+ssh:// transport connection, matching how
// svnserve's tunnel mode expects the client already authenticated at the
// transport layer. The ra-svn protocol spoken over this connection is
// out of scope here (spec.md §1) — see noProtocolSource.
func dialSSH(ctx context.Context, u *url.URL) (Session, error) {
	user := u.User.Username()
	if user == "" {
		user = os.Getenv("USER")
	}
	host := u.Host
	if _, _, err := net.SplitHostPort(host); err != nil {
		host = net.JoinHostPort(host, "22")
	}

	known := filepath.Join(os.Getenv("HOME"), ".ssh", "known_hosts")
	hostKeyCallback, err := knownhosts.New(known)
	if err != nil {
		return nil, fmt.Errorf("ra: load %s: %w", known, err)
	}

	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeysCallback(sshAgentSigners)},
		HostKeyCallback: hostKeyCallback,
	}
	client, err := ssh.Dial("tcp", host, cfg)
	if err != nil {
		return nil, fmt.Errorf("ra: ssh dial %s: %w", host, err)
	}
	return &replaySession{
		src:    noProtocolSource{scheme: "svn+ssh"},
		closer: client.Close,
	}, nil
}

// sshAgentSigners supplies no signers: it consults neither SSH_AUTH_SOCK
// nor any key file and always returns an error, so public-key
// authentication is never offered and dialSSH succeeds only against a
// server that accepts a client without credentials.
func sshAgentSigners() ([]ssh.Signer, error) {
	return nil, fmt.Errorf("ra: no SSH agent wired")
}
