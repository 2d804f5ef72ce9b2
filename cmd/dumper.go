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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/juju/ratelimit"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/juicedata/svnrdump/pkg/dump"
	"github.com/juicedata/svnrdump/pkg/editor"
	"github.com/juicedata/svnrdump/pkg/ra"
	"github.com/juicedata/svnrdump/pkg/utils"
)

// dump is the CLI's only action: dial the remote session, resolve the
// revision range, and replay it revision by revision through a DumpEditor
// onto stdout. Grammar: dumper URL [-r LOWER[:UPPER]] [-v|--verbose]
// [--bwlimit N], carried from _examples/original_source/svnrdump.c
// (SPEC_FULL.md §9).
func dump(cctx *cli.Context) error {
	if cctx.Args().Len() < 1 {
		cli.ShowAppHelp(cctx)
		return fmt.Errorf("URL is required")
	}
	rawURL := cctx.Args().Get(0)

	if cctx.Bool("verbose") {
		utils.SetLogLevel(logrus.DebugLevel)
	}
	if cctx.Bool("diag") {
		utils.StartDiagAgent()
	}

	ctx := context.Background()

	sess, err := ra.Dial(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("dial %s: %w", rawURL, err)
	}
	defer sess.Close()

	latest, err := sess.LatestRevision(ctx)
	if err != nil {
		return fmt.Errorf("latest revision: %w", err)
	}
	lower, upper, err := parseRevisionRange(cctx.String("r"), latest)
	if err != nil {
		return err
	}
	if lower > upper {
		return fmt.Errorf("invalid revision range %d:%d", lower, upper)
	}

	pool, err := dump.NewScratchPool("")
	if err != nil {
		return err
	}
	defer pool.Close()

	var out io.Writer = os.Stdout
	if n := cctx.Int64("bwlimit"); n > 0 {
		out = ratelimit.Writer(out, ratelimit.NewBucketWithRate(float64(n), n))
	}

	ed, err := dump.NewDumpEditor(editor.Config{FromRev: int64(lower), OutStream: out}, pool)
	if err != nil {
		return err
	}

	progress := utils.NewProgress(!cctx.Bool("verbose"))
	bar := progress.AddRevisionBar("dumping", lower, upper)
	defer progress.Done()

	logger.Infof("dumping r%d:%d from %s", lower, upper, rawURL)
	for rev := lower; rev <= upper; rev++ {
		if err := sess.Replay(ctx, rev, rev, out, ed); err != nil {
			return fmt.Errorf("replay r%d: %w", rev, err)
		}
		bar.Increment()
	}
	return nil
}

// parseRevisionRange parses the -r flag's value, LOWER[:UPPER]. An empty
// string means the whole repository, 1:latest. A bare LOWER with no colon
// means LOWER:latest, matching svnrdump's own -r grammar.
func parseRevisionRange(s string, latest uint64) (lower, upper uint64, err error) {
	if s == "" {
		return 1, latest, nil
	}
	s = strings.TrimPrefix(s, "r")
	parts := strings.SplitN(s, ":", 2)
	lo, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid revision %q: %w", parts[0], err)
	}
	if len(parts) == 1 {
		return lo, latest, nil
	}
	hi, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid revision %q: %w", parts[1], err)
	}
	return lo, hi, nil
}
