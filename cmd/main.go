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
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/juicedata/svnrdump/pkg/utils"
	"github.com/juicedata/svnrdump/pkg/version"
)

var logger = utils.GetLogger("dumper")

func main() {
	app := &cli.App{
		Name:      "dumper",
		Usage:     "dump a remote repository to stdout as a dumpfile v3 stream",
		ArgsUsage: "URL",
		Version:   version.Version(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "r",
				Usage: "LOWER[:UPPER] revision range, default 1:HEAD",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log at debug level and show a per-revision progress bar",
			},
			&cli.Int64Flag{
				Name:  "bwlimit",
				Usage: "throttle stdout to N bytes/sec, 0 = unlimited",
			},
			&cli.BoolFlag{
				Name:   "diag",
				Hidden: true,
				Usage:  "start a gops diagnostics agent",
			},
		},
		Action: dump,
	}

	utils.SetProcTitle(fmt.Sprintf("dumper %s", strings.Join(os.Args[1:], " ")))

	if err := app.Run(os.Args); err != nil {
		logger.Errorf("%s", err)
		os.Exit(1)
	}
}
