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

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
)

// Progress renders verbose-mode feedback for a dump run: one bar tracking
// revisions replayed against the expected range, and a spinner for a byte
// counter that doesn't have a known total up front. Modeled on the
// utils.NewProgress / AddXSpinner family diluga-juicefs's cmd/fsck.go calls
// into, adapted from "blocks scanned" to "revisions dumped".
type Progress struct {
	Quiet bool
	p     *mpb.Progress
}

// NewProgress creates a Progress. When quiet is true (the CLI's default,
// non-verbose mode) no bars are drawn and callers should fall back to a
// single summary log line using the returned counters' Current().
func NewProgress(quiet bool) *Progress {
	pr := &Progress{Quiet: quiet}
	if !quiet {
		pr.p = mpb.New(mpb.WithWidth(64), mpb.WithRefreshRate(180*time.Millisecond))
	}
	return pr
}

// RevisionBar tracks revisions dumped against a known upper bound.
type RevisionBar struct {
	bar     *mpb.Bar
	current int64
}

// AddRevisionBar adds a bar spanning [lower, upper] revisions.
func (pr *Progress) AddRevisionBar(name string, lower, upper uint64) *RevisionBar {
	total := int64(upper-lower) + 1
	rb := &RevisionBar{}
	if pr.p == nil {
		return rb
	}
	rb.bar = pr.p.AddBar(total,
		mpb.PrependDecorators(decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight})),
		mpb.AppendDecorators(decor.CountersNoUnit("%d / %d rev")),
	)
	return rb
}

// Increment advances the bar by one revision.
func (rb *RevisionBar) Increment() {
	atomic.AddInt64(&rb.current, 1)
	if rb.bar != nil {
		rb.bar.Increment()
	}
}

// Current returns the number of revisions processed so far.
func (rb *RevisionBar) Current() int64 {
	return atomic.LoadInt64(&rb.current)
}

// ByteSpinner tracks a running byte total with no known upper bound, such
// as total bytes spliced into the dumpfile so far.
type ByteSpinner struct {
	bar     *mpb.Bar
	current int64
}

// AddByteSpinner adds an unbounded byte counter.
func (pr *Progress) AddByteSpinner(name string) *ByteSpinner {
	bs := &ByteSpinner{}
	if pr.p == nil {
		return bs
	}
	bs.bar = pr.p.AddSpinner(1,
		mpb.PrependDecorators(decor.Name(name, decor.WC{W: len(name) + 1, C: decor.DidentRight})),
		mpb.AppendDecorators(decor.Any(func(statistics decor.Statistics) string {
			return fmt.Sprintf("%d bytes", atomic.LoadInt64(&bs.current))
		})),
	)
	return bs
}

// IncrInt64 adds n bytes to the running total.
func (bs *ByteSpinner) IncrInt64(n int64) {
	atomic.AddInt64(&bs.current, n)
}

// Current returns the running byte total.
func (bs *ByteSpinner) Current() int64 {
	return atomic.LoadInt64(&bs.current)
}

// Done marks every tracked bar/spinner complete and waits for the render
// goroutine to flush.
func (pr *Progress) Done() {
	if pr.p != nil {
		pr.p.Wait()
	}
}
