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

// Package ra is the external "remote session" collaborator spec.md treats
// as a boundary: something that knows the repository's latest revision
// and can replay a revision range against an editor.Editor, framing
// revision records (not node records — DumpEditor owns those) as it
// goes. The wire protocol actually spoken to a remote server is out of
// scope (spec.md §1); this package owns transport dialing and revision
// record framing only.
package ra

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/juicedata/svnrdump/pkg/dump"
	"github.com/juicedata/svnrdump/pkg/editor"
)

// RevisionEvent is one revision's worth of data: its properties and a
// callback that replays its tree changes against an editor.Editor.
type RevisionEvent struct {
	Revision uint64
	Props    map[string]string
	Apply    func(ed editor.Editor) error
}

// Source supplies revisions one at a time, in ascending order. Next
// returns (nil, nil) once exhausted. A live deployment's Source speaks
// the remote server's protocol; that protocol is out of scope here.
type Source interface {
	Next(ctx context.Context) (*RevisionEvent, error)
}

// Session is the narrow collaborator DumpEditor is driven alongside:
// it reports the latest revision and replays [lower, upper] onto ed,
// writing revision records straight to out.
type Session interface {
	LatestRevision(ctx context.Context) (uint64, error)
	Replay(ctx context.Context, lower, upper uint64, out io.Writer, ed editor.Editor) error
	Close() error
}

// replaySession implements Session generically over any Source.
type replaySession struct {
	latest uint64
	src    Source
	closer func() error
}

func (s *replaySession) LatestRevision(ctx context.Context) (uint64, error) {
	return s.latest, nil
}

// Replay drives ed through exactly one OpenRoot/CloseEdit pair per
// revision in [lower, upper]. Right after OpenRoot (which puts the
// dumpfile magic line at the top of the stream on the first revision) it
// frames and writes that revision's record, then lets the Source's Apply
// callback replay the node changes — matching spec.md §4.4's note that
// revision records are the driver's responsibility, not the editor's.
func (s *replaySession) Replay(ctx context.Context, lower, upper uint64, out io.Writer, ed editor.Editor) error {
	for rev := lower; rev <= upper; rev++ {
		ev, err := s.src.Next(ctx)
		if err != nil {
			return err
		}
		if ev == nil {
			return fmt.Errorf("ra: source exhausted before revision %d", rev)
		}
		if err := ed.OpenRoot(int64(rev) - 1); err != nil {
			return err
		}
		if err := writeRevisionRecord(out, ev.Revision, ev.Props); err != nil {
			return err
		}
		if err := ev.Apply(ed); err != nil {
			return err
		}
		if err := ed.CloseEdit(); err != nil {
			return err
		}
	}
	return nil
}

func (s *replaySession) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer()
}

// writeRevisionRecord writes the "Revision-number"/"Prop-content-length"/
// "Content-length" header trio, the serialized revision properties (reusing
// pkg/dump's PropBuf for the identical K/V/PROPS-END framing), and the
// single blank line that separates a revision record from the node
// records that follow it.
func writeRevisionRecord(out io.Writer, rev uint64, props map[string]string) error {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pb := dump.NewPropBuf()
	for _, k := range keys {
		pb.Set(k, []byte(props[k]))
	}
	data := pb.Serialize()

	if _, err := fmt.Fprintf(out, "Revision-number: %d\n", rev); err != nil {
		return fmt.Errorf("ra: write revision header: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Prop-content-length: %d\n", len(data)); err != nil {
		return fmt.Errorf("ra: write revision prop length: %w", err)
	}
	if _, err := fmt.Fprintf(out, "Content-length: %d\n\n", len(data)); err != nil {
		return fmt.Errorf("ra: write revision content length: %w", err)
	}
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("ra: write revision props: %w", err)
	}
	if _, err := out.Write([]byte("\n")); err != nil {
		return fmt.Errorf("ra: write revision terminator: %w", err)
	}
	return nil
}

// NewFixtureSession builds a Session over a fixed, in-memory sequence of
// revisions, used by tests and by callers replaying a previously captured
// session without a live connection.
func NewFixtureSession(latest uint64, events []*RevisionEvent) Session {
	return &replaySession{latest: latest, src: &sliceSource{events: events}}
}

type sliceSource struct {
	events []*RevisionEvent
	i      int
}

func (s *sliceSource) Next(ctx context.Context) (*RevisionEvent, error) {
	if s.i >= len(s.events) {
		return nil, nil
	}
	ev := s.events[s.i]
	s.i++
	return ev, nil
}

// noProtocolSource is wired into transport-backed sessions returned by
// Dial: speaking the actual wire protocol over the dialed connection is
// out of scope (spec.md §1), so Next says so plainly instead of
// pretending to have data.
type noProtocolSource struct{ scheme string }

func (s noProtocolSource) Next(ctx context.Context) (*RevisionEvent, error) {
	return nil, fmt.Errorf("ra: %s wire protocol not implemented (transport dial only)", s.scheme)
}
