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

import (
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/juicedata/svnrdump/pkg/editor"
)

// ScratchPool owns the temporary directory DeltaSinks carve scratch
// files out of for one dumper run. It holds an advisory flock on a
// marker file inside that directory so two dumper processes never share
// (and silently corrupt) the same scratch area, a resource-safety
// concern spec.md §5 leaves to "arena allocation" but which a
// filesystem-backed implementation needs an explicit guard for.
type ScratchPool struct {
	dir  string
	lock *flock.Flock
}

// NewScratchPool creates (if needed) dir and takes the advisory lock.
func NewScratchPool(dir string) (*ScratchPool, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, resourceErr("scratch pool mkdir", err)
	}
	lk := flock.New(filepath.Join(dir, ".dumper.lock"))
	ok, err := lk.TryLock()
	if err != nil {
		return nil, resourceErr("scratch pool lock", err)
	}
	if !ok {
		return nil, resourceErr("scratch pool lock", os.ErrExist)
	}
	return &ScratchPool{dir: dir, lock: lk}, nil
}

// Close releases the advisory lock. Safe to call on a nil pool.
func (p *ScratchPool) Close() error {
	if p == nil || p.lock == nil {
		return nil
	}
	return p.lock.Unlock()
}

// NewSink opens a new, uniquely-named scratch file in the pool's
// directory and returns a DeltaSink writing svndiff v1 into it.
func (p *ScratchPool) NewSink() (*DeltaSink, error) {
	dir := os.TempDir()
	if p != nil {
		dir = p.dir
	}
	path := filepath.Join(dir, "dumper-delta-"+uuid.NewString()+".tmp")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_RDWR, 0o600)
	if err != nil {
		return nil, resourceErr("open scratch file", err)
	}
	return &DeltaSink{
		path: path,
		file: f,
		enc:  newSvndiffEncoder(f),
	}, nil
}

// DeltaSink accepts streamed binary delta windows for one file's text,
// writes them through a streaming svndiff v1 encoder into a scratch
// file, and reports the final size once the stream ends (spec.md §4.2).
type DeltaSink struct {
	path   string
	file   *os.File
	enc    *svndiffEncoder
	size   int64
	closed bool
}

// Begin returns the window-consumer closure the driver invokes
// repeatedly with delta windows and finally with a sentinel
// end-of-stream window (Window.EOF == true).
func (s *DeltaSink) Begin() editor.WindowHandler {
	return func(window *editor.TxDeltaWindow) error {
		if window.EOF {
			return s.finish()
		}
		n, err := s.enc.WriteWindow(window.Data)
		s.size += int64(n)
		if err != nil {
			s.abort()
			return ioErr("write delta window", err)
		}
		return nil
	}
}

// finish flushes and closes the encoder, stats the scratch file for its
// final size, and leaves the file on disk for DumpWriter.SpliceFile to
// consume. Called once, on the sentinel window.
func (s *DeltaSink) finish() error {
	if err := s.enc.Close(); err != nil {
		s.abort()
		return ioErr("close svndiff encoder", err)
	}
	info, err := s.file.Stat()
	if err != nil {
		s.abort()
		return ioErr("stat scratch file", err)
	}
	s.size = info.Size()
	if err := s.file.Close(); err != nil {
		return ioErr("close scratch file", err)
	}
	s.closed = true
	return nil
}

// abort removes the partial scratch file on any intermediate error, per
// spec.md §4.2 ("On any intermediate error the partial file is removed").
func (s *DeltaSink) abort() {
	_ = s.file.Close()
	_ = os.Remove(s.path)
	s.closed = true
}

// Path returns the scratch file path once finish has run successfully.
func (s *DeltaSink) Path() string { return s.path }

// Size returns the final byte size of the svndiff stream, valid once
// finish has run successfully.
func (s *DeltaSink) Size() int64 { return s.size }

// Remove deletes the scratch file after DumpWriter has spliced it into
// the output stream ("The scratch file is removed after successful
// splice", spec.md §4.2).
func (s *DeltaSink) Remove() error {
	if s.closed {
		return ioErr("remove scratch file", os.Remove(s.path))
	}
	s.abort()
	return nil
}

var _ io.Closer = (*ScratchPool)(nil)
